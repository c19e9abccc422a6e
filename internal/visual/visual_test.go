package visual

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Faultbox/fridgeview/internal/assets"
	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/pkg/math"
)

func materials(root *model.Node) []model.Material {
	var out []model.Material
	root.Walk(func(n *model.Node) {
		if n.Mesh != nil {
			out = append(out, n.Material)
		}
	})
	return out
}

func meshes(root *model.Node) []*model.Mesh {
	var out []*model.Mesh
	root.Walk(func(n *model.Node) {
		if n.Mesh != nil {
			out = append(out, n.Mesh)
		}
	})
	return out
}

func equalMaterials(a, b []model.Material) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestProceduralPerKey(t *testing.T) {
	tests := []struct {
		key    assets.Key
		name   string
		meshes int
	}{
		{assets.KeyApple, "apple", 3},
		{assets.KeyFish, "fish", 5},
		{assets.KeyMilk, "milk", 2},
		{assets.KeyEgg, "egg", 3},
		{assets.KeyUnresolved, "unresolved", 1},
		{assets.Key(99), "unresolved", 1},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			root := Procedural(tt.key)
			if root.Name != tt.name {
				t.Errorf("root name = %q, want %q", root.Name, tt.name)
			}
			if n := len(meshes(root)); n != tt.meshes {
				t.Errorf("mesh count = %d, want %d", n, tt.meshes)
			}
			if !root.Bounds(math.Identity()).Valid() {
				t.Error("procedural visual has no bounds")
			}
		})
	}
}

func TestHighlightIdempotentAndReversible(t *testing.T) {
	root := Procedural(assets.KeyMilk)
	// Give one mesh a non-zero baseline so restoring is observable.
	root.Children[0].Material.Emissive = [3]float32{0.1, 0.2, 0.3}
	root.Children[0].Material.EmissiveIntensity = 0.4

	v := NewVisual(root)
	baseline := materials(root)
	geometry := meshes(root)

	v.SetHighlighted(true)
	once := materials(root)
	v.SetHighlighted(true)
	twice := materials(root)

	if !equalMaterials(once, twice) {
		t.Error("highlighting twice differs from highlighting once")
	}
	for _, m := range once {
		if m.Emissive != HighlightColor || m.EmissiveIntensity != HighlightIntensity {
			t.Errorf("highlighted material = %+v", m)
		}
		if m.BaseColor[3] != 1 {
			t.Error("highlight must not touch base color")
		}
	}

	for i := 0; i < 3; i++ {
		v.SetHighlighted(true)
	}
	v.SetHighlighted(false)
	if !equalMaterials(materials(root), baseline) {
		t.Error("unhighlight did not restore baseline emphasis")
	}

	after := meshes(root)
	for i := range geometry {
		if after[i] != geometry[i] {
			t.Fatal("highlight changed geometry")
		}
	}
}

// stubLoader returns a fixed template or error after release is closed.
type stubLoader struct {
	template *model.Node
	err      error
	release  chan struct{}
}

func (l *stubLoader) Load(ctx context.Context, uri string) (*model.Node, error) {
	if l.release != nil {
		select {
		case <-l.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return l.template, l.err
}

func waitForResults(t *testing.T, f *Factory, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for f.Mailbox().Len() < n {
		select {
		case <-f.Mailbox().Notify():
		case <-time.After(10 * time.Millisecond):
		case <-deadline:
			t.Fatalf("timed out waiting for %d load results", n)
		}
	}
}

// bigTemplate is a 2x4x1 box, far larger than the normalization target.
func bigTemplate() *model.Node {
	return model.NewGroup("scene").Add(
		model.NewMeshNode("mesh", model.Box(2, 4, 1), model.Material{BaseColor: [4]float32{1, 1, 1, 1}}, model.IdentityTransform()),
	)
}

func TestFactoryProceduralOnly(t *testing.T) {
	f := NewFactory(assets.DefaultRegistry(), nil, nil)

	h := f.Build(assets.KeyApple, false)
	if h.State() != StateProcedural {
		t.Errorf("state = %v, want procedural", h.State())
	}
	if h.Node().Children[0].Name != "apple" {
		t.Errorf("visual = %q", h.Node().Children[0].Name)
	}

	egg := NewFactory(assets.DefaultRegistry(), &stubLoader{}, nil).Build(assets.KeyEgg, true)
	if egg.State() != StateProcedural {
		t.Errorf("egg has no source, state = %v", egg.State())
	}
	if !egg.Highlighted() {
		t.Error("initial highlight not applied")
	}
}

func TestFactoryLoadSwapsNormalizedModel(t *testing.T) {
	f := NewFactory(assets.DefaultRegistry(), &stubLoader{template: bigTemplate()}, nil)

	h := f.Build(assets.KeyFish, true)
	if h.State() != StateLoading {
		t.Fatalf("state = %v, want loading", h.State())
	}
	if h.Node().Children[0].Name != "fish" {
		t.Error("procedural visual should show while loading")
	}

	waitForResults(t, f, 1)
	if n := f.Drain(); n != 1 {
		t.Fatalf("Drain applied %d, want 1", n)
	}
	if h.State() != StateLoaded {
		t.Fatalf("state = %v, want loaded", h.State())
	}

	size := h.Node().Bounds(math.Identity()).Size().MaxComponent()
	if d := size - assets.DefaultNormalizationTarget; d > 1e-4 || d < -1e-4 {
		t.Errorf("normalized size = %v, want %v", size, assets.DefaultNormalizationTarget)
	}
	for _, m := range materials(h.Node()) {
		if m.Emissive != HighlightColor {
			t.Error("highlight not carried over to loaded model")
		}
	}
}

func TestFactoryLoadedInstancesAreIndependent(t *testing.T) {
	tmpl := bigTemplate()
	f := NewFactory(assets.DefaultRegistry(), &stubLoader{template: tmpl}, nil)

	a := f.Build(assets.KeyMilk, false)
	b := f.Build(assets.KeyMilk, false)
	waitForResults(t, f, 2)
	f.Drain()

	a.SetHighlighted(true)
	for _, m := range materials(b.Node()) {
		if m.Emissive == HighlightColor {
			t.Fatal("highlighting one placement changed another")
		}
	}
	for _, m := range materials(tmpl) {
		if m.Emissive == HighlightColor {
			t.Fatal("highlighting a placement changed the cached template")
		}
	}
}

func TestFactoryLoadFailureFallsBack(t *testing.T) {
	f := NewFactory(assets.DefaultRegistry(), &stubLoader{err: errors.New("404")}, nil)

	h := f.Build(assets.KeyApple, false)
	waitForResults(t, f, 1)
	if n := f.Drain(); n != 0 {
		t.Errorf("Drain applied %d, want 0", n)
	}
	if h.State() != StateFallback {
		t.Errorf("state = %v, want fallback", h.State())
	}
	if h.Node().Children[0].Name != "apple" {
		t.Error("fallback should keep the procedural apple")
	}
}

func TestFactoryReleasedHandleIgnoresResult(t *testing.T) {
	loader := &stubLoader{template: bigTemplate(), release: make(chan struct{})}
	f := NewFactory(assets.DefaultRegistry(), loader, nil)

	h := f.Build(assets.KeyFish, false)
	h.Release()
	close(loader.release)

	waitForResults(t, f, 1)
	if n := f.Drain(); n != 0 {
		t.Errorf("Drain applied %d to a released handle", n)
	}
	if h.Node().Children[0].Name != "fish" {
		t.Error("released handle visual changed")
	}
	h.Release()
}

func TestNormalize(t *testing.T) {
	desc := assets.Descriptor{
		NormalizationTarget: 0.5,
		Scale:               2,
		Offset:              math.V3(0, 1, 0),
	}

	got := Normalize(bigTemplate(), desc)
	size := got.Bounds(math.Identity()).Size().MaxComponent()
	if d := size - 1; d > 1e-4 || d < -1e-4 {
		t.Errorf("size = %v, want 1 (target 0.5 x scale 2)", size)
	}
	if got.Transform.Translation != desc.Offset {
		t.Errorf("offset = %+v", got.Transform.Translation)
	}

	empty := Normalize(model.NewGroup("empty"), desc)
	if empty.Transform.Scale != math.V3(2, 2, 2) {
		t.Errorf("degenerate bounds scale = %+v, want plain scale", empty.Transform.Scale)
	}
}
