package assets

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/pkg/math"
)

// triangleGLB encodes one glowing triangle under a translated node.
func triangleGLB(t *testing.T) []byte {
	t.Helper()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 4, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Materials = []*gltf.Material{{Name: "glow", EmissiveFactor: [3]float64{0, 1, 0}}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
			Material:   gltf.Index(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "Body", Mesh: gltf.Index(0), Translation: [3]float64{1, 0, 0}}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		t.Fatalf("encoding glb: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeGLTF(t *testing.T) {
	root, err := DecodeGLTF(triangleGLB(t))
	if err != nil {
		t.Fatalf("DecodeGLTF: %v", err)
	}

	body := root.Find("Body")
	if body == nil {
		t.Fatal("node Body not found")
	}
	if body.Transform.Translation != math.V3(1, 0, 0) {
		t.Errorf("Body translation = %+v", body.Transform.Translation)
	}
	if len(body.Children) != 1 || body.Children[0].Mesh == nil {
		t.Fatalf("Body should hold one primitive node, got %d children", len(body.Children))
	}

	prim := body.Children[0]
	if len(prim.Mesh.Indices) != 3 || len(prim.Mesh.Vertices) != 3 {
		t.Errorf("mesh has %d vertices / %d indices", len(prim.Mesh.Vertices), len(prim.Mesh.Indices))
	}
	if n := prim.Mesh.Vertices[0].Normal; n != [3]float32{0, 0, 1} {
		t.Errorf("generated normal = %v, want +Z", n)
	}
	if prim.Material.Emissive != [3]float32{0, 1, 0} || prim.Material.EmissiveIntensity != 1 {
		t.Errorf("material emissive = %v x %v", prim.Material.Emissive, prim.Material.EmissiveIntensity)
	}

	b := root.Bounds(math.Identity())
	if b.Min != [3]float32{1, 0, 0} || b.Max != [3]float32{3, 4, 0} {
		t.Errorf("bounds = %+v", b)
	}
}

func TestDecodeGLTFEmpty(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{{Name: "Empty"}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		t.Fatalf("encoding glb: %v", err)
	}

	if _, err := DecodeGLTF(buf.Bytes()); !errors.Is(err, ErrEmptyModel) {
		t.Errorf("error = %v, want ErrEmptyModel", err)
	}
}

func TestDecodeGLTFGarbage(t *testing.T) {
	if _, err := DecodeGLTF([]byte("not a model")); err == nil {
		t.Error("expected error decoding garbage")
	}
}

func TestDecodeGLTFAccessorOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"position", `{"asset":{"version":"2.0"},"meshes":[{"primitives":[{"attributes":{"POSITION":5}}]}],"nodes":[{"mesh":0}],"scenes":[{"nodes":[0]}]}`},
		{"negative position", `{"asset":{"version":"2.0"},"meshes":[{"primitives":[{"attributes":{"POSITION":-1}}]}],"nodes":[{"mesh":0}],"scenes":[{"nodes":[0]}]}`},
		{"no scenes", `{"asset":{"version":"2.0"},"meshes":[{"primitives":[{"attributes":{"POSITION":3}}]}],"nodes":[{"mesh":0}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeGLTF([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), "out of range") {
				t.Errorf("error = %v, want accessor out of range", err)
			}
		})
	}
}

func TestDecodeGLTFBadNormalAndIndexAccessors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *gltf.Primitive)
	}{
		{"normal", func(p *gltf.Primitive) { p.Attributes[gltf.NORMAL] = 42 }},
		{"indices", func(p *gltf.Primitive) { p.Indices = gltf.Index(42) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := gltf.NewDocument()
			pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
			prim := &gltf.Primitive{Attributes: map[string]int{gltf.POSITION: pos}}
			tt.mutate(prim)
			doc.Meshes = []*gltf.Mesh{{Name: "tri", Primitives: []*gltf.Primitive{prim}}}
			doc.Nodes = []*gltf.Node{{Name: "Body", Mesh: gltf.Index(0)}}
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

			var buf bytes.Buffer
			enc := gltf.NewEncoder(&buf)
			enc.AsBinary = true
			if err := enc.Encode(doc); err != nil {
				t.Fatalf("encoding glb: %v", err)
			}

			_, err := DecodeGLTF(buf.Bytes())
			if err == nil || !strings.Contains(err.Error(), "accessor 42 out of range") {
				t.Errorf("error = %v, want accessor 42 out of range", err)
			}
		})
	}
}

func TestDecodeGLTFWithoutScenesUsesTopLevelNodes(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{
		Name:       "tri",
		Primitives: []*gltf.Primitive{{Attributes: map[string]int{gltf.POSITION: pos}}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "Leaf", Mesh: gltf.Index(0)},
		{Name: "Shelf", Children: []int{0}},
	}
	doc.Scenes = nil
	doc.Scene = nil

	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		t.Fatalf("encoding glb: %v", err)
	}

	root, err := DecodeGLTF(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeGLTF: %v", err)
	}
	if len(root.Children) != 1 || root.Children[0].Name != "Shelf" {
		t.Fatalf("roots = %d, want only Shelf", len(root.Children))
	}
	leaves := 0
	root.Walk(func(n *model.Node) {
		if n.Name == "Leaf" {
			leaves++
		}
	})
	if leaves != 1 {
		t.Errorf("Leaf appears %d times, want 1", leaves)
	}
}

func TestDecomposeMatrix(t *testing.T) {
	want := math.Compose(math.V3(1, 2, 3), math.QuatFromAxisAngle(math.V3(0, 1, 0), 0.7), math.V3(2, 2, 2))
	var m [16]float64
	for i, v := range want {
		m[i] = float64(v)
	}

	got := decompose(m).Matrix()
	for i := range want {
		if d := got[i] - want[i]; d > 1e-4 || d < -1e-4 {
			t.Fatalf("element %d = %v, want %v", i, got[i], want[i])
		}
	}
}
