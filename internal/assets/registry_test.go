package assets

import (
	"testing"

	"github.com/Faultbox/fridgeview/internal/config"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	for _, k := range []Key{KeyApple, KeyFish, KeyMilk} {
		if !r.Lookup(k).HasSource() {
			t.Errorf("%v should have a model source", k)
		}
	}
	if r.Lookup(KeyEgg).HasSource() {
		t.Error("egg should be procedural only")
	}

	d := r.Lookup(KeyUnresolved)
	if d.HasSource() || d.Key != KeyUnresolved {
		t.Errorf("unresolved descriptor = %+v", d)
	}
	if d.Scale != 1 || d.NormalizationTarget != DefaultNormalizationTarget {
		t.Errorf("unresolved descriptor defaults = %+v", d)
	}
}

func TestNewRegistryOverrides(t *testing.T) {
	cfg := config.AssetsConfig{
		NormalizationTarget: 0.3,
		Models: map[string]config.ModelConfig{
			"egg":    {URI: "s3://models/egg.glb", Scale: 2, Offset: [3]float32{0, 0.1, 0}},
			"fish":   {Target: 0.5, Rotation: [3]float32{0, 1.5, 0}},
			"durian": {URI: "durian.glb"},
		},
	}

	r, unknown := NewRegistry(cfg)

	if len(unknown) != 1 || unknown[0] != "durian" {
		t.Errorf("unknown = %v, want [durian]", unknown)
	}

	egg := r.Lookup(KeyEgg)
	if egg.SourceURI != "s3://models/egg.glb" || egg.Scale != 2 || egg.Offset.Y != 0.1 {
		t.Errorf("egg = %+v", egg)
	}
	if egg.NormalizationTarget != 0.3 {
		t.Errorf("egg target = %v, want config default 0.3", egg.NormalizationTarget)
	}

	fish := r.Lookup(KeyFish)
	if fish.SourceURI != "foods/fish.glb" {
		t.Errorf("fish uri changed to %q", fish.SourceURI)
	}
	if fish.NormalizationTarget != 0.5 || fish.Rotation.Y != 1.5 {
		t.Errorf("fish = %+v", fish)
	}

	if apple := r.Lookup(KeyApple); apple.NormalizationTarget != 0.3 {
		t.Errorf("apple target = %v", apple.NormalizationTarget)
	}
}

func TestRegistrySetFillsDefaults(t *testing.T) {
	r := DefaultRegistry()
	r.Set(Descriptor{Key: KeyMilk, SourceURI: "milk2.glb"})

	d := r.Lookup(KeyMilk)
	if d.SourceURI != "milk2.glb" || d.Scale != 1 || d.NormalizationTarget != DefaultNormalizationTarget {
		t.Errorf("milk = %+v", d)
	}
}
