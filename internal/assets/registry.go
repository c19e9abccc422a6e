package assets

import (
	"github.com/Faultbox/fridgeview/internal/config"
	"github.com/Faultbox/fridgeview/pkg/math"
)

// DefaultNormalizationTarget is the largest bounding dimension loaded models
// are rescaled to.
const DefaultNormalizationTarget float32 = 0.22

// Descriptor describes how one key is rendered.
type Descriptor struct {
	Key Key
	// SourceURI is empty when the key only has a procedural visual.
	SourceURI           string
	NormalizationTarget float32
	Offset              math.Vec3
	Rotation            math.Vec3 // Euler XYZ, radians
	Scale               float32
}

// HasSource reports whether an external model is configured.
func (d Descriptor) HasSource() bool {
	return d.SourceURI != ""
}

// Registry maps keys to descriptors.
type Registry struct {
	entries map[Key]Descriptor
}

func newDescriptor(k Key, uri string) Descriptor {
	return Descriptor{Key: k, SourceURI: uri, NormalizationTarget: DefaultNormalizationTarget, Scale: 1}
}

// DefaultRegistry returns the built-in descriptors. Egg has no model file and
// always uses its procedural visual.
func DefaultRegistry() *Registry {
	return &Registry{entries: map[Key]Descriptor{
		KeyApple: newDescriptor(KeyApple, "foods/apple.glb"),
		KeyFish:  newDescriptor(KeyFish, "foods/fish.glb"),
		KeyMilk:  newDescriptor(KeyMilk, "foods/milk.glb"),
		KeyEgg:   newDescriptor(KeyEgg, ""),
	}}
}

// NewRegistry builds the default registry and applies per-key overrides from
// cfg. Unknown key names are skipped and returned so the caller can log them.
func NewRegistry(cfg config.AssetsConfig) (*Registry, []string) {
	r := DefaultRegistry()
	target := cfg.NormalizationTarget
	if !(target > 0) {
		target = DefaultNormalizationTarget
	}

	for k, d := range r.entries {
		d.NormalizationTarget = target
		r.entries[k] = d
	}

	var unknown []string
	for name, m := range cfg.Models {
		k, err := ParseKey(name)
		if err != nil || k == KeyUnresolved {
			unknown = append(unknown, name)
			continue
		}
		d := r.entries[k]
		if m.URI != "" {
			d.SourceURI = m.URI
		}
		if m.Target > 0 {
			d.NormalizationTarget = m.Target
		}
		if m.Scale > 0 {
			d.Scale = m.Scale
		}
		d.Rotation = math.V3(m.Rotation[0], m.Rotation[1], m.Rotation[2])
		d.Offset = math.V3(m.Offset[0], m.Offset[1], m.Offset[2])
		r.entries[k] = d
	}
	return r, unknown
}

// Lookup returns the descriptor for k. KeyUnresolved and unknown keys yield a
// descriptor with no source, which renders the neutral primitive.
func (r *Registry) Lookup(k Key) Descriptor {
	if d, ok := r.entries[k]; ok {
		return d
	}
	return newDescriptor(KeyUnresolved, "")
}

// Set replaces the descriptor for d.Key.
func (r *Registry) Set(d Descriptor) {
	if d.NormalizationTarget <= 0 {
		d.NormalizationTarget = DefaultNormalizationTarget
	}
	if d.Scale <= 0 {
		d.Scale = 1
	}
	r.entries[d.Key] = d
}
