// Package visual builds renderable node trees for scene objects: loaded
// models normalized to a common size, or procedural stand-ins.
package visual

import (
	"github.com/Faultbox/fridgeview/internal/engine/model"
)

// Highlight emphasis applied to every mesh of a selected visual.
var (
	HighlightColor     = [3]float32{0, 200.0 / 255, 150.0 / 255} // #00C896
	HighlightIntensity = float32(0.65)
)

type emphasis struct {
	color     [3]float32
	intensity float32
}

// Visual is one independent instance of an object's geometry.
type Visual struct {
	Root        *model.Node
	baseline    map[*model.Node]emphasis
	highlighted bool
}

// NewVisual wraps root and records the emissive state of each mesh node as
// the baseline that unhighlighting restores.
func NewVisual(root *model.Node) *Visual {
	v := &Visual{Root: root, baseline: make(map[*model.Node]emphasis)}
	root.Walk(func(n *model.Node) {
		if n.Mesh != nil {
			v.baseline[n] = emphasis{color: n.Material.Emissive, intensity: n.Material.EmissiveIntensity}
		}
	})
	return v
}

// SetHighlighted sets or clears the highlight emphasis. Geometry is never
// touched, and repeated calls with the same value change nothing.
func (v *Visual) SetHighlighted(on bool) {
	v.highlighted = on
	for n, base := range v.baseline {
		if on {
			n.Material.Emissive = HighlightColor
			n.Material.EmissiveIntensity = HighlightIntensity
		} else {
			n.Material.Emissive = base.color
			n.Material.EmissiveIntensity = base.intensity
		}
	}
}

// Highlighted reports the current emphasis state.
func (v *Visual) Highlighted() bool {
	return v.highlighted
}
