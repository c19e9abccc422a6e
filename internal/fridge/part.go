package fridge

import (
	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/pkg/math"
)

// PartKind is how an articulated part moves.
type PartKind int

const (
	// Hinge rotates about the node's local Y axis (doors).
	Hinge PartKind = iota
	// Slide translates along the node's local Z axis (drawers).
	Slide
)

func (k PartKind) String() string {
	if k == Slide {
		return "slide"
	}
	return "hinge"
}

// Part IDs of the built-in cabinet.
const (
	FridgeDoor  = "fridge_door"
	FreezerDoor = "freezer_door"
	DrawerUpper = "drawer_upper"
	DrawerLower = "drawer_lower"
)

// settleEpsilon snaps a part onto its target once the remaining gap is this small.
const settleEpsilon = 1e-4

// Part is a door or drawer with an open/closed target and an animated value.
type Part struct {
	ID   string
	Kind PartKind
	// Value is the current angle (radians) or offset; it only ever moves toward Target.
	Value     float32
	Open      bool
	OpenValue float32
	Rate      float32
	// Dependents are closed whenever this part closes.
	Dependents []string
	// Parent, when set, must be open for this part to show, be picked or open.
	Parent string

	node *model.Node
	rest model.Transform
	// hits are the nodes that toggle the part when tapped; empty means node.
	hits []*model.Node
}

func newPart(id string, kind PartKind, node *model.Node, openValue, rate float32) *Part {
	return &Part{
		ID:        id,
		Kind:      kind,
		OpenValue: openValue,
		Rate:      rate,
		node:      node,
		rest:      node.Transform,
	}
}

// Target returns the value implied by Open.
func (p *Part) Target() float32 {
	if p.Open {
		return p.OpenValue
	}
	return 0
}

// Settled reports whether the part has reached its target.
func (p *Part) Settled() bool {
	return p.Value == p.Target()
}

// Node returns the scene node the part moves.
func (p *Part) Node() *model.Node {
	return p.node
}

func (p *Part) advance(dt float32) {
	target := p.Target()
	if p.Value == target {
		return
	}
	p.Value = math.Damp(p.Value, target, p.Rate, dt)
	if math.Abs(target-p.Value) < settleEpsilon {
		p.Value = target
	}
	p.apply()
}

// apply writes Value into the node transform, relative to its rest pose.
func (p *Part) apply() {
	t := p.rest
	switch p.Kind {
	case Hinge:
		t.Rotation = p.rest.Rotation.Mul(math.QuatFromAxisAngle(math.V3(0, 1, 0), p.Value))
	case Slide:
		t.Translation = p.rest.Translation.Add(p.rest.Rotation.ToMat4().TransformPoint(math.V3(0, 0, p.Value)))
	}
	p.node.Transform = t
}

func (p *Part) hitNodes() []*model.Node {
	if len(p.hits) > 0 {
		return p.hits
	}
	return []*model.Node{p.node}
}
