// Package fridge models the viewer's container: static cabinet geometry,
// articulated doors and drawers, and the scene objects placed inside.
package fridge

import (
	"go.uber.org/zap"

	"github.com/Faultbox/fridgeview/internal/assets"
	"github.com/Faultbox/fridgeview/internal/config"
	"github.com/Faultbox/fridgeview/internal/engine/lighting"
	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/internal/engine/picking"
	"github.com/Faultbox/fridgeview/internal/visual"
	"github.com/Faultbox/fridgeview/pkg/math"
)

// SceneObject is an item placed in the container.
type SceneObject struct {
	ID          string
	DisplayName string
	// AnchorNodeName optionally names a container node to mount the object on.
	AnchorNodeName string
	Category       string
	Quantity       string
	ExpiryDate     string
}

// Selection pulse settings.
const (
	selectedScale = 1.08
	pulseRate     = 18
	pulseEpsilon  = 1e-4
)

// Options configures a container.
type Options struct {
	Articulation config.ArticulationConfig
	Logger       *zap.Logger
}

func (o Options) withDefaults() Options {
	def := config.Default().Articulation
	a := &o.Articulation
	if !(a.DoorRate > 0) {
		a.DoorRate = def.DoorRate
	}
	if !(a.DrawerRate > 0) {
		a.DrawerRate = def.DrawerRate
	}
	if !(a.DoorOpenAngle > 0) {
		a.DoorOpenAngle = def.DoorOpenAngle
	}
	if !(a.DrawerTravel > 0) {
		a.DrawerTravel = def.DrawerTravel
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

type placement struct {
	obj SceneObject
	key assets.Key
	// handle is nil for objects adopted from a template anchor node.
	handle  *visual.Handle
	adopted *visual.Visual
	node    *model.Node
	base    model.Transform
	pulse   float32
	hidden  bool
}

func (p *placement) setHighlighted(on bool) {
	if p.handle != nil {
		p.handle.SetHighlighted(on)
	} else {
		p.adopted.SetHighlighted(on)
	}
}

func (p *placement) applyTransform() {
	t := p.base
	t.Scale = p.base.Scale.Scale(p.pulse)
	p.node.Transform = t
	p.node.Hidden = p.hidden
}

// Container is the root of the viewer scene. It is not safe for concurrent
// use; all calls come from the frame loop.
type Container struct {
	root    *model.Node
	objects *model.Node
	parts   map[string]*Part
	partIDs []string
	light   lighting.PointLight

	template bool
	factory  *visual.Factory
	log      *zap.Logger

	placed   map[string]*placement
	order    []string
	selected string
}

// NewDefault builds the built-in primitive cabinet. A nil factory builds
// procedural visuals only.
func NewDefault(factory *visual.Factory, opts Options) *Container {
	opts = opts.withDefaults()
	root, parts := buildCabinet(opts.Articulation)
	return newContainer(root, parts, false, factory, opts)
}

// FromTemplate builds a container from an external model. Nodes named Door
// or FridgeDoor, FreezerDoor, DrawerUpper and DrawerLower become articulated
// parts; every other node is static and may serve as an anchor.
func FromTemplate(tmpl *model.Node, factory *visual.Factory, opts Options) *Container {
	opts = opts.withDefaults()
	root := model.NewGroup("Fridge").Add(tmpl.Clone())
	a := opts.Articulation

	var parts []*Part
	fridgeDoor := root.Find("Door")
	if fridgeDoor == nil {
		fridgeDoor = root.Find("FridgeDoor")
	}
	if fridgeDoor != nil {
		parts = append(parts, newPart(FridgeDoor, Hinge, fridgeDoor, a.DoorOpenAngle, a.DoorRate))
	}
	freezer := root.Find("FreezerDoor")
	var freezerPart *Part
	if freezer != nil {
		freezerPart = newPart(FreezerDoor, Hinge, freezer, a.DoorOpenAngle, a.DoorRate)
		parts = append(parts, freezerPart)
	}
	for _, d := range []struct{ id, node string }{{DrawerUpper, "DrawerUpper"}, {DrawerLower, "DrawerLower"}} {
		n := root.Find(d.node)
		if n == nil {
			continue
		}
		p := newPart(d.id, Slide, n, a.DrawerTravel, a.DrawerRate)
		if freezerPart != nil {
			p.Parent = FreezerDoor
			freezerPart.Dependents = append(freezerPart.Dependents, d.id)
		}
		parts = append(parts, p)
	}

	return newContainer(root, parts, true, factory, opts)
}

func newContainer(root *model.Node, parts []*Part, template bool, factory *visual.Factory, opts Options) *Container {
	if factory == nil {
		factory = visual.NewFactory(nil, nil, opts.Logger)
	}
	objects := model.NewGroup("Objects")
	root.Add(objects)

	c := &Container{
		root:     root,
		objects:  objects,
		parts:    make(map[string]*Part),
		light:    defaultLight(),
		template: template,
		factory:  factory,
		log:      opts.Logger,
		placed:   make(map[string]*placement),
	}
	for _, p := range parts {
		c.parts[p.ID] = p
		c.partIDs = append(c.partIDs, p.ID)
	}
	c.syncPartVisibility()
	return c
}

// Part returns the part with the given ID.
func (c *Container) Part(id string) (*Part, bool) {
	p, ok := c.parts[id]
	return p, ok
}

// Parts returns every part in construction order.
func (c *Container) Parts() []*Part {
	out := make([]*Part, 0, len(c.partIDs))
	for _, id := range c.partIDs {
		out = append(out, c.parts[id])
	}
	return out
}

// SetArticulation sets a part's open target. It reports whether the target
// changed: unknown parts, unchanged targets and opening a part whose parent
// is closed are no-ops. Closing a part closes its dependents in the same call.
func (c *Container) SetArticulation(id string, open bool) bool {
	p, ok := c.parts[id]
	if !ok {
		c.log.Debug("articulation ignored: unknown part", zap.String("part", id))
		return false
	}
	if p.Open == open {
		return false
	}
	if open && !c.parentOpen(p) {
		c.log.Debug("articulation ignored: parent closed", zap.String("part", id), zap.String("parent", p.Parent))
		return false
	}

	p.Open = open
	if !open {
		c.closeDependents(p, 0)
	}
	c.syncPartVisibility()
	return true
}

// ToggleArticulation flips a part's open target. See SetArticulation.
func (c *Container) ToggleArticulation(id string) bool {
	p, ok := c.parts[id]
	if !ok {
		c.log.Debug("articulation ignored: unknown part", zap.String("part", id))
		return false
	}
	return c.SetArticulation(id, !p.Open)
}

func (c *Container) parentOpen(p *Part) bool {
	if p.Parent == "" {
		return true
	}
	parent, ok := c.parts[p.Parent]
	return !ok || parent.Open
}

func (c *Container) closeDependents(p *Part, depth int) {
	if depth > len(c.parts) {
		return
	}
	for _, id := range p.Dependents {
		if dep, ok := c.parts[id]; ok {
			dep.Open = false
			c.closeDependents(dep, depth+1)
		}
	}
}

func (c *Container) syncPartVisibility() {
	for _, p := range c.parts {
		if p.Parent != "" {
			p.node.Hidden = !c.parentOpen(p)
		}
	}
}

// Light returns the interior light.
func (c *Container) Light() lighting.PointLight {
	return c.light
}

// Root returns the scene root. Callers must treat it as read-only.
func (c *Container) Root() *model.Node {
	return c.root
}

// Advance steps every animation by dt seconds and applies finished model
// loads.
func (c *Container) Advance(dt float32) {
	c.factory.Drain()

	for _, id := range c.partIDs {
		c.parts[id].advance(dt)
	}

	target := float32(0)
	if p, ok := c.parts[FridgeDoor]; ok && p.Open {
		target = lightOnIntensity
	}
	c.light.Intensity = math.Damp(c.light.Intensity, target, lightRate, dt)
	if math.Abs(target-c.light.Intensity) < lightEpsilon {
		c.light.Intensity = target
	}

	for _, id := range c.order {
		pl := c.placed[id]
		want := float32(1)
		if id == c.selected {
			want = selectedScale
		}
		if pl.pulse != want {
			pl.pulse = math.Damp(pl.pulse, want, pulseRate, dt)
			if math.Abs(want-pl.pulse) < pulseEpsilon {
				pl.pulse = want
			}
			pl.applyTransform()
		}
	}
}

// Collect emits a draw item for every visible mesh.
func (c *Container) Collect(emit func(model.DrawItem)) {
	c.root.Collect(math.Identity(), emit)
}

// HitKind says what a pick hit.
type HitKind int

const (
	HitNone HitKind = iota
	HitObject
	HitPart
)

// Hit is the result of Pick.
type Hit struct {
	Kind     HitKind
	ID       string
	Distance float32
}

// Pick returns the nearest visible object or enabled part along ray.
func (c *Container) Pick(ray picking.Ray) Hit {
	targets := make(map[*model.Node]Hit)
	for _, id := range c.order {
		if pl := c.placed[id]; !pl.hidden {
			targets[pl.node] = Hit{Kind: HitObject, ID: id}
		}
	}
	for _, p := range c.parts {
		if !c.parentOpen(p) {
			continue
		}
		for _, n := range p.hitNodes() {
			targets[n] = Hit{Kind: HitPart, ID: p.ID}
		}
	}

	best := Hit{Kind: HitNone}
	c.root.WalkWorld(math.Identity(), func(n *model.Node, world math.Mat4) bool {
		if n.Hidden {
			return false
		}
		target, ok := targets[n]
		if !ok {
			return true
		}
		if t, hit := ray.IntersectBounds(n.SubtreeBounds(world)); hit && (best.Kind == HitNone || t < best.Distance) {
			best = target
			best.Distance = t
		}
		return true
	})
	return best
}
