package fridge

import (
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/fridgeview/internal/assets"
	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/internal/visual"
	"github.com/Faultbox/fridgeview/pkg/math"
)

// SetObjects replaces the placed objects. New IDs get a visual and start
// visible, removed IDs release theirs (a load still in flight for them is
// dropped), and a removed selection is cleared. Duplicate IDs after the
// first are ignored.
func (c *Container) SetObjects(objs []SceneObject) {
	next := make(map[string]bool, len(objs))
	order := make([]string, 0, len(objs))
	for _, o := range objs {
		if o.ID == "" || next[o.ID] {
			c.log.Debug("scene object ignored", zap.String("id", o.ID))
			continue
		}
		next[o.ID] = true
		order = append(order, o.ID)
	}

	for _, id := range c.order {
		if !next[id] {
			c.remove(id)
		}
	}

	for _, o := range objs {
		if !next[o.ID] {
			continue
		}
		delete(next, o.ID)
		if pl, ok := c.placed[o.ID]; ok {
			c.update(pl, o)
			continue
		}
		c.add(o)
	}

	c.order = order
	if _, ok := c.placed[c.selected]; !ok {
		c.selected = ""
	}
	c.layout()
}

func resolveKey(o SceneObject) assets.Key {
	return assets.Resolve(assets.Query{Name: o.DisplayName, Category: o.Category})
}

func (c *Container) add(o SceneObject) {
	pl := &placement{obj: o, key: resolveKey(o), pulse: 1}

	if c.template && o.AnchorNodeName != "" {
		if n := c.anchor(o.AnchorNodeName); n != nil {
			pl.node = n
			pl.base = n.Transform
			pl.adopted = visual.NewVisual(n)
			c.placed[o.ID] = pl
			return
		}
	}

	pl.handle = c.factory.Build(pl.key, false)
	pl.node = model.NewGroup("object:" + o.ID).Add(pl.handle.Node())
	pl.base = model.IdentityTransform()
	c.objects.Add(pl.node)
	c.placed[o.ID] = pl
}

func (c *Container) update(pl *placement, o SceneObject) {
	old := pl.obj
	pl.obj = o
	if pl.handle == nil {
		return
	}
	if key := resolveKey(o); key != pl.key {
		pl.key = key
		pl.handle.Release()
		pl.handle = c.factory.Build(key, c.selected == o.ID)
		pl.node.Children = []*model.Node{pl.handle.Node()}
		c.log.Debug("scene object re-resolved",
			zap.String("id", o.ID),
			zap.String("from", old.DisplayName),
			zap.Stringer("key", key))
	}
}

func (c *Container) remove(id string) {
	pl, ok := c.placed[id]
	if !ok {
		return
	}
	if pl.handle != nil {
		pl.handle.Release()
		c.objects.Detach(pl.node)
	} else {
		// Adopted template nodes go back to being static geometry.
		pl.adopted.SetHighlighted(false)
		pl.node.Transform = pl.base
		pl.node.Hidden = false
	}
	delete(c.placed, id)
}

// anchor finds a static node by name, outside the objects group.
func (c *Container) anchor(name string) *model.Node {
	for _, child := range c.root.Children {
		if child == c.objects {
			continue
		}
		if n := child.Find(name); n != nil {
			return n
		}
	}
	return nil
}

// Objects returns the placed objects in order.
func (c *Container) Objects() []SceneObject {
	out := make([]SceneObject, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.placed[id].obj)
	}
	return out
}

// Object returns the placed object with the given ID.
func (c *Container) Object(id string) (SceneObject, bool) {
	pl, ok := c.placed[id]
	if !ok {
		return SceneObject{}, false
	}
	return pl.obj, true
}

// Visual returns the visual handle of a factory-built object.
func (c *Container) Visual(id string) (*visual.Handle, bool) {
	pl, ok := c.placed[id]
	if !ok || pl.handle == nil {
		return nil, false
	}
	return pl.handle, true
}

// ObjectBounds returns the world bounds of a visible object.
func (c *Container) ObjectBounds(id string) (model.Bounds, bool) {
	pl, ok := c.placed[id]
	if !ok || pl.hidden {
		return model.EmptyBounds(), false
	}
	b := model.EmptyBounds()
	found := false
	c.root.WalkWorld(math.Identity(), func(n *model.Node, world math.Mat4) bool {
		if found || n.Hidden {
			return false
		}
		if n == pl.node {
			b = n.SubtreeBounds(world)
			found = true
			return false
		}
		return true
	})
	return b, found && b.Valid()
}

// IsVisible reports whether the object exists and is shown.
func (c *Container) IsVisible(id string) bool {
	pl, ok := c.placed[id]
	return ok && !pl.hidden
}

// SetVisibleSet shows exactly the objects whose IDs are in ids. Unknown IDs
// are ignored. Hidden objects keep their state.
func (c *Container) SetVisibleSet(ids []string) {
	show := make(map[string]bool, len(ids))
	for _, id := range ids {
		show[id] = true
	}
	for id, pl := range c.placed {
		pl.hidden = !show[id]
	}
	c.afterVisibilityChange()
}

// SetVisible shows or hides one object. It reports whether the ID is known.
func (c *Container) SetVisible(id string, visible bool) bool {
	pl, ok := c.placed[id]
	if !ok {
		c.log.Debug("visibility ignored: unknown object", zap.String("id", id))
		return false
	}
	pl.hidden = !visible
	c.afterVisibilityChange()
	return true
}

func (c *Container) afterVisibilityChange() {
	if c.selected != "" && !c.IsVisible(c.selected) {
		c.setSelection("")
	}
	c.layout()
}

// Selected returns the selected object ID, or "".
func (c *Container) Selected() string {
	return c.selected
}

// SetSelected selects an object, or clears the selection for "". Unknown or
// hidden objects are rejected and the selection is left unchanged. Exactly
// the selected object is highlighted.
func (c *Container) SetSelected(id string) bool {
	if id != "" && !c.IsVisible(id) {
		c.log.Debug("selection rejected", zap.String("id", id))
		return false
	}
	c.setSelection(id)
	return true
}

func (c *Container) setSelection(id string) {
	if id == c.selected {
		return
	}
	if pl, ok := c.placed[c.selected]; ok {
		pl.setHighlighted(false)
	}
	c.selected = id
	if pl, ok := c.placed[id]; ok {
		pl.setHighlighted(true)
	}
}

// Grid layout for objects without an anchor.
const (
	gridColumns  = 3
	gridLeft     = -0.36
	gridStep     = 0.36
	fridgeTop    = 0.62
	shelfSpacing = 0.42
	shelfCount   = 3
	rowSpacing   = 0.18
	fridgeDepth  = -0.05
	freezerTop   = -0.72
	freezerDepth = -0.1
)

var frozenKeywords = []string{"速冻", "冷冻", "冻", "ice", "frozen"}

// IsFrozen reports whether an object belongs in the freezer.
func IsFrozen(o SceneObject) bool {
	text := strings.ToLower(o.Category + " " + o.DisplayName)
	for _, kw := range frozenKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// gridSlot returns the position of the index-th object in the fridge or
// freezer grid.
func gridSlot(index int, frozen bool) math.Vec3 {
	col := index % gridColumns
	row := index / gridColumns
	x := float32(gridLeft + float64(col)*gridStep)
	if frozen {
		return math.V3(x, float32(freezerTop-float64(row)*rowSpacing), freezerDepth)
	}
	shelf := row % shelfCount
	rowInShelf := row / shelfCount
	y := fridgeTop - float64(shelf)*shelfSpacing - float64(rowInShelf)*rowSpacing
	return math.V3(x, float32(y), fridgeDepth)
}

// layout positions visible objects: anchored ones at their anchor node,
// the rest in the fridge or freezer grid in order.
func (c *Container) layout() {
	var fridgeIndex, freezerIndex int
	for _, id := range c.order {
		pl := c.placed[id]
		if pl.handle == nil {
			pl.applyTransform()
			continue
		}
		if pl.hidden {
			pl.applyTransform()
			continue
		}

		if pos, ok := c.anchorPosition(pl.obj.AnchorNodeName); ok {
			pl.base.Translation = pos
		} else if IsFrozen(pl.obj) {
			pl.base.Translation = gridSlot(freezerIndex, true)
			freezerIndex++
		} else {
			pl.base.Translation = gridSlot(fridgeIndex, false)
			fridgeIndex++
		}
		pl.applyTransform()
	}
}

func (c *Container) anchorPosition(name string) (math.Vec3, bool) {
	if name == "" {
		return math.Vec3{}, false
	}
	for _, child := range c.root.Children {
		if child == c.objects {
			continue
		}
		if _, world, ok := child.FindWorld(c.root.Transform.Matrix(), name); ok {
			return world.Translation(), true
		}
	}
	return math.Vec3{}, false
}
