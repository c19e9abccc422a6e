package panel

import (
	"github.com/Faultbox/fridgeview/internal/engine/gesture"
)

// Capture decides which pointer events belong to the panel. A pointer that
// goes down on the sheet stays with the panel until it lifts.
type Capture struct {
	owned map[int64]bool
}

// Route reports whether ev should go on to the scene, and whether it
// completed a press on the close button.
func (c *Capture) Route(p Panel, ev gesture.PointerEvent) (toScene, closed bool) {
	if c.owned == nil {
		c.owned = make(map[int64]bool)
	}

	switch ev.Kind {
	case gesture.PointerDown:
		if p.Hit(ev.X, ev.Y) {
			c.owned[ev.ID] = p.HitClose(ev.X, ev.Y)
			return false, false
		}
	case gesture.PointerMove:
		if _, ok := c.owned[ev.ID]; ok {
			return false, false
		}
	case gesture.PointerUp, gesture.PointerCancel:
		if pressedClose, ok := c.owned[ev.ID]; ok {
			delete(c.owned, ev.ID)
			closed = ev.Kind == gesture.PointerUp && pressedClose && p.HitClose(ev.X, ev.Y)
			return false, closed
		}
	}
	return true, false
}

// Reset forgets every captured pointer.
func (c *Capture) Reset() {
	clear(c.owned)
}
