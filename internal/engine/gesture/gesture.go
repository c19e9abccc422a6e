// Package gesture turns a normalized pointer stream into yaw, pinch and tap
// commands.
package gesture

import (
	"go.uber.org/zap"

	"github.com/Faultbox/fridgeview/internal/config"
	"github.com/Faultbox/fridgeview/pkg/math"
)

// PointerKind is the phase of a pointer event.
type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
	PointerCancel
)

func (k PointerKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case PointerCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// PointerEvent is one touch or mouse sample in window pixels.
type PointerEvent struct {
	Kind PointerKind
	// ID distinguishes concurrent touches. The mouse uses a single ID.
	ID   int64
	X, Y float32
}

// Sink receives recognized gestures.
type Sink interface {
	BeginYaw()
	Yaw(delta float32)
	EndYaw()
	BeginPinch()
	Pinch(scale float32)
	EndPinch()
	Tap(x, y float32)
}

// State is the coordinator's recognition state.
type State int

const (
	Idle State = iota
	// PossiblePan has one pointer down that has not crossed the pan threshold.
	PossiblePan
	ActivePan
	ActivePinch
	// Settling ignores input until every pointer lifts.
	Settling
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PossiblePan:
		return "possible-pan"
	case ActivePan:
		return "active-pan"
	case ActivePinch:
		return "active-pinch"
	case Settling:
		return "settling"
	default:
		return "unknown"
	}
}

// Coordinator is the gesture state machine. Pan and pinch are mutually
// exclusive and arbitrated by pointer count. It is not safe for concurrent
// use.
type Coordinator struct {
	cfg  config.GestureConfig
	sink Sink
	log  *zap.Logger

	state    State
	pointers map[int64]math.Vec2

	primary int64
	start   math.Vec2
	last    math.Vec2

	pinchIDs   [2]int64
	pinchStart float32
}

// NewCoordinator creates a coordinator feeding sink. A nil logger is replaced
// by a no-op logger.
func NewCoordinator(cfg config.GestureConfig, sink Sink, log *zap.Logger) *Coordinator {
	def := config.Default().Gesture
	if !(cfg.PanThreshold >= 0) {
		cfg.PanThreshold = def.PanThreshold
	}
	if !(cfg.PanDominance > 0) {
		cfg.PanDominance = def.PanDominance
	}
	if !(cfg.TapSlop >= 0) {
		cfg.TapSlop = def.TapSlop
	}
	if !math.IsFinite(cfg.YawSensitivity) {
		cfg.YawSensitivity = def.YawSensitivity
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		cfg:      cfg,
		sink:     sink,
		log:      log,
		pointers: make(map[int64]math.Vec2),
	}
}

// State returns the current recognition state.
func (c *Coordinator) State() State {
	return c.state
}

// Pointers returns the number of pointers currently down.
func (c *Coordinator) Pointers() int {
	return len(c.pointers)
}

// PanActivates reports whether a displacement from the press point starts
// a pan: it must exceed the threshold horizontally and be horizontally
// dominant.
func (c *Coordinator) PanActivates(dx, dy float32) bool {
	ax, ay := math.Abs(dx), math.Abs(dy)
	return ax > c.cfg.PanThreshold && ax > c.cfg.PanDominance*ay
}

// Handle feeds one event. Events must arrive in order.
func (c *Coordinator) Handle(ev PointerEvent) {
	if !math.IsFinite(ev.X) || !math.IsFinite(ev.Y) {
		c.log.Debug("pointer event dropped", zap.Stringer("kind", ev.Kind), zap.Int64("id", ev.ID))
		return
	}
	pos := math.Vec2{X: ev.X, Y: ev.Y}

	switch ev.Kind {
	case PointerDown:
		c.down(ev.ID, pos)
	case PointerMove:
		c.move(ev.ID, pos)
	case PointerUp:
		c.up(ev.ID, pos, true)
	case PointerCancel:
		c.up(ev.ID, pos, false)
	}
}

func (c *Coordinator) down(id int64, pos math.Vec2) {
	c.pointers[id] = pos

	switch c.state {
	case Idle:
		if len(c.pointers) == 1 {
			c.primary = id
			c.start = pos
			c.last = pos
			c.setState(PossiblePan)
			return
		}
		// Pointers left over from a reset; wait for them to lift.
		c.setState(Settling)
	case PossiblePan, ActivePan:
		if len(c.pointers) != 2 {
			return
		}
		if c.state == ActivePan {
			c.sink.EndYaw()
		}
		c.beginPinch(id)
	}
}

func (c *Coordinator) beginPinch(second int64) {
	c.pinchIDs = [2]int64{c.primary, second}
	c.pinchStart = c.pinchDistance()
	c.sink.BeginPinch()
	c.setState(ActivePinch)
}

func (c *Coordinator) pinchDistance() float32 {
	return c.pointers[c.pinchIDs[0]].Distance(c.pointers[c.pinchIDs[1]])
}

func (c *Coordinator) move(id int64, pos math.Vec2) {
	if _, ok := c.pointers[id]; !ok {
		return
	}
	c.pointers[id] = pos

	switch c.state {
	case PossiblePan:
		if id != c.primary {
			return
		}
		d := pos.Sub(c.start)
		if !c.PanActivates(d.X, d.Y) {
			return
		}
		c.setState(ActivePan)
		c.sink.BeginYaw()
		c.yawTo(pos)
	case ActivePan:
		if id == c.primary {
			c.yawTo(pos)
		}
	case ActivePinch:
		if id != c.pinchIDs[0] && id != c.pinchIDs[1] {
			return
		}
		dist := c.pinchDistance()
		if !(c.pinchStart > 0) {
			c.pinchStart = dist
			return
		}
		c.sink.Pinch(dist / c.pinchStart)
	}
}

func (c *Coordinator) yawTo(pos math.Vec2) {
	dx := pos.X - c.last.X
	c.last = pos
	if dx != 0 {
		c.sink.Yaw(-dx * c.cfg.YawSensitivity)
	}
}

func (c *Coordinator) up(id int64, pos math.Vec2, released bool) {
	if _, ok := c.pointers[id]; !ok {
		return
	}
	delete(c.pointers, id)

	switch c.state {
	case PossiblePan:
		if id != c.primary {
			break
		}
		// A press released before crossing the pan threshold is a tap
		// when it stayed within the slop.
		if released && pos.Distance(c.start) <= c.cfg.TapSlop {
			c.sink.Tap(pos.X, pos.Y)
		} else {
			c.log.Debug("gesture abandoned", zap.Float32("dx", pos.X-c.start.X), zap.Float32("dy", pos.Y-c.start.Y))
		}
		c.finish()
	case ActivePan:
		if id == c.primary {
			c.sink.EndYaw()
			c.finish()
		}
	case ActivePinch:
		if id == c.pinchIDs[0] || id == c.pinchIDs[1] {
			c.sink.EndPinch()
			c.finish()
		}
	}

	if len(c.pointers) == 0 && c.state == Settling {
		c.setState(Idle)
	}
}

func (c *Coordinator) finish() {
	if len(c.pointers) == 0 {
		c.setState(Idle)
	} else {
		c.setState(Settling)
	}
}

// Reset ends any active gesture and forgets every pointer. Use it when the
// window loses focus.
func (c *Coordinator) Reset() {
	switch c.state {
	case ActivePan:
		c.sink.EndYaw()
	case ActivePinch:
		c.sink.EndPinch()
	}
	for id := range c.pointers {
		delete(c.pointers, id)
	}
	c.setState(Idle)
}

func (c *Coordinator) setState(s State) {
	if s == c.state {
		return
	}
	c.log.Debug("gesture state", zap.Stringer("from", c.state), zap.Stringer("to", s))
	c.state = s
}
