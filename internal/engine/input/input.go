// Package input turns SDL2 events into viewer events: normalized pointer
// events for the gesture coordinator plus window and keyboard events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/fridgeview/internal/engine/gesture"
)

// EventType is the kind of a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventFocusLost
	EventKeyDown
	EventPointer
	EventWheel
)

// MousePointerID is the pointer ID used for the mouse. Touch fingers use
// their SDL finger IDs.
const MousePointerID int64 = -1

// touchMouseID marks mouse events SDL synthesizes from touches.
const touchMouseID = ^uint32(0)

// Event represents a processed input event.
type Event struct {
	Type    EventType
	Key     sdl.Scancode
	Width   int
	Height  int
	Pointer gesture.PointerEvent
	// Wheel is in notches, positive away from the user.
	Wheel float32
}

// Input handles all input processing.
type Input struct {
	events    []Event
	mouseDown bool
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events. width and height are the window size in screen
// coordinates, used to scale normalized touch positions.
// Returns true if the viewer should quit.
func (i *Input) Update(width, height int) bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.push(Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				i.push(Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)})
			case sdl.WINDOWEVENT_FOCUS_LOST:
				i.mouseDown = false
				i.push(Event{Type: EventFocusLost})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				i.push(Event{Type: EventKeyDown, Key: e.Keysym.Scancode})
			}

		case *sdl.MouseButtonEvent:
			if e.Which == touchMouseID || e.Button != sdl.BUTTON_LEFT {
				continue
			}
			kind := gesture.PointerUp
			if e.Type == sdl.MOUSEBUTTONDOWN {
				kind = gesture.PointerDown
			}
			i.mouseDown = kind == gesture.PointerDown
			i.pointer(kind, MousePointerID, float32(e.X), float32(e.Y))

		case *sdl.MouseMotionEvent:
			if e.Which == touchMouseID || !i.mouseDown {
				continue
			}
			i.pointer(gesture.PointerMove, MousePointerID, float32(e.X), float32(e.Y))

		case *sdl.MouseWheelEvent:
			if e.Which == touchMouseID {
				continue
			}
			notches := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				notches = -notches
			}
			i.push(Event{Type: EventWheel, Wheel: notches})

		case *sdl.TouchFingerEvent:
			var kind gesture.PointerKind
			switch e.Type {
			case sdl.FINGERDOWN:
				kind = gesture.PointerDown
			case sdl.FINGERMOTION:
				kind = gesture.PointerMove
			case sdl.FINGERUP:
				kind = gesture.PointerUp
			default:
				continue
			}
			i.pointer(kind, int64(e.FingerID), e.X*float32(width), e.Y*float32(height))
		}
	}

	return quit
}

func (i *Input) push(e Event) {
	i.events = append(i.events, e)
}

func (i *Input) pointer(kind gesture.PointerKind, id int64, x, y float32) {
	i.push(Event{Type: EventPointer, Pointer: gesture.PointerEvent{Kind: kind, ID: id, X: x, Y: y}})
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}
