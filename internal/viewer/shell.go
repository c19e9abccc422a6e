// Package viewer composes the container, camera rig and gesture coordinator
// into the embeddable fridge viewer.
package viewer

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/fridgeview/internal/config"
	"github.com/Faultbox/fridgeview/internal/engine/camera"
	"github.com/Faultbox/fridgeview/internal/engine/gesture"
	"github.com/Faultbox/fridgeview/internal/engine/lighting"
	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/internal/engine/picking"
	"github.com/Faultbox/fridgeview/internal/fridge"
	"github.com/Faultbox/fridgeview/internal/visual"
	"github.com/Faultbox/fridgeview/pkg/math"
)

// Options configures a Shell.
type Options struct {
	Camera       config.CameraConfig
	Gesture      config.GestureConfig
	Articulation config.ArticulationConfig
	// Factory builds object visuals. Nil means procedural visuals only.
	Factory *visual.Factory
	// Template is an external container model. Nil uses the built-in cabinet.
	Template *model.Node
	Logger   *zap.Logger
}

// DefaultOptions returns options built from the default configuration.
func DefaultOptions() Options {
	cfg := config.Default()
	return Options{Camera: cfg.Camera, Gesture: cfg.Gesture, Articulation: cfg.Articulation}
}

// Frame is everything the renderer needs for one frame.
type Frame struct {
	Width, Height int
	View          math.Mat4
	Projection    math.Mat4
	Eye           math.Vec3
	Items         []model.DrawItem
	Light         lighting.PointLight
	// Detail is nil when nothing is selected.
	Detail *DetailSheet
}

// Shell owns one viewer session. Every method must be called from the frame
// loop.
type Shell struct {
	id  uuid.UUID
	log *zap.Logger

	container *fridge.Container
	rig       *camera.Rig
	gestures  *gesture.Coordinator
	wheelZoom float32

	width, height int

	// OnObjectSelected fires when an object is tapped.
	OnObjectSelected func(id string)
	// OnArticulationToggled fires when a part's target changes through the shell.
	OnArticulationToggled func(partID string, open bool)
	// OnSelectionChange fires on every selection change, "" meaning none.
	OnSelectionChange func(id string)
}

// New creates a viewer session.
func New(opts Options) *Shell {
	id := uuid.New()
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("session", id.String()))

	fopts := fridge.Options{Articulation: opts.Articulation, Logger: log.Named("fridge")}
	var c *fridge.Container
	if opts.Template != nil {
		c = fridge.FromTemplate(opts.Template, opts.Factory, fopts)
	} else {
		c = fridge.NewDefault(opts.Factory, fopts)
	}

	wheel := opts.Gesture.WheelZoom
	if !(wheel > 0) || wheel >= 1 {
		wheel = config.Default().Gesture.WheelZoom
	}

	s := &Shell{
		id:        id,
		log:       log,
		container: c,
		rig:       camera.NewRig(opts.Camera),
		wheelZoom: wheel,
		width:     1,
		height:    1,
	}
	s.gestures = gesture.NewCoordinator(opts.Gesture, (*sink)(s), log.Named("gesture"))
	log.Info("viewer session started", zap.Bool("template", opts.Template != nil))
	return s
}

// ID returns the session ID.
func (s *Shell) ID() uuid.UUID { return s.id }

// Container returns the scene container.
func (s *Shell) Container() *fridge.Container { return s.container }

// Rig returns the camera rig.
func (s *Shell) Rig() *camera.Rig { return s.rig }

// Gestures returns the gesture coordinator.
func (s *Shell) Gestures() *gesture.Coordinator { return s.gestures }

// Resize sets the viewport size in pixels.
func (s *Shell) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s.width, s.height = width, height
}

// HandlePointer feeds a pointer event to the gesture coordinator.
func (s *Shell) HandlePointer(ev gesture.PointerEvent) {
	s.gestures.Handle(ev)
}

// HandleWheel zooms by wheel notches; positive moves closer.
func (s *Shell) HandleWheel(notches float32) {
	if !math.IsFinite(notches) || notches == 0 {
		return
	}
	factor := 1 + notches*s.wheelZoom
	if factor < 0.1 {
		factor = 0.1
	}
	s.rig.Zoom(factor)
}

// Advance steps the camera and then the container by dt seconds.
func (s *Shell) Advance(dt float32) {
	s.rig.Advance(dt)
	s.container.Advance(dt)
}

func (s *Shell) aspect() float32 {
	return float32(s.width) / float32(s.height)
}

func (s *Shell) viewProjection() math.Mat4 {
	return s.rig.Projection(s.aspect()).Mul(s.rig.ViewMatrix())
}

// Frame snapshots the scene for rendering.
func (s *Shell) Frame() Frame {
	f := Frame{
		Width:      s.width,
		Height:     s.height,
		View:       s.rig.ViewMatrix(),
		Projection: s.rig.Projection(s.aspect()),
		Eye:        s.rig.Position(),
		Light:      s.container.Light(),
		Detail:     s.Detail(),
	}
	s.container.Collect(func(item model.DrawItem) {
		f.Items = append(f.Items, item)
	})
	return f
}

// Detail returns the detail sheet for the selection, or nil.
func (s *Shell) Detail() *DetailSheet {
	id := s.container.Selected()
	if id == "" {
		return nil
	}
	obj, ok := s.container.Object(id)
	if !ok {
		return nil
	}
	return NewDetailSheet(&obj)
}

// Selected returns the selected object ID, or "".
func (s *Shell) Selected() string {
	return s.container.Selected()
}

// SetSelected overrides the selection from the host. "" clears it. Unknown
// or hidden objects are rejected.
func (s *Shell) SetSelected(id string) bool {
	return s.track(func() bool { return s.container.SetSelected(id) })
}

// CloseDetail dismisses the detail surface, clearing the selection.
func (s *Shell) CloseDetail() {
	s.SetSelected("")
}

// SetObjects replaces the placed objects.
func (s *Shell) SetObjects(objs []fridge.SceneObject) {
	s.track(func() bool {
		s.container.SetObjects(objs)
		return true
	})
}

// SetVisibleSet shows exactly the given object IDs.
func (s *Shell) SetVisibleSet(ids []string) {
	s.track(func() bool {
		s.container.SetVisibleSet(ids)
		return true
	})
}

// ToggleArticulation flips a part and reports whether its target changed.
func (s *Shell) ToggleArticulation(partID string) bool {
	if !s.container.ToggleArticulation(partID) {
		return false
	}
	p, _ := s.container.Part(partID)
	s.log.Debug("articulation toggled", zap.String("part", partID), zap.Bool("open", p.Open))
	if s.OnArticulationToggled != nil {
		s.OnArticulationToggled(partID, p.Open)
	}
	return true
}

// Pick casts a ray through the pixel (x, y).
func (s *Shell) Pick(x, y float32) fridge.Hit {
	ray := picking.ScreenToRay(x, y, float32(s.width), float32(s.height), s.viewProjection().Inverse())
	return s.container.Pick(ray)
}

// ScreenPosition projects a world point to pixels.
func (s *Shell) ScreenPosition(p math.Vec3) (x, y float32, ok bool) {
	return picking.WorldToScreen(p, s.viewProjection(), float32(s.width), float32(s.height))
}

// track runs fn and fires OnSelectionChange if the selection moved.
func (s *Shell) track(fn func() bool) bool {
	before := s.container.Selected()
	ok := fn()
	if after := s.container.Selected(); after != before && s.OnSelectionChange != nil {
		s.OnSelectionChange(after)
	}
	return ok
}

func (s *Shell) tap(x, y float32) {
	hit := s.Pick(x, y)
	switch hit.Kind {
	case fridge.HitObject:
		next := hit.ID
		if s.container.Selected() == hit.ID {
			next = ""
		}
		s.SetSelected(next)
		if s.OnObjectSelected != nil {
			s.OnObjectSelected(hit.ID)
		}
	case fridge.HitPart:
		s.ToggleArticulation(hit.ID)
	default:
		s.SetSelected("")
	}
}

// Close releases the session's visuals.
func (s *Shell) Close() {
	s.gestures.Reset()
	s.SetObjects(nil)
	s.log.Info("viewer session closed")
}

// sink adapts the shell to gesture.Sink.
type sink Shell

func (k *sink) BeginYaw()           { k.rig.BeginYaw() }
func (k *sink) Yaw(delta float32)   { k.rig.Yaw(delta) }
func (k *sink) EndYaw()             { k.rig.EndYaw() }
func (k *sink) BeginPinch()         { k.rig.BeginPinch() }
func (k *sink) Pinch(scale float32) { k.rig.Pinch(scale) }
func (k *sink) EndPinch()           { k.rig.EndPinch() }
func (k *sink) Tap(x, y float32)    { (*Shell)(k).tap(x, y) }
