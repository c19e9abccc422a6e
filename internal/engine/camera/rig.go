// Package camera provides the orbit rig that frames the fridge.
package camera

import (
	gomath "math"

	"github.com/Faultbox/fridgeview/internal/config"
	"github.com/Faultbox/fridgeview/pkg/math"
)

// Projection planes.
const (
	nearPlane = 0.05
	farPlane  = 100
)

// velocityBlend is the weight of the newest frame in the yaw velocity estimate.
const velocityBlend = 0.5

// nominalFrame stands in for the frame time before the first Advance.
const nominalFrame = 1.0 / 60

// Rig orbits the look-at point at a bounded radius. Yaw is driven by pan
// gestures with inertia after release; radius is driven by pinch and wheel.
// It is not safe for concurrent use.
type Rig struct {
	cfg config.CameraConfig

	yaw      float32
	velocity float32
	radius   float32

	userDriven bool
	// pending is yaw applied since the last Advance while user driven.
	pending float32
	// frameDt is the last Advance step, used to sample yaw left at release.
	frameDt float32

	pinching   bool
	pinchStart float32

	position math.Vec3
}

// NewRig creates a rig at the configured start radius and yaw 0. Invalid
// radius bounds fall back to the defaults.
func NewRig(cfg config.CameraConfig) *Rig {
	def := config.Default().Camera
	if !(cfg.MinRadius > 0) || !(cfg.MaxRadius >= cfg.MinRadius) {
		cfg.MinRadius, cfg.MaxRadius, cfg.StartRadius = def.MinRadius, def.MaxRadius, def.StartRadius
	}
	if !(cfg.FOV > 0) || cfg.FOV >= 180 {
		cfg.FOV = def.FOV
	}
	r := &Rig{cfg: cfg, frameDt: nominalFrame}
	r.radius = r.clampRadius(cfg.StartRadius)
	r.position = r.DesiredPosition()
	return r
}

func (r *Rig) clampRadius(v float32) float32 {
	if gomath.IsNaN(float64(v)) {
		return r.radius
	}
	return math.Clamp(v, r.cfg.MinRadius, r.cfg.MaxRadius)
}

// BeginYaw hands yaw to the user. Residual inertia is dropped.
func (r *Rig) BeginYaw() {
	r.userDriven = true
	r.velocity = 0
	r.pending = 0
}

// Yaw rotates the rig by delta radians. Non-finite deltas are ignored.
func (r *Rig) Yaw(delta float32) {
	if !math.IsFinite(delta) {
		return
	}
	if !r.userDriven {
		r.BeginYaw()
	}
	r.yaw += delta
	r.pending += delta
}

// EndYaw releases the rig with the tracked velocity, clamped to the
// configured maximum. Yaw applied since the last Advance counts as one
// more frame of motion.
func (r *Rig) EndYaw() {
	if !r.userDriven {
		return
	}
	r.userDriven = false
	if r.pending != 0 {
		r.sampleVelocity(r.frameDt)
	}
	limit := r.cfg.MaxYawVelocity
	if !(limit > 0) {
		r.velocity = 0
		return
	}
	r.velocity = math.Clamp(r.velocity, -limit, limit)
	if math.Abs(r.velocity) < r.cfg.VelocityEpsilon {
		r.velocity = 0
	}
}

// BeginPinch records the radius that later pinch scales are relative to.
func (r *Rig) BeginPinch() {
	r.pinching = true
	r.pinchStart = r.radius
}

// Pinch sets the radius to the pinch-begin radius divided by scale, so
// spreading fingers (scale > 1) moves closer. Zero, negative and infinite
// scales clamp; NaN is ignored.
func (r *Rig) Pinch(scale float32) {
	if !r.pinching {
		r.BeginPinch()
	}
	if gomath.IsNaN(float64(scale)) {
		return
	}
	r.radius = r.clampRadius(r.pinchStart / scale)
}

// EndPinch ends the pinch. The radius stays where it is.
func (r *Rig) EndPinch() {
	r.pinching = false
}

// Zoom divides the radius by factor (mouse wheel). Non-positive and
// non-finite factors are ignored.
func (r *Rig) Zoom(factor float32) {
	if !(factor > 0) || !math.IsFinite(factor) {
		return
	}
	r.radius = r.clampRadius(r.radius / factor)
}

// Advance steps inertia and eases the camera toward its desired position.
func (r *Rig) Advance(dt float32) {
	if !(dt > 0) || !math.IsFinite(dt) {
		return
	}

	r.frameDt = dt

	if r.userDriven {
		r.sampleVelocity(dt)
	} else if r.velocity != 0 {
		r.yaw += r.velocity * dt
		r.velocity = math.Decay(r.velocity, r.cfg.InertiaDecay, dt)
		if math.Abs(r.velocity) < r.cfg.VelocityEpsilon {
			r.velocity = 0
		}
	}

	r.position = r.position.Lerp(r.DesiredPosition(), math.DampFactor(r.cfg.Smoothing, dt))
}

// sampleVelocity blends pending yaw over dt into the velocity estimate.
func (r *Rig) sampleVelocity(dt float32) {
	sample := r.pending / dt
	r.velocity += (sample - r.velocity) * velocityBlend
	r.pending = 0
}

// Angle returns the accumulated yaw in radians.
func (r *Rig) Angle() float32 { return r.yaw }

// Velocity returns the yaw velocity in radians per second.
func (r *Rig) Velocity() float32 { return r.velocity }

// Radius returns the orbit radius.
func (r *Rig) Radius() float32 { return r.radius }

// UserDriven reports whether a gesture currently owns yaw.
func (r *Rig) UserDriven() bool { return r.userDriven }

// Target returns the look-at point.
func (r *Rig) Target() math.Vec3 {
	return math.V3(0, r.cfg.LookAtY, 0)
}

// DesiredPosition returns where the camera is heading for the current yaw
// and radius.
func (r *Rig) DesiredPosition() math.Vec3 {
	sin, cos := math.Sincos(r.yaw)
	return math.V3(r.radius*sin, r.cfg.BaseHeight+r.radius*r.cfg.HeightFactor, r.radius*cos)
}

// Position returns the smoothed camera position.
func (r *Rig) Position() math.Vec3 { return r.position }

// ViewMatrix returns the view matrix for this camera.
func (r *Rig) ViewMatrix() math.Mat4 {
	return math.LookAt(r.position, r.Target(), math.V3(0, 1, 0))
}

// Projection returns the perspective projection for the given aspect ratio.
func (r *Rig) Projection(aspect float32) math.Mat4 {
	if !(aspect > 0) || !math.IsFinite(aspect) {
		aspect = 1
	}
	fov := r.cfg.FOV * gomath.Pi / 180
	return math.Perspective(fov, aspect, nearPlane, farPlane)
}
