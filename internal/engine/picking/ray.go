// Package picking provides ray casting for tap hit-testing.
package picking

import (
	gomath "math"

	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1, 1})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// WorldToScreen projects p to pixel coordinates. ok is false for points
// behind the camera.
func WorldToScreen(p math.Vec3, viewProj math.Mat4, viewportW, viewportH float32) (x, y float32, ok bool) {
	c := viewProj.MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
	if !(c[3] > 0) {
		return 0, 0, false
	}
	ndcX, ndcY := c[0]/c[3], c[1]/c[3]
	return (ndcX + 1) / 2 * viewportW, (1 - ndcY) / 2 * viewportH, true
}

func unproject(inv math.Mat4, ndc math.Vec4) math.Vec3 {
	p := inv.MulVec4(ndc)
	if p[3] != 0 {
		p[0] /= p[3]
		p[1] /= p[3]
		p[2] /= p[3]
	}
	return math.V3(p[0], p[1], p[2])
}

// IntersectBounds tests ray intersection with an axis-aligned box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectBounds(b model.Bounds) (t float32, hit bool) {
	if !b.Valid() {
		return 0, false
	}

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < b.Min[axis] || origin[axis] > b.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (b.Min[axis] - origin[axis]) / dir[axis]
		t2 := (b.Max[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}
