package picking

import (
	"testing"

	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/pkg/math"
)

func TestIntersectBounds(t *testing.T) {
	box := model.Bounds{Min: [3]float32{-1, -1, -1}, Max: [3]float32{1, 1, 1}}

	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"hit from front", Ray{Origin: math.V3(0, 0, 5), Direction: math.V3(0, 0, -1)}, true, 4},
		{"miss beside", Ray{Origin: math.V3(3, 0, 5), Direction: math.V3(0, 0, -1)}, false, 0},
		{"pointing away", Ray{Origin: math.V3(0, 0, 5), Direction: math.V3(0, 0, 1)}, false, 0},
		{"inside returns exit", Ray{Origin: math.V3(0, 0, 0), Direction: math.V3(1, 0, 0)}, true, 1},
		{"diagonal", Ray{Origin: math.V3(-3, 0, -3), Direction: math.V3(1, 0, 1).Normalize()}, true, 2.8284271},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectBounds(box)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && math.Abs(got-tt.wantT) > 1e-4 {
				t.Errorf("t = %v, want %v", got, tt.wantT)
			}
		})
	}

	if _, hit := (Ray{Direction: math.V3(0, 0, -1)}).IntersectBounds(model.EmptyBounds()); hit {
		t.Error("empty bounds must never be hit")
	}
}

func TestScreenToRayCenter(t *testing.T) {
	eye := math.V3(0, 0, 5)
	view := math.LookAt(eye, math.Vec3{}, math.V3(0, 1, 0))
	proj := math.Perspective(0.8, 1, 0.1, 100)
	inv := proj.Mul(view).Inverse()

	r := ScreenToRay(400, 400, 800, 800, inv)

	if d := r.Direction.Sub(math.V3(0, 0, -1)).Length(); d > 1e-3 {
		t.Errorf("center ray direction = %+v", r.Direction)
	}
	if r.Origin.Z > 5 || r.Origin.Z < 4.8 {
		t.Errorf("origin should sit on the near plane, got %+v", r.Origin)
	}

	left := ScreenToRay(0, 400, 800, 800, inv)
	if left.Direction.X >= 0 {
		t.Errorf("left edge ray should point -X, got %+v", left.Direction)
	}
	top := ScreenToRay(400, 0, 800, 800, inv)
	if top.Direction.Y <= 0 {
		t.Errorf("top edge ray should point +Y, got %+v", top.Direction)
	}
}

func TestWorldToScreenRoundTrip(t *testing.T) {
	eye := math.V3(1, 2, 5)
	view := math.LookAt(eye, math.Vec3{}, math.V3(0, 1, 0))
	viewProj := math.Perspective(0.8, 1.5, 0.1, 100).Mul(view)

	p := math.V3(0.3, 0.4, -0.2)
	x, y, ok := WorldToScreen(p, viewProj, 1200, 800)
	if !ok {
		t.Fatal("point in front of the camera reported behind")
	}

	r := ScreenToRay(x, y, 1200, 800, viewProj.Inverse())
	toPoint := p.Sub(r.Origin).Normalize()
	if d := toPoint.Sub(r.Direction).Length(); d > 1e-3 {
		t.Errorf("ray through projected point misses it by %v", d)
	}

	if _, _, ok := WorldToScreen(math.V3(2, 4, 10), viewProj, 1200, 800); ok {
		t.Error("point behind the camera reported visible")
	}
}
