package lighting

import (
	stdmath "math"
	"testing"

	"github.com/Faultbox/fridgeview/pkg/math"
)

func near(a, b float32) bool {
	return stdmath.Abs(float64(a-b)) < 1e-5
}

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name          string
		azimuth, elev float32
		want          math.Vec3
	}{
		{"zenith", 0, 90, math.V3(0, 1, 0)},
		{"front horizon", 0, 0, math.V3(0, 0, 1)},
		{"right horizon", 90, 0, math.V3(1, 0, 0)},
		{"behind", 180, 0, math.V3(0, 0, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.azimuth, tt.elev)
			if !near(got.X, tt.want.X) || !near(got.Y, tt.want.Y) || !near(got.Z, tt.want.Z) {
				t.Errorf("SunDirection(%v, %v) = %v, want %v", tt.azimuth, tt.elev, got, tt.want)
			}
			if !near(got.Length(), 1) {
				t.Errorf("length = %v, want 1", got.Length())
			}
		})
	}
}

func TestPointLightContribution(t *testing.T) {
	l := PointLight{Position: math.V3(0, 1, 0), Range: 2, Intensity: 1.5}

	tests := []struct {
		name string
		p    math.Vec3
		want float32
	}{
		{"at the light", math.V3(0, 1, 0), 1.5},
		{"half range", math.V3(1, 1, 0), 1.5 * 0.25},
		{"edge", math.V3(0, 3, 0), 0},
		{"beyond", math.V3(0, 10, 0), 0},
	}
	for _, tt := range tests {
		if got := l.Contribution(tt.p); !near(got, tt.want) {
			t.Errorf("%s: Contribution = %v, want %v", tt.name, got, tt.want)
		}
	}

	off := l
	off.Intensity = 0
	if got := off.Contribution(l.Position); got != 0 {
		t.Errorf("switched-off light contributes %v", got)
	}
}

func TestDefaultEnvironment(t *testing.T) {
	env := DefaultEnvironment()
	if env.Sun.Direction.Y <= 0 {
		t.Errorf("sun below horizon: %v", env.Sun.Direction)
	}
	if env.ClearColor[3] != 1 {
		t.Errorf("clear alpha = %v", env.ClearColor[3])
	}
}
