// Package lighting describes the lights of the viewer scene.
package lighting

import (
	stdmath "math"

	"github.com/Faultbox/fridgeview/pkg/math"
)

// PointLight is a light whose contribution falls off to zero at Range.
type PointLight struct {
	Position  math.Vec3
	Color     [3]float32 // RGB (0-1 range)
	Range     float32
	Intensity float32
}

// Contribution returns the light's strength at p. It matches the scene
// shader: a squared linear falloff scaled by Intensity.
func (l PointLight) Contribution(p math.Vec3) float32 {
	if !(l.Intensity > 0) || !(l.Range > 0) {
		return 0
	}
	f := math.Clamp(1-p.Sub(l.Position).Length()/l.Range, 0, 1)
	return l.Intensity * f * f
}

// Sun is a directional light.
type Sun struct {
	Direction math.Vec3 // unit vector pointing towards the sun
	Color     [3]float32
}

// SunDirection converts an azimuth around the Y axis and an elevation above
// the horizon, both in degrees, to a unit vector pointing towards the sun.
// Azimuth 0 points along +Z.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := float64(azimuth) * stdmath.Pi / 180
	el := float64(elevation) * stdmath.Pi / 180
	return math.V3(
		float32(stdmath.Cos(el)*stdmath.Sin(az)),
		float32(stdmath.Sin(el)),
		float32(stdmath.Cos(el)*stdmath.Cos(az)),
	)
}

// Environment is the lighting shared by every frame.
type Environment struct {
	ClearColor [4]float32
	Ambient    [3]float32
	Sun        Sun
}

// DefaultEnvironment is a soft studio setup over a #121212 background.
func DefaultEnvironment() Environment {
	return Environment{
		ClearColor: [4]float32{0x12 / 255.0, 0x12 / 255.0, 0x12 / 255.0, 1},
		Ambient:    [3]float32{0.7, 0.7, 0.72},
		Sun: Sun{
			Direction: SunDirection(37, 50),
			Color:     [3]float32{1, 1, 1},
		},
	}
}
