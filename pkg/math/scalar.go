package math

import "math"

// Clamp limits v to [lo, hi]. NaN is returned unchanged.
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DampFactor returns the frame-rate independent interpolation weight
// 1 - exp(-rate*dt). The result is in [0, 1]; NaN and non-positive input give 0.
func DampFactor(rate, dt float32) float32 {
	if !(rate > 0) || !(dt > 0) {
		return 0
	}
	return float32(1 - math.Exp(-float64(rate)*float64(dt)))
}

// Damp moves current toward target with exponential smoothing. It never overshoots.
func Damp(current, target, rate, dt float32) float32 {
	return current + (target-current)*DampFactor(rate, dt)
}

// Decay scales v by exp(-rate*dt).
func Decay(v, rate, dt float32) float32 {
	return v * float32(math.Exp(-float64(rate)*float64(dt)))
}

// Abs returns |v|.
func Abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Sincos returns sin and cos of a float32 angle.
func Sincos(angle float32) (sin, cos float32) {
	s, c := math.Sincos(float64(angle))
	return float32(s), float32(c)
}
