// Package shaping provides the pure transforms that turn raw keyboard and
// pointer input into analog stick values.
//
// Every function here is free of shared state. Out-of-range input is clamped,
// never reported as an error.
package shaping

import "math"

// Vector is a 2D stick position. Both components are in [-1, 1] once shaped.
type Vector struct {
	X, Y float64
}

// Magnitude returns the Euclidean length of v.
func (v Vector) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero reports whether both components are exactly zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Pointer holds the parameters used to turn pointer deltas into a stick vector.
type Pointer struct {
	// SensitivityX and SensitivityY are stick units per pixel of motion.
	SensitivityX float64
	SensitivityY float64
	// ADSMultiplier scales sensitivity while aiming down sights.
	ADSMultiplier float64
	// MaxDelta clamps each raw delta (in pixels) before scaling; 0 disables clamping.
	MaxDelta float64
}

// Clamp limits v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampVector clamps both components of v to [-1, 1].
func ClampVector(v Vector) Vector {
	return Vector{X: Clamp(v.X, -1, 1), Y: Clamp(v.Y, -1, 1)}
}

// ApplyDeadzone returns 0 when |value| < radius and otherwise rescales the
// remaining range [radius, 1] linearly onto [0, 1], keeping the sign.
// The result is continuous at the boundary and monotonic in |value|.
func ApplyDeadzone(value, radius float64) float64 {
	value = Clamp(value, -1, 1)
	radius = Clamp(radius, 0, 1)
	mag := math.Abs(value)
	if mag < radius {
		return 0
	}
	if radius >= 1 {
		// Degenerate radius: only a fully deflected axis passes.
		return math.Copysign(1, value)
	}
	return math.Copysign((mag-radius)/(1-radius), value)
}

// NormalizeDiagonal scales (x, y) so that its magnitude does not exceed 1 when
// both axes are deflected. Axis-aligned input is returned unchanged.
func NormalizeDiagonal(x, y float64) (float64, float64) {
	if x == 0 || y == 0 {
		return x, y
	}
	mag := math.Hypot(x, y)
	if mag <= 1 {
		return x, y
	}
	return x / mag, y / mag
}

// MouseDeltaToStick converts a pointer delta in pixels into a stick vector.
//
// Screen coordinates grow downwards, so positive dy yields a negative stick Y.
// While aiming the sensitivity is multiplied by p.ADSMultiplier. Deltas are
// clamped to p.MaxDelta before scaling and the result is clamped to [-1, 1].
func MouseDeltaToStick(dx, dy float64, p Pointer, aiming bool) Vector {
	if p.MaxDelta > 0 {
		dx = Clamp(dx, -p.MaxDelta, p.MaxDelta)
		dy = Clamp(dy, -p.MaxDelta, p.MaxDelta)
	}
	mult := 1.0
	if aiming {
		mult = p.ADSMultiplier
	}
	return ClampVector(Vector{
		X: dx * p.SensitivityX * mult,
		Y: -dy * p.SensitivityY * mult,
	})
}

// ApplyRecoilCompensation subtracts recoil from stick while firing and
// re-clamps. A positive recoil.Y pulls the stick down.
func ApplyRecoilCompensation(stick, recoil Vector, firing bool) Vector {
	if !firing {
		return stick
	}
	return ClampVector(Vector{X: stick.X - recoil.X, Y: stick.Y - recoil.Y})
}

// ApplySmoothing blends next towards prev by factor (0 = no smoothing,
// 1 = hold prev forever).
func ApplySmoothing(prev, next Vector, factor float64) Vector {
	f := Clamp(factor, 0, 1)
	if f == 0 {
		return next
	}
	return Vector{
		X: prev.X*f + next.X*(1-f),
		Y: prev.Y*f + next.Y*(1-f),
	}
}
