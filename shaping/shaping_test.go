package shaping_test

import (
	"math"
	"testing"

	"github.com/Relics97/ControllerEmulator/shaping"
	"github.com/stretchr/testify/assert"
)

func TestApplyDeadzone(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		radius float64
		want   float64
	}{
		{name: "inside deadzone", value: 0.05, radius: 0.1, want: 0},
		{name: "negative inside deadzone", value: -0.09, radius: 0.1, want: 0},
		{name: "at boundary", value: 0.1, radius: 0.1, want: 0},
		{name: "full deflection", value: 1, radius: 0.1, want: 1},
		{name: "full negative deflection", value: -1, radius: 0.1, want: -1},
		{name: "midpoint rescaled", value: 0.55, radius: 0.1, want: 0.5},
		{name: "zero radius passes through", value: -0.3, radius: 0, want: -0.3},
		{name: "out of range clamped", value: 4, radius: 0.2, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, shaping.ApplyDeadzone(tt.value, tt.radius), 1e-9)
		})
	}
}

func TestApplyDeadzoneMonotonic(t *testing.T) {
	for _, radius := range []float64{0, 0.1, 0.25, 0.5, 0.9} {
		prev := 0.0
		for i := 0; i <= 1000; i++ {
			v := float64(i) / 1000
			got := shaping.ApplyDeadzone(v, radius)
			neg := shaping.ApplyDeadzone(-v, radius)

			assert.GreaterOrEqual(t, got, prev, "radius=%v value=%v", radius, v)
			assert.InDelta(t, -got, neg, 1e-12, "sign symmetry radius=%v value=%v", radius, v)
			if v > 0 && got != 0 {
				assert.GreaterOrEqual(t, math.Abs(v), radius, "non-zero output below radius")
			}
			prev = got
		}
	}
}

func TestNormalizeDiagonal(t *testing.T) {
	tests := []struct {
		name  string
		x, y  float64
		wantX float64
		wantY float64
	}{
		{name: "neutral", x: 0, y: 0, wantX: 0, wantY: 0},
		{name: "forward", x: 0, y: 1, wantX: 0, wantY: 1},
		{name: "right", x: 1, y: 0, wantX: 1, wantY: 0},
		{name: "forward right", x: 1, y: 1, wantX: 1 / math.Sqrt2, wantY: 1 / math.Sqrt2},
		{name: "back left", x: -1, y: -1, wantX: -1 / math.Sqrt2, wantY: -1 / math.Sqrt2},
		{name: "short diagonal untouched", x: 0.3, y: 0.4, wantX: 0.3, wantY: 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := shaping.NormalizeDiagonal(tt.x, tt.y)
			assert.InDelta(t, tt.wantX, x, 1e-9)
			assert.InDelta(t, tt.wantY, y, 1e-9)
			assert.LessOrEqual(t, math.Hypot(x, y), 1.0+1e-9)
		})
	}
}

func TestMouseDeltaToStick(t *testing.T) {
	p := shaping.Pointer{SensitivityX: 0.01, SensitivityY: 0.02, ADSMultiplier: 0.5}

	t.Run("scales and inverts y", func(t *testing.T) {
		got := shaping.MouseDeltaToStick(10, 10, p, false)
		assert.InDelta(t, 0.1, got.X, 1e-9)
		assert.InDelta(t, -0.2, got.Y, 1e-9)
	})

	t.Run("ads multiplier applies while aiming", func(t *testing.T) {
		got := shaping.MouseDeltaToStick(10, -10, p, true)
		assert.InDelta(t, 0.05, got.X, 1e-9)
		assert.InDelta(t, 0.1, got.Y, 1e-9)
	})

	t.Run("output clamped", func(t *testing.T) {
		got := shaping.MouseDeltaToStick(5000, -5000, p, false)
		assert.Equal(t, shaping.Vector{X: 1, Y: 1}, got)
	})

	t.Run("large jump clamped before scaling", func(t *testing.T) {
		limited := p
		limited.MaxDelta = 20
		got := shaping.MouseDeltaToStick(5000, 0, limited, false)
		assert.InDelta(t, 0.2, got.X, 1e-9)
		assert.Zero(t, got.Y)
	})
}

func TestApplyRecoilCompensation(t *testing.T) {
	recoil := shaping.Vector{X: 0.1, Y: 0.3}

	assert.Equal(t, shaping.Vector{X: 0.5, Y: 0.5},
		shaping.ApplyRecoilCompensation(shaping.Vector{X: 0.5, Y: 0.5}, recoil, false))

	got := shaping.ApplyRecoilCompensation(shaping.Vector{X: 0.5, Y: 0.5}, recoil, true)
	assert.InDelta(t, 0.4, got.X, 1e-9)
	assert.InDelta(t, 0.2, got.Y, 1e-9)

	got = shaping.ApplyRecoilCompensation(shaping.Vector{X: -1, Y: -0.9}, recoil, true)
	assert.Equal(t, shaping.Vector{X: -1, Y: -1}, got)
}

func TestApplySmoothing(t *testing.T) {
	prev := shaping.Vector{X: 1, Y: -1}
	next := shaping.Vector{X: 0, Y: 0}

	assert.Equal(t, next, shaping.ApplySmoothing(prev, next, 0))
	assert.Equal(t, prev, shaping.ApplySmoothing(prev, next, 1))

	got := shaping.ApplySmoothing(prev, next, 0.25)
	assert.InDelta(t, 0.25, got.X, 1e-9)
	assert.InDelta(t, -0.25, got.Y, 1e-9)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, -1.0, shaping.Clamp(math.NaN(), -1, 1))
	assert.Equal(t, 1.0, shaping.Clamp(math.Inf(1), -1, 1))
	assert.Equal(t, 0.3, shaping.Clamp(0.3, -1, 1))
}
