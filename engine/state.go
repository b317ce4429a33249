package engine

import (
	"github.com/Relics97/ControllerEmulator/binding"
	"github.com/Relics97/ControllerEmulator/shaping"
)

// State is a copy of the controller state as seen by the device.
// Sticks are in [-1, 1], triggers in [0, 1], Buttons is a set of
// device/xbox360 button bits.
type State struct {
	Left         shaping.Vector
	Right        shaping.Vector
	LeftTrigger  float64
	RightTrigger float64
	Buttons      uint32
	Active       bool
}

// Neutral reports whether no axis, trigger or button is deflected.
func (s State) Neutral() bool {
	return s.Left.IsZero() && s.Right.IsZero() &&
		s.LeftTrigger == 0 && s.RightTrigger == 0 && s.Buttons == 0
}

// Pressed reports whether button bit b is set.
func (s State) Pressed(b uint32) bool {
	return s.Buttons&b != 0
}

// Params are the shaping parameters of a session. They can only be replaced
// while the engine is inactive.
type Params struct {
	// Deadzone is the right-stick deadzone radius applied per axis.
	Deadzone float64
	// Pointer converts pointer deltas into right-stick deflection.
	Pointer shaping.Pointer
	// Recoil is subtracted from the right stick while firing.
	Recoil shaping.Vector
	// Smoothing blends each right-stick value with the previous sample.
	Smoothing float64
	// FireTrigger and AimTrigger select which trigger sets the firing and
	// aiming flags when driven through a binding.
	FireTrigger binding.Side
	AimTrigger  binding.Side
}

// DPIScaling is the default pixels to stick units factor.
const DPIScaling = 0.013

// DefaultMaxDelta is the default per-sample pointer clamp in pixels.
const DefaultMaxDelta = 50

// DefaultParams returns the built-in tuning.
func DefaultParams() Params {
	return Params{
		Deadzone: 0.0012,
		Pointer: shaping.Pointer{
			SensitivityX:  DPIScaling,
			SensitivityY:  DPIScaling,
			ADSMultiplier: 0.9,
			MaxDelta:      DefaultMaxDelta,
		},
		// 1.8 px of downward pull per sample.
		Recoil:      shaping.Vector{Y: 1.8 * DPIScaling},
		FireTrigger: binding.SideRight,
		AimTrigger:  binding.SideLeft,
	}
}
