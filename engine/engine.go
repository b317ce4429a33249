// Package engine owns the emulated controller state. It turns key and pointer
// input into stick, trigger and button values, gates them on activation and
// drives the device sink at a fixed rate.
package engine

import (
	"errors"
	"sync"

	"github.com/Relics97/ControllerEmulator/binding"
	"github.com/Relics97/ControllerEmulator/shaping"
)

// ErrActive is returned by Reconfigure while the engine is active.
var ErrActive = errors.New("engine is active")

// Engine holds the controller state behind a single lock. Input mutators may
// be called from any goroutine regardless of activation; gating happens when
// the state is read.
type Engine struct {
	mu sync.Mutex

	state State
	held  [4]bool

	// Pointer motion accumulated since the last Sample.
	pendingX, pendingY float64
	prevRight          shaping.Vector
	firing, aiming     bool

	// Left-stick override used by the wake sequence.
	nudge    shaping.Vector
	nudging  bool
	epoch    uint64
	params   Params
	bindings *binding.Table
}

// New returns an inactive engine with neutral state.
func New(bindings *binding.Table, params Params) *Engine {
	return &Engine{bindings: bindings, params: params}
}

// OnDirectionalKey marks a movement direction as held or released and
// recomputes the left stick.
func (e *Engine) OnDirectionalKey(d binding.Direction, pressed bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setHeld(d, pressed)
}

// OnPointerDelta adds a pointer movement in pixels to the current sample
// window and recomputes the right stick from the window total.
func (e *Engine) OnPointerDelta(dx, dy float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingX += dx
	e.pendingY += dy
	e.updateRight()
}

// OnButton applies the action bound to in. It reports false if in is not
// bound.
func (e *Engine) OnButton(in binding.Input, pressed bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	action, ok := e.bindings.Lookup(in)
	if !ok {
		return false
	}
	switch action.Kind {
	case binding.KindButton:
		if pressed {
			e.state.Buttons |= action.Button
		} else {
			e.state.Buttons &^= action.Button
		}
	case binding.KindTrigger:
		v := 0.0
		if pressed {
			v = 1
		}
		if action.Trigger == binding.SideRight {
			e.state.RightTrigger = v
		} else {
			e.state.LeftTrigger = v
		}
		if action.Trigger == e.params.FireTrigger {
			e.firing = pressed
		}
		if action.Trigger == e.params.AimTrigger {
			e.aiming = pressed
		}
		e.updateRight()
	case binding.KindDirection:
		e.setHeld(action.Direction, pressed)
	}
	return true
}

// SetFiring sets the flag that enables recoil compensation.
func (e *Engine) SetFiring(firing bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.firing = firing
	e.updateRight()
}

// SetAiming sets the flag that applies the ADS multiplier.
func (e *Engine) SetAiming(aiming bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.aiming = aiming
	e.updateRight()
}

// Snapshot returns a copy of the state. It is neutral while inactive.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Sample returns the same value as Snapshot and then ends the pointer sample
// window, so a pointer that stops moving brings the right stick back to rest.
func (e *Engine) Sample() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.snapshot()
	e.prevRight = e.state.Right
	e.pendingX, e.pendingY = 0, 0
	e.updateRight()
	return s
}

// Reset zeroes all axes, triggers and buttons without changing activation.
// Held movement keys are remembered and reapplied on the next activation.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reset()
}

// Active reports whether the engine is active.
func (e *Engine) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Active
}

// Epoch returns the number of activations so far.
func (e *Engine) Epoch() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.epoch
}

// Params returns the current shaping parameters.
func (e *Engine) Params() Params {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.params
}

// Bindings returns the current binding table.
func (e *Engine) Bindings() *binding.Table {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bindings
}

// Reconfigure replaces the binding table and shaping parameters. A nil table
// keeps the current one. It fails with ErrActive while active.
func (e *Engine) Reconfigure(bindings *binding.Table, params Params) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.Active {
		return ErrActive
	}
	if bindings != nil {
		e.bindings = bindings
	}
	e.params = params
	e.updateRight()
	return nil
}

func (e *Engine) snapshot() State {
	if !e.state.Active {
		return State{}
	}
	s := e.state
	if e.nudging {
		s.Left = e.nudge
	}
	return s
}

func (e *Engine) reset() {
	active := e.state.Active
	e.state = State{Active: active}
	e.pendingX, e.pendingY = 0, 0
	e.prevRight = shaping.Vector{}
	e.firing, e.aiming = false, false
	e.nudging = false
	e.nudge = shaping.Vector{}
}

func (e *Engine) setHeld(d binding.Direction, pressed bool) {
	if d < 0 || int(d) >= len(e.held) {
		return
	}
	e.held[d] = pressed
	e.updateLeft()
}

func (e *Engine) updateLeft() {
	var x, y float64
	if e.held[binding.DirUp] {
		y++
	}
	if e.held[binding.DirDown] {
		y--
	}
	if e.held[binding.DirRight] {
		x++
	}
	if e.held[binding.DirLeft] {
		x--
	}
	x, y = shaping.NormalizeDiagonal(x, y)
	e.state.Left = shaping.Vector{X: x, Y: y}
}

func (e *Engine) updateRight() {
	p := e.params
	next := shaping.MouseDeltaToStick(e.pendingX, e.pendingY, p.Pointer, e.aiming)
	next = shaping.ApplyRecoilCompensation(next, p.Recoil, e.firing)
	next = shaping.Vector{
		X: shaping.ApplyDeadzone(next.X, p.Deadzone),
		Y: shaping.ApplyDeadzone(next.Y, p.Deadzone),
	}
	e.state.Right = shaping.ClampVector(shaping.ApplySmoothing(e.prevRight, next, p.Smoothing))
}

// activate marks the engine active, starts a new epoch and returns it.
func (e *Engine) activate() (epoch uint64, wasActive bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	wasActive = e.state.Active
	e.epoch++
	e.state.Active = true
	e.nudging = false
	e.updateLeft()
	return e.epoch, wasActive
}

// deactivate marks the engine inactive and resets it. It reports false if
// the engine was already inactive.
func (e *Engine) deactivate(clearHeld bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.Active {
		return false
	}
	e.state.Active = false
	e.reset()
	if clearHeld {
		e.held = [4]bool{}
	}
	return true
}

// setNudge overrides (or restores) the left stick for the wake sequence.
// It only applies while epoch is current and the engine is active.
func (e *Engine) setNudge(epoch uint64, on bool, v shaping.Vector) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.epoch != epoch || !e.state.Active {
		return false
	}
	e.nudging = on
	e.nudge = v
	return true
}
