package engine_test

import (
	"math"
	"sync"
	"testing"

	"github.com/Relics97/ControllerEmulator/binding"
	"github.com/Relics97/ControllerEmulator/device/xbox360"
	"github.com/Relics97/ControllerEmulator/engine"
	"github.com/Relics97/ControllerEmulator/shaping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func testParams() engine.Params {
	p := engine.DefaultParams()
	p.Deadzone = 0
	p.Pointer = shaping.Pointer{SensitivityX: 0.01, SensitivityY: 0.01, ADSMultiplier: 0.5}
	p.Recoil = shaping.Vector{Y: 0.1}
	return p
}

func TestMovementScenario(t *testing.T) {
	e, _ := newActiveEngine(testParams())

	require.True(t, e.OnButton("w", true))
	st := e.Snapshot()
	assert.Equal(t, shaping.Vector{X: 0, Y: 1}, st.Left)

	e.OnButton("w", false)
	e.OnButton("d", true)
	st = e.Snapshot()
	assert.Equal(t, shaping.Vector{X: 1, Y: 0}, st.Left)

	e.OnButton("w", true)
	st = e.Snapshot()
	assert.LessOrEqual(t, st.Left.Magnitude(), 1+eps)
	assert.InDelta(t, 1/math.Sqrt2, st.Left.X, eps)
	assert.InDelta(t, 1/math.Sqrt2, st.Left.Y, eps)
}

func TestOpposingDirectionsCancel(t *testing.T) {
	e, _ := newActiveEngine(testParams())
	e.OnDirectionalKey(binding.DirUp, true)
	e.OnDirectionalKey(binding.DirDown, true)
	e.OnDirectionalKey(binding.DirLeft, true)
	assert.Equal(t, shaping.Vector{X: -1, Y: 0}, e.Snapshot().Left)
}

func TestSnapshotNeutralWhileInactive(t *testing.T) {
	e := engine.New(binding.Default(), testParams())
	e.OnButton("w", true)
	e.OnButton("space", true)
	e.OnButton("mouse_left", true)
	e.OnPointerDelta(50, 50)

	st := e.Snapshot()
	assert.True(t, st.Neutral())
	assert.False(t, st.Active)
	assert.Equal(t, engine.State{}, e.Sample())
}

func TestHeldKeysSurviveToggle(t *testing.T) {
	e, c := newActiveEngine(testParams())
	e.OnButton("w", true)

	c.Deactivate()
	assert.True(t, e.Snapshot().Neutral())

	c.Activate()
	st := e.Snapshot()
	assert.True(t, st.Active)
	assert.Equal(t, shaping.Vector{Y: 1}, st.Left)
}

func TestClearHeldOnDeactivate(t *testing.T) {
	e := engine.New(binding.Default(), testParams())
	c := engine.NewController(e, &recordingFlusher{engine: e}, nil, nil,
		engine.ControllerConfig{ClearHeldOnDeactivate: true}, discardLogger())
	c.Activate()
	e.OnButton("w", true)

	c.Deactivate()
	c.Activate()
	assert.True(t, e.Snapshot().Left.IsZero())
}

func TestOnButton(t *testing.T) {
	tests := []struct {
		name  string
		input binding.Input
		check func(t *testing.T, st engine.State)
	}{
		{
			name:  "button",
			input: "space",
			check: func(t *testing.T, st engine.State) {
				assert.Equal(t, uint32(xbox360.ButtonA), st.Buttons)
			},
		},
		{
			name:  "dpad",
			input: "alt_l",
			check: func(t *testing.T, st engine.State) {
				assert.True(t, st.Pressed(xbox360.ButtonDPadDown))
			},
		},
		{
			name:  "fire trigger applies recoil",
			input: "mouse_left",
			check: func(t *testing.T, st engine.State) {
				assert.Equal(t, 1.0, st.RightTrigger)
				assert.Zero(t, st.LeftTrigger)
				assert.InDelta(t, -0.1, st.Right.Y, eps)
			},
		},
		{
			name:  "aim trigger",
			input: "mouse_right",
			check: func(t *testing.T, st engine.State) {
				assert.Equal(t, 1.0, st.LeftTrigger)
				assert.True(t, st.Right.IsZero())
			},
		},
		{
			name:  "direction",
			input: "s",
			check: func(t *testing.T, st engine.State) {
				assert.Equal(t, shaping.Vector{Y: -1}, st.Left)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newActiveEngine(testParams())
			require.True(t, e.OnButton(tt.input, true))
			tt.check(t, e.Snapshot())

			e.OnButton(tt.input, false)
			assert.True(t, e.Snapshot().Neutral())
		})
	}
}

func TestOnButtonUnbound(t *testing.T) {
	e, _ := newActiveEngine(testParams())
	assert.False(t, e.OnButton("t", true))
	assert.False(t, e.OnButton("f12", true))
	assert.True(t, e.Snapshot().Neutral())
}

func TestPointerWindow(t *testing.T) {
	e, _ := newActiveEngine(testParams())

	e.OnPointerDelta(10, 0)
	e.OnPointerDelta(10, 10)
	st := e.Snapshot()
	assert.InDelta(t, 0.2, st.Right.X, eps)
	assert.InDelta(t, -0.1, st.Right.Y, eps, "screen-down motion pushes the stick down")

	sampled := e.Sample()
	assert.Equal(t, st, sampled)
	assert.True(t, e.Snapshot().Right.IsZero(), "sample ends the window")
}

func TestPointerAimingAndFiring(t *testing.T) {
	e, _ := newActiveEngine(testParams())

	e.SetAiming(true)
	e.OnPointerDelta(20, 0)
	assert.InDelta(t, 0.1, e.Snapshot().Right.X, eps)

	e.SetAiming(false)
	assert.InDelta(t, 0.2, e.Snapshot().Right.X, eps)

	e.SetFiring(true)
	st := e.Snapshot()
	assert.InDelta(t, 0.2, st.Right.X, eps)
	assert.InDelta(t, -0.1, st.Right.Y, eps)

	e.Sample()
	assert.InDelta(t, -0.1, e.Snapshot().Right.Y, eps, "recoil persists while firing")
}

func TestPointerClampAndDeadzone(t *testing.T) {
	p := testParams()
	p.Pointer.MaxDelta = 50
	p.Deadzone = 0.05
	e, _ := newActiveEngine(p)

	e.OnPointerDelta(1000, 0)
	assert.InDelta(t, (0.5-0.05)/0.95, e.Snapshot().Right.X, eps)

	e.Sample()
	e.OnPointerDelta(4, 0)
	assert.Zero(t, e.Snapshot().Right.X)
}

func TestSmoothing(t *testing.T) {
	p := testParams()
	p.Smoothing = 0.5
	e, _ := newActiveEngine(p)

	e.OnPointerDelta(40, 0)
	assert.InDelta(t, 0.2, e.Snapshot().Right.X, eps)

	e.Sample()
	assert.InDelta(t, 0.1, e.Snapshot().Right.X, eps)
	e.Sample()
	assert.InDelta(t, 0.05, e.Snapshot().Right.X, eps)
}

func TestResetIdempotent(t *testing.T) {
	e, _ := newActiveEngine(testParams())
	e.OnButton("space", true)
	e.OnButton("mouse_left", true)
	e.OnButton("d", true)
	e.OnPointerDelta(5, 5)

	e.Reset()
	once := e.Snapshot()
	e.Reset()
	twice := e.Snapshot()

	assert.Equal(t, once, twice)
	assert.True(t, once.Neutral())
	assert.True(t, once.Active, "reset keeps activation")
}

func TestReconfigure(t *testing.T) {
	e, c := newActiveEngine(testParams())
	tbl, err := binding.NewTable(map[string]string{"space": "b"})
	require.NoError(t, err)

	assert.ErrorIs(t, e.Reconfigure(tbl, testParams()), engine.ErrActive)

	c.Deactivate()
	p := testParams()
	p.Pointer.SensitivityX = 0.02
	require.NoError(t, e.Reconfigure(tbl, p))
	assert.Equal(t, p, e.Params())
	c.Activate()

	e.OnButton("space", true)
	assert.Equal(t, uint32(xbox360.ButtonB), e.Snapshot().Buttons)
	assert.False(t, e.OnButton("w", true))

	e.OnPointerDelta(10, 0)
	assert.InDelta(t, 0.2, e.Snapshot().Right.X, eps)

	c.Deactivate()
	require.NoError(t, e.Reconfigure(nil, p))
	assert.Same(t, tbl, e.Bindings())
}

func TestConcurrentSnapshotsAreConsistent(t *testing.T) {
	e, _ := newActiveEngine(testParams())
	dx, dy := shaping.NormalizeDiagonal(1, 1)
	valid := map[shaping.Vector]bool{
		{}:             true,
		{Y: 1}:         true,
		{X: 1}:         true,
		{X: dx, Y: dy}: true,
	}

	const writers, events, reads = 4, 500, 2000
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < events; i++ {
				pressed := i%2 == 0
				if w%2 == 0 {
					e.OnDirectionalKey(binding.DirUp, pressed)
				} else {
					e.OnDirectionalKey(binding.DirRight, pressed)
				}
				e.OnButton("space", pressed)
				e.OnPointerDelta(1, 0)
			}
		}(w)
	}

	bad := 0
	for i := 0; i < reads; i++ {
		st := e.Sample()
		if !valid[st.Left] || st.Right.X < 0 || st.Right.X > 1 || st.Buttons&^xbox360.ButtonA != 0 {
			bad++
		}
	}
	wg.Wait()
	assert.Zero(t, bad)
}

func TestDefaultParamsClampPointerJumps(t *testing.T) {
	e, _ := newActiveEngine(engine.DefaultParams())

	e.OnPointerDelta(10000, -10000)
	st := e.Snapshot()
	assert.Less(t, st.Right.X, 1.0)
	assert.Greater(t, st.Right.Y, -1.0)
	assert.Less(t, st.Right.Y, 1.0)

	dz := engine.DefaultParams().Deadzone
	want := (engine.DefaultMaxDelta*engine.DPIScaling - dz) / (1 - dz)
	assert.InDelta(t, want, st.Right.X, eps)
}
