package cmd

import (
	"fmt"
	"time"

	"github.com/Relics97/ControllerEmulator/binding"
	"github.com/Relics97/ControllerEmulator/engine"
	"github.com/Relics97/ControllerEmulator/shaping"
)

// EngineOptions tunes input shaping, activation and the update loop.
type EngineOptions struct {
	Rate                  float64       `help:"Device update rate in Hz" default:"120"`
	Deadzone              float64       `help:"Right-stick deadzone radius" default:"0.0012"`
	SensX                 float64       `name:"sens-x" help:"Horizontal pointer sensitivity" default:"1"`
	SensY                 float64       `name:"sens-y" help:"Vertical pointer sensitivity" default:"1"`
	DPIScaling            float64       `name:"dpi-scaling" help:"Stick units per pixel at sensitivity 1" default:"0.013"`
	ADSMultiplier         float64       `name:"ads-multiplier" help:"Sensitivity multiplier while aiming" default:"0.9"`
	MaxDelta              float64       `name:"max-delta" help:"Clamp for pointer motion per sample in pixels (0 disables)" default:"50"`
	Smoothing             float64       `help:"Right-stick smoothing factor in [0,1]" default:"0"`
	Recoil                bool          `help:"Pull the right stick down while firing" default:"true" negatable:""`
	RecoilX               float64       `name:"recoil-x" help:"Horizontal recoil compensation in stick units" default:"0"`
	RecoilY               float64       `name:"recoil-y" help:"Downward recoil compensation in stick units" default:"0.0234"`
	ClearHeldOnDeactivate bool          `name:"clear-held-on-deactivate" help:"Forget held movement keys when deactivating"`
	WakeMagnitude         float64       `name:"wake-magnitude" help:"Left-stick deflection of the wake pulses" default:"0.5"`
	WakeDelay             time.Duration `name:"wake-delay" help:"Duration of each wake pulse" default:"30ms"`
	WakePulses            int           `name:"wake-pulses" help:"Number of wake pulses sent on activation" default:"2"`
	FireTrigger           string        `name:"fire-trigger" help:"Trigger that enables recoil compensation" enum:"left,right" default:"right"`
	AimTrigger            string        `name:"aim-trigger" help:"Trigger that enables the ADS multiplier" enum:"left,right" default:"left"`
}

// SinkOptions selects and configures the virtual device.
type SinkOptions struct {
	Type         string        `help:"Device sink" enum:"viiper,log" default:"viiper"`
	Addr         string        `help:"VIIPER API server address" default:"localhost:3242"`
	Password     string        `help:"VIIPER API password" env:"CONTROLLEREMU_SINK_PASSWORD"`
	PasswordFile string        `name:"password-file" help:"Read the VIIPER API password from this file" type:"path"`
	Bus          uint32        `help:"VIIPER bus to attach to (0 picks an existing bus or creates one)" default:"0"`
	DialTimeout  time.Duration `name:"dial-timeout" help:"Timeout for API requests" default:"3s"`
	WriteTimeout time.Duration `name:"write-timeout" help:"Timeout for writing one device frame" default:"1s"`
	MaxFailures  int           `name:"max-failures" help:"Consecutive failed commits before the sink is considered lost" default:"3"`
	Reacquire    int           `help:"How often to reattach the device after it was lost" default:"0"`
}

// InputOptions selects the input source.
type InputOptions struct {
	Source    string        `help:"Input source" enum:"evdev,terminal,none" default:"terminal"`
	Devices   []string      `help:"evdev device paths, e.g. /dev/input/by-id/...-event-kbd" sep:","`
	Grab      bool          `help:"Grab evdev devices while active so other applications do not see the input" default:"true" negatable:""`
	ToggleKey string        `name:"toggle-key" help:"Key that toggles the controller on and off" default:"t"`
	Hold      time.Duration `help:"How long a terminal key press is held" default:"150ms"`
}

func parseSide(s string) (binding.Side, error) {
	side, err := binding.ParseSide(s)
	if err != nil {
		return 0, fmt.Errorf("invalid trigger: %w", err)
	}
	return side, nil
}

// Params converts the options into engine shaping parameters.
func (o EngineOptions) Params() (engine.Params, error) {
	fire, err := parseSide(o.FireTrigger)
	if err != nil {
		return engine.Params{}, err
	}
	aim, err := parseSide(o.AimTrigger)
	if err != nil {
		return engine.Params{}, err
	}
	p := engine.Params{
		Deadzone: shaping.Clamp(o.Deadzone, 0, 1),
		Pointer: shaping.Pointer{
			SensitivityX:  o.SensX * o.DPIScaling,
			SensitivityY:  o.SensY * o.DPIScaling,
			ADSMultiplier: o.ADSMultiplier,
			MaxDelta:      o.MaxDelta,
		},
		Smoothing:   shaping.Clamp(o.Smoothing, 0, 1),
		FireTrigger: fire,
		AimTrigger:  aim,
	}
	if o.Recoil {
		p.Recoil = shaping.Vector{X: o.RecoilX, Y: o.RecoilY}
	}
	return p, nil
}

// ControllerConfig converts the options into activation settings.
func (o EngineOptions) ControllerConfig() engine.ControllerConfig {
	return engine.ControllerConfig{
		WakeMagnitude:         o.WakeMagnitude,
		WakeDelay:             o.WakeDelay,
		WakePulses:            o.WakePulses,
		ClearHeldOnDeactivate: o.ClearHeldOnDeactivate,
	}
}

// SchedulerConfig converts the options into update loop settings.
func (o EngineOptions) SchedulerConfig(maxFailures int) engine.SchedulerConfig {
	return engine.SchedulerConfig{Rate: o.Rate, MaxFailures: maxFailures}
}
