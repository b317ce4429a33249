package sink

import "github.com/Relics97/ControllerEmulator/device/xbox360"

// frame stages writes into an xbox360 wire state.
type frame struct {
	state xbox360.InputState
}

func (f *frame) setAxis(axis Axis, value float64) {
	switch axis {
	case LeftX:
		f.state.LX = xbox360.StickValue(value)
	case LeftY:
		f.state.LY = xbox360.StickValue(value)
	case RightX:
		f.state.RX = xbox360.StickValue(value)
	case RightY:
		f.state.RY = xbox360.StickValue(value)
	case LeftTrigger:
		f.state.LT = xbox360.TriggerValue(value)
	case RightTrigger:
		f.state.RT = xbox360.TriggerValue(value)
	}
}

func (f *frame) setButton(id uint32, pressed bool) {
	if pressed {
		f.state.Buttons |= id
	} else {
		f.state.Buttons &^= id
	}
}
