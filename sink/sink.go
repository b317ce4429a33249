// Package sink defines the Device Sink boundary: the virtual HID device that
// receives axis and button writes and flushes them with Commit.
package sink

import "errors"

// ErrUnavailable is wrapped by every error a sink returns from Commit.
var ErrUnavailable = errors.New("device sink unavailable")

// Axis names an analog control of the virtual device.
type Axis int

const (
	LeftX Axis = iota
	LeftY
	RightX
	RightY
	LeftTrigger
	RightTrigger
)

var axisNames = [...]string{"lx", "ly", "rx", "ry", "lt", "rt"}

func (a Axis) String() string {
	if a < 0 || int(a) >= len(axisNames) {
		return "unknown"
	}
	return axisNames[a]
}

// Sink accepts per-axis and per-button writes and flushes them to the
// virtual device as one update on Commit. Writes are not visible to the
// device until committed.
type Sink interface {
	// SetAxis stages a stick axis in [-1, 1] or a trigger in [0, 1].
	SetAxis(axis Axis, value float64)
	// SetButton stages a button bit (see device/xbox360) as pressed or released.
	SetButton(id uint32, pressed bool)
	// Commit flushes the staged state. Errors wrap ErrUnavailable.
	Commit() error
}

// Closer is implemented by sinks that hold OS or network resources.
type Closer interface {
	Sink
	Close() error
}
