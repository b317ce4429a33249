// Package input captures keyboard and mouse events and routes them to the
// engine.
package input

import (
	"context"
	"fmt"

	"github.com/Relics97/ControllerEmulator/binding"
)

// Kind tells key events from pointer motion.
type Kind int

const (
	KindKey Kind = iota
	KindPointer
)

// Event is one captured input. Mouse buttons are key events with inputs
// such as "mouse_left".
type Event struct {
	Kind    Kind
	Input   binding.Input
	Pressed bool
	DX, DY  float64
}

// KeyEvent returns a key or mouse button event.
func KeyEvent(in binding.Input, pressed bool) Event {
	return Event{Kind: KindKey, Input: in, Pressed: pressed}
}

// PointerEvent returns a relative pointer motion in pixels.
func PointerEvent(dx, dy float64) Event {
	return Event{Kind: KindPointer, DX: dx, DY: dy}
}

func (e Event) String() string {
	if e.Kind == KindPointer {
		return fmt.Sprintf("pointer(%g,%g)", e.DX, e.DY)
	}
	state := "up"
	if e.Pressed {
		state = "down"
	}
	return fmt.Sprintf("%s %s", e.Input, state)
}

// Source delivers events until ctx is done or the source fails.
type Source interface {
	Run(ctx context.Context, events chan<- Event) error
}

// Suppressor blocks real input from reaching other applications.
type Suppressor interface {
	Suppress(enable bool) error
}
