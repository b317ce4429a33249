package input

import (
	"context"
	"log/slog"

	"github.com/Relics97/ControllerEmulator/binding"
	"github.com/Relics97/ControllerEmulator/internal/log"
)

// Target receives routed input. *engine.Engine implements it.
type Target interface {
	OnPointerDelta(dx, dy float64)
	OnButton(in binding.Input, pressed bool) bool
}

// Toggler flips activation. *engine.Controller implements it.
type Toggler interface {
	Toggle()
}

// Dispatcher routes events to the engine. The toggle key flips activation
// on press and is never forwarded.
type Dispatcher struct {
	target    Target
	toggler   Toggler
	toggleKey binding.Input
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher. An empty toggleKey disables toggling.
func NewDispatcher(target Target, toggler Toggler, toggleKey binding.Input, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{target: target, toggler: toggler, toggleKey: toggleKey, logger: logger}
}

// Handle routes a single event.
func (d *Dispatcher) Handle(ev Event) {
	switch ev.Kind {
	case KindPointer:
		d.target.OnPointerDelta(ev.DX, ev.DY)
	case KindKey:
		if d.toggleKey != "" && ev.Input == d.toggleKey {
			if ev.Pressed {
				d.logger.Debug("Toggle key pressed")
				d.toggler.Toggle()
			}
			return
		}
		if !d.target.OnButton(ev.Input, ev.Pressed) {
			d.logger.Log(context.Background(), log.LevelTrace, "Unbound input", "input", ev.Input, "pressed", ev.Pressed)
		}
	}
}

// Run handles events until ctx is done or events is closed.
func (d *Dispatcher) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.Handle(ev)
		}
	}
}
