//go:build !linux

package input

import (
	"context"
	"errors"
	"log/slog"
)

// ErrEvdevUnsupported is returned by OpenEvdev outside Linux.
var ErrEvdevUnsupported = errors.New("evdev input is only supported on linux")

// Evdev is unavailable on this platform.
type Evdev struct{}

func OpenEvdev(paths []string, logger *slog.Logger) (*Evdev, error) {
	return nil, ErrEvdevUnsupported
}

func (d *Evdev) Run(ctx context.Context, events chan<- Event) error { return ErrEvdevUnsupported }
func (d *Evdev) Suppress(enable bool) error                          { return ErrEvdevUnsupported }
func (d *Evdev) Close() error                                        { return nil }
