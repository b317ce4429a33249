// Package cursor hides the OS pointer and pins it in place while the
// emulated controller is active.
package cursor

import (
	"errors"
	"log/slog"
)

// ErrUnavailable is wrapped by errors from platform cursor APIs.
var ErrUnavailable = errors.New("cursor control unavailable")

// Controller hides/locks and restores the OS cursor. Failures are reported
// but never leave the caller in a different activation state.
type Controller interface {
	HideAndLock() error
	ShowAndUnlock() error
}

// Nop is a Controller that does nothing.
type Nop struct{}

func (Nop) HideAndLock() error   { return nil }
func (Nop) ShowAndUnlock() error { return nil }

// Logging wraps a Controller and logs every call at debug level.
type Logging struct {
	Controller
	Logger *slog.Logger
}

func (l Logging) HideAndLock() error {
	err := l.Controller.HideAndLock()
	l.Logger.Debug("Cursor hidden and locked", "error", err)
	return err
}

func (l Logging) ShowAndUnlock() error {
	err := l.Controller.ShowAndUnlock()
	l.Logger.Debug("Cursor shown and unlocked", "error", err)
	return err
}
