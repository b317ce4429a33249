package cursor_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/Relics97/ControllerEmulator/cursor"
	"github.com/stretchr/testify/assert"
)

type failing struct{}

func (failing) HideAndLock() error   { return cursor.ErrUnavailable }
func (failing) ShowAndUnlock() error { return errors.New("boom") }

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := cursor.Logging{Controller: failing{}, Logger: logger}
	assert.ErrorIs(t, c.HideAndLock(), cursor.ErrUnavailable)
	assert.EqualError(t, c.ShowAndUnlock(), "boom")
	assert.Contains(t, buf.String(), "Cursor hidden and locked")
	assert.Contains(t, buf.String(), "error=boom")

	var nop cursor.Nop
	assert.NoError(t, nop.HideAndLock())
	assert.NoError(t, nop.ShowAndUnlock())
}
