package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, ParseLevel("trace"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestConsoleSplit(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, closers, err := setupLogger("trace", "", &stdout, &stderr)
	require.NoError(t, err)
	assert.Empty(t, closers)

	logger.Log(context.Background(), LevelTrace, "frame")
	logger.Info("activated")
	logger.Error("sink failed")

	assert.Contains(t, stdout.String(), "level=TRACE msg=frame")
	assert.Contains(t, stdout.String(), "msg=activated")
	assert.NotContains(t, stdout.String(), "sink failed")
	assert.Contains(t, stderr.String(), "msg=\"sink failed\"")
	assert.NotContains(t, stderr.String(), "activated")
}

func TestLevelThreshold(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, _, err := setupLogger("warn", "", &stdout, &stderr)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "shown")
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	var stdout, stderr bytes.Buffer
	logger, closers, err := setupLogger("info", path, &stdout, &stderr)
	require.NoError(t, err)
	require.Len(t, closers, 1)

	logger.Info("to file")
	require.NoError(t, closers[0].Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=\"to file\"")
	assert.Contains(t, stderr.String(), "msg=\"to file\"")
	assert.Empty(t, stdout.String())
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	r := NewRaw(&buf)
	r.Log(true, []byte{0x01, 0xab})
	r.Log(false, []byte{0x40, 0x80})
	r.Log(true, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "HOST->DEV frame: 2 bytes, hex: 01 ab")
	assert.Contains(t, lines[1], "DEV->HOST frame: 2 bytes, hex: 40 80")

	assert.NotPanics(t, func() { NewRaw(nil).Log(true, []byte{1}) })
}
