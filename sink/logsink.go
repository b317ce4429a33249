package sink

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/Relics97/ControllerEmulator/internal/log"
)

// Log is a dry-run sink: every commit is written to a RawLogger as an
// xbox360 stream frame and traced on the logger. It never fails.
type Log struct {
	mu     sync.Mutex
	frame  frame
	raw    log.RawLogger
	logger *slog.Logger
	last   []byte
}

// NewLog returns a sink that only records frames.
func NewLog(raw log.RawLogger, logger *slog.Logger) *Log {
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Log{raw: raw, logger: logger}
}

func (l *Log) SetAxis(axis Axis, value float64) {
	l.mu.Lock()
	l.frame.setAxis(axis, value)
	l.mu.Unlock()
}

func (l *Log) SetButton(id uint32, pressed bool) {
	l.mu.Lock()
	l.frame.setButton(id, pressed)
	l.mu.Unlock()
}

func (l *Log) Commit() error {
	l.mu.Lock()
	st := l.frame.state
	data, _ := st.MarshalBinary()
	changed := !bytes.Equal(data, l.last)
	l.last = data
	l.mu.Unlock()

	l.raw.Log(true, data)
	if changed && l.logger != nil {
		l.logger.Log(context.Background(), log.LevelTrace, "frame changed",
			"buttons", st.Buttons, "lx", st.LX, "ly", st.LY, "rx", st.RX, "ry", st.RY, "lt", st.LT, "rt", st.RT)
	}
	return nil
}

// Close implements Closer.
func (l *Log) Close() error { return nil }
