package engine_test

import (
	"io"
	"log/slog"
	"sync"

	"github.com/Relics97/ControllerEmulator/binding"
	"github.com/Relics97/ControllerEmulator/engine"
	"github.com/Relics97/ControllerEmulator/sink"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// frame is what a fakeSink saw on one Commit.
type frame struct {
	axes    [6]float64
	buttons uint32
}

func (f frame) neutral() bool {
	return f.axes == [6]float64{} && f.buttons == 0
}

// fakeSink records committed frames. fail decides, per 1-based commit call,
// whether the commit fails.
type fakeSink struct {
	mu       sync.Mutex
	staged   frame
	frames   []frame
	calls    int
	fail     func(call int) bool
	onCommit func(calls int)
}

func (s *fakeSink) SetAxis(axis sink.Axis, value float64) {
	s.mu.Lock()
	s.staged.axes[axis] = value
	s.mu.Unlock()
}

func (s *fakeSink) SetButton(id uint32, pressed bool) {
	s.mu.Lock()
	if pressed {
		s.staged.buttons |= id
	} else {
		s.staged.buttons &^= id
	}
	s.mu.Unlock()
}

func (s *fakeSink) Commit() error {
	s.mu.Lock()
	s.calls++
	calls := s.calls
	failed := s.fail != nil && s.fail(calls)
	if !failed {
		s.frames = append(s.frames, s.staged)
	}
	cb := s.onCommit
	s.mu.Unlock()

	if cb != nil {
		cb(calls)
	}
	if failed {
		return sink.ErrUnavailable
	}
	return nil
}

func (s *fakeSink) snapshot() (calls int, frames []frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, append([]frame(nil), s.frames...)
}

// recordingFlusher captures the engine snapshot on every Flush.
type recordingFlusher struct {
	mu     sync.Mutex
	engine *engine.Engine
	states []engine.State
}

func (f *recordingFlusher) Flush() {
	st := f.engine.Snapshot()
	f.mu.Lock()
	f.states = append(f.states, st)
	f.mu.Unlock()
}

func (f *recordingFlusher) recorded() []engine.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]engine.State(nil), f.states...)
}

// countingCursor counts calls and optionally fails them.
type countingCursor struct {
	mu     sync.Mutex
	hidden int
	shown  int
	err    error
}

func (c *countingCursor) HideAndLock() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hidden++
	return c.err
}

func (c *countingCursor) ShowAndUnlock() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shown++
	return c.err
}

func (c *countingCursor) counts() (hidden, shown int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hidden, c.shown
}

type recordingSuppressor struct {
	mu    sync.Mutex
	calls []bool
}

func (s *recordingSuppressor) Suppress(enable bool) error {
	s.mu.Lock()
	s.calls = append(s.calls, enable)
	s.mu.Unlock()
	return nil
}

func (s *recordingSuppressor) recorded() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bool(nil), s.calls...)
}

// newActiveEngine returns an engine activated through a controller that
// sends no wake pulses.
func newActiveEngine(params engine.Params) (*engine.Engine, *engine.Controller) {
	e := engine.New(binding.Default(), params)
	return e, activate(e)
}

func activate(e *engine.Engine) *engine.Controller {
	c := engine.NewController(e, &recordingFlusher{engine: e}, nil, nil, engine.ControllerConfig{}, discardLogger())
	c.Activate()
	return c
}
