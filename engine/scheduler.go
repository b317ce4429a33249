package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/Relics97/ControllerEmulator/device/xbox360"
	"github.com/Relics97/ControllerEmulator/sink"
)

// ErrSinkFatal is returned by Scheduler.Run once the sink failed to commit
// MaxFailures times in a row. It wraps the last sink error.
var ErrSinkFatal = errors.New("device sink failed repeatedly")

// DefaultRate is the default update rate in Hz.
const DefaultRate = 120

// MinPeriod bounds the update rate from above.
const MinPeriod = time.Millisecond

// DefaultMaxFailures is the default number of consecutive failed commits
// tolerated before Run gives up.
const DefaultMaxFailures = 3

// SchedulerConfig tunes the update loop.
type SchedulerConfig struct {
	Rate        float64
	MaxFailures int
}

// Scheduler samples the engine at a fixed rate and commits every sample to
// the sink, whether or not the engine is active.
type Scheduler struct {
	engine      *Engine
	sink        sink.Sink
	period      time.Duration
	maxFailures int
	logger      *slog.Logger

	// flush holds at most one pending out-of-band commit request.
	flush chan struct{}

	// mu guards sink and failures.
	mu       sync.Mutex
	failures int
}

var allButtons = func() []uint32 {
	out := make([]uint32, 0, len(xbox360.Buttons))
	for _, b := range xbox360.Buttons {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}()

// NewScheduler creates a scheduler. Non-positive or non-finite config values
// fall back to DefaultRate and DefaultMaxFailures; the period is never shorter
// than MinPeriod.
func NewScheduler(e *Engine, s sink.Sink, cfg SchedulerConfig, logger *slog.Logger) *Scheduler {
	if cfg.Rate <= 0 || math.IsNaN(cfg.Rate) || math.IsInf(cfg.Rate, 0) {
		cfg.Rate = DefaultRate
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = DefaultMaxFailures
	}
	period := time.Duration(float64(time.Second) / cfg.Rate)
	if period < MinPeriod {
		period = MinPeriod
	}
	return &Scheduler{
		engine:      e,
		sink:        s,
		period:      period,
		maxFailures: cfg.MaxFailures,
		logger:      logger,
		flush:       make(chan struct{}, 1),
	}
}

// Period returns the time between two updates.
func (s *Scheduler) Period() time.Duration { return s.period }

// Run commits one sample per period until ctx is done or the sink fails
// MaxFailures times in a row. On cancellation a final neutral state is
// committed and Run returns nil.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()

	s.logger.Debug("Update loop started", "period", s.period)
	if err := s.tick(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return nil
		case <-s.flush:
			s.flushNow()
		case <-ticker.C:
			if err := s.tick(); err != nil {
				return err
			}
		}
	}
}

// Flush asks Run to commit the current snapshot outside the regular cadence.
// It never blocks; requests made while one is pending are merged.
func (s *Scheduler) Flush() {
	select {
	case s.flush <- struct{}{}:
	default:
	}
}

// flushNow commits the current snapshot. Its failures do not count towards
// MaxFailures.
func (s *Scheduler) flushNow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commit(s.engine.Snapshot()); err != nil {
		s.logger.Warn("Out-of-band commit failed", "error", err)
	}
}

func (s *Scheduler) tick() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.commit(s.engine.Sample())
	if err == nil {
		if s.failures > 0 {
			s.logger.Info("Device sink recovered", "failures", s.failures)
		}
		s.failures = 0
		return nil
	}

	s.failures++
	if s.failures >= s.maxFailures {
		s.logger.Error("Device sink failed, giving up", "failures", s.failures, "error", err)
		return fmt.Errorf("%w (%d consecutive): %w", ErrSinkFatal, s.failures, err)
	}
	s.logger.Warn("Device sink commit failed", "failures", s.failures, "error", err)
	return nil
}

func (s *Scheduler) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.commit(State{}); err != nil {
		s.logger.Warn("Failed to send final neutral state", "error", err)
	}
}

func (s *Scheduler) commit(st State) error {
	s.sink.SetAxis(sink.LeftX, st.Left.X)
	s.sink.SetAxis(sink.LeftY, st.Left.Y)
	s.sink.SetAxis(sink.RightX, st.Right.X)
	s.sink.SetAxis(sink.RightY, st.Right.Y)
	s.sink.SetAxis(sink.LeftTrigger, st.LeftTrigger)
	s.sink.SetAxis(sink.RightTrigger, st.RightTrigger)
	for _, b := range allButtons {
		s.sink.SetButton(b, st.Pressed(b))
	}
	return s.sink.Commit()
}

// SetSink replaces the sink, e.g. after reacquiring the device, and clears
// the failure count.
func (s *Scheduler) SetSink(snk sink.Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = snk
	s.failures = 0
}

// Failures returns the current number of consecutive failed commits.
func (s *Scheduler) Failures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures
}
