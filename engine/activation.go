package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Relics97/ControllerEmulator/cursor"
	"github.com/Relics97/ControllerEmulator/shaping"
)

// Flusher requests that the current engine state reach the device without
// waiting for the next tick. Flush must not block. Scheduler implements it.
type Flusher interface {
	Flush()
}

// Suppressor blocks (or releases) the real keyboard and mouse so that input
// only reaches the emulated controller.
type Suppressor interface {
	Suppress(enable bool) error
}

// ControllerConfig tunes activation behavior.
type ControllerConfig struct {
	// WakeMagnitude is the left-stick X deflection sent by the wake sequence.
	WakeMagnitude float64
	// WakeDelay is how long each nudge is held before returning to neutral.
	WakeDelay time.Duration
	// WakePulses is the number of nudge/neutral pulses; 0 disables waking.
	WakePulses int
	// ClearHeldOnDeactivate forgets held movement keys on deactivation
	// instead of reapplying them on the next activation.
	ClearHeldOnDeactivate bool
}

// DefaultControllerConfig returns the built-in activation tuning.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		WakeMagnitude: 0.5,
		WakeDelay:     30 * time.Millisecond,
		WakePulses:    2,
	}
}

// Controller is the INACTIVE/ACTIVE state machine. Transitions are serialized
// and never fail; side effects that fail (cursor, suppression) are
// logged.
type Controller struct {
	mu sync.Mutex

	engine     *Engine
	flusher    Flusher
	cursor     cursor.Controller
	suppressor Suppressor
	cfg        ControllerConfig
	logger     *slog.Logger

	wg        sync.WaitGroup
	done      chan struct{}
	closeOnce sync.Once
}

// NewController creates an inactive controller. cur and suppressor may be nil.
func NewController(e *Engine, f Flusher, cur cursor.Controller, suppressor Suppressor, cfg ControllerConfig, logger *slog.Logger) *Controller {
	if cur == nil {
		cur = cursor.Nop{}
	}
	return &Controller{
		engine:     e,
		flusher:    f,
		cursor:     cur,
		suppressor: suppressor,
		cfg:        cfg,
		logger:     logger,
		done:       make(chan struct{}),
	}
}

// Activate switches to ACTIVE and starts the wake sequence. Calling it while
// already active restarts the wake sequence.
func (c *Controller) Activate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activate()
}

// Deactivate switches to INACTIVE. The device receives neutral input
// immediately.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deactivate()
}

// Toggle flips the activation state.
func (c *Controller) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine.Active() {
		c.deactivate()
	} else {
		c.activate()
	}
}

// Active reports whether the controller is active.
func (c *Controller) Active() bool {
	return c.engine.Active()
}

// Wait blocks until all started wake sequences have finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close deactivates the controller, cancels pending wake delays and waits
// for them. Later activations are ignored.
func (c *Controller) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		close(c.done)
		c.deactivate()
		c.mu.Unlock()
		c.wg.Wait()
	})
}

func (c *Controller) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Controller) activate() {
	if c.closed() {
		return
	}
	epoch, wasActive := c.engine.activate()
	if !wasActive {
		if err := c.cursor.HideAndLock(); err != nil {
			c.logger.Warn("Failed to hide cursor", "error", err)
		}
		c.logger.Info("Controller activated", "epoch", epoch)
	}

	if c.cfg.WakePulses > 0 {
		c.wg.Add(1)
		go c.wake(epoch)
	}

	if !wasActive && c.suppressor != nil {
		if err := c.suppressor.Suppress(true); err != nil {
			c.logger.Warn("Failed to suppress input", "error", err)
		}
	}
}

func (c *Controller) deactivate() {
	if !c.engine.deactivate(c.cfg.ClearHeldOnDeactivate) {
		return
	}
	if c.suppressor != nil {
		if err := c.suppressor.Suppress(false); err != nil {
			c.logger.Warn("Failed to release input", "error", err)
		}
	}
	if err := c.cursor.ShowAndUnlock(); err != nil {
		c.logger.Warn("Failed to restore cursor", "error", err)
	}
	c.flusher.Flush()
	c.logger.Info("Controller deactivated")
}

// wake nudges the left stick and returns it to neutral, WakePulses times.
// Each step only applies while epoch is still current; once a newer
// transition happened the sequence stops and leaves the state alone.
func (c *Controller) wake(epoch uint64) {
	defer c.wg.Done()
	nudge := shaping.Vector{X: shaping.Clamp(c.cfg.WakeMagnitude, -1, 1)}

	for i := 0; i < c.cfg.WakePulses; i++ {
		if !c.step(epoch, true, nudge) || !c.sleep() {
			c.logger.Debug("Wake sequence aborted", "epoch", epoch, "pulse", i)
			return
		}
		if !c.step(epoch, false, shaping.Vector{}) {
			c.logger.Debug("Wake sequence aborted", "epoch", epoch, "pulse", i)
			return
		}
		if i < c.cfg.WakePulses-1 && !c.sleep() {
			c.logger.Debug("Wake sequence aborted", "epoch", epoch, "pulse", i)
			return
		}
	}
	c.logger.Debug("Wake sequence sent", "epoch", epoch, "pulses", c.cfg.WakePulses)
}

func (c *Controller) step(epoch uint64, on bool, v shaping.Vector) bool {
	if !c.engine.setNudge(epoch, on, v) {
		return false
	}
	c.flusher.Flush()
	return true
}

func (c *Controller) sleep() bool {
	t := time.NewTimer(c.cfg.WakeDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-c.done:
		return false
	}
}
