package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Relics97/ControllerEmulator/binding"
	"golang.org/x/term"
)

// ErrInterrupted is returned by Terminal.Run when Ctrl-C is read in raw mode.
var ErrInterrupted = errors.New("interrupted")

// DefaultHold is how long a terminal key counts as held.
const DefaultHold = 150 * time.Millisecond

// Terminal turns key presses on a terminal into key events. Terminals do not
// report key releases, so each press is released after Hold unless the key
// repeats first. Pointer input is not available.
type Terminal struct {
	in     io.Reader
	fd     int
	hold   time.Duration
	logger *slog.Logger
}

// NewTerminal reads from in. When fd refers to a terminal it is switched to
// raw mode for the duration of Run.
func NewTerminal(in io.Reader, fd int, hold time.Duration, logger *slog.Logger) *Terminal {
	if hold <= 0 {
		hold = DefaultHold
	}
	return &Terminal{in: in, fd: fd, hold: hold, logger: logger}
}

// Run reads keys until ctx is done, the input ends or Ctrl-C is read.
// At the end of input the pending releases are still delivered.
func (t *Terminal) Run(ctx context.Context, events chan<- Event) error {
	if t.fd >= 0 && term.IsTerminal(t.fd) {
		state, err := term.MakeRaw(t.fd)
		if err != nil {
			return fmt.Errorf("raw terminal: %w", err)
		}
		defer func() { _ = term.Restore(t.fd, state) }()
		t.logger.Info("Reading keys from terminal, Ctrl-C to quit")
	}

	keys := make(chan byte)
	readErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		buf := make([]byte, 64)
		for {
			n, err := t.in.Read(buf)
			for _, b := range buf[:n] {
				select {
				case keys <- b:
				case <-stop:
					return
				}
			}
			if err != nil {
				readErr <- err
				return
			}
		}
	}()

	held := make(map[binding.Input]time.Time)
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	reading := true

	send := func(ev Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}
	releaseAll := func() {
		for in := range held {
			send(KeyEvent(in, false))
		}
	}

	for {
		resetTimer(timer, held)
		if !reading && len(held) == 0 {
			return nil
		}
		var keysCh <-chan byte
		var errCh <-chan error
		if reading {
			keysCh, errCh = keys, readErr
		}

		select {
		case <-ctx.Done():
			return nil
		case b := <-keysCh:
			if b == 0x03 {
				releaseAll()
				return ErrInterrupted
			}
			in, ok := TerminalInput(b)
			if !ok {
				continue
			}
			if _, down := held[in]; !down && !send(KeyEvent(in, true)) {
				return nil
			}
			held[in] = time.Now().Add(t.hold)
		case err := <-errCh:
			reading = false
			if err != nil && !errors.Is(err, io.EOF) {
				releaseAll()
				return fmt.Errorf("read terminal: %w", err)
			}
		case now := <-timer.C:
			for in, until := range held {
				if !now.Before(until) {
					delete(held, in)
					if !send(KeyEvent(in, false)) {
						return nil
					}
				}
			}
		}
	}
}

func resetTimer(timer *time.Timer, held map[binding.Input]time.Time) {
	next := time.Hour
	for _, until := range held {
		if d := time.Until(until); d < next {
			next = d
		}
	}
	if next < 0 {
		next = 0
	}
	timer.Reset(next)
}

// TerminalInput maps a byte read in raw mode to a logical input.
func TerminalInput(b byte) (binding.Input, bool) {
	var in binding.Input
	switch {
	case b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		in = binding.Input(string(rune(b)))
	case b >= 'A' && b <= 'Z':
		in = binding.Input(string(rune(b - 'A' + 'a')))
	case b == ' ':
		in = "space"
	case b == '\t':
		in = "tab"
	case b == 0x1b:
		in = "esc"
	case b == '\r', b == '\n':
		in = "enter"
	default:
		return "", false
	}
	if !binding.Known(in) {
		return "", false
	}
	return in, true
}
