package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Relics97/ControllerEmulator/binding"
	"github.com/Relics97/ControllerEmulator/cursor"
	"github.com/Relics97/ControllerEmulator/engine"
	"github.com/Relics97/ControllerEmulator/input"
	"github.com/Relics97/ControllerEmulator/internal/configpaths"
	"github.com/Relics97/ControllerEmulator/internal/log"
	"github.com/Relics97/ControllerEmulator/sink"
)

// Run is the main command: it attaches the virtual controller and feeds it
// from the configured input source.
type Run struct {
	Engine       EngineOptions `embed:"" prefix:"engine." group:"Engine"`
	Sink         SinkOptions   `embed:"" prefix:"sink." group:"Device sink"`
	Input        InputOptions  `embed:"" prefix:"input." group:"Input"`
	BindingsFile string        `name:"bindings-file" help:"Key binding table (yaml, toml or json); defaults to bindings.* in the working or config directory" type:"path" env:"CONTROLLEREMU_BINDINGS"`

	stdin   io.Reader
	stdinFd int
	reload  <-chan os.Signal
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	r.reload = hup
	r.stdin, r.stdinFd = os.Stdin, int(os.Stdin.Fd())

	return r.Start(ctx, logger, rawLogger)
}

// Start runs until ctx is done, the input source ends or the device sink is
// lost for good.
func (r *Run) Start(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	table, err := r.loadBindings(logger)
	if err != nil {
		return err
	}
	params, err := r.Engine.Params()
	if err != nil {
		return err
	}
	toggleKey := binding.Input(strings.ToLower(strings.TrimSpace(r.Input.ToggleKey)))
	if toggleKey != "" && !binding.Known(toggleKey) {
		return fmt.Errorf("%w: unknown toggle key %q", binding.ErrInvalidBinding, r.Input.ToggleKey)
	}
	if _, bound := table.Lookup(toggleKey); bound {
		logger.Warn("Toggle key is also bound; the binding is ignored", "key", toggleKey)
	}

	snk, err := r.openSink(ctx, logger, rawLogger)
	if err != nil {
		return err
	}
	defer func() {
		if snk != nil {
			closeSink(snk, logger)
		}
	}()

	src, suppressor, closeSrc, err := r.openSource(logger)
	if err != nil {
		return err
	}
	defer closeSrc()

	cur, err := cursor.New()
	if err != nil {
		logger.Warn("Cursor control unavailable", "error", err)
		cur = cursor.Nop{}
	}

	eng := engine.New(table, params)
	sched := engine.NewScheduler(eng, snk, r.Engine.SchedulerConfig(r.Sink.MaxFailures), logger)
	ctrl := engine.NewController(eng, sched, cursor.Logging{Controller: cur, Logger: logger}, suppressor, r.Engine.ControllerConfig(), logger)
	defer ctrl.Close()

	events := make(chan input.Event, 256)
	dispatcher := input.NewDispatcher(eng, ctrl, toggleKey, logger)
	go dispatcher.Run(ctx, events)

	srcErr := make(chan error, 1)
	if src != nil {
		go func() {
			err := src.Run(ctx, events)
			if errors.Is(err, input.ErrInterrupted) {
				err = nil
			}
			srcErr <- err
			cancel()
		}()
	} else {
		srcErr <- nil
	}
	// The source must be stopped (and the terminal restored) before the
	// deferred cleanup closes devices.
	stopSource := func() error {
		cancel()
		if err := <-srcErr; err != nil {
			return fmt.Errorf("input source: %w", err)
		}
		return nil
	}
	go r.watchReload(ctx, eng, logger)

	logger.Info("Controller emulator ready", "toggle", toggleKey, "rate", r.Engine.Rate, "sink", r.Sink.Type, "input", r.Input.Source)

	for attempt := 1; ; attempt++ {
		err := sched.Run(ctx)
		if err == nil {
			break
		}
		if !errors.Is(err, engine.ErrSinkFatal) || attempt > r.Sink.Reacquire {
			_ = stopSource()
			return err
		}
		logger.Warn("Reattaching virtual controller", "attempt", attempt, "of", r.Sink.Reacquire)
		closeSink(snk, logger)
		snk = nil
		next, err := r.openSink(ctx, logger, rawLogger)
		if err != nil {
			_ = stopSource()
			return err
		}
		snk = next
		sched.SetSink(snk)
	}

	err = stopSource()
	logger.Info("Shutting down")
	return err
}

func (r *Run) loadBindings(logger *slog.Logger) (*binding.Table, error) {
	path := r.BindingsFile
	if path == "" {
		path = configpaths.DefaultBindingsPath()
	}
	if path == "" {
		logger.Debug("Using default key bindings")
		return binding.Default(), nil
	}
	table, err := binding.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded key bindings", "file", path, "count", table.Len())
	r.BindingsFile = path
	return table, nil
}

// watchReload reloads the binding table on SIGHUP while the controller is
// inactive.
func (r *Run) watchReload(ctx context.Context, eng *engine.Engine, logger *slog.Logger) {
	if r.reload == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.reload:
		}
		if r.BindingsFile == "" {
			logger.Warn("No bindings file to reload")
			continue
		}
		table, err := binding.Load(r.BindingsFile)
		if err != nil {
			logger.Error("Failed to reload key bindings", "file", r.BindingsFile, "error", err)
			continue
		}
		if err := eng.Reconfigure(table, eng.Params()); err != nil {
			logger.Warn("Key bindings not reloaded", "error", err)
			continue
		}
		logger.Info("Reloaded key bindings", "file", r.BindingsFile, "count", table.Len())
	}
}

func (r *Run) openSink(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) (sink.Closer, error) {
	switch r.Sink.Type {
	case "log":
		logger.Info("Using log sink; no virtual device is attached")
		return sink.NewLog(rawLogger, logger), nil
	case "viiper", "":
		password := r.Sink.Password
		if password == "" && r.Sink.PasswordFile != "" {
			data, err := os.ReadFile(r.Sink.PasswordFile)
			if err != nil {
				return nil, fmt.Errorf("read password file: %w", err)
			}
			password = strings.TrimSpace(string(data))
		}
		v, err := sink.OpenVIIPER(ctx, sink.VIIPERConfig{
			Addr:         r.Sink.Addr,
			Password:     password,
			Bus:          r.Sink.Bus,
			DialTimeout:  r.Sink.DialTimeout,
			WriteTimeout: r.Sink.WriteTimeout,
		}, logger, rawLogger)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown sink type %q", r.Sink.Type)
}

func closeSink(s sink.Closer, logger *slog.Logger) {
	if err := s.Close(); err != nil {
		logger.Warn("Failed to close device sink", "error", err)
	}
}

func (r *Run) openSource(logger *slog.Logger) (input.Source, engine.Suppressor, func(), error) {
	switch r.Input.Source {
	case "none", "":
		logger.Info("No input source; the device only receives neutral input")
		return nil, nil, func() {}, nil
	case "terminal":
		in, fd := r.stdin, r.stdinFd
		if in == nil {
			in, fd = os.Stdin, int(os.Stdin.Fd())
		}
		return input.NewTerminal(in, fd, r.Input.Hold, logger), nil, func() {}, nil
	case "evdev":
		dev, err := input.OpenEvdev(r.Input.Devices, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := dev.Close(); err != nil {
				logger.Warn("Failed to close input devices", "error", err)
			}
		}
		if !r.Input.Grab {
			return dev, nil, closeFn, nil
		}
		return dev, dev, closeFn, nil
	}
	return nil, nil, nil, fmt.Errorf("unknown input source %q", r.Input.Source)
}
