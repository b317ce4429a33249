//go:build linux

package input

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// eviocgrab is EVIOCGRAB, _IOW('E', 0x90, int).
const eviocgrab = 0x40044590

// pollTimeoutMs bounds how long Run waits before rechecking ctx.
const pollTimeoutMs = 100

// Evdev reads keyboard and mouse events from /dev/input/event* devices.
// Suppression grabs the devices so no other reader sees the events.
type Evdev struct {
	mu      sync.Mutex
	files   []*os.File
	grabbed bool
	logger  *slog.Logger
}

// OpenEvdev opens the given event devices for reading.
func OpenEvdev(paths []string, logger *slog.Logger) (*Evdev, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input devices provided")
	}
	d := &Evdev{logger: logger}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			_ = d.Close()
			return nil, fmt.Errorf("open input device: %w", err)
		}
		d.files = append(d.files, f)
		logger.Info("Opened input device", "path", p)
	}
	return d, nil
}

// Run polls all devices with a single epoll instance and forwards decoded
// events until ctx is done or a device fails.
func (d *Evdev) Run(ctx context.Context, events chan<- Event) error {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return fmt.Errorf("epoll_create1: %w", err)
	}
	defer unix.Close(epfd)

	fdToFile := make(map[int32]*os.File, len(d.files))
	for _, f := range d.files {
		fd := int(f.Fd())
		fdToFile[int32(fd)] = f
		ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
		if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
			return fmt.Errorf("epoll_ctl_add %s: %w", f.Name(), err)
		}
	}

	ready := make([]unix.EpollEvent, len(d.files))
	buf := make([]byte, rawEventSize*64)
	var decoded []Event
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		n, err := unix.EpollWait(epfd, ready, pollTimeoutMs)
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			return fmt.Errorf("epoll_wait: %w", err)
		}
		for i := 0; i < n; i++ {
			f := fdToFile[ready[i].Fd]
			if ready[i].Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
				return fmt.Errorf("input device error/hangup: %s", f.Name())
			}
			m, err := unix.Read(int(ready[i].Fd), buf)
			if err != nil {
				if errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EINTR) {
					continue
				}
				return fmt.Errorf("read from %s: %w", f.Name(), err)
			}
			decoded = decodeEvents(buf[:m], decoded[:0])
			for _, ev := range decoded {
				select {
				case events <- ev:
				case <-ctx.Done():
					return nil
				}
			}
		}
	}
}

// Suppress grabs (or releases) every device.
func (d *Evdev) Suppress(enable bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.grabbed == enable {
		return nil
	}
	arg := 0
	if enable {
		arg = 1
	}
	var errs []error
	for _, f := range d.files {
		if err := unix.IoctlSetInt(int(f.Fd()), eviocgrab, arg); err != nil {
			errs = append(errs, fmt.Errorf("EVIOCGRAB %s: %w", f.Name(), err))
		}
	}
	if len(errs) == 0 {
		d.grabbed = enable
		d.logger.Debug("Input suppression changed", "enabled", enable)
	}
	return errors.Join(errs...)
}

// Close releases any grab and closes the devices.
func (d *Evdev) Close() error {
	_ = d.Suppress(false)
	d.mu.Lock()
	defer d.mu.Unlock()
	var errs []error
	for _, f := range d.files {
		errs = append(errs, f.Close())
	}
	d.files = nil
	return errors.Join(errs...)
}
