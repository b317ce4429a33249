//go:build windows

package cursor

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	smCxScreen = 0
	smCyScreen = 1
	idcArrow   = 32512
	// ShowCursor keeps a display counter; bound the loops in case another
	// process keeps pushing it the other way.
	maxShowCursorCalls = 100
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procShowCursor       = user32.NewProc("ShowCursor")
	procSetCursor        = user32.NewProc("SetCursor")
	procLoadCursor       = user32.NewProc("LoadCursorW")
	procSetCursorPos     = user32.NewProc("SetCursorPos")
	procClipCursor       = user32.NewProc("ClipCursor")
	procGetSystemMetrics = user32.NewProc("GetSystemMetrics")
)

type rect struct {
	Left, Top, Right, Bottom int32
}

type win32 struct {
	mu sync.Mutex
}

// New returns the user32 backed controller.
func New() (Controller, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &win32{}, nil
}

func showCursor(show bool) int32 {
	var arg uintptr
	if show {
		arg = 1
	}
	r, _, _ := procShowCursor.Call(arg)
	return int32(r)
}

func screenCenter() (int32, int32) {
	w, _, _ := procGetSystemMetrics.Call(smCxScreen)
	h, _, _ := procGetSystemMetrics.Call(smCyScreen)
	return int32(w) / 2, int32(h) / 2
}

func (c *win32) HideAndLock() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := 0, showCursor(false); n >= 0 && i < maxShowCursorCalls; i++ {
		n = showCursor(false)
	}
	_, _, _ = procSetCursor.Call(0)

	x, y := screenCenter()
	if r, _, err := procSetCursorPos.Call(uintptr(x), uintptr(y)); r == 0 {
		return fmt.Errorf("%w: SetCursorPos: %w", ErrUnavailable, err)
	}
	clip := rect{Left: x, Top: y, Right: x + 1, Bottom: y + 1}
	if r, _, err := procClipCursor.Call(uintptr(unsafe.Pointer(&clip))); r == 0 {
		return fmt.Errorf("%w: ClipCursor: %w", ErrUnavailable, err)
	}
	return nil
}

func (c *win32) ShowAndUnlock() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var clipErr error
	if r, _, err := procClipCursor.Call(0); r == 0 {
		clipErr = fmt.Errorf("%w: ClipCursor: %w", ErrUnavailable, err)
	}
	for i, n := 0, showCursor(true); n < 0 && i < maxShowCursorCalls; i++ {
		n = showCursor(true)
	}
	arrow, _, _ := procLoadCursor.Call(0, idcArrow)
	_, _, _ = procSetCursor.Call(arrow)
	return clipErr
}
