package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger records raw device frames.
type RawLogger interface {
	// Log records one frame. out=true means host->device input,
	// out=false means device->host feedback such as rumble.
	Log(out bool, data []byte)
}

type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger. If w is nil, returns a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Log emits a single line with timestamp, direction and hex dump.
func (r *rawLogger) Log(out bool, data []byte) {
	if len(data) == 0 || r.w == nil {
		return
	}
	dir := "DEV->HOST"
	if out {
		dir = "HOST->DEV"
	}
	line := fmt.Sprintf("%s %s frame: %d bytes, hex: % x\n",
		time.Now().Format("2006/01/02 15:04:05.000"),
		dir,
		len(data),
		data)

	r.mu.Lock()
	_, _ = io.WriteString(r.w, line)
	r.mu.Unlock()
}
