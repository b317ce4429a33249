package input

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, evs ...rawEvent) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, ev := range evs {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, ev))
	}
	return buf.Bytes()
}

func TestDecodeEvents(t *testing.T) {
	assert.Equal(t, 24, rawEventSize)

	data := encode(t,
		rawEvent{Type: evKey, Code: 17, Value: keyPressed},
		rawEvent{Type: evKey, Code: 17, Value: keyRepeat},
		rawEvent{Type: evRel, Code: relX, Value: -5},
		rawEvent{Type: evRel, Code: relY, Value: 7},
		rawEvent{Type: 0x00, Code: 0, Value: 0},
		rawEvent{Type: evRel, Code: 0x08, Value: 1},
		rawEvent{Type: evKey, Code: 0x110, Value: keyPressed},
		rawEvent{Type: evKey, Code: 0x2ff, Value: keyPressed},
		rawEvent{Type: evKey, Code: 17, Value: keyReleased},
	)
	// A trailing partial record is ignored.
	data = append(data, 1, 2, 3)

	// Repeats, SYN_REPORT, the wheel and unknown codes are dropped.
	got := decodeEvents(data, nil)
	assert.Equal(t, []Event{
		KeyEvent("w", true),
		PointerEvent(-5, 0),
		PointerEvent(0, 7),
		KeyEvent("mouse_left", true),
		KeyEvent("w", false),
	}, got)
}

func TestOpenEvdevErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := OpenEvdev(nil, logger)
	assert.Error(t, err)

	_, err = OpenEvdev([]string{"/nonexistent/event99"}, logger)
	assert.Error(t, err)
}
