package input

import (
	"bytes"
	"encoding/binary"

	"github.com/Relics97/ControllerEmulator/binding"
)

// Linux input event types and codes (linux/input-event-codes.h).
const (
	evKey = 0x01
	evRel = 0x02
	relX  = 0x00
	relY  = 0x01

	keyReleased = 0
	keyPressed  = 1
	keyRepeat   = 2
)

// rawEvent mirrors struct input_event on 64-bit Linux:
// struct input_event { struct timeval time; __u16 type; __u16 code; __s32 value; };
type rawEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

var rawEventSize = binary.Size(rawEvent{})

// decodeEvents parses whole input_event records from buf and translates
// them. Key repeats, unknown codes and non key/relative events are dropped.
func decodeEvents(buf []byte, out []Event) []Event {
	r := bytes.NewReader(buf)
	for r.Len() >= rawEventSize {
		var ev rawEvent
		if err := binary.Read(r, binary.LittleEndian, &ev); err != nil {
			break
		}
		if e, ok := translate(ev); ok {
			out = append(out, e)
		}
	}
	return out
}

func translate(ev rawEvent) (Event, bool) {
	switch ev.Type {
	case evKey:
		if ev.Value != keyPressed && ev.Value != keyReleased {
			return Event{}, false
		}
		in, ok := binding.InputForCode(ev.Code)
		if !ok {
			return Event{}, false
		}
		return KeyEvent(in, ev.Value == keyPressed), true
	case evRel:
		switch ev.Code {
		case relX:
			return PointerEvent(float64(ev.Value), 0), true
		case relY:
			return PointerEvent(0, float64(ev.Value)), true
		}
	}
	return Event{}, false
}
