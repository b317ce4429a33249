package binding

// Key codes follow the Linux input event codes (<linux/input-event-codes.h>),
// which also serve as the logical key code of every Input.
var keyCodes = map[Input]uint16{
	"esc": 1,
	"1":   2, "2": 3, "3": 4, "4": 5, "5": 6, "6": 7, "7": 8, "8": 9, "9": 10, "0": 11,
	"minus":     12,
	"equal":     13,
	"backspace": 14,
	"tab":       15,
	"q":         16, "w": 17, "e": 18, "r": 19, "t": 20, "y": 21, "u": 22, "i": 23, "o": 24, "p": 25,
	"leftbrace":  26,
	"rightbrace": 27,
	"enter":      28,
	"ctrl_l":     29,
	"a":          30, "s": 31, "d": 32, "f": 33, "g": 34, "h": 35, "j": 36, "k": 37, "l": 38,
	"semicolon":  39,
	"apostrophe": 40,
	"grave":      41,
	"shift":      42,
	"backslash":  43,
	"z":          44, "x": 45, "c": 46, "v": 47, "b": 48, "n": 49, "m": 50,
	"comma":    51,
	"dot":      52,
	"slash":    53,
	"shift_r":  54,
	"alt_l":    56,
	"space":    57,
	"capslock": 58,
	"f1":       59, "f2": 60, "f3": 61, "f4": 62, "f5": 63, "f6": 64, "f7": 65, "f8": 66, "f9": 67, "f10": 68,
	"f11":    87,
	"f12":    88,
	"ctrl_r": 97,
	"alt_r":  100,
	"up":     103,
	"left":   105,
	"right":  106,
	"down":   108,

	"mouse_left":   0x110,
	"mouse_right":  0x111,
	"mouse_middle": 0x112,
	"mouse_side":   0x113,
	"mouse_extra":  0x114,
}

var codeInputs = func() map[uint16]Input {
	m := make(map[uint16]Input, len(keyCodes))
	for in, code := range keyCodes {
		m[code] = in
	}
	return m
}()

// Code returns the key code of in.
func Code(in Input) (uint16, bool) {
	c, ok := keyCodes[in]
	return c, ok
}

// InputForCode returns the logical input with the given key code.
func InputForCode(code uint16) (Input, bool) {
	in, ok := codeInputs[code]
	return in, ok
}

// Known reports whether in names a key or mouse button.
func Known(in Input) bool {
	_, ok := keyCodes[in]
	return ok
}
