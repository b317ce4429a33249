// Package binding maps logical keyboard and mouse inputs to gamepad actions.
package binding

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Relics97/ControllerEmulator/device/xbox360"
)

// ErrInvalidBinding is returned when a configured input or action is unknown.
var ErrInvalidBinding = errors.New("invalid binding")

// Input is a logical input name such as "w", "space" or "mouse_left".
type Input string

// Kind is the kind of gamepad action an input drives.
type Kind int

const (
	KindButton Kind = iota
	KindTrigger
	KindDirection
)

// Side selects the left or right trigger.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// ParseSide parses "left" or "right".
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l", "lt":
		return SideLeft, nil
	case "right", "r", "rt":
		return SideRight, nil
	}
	return 0, fmt.Errorf("%w: unknown trigger side %q", ErrInvalidBinding, s)
}

// Direction is one of the four left-stick movement directions.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

var directionNames = map[Direction]string{
	DirUp:    "move_up",
	DirDown:  "move_down",
	DirLeft:  "move_left",
	DirRight: "move_right",
}

// Action is what a bound input does to the gamepad.
type Action struct {
	Kind      Kind
	Button    uint32
	Trigger   Side
	Direction Direction
}

// ButtonAction returns an action pressing the given xbox360 button bit.
func ButtonAction(b uint32) Action { return Action{Kind: KindButton, Button: b} }

// TriggerAction returns an action fully pulling the trigger on side s.
func TriggerAction(s Side) Action { return Action{Kind: KindTrigger, Trigger: s} }

// DirectionAction returns an action deflecting the left stick towards d.
func DirectionAction(d Direction) Action { return Action{Kind: KindDirection, Direction: d} }

// String returns the binding-file name of the action.
func (a Action) String() string {
	switch a.Kind {
	case KindButton:
		return xbox360.ButtonName(a.Button)
	case KindTrigger:
		if a.Trigger == SideRight {
			return "rt"
		}
		return "lt"
	case KindDirection:
		return directionNames[a.Direction]
	}
	return ""
}

// ParseAction parses a binding-file action name.
func ParseAction(s string) (Action, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if b, ok := xbox360.Buttons[name]; ok {
		return ButtonAction(b), nil
	}
	switch name {
	case "lt":
		return TriggerAction(SideLeft), nil
	case "rt":
		return TriggerAction(SideRight), nil
	}
	for d, n := range directionNames {
		if n == name {
			return DirectionAction(d), nil
		}
	}
	return Action{}, fmt.Errorf("%w: unknown action %q", ErrInvalidBinding, s)
}

// Table is a read-only mapping from inputs to actions. Every input maps to at
// most one action; unmapped inputs are ignored by the engine.
type Table struct {
	m map[Input]Action
}

// NewTable validates raw input→action names and builds a Table.
func NewTable(raw map[string]string) (*Table, error) {
	t := &Table{m: make(map[Input]Action, len(raw))}
	for k, v := range raw {
		in := Input(strings.ToLower(strings.TrimSpace(k)))
		if !Known(in) {
			return nil, fmt.Errorf("%w: unknown input %q", ErrInvalidBinding, k)
		}
		if _, dup := t.m[in]; dup {
			return nil, fmt.Errorf("%w: input %q bound twice", ErrInvalidBinding, k)
		}
		a, err := ParseAction(v)
		if err != nil {
			return nil, fmt.Errorf("input %q: %w", k, err)
		}
		t.m[in] = a
	}
	return t, nil
}

// Lookup returns the action bound to in.
func (t *Table) Lookup(in Input) (Action, bool) {
	if t == nil {
		return Action{}, false
	}
	a, ok := t.m[in]
	return a, ok
}

// Len returns the number of bound inputs.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.m)
}

// Map returns the table as binding-file names.
func (t *Table) Map() map[string]string {
	out := make(map[string]string, t.Len())
	if t == nil {
		return out
	}
	for in, a := range t.m {
		out[string(in)] = a.String()
	}
	return out
}

// Inputs returns the bound inputs in sorted order.
func (t *Table) Inputs() []Input {
	out := make([]Input, 0, t.Len())
	if t == nil {
		return out
	}
	for in := range t.m {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DefaultBindings is the built-in keyboard and mouse layout.
var DefaultBindings = map[string]string{
	"space":       "a",
	"c":           "b",
	"r":           "x",
	"1":           "y",
	"2":           "dpad_up",
	"alt_l":       "dpad_down",
	"b":           "dpad_left",
	"3":           "dpad_right",
	"q":           "lb",
	"e":           "rb",
	"esc":         "start",
	"tab":         "back",
	"shift":       "ls",
	"f":           "rs",
	"w":           "move_up",
	"a":           "move_left",
	"s":           "move_down",
	"d":           "move_right",
	"mouse_left":  "rt",
	"mouse_right": "lt",
}

// Default returns the built-in table.
func Default() *Table {
	t, err := NewTable(DefaultBindings)
	if err != nil {
		panic(err)
	}
	return t
}
