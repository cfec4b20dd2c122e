package key

import (
	"fmt"
	"strings"
)

// State is the value carried by an EV_KEY event.
type State int32

const (
	// Release indicates the key went up.
	Release State = 0
	// Press indicates the key went down.
	Press State = 1
	// Repeat is an autorepeat report while the key is held.
	Repeat State = 2
)

// Valid reports whether s is one of the three kernel key values.
func (s State) Valid() bool {
	return s >= Release && s <= Repeat
}

// String returns the state name.
func (s State) String() string {
	switch s {
	case Release:
		return "release"
	case Press:
		return "press"
	case Repeat:
		return "repeat"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Keystroke is one logical key report.
// It is produced once per well-formed raw triplet and never modified.
type Keystroke struct {
	Code  Code
	State State
}

// New creates a keystroke.
func New(code Code, state State) Keystroke {
	return Keystroke{Code: code, State: state}
}

// IsPress returns true for a press of the given code.
func (k Keystroke) IsPress(code Code) bool {
	return k.Code == code && k.State == Press
}

// IsRelease returns true for a release of the given code.
func (k Keystroke) IsRelease(code Code) bool {
	return k.Code == code && k.State == Release
}

// String renders the keystroke as "KEY_J 1".
func (k Keystroke) String() string {
	return fmt.Sprintf("%s %d", k.Code, int32(k.State))
}

// ParseKeystroke parses "CODE:STATE", e.g. "j:1" or "KEY_LEFTALT:0".
// The state may be numeric or one of release/press/repeat. A bare code
// means a press.
func ParseKeystroke(s string) (Keystroke, error) {
	codePart, statePart, hasState := strings.Cut(strings.TrimSpace(s), ":")

	code, err := ParseCode(codePart)
	if err != nil {
		return Keystroke{}, err
	}
	if !hasState {
		return New(code, Press), nil
	}

	state, err := parseState(statePart)
	if err != nil {
		return Keystroke{}, fmt.Errorf("%s: %w", s, err)
	}
	return New(code, state), nil
}

func parseState(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "0", "release", "up":
		return Release, nil
	case "1", "press", "down":
		return Press, nil
	case "2", "repeat":
		return Repeat, nil
	}
	return 0, fmt.Errorf("invalid key state %q", s)
}
