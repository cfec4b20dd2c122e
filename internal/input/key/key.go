package key

import (
	"fmt"
	"strconv"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// Code identifies a physical key using the kernel's numbering.
type Code uint16

// Key codes used by the remap table and the automaton.
const (
	KeyReserved Code = Code(evdev.KEY_RESERVED)

	// Modifiers
	KeyLeftAlt   Code = Code(evdev.KEY_LEFTALT)
	KeyRightAlt  Code = Code(evdev.KEY_RIGHTALT)
	KeyLeftCtrl  Code = Code(evdev.KEY_LEFTCTRL)
	KeyLeftShift Code = Code(evdev.KEY_LEFTSHIFT)

	// Navigation sources
	KeyH Code = Code(evdev.KEY_H)
	KeyJ Code = Code(evdev.KEY_J)
	KeyK Code = Code(evdev.KEY_K)
	KeyL Code = Code(evdev.KEY_L)
	Key0 Code = Code(evdev.KEY_0)
	Key4 Code = Code(evdev.KEY_4)

	// Navigation targets
	KeyLeft  Code = Code(evdev.KEY_LEFT)
	KeyDown  Code = Code(evdev.KEY_DOWN)
	KeyUp    Code = Code(evdev.KEY_UP)
	KeyRight Code = Code(evdev.KEY_RIGHT)
	KeyHome  Code = Code(evdev.KEY_HOME)
	KeyEnd   Code = Code(evdev.KEY_END)

	// Ordinary keys that show up in tests and diagnostics
	KeyA     Code = Code(evdev.KEY_A)
	KeyTab   Code = Code(evdev.KEY_TAB)
	KeyEnter Code = Code(evdev.KEY_ENTER)

	// KeyMax is the highest key code the kernel defines.
	KeyMax Code = Code(evdev.KEY_MAX)
)

// String returns the kernel name of the code, e.g. "KEY_J".
// Unknown codes render as "KEY_<n>".
func (c Code) String() string {
	if name, ok := evdev.KEYToString[evdev.EvCode(c)]; ok {
		return name
	}
	return fmt.Sprintf("KEY_%d", uint16(c))
}

// ParseCode parses a key name or number.
// Accepted forms: "KEY_J", "J", "j", "36".
func ParseCode(s string) (Code, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty key code")
	}

	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		if Code(n) > KeyMax {
			return 0, fmt.Errorf("key code %d out of range", n)
		}
		return Code(n), nil
	}

	name := strings.ToUpper(s)
	if !strings.HasPrefix(name, "KEY_") {
		name = "KEY_" + name
	}
	if code, ok := evdev.KEYFromString[name]; ok {
		return Code(code), nil
	}
	return 0, fmt.Errorf("unknown key: %s", s)
}
