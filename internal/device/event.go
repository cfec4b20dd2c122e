package device

import (
	"fmt"
	"syscall"
	"time"

	evdev "github.com/holoplot/go-evdev"

	"github.com/dshills/altnav/internal/input/key"
)

// Kind classifies a raw event for keystroke assembly.
type Kind uint8

const (
	// KindOther is any event the assembler has no slot for.
	KindOther Kind = iota
	// KindAux is the auxiliary scan-code event (EV_MSC/MSC_SCAN).
	KindAux
	// KindKey is a key event (EV_KEY).
	KindKey
	// KindSync is the end-of-report marker (EV_SYN/SYN_REPORT).
	KindSync
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAux:
		return "aux"
	case KindKey:
		return "key"
	case KindSync:
		return "sync"
	default:
		return "other"
	}
}

// RawEvent is one kernel input event. It lives for one assembly cycle.
type RawEvent struct {
	Kind  Kind
	Type  evdev.EvType
	Code  evdev.EvCode
	Value int32
}

// Classify returns the kind for an event type/code pair.
func Classify(t evdev.EvType, c evdev.EvCode) Kind {
	switch {
	case t == evdev.EV_MSC && c == evdev.MSC_SCAN:
		return KindAux
	case t == evdev.EV_KEY:
		return KindKey
	case t == evdev.EV_SYN && c == evdev.SYN_REPORT:
		return KindSync
	default:
		return KindOther
	}
}

// FromInput converts a go-evdev event.
func FromInput(ev *evdev.InputEvent) RawEvent {
	return RawEvent{
		Kind:  Classify(ev.Type, ev.Code),
		Type:  ev.Type,
		Code:  ev.Code,
		Value: ev.Value,
	}
}

// Input converts the event back to its go-evdev form, stamped with now.
func (e RawEvent) Input(now time.Time) *evdev.InputEvent {
	return &evdev.InputEvent{
		Time:  syscall.NsecToTimeval(now.UnixNano()),
		Type:  e.Type,
		Code:  e.Code,
		Value: e.Value,
	}
}

// Aux creates a scan-code event.
func Aux(scan int32) RawEvent {
	return RawEvent{Kind: KindAux, Type: evdev.EV_MSC, Code: evdev.MSC_SCAN, Value: scan}
}

// Key creates a key event.
func Key(code key.Code, state key.State) RawEvent {
	return RawEvent{Kind: KindKey, Type: evdev.EV_KEY, Code: evdev.EvCode(code), Value: int32(state)}
}

// Sync creates a SYN_REPORT marker.
func Sync() RawEvent {
	return RawEvent{Kind: KindSync, Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}
}

// Triplet returns the three events reporting one keystroke. The scan value
// carries the key code.
func Triplet(ks key.Keystroke) [3]RawEvent {
	return [3]RawEvent{
		Aux(int32(ks.Code)),
		Key(ks.Code, ks.State),
		Sync(),
	}
}

// Keystroke returns the keystroke carried by a key event.
func (e RawEvent) Keystroke() (key.Keystroke, bool) {
	if e.Kind != KindKey {
		return key.Keystroke{}, false
	}
	return key.New(key.Code(e.Code), key.State(e.Value)), true
}

// String renders the event for diagnostics, e.g. "key KEY_J 1".
func (e RawEvent) String() string {
	switch e.Kind {
	case KindAux:
		return fmt.Sprintf("aux scan=%d", e.Value)
	case KindKey:
		return fmt.Sprintf("key %s %d", key.Code(e.Code), e.Value)
	case KindSync:
		return "sync"
	}
	typeName, ok := evdev.EVToString[e.Type]
	if !ok {
		typeName = fmt.Sprintf("type(%d)", e.Type)
	}
	return fmt.Sprintf("other %s code=%d value=%d", typeName, e.Code, e.Value)
}
