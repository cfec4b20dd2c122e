// Package assembler rebuilds logical keystrokes from the raw event stream.
//
// A keyboard report arrives as three events: a scan code, the key event and
// a SYN_REPORT marker. The Assembler walks that cycle one event at a time and
// falls back to the start of the cycle whenever an event does not fit, so a
// dropped or reordered event costs at most one keystroke.
package assembler

import (
	"github.com/dshills/altnav/internal/device"
	"github.com/dshills/altnav/internal/input/key"
)

// Step is the position within the report cycle.
type Step uint8

const (
	AwaitingAux Step = iota
	AwaitingKey
	AwaitingSync
)

// String returns the step name.
func (s Step) String() string {
	switch s {
	case AwaitingAux:
		return "awaiting-aux"
	case AwaitingKey:
		return "awaiting-key"
	case AwaitingSync:
		return "awaiting-sync"
	default:
		return "unknown"
	}
}

// Result tells the caller what an input event did.
type Result uint8

const (
	// Pending means the event was accepted and the cycle continues.
	Pending Result = iota
	// Special means a non-scan event took the scan slot. It is accepted
	// and the cycle continues; callers log it.
	Special
	// Finished means a keystroke is complete and returned.
	Finished
	// Reset means the event did not fit and the partial keystroke was
	// discarded.
	Reset
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case Pending:
		return "pending"
	case Special:
		return "special"
	case Finished:
		return "finished"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

// Assembler is the three-step keystroke builder. The zero value is ready.
// It is not safe for concurrent use.
type Assembler struct {
	step    Step
	pending key.Keystroke
}

// New creates an assembler at the start of a cycle.
func New() *Assembler {
	return &Assembler{}
}

// Step returns the current position in the cycle.
func (a *Assembler) Step() Step {
	return a.step
}

// Input consumes one raw event. The keystroke is only meaningful when the
// result is Finished. After Finished or Reset the assembler is back at
// AwaitingAux; the event that caused a reset is consumed.
func (a *Assembler) Input(ev device.RawEvent) (key.Keystroke, Result) {
	switch a.step {
	case AwaitingAux:
		a.step = AwaitingKey
		if ev.Kind != device.KindAux {
			return key.Keystroke{}, Special
		}
		return key.Keystroke{}, Pending

	case AwaitingKey:
		ks, ok := ev.Keystroke()
		if !ok {
			a.Reset()
			return key.Keystroke{}, Reset
		}
		a.pending = ks
		a.step = AwaitingSync
		return key.Keystroke{}, Pending

	case AwaitingSync:
		if ev.Kind != device.KindSync {
			a.Reset()
			return key.Keystroke{}, Reset
		}
		ks := a.pending
		a.Reset()
		return ks, Finished
	}

	a.Reset()
	return key.Keystroke{}, Reset
}

// Reset discards any partial keystroke.
func (a *Assembler) Reset() {
	a.step = AwaitingAux
	a.pending = key.Keystroke{}
}
