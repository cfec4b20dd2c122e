// Package inject turns automaton actions into events on the virtual device.
package inject

import (
	"errors"
	"fmt"

	"github.com/dshills/altnav/internal/device"
	"github.com/dshills/altnav/internal/input/key"
	"github.com/dshills/altnav/internal/input/keymap"
	"github.com/dshills/altnav/internal/input/mode"
)

var (
	// ErrNotRemappable is returned when a remap action meets a key that is
	// not in the remap table.
	ErrNotRemappable = errors.New("key has no remap target")

	// ErrUnknownAction is returned for an action kind outside the fixed set.
	ErrUnknownAction = errors.New("unknown action")
)

// WriteError wraps a failed write to the virtual device.
type WriteError struct {
	Action mode.Action
	Output key.Keystroke
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("inject %s (%s): %v", e.Output, e.Action, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Observer is told about every keystroke written to the sink.
type Observer func(action mode.Action, input, output key.Keystroke)

// Injector writes one triplet per output keystroke. It is not safe for
// concurrent use.
type Injector struct {
	sink     device.Sink
	remap    *keymap.Table
	observer Observer
}

// New creates an injector writing to sink. A nil remap table means the
// compiled-in default.
func New(sink device.Sink, remap *keymap.Table) *Injector {
	if remap == nil {
		remap = keymap.Default()
	}
	return &Injector{
		sink:  sink,
		remap: remap,
	}
}

// SetObserver installs an observer. Pass nil to remove it.
func (in *Injector) SetObserver(obs Observer) {
	in.observer = obs
}

// Output returns the keystroke action a produces for input ks.
func (in *Injector) Output(a mode.Action, ks key.Keystroke) (key.Keystroke, error) {
	switch a.Kind {
	case mode.ActionForward:
		return ks, nil
	case mode.ActionForwardRemapped:
		out, ok := in.remap.Remap(ks)
		if !ok {
			return key.Keystroke{}, fmt.Errorf("%w: %s", ErrNotRemappable, ks.Code)
		}
		return out, nil
	case mode.ActionPressModifier:
		return key.New(a.Modifier, key.Press), nil
	case mode.ActionReleaseModifier:
		return key.New(a.Modifier, key.Release), nil
	}
	return key.Keystroke{}, fmt.Errorf("%w: %d", ErrUnknownAction, a.Kind)
}

// Apply runs one action for input ks and writes the resulting triplet.
func (in *Injector) Apply(a mode.Action, ks key.Keystroke) error {
	out, err := in.Output(a, ks)
	if err != nil {
		return err
	}

	if err := device.WriteTriplet(in.sink, out); err != nil {
		return &WriteError{Action: a, Output: out, Err: err}
	}

	if in.observer != nil {
		in.observer(a, ks, out)
	}
	return nil
}

// Execute applies actions in order and stops at the first error.
// It returns the number of triplets written.
func (in *Injector) Execute(actions []mode.Action, ks key.Keystroke) (int, error) {
	for i, a := range actions {
		if err := in.Apply(a, ks); err != nil {
			return i, err
		}
	}
	return len(actions), nil
}
