package mode

import (
	"slices"

	"github.com/dshills/altnav/internal/input/key"
)

// Transition records one automaton step.
type Transition struct {
	From    State
	To      State
	Rule    int
	Input   key.Keystroke
	Actions []Action
}

// Changed reports whether the step left the state.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// ChangeCallback is called when the state changes.
type ChangeCallback func(Transition)

// Machine owns the current automaton state and feeds keystrokes through a
// Table. It is not safe for concurrent use; the pipeline drives it from a
// single goroutine.
type Machine struct {
	table     *Table
	state     State
	callbacks []ChangeCallback
}

// NewMachine creates a machine in the Normal state.
func NewMachine(table *Table) *Machine {
	if table == nil {
		table = DefaultTable()
	}
	return &Machine{
		table: table,
		state: Normal,
	}
}

// Table returns the rule table.
func (m *Machine) Table() *Table {
	return m.table
}

// Current returns the current state.
func (m *Machine) Current() State {
	return m.state
}

// Feed advances the machine by one keystroke and returns the transition.
// Change callbacks run before Feed returns.
func (m *Machine) Feed(ks key.Keystroke) Transition {
	idx, rule := m.table.Match(m.state, ks)

	tr := Transition{
		From:    m.state,
		To:      rule.Next,
		Rule:    idx,
		Input:   ks,
		Actions: slices.Clone(rule.Actions),
	}
	m.state = rule.Next

	if tr.Changed() {
		for _, cb := range m.callbacks {
			if cb != nil {
				cb(tr)
			}
		}
	}
	return tr
}

// OnChange registers a callback for state changes.
// Returns a function to unregister the callback.
func (m *Machine) OnChange(callback ChangeCallback) func() {
	m.callbacks = append(m.callbacks, callback)
	index := len(m.callbacks) - 1

	return func() {
		// Remove callback by setting to nil (preserves indices)
		if index < len(m.callbacks) {
			m.callbacks[index] = nil
		}
	}
}
