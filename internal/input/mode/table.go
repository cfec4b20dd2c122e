package mode

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dshills/altnav/internal/input/key"
	"github.com/dshills/altnav/internal/input/keymap"
)

// ErrNotTotal is returned by Validate when a state can leave a keystroke
// unmatched.
var ErrNotTotal = errors.New("rule table is not total")

// Rule is one transition: when Pattern matches, move to Next and run
// Actions in order.
type Rule struct {
	Pattern Pattern
	Next    State
	Actions []Action
}

// String renders the rule as "(56, 1) -> Alt []".
func (r Rule) String() string {
	actions := make([]string, len(r.Actions))
	for i, a := range r.Actions {
		actions[i] = a.String()
	}
	return fmt.Sprintf("%s -> %s [%s]", r.Pattern, r.Next, strings.Join(actions, ", "))
}

// Table holds the ordered rule list of every state. It is immutable once
// built.
type Table struct {
	rules [stateCount][]Rule
}

// DefaultTable returns the table for the compiled-in remap table and the
// left Alt key.
func DefaultTable() *Table {
	return NewTable(keymap.Default().Codes(), key.KeyLeftAlt)
}

// NewTable builds the Alt-navigation automaton. nav is the set of keys
// remapped while modifier is held.
func NewTable(nav []key.Code, modifier key.Code) *Table {
	navKey := Stroke(Codes(nav...), Any())
	modPress := Stroke(Code(modifier), KeyState(key.Press))
	modRelease := Stroke(Code(modifier), KeyState(key.Release))

	press := PressModifier(modifier)
	release := ReleaseModifier(modifier)

	rules := map[State][]Rule{
		Normal: {
			{Pattern: modPress, Next: Alt},
			{Pattern: Any(), Next: Normal, Actions: []Action{Forward()}},
		},
		Alt: {
			{Pattern: navKey, Next: Mapped, Actions: []Action{ForwardRemapped()}},
			{Pattern: modRelease, Next: Normal, Actions: []Action{press, release}},
			{Pattern: Any(), Next: Inject, Actions: []Action{press, Forward()}},
		},
		Inject: {
			{Pattern: navKey, Next: Mapped, Actions: []Action{release, ForwardRemapped()}},
			{Pattern: modRelease, Next: Normal, Actions: []Action{release}},
			{Pattern: Any(), Next: Inject, Actions: []Action{Forward()}},
		},
		Mapped: {
			{Pattern: navKey, Next: Mapped, Actions: []Action{ForwardRemapped()}},
			// Alt never reached the consumer during this run.
			{Pattern: modRelease, Next: Normal},
			{Pattern: Any(), Next: Inject, Actions: []Action{press, Forward()}},
		},
	}

	t, err := NewTableFromRules(rules)
	if err != nil {
		panic(err)
	}
	return t
}

// NewTableFromRules builds a table from per-state rule lists and validates
// it.
func NewTableFromRules(rules map[State][]Rule) (*Table, error) {
	t := &Table{}
	for state, list := range rules {
		if !state.Valid() {
			return nil, fmt.Errorf("unknown state %d", state)
		}
		for i, r := range list {
			if !r.Next.Valid() {
				return nil, fmt.Errorf("%s rule %d: unknown next state %d", state, i, r.Next)
			}
		}
		t.rules[state] = cloneRules(list)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that every state has rules and that the last rule of
// each state matches unconditionally.
func (t *Table) Validate() error {
	for _, s := range States() {
		list := t.rules[s]
		if len(list) == 0 {
			return fmt.Errorf("%w: %s has no rules", ErrNotTotal, s)
		}
		if !list[len(list)-1].Pattern.IsAny() {
			return fmt.Errorf("%w: last rule of %s is %s, not a wildcard", ErrNotTotal, s, list[len(list)-1].Pattern)
		}
	}
	return nil
}

// Rules returns a copy of the rule list for s.
func (t *Table) Rules(s State) []Rule {
	if !s.Valid() {
		return nil
	}
	return cloneRules(t.rules[s])
}

// Match returns the index and rule that handles ks in state s.
func (t *Table) Match(s State, ks key.Keystroke) (int, Rule) {
	v := ValueOf(ks)
	if s.Valid() {
		for i, r := range t.rules[s] {
			if r.Pattern.Match(v) {
				return i, r
			}
		}
	}
	// Validate rules this out for every table that can be constructed.
	panic(fmt.Sprintf("mode: no rule for %s in state %s", ks, s))
}

// Step selects the transition for ks in state s. The returned actions are
// a copy the caller may keep.
func (t *Table) Step(s State, ks key.Keystroke) (State, []Action) {
	_, r := t.Match(s, ks)
	return r.Next, slices.Clone(r.Actions)
}

// String renders every state's rules, one per line.
func (t *Table) String() string {
	var sb strings.Builder
	for _, s := range States() {
		sb.WriteString(s.String())
		sb.WriteString(":\n")
		for _, r := range t.rules[s] {
			sb.WriteString("  ")
			sb.WriteString(r.String())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func cloneRules(list []Rule) []Rule {
	out := make([]Rule, len(list))
	for i, r := range list {
		out[i] = Rule{
			Pattern: r.Pattern,
			Next:    r.Next,
			Actions: slices.Clone(r.Actions),
		}
	}
	return out
}
