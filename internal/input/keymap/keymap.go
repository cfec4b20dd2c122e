package keymap

import (
	"fmt"
	"strings"

	"github.com/dshills/altnav/internal/input/key"
)

// Binding maps one source key to its navigation target.
type Binding struct {
	From key.Code
	To   key.Code
}

// Table is an immutable remap table.
type Table struct {
	bindings []Binding
	lookup   map[key.Code]key.Code
}

// defaultBindings is the compiled-in mapping, in declaration order.
var defaultBindings = []Binding{
	{From: key.KeyJ, To: key.KeyDown},
	{From: key.KeyK, To: key.KeyUp},
	{From: key.KeyH, To: key.KeyLeft},
	{From: key.KeyL, To: key.KeyRight},
	{From: key.Key0, To: key.KeyHome},
	{From: key.Key4, To: key.KeyEnd},
}

var defaultTable = mustNew(defaultBindings)

// Default returns the process-wide remap table.
func Default() *Table {
	return defaultTable
}

// New builds a table. A source key may appear only once.
func New(bindings []Binding) (*Table, error) {
	t := &Table{
		bindings: make([]Binding, 0, len(bindings)),
		lookup:   make(map[key.Code]key.Code, len(bindings)),
	}
	for i, b := range bindings {
		if _, dup := t.lookup[b.From]; dup {
			return nil, fmt.Errorf("binding %d: %s mapped twice", i, b.From)
		}
		t.lookup[b.From] = b.To
		t.bindings = append(t.bindings, b)
	}
	return t, nil
}

func mustNew(bindings []Binding) *Table {
	t, err := New(bindings)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the target for code.
func (t *Table) Lookup(code key.Code) (key.Code, bool) {
	to, ok := t.lookup[code]
	return to, ok
}

// Remap translates the code of ks, keeping its state.
func (t *Table) Remap(ks key.Keystroke) (key.Keystroke, bool) {
	to, ok := t.lookup[ks.Code]
	if !ok {
		return ks, false
	}
	return key.New(to, ks.State), true
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	return len(t.bindings)
}

// Codes returns the source keys in declaration order.
func (t *Table) Codes() []key.Code {
	out := make([]key.Code, len(t.bindings))
	for i, b := range t.bindings {
		out[i] = b.From
	}
	return out
}

// Targets returns the navigation keys in declaration order.
func (t *Table) Targets() []key.Code {
	out := make([]key.Code, len(t.bindings))
	for i, b := range t.bindings {
		out[i] = b.To
	}
	return out
}

// Bindings returns a copy of the bindings.
func (t *Table) Bindings() []Binding {
	out := make([]Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

// String renders the table as "KEY_J->KEY_DOWN, ...".
func (t *Table) String() string {
	parts := make([]string, len(t.bindings))
	for i, b := range t.bindings {
		parts[i] = b.From.String() + "->" + b.To.String()
	}
	return strings.Join(parts, ", ")
}
