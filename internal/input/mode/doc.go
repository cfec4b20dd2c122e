// Package mode implements the Alt-navigation remapping automaton.
//
// The automaton has four states:
//   - Normal: keys pass through unchanged
//   - Alt: left Alt was pressed and swallowed; nothing has been sent yet
//   - Inject: Alt has been delivered downstream and is live there
//   - Mapped: navigation keys are being remapped while Alt is held
//
// # Rule Tables
//
// Each state owns an ordered list of rules. A rule pairs a Pattern over the
// (code, state) tuple of a keystroke with a next state and a list of
// Actions. Rules are tried in order and the first match wins. Every list
// ends with an unconditional rule, so the automaton is total:
//
//	┌────────┐ Alt press  ┌───────┐ nav key   ┌────────┐
//	│ Normal │ ─────────▶ │  Alt  │ ────────▶ │ Mapped │
//	└────────┘            └───────┘           └────────┘
//	     ▲                    │ other key         │ other key
//	     │ Alt release        ▼                   ▼
//	     └──────────────── ┌────────┐ ◀───────────┘
//	                       │ Inject │
//	                       └────────┘
//
// Patterns and actions are plain data, so the whole table can be printed,
// compared and checked for totality.
//
// # Alt Consistency
//
// The swallowed Alt press is always settled: released before any remapped
// key if it was delivered (Inject), replayed as a press/release pair if Alt
// is released with nothing else pressed (Alt), or dropped entirely when it
// was never delivered (Mapped).
package mode
