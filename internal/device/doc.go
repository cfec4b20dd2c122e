// Package device owns the two kernel input handles of the remapper.
//
// A Source delivers raw input events from the physical keyboard, which it
// holds with an exclusive grab so that no other process sees the original
// stream. A Sink writes synthesized events to a uinput virtual keyboard.
// Both are backed by github.com/holoplot/go-evdev; MemorySource and
// MemorySink stand in for them in dry runs and tests.
//
// Every output event goes out as a complete triplet (scan, key, sync) so a
// consumer that assembles reports the same way never sees a partial one.
package device
