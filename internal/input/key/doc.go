// Package key provides the keystroke types shared by the remapping pipeline.
//
// This package defines the fundamental values that flow between components:
//
//   - Code: a Linux input key code (KEY_* in linux/input-event-codes.h)
//   - State: the key value of an EV_KEY event (release, press, repeat)
//   - Keystroke: one logical key report assembled from a raw event triplet
//
// # Names
//
// Codes render with their kernel names ("KEY_J", "KEY_LEFTALT"). Parsing
// accepts the kernel name, the bare suffix ("J", "leftalt") or a decimal code:
//
//	ks, err := key.ParseKeystroke("leftalt:1")
package key
