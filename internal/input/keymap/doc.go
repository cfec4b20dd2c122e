// Package keymap holds the fixed navigation remap table.
//
// While left Alt is held, a small set of keys is translated to navigation
// keys in the style of vi:
//
//	h -> Left   j -> Down   k -> Up   l -> Right
//	0 -> Home   4 -> End    (4 is the "$" key)
//
// The table is compiled in and built once; it cannot be changed at runtime.
package keymap
