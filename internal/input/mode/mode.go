package mode

// State is an automaton state.
type State uint8

const (
	// Normal is the initial pass-through state.
	Normal State = iota
	// Alt follows a swallowed left-Alt press.
	Alt
	// Inject means Alt is live downstream.
	Inject
	// Mapped means navigation keys are being remapped.
	Mapped

	stateCount
)

// States returns all states in declaration order.
func States() []State {
	return []State{Normal, Alt, Inject, Mapped}
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	return s < stateCount
}

// String returns the state name.
func (s State) String() string {
	switch s {
	case Normal:
		return "Normal"
	case Alt:
		return "Alt"
	case Inject:
		return "Inject"
	case Mapped:
		return "Mapped"
	default:
		return "Unknown"
	}
}
