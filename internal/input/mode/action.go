package mode

import (
	"github.com/dshills/altnav/internal/input/key"
)

// ActionKind discriminates the fixed set of output actions.
type ActionKind uint8

const (
	// ActionForward emits the keystroke unchanged.
	ActionForward ActionKind = iota
	// ActionForwardRemapped emits the keystroke with its code translated
	// through the remap table.
	ActionForwardRemapped
	// ActionPressModifier emits a synthetic press of Modifier.
	ActionPressModifier
	// ActionReleaseModifier emits a synthetic release of Modifier.
	ActionReleaseModifier
)

// String returns the kind name.
func (k ActionKind) String() string {
	switch k {
	case ActionForward:
		return "forward"
	case ActionForwardRemapped:
		return "forward-remapped"
	case ActionPressModifier:
		return "press-modifier"
	case ActionReleaseModifier:
		return "release-modifier"
	default:
		return "unknown"
	}
}

// Action is one output step of a transition. It is applied to the
// keystroke that triggered the transition.
type Action struct {
	Kind     ActionKind
	Modifier key.Code
}

// Forward returns the pass-through action.
func Forward() Action {
	return Action{Kind: ActionForward}
}

// ForwardRemapped returns the remapping action.
func ForwardRemapped() Action {
	return Action{Kind: ActionForwardRemapped}
}

// PressModifier returns an action synthesizing a press of code.
func PressModifier(code key.Code) Action {
	return Action{Kind: ActionPressModifier, Modifier: code}
}

// ReleaseModifier returns an action synthesizing a release of code.
func ReleaseModifier(code key.Code) Action {
	return Action{Kind: ActionReleaseModifier, Modifier: code}
}

// String renders the action, e.g. "press-modifier(KEY_LEFTALT)".
func (a Action) String() string {
	switch a.Kind {
	case ActionPressModifier, ActionReleaseModifier:
		return a.Kind.String() + "(" + a.Modifier.String() + ")"
	}
	return a.Kind.String()
}
