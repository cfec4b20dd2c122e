package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrAcquire means a device could not be opened, grabbed or created.
	// The daemon exits before the event loop starts.
	ErrAcquire = errors.New("device acquisition failed")

	// ErrDeviceRead means reading from the physical keyboard failed.
	ErrDeviceRead = errors.New("device read failed")

	// ErrDeviceWrite means writing to the virtual keyboard failed.
	ErrDeviceWrite = errors.New("device write failed")

	// ErrAlreadyRunning indicates Run was called twice.
	ErrAlreadyRunning = errors.New("application already running")
)

// InitError represents an initialization error. It matches ErrAcquire.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// Is reports ErrAcquire for every initialization failure.
func (e *InitError) Is(target error) bool {
	return target == ErrAcquire
}

// ComponentError represents an error from a specific component.
type ComponentError struct {
	Component string // Component name (e.g., "source", "sink", "watcher")
	Action    string // Action being performed
	Err       error  // Underlying error
}

// NewComponentError creates a new ComponentError.
func NewComponentError(component, action string, err error) *ComponentError {
	return &ComponentError{
		Component: component,
		Action:    action,
		Err:       err,
	}
}

func (e *ComponentError) Error() string {
	if e == nil {
		return ""
	}

	if e.Action != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Component, e.Action, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Component, e.Action)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Component, e.Err)
	}

	return e.Component
}

func (e *ComponentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is implements errors.Is for ComponentError.
// Matches both the wrapper itself and the wrapped error.
func (e *ComponentError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*ComponentError); ok {
		return e == t
	}
	return errors.Is(e.Err, target)
}

// RecoveredPanicError wraps a panic raised inside the event loop.
type RecoveredPanicError struct {
	Value any
	Stack string
}

// NewRecoveredPanicError creates a new RecoveredPanicError.
func NewRecoveredPanicError(value any, stack string) *RecoveredPanicError {
	return &RecoveredPanicError{
		Value: value,
		Stack: stack,
	}
}

func (e *RecoveredPanicError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stack != "" {
		return fmt.Sprintf("panic: %v\n%s", e.Value, e.Stack)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// readError wraps a source failure so it matches ErrDeviceRead.
func readError(err error) error {
	return NewComponentError("source", "read", fmt.Errorf("%w: %w", ErrDeviceRead, err))
}

// writeError wraps a sink failure so it matches ErrDeviceWrite.
func writeError(err error) error {
	return NewComponentError("sink", "write", fmt.Errorf("%w: %w", ErrDeviceWrite, err))
}
