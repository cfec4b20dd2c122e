package device

import (
	"errors"
	"fmt"
	"io"
	"sync"

	evdev "github.com/holoplot/go-evdev"
)

// ErrClosed is returned when reading from or writing to a released handle.
var ErrClosed = errors.New("device closed")

// ErrDisconnected is returned when a grabbed keyboard stops producing
// events without being closed, typically because it was unplugged.
var ErrDisconnected = errors.New("device disconnected")

// Source produces raw events from a keyboard. ReadEvent blocks until the
// next event arrives.
type Source interface {
	ReadEvent() (RawEvent, error)
	Close() error
}

// Physical is a grabbed evdev keyboard.
type Physical struct {
	dev  *evdev.InputDevice
	path string

	closeOnce sync.Once
	closeErr  error
}

// OpenPhysical opens the device at path and grabs it exclusively.
// If the grab fails the handle is closed before returning.
func OpenPhysical(path string) (*Physical, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := dev.Grab(); err != nil {
		_ = dev.Close()
		return nil, fmt.Errorf("grab %s: %w", path, err)
	}

	return &Physical{dev: dev, path: path}, nil
}

// Path returns the device node the keyboard was opened from.
func (p *Physical) Path() string {
	return p.path
}

// Name returns the kernel-reported device name.
func (p *Physical) Name() string {
	name, err := p.dev.Name()
	if err != nil {
		return p.path
	}
	return name
}

// KeyCodes returns every EV_KEY code the keyboard can produce.
func (p *Physical) KeyCodes() []evdev.EvCode {
	return p.dev.CapableEvents(evdev.EV_KEY)
}

// ReadEvent blocks for the next event.
func (p *Physical) ReadEvent() (RawEvent, error) {
	ev, err := p.dev.ReadOne()
	if err != nil {
		return RawEvent{}, readFailure(p.path, err)
	}
	return FromInput(ev), nil
}

// readFailure keeps end of stream on a physical keyboard from looking like
// the clean end of an in-memory source.
func readFailure(path string, err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%s: %w", path, ErrDisconnected)
	}
	return err
}

// Close releases the grab and closes the handle. Only the first call has an
// effect; later calls return the first result.
func (p *Physical) Close() error {
	p.closeOnce.Do(func() {
		ungrabErr := p.dev.Ungrab()
		closeErr := p.dev.Close()
		p.closeErr = errors.Join(ungrabErr, closeErr)
	})
	return p.closeErr
}
