package device

import (
	"io"
	"sync"

	"github.com/dshills/altnav/internal/input/key"
)

// MemorySource replays queued events and then reports io.EOF.
type MemorySource struct {
	mu     sync.Mutex
	events []RawEvent
	closed bool
	err    error
}

// NewMemorySource creates a source that yields events in order.
func NewMemorySource(events ...RawEvent) *MemorySource {
	return &MemorySource{events: events}
}

// NewKeystrokeSource creates a source yielding one well-formed triplet per
// keystroke.
func NewKeystrokeSource(strokes ...key.Keystroke) *MemorySource {
	events := make([]RawEvent, 0, len(strokes)*3)
	for _, ks := range strokes {
		t := Triplet(ks)
		events = append(events, t[:]...)
	}
	return NewMemorySource(events...)
}

// Push appends events to the queue.
func (s *MemorySource) Push(events ...RawEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, events...)
}

// FailWith makes ReadEvent return err once the queue is drained.
func (s *MemorySource) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// ReadEvent returns the next queued event.
func (s *MemorySource) ReadEvent() (RawEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return RawEvent{}, ErrClosed
	}
	if len(s.events) == 0 {
		if s.err != nil {
			return RawEvent{}, s.err
		}
		return RawEvent{}, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

// Closed reports whether Close was called.
func (s *MemorySource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close marks the source closed.
func (s *MemorySource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// MemorySink records written events.
type MemorySink struct {
	mu     sync.Mutex
	events []RawEvent
	closed bool

	// failAfter, when positive, makes the write with that 1-based index fail.
	failAfter int
	failErr   error
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// FailOnWrite makes the n-th write (1-based) and every later write fail
// with err.
func (s *MemorySink) FailOnWrite(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAfter = n
	s.failErr = err
}

// WriteEvent records ev.
func (s *MemorySink) WriteEvent(ev RawEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.failAfter > 0 && len(s.events)+1 >= s.failAfter {
		return s.failErr
	}
	s.events = append(s.events, ev)
	return nil
}

// Events returns a copy of everything written so far.
func (s *MemorySink) Events() []RawEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RawEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Keystrokes returns the keystroke of every key event written so far.
func (s *MemorySink) Keystrokes() []key.Keystroke {
	var out []key.Keystroke
	for _, ev := range s.Events() {
		if ks, ok := ev.Keystroke(); ok {
			out = append(out, ks)
		}
	}
	return out
}

// Triplets groups the written events into triplets. The second result is
// false if the stream is not a whole number of well-formed triplets.
func (s *MemorySink) Triplets() ([][3]RawEvent, bool) {
	events := s.Events()
	if len(events)%3 != 0 {
		return nil, false
	}

	out := make([][3]RawEvent, 0, len(events)/3)
	for i := 0; i < len(events); i += 3 {
		t := [3]RawEvent{events[i], events[i+1], events[i+2]}
		if t[0].Kind != KindAux || t[1].Kind != KindKey || t[2].Kind != KindSync {
			return nil, false
		}
		out = append(out, t)
	}
	return out, true
}

// Reset discards recorded events.
func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = s.events[:0]
}

// Closed reports whether Close was called.
func (s *MemorySink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close marks the sink closed.
func (s *MemorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
