package app

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dshills/altnav/internal/input/mode"
)

// Metrics counts what the pipeline did. Counters are atomic so the
// snapshot can be taken from any goroutine.
type Metrics struct {
	rawEvents  atomic.Uint64
	keystrokes atomic.Uint64
	special    atomic.Uint64
	resyncs    atomic.Uint64
	triplets   atomic.Uint64

	// Transitions by target state, indexed by mode.State.
	transitions []atomic.Uint64

	// Keystroke handling latency, from the sync event to the last write
	latencyTotalNs atomic.Int64
	latencyMinNs   atomic.Int64
	latencyMaxNs   atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		transitions: make([]atomic.Uint64, len(mode.States())),
		startTime:   time.Now(),
	}
	// Initialize min to max int64 so the first sample is smaller
	m.latencyMinNs.Store(1<<63 - 1)
	return m
}

// RecordRawEvent counts one event read from the physical keyboard.
func (m *Metrics) RecordRawEvent() {
	m.rawEvents.Add(1)
}

// RecordSpecial counts a non-scan event seen in the scan slot.
func (m *Metrics) RecordSpecial() {
	m.special.Add(1)
}

// RecordResync counts a discarded partial keystroke.
func (m *Metrics) RecordResync() {
	m.resyncs.Add(1)
}

// RecordTransition counts one automaton step into state to.
func (m *Metrics) RecordTransition(to mode.State) {
	if to.Valid() {
		m.transitions[to].Add(1)
	}
}

// RecordTriplets counts injected triplets.
func (m *Metrics) RecordTriplets(n int) {
	if n > 0 {
		m.triplets.Add(uint64(n))
	}
}

// RecordKeystroke counts one assembled keystroke and how long it took to
// step and inject.
func (m *Metrics) RecordKeystroke(duration time.Duration) {
	ns := duration.Nanoseconds()

	m.keystrokes.Add(1)
	m.latencyTotalNs.Add(ns)

	for {
		old := m.latencyMinNs.Load()
		if ns >= old || m.latencyMinNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.latencyMaxNs.Load()
		if ns <= old || m.latencyMaxNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Snapshot returns a consistent-enough copy of the counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		Uptime:      time.Since(m.startTime),
		RawEvents:   m.rawEvents.Load(),
		Keystrokes:  m.keystrokes.Load(),
		Special:     m.special.Load(),
		Resyncs:     m.resyncs.Load(),
		Triplets:    m.triplets.Load(),
		Transitions: make(map[mode.State]uint64, len(m.transitions)),
	}
	for i := range m.transitions {
		s.Transitions[mode.State(i)] = m.transitions[i].Load()
	}

	if s.Keystrokes > 0 {
		s.AvgLatency = time.Duration(m.latencyTotalNs.Load() / int64(s.Keystrokes))
		s.MinLatency = time.Duration(m.latencyMinNs.Load())
		s.MaxLatency = time.Duration(m.latencyMaxNs.Load())
	}
	return s
}

// MetricsSnapshot is a point-in-time copy of Metrics.
type MetricsSnapshot struct {
	Uptime      time.Duration
	RawEvents   uint64
	Keystrokes  uint64
	Special     uint64
	Resyncs     uint64
	Triplets    uint64
	Transitions map[mode.State]uint64
	AvgLatency  time.Duration
	MinLatency  time.Duration
	MaxLatency  time.Duration
}

// String renders the snapshot as one line for the exit summary.
func (s MetricsSnapshot) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "events=%d keystrokes=%d triplets=%d special=%d resyncs=%d",
		s.RawEvents, s.Keystrokes, s.Triplets, s.Special, s.Resyncs)
	for _, st := range mode.States() {
		fmt.Fprintf(&sb, " to_%s=%d", strings.ToLower(st.String()), s.Transitions[st])
	}
	if s.Keystrokes > 0 {
		fmt.Fprintf(&sb, " latency_avg=%s latency_max=%s", s.AvgLatency, s.MaxLatency)
	}
	return sb.String()
}
