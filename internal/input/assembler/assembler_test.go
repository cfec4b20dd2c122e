package assembler

import (
	"testing"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/altnav/internal/device"
	"github.com/dshills/altnav/internal/input/key"
)

// feed runs events through a and returns the finished keystrokes and every
// result in order.
func feed(a *Assembler, events ...device.RawEvent) ([]key.Keystroke, []Result) {
	var strokes []key.Keystroke
	var results []Result
	for _, ev := range events {
		ks, res := a.Input(ev)
		results = append(results, res)
		if res == Finished {
			strokes = append(strokes, ks)
		}
	}
	return strokes, results
}

func TestAssembleWellFormedTriplet(t *testing.T) {
	a := New()
	trip := device.Triplet(key.New(key.KeyJ, key.Press))

	strokes, results := feed(a, trip[:]...)

	assert.Equal(t, []Result{Pending, Pending, Finished}, results)
	require.Len(t, strokes, 1)
	assert.Equal(t, key.New(key.KeyJ, key.Press), strokes[0])
	assert.Equal(t, AwaitingAux, a.Step())
}

func TestAssembleConsecutiveTriplets(t *testing.T) {
	a := New()
	var events []device.RawEvent
	want := []key.Keystroke{
		key.New(key.KeyLeftAlt, key.Press),
		key.New(key.KeyJ, key.Press),
		key.New(key.KeyJ, key.Repeat),
		key.New(key.KeyJ, key.Release),
	}
	for _, ks := range want {
		trip := device.Triplet(ks)
		events = append(events, trip[:]...)
	}

	strokes, _ := feed(a, events...)
	assert.Equal(t, want, strokes)
}

func TestSpecialEventInAuxSlot(t *testing.T) {
	a := New()
	other := device.RawEvent{Kind: device.KindOther, Type: evdev.EV_LED, Code: evdev.LED_NUML, Value: 1}

	strokes, results := feed(a,
		other,
		device.Key(key.KeyA, key.Press),
		device.Sync(),
	)

	assert.Equal(t, []Result{Special, Pending, Finished}, results)
	assert.Equal(t, []key.Keystroke{key.New(key.KeyA, key.Press)}, strokes)
}

func TestResync(t *testing.T) {
	tests := []struct {
		name      string
		malformed []device.RawEvent
		results   []Result
	}{
		{
			name: "two key events without sync",
			malformed: []device.RawEvent{
				device.Aux(36),
				device.Key(key.KeyJ, key.Press),
				device.Key(key.KeyK, key.Press),
			},
			results: []Result{Pending, Pending, Reset},
		},
		{
			name: "sync in key slot",
			malformed: []device.RawEvent{
				device.Aux(36),
				device.Sync(),
			},
			results: []Result{Pending, Reset},
		},
		{
			name: "aux in sync slot",
			malformed: []device.RawEvent{
				device.Aux(36),
				device.Key(key.KeyJ, key.Press),
				device.Aux(37),
			},
			results: []Result{Pending, Pending, Reset},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()

			strokes, results := feed(a, tt.malformed...)
			assert.Empty(t, strokes, "malformed input must not yield a keystroke")
			assert.Equal(t, tt.results, results)
			assert.Equal(t, AwaitingAux, a.Step())

			trip := device.Triplet(key.New(key.KeyL, key.Press))
			strokes, _ = feed(a, trip[:]...)
			assert.Equal(t, []key.Keystroke{key.New(key.KeyL, key.Press)}, strokes)
		})
	}
}

func TestAutorepeatWithoutScanIsDropped(t *testing.T) {
	// The kernel reports autorepeat as key+sync with no scan event. The key
	// takes the scan slot and the sync then lands in the key slot.
	a := New()
	strokes, results := feed(a,
		device.Key(key.KeyJ, key.Repeat),
		device.Sync(),
	)
	assert.Empty(t, strokes)
	assert.Equal(t, []Result{Special, Reset}, results)
}

func TestResetDiscardsPartial(t *testing.T) {
	a := New()
	feed(a, device.Aux(36), device.Key(key.KeyJ, key.Press))
	require.Equal(t, AwaitingSync, a.Step())

	a.Reset()
	assert.Equal(t, AwaitingAux, a.Step())

	_, res := a.Input(device.Sync())
	assert.Equal(t, Special, res)
}

func TestStepAndResultStrings(t *testing.T) {
	assert.Equal(t, "awaiting-key", AwaitingKey.String())
	assert.Equal(t, "unknown", Step(9).String())
	assert.Equal(t, "finished", Finished.String())
	assert.Equal(t, "unknown", Result(9).String())
}
