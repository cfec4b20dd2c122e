package inject

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/altnav/internal/device"
	"github.com/dshills/altnav/internal/input/key"
	"github.com/dshills/altnav/internal/input/mode"
)

func TestApplyWritesTriplet(t *testing.T) {
	tests := []struct {
		name   string
		action mode.Action
		input  key.Keystroke
		want   key.Keystroke
	}{
		{"forward", mode.Forward(), key.New(key.KeyA, key.Press), key.New(key.KeyA, key.Press)},
		{"remap", mode.ForwardRemapped(), key.New(key.KeyJ, key.Repeat), key.New(key.KeyDown, key.Repeat)},
		{"remap end", mode.ForwardRemapped(), key.New(key.Key4, key.Press), key.New(key.KeyEnd, key.Press)},
		{"press alt", mode.PressModifier(key.KeyLeftAlt), key.New(key.KeyA, key.Press), key.New(key.KeyLeftAlt, key.Press)},
		{"release alt", mode.ReleaseModifier(key.KeyLeftAlt), key.New(key.KeyJ, key.Press), key.New(key.KeyLeftAlt, key.Release)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := device.NewMemorySink()
			in := New(sink, nil)

			require.NoError(t, in.Apply(tt.action, tt.input))

			trips, ok := sink.Triplets()
			require.True(t, ok)
			require.Len(t, trips, 1)
			assert.Equal(t, device.Triplet(tt.want), trips[0])
		})
	}
}

func TestApplyRemapUnknownKey(t *testing.T) {
	sink := device.NewMemorySink()
	in := New(sink, nil)

	err := in.Apply(mode.ForwardRemapped(), key.New(key.KeyA, key.Press))
	assert.ErrorIs(t, err, ErrNotRemappable)
	assert.Empty(t, sink.Events())
}

func TestApplyUnknownAction(t *testing.T) {
	in := New(device.NewMemorySink(), nil)
	err := in.Apply(mode.Action{Kind: mode.ActionKind(99)}, key.New(key.KeyA, key.Press))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestApplyWriteFailure(t *testing.T) {
	boom := errors.New("uinput gone")
	sink := device.NewMemorySink()
	sink.FailOnWrite(3, boom)
	in := New(sink, nil)

	err := in.Apply(mode.Forward(), key.New(key.KeyA, key.Press))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var werr *WriteError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, key.New(key.KeyA, key.Press), werr.Output)
}

func TestExecuteInOrder(t *testing.T) {
	sink := device.NewMemorySink()
	in := New(sink, nil)

	var observed []key.Keystroke
	in.SetObserver(func(_ mode.Action, _, out key.Keystroke) {
		observed = append(observed, out)
	})

	n, err := in.Execute([]mode.Action{
		mode.ReleaseModifier(key.KeyLeftAlt),
		mode.ForwardRemapped(),
	}, key.New(key.KeyH, key.Press))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want := []key.Keystroke{
		key.New(key.KeyLeftAlt, key.Release),
		key.New(key.KeyLeft, key.Press),
	}
	assert.Equal(t, want, sink.Keystrokes())
	assert.Equal(t, want, observed)
}

func TestExecuteStopsAtFirstError(t *testing.T) {
	sink := device.NewMemorySink()
	in := New(sink, nil)

	n, err := in.Execute([]mode.Action{
		mode.Forward(),
		mode.ForwardRemapped(),
		mode.Forward(),
	}, key.New(key.KeyA, key.Press))
	assert.ErrorIs(t, err, ErrNotRemappable)
	assert.Equal(t, 1, n)
	assert.Len(t, sink.Keystrokes(), 1)
}
