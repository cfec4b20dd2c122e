package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateHelpers(t *testing.T) {
	tests := []struct {
		state State
		valid bool
		name  string
	}{
		{Release, true, "release"},
		{Press, true, "press"},
		{Repeat, true, "repeat"},
		{State(7), false, "state(7)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.state.Valid())
			assert.Equal(t, tt.name, tt.state.String())
		})
	}
}

func TestKeystrokeString(t *testing.T) {
	assert.Equal(t, "KEY_J 1", New(KeyJ, Press).String())
	assert.Equal(t, "KEY_LEFTALT 0", New(KeyLeftAlt, Release).String())
}

func TestKeystrokePressRelease(t *testing.T) {
	ks := New(KeyLeftAlt, Press)
	assert.True(t, ks.IsPress(KeyLeftAlt))
	assert.False(t, ks.IsRelease(KeyLeftAlt))
	assert.False(t, ks.IsPress(KeyJ))

	ks = New(KeyLeftAlt, Release)
	assert.True(t, ks.IsRelease(KeyLeftAlt))
}

func TestParseKeystroke(t *testing.T) {
	tests := []struct {
		input   string
		want    Keystroke
		wantErr bool
	}{
		{"j:1", New(KeyJ, Press), false},
		{"KEY_LEFTALT:0", New(KeyLeftAlt, Release), false},
		{"k:repeat", New(KeyK, Repeat), false},
		{"a", New(KeyA, Press), false},
		{"l:up", New(KeyL, Release), false},
		{"j:9", Keystroke{}, true},
		{"bogus:1", Keystroke{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKeystroke(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
