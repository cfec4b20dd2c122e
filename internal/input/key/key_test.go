package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeString(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{KeyJ, "KEY_J"},
		{KeyLeftAlt, "KEY_LEFTALT"},
		{KeyDown, "KEY_DOWN"},
		{KeyHome, "KEY_HOME"},
		{Code(0x2fe), "KEY_766"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.String())
		})
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		input   string
		want    Code
		wantErr bool
	}{
		{"KEY_J", KeyJ, false},
		{"j", KeyJ, false},
		{"LeftAlt", KeyLeftAlt, false},
		{"36", KeyJ, false},
		{" key_down ", KeyDown, false},
		{"", 0, true},
		{"nosuchkey", 0, true},
		{"70000", 0, true},
		{"1000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
