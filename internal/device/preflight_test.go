package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreflight(t *testing.T) {
	dir := t.TempDir()
	kbd := filepath.Join(dir, "event0")
	uinput := filepath.Join(dir, "uinput")
	require.NoError(t, os.WriteFile(kbd, nil, 0o644))
	require.NoError(t, os.WriteFile(uinput, nil, 0o644))

	assert.NoError(t, preflight(kbd, uinput))

	err := preflight(filepath.Join(dir, "missing"), uinput)
	assert.ErrorContains(t, err, "not readable")

	err = preflight(kbd, filepath.Join(dir, "missing"))
	assert.ErrorContains(t, err, "not writable")
}
