package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

func (m memFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m[path]; !ok {
		return nil, fs.ErrNotExist
	}
	return fileInfo(path), nil
}

type fileInfo string

func (f fileInfo) Name() string       { return string(f) }
func (f fileInfo) Size() int64        { return 0 }
func (f fileInfo) Mode() fs.FileMode  { return 0644 }
func (f fileInfo) ModTime() time.Time { return time.Time{} }
func (f fileInfo) IsDir() bool        { return false }
func (f fileInfo) Sys() any           { return nil }

type staticEnv map[string]any

func (e staticEnv) Load() (map[string]any, error) { return e, nil }

type failingEnv struct{}

func (failingEnv) Load() (map[string]any, error) { return nil, errors.New("env unavailable") }

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultDevicePath, cfg.Device.Path)
	assert.Equal(t, DefaultVirtualName, cfg.Virtual.Name)
	assert.Equal(t, uint16(DefaultVendor), cfg.Virtual.Vendor)
	assert.Equal(t, uint16(DefaultProduct), cfg.Virtual.Product)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Watch)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFS_NoFile(t *testing.T) {
	cfg, err := LoadFS(memFS{}, nil, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFS_MissingExplicitFile(t *testing.T) {
	_, err := LoadFS(memFS{}, nil, "/etc/altnav.toml")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadFS_TOML(t *testing.T) {
	fsys := memFS{"/etc/altnav.toml": `
watch = true

[device]
path = "/dev/input/event3"

[virtual]
name = "nav"
vendor = 0x1209
product = 2

[logging]
level = "debug"
`}

	cfg, err := LoadFS(fsys, nil, "/etc/altnav.toml")
	require.NoError(t, err)

	assert.Equal(t, "/dev/input/event3", cfg.Device.Path)
	assert.Equal(t, "nav", cfg.Virtual.Name)
	assert.Equal(t, uint16(0x1209), cfg.Virtual.Vendor)
	assert.Equal(t, uint16(2), cfg.Virtual.Product)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "/etc/altnav.toml", cfg.Path)
}

func TestLoadFS_YAML(t *testing.T) {
	fsys := memFS{"/etc/altnav.yml": "device:\n  path: /dev/input/event4\nlogging:\n  level: warn\n"}

	cfg, err := LoadFS(fsys, nil, "/etc/altnav.yml")
	require.NoError(t, err)

	assert.Equal(t, "/dev/input/event4", cfg.Device.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, DefaultVirtualName, cfg.Virtual.Name, "unset keys keep defaults")
}

func TestLoadFS_EnvOverridesFile(t *testing.T) {
	fsys := memFS{"/etc/altnav.toml": "[logging]\nlevel = \"debug\"\n[device]\npath = \"/dev/input/event3\"\n"}
	env := staticEnv{"logging": map[string]any{"level": "error"}}

	cfg, err := LoadFS(fsys, env, "/etc/altnav.toml")
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "/dev/input/event3", cfg.Device.Path)
}

func TestLoadFS_EnvError(t *testing.T) {
	_, err := LoadFS(memFS{}, failingEnv{}, "")
	assert.ErrorContains(t, err, "env unavailable")
}

func TestLoadFS_UnknownKeysIgnored(t *testing.T) {
	fsys := memFS{"/a.toml": "[remap]\nj = \"down\"\n[device]\nextra = 1\n"}

	cfg, err := LoadFS(fsys, nil, "/a.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultDevicePath, cfg.Device.Path)
}

func TestLoadFS_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"vendor overflow", "[virtual]\nvendor = 70000\n", ErrTypeMismatch},
		{"vendor negative", "[virtual]\nvendor = -1\n", ErrTypeMismatch},
		{"path not string", "[device]\npath = true\n", ErrTypeMismatch},
		{"watch not bool", "watch = \"maybe\"\n", ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFS(memFS{"/c.toml": tt.content}, nil, "/c.toml")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestLoadFS_DefersValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty device", "[device]\npath = \"\"\n"},
		{"bad level", "[logging]\nlevel = \"loud\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFS(memFS{"/c.toml": tt.content}, nil, "/c.toml")
			require.NoError(t, err, "overrides may still fix the value")
			assert.ErrorIs(t, cfg.Validate(), ErrValidationFailed)
		})
	}
}

func TestLoadFS_OverrideAfterLoadValidates(t *testing.T) {
	env := staticEnv{"logging": map[string]any{"level": "loud"}}

	cfg, err := LoadFS(memFS{}, env, "")
	require.NoError(t, err)
	assert.Equal(t, "loud", cfg.Logging.Level)

	cfg.Logging.Level = "debug"
	assert.NoError(t, cfg.Validate())
}

func TestLoadFS_UnsupportedExtension(t *testing.T) {
	_, err := LoadFS(memFS{"/c.json": "{}"}, nil, "/c.json")
	assert.ErrorContains(t, err, "unsupported config format")
}

func TestLoad_RealFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "altnav.toml")
	require.NoError(t, os.WriteFile(path, []byte("[virtual]\nname = \"from disk\"\n"), 0o644))
	t.Setenv("ALTNAV_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from disk", cfg.Virtual.Name)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestConversions(t *testing.T) {
	u, err := asUint16("0x10")
	require.NoError(t, err)
	assert.Equal(t, uint16(16), u)

	u, err = asUint16(float64(7))
	require.NoError(t, err)
	assert.Equal(t, uint16(7), u)

	_, err = asUint16(1.5)
	assert.Error(t, err)

	b, err := asBool("true")
	require.NoError(t, err)
	assert.True(t, b)

	s, err := asString(int64(3))
	require.NoError(t, err)
	assert.Equal(t, "3", s)
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Path: "logging.level", Message: "unknown log level", Value: "loud"}
	assert.Equal(t, `logging.level: unknown log level (value: "loud")`, err.Error())
	assert.True(t, errors.Is(err, ErrValidationFailed))
}

func TestConfig_String(t *testing.T) {
	s := Default().String()
	assert.Contains(t, s, `device.path = "`+DefaultDevicePath+`"`)
	assert.Contains(t, s, "virtual.vendor = 0x0001")
	assert.Contains(t, s, "watch = false")
}
