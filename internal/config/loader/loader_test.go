package loader

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestForPath(t *testing.T) {
	memfs := NewMemFS()

	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"/etc/altnav.toml", "toml", false},
		{"/etc/altnav.TOML", "toml", false},
		{"/etc/altnav.yaml", "yaml", false},
		{"/etc/altnav.yml", "yaml", false},
		{"/etc/altnav.json", "", true},
		{"/etc/altnav", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			l, err := ForPath(memfs, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var got string
			switch l.(type) {
			case *TOMLLoader:
				got = "toml"
			case *YAMLLoader:
				got = "yaml"
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseError_Error(t *testing.T) {
	inner := errors.New("boom")
	tests := []struct {
		err  *ParseError
		want string
	}{
		{&ParseError{Path: "a.toml", Line: 3, Column: 7, Message: "bad", Err: inner}, "parse error in a.toml at line 3, column 7: bad"},
		{&ParseError{Path: "a.toml", Line: 3, Message: "bad"}, "parse error in a.toml at line 3: bad"},
		{&ParseError{Path: "a.yaml", Message: "bad"}, "parse error in a.yaml: bad"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
	assert.ErrorIs(t, tests[0].err, inner, "ParseError should unwrap to the underlying error")
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"device":  map[string]any{"path": "/dev/input/event0"},
		"logging": map[string]any{"level": "info"},
		"watch":   false,
	}
	src := map[string]any{
		"logging": map[string]any{"level": "debug"},
		"virtual": map[string]any{"name": "kbd"},
		"watch":   true,
	}

	got := DeepMerge(dst, src)

	v, ok := getByPath(got, "device.path")
	require.True(t, ok)
	assert.Equal(t, "/dev/input/event0", v, "untouched keys are kept")

	v, ok = getByPath(got, "logging.level")
	require.True(t, ok)
	assert.Equal(t, "debug", v)

	v, ok = getByPath(got, "virtual.name")
	require.True(t, ok)
	assert.Equal(t, "kbd", v)

	assert.Equal(t, true, got["watch"])
}

func TestDeepMerge_Nil(t *testing.T) {
	assert.Equal(t, map[string]any{"a": 1}, DeepMerge(nil, map[string]any{"a": 1}))
	assert.Equal(t, map[string]any{"a": 1}, DeepMerge(map[string]any{"a": 1}, nil))
}

// getByPath reads a dotted path from a nested map.
func getByPath(data map[string]any, path string) (any, bool) {
	current := any(data)
	start := 0
	for i := 0; i <= len(path); i++ {
		if i < len(path) && path[i] != '.' {
			continue
		}
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[path[start:i]]; !ok {
			return nil, false
		}
		start = i + 1
	}
	return current, true
}

func assertPath(t *testing.T, data map[string]any, path string, want any) {
	t.Helper()
	v, ok := getByPath(data, path)
	require.True(t, ok, "missing %s", path)
	assert.Equal(t, want, v, path)
}
