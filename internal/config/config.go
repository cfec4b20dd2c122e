package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dshills/altnav/internal/config/loader"
)

// Default values.
const (
	DefaultDevicePath  = "/dev/input/by-path/platform-i8042-serio-0-event-kbd"
	DefaultVirtualName = "altnav virtual keyboard"
	DefaultVendor      = 0x0001
	DefaultProduct     = 0x0001
	DefaultLogLevel    = "info"
)

// logLevels are the accepted logging.level values.
var logLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// Device selects the physical keyboard.
type Device struct {
	// Path is the evdev node that is opened and grabbed exclusively.
	Path string
}

// Virtual describes the uinput device that receives injected events.
type Virtual struct {
	Name    string
	Vendor  uint16
	Product uint16
}

// Logging configures the daemon's logger.
type Logging struct {
	Level string
}

// Config is the resolved daemon configuration.
type Config struct {
	Device  Device
	Virtual Virtual
	Logging Logging

	// Watch enables live reload of the logging level from the config file.
	Watch bool

	// Path is the file the configuration was loaded from, if any.
	Path string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Device: Device{Path: DefaultDevicePath},
		Virtual: Virtual{
			Name:    DefaultVirtualName,
			Vendor:  DefaultVendor,
			Product: DefaultProduct,
		},
		Logging: Logging{Level: DefaultLogLevel},
	}
}

// Load resolves the configuration from defaults, the file at path and the
// ALTNAV_ environment, in increasing priority. An empty path skips the file.
// The result is not validated; callers apply their overrides first and then
// call Validate.
func Load(path string) (*Config, error) {
	return LoadFS(loader.DefaultFS(), loader.NewEnvLoader(loader.DefaultEnvPrefix), path)
}

// LoadFS is Load with an explicit file system and environment source.
// A nil env skips environment overrides.
func LoadFS(fsys loader.FileSystem, env loader.Loader, path string) (*Config, error) {
	merged := make(map[string]any)

	if path != "" {
		if _, err := fsys.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		fl, err := loader.ForPath(fsys, path)
		if err != nil {
			return nil, err
		}
		data, err := fl.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	if env != nil {
		data, err := env.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	cfg := Default()
	cfg.Path = path
	if err := cfg.apply(merged); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply copies recognised settings from a merged map. Unknown keys are
// ignored.
func (c *Config) apply(data map[string]any) error {
	var err error
	set := func(path string, fn func(v any) error) {
		if err != nil {
			return
		}
		if v, ok := lookup(data, path); ok {
			if ferr := fn(v); ferr != nil {
				err = &TypeError{Path: path, Expected: ferr.Error(), Actual: fmt.Sprintf("%T", v)}
			}
		}
	}

	set("device.path", func(v any) (e error) { c.Device.Path, e = asString(v); return })
	set("virtual.name", func(v any) (e error) { c.Virtual.Name, e = asString(v); return })
	set("virtual.vendor", func(v any) (e error) { c.Virtual.Vendor, e = asUint16(v); return })
	set("virtual.product", func(v any) (e error) { c.Virtual.Product, e = asUint16(v); return })
	set("logging.level", func(v any) (e error) { c.Logging.Level, e = asString(v); return })
	set("watch", func(v any) (e error) { c.Watch, e = asBool(v); return })
	return err
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Device.Path) == "" {
		return &ValidationError{Path: "device.path", Message: "must not be empty", Value: c.Device.Path}
	}
	if strings.TrimSpace(c.Virtual.Name) == "" {
		return &ValidationError{Path: "virtual.name", Message: "must not be empty", Value: c.Virtual.Name}
	}
	if !logLevels[strings.ToLower(c.Logging.Level)] {
		return &ValidationError{Path: "logging.level", Message: "unknown log level", Value: c.Logging.Level}
	}
	return nil
}

// String renders the configuration in a key = value form.
func (c *Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "device.path = %q\n", c.Device.Path)
	fmt.Fprintf(&sb, "virtual.name = %q\n", c.Virtual.Name)
	fmt.Fprintf(&sb, "virtual.vendor = 0x%04x\n", c.Virtual.Vendor)
	fmt.Fprintf(&sb, "virtual.product = 0x%04x\n", c.Virtual.Product)
	fmt.Fprintf(&sb, "logging.level = %q\n", c.Logging.Level)
	fmt.Fprintf(&sb, "watch = %t\n", c.Watch)
	return sb.String()
}

func lookup(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := data
	for i, part := range parts {
		v, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		if current, ok = v.(map[string]any); !ok {
			return nil, false
		}
	}
	return nil, false
}

func asString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case int:
		return strconv.Itoa(t), nil
	default:
		return "", fmt.Errorf("string")
	}
}

func asBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		b, err := strconv.ParseBool(t)
		if err != nil {
			return false, fmt.Errorf("bool")
		}
		return b, nil
	case int64:
		return t != 0, nil
	case int:
		return t != 0, nil
	default:
		return false, fmt.Errorf("bool")
	}
}

func asUint16(v any) (uint16, error) {
	var n int64
	switch t := v.(type) {
	case int64:
		n = t
	case int:
		n = int64(t)
	case uint64:
		if t > math.MaxUint16 {
			return 0, fmt.Errorf("uint16")
		}
		n = int64(t)
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("uint16")
		}
		n = int64(t)
	case string:
		parsed, err := strconv.ParseInt(t, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("uint16")
		}
		n = parsed
	default:
		return 0, fmt.Errorf("uint16")
	}
	if n < 0 || n > math.MaxUint16 {
		return 0, fmt.Errorf("uint16")
	}
	return uint16(n), nil
}
