// Package config resolves the daemon configuration.
//
// Settings come from three sources, higher overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment (ALTNAV_*)  │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. Config file (TOML/YAML) │  ← --config
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Command line flags are applied by the caller on top of the result, which
// is validated only after that.
//
// # Sub-packages
//
//   - loader: configuration file loading (TOML, YAML, environment variables)
//   - watcher: file watching for live reload of the logging level
//
// # Example
//
//	device.path = "/dev/input/event3"
//
//	[virtual]
//	name = "altnav virtual keyboard"
//
//	[logging]
//	level = "debug"
//
// The remap table is compiled in and is not configurable.
package config
