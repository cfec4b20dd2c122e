package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/altnav/internal/app"
	"github.com/dshills/altnav/internal/config"
	"github.com/dshills/altnav/internal/device"
	"github.com/dshills/altnav/internal/input/key"
	"github.com/dshills/altnav/internal/input/keymap"
	"github.com/dshills/altnav/internal/input/mode"
)

type rootFlags struct {
	device     string
	configPath string
	logLevel   string
	name       string
}

func newRootCommand() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "altnav",
		Short: "Remap Alt+H/J/K/L/0/4 to arrow keys, Home and End",
		Long: `altnav grabs a physical keyboard and re-emits its events through a
virtual keyboard. While left Alt is held, H/J/K/L become Left/Down/Up/Right
and 0/4 become Home/End; Alt is withheld from applications unless it is
combined with another key.

Examples:
  altnav
  altnav -d /dev/input/event3 --log-level debug
  altnav -c /etc/altnav.toml`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runRemapper(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&flags.device, "device", "d", "", "Physical keyboard device (default "+config.DefaultDevicePath+")")
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to a TOML or YAML configuration file")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&flags.name, "name", "", "Name of the virtual keyboard")

	cmd.AddCommand(newTableCommand())
	cmd.AddCommand(newSimulateCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// resolveConfig loads the configuration and applies command line flags,
// which override every other source.
func resolveConfig(cmd *cobra.Command, flags rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if cmd.Flags().Changed("device") {
		cfg.Device.Path = flags.device
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if cmd.Flags().Changed("name") {
		cfg.Virtual.Name = flags.name
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRemapper(cmd *cobra.Command, cfg *config.Config) error {
	logger := newLogger(cmd.ErrOrStderr(), cfg.Logging.Level)

	opts := app.OptionsFromConfig(cfg, logger)
	opts.LogLevelPinned = cmd.Flags().Changed("log-level")

	application, err := app.New(opts)
	if err != nil {
		return err
	}
	// Ensure both devices are released on all exit paths
	defer func() {
		if cerr := application.Close(); cerr != nil {
			logger.Warn("cleanup: %v", cerr)
		}
	}()

	return application.Run(cmd.Context())
}

func newLogger(w io.Writer, level string) *app.Logger {
	cfg := app.DefaultLoggerConfig()
	cfg.Level = app.ParseLogLevel(level)
	cfg.Output = w
	return app.NewLogger(cfg)
}

func newTableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the remap table and the Alt automaton",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, "Remap table (while Alt is held):")
			for _, b := range keymap.Default().Bindings() {
				_, _ = fmt.Fprintf(out, "  %-8s -> %s\n", b.From, b.To)
			}
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintln(out, "Transitions (first match wins):")
			_, _ = fmt.Fprint(out, mode.DefaultTable().String())
			return nil
		},
	}
}

func newSimulateCommand() *cobra.Command {
	var (
		raw      bool
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "simulate KEY:STATE...",
		Short: "Run keystrokes through the remapper without touching any device",
		Long: `Feed keystrokes through the assembler, automaton and injector using
in-memory devices and print what the virtual keyboard would emit.

STATE is 0/1/2, release/press/repeat or up/down.

Examples:
  altnav simulate leftalt:1 j:1 j:0 leftalt:0
  altnav simulate --raw leftalt:press a:press`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			strokes := make([]key.Keystroke, 0, len(args))
			for _, arg := range args {
				ks, err := key.ParseKeystroke(arg)
				if err != nil {
					return fmt.Errorf("argument %q: %w", arg, err)
				}
				strokes = append(strokes, ks)
			}

			sink := device.NewMemorySink()
			application := app.NewWithDevices(app.Options{
				Logger: newLogger(cmd.ErrOrStderr(), logLevel),
			}, device.NewKeystrokeSource(strokes...), sink)
			defer application.Close()

			if err := application.Run(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				triplets, _ := sink.Triplets()
				for _, t := range triplets {
					parts := make([]string, len(t))
					for i, ev := range t {
						parts[i] = ev.String()
					}
					_, _ = fmt.Fprintln(out, strings.Join(parts, " | "))
				}
			} else {
				for _, ks := range sink.Keystrokes() {
					_, _ = fmt.Fprintln(out, ks)
				}
			}
			_, _ = fmt.Fprintf(out, "state: %s\n", application.State())
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print full event triplets")
	cmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "altnav %s\n", version)
			_, _ = fmt.Fprintf(out, "Commit: %s\n", commit)
			_, _ = fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
