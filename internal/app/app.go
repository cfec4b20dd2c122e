// Package app wires the remapping daemon together: the grabbed physical
// keyboard, the keystroke assembler, the Alt automaton and the injector
// writing to the virtual keyboard. It owns the lifecycle of both devices.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/holoplot/go-evdev"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/altnav/internal/config"
	"github.com/dshills/altnav/internal/config/watcher"
	"github.com/dshills/altnav/internal/device"
	"github.com/dshills/altnav/internal/inject"
	"github.com/dshills/altnav/internal/input/assembler"
	"github.com/dshills/altnav/internal/input/key"
	"github.com/dshills/altnav/internal/input/keymap"
	"github.com/dshills/altnav/internal/input/mode"
)

// Options configures the application.
type Options struct {
	// DevicePath is the physical keyboard to grab.
	DevicePath string

	// Virtual identifies the uinput device.
	Virtual device.Identity

	// ConfigPath is the file watched for log level changes when Watch is set.
	ConfigPath string

	// Watch enables live reload of the logging level.
	Watch bool

	// LogLevelPinned keeps the current level across reloads, for a level
	// given on the command line.
	LogLevelPinned bool

	// Logger receives diagnostics. Defaults to NullLogger.
	Logger *Logger

	// Remap is the navigation table. Defaults to keymap.Default().
	Remap *keymap.Table
}

// OptionsFromConfig builds Options from a resolved configuration.
func OptionsFromConfig(cfg *config.Config, logger *Logger) Options {
	return Options{
		DevicePath: cfg.Device.Path,
		Virtual: device.Identity{
			Name:    cfg.Virtual.Name,
			Vendor:  cfg.Virtual.Vendor,
			Product: cfg.Virtual.Product,
		},
		ConfigPath: cfg.Path,
		Watch:      cfg.Watch,
		Logger:     logger,
	}
}

// Application is the running remapper. The event loop is the only
// goroutine that touches the assembler, machine and injector.
type Application struct {
	opts    Options
	session string
	log     *Logger
	root    *Logger

	source device.Source
	sink   device.Sink

	asm      *assembler.Assembler
	machine  *mode.Machine
	injector *inject.Injector
	metrics  *Metrics

	detachTrace func()

	running  atomic.Bool
	stopping atomic.Bool

	shutdownOnce sync.Once
	sourceErr    error
	closeOnce    sync.Once
	closeErr     error
}

// New acquires the devices and returns a ready application. On failure
// everything acquired so far is released and an *InitError is returned.
func New(opts Options) (*Application, error) {
	if err := device.Preflight(opts.DevicePath); err != nil {
		return nil, &InitError{Component: "preflight", Err: err}
	}

	phys, err := device.OpenPhysical(opts.DevicePath)
	if err != nil {
		return nil, &InitError{Component: "physical device", Err: err}
	}

	remap := opts.Remap
	if remap == nil {
		remap = keymap.Default()
	}

	virt, err := device.CreateVirtual(opts.Virtual, virtualKeys(phys.KeyCodes(), remap))
	if err != nil {
		if cerr := phys.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("releasing %s: %w", phys.Path(), cerr))
		}
		return nil, &InitError{Component: "virtual device", Err: err}
	}

	app := NewWithDevices(opts, phys, virt)
	app.log.Info("grabbed %s (%s)", phys.Path(), phys.Name())
	app.log.Info("created virtual keyboard %q", opts.Virtual.Name)
	return app, nil
}

// NewWithDevices builds an application around already acquired devices.
// The application takes ownership of both.
func NewWithDevices(opts Options, source device.Source, sink device.Sink) *Application {
	root := opts.Logger
	if root == nil {
		root = NullLogger
	}
	remap := opts.Remap
	if remap == nil {
		remap = keymap.Default()
	}

	session := uuid.NewString()
	app := &Application{
		opts:     opts,
		session:  session,
		root:     root,
		log:      root.WithField("session", session),
		source:   source,
		sink:     sink,
		asm:      assembler.New(),
		machine:  mode.NewMachine(mode.NewTable(remap.Codes(), key.KeyLeftAlt)),
		injector: inject.New(sink, remap),
		metrics:  NewMetrics(),
	}

	app.detachTrace = app.machine.OnChange(app.traceTransition)

	emit := app.log.WithComponent("inject")
	app.injector.SetObserver(func(a mode.Action, in, out key.Keystroke) {
		emit.Debug("%s %s => %s", a, in, out)
	})
	return app
}

// traceTransition logs every state change of the automaton.
func (app *Application) traceTransition(tr mode.Transition) {
	app.log.Debug("%s: %s %s", tr.From, tr.To, tr.Input)

	switch {
	case tr.To == mode.Alt && tr.Input.IsPress(key.KeyLeftAlt):
		app.log.Debug("holding back %s until the next key", key.KeyLeftAlt)
	case tr.From == mode.Mapped && tr.Input.IsRelease(key.KeyLeftAlt):
		app.log.Debug("dropping %s release, it was never pressed downstream", key.KeyLeftAlt)
	}
}

// virtualKeys is every key the virtual keyboard must be able to emit.
func virtualKeys(physical []evdev.EvCode, remap *keymap.Table) []key.Code {
	keys := make([]key.Code, 0, len(physical)+remap.Len()+1)
	for _, c := range physical {
		keys = append(keys, key.Code(c))
	}
	keys = append(keys, remap.Targets()...)
	keys = append(keys, key.KeyLeftAlt)
	return keys
}

// Run processes events until the context is cancelled, the source is
// exhausted, or a device fails. Device failures are returned; a stop
// requested through ctx or Shutdown returns nil.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer cancel()
		return app.loop()
	})

	g.Go(func() error {
		<-gctx.Done()
		app.Shutdown()
		return nil
	})

	if w := app.startWatcher(); w != nil {
		defer w.Close()
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	app.log.Info("remapping started in %s state", app.machine.Current())
	err := g.Wait()
	app.log.Info("remapping stopped: %s", app.metrics.Snapshot())
	if err != nil {
		app.log.Error("%v", err)
	}
	return err
}

// startWatcher returns a config watcher when live reload is enabled.
// Failing to watch is logged and otherwise ignored.
func (app *Application) startWatcher() *watcher.Watcher {
	if !app.opts.Watch || app.opts.ConfigPath == "" {
		return nil
	}

	log := app.log.WithComponent("watcher")
	w, err := watcher.New(app.opts.ConfigPath, 0)
	if err != nil {
		log.Warn("live reload disabled: %v", err)
		return nil
	}

	w.OnChange(func(ev watcher.Event) {
		app.reloadLogLevel(log, ev)
	})
	w.OnError(func(err error) {
		log.Warn("%v", err)
	})
	return w
}

// reloadLogLevel re-reads the configuration and applies its log level.
// Nothing else is reloaded.
func (app *Application) reloadLogLevel(log *Logger, ev watcher.Event) {
	if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
		return
	}
	if app.opts.LogLevelPinned {
		log.Debug("%s changed; log level pinned on the command line", ev.Path)
		return
	}

	cfg, err := config.Load(app.opts.ConfigPath)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		log.Warn("reload %s: %v", ev.Path, err)
		return
	}

	level := ParseLogLevel(cfg.Logging.Level)
	if level != app.root.Level() {
		app.root.SetLevel(level)
		log.Info("log level set to %s", level)
	}
}

// Shutdown stops the event loop by closing the source, which unblocks a
// pending read. It is safe to call more than once and from any goroutine.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		app.stopping.Store(true)
		app.log.Debug("shutdown requested")
		if err := app.source.Close(); err != nil {
			app.sourceErr = err
			app.log.Warn("releasing source: %v", err)
		}
	})
}

// Close shuts down and releases both devices. Call it once Run has returned.
func (app *Application) Close() error {
	app.Shutdown()
	app.closeOnce.Do(func() {
		app.detachTrace()

		var sinkErr error
		if err := app.sink.Close(); err != nil {
			sinkErr = NewComponentError("sink", "close", err)
		}
		var srcErr error
		if app.sourceErr != nil {
			srcErr = NewComponentError("source", "close", app.sourceErr)
		}
		app.closeErr = errors.Join(srcErr, sinkErr)
	})
	return app.closeErr
}

// State returns the current automaton state. Only meaningful when the loop
// is not running.
func (app *Application) State() mode.State {
	return app.machine.Current()
}

// Metrics returns the pipeline counters.
func (app *Application) Metrics() *Metrics {
	return app.metrics
}

// Session returns the id attached to every log line of this run.
func (app *Application) Session() string {
	return app.session
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.log
}

// IsRunning returns true while Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}
