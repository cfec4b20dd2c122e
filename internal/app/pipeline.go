package app

import (
	"errors"
	"io"
	"runtime/debug"
	"time"

	"github.com/dshills/altnav/internal/device"
	"github.com/dshills/altnav/internal/inject"
	"github.com/dshills/altnav/internal/input/assembler"
)

// loop reads and handles one event at a time until the source ends.
func (app *Application) loop() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewRecoveredPanicError(r, string(debug.Stack()))
		}
	}()

	for {
		ev, rerr := app.source.ReadEvent()
		if rerr != nil {
			if app.stopping.Load() {
				return nil
			}
			// Only in-memory sources end; a physical keyboard reports
			// device.ErrDisconnected instead.
			if errors.Is(rerr, io.EOF) {
				app.log.Debug("source exhausted")
				return nil
			}
			return readError(rerr)
		}

		if err := app.HandleEvent(ev); err != nil {
			return err
		}
	}
}

// HandleEvent runs one raw event through the assembler and, when it
// completes a keystroke, through the automaton and injector. A returned
// error is fatal.
func (app *Application) HandleEvent(ev device.RawEvent) error {
	app.metrics.RecordRawEvent()

	ks, res := app.asm.Input(ev)
	switch res {
	case assembler.Pending:
		return nil
	case assembler.Special:
		app.metrics.RecordSpecial()
		app.log.Warn("special keypress: %s", ev)
		return nil
	case assembler.Reset:
		app.metrics.RecordResync()
		app.log.Debug("resync: dropped partial keystroke at %s", ev)
		return nil
	}

	start := time.Now()
	tr := app.machine.Feed(ks)
	app.metrics.RecordTransition(tr.To)

	n, err := app.injector.Execute(tr.Actions, ks)
	app.metrics.RecordTriplets(n)
	if err != nil {
		var we *inject.WriteError
		if errors.As(err, &we) {
			return writeError(err)
		}
		return NewComponentError("inject", "execute", err)
	}

	app.metrics.RecordKeystroke(time.Since(start))
	return nil
}
