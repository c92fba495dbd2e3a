package input

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
)

// Controller is the capture session as driven by hotkeys.
type Controller interface {
	Snapshot() (string, error)
	StartRecording() (string, error)
	StopRecording() error
	Recording() bool
	TogglePreview() bool
	Close() error
}

// Dispatcher maps key events to session operations and reports results to
// the operator.
type Dispatcher struct {
	bindings Bindings
	session  Controller
	out      io.Writer
	logger   *slog.Logger
	exit     func(code int)
}

// NewDispatcher builds a dispatcher. exit terminates the process on the quit
// hotkey; nil means os.Exit.
func NewDispatcher(bindings Bindings, session Controller, out io.Writer, logger *slog.Logger, exit func(int)) *Dispatcher {
	if exit == nil {
		exit = os.Exit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{bindings: bindings, session: session, out: out, logger: logger, exit: exit}
}

// Match reports the action bound to a key-down event. Key-up events never
// match. Match does no work beyond the lookup, so it is safe to call from
// the hook callback.
func (d *Dispatcher) Match(ev KeyEvent) (Action, bool) {
	if !ev.Down {
		return 0, false
	}
	a, ok := d.bindings[ev.Code()]
	return a, ok
}

// Handle matches and executes ev in one step and reports whether it was
// consumed.
func (d *Dispatcher) Handle(ev KeyEvent) bool {
	a, ok := d.Match(ev)
	if !ok {
		return false
	}
	d.Execute(a)
	return true
}

// Execute runs a. Failures are reported, never returned.
func (d *Dispatcher) Execute(a Action) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("hotkey action panic", "action", a.String(), "error", r, "stack", string(debug.Stack()))
		}
	}()

	d.logger.Debug("hotkey", "action", a.String())
	switch a {
	case ActionQuit:
		d.quit()
	case ActionSnapshot:
		name, err := d.session.Snapshot()
		if err != nil {
			d.fail("snapshot", err)
			return
		}
		fmt.Fprintf(d.out, "Capture saved as %s\n", name)
	case ActionRecord:
		if d.session.Recording() {
			if err := d.session.StopRecording(); err != nil {
				d.fail("stop recording", err)
				return
			}
			fmt.Fprintln(d.out, "Recording is finished")
			return
		}
		name, err := d.session.StartRecording()
		if err != nil {
			d.fail("start recording", err)
			return
		}
		fmt.Fprintf(d.out, "Recording saved as %s\n", name)
	case ActionPreview:
		d.session.TogglePreview()
	default:
		d.logger.Warn("unknown hotkey action", "action", int(a))
	}
}

// quit releases the session, flushing an active recording, then exits.
func (d *Dispatcher) quit() {
	if err := d.session.Close(); err != nil {
		d.logger.Error("close capture session", "error", err)
	}
	d.logger.Info("quit hotkey pressed, exiting")
	d.exit(0)
}

func (d *Dispatcher) fail(op string, err error) {
	d.logger.Error("hotkey action failed", "op", op, "error", err)
	fmt.Fprintf(d.out, "E :: %s: %v\n", op, err)
}
