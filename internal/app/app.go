package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"camhook/internal/audio"
	"camhook/internal/capture"
	"camhook/internal/device"
	"camhook/internal/input"
)

// ErrNoDevices is returned when no capture driver is registered.
var ErrNoDevices = errors.New("no camera devices found")

// LoopFactory builds the message loop that delivers hotkey actions.
type LoopFactory func(d *input.Dispatcher, logger *slog.Logger, lowLevel bool) input.Loop

// ObserveFunc feeds key events from a non-consuming source to the loop.
type ObserveFunc func(ctx context.Context, m interface{ Match(input.KeyEvent) (input.Action, bool) }, post func(input.Action), logger *slog.Logger)

// App runs one capture session from device selection to quit.
type App struct {
	config Config
	driver capture.Driver
	logger *slog.Logger

	// Replaceable for tests.
	In           io.Reader
	Out          io.Writer
	Exit         func(code int)
	Clock        capture.Clock
	AudioDevices audio.Lister
	NewLoop      LoopFactory
	Observe      ObserveFunc
}

// New creates an App for cfg on top of driver.
func New(cfg Config, driver capture.Driver) *App {
	return &App{
		config:       cfg,
		driver:       driver,
		logger:       slog.Default(),
		In:           os.Stdin,
		Out:          os.Stdout,
		Exit:         os.Exit,
		Clock:        capture.SystemClock,
		AudioDevices: audio.ListInputDevices,
		NewLoop:      input.NewLoop,
		Observe:      input.Observe,
	}
}

// Run enumerates devices, lets the operator pick one, opens the capture
// session and pumps hotkeys until ctx is done or the quit hotkey exits the
// process. The session is closed on every return path.
//
// Run must be called from the goroutine that will own the capture window;
// it locks that goroutine to its OS thread for the duration.
func (a *App) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	devices := device.List(a.driver)
	if len(devices) == 0 {
		fmt.Fprintln(a.Out, "No camera devices found.")
		return ErrNoDevices
	}
	device.Print(a.Out, devices)

	idx, err := device.Select(devices, a.In, a.Out)
	if err != nil {
		return err
	}
	dev := devices[idx]
	fmt.Fprintf(a.Out, "\n\nWorking with %s\n\n", dev.Name)
	a.logger.Info("device selected", "index", dev.Index, "name", dev.Name)

	opts := a.config.CaptureOptions()
	opts.Sequence.CaptureAudio = audio.ResolveCapture(opts.Sequence.CaptureAudio, a.AudioDevices)

	fmt.Fprintln(a.Out, "Connecting to driver...")
	session, err := capture.Open(a.driver, dev, opts, a.Clock)
	if err != nil {
		fmt.Fprintf(a.Out, "E :: %v\n", err)
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			a.logger.Error("close capture session", "error", err)
		}
	}()
	fmt.Fprintln(a.Out, "Connection established")

	bindings, err := input.NewBindings(a.config.Keys)
	if err != nil {
		return err
	}
	dispatcher := input.NewDispatcher(bindings, session, a.Out, a.logger, a.Exit)

	lowLevel := a.config.HookBackend != BackendGohook
	loop := a.NewLoop(dispatcher, a.logger, lowLevel)
	if !lowLevel {
		observeCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go a.Observe(observeCtx, dispatcher, loop.Post, a.logger)
	}

	printHotkeys(a.Out, a.config.Keys)

	if err := loop.Run(ctx); err != nil {
		fmt.Fprintf(a.Out, "E :: %v\n", err)
		return fmt.Errorf("message loop: %w", err)
	}
	a.logger.Info("message loop finished")
	return nil
}

func printHotkeys(w io.Writer, keys input.KeyNames) {
	fmt.Fprintf(w, "  %-6s take a snapshot\n", keys.Snapshot)
	fmt.Fprintf(w, "  %-6s start/stop recording\n", keys.Record)
	fmt.Fprintf(w, "  %-6s show/hide preview\n", keys.Preview)
	fmt.Fprintf(w, "  %-6s quit\n", keys.Quit)
}
