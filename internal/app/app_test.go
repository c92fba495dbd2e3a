package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"testing"
	"time"

	"camhook/internal/audio"
	"camhook/internal/capture"
	"camhook/internal/capture/capturetest"
	"camhook/internal/input"
)

var epoch = time.Unix(1700000000, 0)

// scriptLoop executes a fixed list of actions and returns.
type scriptLoop struct {
	actions []input.Action
	exec    func(input.Action)
	err     error
}

func (l *scriptLoop) Run(context.Context) error {
	if l.err != nil {
		return l.err
	}
	for _, a := range l.actions {
		l.exec(a)
	}
	return nil
}

func (l *scriptLoop) Post(a input.Action) { l.actions = append(l.actions, a) }

type harness struct {
	app      *App
	drv      *capturetest.Driver
	out      *bytes.Buffer
	exits    []int
	lowLevel []bool
}

func newHarness(t *testing.T, stdin string, script ...input.Action) *harness {
	t.Helper()
	h := &harness{drv: capturetest.NewDriver(), out: &bytes.Buffer{}}
	a := New(DefaultConfig(), h.drv)
	a.In = strings.NewReader(stdin)
	a.Out = h.out
	a.Exit = func(code int) { h.exits = append(h.exits, code) }
	a.Clock = capturetest.NewClock(epoch)
	a.AudioDevices = func() ([]audio.Device, error) {
		return []audio.Device{{ID: "00", Name: "Microphone"}}, nil
	}
	a.NewLoop = func(d *input.Dispatcher, _ *slog.Logger, lowLevel bool) input.Loop {
		h.lowLevel = append(h.lowLevel, lowLevel)
		return &scriptLoop{actions: script, exec: d.Execute}
	}
	h.app = a
	return h
}

func TestRun_NoDevices(t *testing.T) {
	h := newHarness(t, "")
	h.drv.Devices = map[int][2]string{}

	err := h.app.Run(context.Background())
	if !errors.Is(err, ErrNoDevices) {
		t.Fatalf("expected ErrNoDevices, got %v", err)
	}
	if !strings.Contains(h.out.String(), "No camera devices found.") {
		t.Fatalf("unexpected output %q", h.out.String())
	}
	if h.drv.Called("CreateWindow") != 0 {
		t.Fatal("window created without a device")
	}
}

func TestRun_RecordAndSnapshot(t *testing.T) {
	h := newHarness(t, "", input.ActionRecord, input.ActionSnapshot, input.ActionRecord)

	if err := h.app.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := h.out.String()
	for _, want := range []string{
		"Camera devices:",
		"Working with USB Cam",
		"Connecting to driver...",
		"Connection established",
		"Recording is finished",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if !regexp.MustCompile(`Recording saved as record-\d+\.avi`).MatchString(out) {
		t.Fatalf("no recording file announced:\n%s", out)
	}
	if !regexp.MustCompile(`Capture saved as capture-\d+\.bmp`).MatchString(out) {
		t.Fatalf("no capture file announced:\n%s", out)
	}
	if h.drv.Called("GrabFrameNoStop") != 1 {
		t.Fatal("snapshot while recording should grab without stopping")
	}
	if !h.drv.Destroyed {
		t.Fatal("session not closed after loop finished")
	}
	if len(h.lowLevel) != 1 || !h.lowLevel[0] {
		t.Fatalf("expected one low-level loop, got %v", h.lowLevel)
	}
}

func TestRun_SelectsDeviceByPrompt(t *testing.T) {
	h := newHarness(t, "zero\n3\n2\n")
	h.drv.Devices = map[int][2]string{0: {"Front", "a"}, 4: {"Rear", "b"}}

	if err := h.app.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if h.drv.ConnectedTo != 4 {
		t.Fatalf("expected driver slot 4, got %d", h.drv.ConnectedTo)
	}
	out := h.out.String()
	if strings.Count(out, "E :: Invalid value") != 2 {
		t.Fatalf("expected two invalid values:\n%s", out)
	}
	if !strings.Contains(out, "Working with Rear") {
		t.Fatalf("wrong device announced:\n%s", out)
	}
}

func TestRun_ConnectTimeout(t *testing.T) {
	h := newHarness(t, "")
	h.drv.ConnectFailures = -1

	err := h.app.Run(context.Background())
	if !errors.Is(err, capture.ErrTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if !strings.Contains(h.out.String(), "E :: ") {
		t.Fatalf("timeout not reported:\n%s", h.out.String())
	}
	if !h.drv.Destroyed {
		t.Fatal("window not destroyed after timeout")
	}
	if h.lowLevel != nil {
		t.Fatal("loop created after failed connect")
	}
}

func TestRun_QuitWhileRecording(t *testing.T) {
	h := newHarness(t, "", input.ActionRecord, input.ActionQuit)

	if err := h.app.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(h.exits) != 1 || h.exits[0] != 0 {
		t.Fatalf("expected exit(0), got %v", h.exits)
	}
	if h.drv.Sequencing {
		t.Fatal("recording still running after quit")
	}
	if h.drv.CaptureFile != "" {
		t.Fatalf("capture file still bound: %q", h.drv.CaptureFile)
	}
}

func TestRun_NoMicrophoneDisablesAudio(t *testing.T) {
	h := newHarness(t, "", input.ActionRecord)
	h.app.AudioDevices = func() ([]audio.Device, error) { return nil, nil }

	if err := h.app.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if h.drv.Sequence.CaptureAudio {
		t.Fatal("expected audio capture off without an input device")
	}
}

func TestRun_LoopFailure(t *testing.T) {
	h := newHarness(t, "")
	hookErr := errors.New("hook refused")
	h.app.NewLoop = func(*input.Dispatcher, *slog.Logger, bool) input.Loop {
		return &scriptLoop{err: hookErr}
	}

	err := h.app.Run(context.Background())
	if !errors.Is(err, hookErr) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if !h.drv.Destroyed {
		t.Fatal("session not closed after loop failure")
	}
}

func TestRun_GohookBackendPostsToLoop(t *testing.T) {
	h := newHarness(t, "")
	cfg := DefaultConfig()
	cfg.HookBackend = BackendGohook
	h.app.config = cfg

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.app.Exit = func(code int) {
		h.exits = append(h.exits, code)
		cancel()
	}
	h.app.NewLoop = func(d *input.Dispatcher, logger *slog.Logger, lowLevel bool) input.Loop {
		h.lowLevel = append(h.lowLevel, lowLevel)
		return input.NewChanLoop(d.Execute, logger)
	}
	h.app.Observe = func(_ context.Context, m interface{ Match(input.KeyEvent) (input.Action, bool) }, post func(input.Action), _ *slog.Logger) {
		for _, ev := range []input.KeyEvent{
			{VK: 0x50, Scan: 0x19, Down: true},
			{VK: 0x50, Scan: 0x19, Down: false},
			{VK: 0x1b, Scan: 0x01, Down: true},
		} {
			if a, ok := m.Match(ev); ok {
				post(a)
			}
		}
	}

	if err := h.app.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(h.lowLevel) != 1 || h.lowLevel[0] {
		t.Fatalf("expected one observer-fed loop, got %v", h.lowLevel)
	}
	if len(h.drv.Saved) != 1 {
		t.Fatalf("expected one snapshot, got %v", h.drv.Saved)
	}
	if len(h.exits) != 1 || h.exits[0] != 0 {
		t.Fatalf("expected exit(0), got %v", h.exits)
	}
}
