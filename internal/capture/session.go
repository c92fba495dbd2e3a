package capture

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"camhook/internal/device"
)

// Status is the capture session state.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusPreviewing   Status = "previewing"
	StatusRecording    Status = "recording"
)

const connectPollInterval = 100 * time.Millisecond

// Options configures a capture session.
type Options struct {
	Width          int
	Height         int
	ConnectTimeout time.Duration
	PreviewFPS     int
	Sequence       SequenceParams
}

// DefaultOptions returns the stock window size, timeouts and recording setup.
func DefaultOptions() Options {
	return Options{
		Width:          640,
		Height:         480,
		ConnectTimeout: 20 * time.Second,
		PreviewFPS:     30,
		Sequence: SequenceParams{
			MicroSecPerFrame: 15000,
			MakeUserHitOK:    false,
			Yield:            true,
			CaptureAudio:     true,
			AudioBufferSize:  64,
			AbortLeftMouse:   false,
			AbortRightMouse:  false,
		},
	}
}

// Session is a capture window connected to one device. It is not safe for
// concurrent use; all calls belong on the thread that opened it.
type Session struct {
	driver Driver
	clock  Clock
	opts   Options
	device device.Device

	window Handle
	parent Handle

	status         Status
	previewVisible bool
	recordFile     string
}

// Open creates a capture window under the foreground window, connects it
// to dev and starts the live preview. Connecting is retried until
// opts.ConnectTimeout has passed.
func Open(driver Driver, dev device.Device, opts Options, clock Clock) (*Session, error) {
	if clock == nil {
		clock = SystemClock
	}
	s := &Session{
		driver: driver,
		clock:  clock,
		opts:   opts,
		device: dev,
		status: StatusDisconnected,
	}

	s.parent = driver.ForegroundWindow()
	w, err := driver.CreateWindow("capture", s.parent, opts.Width, opts.Height)
	if err != nil {
		return nil, newConnectError("failed to create capture window", err)
	}
	s.window = w

	if err := s.connect(); err != nil {
		s.Close()
		return nil, err
	}

	rate := 1000 / max(opts.PreviewFPS, 1)
	if err := driver.SetPreviewScale(w, true); err != nil {
		slog.Warn("preview scaling unavailable", "error", err)
	}
	if err := driver.SetPreviewRate(w, rate); err != nil {
		slog.Warn("preview rate unavailable", "rate_ms", rate, "error", err)
	}
	if err := driver.SetPreview(w, true); err != nil {
		slog.Warn("preview unavailable", "error", err)
	}

	s.status = StatusPreviewing
	s.previewVisible = true
	slog.Info("capture session opened", "device", dev.Name, "index", dev.Index)
	return s, nil
}

func (s *Session) connect() error {
	start := s.clock.Now()
	attempts := 0
	for {
		attempts++
		err := s.driver.Connect(s.window, s.device.Index)
		if err == nil {
			slog.Debug("driver connected", "attempts", attempts)
			return nil
		}
		if s.clock.Now().Sub(start) > s.opts.ConnectTimeout {
			slog.Error("driver connection timed out",
				"timeout", s.opts.ConnectTimeout,
				"attempts", attempts,
				"last_error", err,
			)
			return newConnectError("connect", fmt.Errorf("%w: %d seconds", ErrTimeout, int(s.opts.ConnectTimeout.Seconds())))
		}
		s.clock.Sleep(connectPollInterval)
	}
}

// Status returns the current session state.
func (s *Session) Status() Status { return s.status }

// Recording reports whether a recording sequence is active.
func (s *Session) Recording() bool { return s.status == StatusRecording }

// PreviewVisible reports whether the preview and its parent window are shown.
func (s *Session) PreviewVisible() bool { return s.previewVisible }

// RecordFile returns the file bound to the active recording, if any.
func (s *Session) RecordFile() string { return s.recordFile }

// Device returns the device the session is connected to.
func (s *Session) Device() device.Device { return s.device }

// Snapshot writes the latest frame to capture-<unix>.bmp in the working
// directory. While recording the frame is grabbed from the running stream
// without stopping it. The session state is never changed.
func (s *Session) Snapshot() (string, error) {
	if s.status == StatusDisconnected {
		return "", ErrClosed
	}

	if s.status == StatusRecording {
		if err := s.driver.GrabFrameNoStop(s.window); err != nil {
			return "", fmt.Errorf("grab frame: %w", err)
		}
	} else if err := s.grabSingleFrame(); err != nil {
		return "", err
	}

	name := fmt.Sprintf("capture-%d.bmp", s.clock.Now().Unix())
	if err := s.driver.SaveDIB(s.window, name); err != nil {
		return "", fmt.Errorf("save frame %s: %w", name, err)
	}
	slog.Info("snapshot saved", "file", name, "status", s.status)
	return name, nil
}

func (s *Session) grabSingleFrame() error {
	if err := s.driver.SingleFrameOpen(s.window); err != nil {
		return fmt.Errorf("open single frame capture: %w", err)
	}
	grabErr := s.driver.SingleFrame(s.window)
	closeErr := s.driver.SingleFrameClose(s.window)
	if grabErr != nil {
		return fmt.Errorf("capture single frame: %w", grabErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close single frame capture: %w", closeErr)
	}
	return nil
}

// StartRecording binds record-<unix>.avi and starts the capture sequence.
func (s *Session) StartRecording() (string, error) {
	switch s.status {
	case StatusDisconnected:
		return "", ErrClosed
	case StatusRecording:
		return "", ErrAlreadyRecording
	}

	if err := s.driver.ConfigureSequence(s.window, s.opts.Sequence); err != nil {
		return "", fmt.Errorf("configure sequence: %w", err)
	}

	name := fmt.Sprintf("record-%d.avi", s.clock.Now().Unix())
	if err := s.driver.SetCaptureFile(s.window, name); err != nil {
		return "", fmt.Errorf("set capture file %s: %w", name, err)
	}
	if err := s.driver.StartSequence(s.window); err != nil {
		if clearErr := s.driver.SetCaptureFile(s.window, ""); clearErr != nil {
			slog.Warn("failed to clear capture file", "error", clearErr)
		}
		return "", fmt.Errorf("start sequence: %w", err)
	}

	s.recordFile = name
	s.status = StatusRecording
	slog.Info("recording started",
		"file", name,
		"us_per_frame", s.opts.Sequence.MicroSecPerFrame,
		"audio", s.opts.Sequence.CaptureAudio,
	)
	return name, nil
}

// StopRecording aborts the active sequence and clears the bound file.
func (s *Session) StopRecording() error {
	if s.status != StatusRecording {
		return ErrNotRecording
	}

	var errs []error
	if err := s.driver.AbortSequence(s.window); err != nil {
		errs = append(errs, fmt.Errorf("abort sequence: %w", err))
	}
	if err := s.driver.SetCaptureFile(s.window, ""); err != nil {
		errs = append(errs, fmt.Errorf("clear capture file: %w", err))
	}

	slog.Info("recording stopped", "file", s.recordFile)
	s.recordFile = ""
	s.status = StatusPreviewing
	return errors.Join(errs...)
}

// TogglePreview hides or shows the capture window and its parent together
// and returns the new visibility.
func (s *Session) TogglePreview() bool {
	visible := !s.previewVisible
	s.driver.ShowWindow(s.window, visible)
	if s.parent != 0 {
		s.driver.ShowWindow(s.parent, visible)
	}
	s.previewVisible = visible
	slog.Debug("preview visibility changed", "visible", visible)
	return visible
}

// Close stops any recording, disconnects the driver and destroys the capture
// window. It is safe to call more than once.
func (s *Session) Close() error {
	if s.window == 0 {
		s.status = StatusDisconnected
		return nil
	}

	var errs []error
	if s.status == StatusRecording {
		if err := s.StopRecording(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.status != StatusDisconnected {
		if err := s.driver.Disconnect(s.window); err != nil {
			errs = append(errs, fmt.Errorf("disconnect: %w", err))
		}
	}
	if err := s.driver.DestroyWindow(s.window); err != nil {
		errs = append(errs, fmt.Errorf("destroy window: %w", err))
	}

	s.window = 0
	s.status = StatusDisconnected
	slog.Info("capture session closed", "device", s.device.Name)
	return errors.Join(errs...)
}
