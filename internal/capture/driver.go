package capture

import "camhook/internal/device"

// Handle is an opaque OS window handle.
type Handle uintptr

// SequenceParams are the streaming capture settings applied before a
// recording starts. Fields not listed keep the driver's current values.
type SequenceParams struct {
	MicroSecPerFrame uint32
	MakeUserHitOK    bool
	Yield            bool
	CaptureAudio     bool
	AudioBufferSize  uint32
	AbortLeftMouse   bool
	AbortRightMouse  bool
}

// Driver is the host capture subsystem. Every call operates on a capture
// window created by CreateWindow and must be made from the thread that
// created it.
type Driver interface {
	device.DescriptionSource

	ForegroundWindow() Handle
	CreateWindow(title string, parent Handle, width, height int) (Handle, error)
	DestroyWindow(w Handle) error
	ShowWindow(w Handle, visible bool)

	Connect(w Handle, index int) error
	Disconnect(w Handle) error

	SetPreviewScale(w Handle, scale bool) error
	SetPreviewRate(w Handle, ms int) error
	SetPreview(w Handle, enabled bool) error

	// ConfigureSequence merges p into the window's current sequence setup.
	ConfigureSequence(w Handle, p SequenceParams) error
	// SetCaptureFile binds the recording output; an empty name clears it.
	SetCaptureFile(w Handle, name string) error
	StartSequence(w Handle) error
	AbortSequence(w Handle) error

	GrabFrameNoStop(w Handle) error
	SingleFrameOpen(w Handle) error
	SingleFrame(w Handle) error
	SingleFrameClose(w Handle) error
	SaveDIB(w Handle, name string) error
}
