//go:build !windows

package capture

type unsupportedDriver struct{}

// NewDriver returns a driver that reports no devices; video capture needs
// Video for Windows.
func NewDriver() Driver {
	return unsupportedDriver{}
}

func (unsupportedDriver) DriverDescription(int) (string, string, bool) { return "", "", false }
func (unsupportedDriver) ForegroundWindow() Handle                     { return 0 }

func (unsupportedDriver) CreateWindow(string, Handle, int, int) (Handle, error) {
	return 0, ErrUnsupported
}

func (unsupportedDriver) DestroyWindow(Handle) error                     { return ErrUnsupported }
func (unsupportedDriver) ShowWindow(Handle, bool)                        {}
func (unsupportedDriver) Connect(Handle, int) error                      { return ErrUnsupported }
func (unsupportedDriver) Disconnect(Handle) error                        { return ErrUnsupported }
func (unsupportedDriver) SetPreviewScale(Handle, bool) error             { return ErrUnsupported }
func (unsupportedDriver) SetPreviewRate(Handle, int) error               { return ErrUnsupported }
func (unsupportedDriver) SetPreview(Handle, bool) error                  { return ErrUnsupported }
func (unsupportedDriver) ConfigureSequence(Handle, SequenceParams) error { return ErrUnsupported }
func (unsupportedDriver) SetCaptureFile(Handle, string) error            { return ErrUnsupported }
func (unsupportedDriver) StartSequence(Handle) error                     { return ErrUnsupported }
func (unsupportedDriver) AbortSequence(Handle) error                     { return ErrUnsupported }
func (unsupportedDriver) GrabFrameNoStop(Handle) error                   { return ErrUnsupported }
func (unsupportedDriver) SingleFrameOpen(Handle) error                   { return ErrUnsupported }
func (unsupportedDriver) SingleFrame(Handle) error                       { return ErrUnsupported }
func (unsupportedDriver) SingleFrameClose(Handle) error                  { return ErrUnsupported }
func (unsupportedDriver) SaveDIB(Handle, string) error                   { return ErrUnsupported }
