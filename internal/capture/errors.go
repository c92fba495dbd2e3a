package capture

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	ErrTimeout          = errors.New("driver connection timed out")
	ErrClosed           = errors.New("capture session is closed")
	ErrAlreadyRecording = errors.New("already recording")
	ErrNotRecording     = errors.New("not recording")
	ErrUnsupported      = errors.New("video capture is not supported on this platform")
)

// ConnectError reports a failure to bring a capture window up: creating the
// window or connecting it to the driver.
type ConnectError struct {
	Op   string
	Code uint32 // OS error code, 0 when unknown
	Err  error
}

func (e *ConnectError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: %v : %d", e.Op, e.Err, e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

func newConnectError(op string, err error) *ConnectError {
	ce := &ConnectError{Op: op, Err: err}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		ce.Code = uint32(errno)
	}
	return ce
}
