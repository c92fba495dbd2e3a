// Package capturetest provides an in-memory capture driver for tests.
package capturetest

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"camhook/internal/capture"
)

// ErrFailed is returned by operations configured to fail.
var ErrFailed = errors.New("fake driver call failed")

// Driver is a scriptable capture.Driver that records every call.
type Driver struct {
	mu sync.Mutex

	Devices map[int][2]string

	Foreground      capture.Handle
	CreateErr       error
	ConnectFailures int // Connect fails this many times before succeeding; -1 fails forever
	Fail            map[string]bool

	Calls       []string
	Visible     map[capture.Handle]bool
	Sequence    capture.SequenceParams
	CaptureFile string
	Sequencing  bool
	Connected   bool
	ConnectedTo int
	Destroyed   bool
	Saved       []string

	next capture.Handle
}

// NewDriver returns a driver exposing one device at slot 0.
func NewDriver() *Driver {
	return &Driver{
		Devices:    map[int][2]string{0: {"USB Cam", "desc"}},
		Foreground: 0x100,
		Fail:       map[string]bool{},
		Visible:    map[capture.Handle]bool{0x100: true},
		next:       0x200,
	}
}

func (d *Driver) record(call string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Calls = append(d.Calls, call)
	if d.Fail[call] {
		return fmt.Errorf("%s: %w", call, ErrFailed)
	}
	return nil
}

// Called reports how many times call was made.
func (d *Driver) Called(call string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (d *Driver) DriverDescription(index int) (string, string, bool) {
	v, ok := d.Devices[index]
	return v[0], v[1], ok
}

func (d *Driver) ForegroundWindow() capture.Handle { return d.Foreground }

func (d *Driver) CreateWindow(title string, parent capture.Handle, width, height int) (capture.Handle, error) {
	if err := d.record("CreateWindow"); err != nil {
		return 0, err
	}
	if d.CreateErr != nil {
		return 0, d.CreateErr
	}
	d.next++
	d.Visible[d.next] = true
	return d.next, nil
}

func (d *Driver) DestroyWindow(w capture.Handle) error {
	d.Destroyed = true
	delete(d.Visible, w)
	return d.record("DestroyWindow")
}

func (d *Driver) ShowWindow(w capture.Handle, visible bool) {
	_ = d.record("ShowWindow")
	d.Visible[w] = visible
}

func (d *Driver) Connect(w capture.Handle, index int) error {
	_ = d.record("Connect")
	if d.ConnectFailures != 0 {
		if d.ConnectFailures > 0 {
			d.ConnectFailures--
		}
		return ErrFailed
	}
	d.Connected = true
	d.ConnectedTo = index
	return nil
}

func (d *Driver) Disconnect(w capture.Handle) error {
	d.Connected = false
	return d.record("Disconnect")
}

func (d *Driver) SetPreviewScale(w capture.Handle, scale bool) error {
	return d.record("SetPreviewScale")
}

func (d *Driver) SetPreviewRate(w capture.Handle, ms int) error {
	return d.record("SetPreviewRate")
}

func (d *Driver) SetPreview(w capture.Handle, enabled bool) error {
	return d.record("SetPreview")
}

func (d *Driver) ConfigureSequence(w capture.Handle, p capture.SequenceParams) error {
	if err := d.record("ConfigureSequence"); err != nil {
		return err
	}
	d.Sequence = p
	return nil
}

func (d *Driver) SetCaptureFile(w capture.Handle, name string) error {
	if err := d.record("SetCaptureFile"); err != nil {
		return err
	}
	d.CaptureFile = name
	return nil
}

func (d *Driver) StartSequence(w capture.Handle) error {
	if err := d.record("StartSequence"); err != nil {
		return err
	}
	d.Sequencing = true
	return nil
}

func (d *Driver) AbortSequence(w capture.Handle) error {
	d.Sequencing = false
	return d.record("AbortSequence")
}

func (d *Driver) GrabFrameNoStop(w capture.Handle) error { return d.record("GrabFrameNoStop") }
func (d *Driver) SingleFrameOpen(w capture.Handle) error { return d.record("SingleFrameOpen") }
func (d *Driver) SingleFrame(w capture.Handle) error     { return d.record("SingleFrame") }
func (d *Driver) SingleFrameClose(w capture.Handle) error {
	return d.record("SingleFrameClose")
}

func (d *Driver) SaveDIB(w capture.Handle, name string) error {
	if err := d.record("SaveDIB"); err != nil {
		return err
	}
	d.Saved = append(d.Saved, name)
	return nil
}

// Clock is a manual clock; Sleep advances it instead of blocking.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock starting at t.
func NewClock(t time.Time) *Clock { return &Clock{now: t} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Sleep(d time.Duration) { c.Advance(d) }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var (
	_ capture.Driver = (*Driver)(nil)
	_ capture.Clock  = (*Clock)(nil)
)
