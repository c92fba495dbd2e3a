//go:build windows

package capture

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	avicap32 = windows.NewLazySystemDLL("avicap32.dll")
	user32   = windows.NewLazySystemDLL("user32.dll")

	procCapGetDriverDescriptionW = avicap32.NewProc("capGetDriverDescriptionW")
	procCapCreateCaptureWindowW  = avicap32.NewProc("capCreateCaptureWindowW")

	procSendMessageW        = user32.NewProc("SendMessageW")
	procShowWindow          = user32.NewProc("ShowWindow")
	procDestroyWindow       = user32.NewProc("DestroyWindow")
	procGetForegroundWindow = user32.NewProc("GetForegroundWindow")
)

const (
	wsVisible = 0x10000000
	swHide    = 0
	swNormal  = 1

	wmUser            = 0x0400
	wmCapStart        = wmUser
	wmCapUnicodeStart = wmUser + 100

	wmCapDriverConnect       = wmCapStart + 10
	wmCapDriverDisconnect    = wmCapStart + 11
	wmCapFileSetCaptureFileW = wmCapUnicodeStart + 20
	wmCapFileSaveDIBW        = wmCapUnicodeStart + 25
	wmCapSetPreview          = wmCapStart + 50
	wmCapSetPreviewRate      = wmCapStart + 52
	wmCapSetScale            = wmCapStart + 53
	wmCapGrabFrameNoStop     = wmCapStart + 61
	wmCapSequence            = wmCapStart + 62
	wmCapSetSequenceSetup    = wmCapStart + 64
	wmCapGetSequenceSetup    = wmCapStart + 65
	wmCapAbort               = wmCapStart + 69
	wmCapSingleFrameOpen     = wmCapStart + 70
	wmCapSingleFrameClose    = wmCapStart + 71
	wmCapSingleFrame         = wmCapStart + 72

	driverNameLen = 256
)

// captureParms mirrors CAPTUREPARMS from vfw.h. Every member is 32 bits.
type captureParms struct {
	RequestMicroSecPerFrame  uint32
	MakeUserHitOKToCapture   uint32
	PercentDropForError      uint32
	Yield                    uint32
	IndexSize                uint32
	ChunkGranularity         uint32
	UsingDOSMemory           uint32
	NumVideoRequested        uint32
	CaptureAudio             uint32
	NumAudioRequested        uint32
	KeyAbort                 uint32
	AbortLeftMouse           uint32
	AbortRightMouse          uint32
	LimitEnabled             uint32
	TimeLimit                uint32
	MCIControl               uint32
	StepMCIDevice            uint32
	MCIStartTime             uint32
	MCIStopTime              uint32
	StepCaptureAt2x          uint32
	StepCaptureAverageFrames uint32
	AudioBufferSize          uint32
	DisableWriteCache        uint32
	AVStreamMaster           uint32
}

type vfwDriver struct{}

// NewDriver returns the Video for Windows capture driver.
func NewDriver() Driver {
	return vfwDriver{}
}

func (vfwDriver) DriverDescription(index int) (string, string, bool) {
	var name, desc [driverNameLen]uint16
	ret, _, _ := procCapGetDriverDescriptionW.Call(
		uintptr(index),
		uintptr(unsafe.Pointer(&name[0])),
		driverNameLen-1,
		uintptr(unsafe.Pointer(&desc[0])),
		driverNameLen-1,
	)
	if ret == 0 {
		return "", "", false
	}
	return windows.UTF16ToString(name[:]), windows.UTF16ToString(desc[:]), true
}

func (vfwDriver) ForegroundWindow() Handle {
	hwnd, _, _ := procGetForegroundWindow.Call()
	return Handle(hwnd)
}

func (vfwDriver) CreateWindow(title string, parent Handle, width, height int) (Handle, error) {
	p, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, fmt.Errorf("convert window title: %w", err)
	}
	hwnd, _, callErr := procCapCreateCaptureWindowW.Call(
		uintptr(unsafe.Pointer(p)),
		wsVisible,
		uintptr(^uint32(0)), // x = -1
		uintptr(^uint32(0)), // y = -1
		uintptr(width),
		uintptr(height),
		uintptr(parent),
		0,
	)
	if hwnd == 0 {
		return 0, callErr
	}
	return Handle(hwnd), nil
}

func (vfwDriver) DestroyWindow(w Handle) error {
	ret, _, err := procDestroyWindow.Call(uintptr(w))
	if ret == 0 {
		return err
	}
	return nil
}

func (vfwDriver) ShowWindow(w Handle, visible bool) {
	cmd := swHide
	if visible {
		cmd = swNormal
	}
	procShowWindow.Call(uintptr(w), uintptr(cmd))
}

func (vfwDriver) Connect(w Handle, index int) error {
	return send(w, wmCapDriverConnect, uintptr(index), 0, "driver connect")
}

func (vfwDriver) Disconnect(w Handle) error {
	return send(w, wmCapDriverDisconnect, 0, 0, "driver disconnect")
}

func (vfwDriver) SetPreviewScale(w Handle, scale bool) error {
	return send(w, wmCapSetScale, boolArg(scale), 0, "preview scale")
}

func (vfwDriver) SetPreviewRate(w Handle, ms int) error {
	return send(w, wmCapSetPreviewRate, uintptr(ms), 0, "preview rate")
}

func (vfwDriver) SetPreview(w Handle, enabled bool) error {
	return send(w, wmCapSetPreview, boolArg(enabled), 0, "preview")
}

func (vfwDriver) ConfigureSequence(w Handle, p SequenceParams) error {
	var parms captureParms
	size := unsafe.Sizeof(parms)
	if err := send(w, wmCapGetSequenceSetup, size, uintptr(unsafe.Pointer(&parms)), "get sequence setup"); err != nil {
		return err
	}

	parms.RequestMicroSecPerFrame = p.MicroSecPerFrame
	parms.MakeUserHitOKToCapture = uint32(boolArg(p.MakeUserHitOK))
	parms.Yield = uint32(boolArg(p.Yield))
	parms.CaptureAudio = uint32(boolArg(p.CaptureAudio))
	parms.AudioBufferSize = p.AudioBufferSize
	parms.AbortLeftMouse = uint32(boolArg(p.AbortLeftMouse))
	parms.AbortRightMouse = uint32(boolArg(p.AbortRightMouse))

	return send(w, wmCapSetSequenceSetup, size, uintptr(unsafe.Pointer(&parms)), "set sequence setup")
}

func (vfwDriver) SetCaptureFile(w Handle, name string) error {
	if name == "" {
		// Clearing the binding is advisory; the driver rejects a null name.
		procSendMessageW.Call(uintptr(w), wmCapFileSetCaptureFileW, 0, 0)
		return nil
	}
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return fmt.Errorf("convert file name: %w", err)
	}
	return send(w, wmCapFileSetCaptureFileW, 0, uintptr(unsafe.Pointer(p)), "set capture file")
}

func (vfwDriver) StartSequence(w Handle) error {
	return send(w, wmCapSequence, 0, 0, "capture sequence")
}

func (vfwDriver) AbortSequence(w Handle) error {
	return send(w, wmCapAbort, 0, 0, "capture abort")
}

func (vfwDriver) GrabFrameNoStop(w Handle) error {
	return send(w, wmCapGrabFrameNoStop, 0, 0, "grab frame")
}

func (vfwDriver) SingleFrameOpen(w Handle) error {
	return send(w, wmCapSingleFrameOpen, 0, 0, "single frame open")
}

func (vfwDriver) SingleFrame(w Handle) error {
	return send(w, wmCapSingleFrame, 0, 0, "single frame")
}

func (vfwDriver) SingleFrameClose(w Handle) error {
	return send(w, wmCapSingleFrameClose, 0, 0, "single frame close")
}

func (vfwDriver) SaveDIB(w Handle, name string) error {
	p, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return fmt.Errorf("convert file name: %w", err)
	}
	return send(w, wmCapFileSaveDIBW, 0, uintptr(unsafe.Pointer(p)), "save DIB")
}

// send delivers a WM_CAP message; the capture window answers FALSE on failure.
func send(w Handle, msg uint32, wParam, lParam uintptr, op string) error {
	ret, _, _ := procSendMessageW.Call(uintptr(w), uintptr(msg), wParam, lParam)
	if ret == 0 {
		return fmt.Errorf("%s rejected by capture window", op)
	}
	return nil
}

func boolArg(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}
