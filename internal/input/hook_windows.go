//go:build windows

package input

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessageW    = user32.NewProc("DispatchMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
)

const (
	whKeyboardLL = 13
	llkhfUp      = 0x80

	wmQuit       = 0x0012
	wmApp        = 0x8000
	wmRunActions = wmApp + 1
)

// HookLoop is the Win32 message pump of the thread that owns the capture
// window. With lowLevel set it also installs a WH_KEYBOARD_LL hook whose
// callback runs inside GetMessage on the same thread.
type HookLoop struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
	lowLevel   bool
	threadID   uint32
	hook       uintptr

	mu      sync.Mutex
	pending []Action
}

// NewLoop returns a message loop bound to the calling OS thread. The caller
// must have locked the goroutine to its thread and must call Run from it.
func NewLoop(d *Dispatcher, logger *slog.Logger, lowLevel bool) Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &HookLoop{
		dispatcher: d,
		logger:     logger,
		lowLevel:   lowLevel,
		threadID:   windows.GetCurrentThreadId(),
	}
}

func (l *HookLoop) Run(ctx context.Context) error {
	if tid := windows.GetCurrentThreadId(); tid != l.threadID {
		return fmt.Errorf("message loop bound to thread %d, run from thread %d", l.threadID, tid)
	}

	if l.lowLevel {
		if err := l.install(); err != nil {
			return err
		}
		defer l.uninstall()
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			procPostThreadMessageW.Call(uintptr(l.threadID), wmQuit, 0, 0)
		case <-done:
		}
	}()

	var m msg
	for {
		ret, _, err := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(ret) {
		case -1:
			return fmt.Errorf("GetMessage failed: %w", err)
		case 0: // WM_QUIT
			l.logger.Debug("message loop quit")
			return nil
		}

		if m.hwnd == 0 && m.message == wmRunActions {
			l.runPending()
			continue
		}

		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

// Post queues a and wakes the loop thread.
func (l *HookLoop) Post(a Action) {
	l.mu.Lock()
	l.pending = append(l.pending, a)
	l.mu.Unlock()

	ret, _, err := procPostThreadMessageW.Call(uintptr(l.threadID), wmRunActions, 0, 0)
	if ret == 0 {
		l.logger.Warn("failed to wake message loop", "action", a.String(), "error", err)
	}
}

func (l *HookLoop) runPending() {
	l.mu.Lock()
	actions := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, a := range actions {
		l.dispatcher.Execute(a)
	}
}

func (l *HookLoop) install() error {
	var mod windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &mod); err != nil {
		return fmt.Errorf("get module handle: %w", err)
	}

	cb := windows.NewCallback(l.onKeyboard)
	h, _, err := procSetWindowsHookExW.Call(whKeyboardLL, cb, uintptr(mod), 0)
	if h == 0 {
		return fmt.Errorf("install keyboard hook: %w", err)
	}
	l.hook = h
	l.logger.Info("low-level keyboard hook installed")
	return nil
}

func (l *HookLoop) uninstall() {
	if l.hook == 0 {
		return
	}
	if ret, _, err := procUnhookWindowsHookEx.Call(l.hook); ret == 0 {
		l.logger.Warn("failed to remove keyboard hook", "error", err)
	}
	l.hook = 0
}

// onKeyboard only matches; the bound action runs from the message loop
// after the callback has returned, so keyboard input is never held up.
func (l *HookLoop) onKeyboard(nCode, wParam, lParam uintptr) uintptr {
	if int32(nCode) >= 0 {
		k := (*kbdllHookStruct)(unsafe.Pointer(lParam))
		ev := KeyEvent{VK: k.vkCode, Scan: k.scanCode, Down: k.flags&llkhfUp == 0}
		if a, ok := l.dispatcher.Match(ev); ok {
			l.Post(a)
			return 1
		}
	}
	ret, _, _ := procCallNextHookEx.Call(l.hook, nCode, wParam, lParam)
	return ret
}

type kbdllHookStruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msg struct {
	hwnd    windows.Handle
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      point
}

type point struct {
	x, y int32
}
