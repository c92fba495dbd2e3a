package utils

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// SingleInstanceMutex holds a named Windows mutex. Only one camhook may own
// the capture driver at a time.
type SingleInstanceMutex struct {
	handle windows.Handle
}

// AcquireSingleInstance creates the named mutex, failing with
// ErrAlreadyRunning if it already exists.
func AcquireSingleInstance(name string) (*SingleInstanceMutex, error) {
	mutexName, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("failed to convert mutex name: %w", err)
	}

	handle, err := windows.CreateMutex(nil, false, mutexName)
	if errors.Is(err, windows.ERROR_ALREADY_EXISTS) {
		windows.CloseHandle(handle)
		return nil, ErrAlreadyRunning
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create mutex: %w", err)
	}

	return &SingleInstanceMutex{handle: handle}, nil
}

func (m *SingleInstanceMutex) Release() {
	if m.handle != 0 {
		windows.CloseHandle(m.handle)
		m.handle = 0
	}
}
