//go:build !windows

package utils

// SingleInstanceMutex is a no-op outside Windows, where no capture backend
// exists to guard.
type SingleInstanceMutex struct{}

func AcquireSingleInstance(name string) (*SingleInstanceMutex, error) {
	return &SingleInstanceMutex{}, nil
}

func (m *SingleInstanceMutex) Release() {}
