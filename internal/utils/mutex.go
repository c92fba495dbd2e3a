package utils

import "errors"

// InstanceMutexName is the named mutex guarding a single running camhook.
const InstanceMutexName = "Local\\camhook-single-instance"

// ErrAlreadyRunning is returned when another process holds the instance mutex.
var ErrAlreadyRunning = errors.New("another instance is already running")
