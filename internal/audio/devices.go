package audio

import (
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/gen2brain/malgo"
)

// Device is an audio capture (microphone) endpoint.
type Device struct {
	ID   string
	Name string
}

// ListInputDevices returns the audio capture devices the host exposes.
func ListInputDevices() ([]Device, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to init audio context: %w", err)
	}
	defer func() {
		_ = ctx.Uninit()
		ctx.Free()
	}()

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to list capture devices: %w", err)
	}

	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		name := info.Name()
		slog.Debug("found audio input device", "name", name)
		devices = append(devices, Device{ID: hex.EncodeToString(info.ID[:]), Name: name})
	}
	return devices, nil
}

// Lister lists audio input devices.
type Lister func() ([]Device, error)

// ResolveCapture decides whether a recording should capture audio. A
// recording with audio fails to start when no input device exists, so audio
// is dropped in that case. A failed probe keeps the requested setting.
func ResolveCapture(requested bool, list Lister) bool {
	if !requested {
		return false
	}
	devices, err := list()
	if err != nil {
		slog.Warn("audio device probe failed, keeping audio capture on", "error", err)
		return true
	}
	if len(devices) == 0 {
		slog.Warn("no audio input device found, recording video only")
		return false
	}
	slog.Info("audio input available", "devices", len(devices), "first", devices[0].Name)
	return true
}
