package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"camhook/internal/capture"
	"camhook/internal/input"
	"camhook/internal/utils"
)

const configFileName = "settings.json"

// Hook backends.
const (
	BackendLowLevel = "lowlevel"
	BackendGohook   = "gohook"
)

// Config represents user-configurable settings
type Config struct {
	Debug                 bool           `json:"debug"`
	ConnectTimeoutSeconds int            `json:"connect_timeout_seconds"`
	PreviewFPS            int            `json:"preview_fps"`
	WindowWidth           int            `json:"window_width"`
	WindowHeight          int            `json:"window_height"`
	FrameIntervalUS       int            `json:"frame_interval_us"`
	AudioBufferSize       int            `json:"audio_buffer_size"`
	CaptureAudio          bool           `json:"capture_audio"`
	HookBackend           string         `json:"hook_backend"`
	Keys                  input.KeyNames `json:"keys"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Debug:                 false,
		ConnectTimeoutSeconds: 20,
		PreviewFPS:            30,
		WindowWidth:           640,
		WindowHeight:          480,
		FrameIntervalUS:       15000,
		AudioBufferSize:       64,
		CaptureAudio:          true,
		HookBackend:           BackendLowLevel,
		Keys:                  input.DefaultKeyNames(),
	}
}

// Validate resets out-of-range numbers to their defaults and rejects
// settings that cannot be repaired.
func (c *Config) Validate() error {
	def := DefaultConfig()
	clamp := func(name string, v *int, lo, hi, fallback int) {
		if *v < lo || *v > hi {
			slog.Warn("setting out of range, using default", "setting", name, "value", *v, "default", fallback)
			*v = fallback
		}
	}
	clamp("connect_timeout_seconds", &c.ConnectTimeoutSeconds, 1, 600, def.ConnectTimeoutSeconds)
	clamp("preview_fps", &c.PreviewFPS, 1, 120, def.PreviewFPS)
	clamp("window_width", &c.WindowWidth, 160, 3840, def.WindowWidth)
	clamp("window_height", &c.WindowHeight, 120, 2160, def.WindowHeight)
	clamp("frame_interval_us", &c.FrameIntervalUS, 1000, 1000000, def.FrameIntervalUS)
	clamp("audio_buffer_size", &c.AudioBufferSize, 1, 1024, def.AudioBufferSize)

	switch c.HookBackend {
	case "":
		c.HookBackend = def.HookBackend
	case BackendLowLevel, BackendGohook:
	default:
		return fmt.Errorf("unknown hook_backend %q", c.HookBackend)
	}

	if c.Keys.Quit == "" {
		c.Keys.Quit = def.Keys.Quit
	}
	if c.Keys.Snapshot == "" {
		c.Keys.Snapshot = def.Keys.Snapshot
	}
	if c.Keys.Record == "" {
		c.Keys.Record = def.Keys.Record
	}
	if c.Keys.Preview == "" {
		c.Keys.Preview = def.Keys.Preview
	}
	if _, err := input.NewBindings(c.Keys); err != nil {
		return err
	}
	return nil
}

// CaptureOptions converts the settings into capture session options.
func (c Config) CaptureOptions() capture.Options {
	opts := capture.DefaultOptions()
	opts.Width = c.WindowWidth
	opts.Height = c.WindowHeight
	opts.ConnectTimeout = time.Duration(c.ConnectTimeoutSeconds) * time.Second
	opts.PreviewFPS = c.PreviewFPS
	opts.Sequence.MicroSecPerFrame = uint32(c.FrameIntervalUS)
	opts.Sequence.AudioBufferSize = uint32(c.AudioBufferSize)
	opts.Sequence.CaptureAudio = c.CaptureAudio
	return opts
}

// ConfigFilePath returns settings.json inside the app config directory.
func ConfigFilePath() (string, error) {
	configDir, err := utils.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// LoadConfig reads settings from path. A missing file yields defaults, which
// are written back so the operator has a file to edit. An unparsable file
// yields defaults with a warning. Settings that fail validation are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("no config file found, using defaults", "path", path)
			if err := SaveConfig(path, cfg); err != nil {
				slog.Warn("failed to write default config", "error", err)
			}
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Warn("failed to parse config file, using defaults", "path", path, "error", err)
		return DefaultConfig(), nil
	}

	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("invalid config %s: %w", path, err)
	}

	slog.Info("config loaded", "path", path)
	return cfg, nil
}

// SaveConfig writes cfg to path as indented JSON.
func SaveConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	slog.Info("config saved", "path", path)
	return nil
}
