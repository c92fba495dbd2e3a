package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_MissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", configFileName)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("defaults not written: %v", err)
	}
}

func TestLoadConfig_BadJSONFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	data := `{"debug": true, "preview_fps": 15, "keys": {"record": "c"}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Debug || cfg.PreviewFPS != 15 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Keys.Record != "c" || cfg.Keys.Quit != "esc" {
		t.Fatalf("unexpected keys %+v", cfg.Keys)
	}
	if cfg.ConnectTimeoutSeconds != 20 {
		t.Fatalf("expected default timeout, got %d", cfg.ConnectTimeoutSeconds)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	want := DefaultConfig()
	want.HookBackend = BackendGohook
	want.WindowWidth = 1280
	want.WindowHeight = 720

	if err := SaveConfig(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		check   func(*testing.T, Config)
		wantErr string
	}{
		{
			name:   "out of range numbers reset",
			mutate: func(c *Config) { c.PreviewFPS = 0; c.ConnectTimeoutSeconds = -5; c.AudioBufferSize = 99999 },
			check: func(t *testing.T, c Config) {
				if c.PreviewFPS != 30 || c.ConnectTimeoutSeconds != 20 || c.AudioBufferSize != 64 {
					t.Fatalf("not reset: %+v", c)
				}
			},
		},
		{
			name:   "empty backend becomes lowlevel",
			mutate: func(c *Config) { c.HookBackend = "" },
			check: func(t *testing.T, c Config) {
				if c.HookBackend != BackendLowLevel {
					t.Fatalf("got %q", c.HookBackend)
				}
			},
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.HookBackend = "raw-input" },
			wantErr: "hook_backend",
		},
		{
			name:    "unknown key",
			mutate:  func(c *Config) { c.Keys.Snapshot = "printscreen" },
			wantErr: "snapshot key",
		},
		{
			name:    "shared key",
			mutate:  func(c *Config) { c.Keys.Preview = "p" },
			wantErr: "bound to both",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestCaptureOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ConnectTimeoutSeconds = 5
	cfg.FrameIntervalUS = 33333
	cfg.CaptureAudio = false

	opts := cfg.CaptureOptions()
	if opts.ConnectTimeout != 5*time.Second {
		t.Fatalf("timeout %v", opts.ConnectTimeout)
	}
	if opts.Sequence.MicroSecPerFrame != 33333 || opts.Sequence.CaptureAudio {
		t.Fatalf("sequence %+v", opts.Sequence)
	}
	if opts.Width != 640 || opts.Height != 480 || opts.PreviewFPS != 30 {
		t.Fatalf("window %+v", opts)
	}
}
