package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSubDirsUnderLocalAppData(t *testing.T) {
	base := t.TempDir()
	t.Setenv("LOCALAPPDATA", base)

	for name, fn := range map[string]func() (string, error){
		"logs":   GetLogsDir,
		"config": GetConfigDir,
	} {
		dir, err := fn()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if want := filepath.Join(base, AppName, name); dir != want {
			t.Fatalf("%s: expected %s, got %s", name, want, dir)
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("%s: directory not created: %v", name, err)
		}
	}
}
