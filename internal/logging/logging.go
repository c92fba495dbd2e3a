package logging

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var logFile *lumberjack.Logger

// Setup sends slog output to a rotating log file and, when console is not
// nil, to console as well. Operator messages are not logged here; they go
// straight to stdout.
func Setup(logPath string, debug bool, console io.Writer) error {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   false,
	}

	writers := []io.Writer{logFile}
	if console != nil {
		writers = append(writers, console)
	}
	multiWriter := io.MultiWriter(writers...)

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(multiWriter, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	slog.Info("logging initialized", "path", logPath, "debug", debug)

	return nil
}

// Close flushes and closes the log file.
func Close() {
	if logFile == nil {
		return
	}
	slog.Info("logging shutdown")
	if err := logFile.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", err)
	}
	logFile = nil
}

// GetDefaultLogPath returns the log file inside the app data directory,
// falling back to ./logs.
func GetDefaultLogPath(logsDir func() (string, error)) string {
	dir, err := logsDir()
	if err != nil {
		return filepath.Join(".", "logs", "camhook.log")
	}
	return filepath.Join(dir, "camhook.log")
}
