package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"camhook/internal/app"
	"camhook/internal/capture"
	"camhook/internal/logging"
	"camhook/internal/utils"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := app.DefaultConfig()
	if configPath, err := app.ConfigFilePath(); err != nil {
		slog.Warn("failed to get config path, using defaults", "error", err)
	} else if loaded, err := app.LoadConfig(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "E :: %v\n", err)
		return 1
	} else {
		cfg = loaded
	}

	logPath := logging.GetDefaultLogPath(utils.GetLogsDir)
	if err := logging.Setup(logPath, cfg.Debug, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "failed to setup logging: %v\n", err)
	}
	defer logging.Close()

	instance, err := utils.AcquireSingleInstance(utils.InstanceMutexName)
	if err != nil {
		if errors.Is(err, utils.ErrAlreadyRunning) {
			fmt.Println("E :: camhook is already running")
		}
		slog.Error("single instance check failed", "error", err)
		return 1
	}
	defer instance.Release()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	camhook := app.New(cfg, capture.NewDriver())
	camhook.Exit = func(code int) {
		slog.Info("exiting", "code", code)
		instance.Release()
		logging.Close()
		os.Exit(code)
	}

	if err := camhook.Run(ctx); err != nil {
		slog.Error("camhook failed", "error", err)
		return 1
	}
	return 0
}
