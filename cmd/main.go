package main

import (
	"cmp"
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/prima/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := run(context.Background(), os.Args, logger); err != nil {
		if shared.IsRejection(err) {
			logger.Warn(err.Error())
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

func run(ctx context.Context, args []string, logger *log.Logger) error {
	configPath := cmp.Or(os.Getenv("PRIMA_CONFIG"), "config.toml")

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	config.ApplyEnv(os.Getenv)

	opts, closeStore, err := wire(ctx, config, logger, os.Stdout)
	if err != nil {
		logger.Warn("store unavailable", "error", err)
		opts = RunnerOpts{Config: config, Logger: logger}
	} else {
		defer closeStore()
	}
	opts.ConfigPath = configPath

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "prima",
		Usage:    "Shift tracker for webcam studio operators",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	return app.Run(ctx, args)
}
