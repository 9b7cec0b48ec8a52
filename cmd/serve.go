package main

import (
	"cmp"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/prima/internal/server"
)

// Serve runs the HTTP API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	api := &server.API{
		Manager: r.manager,
		Planner: r.planner,
		Roles:   r.planner,
		Auth: server.AuthConfig{
			BotToken: r.config.Telegram.BotToken,
			MaxAge:   r.config.Telegram.MaxAge(),
		},
		StudioName: r.config.Studio.Name,
		AppURL:     r.config.Telegram.AppURL,
		Logger:     r.logger,
		Now:        r.now,
	}
	if api.Auth.BotToken == "" {
		r.logger.Warn("no bot token configured, every request is the placeholder operator")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cmp.Or(cmd.String("addr"), r.config.Server.Addr())
	return server.Serve(ctx, addr, api.Router(), r.logger)
}
