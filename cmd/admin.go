package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/prima/internal/formatter"
	"github.com/desertthunder/prima/internal/shared"
)

// AdminReport prints the studio report built from every completed shift.
func (r *Runner) AdminReport(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}
	if _, err := r.requireAdmin(ctx); err != nil {
		return err
	}

	totals, err := r.manager.Totals()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(totals, true)
	}

	r.writePlain("%s\n", formatter.ReportText(totals, r.config.Studio.Name, r.now()))
	if len(totals.Platforms) > 0 {
		r.writePlainln("По площадкам:")
		for _, p := range totals.Platforms {
			r.writePlain("  %-11s %7d tk  $%.2f\n", p.Name, p.Tokens, p.Revenue)
		}
	}
	return nil
}

// AdminShare sends the studio report through the configured sharer.
func (r *Runner) AdminShare(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}
	if _, err := r.requireAdmin(ctx); err != nil {
		return err
	}

	totals, err := r.manager.Totals()
	if err != nil {
		return err
	}

	text := formatter.ReportText(totals, r.config.Studio.Name, r.now())
	if err := r.sharer.Share(ctx, text); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.logger.Info("report shared", "target", r.sharer.Name())
	r.writePlain("✓ Отчёт отправлен (%s)\n", r.sharer.Name())
	return nil
}

// AdminDBCheck runs the remote object store round trip and prints each step.
func (r *Runner) AdminDBCheck(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}
	if _, err := r.requireAdmin(ctx); err != nil {
		return err
	}
	if r.objects == nil {
		return fmt.Errorf("%w: set [parse] app_id and rest_key in config.toml", shared.ErrMissingCredentials)
	}

	r.writePlainHeader("Проверка облачной базы")
	steps, err := r.objects.Check(ctx)
	for _, step := range steps {
		if step.Err != nil {
			r.writePlain("✗ %-7s %v\n", step.Name, step.Err)
			continue
		}
		r.writePlain("✓ %-7s %s (%s)\n", step.Name, step.Detail, step.Elapsed.Round(time.Millisecond))
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	r.writePlain("\nВсе шаги пройдены: %d\n", len(steps))
	return nil
}
