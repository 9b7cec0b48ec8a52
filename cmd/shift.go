package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/prima/internal/formatter"
	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/shared"
	"github.com/desertthunder/prima/internal/studio"
)

// ShiftStart starts a shift for the current operator on the platforms named in the arguments.
func (r *Runner) ShiftStart(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	selected, err := parsePlatforms(cmd.Args().Slice())
	if err != nil {
		return err
	}

	user := r.currentUser(ctx)
	shift, err := r.manager.Start(user, selected)
	if err != nil {
		return err
	}

	r.writePlain("✓ Смена начата: %s\n", platformNames(shift))
	r.writePlain("Оператор: %s\n", shift.UserName)
	r.writePlain("Начало: %s\n", shift.StartTime.Local().Format("15:04"))
	return nil
}

// ShiftStatus prints the active shift and its running time.
func (r *Runner) ShiftStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	shift, ok, err := r.manager.Current()
	if err != nil {
		return err
	}
	var elapsed time.Duration
	if ok {
		elapsed = studio.Elapsed(shift, r.now())
	}

	if cmd.Bool("json") {
		return r.writeJSON(struct {
			Active      bool          `json:"active"`
			Shift       *models.Shift `json:"shift,omitempty"`
			ElapsedMs   int64         `json:"elapsedMs"`
			ElapsedText string        `json:"elapsedText"`
		}{ok, activeOrNil(shift, ok), elapsed.Milliseconds(), studio.FormatElapsed(elapsed)}, true)
	}

	if !ok {
		r.writePlain("Нет активной смены\n")
		return nil
	}
	r.writePlain("⏱  %s\n", studio.FormatElapsed(elapsed))
	r.writePlain("Площадки: %s\n", platformNames(shift))
	r.writePlain("Начало: %s\n", shift.StartTime.Local().Format("02.01.2006 15:04"))
	return nil
}

// ShiftWatch redraws the running clock until the shift ends or the command is interrupted.
func (r *Runner) ShiftWatch(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	timer, err := r.manager.Watch(ctx, cmd.Duration("interval"), func(d time.Duration) {
		r.writePlain("\r⏱  %s", studio.FormatElapsed(d))
	})
	if err != nil {
		return err
	}
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.Done():
	}
	r.writePlain("\n")
	return nil
}

// ShiftEnd completes the active shift with "<platform>=<tokens>" arguments.
//
// Values are read like the mini app form: the leading digits count and anything unreadable is zero.
func (r *Runner) ShiftEnd(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	raw, err := parseTokenArgs(cmd.Args().Slice())
	if err != nil {
		return err
	}

	progressCh := make(chan studio.ProgressUpdate, 8)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for update := range progressCh {
			switch update.Phase {
			case studio.SummarizePhase:
				r.writePlain("🤖 %s\n", update.Message)
			case studio.DonePhase:
			default:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	shift, err := r.manager.EndRaw(ctx, raw, progressCh)
	close(progressCh)
	<-printed

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(formatter.Record(shift, r.manager.Rates()), true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Смена завершена")
	for _, p := range shift.ActivePlatforms() {
		r.writePlain("%-11s %s tk\n", p.Name, humanize.Comma(int64(p.TokensEarned)))
	}
	r.writePlain("Итого: %s tk • $%.2f • %s ч\n",
		humanize.Comma(int64(shift.TotalTokens)),
		studio.ShiftRevenue(shift, r.manager.Rates()),
		studio.FormatHours(shift.Duration()),
	)
	r.writePlainln("%s", shift.AIFeedback)
	return nil
}

// HistoryList prints completed shifts in the chosen format.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	shifts, err := r.manager.History()
	if err != nil {
		return err
	}
	if limit := cmd.Int("limit"); limit > 0 && limit < len(shifts) {
		shifts = shifts[:limit]
	}

	data, err := formatter.Export(shifts, r.manager.Rates(), format)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}

// HistoryExport writes completed shifts to a file.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	shifts, err := r.manager.History()
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(shifts, r.manager.Rates(), format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("history exported", "path", path, "shifts", len(shifts))
	r.writePlain("✓ Экспортировано смен: %d → %s\n", len(shifts), path)
	return nil
}

// Stats prints the operator dashboard.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	stats, err := r.manager.Stats()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	user := r.currentUser(ctx)
	r.writePlainHeader(fmt.Sprintf("PRIMA • %s", user.FirstName))
	r.writePlain("Смен:    %d\n", stats.CompletedCount)
	r.writePlain("Токенов: %s\n", humanize.Comma(int64(stats.TotalTokens)))
	r.writePlain("Доход:   $%s\n", humanize.CommafWithDigits(stats.Revenue, 2))
	r.writePlain("Часов:   %.1f\n", stats.TotalHours)
	if stats.LastShift != nil && stats.LastShift.EndTime != nil {
		r.writePlain("Последняя смена: %s\n", formatter.Ago(*stats.LastShift.EndTime, r.now()))
	}
	if stats.LastFeedback != "" {
		r.writePlainln("%s", stats.LastFeedback)
	}
	return nil
}

// parsePlatforms resolves platform names case-insensitively, keeping canonical order and dropping repeats.
func parsePlatforms(args []string) ([]models.PlatformName, error) {
	seen := make(map[models.PlatformName]bool, len(args))
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			name, ok := models.ParsePlatformName(part)
			if !ok {
				return nil, fmt.Errorf("%w: unknown platform %q", shared.ErrInvalidArgument, part)
			}
			seen[name] = true
		}
	}

	var selected []models.PlatformName
	for _, name := range models.PlatformNames() {
		if seen[name] {
			selected = append(selected, name)
		}
	}
	return selected, nil
}

// parseTokenArgs reads "<platform>=<tokens>" pairs into the raw form map.
func parseTokenArgs(args []string) (map[string]string, error) {
	raw := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%w: expected <platform>=<tokens>, got %q", shared.ErrInvalidArgument, arg)
		}
		name, known := models.ParsePlatformName(strings.TrimSpace(key))
		if !known {
			return nil, fmt.Errorf("%w: unknown platform %q", shared.ErrInvalidArgument, key)
		}
		raw[string(name)] = value
	}
	return raw, nil
}

func platformNames(shift models.Shift) string {
	var names []string
	for _, p := range shift.ActivePlatforms() {
		names = append(names, string(p.Name))
	}
	return strings.Join(names, ", ")
}

func activeOrNil(shift models.Shift, ok bool) *models.Shift {
	if !ok {
		return nil
	}
	return &shift
}
