package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/shared"
	"github.com/desertthunder/prima/internal/studio"
)

func requireID(cmd *cli.Command) (string, error) {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return "", fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	return id, nil
}

func parseTaskType(s string) (models.TaskType, error) {
	taskType, ok := models.ParseTaskType(s)
	if !ok {
		return "", fmt.Errorf("%w: unknown task type %q", shared.ErrInvalidArgument, s)
	}
	return taskType, nil
}

// TasksList prints the content plan, optionally for a single day.
func (r *Runner) TasksList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	tasks, err := r.planner.Tasks(cmd.Int("day"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tasks, true)
	}
	if len(tasks) == 0 {
		r.writePlain("Задач нет\n")
		return nil
	}

	slices.SortStableFunc(tasks, func(a, b models.Task) int { return a.Date - b.Date })
	for _, t := range tasks {
		check := "[ ]"
		if t.IsCompleted {
			check = "[x]"
		}
		r.writePlain("%s %2d  %-6s %s  (%s)\n", check, t.Date, t.Type, t.Title, t.ID)
		if t.Description != "" {
			r.writePlain("          %s\n", t.Description)
		}
	}
	return nil
}

// TasksAdd adds a task; the day defaults to today.
func (r *Runner) TasksAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	day := cmd.Int("day")
	if !cmd.IsSet("day") {
		day = r.now().Day()
	}

	var taskType models.TaskType
	if cmd.IsSet("type") {
		var err error
		if taskType, err = parseTaskType(cmd.String("type")); err != nil {
			return err
		}
	}

	task, err := r.planner.AddTask(day, taskType, cmd.String("title"), cmd.String("description"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Задача добавлена: %s (%s)\n", task.Title, task.ID)
	return nil
}

// TasksDone toggles the completion of a task.
func (r *Runner) TasksDone(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}
	id, err := requireID(cmd)
	if err != nil {
		return err
	}

	task, err := r.planner.ToggleTask(id)
	if err != nil {
		return err
	}

	if task.IsCompleted {
		r.writePlain("✓ Выполнено: %s\n", task.Title)
	} else {
		r.writePlain("○ Снова в работе: %s\n", task.Title)
	}
	return nil
}

// TasksEdit applies only the flags that were given.
func (r *Runner) TasksEdit(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}
	id, err := requireID(cmd)
	if err != nil {
		return err
	}

	var edit studio.TaskEdit
	if cmd.IsSet("title") {
		title := cmd.String("title")
		edit.Title = &title
	}
	if cmd.IsSet("description") {
		desc := cmd.String("description")
		edit.Description = &desc
	}
	if cmd.IsSet("type") {
		taskType, err := parseTaskType(cmd.String("type"))
		if err != nil {
			return err
		}
		edit.Type = &taskType
	}
	if cmd.IsSet("day") {
		day := cmd.Int("day")
		edit.Date = &day
	}

	task, err := r.planner.EditTask(id, edit)
	if err != nil {
		return err
	}

	r.writePlain("✓ Задача обновлена: %s\n", task.Title)
	return nil
}

// TasksRemove deletes a task.
func (r *Runner) TasksRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}
	id, err := requireID(cmd)
	if err != nil {
		return err
	}

	if err := r.planner.DeleteTask(id); err != nil {
		return err
	}
	r.writePlain("✓ Задача удалена\n")
	return nil
}

// ScheduleShow prints the working schedule.
func (r *Runner) ScheduleShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	var days []models.DaySchedule
	if day := cmd.Int("day"); day != 0 {
		entry, ok, err := r.planner.Day(day)
		if err != nil {
			return err
		}
		if ok {
			days = append(days, entry)
		}
	} else {
		var err error
		if days, err = r.planner.Schedule(); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(days, true)
	}
	if len(days) == 0 {
		r.writePlain("Расписание пустое\n")
		return nil
	}

	for _, d := range days {
		r.writePlain("%2d  %s\n", d.Date, describeDay(d))
	}
	return nil
}

func describeDay(d models.DaySchedule) string {
	text := "выходной"
	if d.IsWorking {
		text = fmt.Sprintf("%s–%s", d.StartTime, d.EndTime)
	}
	if d.Note != "" {
		text += "  " + d.Note
	}
	return text
}

// ScheduleSet stores a working day or a day off.
func (r *Runner) ScheduleSet(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	entry, err := r.planner.SetDay(models.DaySchedule{
		Date:      cmd.Int("day"),
		IsWorking: !cmd.Bool("off"),
		StartTime: cmd.String("start"),
		EndTime:   cmd.String("end"),
		Note:      cmd.String("note"),
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ %d: %s\n", entry.Date, describeDay(entry))
	return nil
}

// ScheduleRemove clears a day.
func (r *Runner) ScheduleRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	day := cmd.Int("day")
	if err := r.planner.ClearDay(day); err != nil {
		return err
	}
	r.writePlain("✓ День %d очищен\n", day)
	return nil
}

// GuidesList prints the reference guides.
func (r *Runner) GuidesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	guides, err := r.planner.Guides()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(guides, true)
	}

	for i, g := range guides {
		if i > 0 {
			r.writePlain("\n")
		}
		r.writePlain("%s [%s] (%s)\n%s\n", g.Title, g.Level, g.ID, g.Content)
	}
	return nil
}

// GuidesAdd adds a guide.
func (r *Runner) GuidesAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	guide, err := r.planner.AddGuide(cmd.String("title"), cmd.String("content"), models.GuideLevel(cmd.String("level")))
	if err != nil {
		return err
	}

	r.writePlain("✓ Гайд добавлен: %s (%s)\n", guide.Title, guide.ID)
	return nil
}

// GuidesEdit changes a guide, keeping the fields whose flags were not given.
func (r *Runner) GuidesEdit(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}
	id, err := requireID(cmd)
	if err != nil {
		return err
	}

	guides, err := r.planner.Guides()
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(guides, func(g models.Guide) bool { return g.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %s", shared.ErrGuideNotFound, id)
	}

	current := guides[idx]
	if cmd.IsSet("title") {
		current.Title = cmd.String("title")
	}
	if cmd.IsSet("content") {
		current.Content = cmd.String("content")
	}
	if cmd.IsSet("level") {
		current.Level = models.GuideLevel(cmd.String("level"))
	}

	guide, err := r.planner.EditGuide(id, current.Title, current.Content, current.Level)
	if err != nil {
		return err
	}

	r.writePlain("✓ Гайд обновлён: %s\n", guide.Title)
	return nil
}

// GuidesRemove deletes a guide.
func (r *Runner) GuidesRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}
	id, err := requireID(cmd)
	if err != nil {
		return err
	}

	if err := r.planner.DeleteGuide(id); err != nil {
		return err
	}
	r.writePlain("✓ Гайд удалён\n")
	return nil
}

// ProfileShow prints the current operator and role.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	user := r.currentUser(ctx)
	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlainHeader(user.FirstName)
	r.writePlain("ID:    %s\n", user.ID)
	if user.Username != "" {
		r.writePlain("Логин: @%s\n", user.Username)
	}
	r.writePlain("Роль:  %s\n", user.Role)
	return nil
}

// ProfileRole toggles between operator and admin.
func (r *Runner) ProfileRole(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	role, err := r.planner.ToggleRole()
	if err != nil {
		return err
	}

	r.logger.Info("role changed", "role", role)
	r.writePlain("✓ Роль: %s\n", role)
	return nil
}

// CredentialsSet saves the login for a platform.
func (r *Runner) CredentialsSet(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	name, ok := models.ParsePlatformName(cmd.String("platform"))
	if !ok {
		return fmt.Errorf("%w: unknown platform %q", shared.ErrInvalidArgument, cmd.String("platform"))
	}

	if err := r.planner.SetCredential(name, cmd.String("login"), cmd.String("password")); err != nil {
		return err
	}
	r.writePlain("✓ Данные для %s сохранены\n", name)
	return nil
}

// CredentialsShow lists saved logins in canonical platform order; passwords are masked unless --reveal is given.
func (r *Runner) CredentialsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(); err != nil {
		return err
	}

	creds, err := r.planner.Credentials()
	if err != nil {
		return err
	}

	reveal := cmd.Bool("reveal")
	for _, name := range models.PlatformNames() {
		c, ok := creds[name]
		if !ok {
			r.writePlain("%-11s —\n", name)
			continue
		}
		password := strings.Repeat("•", min(len([]rune(c.Password)), 8))
		if reveal {
			password = c.Password
		}
		r.writePlain("%-11s %s  %s\n", name, c.Login, password)
	}
	return nil
}
