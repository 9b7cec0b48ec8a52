package studio

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/shared"
)

// ProfileStore persists saved platform logins and the selected role.
type ProfileStore interface {
	Credentials() (models.Credentials, error)
	SaveCredentials(creds models.Credentials) error
	Role() (models.Role, error)
	SetRole(role models.Role) error
}

// PlannerOpts wires a [Planner] to its collections.
type PlannerOpts struct {
	Tasks     models.Collection[models.Task]
	Schedules models.Collection[models.DaySchedule]
	Guides    models.Collection[models.Guide]
	Profile   ProfileStore
	NewID     func() string
}

// Planner manages the content plan, working schedule, guides and profile settings.
//
// None of these collections reference shifts, and no planner operation touches the shift history.
type Planner struct {
	mu        sync.Mutex
	tasks     models.Collection[models.Task]
	schedules models.Collection[models.DaySchedule]
	guides    models.Collection[models.Guide]
	profile   ProfileStore
	newID     func() string
}

// NewPlanner creates a Planner from opts.
func NewPlanner(opts PlannerOpts) *Planner {
	if opts.NewID == nil {
		opts.NewID = shared.GenerateID
	}
	return &Planner{
		tasks:     opts.Tasks,
		schedules: opts.Schedules,
		guides:    opts.Guides,
		profile:   opts.Profile,
		newID:     opts.NewID,
	}
}

// Default working hours used when a working day is saved without times.
const (
	DefaultShiftStart = "18:00"
	DefaultShiftEnd   = "02:00"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", shared.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Tasks returns the content plan. A day of 0 returns every task; otherwise only tasks for that day.
func (p *Planner) Tasks(day int) ([]models.Task, error) {
	tasks, err := p.tasks.Load()
	if err != nil {
		return nil, err
	}
	if day == 0 {
		return tasks, nil
	}
	return slices.DeleteFunc(tasks, func(t models.Task) bool { return t.Date != day }), nil
}

// AddTask appends a task. The title is required; the type defaults to video.
func (p *Planner) AddTask(day int, taskType models.TaskType, title, description string) (models.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, invalid("task title is required")
	}
	if !models.ValidDay(day) {
		return models.Task{}, invalid("day %d is not a day of month", day)
	}
	if taskType == "" {
		taskType = models.TaskVideo
	}
	if _, ok := models.ParseTaskType(string(taskType)); !ok {
		return models.Task{}, invalid("unknown task type %q", taskType)
	}

	tasks, err := p.tasks.Load()
	if err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:          p.newID(),
		Date:        day,
		Type:        taskType,
		Title:       title,
		Description: strings.TrimSpace(description),
	}
	if err := p.tasks.Save(append(tasks, task)); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// TaskEdit holds the fields to change on a task; nil fields are kept.
type TaskEdit struct {
	Title       *string
	Description *string
	Type        *models.TaskType
	Date        *int
}

// EditTask applies edit to the task with id.
func (p *Planner) EditTask(id string, edit TaskEdit) (models.Task, error) {
	return p.updateTask(id, func(t *models.Task) error {
		if edit.Title != nil {
			title := strings.TrimSpace(*edit.Title)
			if title == "" {
				return invalid("task title is required")
			}
			t.Title = title
		}
		if edit.Description != nil {
			t.Description = strings.TrimSpace(*edit.Description)
		}
		if edit.Type != nil {
			taskType, ok := models.ParseTaskType(string(*edit.Type))
			if !ok {
				return invalid("unknown task type %q", *edit.Type)
			}
			t.Type = taskType
		}
		if edit.Date != nil {
			if !models.ValidDay(*edit.Date) {
				return invalid("day %d is not a day of month", *edit.Date)
			}
			t.Date = *edit.Date
		}
		return nil
	})
}

// ToggleTask flips the completion flag of the task with id.
func (p *Planner) ToggleTask(id string) (models.Task, error) {
	return p.updateTask(id, func(t *models.Task) error {
		t.IsCompleted = !t.IsCompleted
		return nil
	})
}

func (p *Planner) updateTask(id string, fn func(t *models.Task) error) (models.Task, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tasks, err := p.tasks.Load()
	if err != nil {
		return models.Task{}, err
	}

	idx := slices.IndexFunc(tasks, func(t models.Task) bool { return t.ID == id })
	if idx < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", shared.ErrTaskNotFound, id)
	}

	task := tasks[idx]
	if err := fn(&task); err != nil {
		return models.Task{}, err
	}
	tasks[idx] = task

	if err := p.tasks.Save(tasks); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// DeleteTask removes the task with id.
func (p *Planner) DeleteTask(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	tasks, err := p.tasks.Load()
	if err != nil {
		return err
	}

	before := len(tasks)
	kept := slices.DeleteFunc(tasks, func(t models.Task) bool { return t.ID == id })
	return saveIfRemoved(before, len(kept), func() error { return p.tasks.Save(kept) }, shared.ErrTaskNotFound, id)
}

func saveIfRemoved(before, after int, save func() error, notFound error, id string) error {
	if before == after {
		return fmt.Errorf("%w: %s", notFound, id)
	}
	return save()
}

// Schedule returns the working schedule ordered by day.
func (p *Planner) Schedule() ([]models.DaySchedule, error) {
	days, err := p.schedules.Load()
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(days, func(a, b models.DaySchedule) int { return a.Date - b.Date })
	return days, nil
}

// Day returns the schedule entry for day.
func (p *Planner) Day(day int) (models.DaySchedule, bool, error) {
	days, err := p.schedules.Load()
	if err != nil {
		return models.DaySchedule{}, false, err
	}
	for _, d := range days {
		if d.Date == day {
			return d, true, nil
		}
	}
	return models.DaySchedule{}, false, nil
}

// SetDay inserts or replaces the entry for entry.Date.
//
// Times are dropped on days off; a working day without times gets the default hours.
func (p *Planner) SetDay(entry models.DaySchedule) (models.DaySchedule, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !models.ValidDay(entry.Date) {
		return models.DaySchedule{}, invalid("day %d is not a day of month", entry.Date)
	}

	entry.Note = strings.TrimSpace(entry.Note)
	if entry.IsWorking {
		entry.StartTime = cmp.Or(strings.TrimSpace(entry.StartTime), DefaultShiftStart)
		entry.EndTime = cmp.Or(strings.TrimSpace(entry.EndTime), DefaultShiftEnd)
	} else {
		entry.StartTime, entry.EndTime = "", ""
	}

	days, err := p.schedules.Load()
	if err != nil {
		return models.DaySchedule{}, err
	}

	if idx := slices.IndexFunc(days, func(d models.DaySchedule) bool { return d.Date == entry.Date }); idx >= 0 {
		days[idx] = entry
	} else {
		days = append(days, entry)
	}

	if err := p.schedules.Save(days); err != nil {
		return models.DaySchedule{}, err
	}
	return entry, nil
}

// ClearDay removes the entry for day. Clearing a day without an entry is not an error.
func (p *Planner) ClearDay(day int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	days, err := p.schedules.Load()
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(days, func(d models.DaySchedule) bool { return d.Date == day })
	return p.schedules.Save(kept)
}

// Guides returns every guide.
func (p *Planner) Guides() ([]models.Guide, error) {
	return p.guides.Load()
}

// AddGuide appends a guide. Title and content are required; the level defaults to Novice.
func (p *Planner) AddGuide(title, content string, level models.GuideLevel) (models.Guide, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	guide, err := normaliseGuide(models.Guide{ID: p.newID(), Title: title, Content: content, Level: level})
	if err != nil {
		return models.Guide{}, err
	}

	guides, err := p.guides.Load()
	if err != nil {
		return models.Guide{}, err
	}
	if err := p.guides.Save(append(guides, guide)); err != nil {
		return models.Guide{}, err
	}
	return guide, nil
}

// EditGuide replaces the title, content and level of the guide with id.
func (p *Planner) EditGuide(id, title, content string, level models.GuideLevel) (models.Guide, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	guide, err := normaliseGuide(models.Guide{ID: id, Title: title, Content: content, Level: level})
	if err != nil {
		return models.Guide{}, err
	}

	guides, err := p.guides.Load()
	if err != nil {
		return models.Guide{}, err
	}

	idx := slices.IndexFunc(guides, func(g models.Guide) bool { return g.ID == id })
	if idx < 0 {
		return models.Guide{}, fmt.Errorf("%w: %s", shared.ErrGuideNotFound, id)
	}
	guides[idx] = guide

	if err := p.guides.Save(guides); err != nil {
		return models.Guide{}, err
	}
	return guide, nil
}

// DeleteGuide removes the guide with id.
func (p *Planner) DeleteGuide(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	guides, err := p.guides.Load()
	if err != nil {
		return err
	}
	before := len(guides)
	kept := slices.DeleteFunc(guides, func(g models.Guide) bool { return g.ID == id })
	return saveIfRemoved(before, len(kept), func() error { return p.guides.Save(kept) }, shared.ErrGuideNotFound, id)
}

func normaliseGuide(g models.Guide) (models.Guide, error) {
	g.Title = strings.TrimSpace(g.Title)
	g.Content = strings.TrimSpace(g.Content)
	if g.Title == "" || g.Content == "" {
		return models.Guide{}, invalid("guide title and content are required")
	}
	if g.Level == "" {
		g.Level = models.GuideNovice
	}
	level, ok := models.ParseGuideLevel(string(g.Level))
	if !ok {
		return models.Guide{}, invalid("unknown guide level %q", g.Level)
	}
	g.Level = level
	return g, nil
}

// Credentials returns the saved platform logins.
func (p *Planner) Credentials() (models.Credentials, error) {
	return p.profile.Credentials()
}

// SetCredential saves the login for platform.
func (p *Planner) SetCredential(platform models.PlatformName, login, password string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !platform.Valid() {
		return invalid("unknown platform %q", platform)
	}

	creds, err := p.profile.Credentials()
	if err != nil {
		return err
	}
	creds[platform] = models.Credential{Login: strings.TrimSpace(login), Password: password}
	return p.profile.SaveCredentials(creds)
}

// Role returns the stored role.
func (p *Planner) Role() (models.Role, error) {
	return p.profile.Role()
}

// ToggleRole switches between operator and admin and returns the new role.
func (p *Planner) ToggleRole() (models.Role, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	role, err := p.profile.Role()
	if err != nil {
		return "", err
	}
	next := role.Toggle()
	if err := p.profile.SetRole(next); err != nil {
		return "", err
	}
	return next, nil
}
