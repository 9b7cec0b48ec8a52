package models

import (
	"fmt"
	"strings"
)

// TaskType classifies content tasks.
type TaskType string

const (
	TaskVideo  TaskType = "video"
	TaskPhoto  TaskType = "photo"
	TaskSocial TaskType = "social"
	TaskAdmin  TaskType = "admin"
)

// TaskTypes lists the task types in display order.
func TaskTypes() []TaskType { return []TaskType{TaskVideo, TaskPhoto, TaskSocial, TaskAdmin} }

// ParseTaskType matches s case-insensitively.
func ParseTaskType(s string) (TaskType, bool) {
	for _, t := range TaskTypes() {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, true
		}
	}
	return "", false
}

// Task is a content-plan entry for a day of the month.
type Task struct {
	ID          string   `json:"id"`
	Date        int      `json:"date"`
	Type        TaskType `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	IsCompleted bool     `json:"isCompleted"`
}

func (t Task) Key() string { return t.ID }

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title is required")
	}
	if !ValidDay(t.Date) {
		return fmt.Errorf("task date %d is not a day of month", t.Date)
	}
	if _, ok := ParseTaskType(string(t.Type)); !ok {
		return fmt.Errorf("unknown task type %q", t.Type)
	}
	return nil
}

// DaySchedule is the working plan for one day of the month. Date is the unique key.
type DaySchedule struct {
	Date      int    `json:"date"`
	IsWorking bool   `json:"isWorking"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	Note      string `json:"note,omitempty"`
}

func (d DaySchedule) Key() string { return fmt.Sprintf("%d", d.Date) }

func (d DaySchedule) Validate() error {
	if !ValidDay(d.Date) {
		return fmt.Errorf("schedule date %d is not a day of month", d.Date)
	}
	if !d.IsWorking && (d.StartTime != "" || d.EndTime != "") {
		return fmt.Errorf("day %d is off but has working hours", d.Date)
	}
	return nil
}

// GuideLevel grades reference guides.
type GuideLevel string

const (
	GuideNovice    GuideLevel = "Novice"
	GuideAdvanced  GuideLevel = "Advanced"
	GuideTechnical GuideLevel = "Technical"
)

// ParseGuideLevel matches s case-insensitively.
func ParseGuideLevel(s string) (GuideLevel, bool) {
	for _, l := range []GuideLevel{GuideNovice, GuideAdvanced, GuideTechnical} {
		if strings.EqualFold(string(l), strings.TrimSpace(s)) {
			return l, true
		}
	}
	return "", false
}

// Guide is a piece of static reference content.
type Guide struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Content string     `json:"content"`
	Level   GuideLevel `json:"level"`
}

func (g Guide) Key() string { return g.ID }

func (g Guide) Validate() error {
	if strings.TrimSpace(g.Title) == "" || strings.TrimSpace(g.Content) == "" {
		return fmt.Errorf("guide title and content are required")
	}
	if _, ok := ParseGuideLevel(string(g.Level)); !ok {
		return fmt.Errorf("unknown guide level %q", g.Level)
	}
	return nil
}

// Credential is a saved platform login, stored in plaintext.
type Credential struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Credentials maps platforms to saved logins.
type Credentials map[PlatformName]Credential

// ValidDay reports whether d is a day of month.
func ValidDay(d int) bool { return d >= 1 && d <= 31 }
