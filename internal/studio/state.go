package studio

import (
	"fmt"
	"time"

	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/shared"
)

// State is an immutable snapshot of the shift history and the active pointer.
//
// Transitions never modify the receiver; they return a new State sharing no mutable data with it.
type State struct {
	Shifts   []models.Shift
	ActiveID string
}

// Active returns the shift referenced by ActiveID when it exists and is still active.
func (s State) Active() (models.Shift, bool) {
	if s.ActiveID == "" {
		return models.Shift{}, false
	}
	shift, _, ok := s.find(s.ActiveID)
	if !ok || !shift.IsActive() {
		return models.Shift{}, false
	}
	return shift.Clone(), true
}

// Dangling reports whether ActiveID is set but does not resolve to an active shift.
func (s State) Dangling() bool {
	_, ok := s.Active()
	return s.ActiveID != "" && !ok
}

// Clean returns s with a dangling active pointer cleared.
func (s State) Clean() State {
	if !s.Dangling() {
		return s
	}
	return State{Shifts: s.cloneShifts(), ActiveID: ""}
}

// Start appends shift and makes it the active one.
func (s State) Start(shift models.Shift) (State, error) {
	if _, ok := s.Active(); ok {
		return s, shared.ErrShiftActive
	}
	if !shift.IsActive() {
		return s, fmt.Errorf("%w: shift %s is not active", shared.ErrInvalidInput, shift.ID)
	}
	if _, _, exists := s.find(shift.ID); exists {
		return s, fmt.Errorf("%w: duplicate shift id %s", shared.ErrInvalidInput, shift.ID)
	}

	shifts := append(s.cloneShifts(), shift.Clone())
	return State{Shifts: shifts, ActiveID: shift.ID}, nil
}

// Complete replaces the active shift with its completed version and clears the pointer.
func (s State) Complete(done models.Shift) (State, error) {
	active, ok := s.Active()
	if !ok {
		return s, shared.ErrNoActiveShift
	}
	if active.ID != done.ID {
		return s, fmt.Errorf("%w: shift %s is not the active shift", shared.ErrShiftNotFound, done.ID)
	}
	if !done.IsCompleted() {
		return s, fmt.Errorf("%w: shift %s is not completed", shared.ErrInvalidInput, done.ID)
	}

	_, idx, _ := s.find(done.ID)
	shifts := s.cloneShifts()
	shifts[idx] = done.Clone()
	return State{Shifts: shifts}, nil
}

// Completed returns the completed shifts, newest start first.
func (s State) Completed() []models.Shift {
	return completedNewestFirst(s.Shifts)
}

func (s State) find(id string) (models.Shift, int, bool) {
	for i, shift := range s.Shifts {
		if shift.ID == id {
			return shift, i, true
		}
	}
	return models.Shift{}, -1, false
}

func (s State) cloneShifts() []models.Shift {
	out := make([]models.Shift, len(s.Shifts))
	for i, shift := range s.Shifts {
		out[i] = shift.Clone()
	}
	return out
}

// NewShift builds an active shift for user with one metric per known platform, in canonical order.
//
// Unknown names in selected are ignored; [shared.ErrNoPlatforms] is returned when nothing known remains.
func NewShift(id string, user models.User, selected []models.PlatformName, now time.Time) (models.Shift, error) {
	chosen := make(map[models.PlatformName]bool, len(selected))
	for _, name := range selected {
		if name.Valid() {
			chosen[name] = true
		}
	}
	if len(chosen) == 0 {
		return models.Shift{}, shared.ErrNoPlatforms
	}

	names := models.PlatformNames()
	metrics := make([]models.PlatformMetric, len(names))
	for i, name := range names {
		metrics[i] = models.PlatformMetric{Name: name, IsActive: chosen[name]}
	}

	userName := user.FirstName
	if userName == "" {
		userName = user.Username
	}

	return models.Shift{
		ID:        id,
		UserID:    user.ID,
		UserName:  userName,
		StartTime: now,
		Platforms: metrics,
		Status:    models.ShiftActive,
	}, nil
}

// CloseShift returns the completed form of active: tokens applied to active platforms only,
// total recomputed, end time set to now (never before the start). Feedback is left empty.
func CloseShift(active models.Shift, tokens map[models.PlatformName]int, now time.Time) (models.Shift, error) {
	if !active.IsActive() {
		return models.Shift{}, shared.ErrNoActiveShift
	}

	done := active.Clone()
	for i, p := range done.Platforms {
		earned := 0
		if p.IsActive {
			earned = max(tokens[p.Name], 0)
		}
		done.Platforms[i].TokensEarned = earned
	}
	done.TotalTokens = done.SumTokens()

	end := now
	if end.Before(done.StartTime) {
		end = done.StartTime
	}
	done.EndTime = &end
	done.Status = models.ShiftCompleted
	done.AIFeedback = ""

	return done, nil
}
