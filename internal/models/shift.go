package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ShiftStatus is the lifecycle state of a [Shift]. Transitions only go from active to completed.
type ShiftStatus string

const (
	ShiftActive    ShiftStatus = "active"
	ShiftCompleted ShiftStatus = "completed"
)

// PlatformMetric records earnings on one platform within a shift.
type PlatformMetric struct {
	Name         PlatformName `json:"name"`
	IsActive     bool         `json:"isActive"`
	TokensEarned int          `json:"tokensEarned"`
}

// Shift is one timed work session for an operator across one or more platforms.
//
// UserID and UserName are a snapshot taken when the shift starts.
type Shift struct {
	ID          string
	UserID      string
	UserName    string
	StartTime   time.Time
	EndTime     *time.Time
	Platforms   []PlatformMetric
	TotalTokens int
	Status      ShiftStatus
	AIFeedback  string
}

// shiftJSON is the stored layout: Unix millisecond timestamps, optional end time and feedback.
type shiftJSON struct {
	ID          string           `json:"id"`
	UserID      string           `json:"userId"`
	UserName    string           `json:"userName"`
	StartTime   int64            `json:"startTime"`
	EndTime     *int64           `json:"endTime,omitempty"`
	Platforms   []PlatformMetric `json:"platforms"`
	TotalTokens int              `json:"totalTokens"`
	AIFeedback  string           `json:"aiFeedback,omitempty"`
	Status      ShiftStatus      `json:"status"`
}

func (s Shift) MarshalJSON() ([]byte, error) {
	out := shiftJSON{
		ID:          s.ID,
		UserID:      s.UserID,
		UserName:    s.UserName,
		StartTime:   s.StartTime.UnixMilli(),
		Platforms:   s.Platforms,
		TotalTokens: s.TotalTokens,
		AIFeedback:  s.AIFeedback,
		Status:      s.Status,
	}
	if out.Platforms == nil {
		out.Platforms = []PlatformMetric{}
	}
	if s.EndTime != nil {
		ms := s.EndTime.UnixMilli()
		out.EndTime = &ms
	}
	return json.Marshal(out)
}

func (s *Shift) UnmarshalJSON(data []byte) error {
	var in shiftJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*s = Shift{
		ID:          in.ID,
		UserID:      in.UserID,
		UserName:    in.UserName,
		StartTime:   time.UnixMilli(in.StartTime),
		Platforms:   in.Platforms,
		TotalTokens: in.TotalTokens,
		AIFeedback:  in.AIFeedback,
		Status:      in.Status,
	}
	if in.EndTime != nil {
		end := time.UnixMilli(*in.EndTime)
		s.EndTime = &end
	}
	return nil
}

func (s Shift) Key() string { return s.ID }

func (s Shift) IsActive() bool    { return s.Status == ShiftActive }
func (s Shift) IsCompleted() bool { return s.Status == ShiftCompleted }

// Duration returns EndTime - StartTime, or zero while the shift is still running.
func (s Shift) Duration() time.Duration {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// ActivePlatforms returns the metrics the operator selected, in shift order.
func (s Shift) ActivePlatforms() []PlatformMetric {
	var active []PlatformMetric
	for _, p := range s.Platforms {
		if p.IsActive {
			active = append(active, p)
		}
	}
	return active
}

// SumTokens returns the sum of tokensEarned over all platforms.
func (s Shift) SumTokens() int {
	total := 0
	for _, p := range s.Platforms {
		total += p.TokensEarned
	}
	return total
}

// Clone returns a deep copy, so callers can derive a new snapshot without aliasing the platform slice or end time.
func (s Shift) Clone() Shift {
	out := s
	if s.Platforms != nil {
		out.Platforms = make([]PlatformMetric, len(s.Platforms))
		copy(out.Platforms, s.Platforms)
	}
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	return out
}

// Validate checks the shift invariants.
func (s Shift) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("shift id is required")
	}

	switch s.Status {
	case ShiftActive:
		if s.EndTime != nil {
			return fmt.Errorf("active shift %s has an end time", s.ID)
		}
		if s.AIFeedback != "" {
			return fmt.Errorf("active shift %s has feedback", s.ID)
		}
	case ShiftCompleted:
		if s.EndTime == nil {
			return fmt.Errorf("completed shift %s has no end time", s.ID)
		}
		if s.EndTime.Before(s.StartTime) {
			return fmt.Errorf("shift %s ends before it starts", s.ID)
		}
	default:
		return fmt.Errorf("shift %s has unknown status %q", s.ID, s.Status)
	}

	for _, p := range s.Platforms {
		if p.TokensEarned < 0 {
			return fmt.Errorf("shift %s: negative tokens on %s", s.ID, p.Name)
		}
		if !p.IsActive && p.TokensEarned != 0 {
			return fmt.Errorf("shift %s: inactive platform %s carries tokens", s.ID, p.Name)
		}
	}

	if s.TotalTokens != s.SumTokens() {
		return fmt.Errorf("shift %s: total %d does not match platform sum %d", s.ID, s.TotalTokens, s.SumTokens())
	}

	return nil
}
