package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestPlatforms(t *testing.T) {
	t.Run("canonical order", func(t *testing.T) {
		want := []PlatformName{Chaturbate, Stripchat, CamSoda, Cum4K, Jasmin}
		got := PlatformNames()
		if len(got) != len(want) {
			t.Fatalf("expected %d platforms, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
			}
			if got[i].Index() != i {
				t.Errorf("%s.Index() = %d, want %d", got[i], got[i].Index(), i)
			}
		}
	})

	t.Run("ParsePlatformName", func(t *testing.T) {
		tc := []struct {
			in   string
			want PlatformName
			ok   bool
		}{
			{in: "chaturbate", want: Chaturbate, ok: true},
			{in: "  Stripchat ", want: Stripchat, ok: true},
			{in: "cam4", want: Cum4K, ok: true},
			{in: "CUM4K", want: Cum4K, ok: true},
			{in: "onlyfans", ok: false},
			{in: "", ok: false},
		}

		for _, tt := range tc {
			t.Run(tt.in, func(t *testing.T) {
				got, ok := ParsePlatformName(tt.in)
				if ok != tt.ok || got != tt.want {
					t.Errorf("ParsePlatformName(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
				}
			})
		}
	})

	t.Run("Rates", func(t *testing.T) {
		rates := DefaultRates()
		if rates.Rate(Cum4K) != 0.10 {
			t.Errorf("expected Cum4K rate 0.10, got %v", rates.Rate(Cum4K))
		}
		if rates.Rate(Chaturbate) != 0.05 {
			t.Errorf("expected Chaturbate rate 0.05, got %v", rates.Rate(Chaturbate))
		}
		if rates.Rate("Unknown") != BaselineRate {
			t.Errorf("expected baseline for unknown platform, got %v", rates.Rate("Unknown"))
		}

		var zero Rates
		if zero.Rate(Cum4K) != 0.10 || zero.Rate("Unknown") != BaselineRate {
			t.Errorf("zero Rates should answer catalog rates, got %v", zero.Rate(Cum4K))
		}

		custom := NewRates(0.08, map[string]float64{"jasmin": 0.2, "nope": 1, "Stripchat": -1})
		if custom.Rate(Jasmin) != 0.2 {
			t.Errorf("expected override 0.2, got %v", custom.Rate(Jasmin))
		}
		if custom.Rate(Stripchat) != 0.05 {
			t.Errorf("negative override should be ignored, got %v", custom.Rate(Stripchat))
		}
		if custom.Rate("Other") != 0.08 {
			t.Errorf("expected configured fallback 0.08, got %v", custom.Rate("Other"))
		}

		with := rates.With(Chaturbate, 1)
		if with.Rate(Chaturbate) != 1 || rates.Rate(Chaturbate) != 0.05 {
			t.Error("With should not mutate the receiver")
		}
	})
}

func TestShiftJSON(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	end := start.Add(90 * time.Minute)

	t.Run("completed shift uses millisecond timestamps", func(t *testing.T) {
		shift := Shift{
			ID:        "s1",
			UserID:    "42",
			UserName:  "Alice",
			StartTime: start,
			EndTime:   &end,
			Platforms: []PlatformMetric{
				{Name: Chaturbate, IsActive: true, TokensEarned: 300},
				{Name: Stripchat, IsActive: false},
			},
			TotalTokens: 300,
			Status:      ShiftCompleted,
			AIFeedback:  "ok",
		}

		data, err := json.Marshal(shift)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		for _, want := range []string{`"startTime":1700000000000`, `"endTime":1700005400000`, `"isActive":true`, `"aiFeedback":"ok"`, `"status":"completed"`} {
			if !strings.Contains(string(data), want) {
				t.Errorf("expected %s in %s", want, data)
			}
		}

		var decoded Shift
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}
		if !decoded.StartTime.Equal(start) || decoded.EndTime == nil || !decoded.EndTime.Equal(end) {
			t.Errorf("timestamps did not survive: %v - %v", decoded.StartTime, decoded.EndTime)
		}
		if decoded.Duration() != 90*time.Minute {
			t.Errorf("expected 90m duration, got %v", decoded.Duration())
		}
	})

	t.Run("active shift omits end time and feedback", func(t *testing.T) {
		data, err := json.Marshal(Shift{ID: "s2", StartTime: start, Status: ShiftActive})
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if strings.Contains(string(data), "endTime") || strings.Contains(string(data), "aiFeedback") {
			t.Errorf("active shift should omit endTime and aiFeedback: %s", data)
		}
		if !strings.Contains(string(data), `"platforms":[]`) {
			t.Errorf("expected empty platform list, got %s", data)
		}
	})
}

func TestShiftValidate(t *testing.T) {
	start := time.UnixMilli(1_700_000_000_000)
	end := start.Add(time.Hour)
	before := start.Add(-time.Second)

	valid := Shift{
		ID:          "s1",
		StartTime:   start,
		EndTime:     &end,
		Status:      ShiftCompleted,
		TotalTokens: 10,
		Platforms: []PlatformMetric{
			{Name: Chaturbate, IsActive: true, TokensEarned: 10},
			{Name: Jasmin},
		},
	}

	tc := []struct {
		name    string
		mutate  func(s *Shift)
		wantErr bool
	}{
		{name: "valid", mutate: func(s *Shift) {}},
		{name: "missing id", mutate: func(s *Shift) { s.ID = "" }, wantErr: true},
		{name: "total mismatch", mutate: func(s *Shift) { s.TotalTokens = 11 }, wantErr: true},
		{name: "inactive with tokens", mutate: func(s *Shift) { s.Platforms[1].TokensEarned = 1; s.TotalTokens = 11 }, wantErr: true},
		{name: "ends before start", mutate: func(s *Shift) { s.EndTime = &before }, wantErr: true},
		{name: "completed without end", mutate: func(s *Shift) { s.EndTime = nil }, wantErr: true},
		{name: "active with end", mutate: func(s *Shift) { s.Status = ShiftActive }, wantErr: true},
		{name: "unknown status", mutate: func(s *Shift) { s.Status = "paused" }, wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			shift := valid.Clone()
			tt.mutate(&shift)
			err := shift.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestShiftClone(t *testing.T) {
	end := time.Now()
	original := Shift{ID: "s1", EndTime: &end, Platforms: []PlatformMetric{{Name: Chaturbate, IsActive: true}}}
	clone := original.Clone()
	clone.Platforms[0].TokensEarned = 99
	*clone.EndTime = end.Add(time.Hour)

	if original.Platforms[0].TokensEarned != 0 {
		t.Error("clone shares platform slice with original")
	}
	if !original.EndTime.Equal(end) {
		t.Error("clone shares end time with original")
	}
}

func TestPlanningValidate(t *testing.T) {
	t.Run("task", func(t *testing.T) {
		if err := (Task{ID: "1", Date: 3, Type: TaskPhoto, Title: "Shoot"}).Validate(); err != nil {
			t.Errorf("expected valid task: %v", err)
		}
		if err := (Task{ID: "1", Date: 3, Type: TaskPhoto, Title: "  "}).Validate(); err == nil {
			t.Error("expected blank title to be rejected")
		}
		if err := (Task{ID: "1", Date: 32, Type: TaskPhoto, Title: "x"}).Validate(); err == nil {
			t.Error("expected day 32 to be rejected")
		}
	})

	t.Run("guide", func(t *testing.T) {
		if err := (Guide{ID: "1", Title: "t", Content: "c", Level: GuideAdvanced}).Validate(); err != nil {
			t.Errorf("expected valid guide: %v", err)
		}
		if err := (Guide{ID: "1", Title: "t", Level: GuideAdvanced}).Validate(); err == nil {
			t.Error("expected missing content to be rejected")
		}
	})

	t.Run("schedule", func(t *testing.T) {
		if err := (DaySchedule{Date: 25, StartTime: "18:00"}).Validate(); err == nil {
			t.Error("expected hours on a day off to be rejected")
		}
	})

	t.Run("seeds are valid", func(t *testing.T) {
		for _, task := range SeedTasks() {
			if err := task.Validate(); err != nil {
				t.Errorf("seed task %s: %v", task.ID, err)
			}
		}
		for _, day := range SeedSchedule() {
			if err := day.Validate(); err != nil {
				t.Errorf("seed day %d: %v", day.Date, err)
			}
		}
		for _, guide := range SeedGuides() {
			if err := guide.Validate(); err != nil {
				t.Errorf("seed guide %s: %v", guide.ID, err)
			}
		}
	})
}

func TestRole(t *testing.T) {
	if ParseRole("admin") != RoleAdmin || ParseRole("garbage") != RoleOperator || ParseRole("") != RoleOperator {
		t.Error("ParseRole should default to operator")
	}
	if RoleOperator.Toggle() != RoleAdmin || RoleAdmin.Toggle() != RoleOperator {
		t.Error("Toggle should flip roles")
	}
}
