package ui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/shared"
	"github.com/desertthunder/prima/internal/studio"
	tu "github.com/desertthunder/prima/internal/testing"
)

var testStart = time.Date(2025, 11, 26, 18, 0, 0, 0, time.UTC)

var operator = models.User{ID: "42", Username: "alice", FirstName: "Alice", Role: models.RoleOperator}

type harness struct {
	model  *Model
	clock  *tu.Clock
	store  *tu.MemoryShiftStore
	sharer *tu.MockSharer
}

func newHarness(t *testing.T, user models.User) *harness {
	t.Helper()
	clock := tu.NewClock(testStart)
	store := &tu.MemoryShiftStore{}
	sharer := &tu.MockSharer{}
	manager := studio.NewManager(studio.ManagerOpts{
		Store:  store,
		Clock:  clock.Now,
		NewID:  tu.Sequence("shift"),
		Logger: shared.NewLogger(io.Discard),
	})
	m := NewModel(context.Background(), Options{
		Manager:    manager,
		User:       user,
		Sharer:     sharer,
		StudioName: "Prima",
		Clock:      clock.Now,
	})
	return &harness{model: m, clock: clock, store: store, sharer: sharer}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	space = tea.KeyMsg{Type: tea.KeySpace}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
)

// send delivers msg and returns the follow-up command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.model.Update(msg)
	return cmd
}

// run executes cmd and feeds its message back into the model.
func (h *harness) run(t *testing.T, cmd tea.Cmd) tea.Cmd {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return h.send(cmd())
}

func (h *harness) typeText(text string) {
	for _, r := range text {
		h.send(runes(string(r)))
	}
}

func (h *harness) expectView(t *testing.T, want ViewState) {
	t.Helper()
	if got := h.model.ViewState(); got != want {
		t.Fatalf("expected view %v, got %v", want, got)
	}
}

func expectContains(t *testing.T, s, want string) {
	t.Helper()
	if !strings.Contains(s, want) {
		t.Errorf("expected %q in:\n%s", want, s)
	}
}

func TestModelShiftFlow(t *testing.T) {
	h := newHarness(t, operator)

	h.run(t, h.model.Init())
	h.expectView(t, DashboardView)
	expectContains(t, h.model.View(), "Alice")

	t.Run("empty selection is rejected", func(t *testing.T) {
		h.send(runes("n"))
		h.expectView(t, SelectView)

		h.run(t, h.send(enter))
		h.expectView(t, SelectView)
		expectContains(t, h.model.View(), "Выберите хотя бы одну площадку")
		if h.store.Active != "" {
			t.Errorf("expected no active shift, got %s", h.store.Active)
		}
	})

	t.Run("start", func(t *testing.T) {
		h.send(space)
		for range 3 {
			h.send(down)
		}
		h.send(space)

		if tick := h.run(t, h.send(enter)); tick == nil {
			t.Error("expected the timer to tick")
		}
		h.expectView(t, TimerView)
		if h.store.Active != "shift-1" {
			t.Errorf("expected shift-1 active, got %s", h.store.Active)
		}
	})

	t.Run("tick", func(t *testing.T) {
		h.clock.Advance(90 * time.Minute)
		if next := h.send(tickMsg(h.clock.Now())); next == nil {
			t.Error("expected the next tick")
		}
		expectContains(t, h.model.View(), "01:30:00")
	})

	t.Run("end", func(t *testing.T) {
		h.send(runes("e"))
		h.expectView(t, TokenView)
		if len(h.model.inputs) != 2 {
			t.Fatalf("expected 2 token inputs, got %d", len(h.model.inputs))
		}

		h.typeText("450")
		h.send(tab)
		h.typeText("100")

		cmd := h.send(enter)
		h.expectView(t, ProgressView)
		for cmd != nil {
			cmd = h.run(t, cmd)
		}

		h.expectView(t, ResultView)
		if h.model.err != nil {
			t.Fatalf("expected no error, got %v", h.model.err)
		}
		if h.model.result.TotalTokens != 550 {
			t.Errorf("expected 550 tokens, got %d", h.model.result.TotalTokens)
		}
		if h.model.result.AIFeedback != studio.FeedbackNoKey {
			t.Errorf("unexpected feedback %q", h.model.result.AIFeedback)
		}
		if h.store.Active != "" {
			t.Errorf("expected the active marker cleared, got %s", h.store.Active)
		}

		view := h.model.View()
		expectContains(t, view, "Смена завершена")
		expectContains(t, view, "550 tk")
	})

	t.Run("back to dashboard", func(t *testing.T) {
		h.run(t, h.send(enter))
		h.expectView(t, DashboardView)
		if h.model.stats.CompletedCount != 1 || h.model.stats.TotalTokens != 550 {
			t.Errorf("unexpected stats %+v", h.model.stats)
		}
	})
}

func TestModelResumesActiveShift(t *testing.T) {
	h := newHarness(t, operator)
	if _, err := h.model.manager.Start(operator, []models.PlatformName{models.Jasmin}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	h.clock.Advance(10 * time.Second)

	if tick := h.run(t, h.model.Init()); tick == nil {
		t.Error("expected the timer to tick")
	}
	h.expectView(t, TimerView)
	expectContains(t, h.model.View(), "00:00:10")
	expectContains(t, h.model.View(), "Jasmin")
}

func TestModelTickStopsOutsideTimer(t *testing.T) {
	h := newHarness(t, operator)
	h.run(t, h.model.Init())

	if cmd := h.send(tickMsg(h.clock.Now())); cmd != nil {
		t.Error("expected no tick outside the timer view")
	}
}

func TestModelTokenViewBack(t *testing.T) {
	h := newHarness(t, operator)
	if _, err := h.model.manager.Start(operator, []models.PlatformName{models.Stripchat}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	h.run(t, h.model.Init())

	h.send(runes("e"))
	h.expectView(t, TokenView)
	h.typeText("q")
	h.expectView(t, TokenView)

	h.send(esc)
	h.expectView(t, TimerView)
	if h.store.Active != "shift-1" {
		t.Errorf("expected shift-1 still active, got %s", h.store.Active)
	}
}

func TestModelHistory(t *testing.T) {
	h := newHarness(t, operator)
	if _, err := h.model.manager.Start(operator, []models.PlatformName{models.Chaturbate}); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	h.clock.Advance(time.Hour)
	if _, err := h.model.manager.End(context.Background(), map[models.PlatformName]int{models.Chaturbate: 200}, nil); err != nil {
		t.Fatalf("end failed: %v", err)
	}

	h.run(t, h.model.Init())
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.run(t, h.send(runes("h")))
	h.expectView(t, HistoryView)
	if n := len(h.model.history.Items()); n != 1 {
		t.Errorf("expected 1 history item, got %d", n)
	}
	expectContains(t, h.model.View(), "200 tk")

	h.send(esc)
	h.expectView(t, DashboardView)
}

func TestModelReport(t *testing.T) {
	t.Run("operators have no report", func(t *testing.T) {
		h := newHarness(t, operator)
		h.run(t, h.model.Init())

		if cmd := h.send(runes("a")); cmd != nil {
			t.Error("expected no command for an operator")
		}
		h.expectView(t, DashboardView)
	})

	t.Run("admin report and share", func(t *testing.T) {
		admin := operator
		admin.Role = models.RoleAdmin
		h := newHarness(t, admin)
		h.run(t, h.model.Init())

		h.run(t, h.send(runes("a")))
		h.expectView(t, ReportView)
		expectContains(t, h.model.report, "ОТЧЕТ PRIMA")
		expectContains(t, h.model.report, "Нет данных")

		h.run(t, h.send(runes("s")))
		if len(h.sharer.Texts) != 1 || h.sharer.Texts[0] != h.model.report {
			t.Fatalf("expected the report shared once, got %v", h.sharer.Texts)
		}
		expectContains(t, h.model.View(), "mock")
	})

	t.Run("share failure is shown", func(t *testing.T) {
		admin := operator
		admin.Role = models.RoleAdmin
		h := newHarness(t, admin)
		h.sharer.Err = shared.ErrServiceUnavailable
		h.run(t, h.model.Init())
		h.run(t, h.send(runes("a")))

		h.run(t, h.send(runes("s")))
		expectContains(t, h.model.View(), "Не удалось отправить")
	})
}
