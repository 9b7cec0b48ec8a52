package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/studio"
)

var _ list.Item = shiftItem{}

// shiftItem wraps a completed [models.Shift] to implement [list.Item].
type shiftItem struct {
	shift models.Shift
	rates models.Rates
}

func (i shiftItem) FilterValue() string { return i.shift.StartTime.Format("02.01.2006") }

func (i shiftItem) Title() string {
	return fmt.Sprintf("%s • %d tk • $%.2f",
		i.shift.StartTime.Format("02.01.2006 15:04"),
		i.shift.TotalTokens,
		studio.ShiftRevenue(i.shift, i.rates),
	)
}

func (i shiftItem) Description() string {
	names := make([]string, 0, len(i.shift.Platforms))
	for _, p := range i.shift.ActivePlatforms() {
		names = append(names, fmt.Sprintf("%s %d", p.Name, p.TokensEarned))
	}
	return fmt.Sprintf("%s ч • %s", studio.FormatHours(i.shift.Duration()), strings.Join(names, ", "))
}

func newHistoryList(shifts []models.Shift, rates models.Rates, width, height int) list.Model {
	items := make([]list.Item, len(shifts))
	for i, s := range shifts {
		items[i] = shiftItem{shift: s, rates: rates}
	}
	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "История смен"
	return l
}
