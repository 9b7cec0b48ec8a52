package studio

import (
	"sort"
	"time"

	"github.com/desertthunder/prima/internal/models"
)

// PlatformTotal is the aggregated earnings of one platform.
type PlatformTotal struct {
	Name    models.PlatformName `json:"name" yaml:"name"`
	Tokens  int                 `json:"tokens" yaml:"tokens"`
	Revenue float64             `json:"revenue" yaml:"revenue"`
}

// StudioTotals is the administrator's view over all completed shifts.
type StudioTotals struct {
	TotalTokens    int             `json:"totalTokens" yaml:"total_tokens"`
	CompletedCount int             `json:"completedShifts" yaml:"completed_shifts"`
	Revenue        float64         `json:"revenue" yaml:"revenue"`
	Platforms      []PlatformTotal `json:"platforms" yaml:"platforms"` // canonical order, only platforms that were worked
}

// Top returns the platform with the most tokens. Ties go to the earlier platform in canonical order.
func (t StudioTotals) Top() (PlatformTotal, bool) {
	var (
		best  PlatformTotal
		found bool
	)
	for _, p := range t.Platforms {
		if !found || p.Tokens > best.Tokens {
			best, found = p, true
		}
	}
	return best, found
}

// Breakdown returns the per-platform token sums keyed by name.
func (t StudioTotals) Breakdown() map[models.PlatformName]int {
	out := make(map[models.PlatformName]int, len(t.Platforms))
	for _, p := range t.Platforms {
		out[p.Name] = p.Tokens
	}
	return out
}

// ShiftRevenue converts the tokens of a shift to currency: Σ tokensEarned × rate(name).
func ShiftRevenue(shift models.Shift, rates models.Rates) float64 {
	total := 0.0
	for _, p := range shift.Platforms {
		total += float64(p.TokensEarned) * rates.Rate(p.Name)
	}
	return total
}

// Totals aggregates the completed shifts. Active shifts are ignored, as are inactive platform entries.
func Totals(shifts []models.Shift, rates models.Rates) StudioTotals {
	var totals StudioTotals

	sums := make(map[models.PlatformName]int)
	worked := make(map[models.PlatformName]bool)
	var unknown []models.PlatformName

	for _, shift := range shifts {
		if !shift.IsCompleted() {
			continue
		}
		totals.CompletedCount++
		totals.TotalTokens += shift.TotalTokens
		totals.Revenue += ShiftRevenue(shift, rates)

		for _, p := range shift.Platforms {
			if !p.IsActive {
				continue
			}
			if !worked[p.Name] && !p.Name.Valid() {
				unknown = append(unknown, p.Name)
			}
			worked[p.Name] = true
			sums[p.Name] += p.TokensEarned
		}
	}

	order := append(models.PlatformNames(), unknown...)
	for _, name := range order {
		if !worked[name] {
			continue
		}
		totals.Platforms = append(totals.Platforms, PlatformTotal{
			Name:    name,
			Tokens:  sums[name],
			Revenue: float64(sums[name]) * rates.Rate(name),
		})
	}

	return totals
}

// TopPlatform returns the best earning platform over the completed shifts.
func TopPlatform(shifts []models.Shift) (models.PlatformName, int, bool) {
	top, ok := Totals(shifts, models.DefaultRates()).Top()
	return top.Name, top.Tokens, ok
}

// OperatorStats is the operator dashboard summary.
type OperatorStats struct {
	CompletedCount int           `json:"completedShifts" yaml:"completed_shifts"`
	TotalTokens    int           `json:"totalTokens" yaml:"total_tokens"`
	Revenue        float64       `json:"revenue" yaml:"revenue"`
	TotalHours     float64       `json:"totalHours" yaml:"total_hours"`
	LastFeedback   string        `json:"lastFeedback,omitempty" yaml:"last_feedback,omitempty"`
	LastShift      *models.Shift `json:"lastShift,omitempty" yaml:"-"`
}

// Stats summarises the completed shifts for the operator dashboard.
func Stats(shifts []models.Shift, rates models.Rates) OperatorStats {
	completed := completedNewestFirst(shifts)

	var (
		stats OperatorStats
		hours time.Duration
	)
	for _, shift := range completed {
		stats.CompletedCount++
		stats.TotalTokens += shift.TotalTokens
		stats.Revenue += ShiftRevenue(shift, rates)
		hours += shift.Duration()
	}
	stats.TotalHours = hours.Hours()

	if len(completed) > 0 {
		last := completed[0]
		stats.LastShift = &last
		stats.LastFeedback = last.AIFeedback
	}

	return stats
}

// completedNewestFirst returns copies of the completed shifts ordered by start time, latest first.
func completedNewestFirst(shifts []models.Shift) []models.Shift {
	out := make([]models.Shift, 0, len(shifts))
	for _, shift := range shifts {
		if shift.IsCompleted() {
			out = append(out, shift.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.After(out[j].StartTime)
	})
	return out
}
