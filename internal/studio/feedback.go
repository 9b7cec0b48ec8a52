package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/shared"
)

// Feedback substituted when no summary can be produced.
const (
	FeedbackNoKey = "AI ключ не найден. Анализ недоступен."
	FeedbackError = "Смена сохранена. Отдыхайте!"
	FeedbackEmpty = "Смена проанализирована. Отличная работа!"
)

// DefaultFeedbackTimeout bounds a summary request when the manager is not given one.
const DefaultFeedbackTimeout = 20 * time.Second

// FeedbackRequest is the structured input for a shift summary.
type FeedbackRequest struct {
	OperatorName    string // Display name snapshot from the shift
	DurationHours   string // (end - start) in hours, two decimals
	TotalTokens     int
	PlatformSummary string // "Name: N тк" for each active platform, joined by ", "
}

// Summarizer produces a short narrative comment on a completed shift.
//
// Implementations return [shared.ErrMissingCredentials] when they are not configured.
type Summarizer interface {
	Summarize(ctx context.Context, req FeedbackRequest) (string, error)
}

// SummarizerFunc adapts a function to [Summarizer].
type SummarizerFunc func(ctx context.Context, req FeedbackRequest) (string, error)

func (f SummarizerFunc) Summarize(ctx context.Context, req FeedbackRequest) (string, error) {
	return f(ctx, req)
}

// NewFeedbackRequest describes a completed shift.
func NewFeedbackRequest(shift models.Shift) FeedbackRequest {
	return FeedbackRequest{
		OperatorName:    shift.UserName,
		DurationHours:   FormatHours(shift.Duration()),
		TotalTokens:     shift.TotalTokens,
		PlatformSummary: PlatformSummary(shift),
	}
}

// PlatformSummary lists the active platforms of shift as "Name: N тк".
func PlatformSummary(shift models.Shift) string {
	parts := make([]string, 0, len(shift.Platforms))
	for _, p := range shift.ActivePlatforms() {
		parts = append(parts, fmt.Sprintf("%s: %d тк", p.Name, p.TokensEarned))
	}
	return strings.Join(parts, ", ")
}

// FormatHours renders d in hours with two decimals, computed from whole milliseconds.
func FormatHours(d time.Duration) string {
	return fmt.Sprintf("%.2f", float64(d.Milliseconds())/3600000)
}

// Summarize asks s for feedback on req and always returns usable text.
//
// The call is bounded by timeout. A nil summarizer or one reporting missing credentials yields
// [FeedbackNoKey]; errors and timeouts yield [FeedbackError]; a blank answer yields [FeedbackEmpty].
func Summarize(ctx context.Context, s Summarizer, req FeedbackRequest, timeout time.Duration, logger *log.Logger) string {
	if s == nil {
		return FeedbackNoKey
	}
	if timeout <= 0 {
		timeout = DefaultFeedbackTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type answer struct {
		text string
		err  error
	}
	done := make(chan answer, 1)
	go func() {
		text, err := s.Summarize(ctx, req)
		done <- answer{text: text, err: err}
	}()

	var got answer
	select {
	case got = <-done:
	case <-ctx.Done():
		got = answer{err: fmt.Errorf("%w: %v", shared.ErrTimeout, ctx.Err())}
	}

	switch {
	case errors.Is(got.err, shared.ErrMissingCredentials):
		return FeedbackNoKey
	case got.err != nil:
		if logger != nil {
			logger.Warn("feedback unavailable", "error", got.err)
		}
		return FeedbackError
	case strings.TrimSpace(got.text) == "":
		return FeedbackEmpty
	default:
		return strings.TrimSpace(got.text)
	}
}
