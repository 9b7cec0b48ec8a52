// package services connects the studio to outside systems: text generation,
// the messaging host and the remote object store.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Sharer hands a report to a destination outside the app.
type Sharer interface {
	// Share delivers text. Returns an error if the destination refused it or is unreachable.
	Share(ctx context.Context, text string) error

	// Name returns the destination name (e.g., "telegram-link", "telegram-bot").
	Name() string
}

// WriterSharer prints reports to a writer, the fallback outside the messaging host.
type WriterSharer struct {
	w io.Writer
}

// NewWriterSharer creates a sharer that prints to w.
func NewWriterSharer(w io.Writer) *WriterSharer {
	return &WriterSharer{w: w}
}

func (s *WriterSharer) Share(_ context.Context, text string) error {
	if _, err := fmt.Fprintln(s.w, text); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (s *WriterSharer) Name() string { return "local" }

// FallbackSharer tries Primary and, when it fails, delivers through Fallback instead.
type FallbackSharer struct {
	Primary  Sharer
	Fallback Sharer
	Logger   *log.Logger
}

func (s *FallbackSharer) Share(ctx context.Context, text string) error {
	if s.Primary == nil {
		return s.Fallback.Share(ctx, text)
	}

	err := s.Primary.Share(ctx, text)
	if err == nil || s.Fallback == nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Warn("share failed, falling back", "target", s.Primary.Name(), "fallback", s.Fallback.Name(), "error", err)
	}
	if ferr := s.Fallback.Share(ctx, text); ferr != nil {
		return errors.Join(err, ferr)
	}
	return nil
}

func (s *FallbackSharer) Name() string {
	if s.Primary == nil {
		return s.Fallback.Name()
	}
	return s.Primary.Name()
}
