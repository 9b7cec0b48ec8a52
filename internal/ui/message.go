package ui

import (
	"time"

	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/studio"
)

// stateLoadedMsg carries the persisted shift state read at startup and after each shift.
type stateLoadedMsg struct {
	active models.Shift
	ok     bool
	stats  studio.OperatorStats
	err    error
}

type shiftStartedMsg struct {
	shift models.Shift
	err   error
}

// tickMsg re-renders the running timer.
type tickMsg time.Time

type progressUpdateMsg studio.ProgressUpdate

type shiftEndedMsg struct {
	shift models.Shift
	err   error
}

type historyLoadedMsg struct {
	shifts []models.Shift
	err    error
}

type reportLoadedMsg struct {
	text string
	err  error
}

type sharedMsg struct {
	target string
	err    error
}
