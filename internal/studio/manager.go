package studio

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/shared"
)

// ShiftStore persists the shift history and the active pointer.
type ShiftStore interface {
	Load() ([]models.Shift, error)
	ActiveID() (string, error)
	Commit(shifts []models.Shift, activeID string) error // Commit writes both values atomically
}

// ManagerOpts configures a [Manager]. Only Store is required.
type ManagerOpts struct {
	Store      ShiftStore
	Summarizer Summarizer
	Rates      models.Rates
	Timeout    time.Duration    // Bound on a feedback request (default: 20s)
	Clock      func() time.Time // Defaults to time.Now
	NewID      func() string    // Defaults to shared.GenerateID
	Logger     *log.Logger
}

// Manager owns the shift lifecycle: start, tick, end.
//
// Every operation loads a [State] snapshot from the store, applies a transition and commits the result.
// Operations are serialised, so a second End racing the first is rejected with [shared.ErrNoActiveShift].
type Manager struct {
	mu         sync.Mutex
	store      ShiftStore
	summarizer Summarizer
	rates      models.Rates
	timeout    time.Duration
	clock      func() time.Time
	newID      func() string
	logger     *log.Logger

	active atomic.Value // string: last known active shift id
}

// NewManager creates a Manager from opts.
func NewManager(opts ManagerOpts) *Manager {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultFeedbackTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = shared.GenerateID
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	m := &Manager{
		store:      opts.Store,
		summarizer: opts.Summarizer,
		rates:      opts.Rates,
		timeout:    opts.Timeout,
		clock:      opts.Clock,
		newID:      opts.NewID,
		logger:     opts.Logger,
	}
	m.active.Store("")
	return m
}

// Rates returns the conversion rates used for revenue.
func (m *Manager) Rates() models.Rates { return m.rates }

// Snapshot returns the current state. A dangling active pointer is cleared and persisted first.
func (m *Manager) Snapshot() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load()
}

func (m *Manager) load() (State, error) {
	shifts, err := m.store.Load()
	if err != nil {
		return State{}, fmt.Errorf("failed to load shifts: %w", err)
	}
	activeID, err := m.store.ActiveID()
	if err != nil {
		return State{}, fmt.Errorf("failed to load active shift: %w", err)
	}

	state := State{Shifts: shifts, ActiveID: activeID}
	if state.Dangling() {
		m.logger.Warn("clearing dangling active shift", "id", activeID)
		state = state.Clean()
		if err := m.commit(state); err != nil {
			return State{}, err
		}
	}

	m.active.Store(state.ActiveID)
	return state, nil
}

func (m *Manager) commit(state State) error {
	if err := m.store.Commit(state.Shifts, state.ActiveID); err != nil {
		return fmt.Errorf("failed to save shifts: %w", err)
	}
	m.active.Store(state.ActiveID)
	return nil
}

// Start opens a shift for user on the selected platforms.
//
// Returns [shared.ErrNoPlatforms] when no known platform is selected and [shared.ErrShiftActive]
// when a shift is already running; neither changes stored state.
func (m *Manager) Start(user models.User, selected []models.PlatformName) (models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.load()
	if err != nil {
		return models.Shift{}, err
	}
	if _, ok := state.Active(); ok {
		return models.Shift{}, shared.ErrShiftActive
	}

	shift, err := NewShift(m.newID(), user, selected, m.clock())
	if err != nil {
		return models.Shift{}, err
	}

	next, err := state.Start(shift)
	if err != nil {
		return models.Shift{}, err
	}
	if err := m.commit(next); err != nil {
		return models.Shift{}, err
	}

	m.logger.Info("shift started", "id", shift.ID, "user", shift.UserName, "platforms", len(shift.ActivePlatforms()))
	return shift, nil
}

// Current returns the active shift, if any.
func (m *Manager) Current() (models.Shift, bool, error) {
	state, err := m.Snapshot()
	if err != nil {
		return models.Shift{}, false, err
	}
	shift, ok := state.Active()
	return shift, ok, nil
}

// Tick returns the elapsed time of the active shift.
func (m *Manager) Tick() (time.Duration, bool, error) {
	shift, ok, err := m.Current()
	if err != nil || !ok {
		return 0, false, err
	}
	return Elapsed(shift, m.clock()), true, nil
}

// Watch starts a [Timer] on the active shift. The timer stops by itself once the shift ends,
// including when it is ended through another Manager on the same store.
func (m *Manager) Watch(ctx context.Context, interval time.Duration, onTick func(time.Duration)) (*Timer, error) {
	shift, ok, err := m.Current()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, shared.ErrNoActiveShift
	}

	return StartTimer(ctx, shift, interval, m.clock, func() bool { return m.stillActive(shift.ID) }, onTick), nil
}

// stillActive reports whether id is the active shift in the store. The store is read on every
// call because another process may end the shift; a failed read keeps the timer running.
func (m *Manager) stillActive(id string) bool {
	if m.active.Load().(string) != id {
		return false
	}
	activeID, err := m.store.ActiveID()
	if err != nil {
		m.logger.Warn("failed to check active shift", "error", err)
		return true
	}
	return activeID == id
}

// End completes the active shift with the given token counts.
//
// Tokens for platforms that were not selected are ignored. Feedback is requested from the
// summarizer and always set, falling back to a fixed text. Progress is reported on progress
// without blocking; it may be nil.
func (m *Manager) End(ctx context.Context, tokens map[models.PlatformName]int, progress chan<- ProgressUpdate) (models.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.load()
	if err != nil {
		return models.Shift{}, err
	}
	active, ok := state.Active()
	if !ok {
		return models.Shift{}, shared.ErrNoActiveShift
	}

	sendProgress(progress, closingUpdate())
	done, err := CloseShift(active, tokens, m.clock())
	if err != nil {
		return models.Shift{}, err
	}

	sendProgress(progress, summarizingUpdate(done.Duration()))
	done.AIFeedback = Summarize(ctx, m.summarizer, NewFeedbackRequest(done), m.timeout, m.logger)

	sendProgress(progress, savingUpdate(done.Duration()))
	next, err := state.Complete(done)
	if err != nil {
		return models.Shift{}, err
	}
	if err := m.commit(next); err != nil {
		return models.Shift{}, err
	}

	sendProgress(progress, doneUpdate(done.Duration()))
	m.logger.Info("shift completed", "id", done.ID, "tokens", done.TotalTokens, "hours", FormatHours(done.Duration()))
	return done, nil
}

// EndRaw is [Manager.End] for form input: values are parsed with [ParseTokens].
func (m *Manager) EndRaw(ctx context.Context, raw map[string]string, progress chan<- ProgressUpdate) (models.Shift, error) {
	return m.End(ctx, ParseEntries(raw), progress)
}

// History returns the completed shifts, newest first.
func (m *Manager) History() ([]models.Shift, error) {
	state, err := m.Snapshot()
	if err != nil {
		return nil, err
	}
	return state.Completed(), nil
}

// Totals aggregates every completed shift for the administrator view.
func (m *Manager) Totals() (StudioTotals, error) {
	state, err := m.Snapshot()
	if err != nil {
		return StudioTotals{}, err
	}
	return Totals(state.Shifts, m.rates), nil
}

// Stats summarises the completed shifts for the operator dashboard.
func (m *Manager) Stats() (OperatorStats, error) {
	state, err := m.Snapshot()
	if err != nil {
		return OperatorStats{}, err
	}
	return Stats(state.Shifts, m.rates), nil
}
