package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/prima/internal/formatter"
	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/services"
	"github.com/desertthunder/prima/internal/shared"
	"github.com/desertthunder/prima/internal/studio"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DashboardView ViewState = iota
	SelectView
	TimerView
	TokenView
	ProgressView
	ResultView
	HistoryView
	ReportView
)

// tickInterval is how often the running timer redraws.
const tickInterval = time.Second

// Options holds the dependencies of the TUI.
type Options struct {
	Manager    *studio.Manager
	User       models.User
	Sharer     services.Sharer // Optional; the report view hides sharing without one
	StudioName string
	Clock      func() time.Time
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	manager    *studio.Manager
	user       models.User
	sharer     services.Sharer
	studioName string
	clock      func() time.Time

	width  int
	height int

	cursor   int
	selected map[models.PlatformName]bool

	active  models.Shift
	elapsed time.Duration
	stats   studio.OperatorStats

	inputs []textinput.Model
	names  []models.PlatformName
	focus  int

	progressChan chan studio.ProgressUpdate
	doneChan     chan shiftEndedMsg
	progress     studio.ProgressUpdate
	result       models.Shift

	history list.Model
	report  string

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts Options) *Model {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Model{
		ctx:        ctx,
		view:       DashboardView,
		manager:    opts.Manager,
		user:       opts.User,
		sharer:     opts.Sharer,
		studioName: opts.StudioName,
		clock:      opts.Clock,
		selected:   make(map[models.PlatformName]bool),
		help:       help.New(),
		keys:       newKeyMap(),
	}
}

// ViewState returns the view being shown.
func (m *Model) ViewState() ViewState { return m.view }

// Init initializes the TUI by loading the persisted shift state.
func (m *Model) Init() tea.Cmd {
	return m.loadState()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.view == HistoryView {
			m.history.SetSize(msg.Width-4, msg.Height-6)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case DashboardView:
			return m.handleDashboardKeys(msg)
		case SelectView:
			return m.handleSelectKeys(msg)
		case TimerView:
			return m.handleTimerKeys(msg)
		case TokenView:
			return m.handleTokenKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case HistoryView:
			return m.handleHistoryKeys(msg)
		case ReportView:
			return m.handleReportKeys(msg)
		}
		return m, nil

	case stateLoadedMsg:
		m.err = msg.err
		m.stats = msg.stats
		if msg.ok {
			m.active = msg.active
			m.view = TimerView
			m.elapsed = studio.Elapsed(m.active, m.clock())
			return m, m.tick()
		}
		m.active = models.Shift{}
		m.view = DashboardView
		return m, nil

	case shiftStartedMsg:
		if msg.err != nil {
			m.status = describe(msg.err)
			return m, nil
		}
		m.status = ""
		m.active = msg.shift
		m.elapsed = 0
		m.view = TimerView
		return m, m.tick()

	case tickMsg:
		if m.active.IsActive() && (m.view == TimerView || m.view == TokenView) {
			m.elapsed = studio.Elapsed(m.active, m.clock())
			return m, m.tick()
		}
		return m, nil

	case progressUpdateMsg:
		m.progress = studio.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case shiftEndedMsg:
		m.progressChan, m.doneChan = nil, nil
		if msg.err != nil {
			m.err = msg.err
			m.view = ResultView
			return m, nil
		}
		m.result = msg.shift
		m.active = models.Shift{}
		m.view = ResultView
		return m, nil

	case historyLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.history = newHistoryList(msg.shifts, m.manager.Rates(), max(m.width-4, 20), max(m.height-6, 10))
		m.view = HistoryView
		return m, nil

	case reportLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.report = msg.text
		m.status = ""
		m.view = ReportView
		return m, nil

	case sharedMsg:
		if msg.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Не удалось отправить: %v", msg.err))
		} else {
			m.status = styles.ok.Render(fmt.Sprintf("✓ Отчёт отправлен (%s)", msg.target))
		}
		return m, nil
	}

	if m.view == HistoryView {
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case DashboardView:
		return m.renderDashboard()
	case SelectView:
		return m.renderSelect()
	case TimerView:
		return m.renderTimer()
	case TokenView:
		return m.renderTokens()
	case ProgressView:
		return m.renderProgress()
	case ResultView:
		return m.renderResult()
	case HistoryView:
		return m.renderHistory()
	case ReportView:
		return m.renderReport()
	default:
		return ""
	}
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.start), key.Matches(msg, m.keys.enter):
		m.cursor = 0
		m.selected = make(map[models.PlatformName]bool)
		m.status = ""
		m.view = SelectView
	case key.Matches(msg, m.keys.history):
		return m, m.loadHistory()
	case key.Matches(msg, m.keys.report):
		if m.user.Role == models.RoleAdmin {
			return m, m.loadReport()
		}
	}
	return m, nil
}

func (m *Model) handleSelectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := models.PlatformNames()
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = DashboardView
		m.status = ""
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(names)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.toggle):
		name := names[m.cursor]
		m.selected[name] = !m.selected[name]
	case key.Matches(msg, m.keys.enter):
		return m, m.startShift()
	}
	return m, nil
}

func (m *Model) handleTimerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.end):
		m.prepareInputs()
		m.view = TokenView
	}
	return m, nil
}

func (m *Model) handleTokenKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.view = TimerView
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.setFocus(m.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.setFocus(m.focus - 1)
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if m.focus < len(m.inputs)-1 {
			m.setFocus(m.focus + 1)
			return m, nil
		}
		m.view = ProgressView
		return m, m.endShift()
	}

	if len(m.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter), key.Matches(msg, m.keys.back):
		m.err = nil
		m.result = models.Shift{}
		return m, m.loadState()
	}
	return m, nil
}

func (m *Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.history.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.back):
			m.view = DashboardView
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func (m *Model) handleReportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = DashboardView
		m.status = ""
	case key.Matches(msg, m.keys.share):
		if m.sharer != nil {
			m.status = "Отправка..."
			return m, m.share(m.report)
		}
	}
	return m, nil
}

func (m *Model) prepareInputs() {
	active := m.active.ActivePlatforms()
	m.inputs = make([]textinput.Model, len(active))
	m.names = make([]models.PlatformName, len(active))
	for i, p := range active {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%-11s ", p.Name)
		in.Placeholder = "0"
		in.CharLimit = 9
		m.inputs[i] = in
		m.names[i] = p.Name
	}
	m.focus = 0
	m.setFocus(0)
}

func (m *Model) setFocus(i int) {
	if len(m.inputs) == 0 {
		return
	}
	i = max(0, min(i, len(m.inputs)-1))
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	m.focus = i
}

// tokenEntries returns the raw text typed for each active platform.
func (m *Model) tokenEntries() map[string]string {
	raw := make(map[string]string, len(m.inputs))
	for i, in := range m.inputs {
		raw[string(m.names[i])] = in.Value()
	}
	return raw
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) loadState() tea.Cmd {
	return func() tea.Msg {
		shift, ok, err := m.manager.Current()
		if err != nil {
			return stateLoadedMsg{err: err}
		}
		stats, err := m.manager.Stats()
		return stateLoadedMsg{active: shift, ok: ok, stats: stats, err: err}
	}
}

func (m *Model) startShift() tea.Cmd {
	var selected []models.PlatformName
	for _, name := range models.PlatformNames() {
		if m.selected[name] {
			selected = append(selected, name)
		}
	}
	return func() tea.Msg {
		shift, err := m.manager.Start(m.user, selected)
		return shiftStartedMsg{shift: shift, err: err}
	}
}

func (m *Model) endShift() tea.Cmd {
	m.progressChan = make(chan studio.ProgressUpdate, 8)
	m.doneChan = make(chan shiftEndedMsg, 1)
	progress, done := m.progressChan, m.doneChan
	raw := m.tokenEntries()

	go func() {
		shift, err := m.manager.EndRaw(m.ctx, raw, progress)
		close(progress)
		done <- shiftEndedMsg{shift: shift, err: err}
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.doneChan
	return func() tea.Msg {
		if progress == nil {
			return shiftEndedMsg{err: shared.ErrNoActiveShift}
		}
		update, ok := <-progress
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		shifts, err := m.manager.History()
		return historyLoadedMsg{shifts: shifts, err: err}
	}
}

func (m *Model) loadReport() tea.Cmd {
	return func() tea.Msg {
		totals, err := m.manager.Totals()
		if err != nil {
			return reportLoadedMsg{err: err}
		}
		return reportLoadedMsg{text: formatter.ReportText(totals, m.studioName, m.clock())}
	}
}

func (m *Model) share(text string) tea.Cmd {
	sharer := m.sharer
	return func() tea.Msg {
		err := sharer.Share(m.ctx, text)
		return sharedMsg{target: sharer.Name(), err: err}
	}
}

// describe renders a rejected action for the operator.
func describe(err error) string {
	switch {
	case errors.Is(err, shared.ErrNoPlatforms):
		return styles.warn.Render("Выберите хотя бы одну площадку")
	case errors.Is(err, shared.ErrShiftActive):
		return styles.warn.Render("Смена уже идёт")
	default:
		return styles.err.Render(err.Error())
	}
}

func (m *Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("PRIMA • %s", m.user.FirstName)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Смен: %d\nТокенов: %d\nДоход: $%.2f\nЧасов: %.1f\n",
		m.stats.CompletedCount, m.stats.TotalTokens, m.stats.Revenue, m.stats.TotalHours))
	if m.stats.LastFeedback != "" {
		b.WriteString("\n")
		b.WriteString(styles.help.Render(m.stats.LastFeedback))
		b.WriteString("\n")
	}

	keys := []key.Binding{m.keys.start, m.keys.history}
	if m.user.Role == models.RoleAdmin {
		keys = append(keys, m.keys.report)
	}
	keys = append(keys, m.keys.quit)
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(keys))
	return b.String()
}

func (m *Model) renderSelect() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Выберите площадки"))
	b.WriteString("\n")
	for i, p := range models.Platforms() {
		cursor := "  "
		if i == m.cursor {
			cursor = styles.cursor.Render("> ")
		}
		check := "[ ]"
		if m.selected[p.Name] {
			check = styles.ok.Render("[x]")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, check, p.Name))
	}
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.toggle, m.keys.enter, m.keys.back}))
	return b.String()
}

func (m *Model) renderTimer() string {
	var names []string
	for _, p := range m.active.ActivePlatforms() {
		names = append(names, string(p.Name))
	}
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s",
		styles.title.Render("Смена идёт"),
		styles.clock.Render(studio.FormatElapsed(m.elapsed)),
		strings.Join(names, " • "),
		m.help.ShortHelpView([]key.Binding{m.keys.end, m.keys.quit}),
	)
}

func (m *Model) renderTokens() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Итоги смены • %s", studio.FormatElapsed(m.elapsed))))
	b.WriteString("\n")
	for _, in := range m.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.next, m.keys.enter, m.keys.back}))
	return b.String()
}

func (m *Model) renderProgress() string {
	message := m.progress.Message
	if message == "" {
		message = "Сохранение..."
	}
	return fmt.Sprintf("%s\n\n%s (%d/%d)",
		styles.title.Render("Завершение смены"),
		message,
		m.progress.Step,
		m.progress.Total,
	)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Не удалось завершить смену: %v", m.err)) + "\n\n" + helpView
	}

	var b strings.Builder
	b.WriteString(styles.ok.Render("✓ Смена завершена"))
	b.WriteString("\n\n")
	for _, p := range m.result.ActivePlatforms() {
		b.WriteString(fmt.Sprintf("%-11s %d tk\n", p.Name, p.TokensEarned))
	}
	b.WriteString(fmt.Sprintf("\nИтого: %d tk • $%.2f • %s ч\n",
		m.result.TotalTokens,
		studio.ShiftRevenue(m.result, m.manager.Rates()),
		studio.FormatHours(m.result.Duration()),
	))
	if m.result.AIFeedback != "" {
		b.WriteString("\n")
		b.WriteString(styles.help.Render(m.result.AIFeedback))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpView)
	return b.String()
}

func (m *Model) renderHistory() string {
	return fmt.Sprintf("%s\n\n%s", m.history.View(), m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
}

func (m *Model) renderReport() string {
	keys := []key.Binding{m.keys.back, m.keys.quit}
	if m.sharer != nil {
		keys = append([]key.Binding{m.keys.share}, keys...)
	}

	var b strings.Builder
	b.WriteString(styles.title.Render("Отчёт студии"))
	b.WriteString("\n")
	b.WriteString(m.report)
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(keys))
	return b.String()
}
