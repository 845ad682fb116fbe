package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stratushq/stratus/internal/api"
	"github.com/stratushq/stratus/internal/tasklog"
	"github.com/stratushq/stratus/internal/ui"
)

// TaskLogsStatus represents the current state of the task logs view
type TaskLogsStatus int

const (
	TaskLogsStatusLoading TaskLogsStatus = iota
	TaskLogsStatusReady
	TaskLogsStatusError
)

// TaskLogsConfig contains configuration for the task logs view
type TaskLogsConfig struct {
	ui.DisplayConfig

	Client   api.Client
	DAGID    string
	RunID    string
	TaskID   string
	MapIndex *int

	// InitialAttempt opens the viewer on a specific attempt; nil = live
	// attempt. FullContent requests complete logs from the first fetch on.
	InitialAttempt *int
	FullContent    bool

	// Timezone for log timestamp display
	Location *time.Location

	// External log provider settings, resolved once at startup
	ShowExternalLogRedirect bool
	ExternalLogName         string
	ExternalLogURL          string

	// Initial filter selections from flags
	LevelFilters   []tasklog.Level
	SourcePatterns []string
}

// taskInstanceMsg carries the task instance metadata fetch result
type taskInstanceMsg struct {
	instance *api.TaskInstance
	err      error
}

// taskLogsMsg carries one log fetch result. The tag fields identify which
// selection triggered the fetch; responses for superseded selections are
// discarded so the last selection always wins over the last response.
type taskLogsMsg struct {
	seq         int
	attempt     int
	fullContent bool
	resp        *api.TaskLogsResponse
	err         error
}

// TaskLogsView is the Bubbletea model for the task attempt log viewer. It
// owns the whole view state: selected attempt, content/wrap toggles and
// filter sets, and reconciles all of it whenever the task metadata or
// fetched data changes.
type TaskLogsView struct {
	ctx     context.Context
	conf    TaskLogsConfig
	spinner *ui.SpinnerModel

	state TaskLogsStatus
	err   *ui.UIError

	instance *api.TaskInstance

	// Attempt partition, recomputed from the task's try number
	tryNumber        *int
	internalAttempts []int
	externalAttempts []int

	// Selection state
	selectedAttempt int
	fullContent     bool
	wrap            bool
	levelFilters    tasklog.LevelSet
	sourceFilters   tasklog.SourceSet

	// Fetch bookkeeping
	fetchSeq   int  // tag of the newest issued fetch
	fetchCount int  // total fetches issued
	loading    bool // a fetch for the current selection is in flight
	fetchErr   error

	// --source patterns resolve against the first parsed source list only
	patternsApplied bool

	// Parsed data for the current selection
	entries  []tasklog.Entry
	sources  []string
	filtered []tasklog.Entry

	// Scroll state
	scrollOffset     int
	anchorBottom     bool
	scrollToEndCount int // one increment per recomputation of the rendered sequence

	showInfo bool // task metadata block toggled with "i"
	printed  bool // simple mode: entries already written to stdout
}

// NewTaskLogsView creates a new task logs view
func NewTaskLogsView(ctx context.Context, conf TaskLogsConfig) *TaskLogsView {
	if conf.Location == nil {
		conf.Location = time.Local
	}

	levelFilters := tasklog.LevelSet{}
	for _, lvl := range conf.LevelFilters {
		levelFilters[lvl] = true
	}

	m := &TaskLogsView{
		ctx:          ctx,
		conf:         conf,
		spinner:      ui.NewSpinner(),
		state:        TaskLogsStatusLoading,
		anchorBottom: true,
		levelFilters: levelFilters,
		fullContent:  conf.FullContent,
	}
	if conf.InitialAttempt != nil {
		m.selectedAttempt = *conf.InitialAttempt
	}
	return m
}

func (m *TaskLogsView) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Init(),
		m.fetchTaskInstance(),
	)
}

// Update handles messages
func (m *TaskLogsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskInstanceMsg:
		return m.handleTaskInstance(msg)

	case taskLogsMsg:
		return m.handleTaskLogs(msg)

	case ui.SignalCancelMsg:
		m.err = ui.NewUserCancelledError()
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)

	default:
		updated, cmd := m.spinner.Update(msg)
		m.spinner = updated.(*ui.SpinnerModel) //nolint:errcheck // Type assertion guaranteed by SpinnerModel structure
		return m, cmd
	}
}

// handleTaskInstance recomputes the attempt partition and reconciles the
// selection. Runs on the initial metadata fetch and again whenever the task
// identity changes underneath the view.
func (m *TaskLogsView) handleTaskInstance(msg taskInstanceMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state = TaskLogsStatusError
		m.err = ui.NewAPIError(msg.err)
		return m, tea.Quit
	}

	m.instance = msg.instance
	m.tryNumber = msg.instance.TryNumber
	m.internalAttempts, m.externalAttempts = tasklog.PartitionAttempts(
		m.tryNumber, m.conf.ShowExternalLogRedirect)

	m.state = TaskLogsStatusReady

	// Prune a selection that no longer exists. Callers never need to repair
	// the selection by hand after a task switch.
	if len(m.internalAttempts) > 0 && !containsAttempt(m.internalAttempts, m.selectedAttempt) {
		m.selectedAttempt = m.internalAttempts[0]
	}

	if len(m.internalAttempts) == 0 {
		// Nothing to fetch: only external links (or no attempts at all)
		return m, nil
	}

	return m, m.fetchLogs()
}

// handleTaskLogs parses a completed fetch and reconciles the filters against
// the fresh source set.
func (m *TaskLogsView) handleTaskLogs(msg taskLogsMsg) (tea.Model, tea.Cmd) {
	// A newer selection superseded this fetch; drop the response.
	if msg.seq != m.fetchSeq {
		return m, nil
	}

	m.loading = false

	if msg.err != nil {
		// The log body renders nothing; attempt buttons and filters stay
		// interactive.
		m.fetchErr = msg.err
		m.entries = nil
		m.sources = nil
		m.recompute()
		return m, nil
	}

	m.fetchErr = nil
	m.entries, m.sources = tasklog.ParseBlob(msg.resp.Content, m.conf.Location)

	// A stale source selection would silently filter everything out, so any
	// missing value clears the whole set rather than pruning it.
	if len(tasklog.StaleSources(m.sourceFilters, m.sources)) > 0 {
		m.sourceFilters = nil
	}

	// Resolve --source patterns once real sources are known. Only the first
	// data load applies them; a selection the user cleared stays cleared on
	// later fetches.
	if !m.patternsApplied {
		m.patternsApplied = true
		if set, err := tasklog.ResolveSourcePatterns(m.conf.SourcePatterns, m.sources); err == nil && len(set) > 0 {
			m.sourceFilters = set
		}
	}

	m.recompute()

	if m.conf.SimpleOutput() && !m.printed {
		m.printed = true
		for _, e := range m.filtered {
			fmt.Println(formatEntryPlain(e))
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m *TaskLogsView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.conf.SimpleOutput() {
		if msg.String() == "ctrl+c" {
			m.err = ui.NewUserCancelledError()
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.err = ui.NewUserCancelledError()
		return m, tea.Quit

	case "left", "h":
		return m, m.selectAttempt(m.neighborAttempt(-1))

	case "right", "l":
		return m, m.selectAttempt(m.neighborAttempt(+1))

	case "f":
		m.fullContent = !m.fullContent
		return m, m.fetchLogs()

	case "w":
		// Wrap is a pure display toggle, no refetch
		m.wrap = !m.wrap
		m.scrollToEnd()

	case "i":
		m.showInfo = !m.showInfo

	case "1", "2", "3", "4", "5", "6":
		idx := int(msg.String()[0] - '1')
		m.toggleLevel(tasklog.Levels[idx])
		m.recompute()

	case "0":
		m.levelFilters = tasklog.LevelSet{}
		m.recompute()

	case "s":
		m.cycleSourceFilter()
		m.recompute()

	case "S":
		m.sourceFilters = nil
		m.recompute()

	case "j":
		m.scrollBy(1)
	case "k":
		m.scrollBy(-1)
	case "ctrl+d":
		m.scrollBy(10)
	case "ctrl+u":
		m.scrollBy(-10)
	case "J":
		m.scrollToEnd()
	case "K":
		m.scrollOffset = 0
		m.anchorBottom = len(m.filtered) <= ui.MAX_LOG_LINES_IN_VIEWER
	}

	return m, nil
}

// fetchTaskInstance loads the task metadata that drives the attempt partition
func (m *TaskLogsView) fetchTaskInstance() tea.Cmd {
	return func() tea.Msg {
		ti, err := m.conf.Client.GetTaskInstance(m.ctx, m.conf.DAGID, m.conf.RunID, m.conf.TaskID, m.conf.MapIndex)
		return taskInstanceMsg{instance: ti, err: err}
	}
}

// fetchLogs issues a fetch for the current (attempt, fullContent) selection.
// Bumping the sequence tag implicitly supersedes any in-flight fetch.
func (m *TaskLogsView) fetchLogs() tea.Cmd {
	m.fetchSeq++
	m.fetchCount++
	m.loading = true

	seq := m.fetchSeq
	attempt := m.selectedAttempt
	fullContent := m.fullContent

	return func() tea.Msg {
		resp, err := m.conf.Client.FetchTaskLogs(m.ctx, m.conf.DAGID, m.conf.RunID, m.conf.TaskID, api.TaskLogOptions{
			Attempt:     attempt,
			MapIndex:    m.conf.MapIndex,
			FullContent: fullContent,
		})
		return taskLogsMsg{seq: seq, attempt: attempt, fullContent: fullContent, resp: resp, err: err}
	}
}

// selectAttempt switches the selection and triggers a fetch. Selecting the
// already-selected attempt is a no-op.
func (m *TaskLogsView) selectAttempt(attempt int) tea.Cmd {
	if attempt == m.selectedAttempt || !containsAttempt(m.internalAttempts, attempt) {
		return nil
	}
	m.selectedAttempt = attempt
	return m.fetchLogs()
}

// neighborAttempt returns the internal attempt adjacent to the selection
func (m *TaskLogsView) neighborAttempt(delta int) int {
	for i, a := range m.internalAttempts {
		if a == m.selectedAttempt {
			j := i + delta
			if j < 0 || j >= len(m.internalAttempts) {
				return m.selectedAttempt
			}
			return m.internalAttempts[j]
		}
	}
	return m.selectedAttempt
}

func (m *TaskLogsView) toggleLevel(lvl tasklog.Level) {
	if m.levelFilters == nil {
		m.levelFilters = tasklog.LevelSet{}
	}
	if m.levelFilters[lvl] {
		delete(m.levelFilters, lvl)
	} else {
		m.levelFilters[lvl] = true
	}
}

// cycleSourceFilter steps the source filter through: no filter, each single
// source in first-seen order, back to no filter.
func (m *TaskLogsView) cycleSourceFilter() {
	if len(m.sources) == 0 {
		return
	}

	if len(m.sourceFilters) != 1 {
		m.sourceFilters = tasklog.SourceSet{m.sources[0]: true}
		return
	}

	var current string
	for s := range m.sourceFilters {
		current = s
	}
	for i, s := range m.sources {
		if s == current {
			if i+1 < len(m.sources) {
				m.sourceFilters = tasklog.SourceSet{m.sources[i+1]: true}
			} else {
				m.sourceFilters = nil
			}
			return
		}
	}
	m.sourceFilters = nil
}

// recompute re-derives the filtered entry sequence and fires the
// scroll-to-end effect exactly once, keeping the newest line in view.
func (m *TaskLogsView) recompute() {
	m.filtered = tasklog.FilterEntries(m.entries, m.levelFilters, m.sourceFilters)
	m.scrollToEnd()
}

func (m *TaskLogsView) scrollToEnd() {
	m.scrollOffset = max(0, len(m.filtered)-ui.MAX_LOG_LINES_IN_VIEWER)
	m.anchorBottom = true
	m.scrollToEndCount++
}

func (m *TaskLogsView) scrollBy(delta int) {
	maxOffset := max(0, len(m.filtered)-ui.MAX_LOG_LINES_IN_VIEWER)
	m.scrollOffset = min(maxOffset, max(0, m.scrollOffset+delta))
	m.anchorBottom = m.scrollOffset >= maxOffset
}

func containsAttempt(attempts []int, attempt int) bool {
	for _, a := range attempts {
		if a == attempt {
			return true
		}
	}
	return false
}

// Accessors used by the command layer and tests

func (m *TaskLogsView) GetError() *ui.UIError            { return m.err }
func (m *TaskLogsView) SelectedAttempt() int             { return m.selectedAttempt }
func (m *TaskLogsView) InternalAttempts() []int          { return m.internalAttempts }
func (m *TaskLogsView) ExternalAttempts() []int          { return m.externalAttempts }
func (m *TaskLogsView) SourceFilters() tasklog.SourceSet { return m.sourceFilters }
func (m *TaskLogsView) FilteredEntries() []tasklog.Entry { return m.filtered }
func (m *TaskLogsView) FetchCount() int                  { return m.fetchCount }
func (m *TaskLogsView) ScrollToEndCount() int            { return m.scrollToEndCount }

// View renders the task logs view
func (m *TaskLogsView) View() string {
	if m.conf.SimpleOutput() {
		return ""
	}

	switch m.state {
	case TaskLogsStatusLoading:
		return fmt.Sprintf("%s Loading task instance...", m.spinner.View())

	case TaskLogsStatusError:
		if m.err != nil {
			return ui.FormatError(m.err)
		}
		return "An error occurred"

	case TaskLogsStatusReady:
		return m.renderReady()
	}

	return ""
}

func (m *TaskLogsView) renderReady() string {
	var out strings.Builder

	out.WriteString(m.renderAttemptBar())
	out.WriteString("\n")
	if m.showInfo {
		out.WriteString(m.renderTaskInfo())
		out.WriteString("\n")
	}
	out.WriteString(m.renderFilterBar())
	out.WriteString("\n")
	out.WriteString(m.renderLogBox())
	out.WriteString("\n")
	out.WriteString(m.renderExternalLinks())
	out.WriteString(m.renderHelpText())

	return out.String()
}

// renderAttemptBar shows one button per internal attempt plus markers for
// externally-redirected ones.
func (m *TaskLogsView) renderAttemptBar() string {
	var parts []string

	for _, a := range m.internalAttempts {
		label := fmt.Sprintf("attempt %d", a)
		if a == 0 {
			label = "current"
		}
		if a == m.selectedAttempt {
			parts = append(parts, ui.SelectedAttemptStyle.Render(label))
		} else {
			parts = append(parts, ui.AttemptStyle.Render(label))
		}
	}

	for _, a := range m.externalAttempts {
		parts = append(parts, ui.AttemptStyle.Render(fmt.Sprintf("attempt %d ↗", a)))
	}

	title := ui.CyanStyle.Render(fmt.Sprintf("%s / %s / %s", m.conf.DAGID, m.conf.RunID, m.conf.TaskID))
	if len(parts) == 0 {
		return title + "\n" + ui.PendingStyle.Render("No attempts yet")
	}
	return title + "\n" + strings.Join(parts, " ")
}

func (m *TaskLogsView) renderFilterBar() string {
	var parts []string

	for _, opt := range tasklog.LevelOptions() {
		if m.levelFilters[opt.Value] {
			parts = append(parts, ui.FilterOnStyle.Render(opt.Label))
		} else {
			parts = append(parts, ui.FilterOffStyle.Render(opt.Label))
		}
	}

	for _, opt := range tasklog.SourceOptions(m.sources) {
		if m.sourceFilters[opt.Value] {
			parts = append(parts, ui.FilterOnStyle.Render(opt.Label))
		} else {
			parts = append(parts, ui.FilterOffStyle.Render(opt.Label))
		}
	}

	return strings.Join(parts, " ")
}

func (m *TaskLogsView) renderLogBox() string {
	if m.loading {
		return "\n" + m.spinner.View() + " Fetching logs..."
	}

	if m.fetchErr != nil {
		return "\n" + ui.FormatError(m.fetchErr)
	}

	total := len(m.filtered)
	title := fmt.Sprintf("Attempt %d logs (%d lines)", m.selectedAttempt, total)

	if total == 0 {
		return "\n" + ui.RenderPanel(title, ui.PendingStyle.Render("No log entries"))
	}

	start := m.scrollOffset
	end := min(start+ui.MAX_LOG_LINES_IN_VIEWER, total)
	visible := m.filtered[start:end]

	var content strings.Builder

	if start > 0 {
		content.WriteString(ui.PendingStyle.Render(fmt.Sprintf("↑ %d more lines above", start)))
		content.WriteString("\n")
	}

	lineStyle := lipgloss.NewStyle()
	if m.wrap {
		lineStyle = lineStyle.Width(96)
	} else {
		lineStyle = lineStyle.MaxWidth(96)
	}

	for i, e := range visible {
		content.WriteString(lineStyle.Render(formatEntry(e)))
		if i < len(visible)-1 {
			content.WriteString("\n")
		}
	}

	if end < total {
		content.WriteString("\n")
		content.WriteString(ui.PendingStyle.Render(fmt.Sprintf("↓ %d more lines below", total-end)))
	}

	return "\n" + ui.RenderPanel(title, content.String())
}

// renderTaskInfo shows the task instance metadata block
func (m *TaskLogsView) renderTaskInfo() string {
	if m.instance == nil {
		return ""
	}

	rows := []ui.TableRow{
		{Label: "State", Value: ui.ColorizeState(m.instance.State)},
		{Label: "Operator", Value: m.instance.Operator},
		{Label: "Started", Value: m.formatInstanceTime(m.instance.StartDate)},
		{Label: "Ended", Value: m.formatInstanceTime(m.instance.EndDate)},
	}
	if m.instance.MapIndex != nil {
		rows = append(rows, ui.TableRow{Label: "Map index", Value: fmt.Sprintf("%d", *m.instance.MapIndex)})
	}

	return ui.RenderDetailTable([]ui.TableSection{{Rows: rows}})
}

// formatInstanceTime renders an API timestamp in the configured display
// timezone, falling back to the raw value when it does not parse.
func (m *TaskLogsView) formatInstanceTime(value string) string {
	if value == "" {
		return "-"
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return ui.FormatTimestamp(t.In(m.conf.Location))
}

// renderExternalLinks shows the provider deep links for redirected attempts
// and the always-available see-more link.
func (m *TaskLogsView) renderExternalLinks() string {
	if m.conf.ExternalLogURL == "" {
		return ""
	}

	name := m.conf.ExternalLogName
	if name == "" {
		name = "external provider"
	}

	var out strings.Builder
	for _, a := range m.externalAttempts {
		link := tasklog.ExternalLogLink(m.conf.ExternalLogURL, m.conf.TaskID, m.conf.RunID, m.conf.MapIndex, a)
		out.WriteString(fmt.Sprintf("attempt %d on %s: %s\n", a, name, ui.URLStyle.Render(link)))
	}
	seeMore := tasklog.SeeMoreLink(m.conf.ExternalLogURL, m.conf.TaskID, m.conf.RunID, m.conf.MapIndex)
	out.WriteString(fmt.Sprintf("see more on %s: %s\n", name, ui.URLStyle.Render(seeMore)))

	return out.String()
}

func (m *TaskLogsView) renderHelpText() string {
	hints := []string{
		"←/→: attempt",
		"1-6: level filter",
		"s/S: source filter",
		"f: full content",
		"w: wrap",
		"i: task info",
		"j/k: scroll",
		"q: quit",
	}
	return ui.HelpStyle.Render(strings.Join(hints, " | "))
}

// formatEntry renders one log line for the interactive view
func formatEntry(e tasklog.Entry) string {
	var b strings.Builder

	if e.HasTimestamp() {
		b.WriteString(ui.TimestampStyle.Render(e.Timestamp.Format("15:04:05.000")))
		b.WriteString(" ")
	}
	if e.Source != tasklog.SourceUnknown {
		b.WriteString(ui.SourceStyle.Render("[" + e.Source + "]"))
		b.WriteString(" ")
	}
	b.WriteString(e.Message)

	return b.String()
}

// formatEntryPlain renders one log line for piped output
func formatEntryPlain(e tasklog.Entry) string {
	if !e.HasTimestamp() {
		return e.Message
	}
	return fmt.Sprintf("%s %s", e.Timestamp.Format("2006-01-02 15:04:05.000"), e.Message)
}
