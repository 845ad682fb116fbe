package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/stratushq/stratus/internal/api"
	"github.com/stratushq/stratus/internal/ui"
)

// RunsListConfig configures the DAG runs list view
type RunsListConfig struct {
	ui.DisplayConfig

	Client api.Client
	DAGID  string
	State  string // only list runs in this state, empty = all
	Limit  int    // 0 = no limit
}

// RunsListView is the Bubbletea model for displaying DAG runs
type RunsListView struct {
	ctx context.Context

	runs    []api.DAGRun
	loading bool
	spinner *ui.SpinnerModel
	table   table.Model
	err     error

	conf RunsListConfig
}

// NewRunsListView creates a new DAG runs list view
func NewRunsListView(ctx context.Context, conf RunsListConfig) *RunsListView {
	return &RunsListView{
		ctx:     ctx,
		loading: true,
		spinner: ui.NewSpinner(),
		conf:    conf,
	}
}

// Error returns the error if any occurred during execution
func (m *RunsListView) Error() error {
	return m.err
}

// Init starts the data fetch
func (m *RunsListView) Init() tea.Cmd {
	return tea.Batch(m.spinner.Init(), m.fetchRuns)
}

// Update handles messages
func (m *RunsListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.SignalCancelMsg:
		return m, tea.Quit

	case runsLoadedMsg:
		return m.onLoaded(msg.runs)

	case *ui.UIError:
		m.err = msg
		m.loading = false

		// In interactive mode the error renders in View(); mark it silent so
		// main does not print it a second time.
		if !m.conf.SimpleOutput() {
			msg.SilentExit = true
		}

		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
		return m, nil

	default:
		if !m.conf.SimpleOutput() && m.loading {
			spinnerModel, cmd := m.spinner.Update(msg)
			m.spinner = spinnerModel.(*ui.SpinnerModel) //nolint:errcheck // Type assertion guaranteed by SpinnerModel structure
			return m, cmd
		}
	}

	return m, nil
}

// View renders the output
func (m *RunsListView) View() string {
	// Simple mode: output has already been printed directly
	if m.conf.SimpleOutput() {
		return ""
	}

	if m.loading {
		return m.spinner.View() + fmt.Sprintf(" Loading runs for %s...", m.conf.DAGID)
	}

	if m.err != nil {
		return ui.FormatError(m.err)
	}

	if len(m.runs) == 0 {
		return ui.WarningStyle.Render(fmt.Sprintf("No runs found for DAG: %s", m.conf.DAGID))
	}

	var output strings.Builder
	output.WriteString(ui.TitleStyle.Render(fmt.Sprintf("Runs for %s", m.conf.DAGID)))
	output.WriteString("\n\n")
	output.WriteString(m.table.View())
	output.WriteString("\n")
	if ui.TableBiggerThanView(m.table) {
		output.WriteString(ui.PendingStyle.Render(fmt.Sprintf("Showing %d of %d runs. Use --limit and --state to narrow the list.", ui.MAX_TABLE_HEIGHT, len(m.runs))))
		output.WriteString("\n")
	}
	output.WriteString("\n")

	return output.String()
}

type runsLoadedMsg struct {
	runs []api.DAGRun
}

func (m *RunsListView) fetchRuns() tea.Msg {
	runs, err := m.conf.Client.ListDAGRuns(m.ctx, m.conf.DAGID)
	if err != nil {
		return ui.NewAPIError(err)
	}
	return runsLoadedMsg{runs: filterRuns(runs, m.conf.State, m.conf.Limit)}
}

func (m *RunsListView) onLoaded(runs []api.DAGRun) (tea.Model, tea.Cmd) {
	m.runs = runs
	m.loading = false

	// Most recent first
	sort.Slice(m.runs, func(i, j int) bool {
		return m.runs[i].ExecutionDate > m.runs[j].ExecutionDate
	})

	if m.conf.SimpleOutput() {
		if len(m.runs) == 0 {
			fmt.Printf("No runs found for DAG: %s\n", m.conf.DAGID)
		} else {
			fmt.Print(m.formatRunsTable())
		}
		return m, tea.Quit
	}

	var rows []table.Row
	for _, run := range m.runs {
		rows = append(rows, table.Row{
			run.RunID,
			strings.TrimSpace(ui.ColorizeState(run.State)),
			run.ExecutionDate,
			run.StartDate,
			run.EndDate,
		})
	}

	m.table = newRunsTable(rows)
	return m, tea.Quit
}

// formatRunsTable formats runs for non-TTY output
func (m *RunsListView) formatRunsTable() string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("%-40s %-15s %-25s %-25s %-25s\n",
		"RUN ID", "STATE", "EXECUTION DATE", "STARTED", "ENDED"))

	for _, run := range m.runs {
		output.WriteString(fmt.Sprintf("%-40s %-15s %-25s %-25s %-25s\n",
			run.RunID,
			DisplayState(run.State),
			run.ExecutionDate,
			run.StartDate,
			run.EndDate,
		))
	}

	return output.String()
}

// DisplayState turns an orchestrator state value into a readable label,
// e.g. "up_for_retry" becomes "Up For Retry".
func DisplayState(state string) string {
	if state == "" {
		return "Unknown"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(state, "_", " "))
}

func filterRuns(runs []api.DAGRun, state string, limit int) []api.DAGRun {
	if state != "" {
		var kept []api.DAGRun
		for _, r := range runs {
			if strings.EqualFold(r.State, state) {
				kept = append(kept, r)
			}
		}
		runs = kept
	}
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs
}

func newRunsTable(rows []table.Row) table.Model {
	// Padding leaves room for ANSI codes in colored cells
	const padding = 8

	widths := map[int]int{
		0: len("Run ID"),
		1: len("State"),
		2: len("Execution Date"),
		3: len("Started"),
		4: len("Ended"),
	}

	for _, row := range rows {
		for i, cell := range row {
			cellWidth := lipgloss.Width(cell)
			if cellWidth > widths[i] {
				widths[i] = cellWidth
			}
		}
	}

	columns := []table.Column{
		{Title: "Run ID", Width: widths[0] + padding},
		{Title: "State", Width: widths[1] + padding},
		{Title: "Execution Date", Width: widths[2] + padding},
		{Title: "Started", Width: widths[3] + padding},
		{Title: "Ended", Width: widths[4] + padding},
	}

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("11")).
		BorderBottom(true).
		Bold(true).
		Padding(0, 1)
	// No selection highlighting, the table is display-only
	s.Selected = s.Selected.
		Foreground(lipgloss.NoColor{}).
		Background(lipgloss.NoColor{}).
		Bold(false)

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(min(len(rows), ui.MAX_TABLE_HEIGHT)+1),
		table.WithFocused(false),
	)
	t.SetStyles(s)

	return t
}
