package commands

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratushq/stratus/internal/api"
	apimock "github.com/stratushq/stratus/internal/api/mock"
	"github.com/stratushq/stratus/internal/tasklog"
	"github.com/stratushq/stratus/internal/ui"
)

func intPtr(i int) *int { return &i }

func newTestView(t *testing.T) *TaskLogsView {
	t.Helper()
	return newTestViewWithConfig(t, TaskLogsConfig{})
}

// newTestViewWithConfig fills in the task identity and forces interactive
// mode so key messages reach the model instead of the piped-output path.
func newTestViewWithConfig(t *testing.T, conf TaskLogsConfig) *TaskLogsView {
	t.Helper()
	conf.Client = apimock.NewMockClient(t)
	conf.DAGID = "demo_dag"
	conf.RunID = "run-1"
	conf.TaskID = "extract"
	conf.DisplayConfig = ui.DisplayConfig{IsInteractive: true}
	return NewTaskLogsView(context.Background(), conf)
}

func instanceMsg(tryNumber int) taskInstanceMsg {
	return taskInstanceMsg{instance: &api.TaskInstance{
		DAGID:     "demo_dag",
		RunID:     "run-1",
		TaskID:    "extract",
		TryNumber: intPtr(tryNumber),
	}}
}

func logsMsg(m *TaskLogsView, content string) taskLogsMsg {
	return taskLogsMsg{
		seq:         m.fetchSeq,
		attempt:     m.selectedAttempt,
		fullContent: m.fullContent,
		resp:        &api.TaskLogsResponse{Content: content},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m *TaskLogsView, msg tea.Msg) {
	t.Helper()
	updated, _ := m.Update(msg)
	require.IsType(t, &TaskLogsView{}, updated)
}

func TestTaskLogsViewAttemptPartition(t *testing.T) {
	m := newTestView(t)
	update(t, m, instanceMsg(3))

	assert.Equal(t, []int{0, 1, 2, 3}, m.InternalAttempts())
	assert.Empty(t, m.ExternalAttempts())
	assert.Equal(t, 0, m.SelectedAttempt())
	assert.Equal(t, 1, m.FetchCount(), "metadata arrival triggers the first log fetch")
}

func TestTaskLogsViewExternalRedirect(t *testing.T) {
	m := newTestViewWithConfig(t, TaskLogsConfig{
		ShowExternalLogRedirect: true,
		ExternalLogName:         "loghouse",
		ExternalLogURL:          "https://logs.example.com/search",
	})
	update(t, m, instanceMsg(3))

	assert.Equal(t, []int{0}, m.InternalAttempts())
	assert.Equal(t, []int{1, 2, 3}, m.ExternalAttempts())
}

func TestTaskLogsViewSelectionPrunedOnTaskSwitch(t *testing.T) {
	m := newTestView(t)

	update(t, m, instanceMsg(3))
	update(t, m, logsMsg(m, "INFO - hello"))
	update(t, m, keyMsg("right"))
	update(t, m, keyMsg("right"))
	assert.Equal(t, 2, m.SelectedAttempt())

	// The task underneath the view changes and the previous selection is
	// gone. Selection snaps to the first internal attempt with no caller
	// intervention.
	update(t, m, instanceMsg(1))
	assert.Equal(t, []int{1}, m.InternalAttempts())
	assert.Equal(t, 1, m.SelectedAttempt())

	update(t, m, keyMsg("left"))
	assert.Equal(t, 1, m.SelectedAttempt(), "no neighbor to move to")
}

func TestTaskLogsViewStaleSourceFiltersCleared(t *testing.T) {
	m := newTestView(t)
	update(t, m, instanceMsg(2))

	blob := "*** Found local files: worker-1.log\nINFO - from worker one\n*** Found local files: worker-2.log\nINFO - from worker two"
	update(t, m, logsMsg(m, blob))

	// Select the worker-1.log source filter
	update(t, m, keyMsg("s"))
	require.Equal(t, tasklog.SourceSet{"worker-1.log": true}, m.SourceFilters())

	// Refetch yields a source set without worker-1.log: the whole filter
	// selection is cleared, not pruned.
	update(t, m, keyMsg("f"))
	update(t, m, logsMsg(m, "*** Found local files: scheduler.log\nINFO - fresh"))
	assert.Empty(t, m.SourceFilters())
	assert.Len(t, m.FilteredEntries(), 2)
}

func TestTaskLogsViewSourcePatternsApplyOnce(t *testing.T) {
	m := newTestViewWithConfig(t, TaskLogsConfig{
		SourcePatterns: []string{"worker-*.log"},
	})
	update(t, m, instanceMsg(2))

	blob := "*** Found local files: worker-1.log\nINFO - worker line\n*** Found local files: scheduler.log\nINFO - scheduler line"
	update(t, m, logsMsg(m, blob))
	require.Equal(t, tasklog.SourceSet{"worker-1.log": true}, m.SourceFilters())

	// The user clears the selection; a refetch over the same sources must not
	// reinstate the flag patterns.
	update(t, m, keyMsg("S"))
	require.Empty(t, m.SourceFilters())

	update(t, m, keyMsg("f"))
	update(t, m, logsMsg(m, blob))
	assert.Empty(t, m.SourceFilters())
	assert.Len(t, m.FilteredEntries(), 4)
}

func TestTaskLogsViewFetchTriggers(t *testing.T) {
	m := newTestView(t)
	update(t, m, instanceMsg(3))
	require.Equal(t, 1, m.FetchCount())

	// Wrap is display-only
	update(t, m, keyMsg("w"))
	assert.Equal(t, 1, m.FetchCount())

	// Full content refetches
	update(t, m, keyMsg("f"))
	assert.Equal(t, 2, m.FetchCount())

	// Attempt change refetches
	update(t, m, keyMsg("right"))
	assert.Equal(t, 3, m.FetchCount())

	// Selecting the same attempt again does not
	update(t, m, keyMsg("right"))
	update(t, m, keyMsg("left"))
	assert.Equal(t, 5, m.FetchCount())
}

func TestTaskLogsViewLastSelectionWins(t *testing.T) {
	m := newTestView(t)
	update(t, m, instanceMsg(2))

	// Capture the tag of the first fetch, then supersede it
	stale := logsMsg(m, "INFO - stale response")
	update(t, m, keyMsg("right"))

	// The stale response arrives late and is discarded
	update(t, m, stale)
	assert.Empty(t, m.FilteredEntries())

	// The response for the current selection lands
	update(t, m, logsMsg(m, "INFO - current response"))
	require.Len(t, m.FilteredEntries(), 1)
	assert.Equal(t, "INFO - current response", m.FilteredEntries()[0].Message)
}

func TestTaskLogsViewLevelFilterToggles(t *testing.T) {
	m := newTestView(t)
	update(t, m, instanceMsg(2))
	update(t, m, logsMsg(m, "INFO - keep\nERROR - boom\nplain line"))
	require.Len(t, m.FilteredEntries(), 3)

	// "5" toggles ERROR (severity order TRACE DEBUG INFO WARNING ERROR CRITICAL)
	update(t, m, keyMsg("5"))
	require.Len(t, m.FilteredEntries(), 1)
	assert.Equal(t, tasklog.LevelError, m.FilteredEntries()[0].Level)

	// Toggle off restores everything
	update(t, m, keyMsg("5"))
	assert.Len(t, m.FilteredEntries(), 3)
}

func TestTaskLogsViewScrollToEndPerRecompute(t *testing.T) {
	m := newTestView(t)
	update(t, m, instanceMsg(2))
	before := m.ScrollToEndCount()

	update(t, m, logsMsg(m, "INFO - a\nINFO - b"))
	assert.Equal(t, before+1, m.ScrollToEndCount(), "new data scrolls once")

	update(t, m, keyMsg("3"))
	assert.Equal(t, before+2, m.ScrollToEndCount(), "filter change scrolls once")

	update(t, m, keyMsg("w"))
	assert.Equal(t, before+3, m.ScrollToEndCount(), "wrap toggle scrolls once")

	update(t, m, keyMsg("k"))
	assert.Equal(t, before+3, m.ScrollToEndCount(), "manual scrolling does not")
}

func TestTaskLogsViewFetchErrorKeepsViewInteractive(t *testing.T) {
	m := newTestView(t)
	update(t, m, instanceMsg(2))
	update(t, m, taskLogsMsg{seq: m.fetchSeq, err: errors.New("boom")})

	// No entries synthesized, no fatal error, attempts still switchable
	assert.Empty(t, m.FilteredEntries())
	assert.Nil(t, m.GetError())

	update(t, m, keyMsg("right"))
	assert.Equal(t, 1, m.SelectedAttempt())
}

func TestTaskLogsViewNotYetRun(t *testing.T) {
	m := newTestView(t)
	update(t, m, taskInstanceMsg{instance: &api.TaskInstance{TaskID: "extract"}})

	assert.Empty(t, m.InternalAttempts())
	assert.Empty(t, m.ExternalAttempts())
	assert.Zero(t, m.FetchCount(), "nothing to fetch without attempts")
}
