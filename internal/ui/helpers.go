package ui

import (
	"github.com/charmbracelet/bubbles/table"
)

const (
	// MAX_TABLE_HEIGHT defines the max number of rows viewable in one render.
	// Not including header. Tables longer than this should scroll.
	MAX_TABLE_HEIGHT = 15

	// MAX_LOG_LINES_IN_VIEWER is the maximum number of log lines shown in the
	// log viewer in one render. Older lines scroll.
	MAX_LOG_LINES_IN_VIEWER = 40
)

func TableBiggerThanView(t table.Model) bool {
	return len(t.Rows()) > MAX_TABLE_HEIGHT
}
