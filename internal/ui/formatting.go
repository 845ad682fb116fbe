package ui

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ColorizeState applies color styling to a DAG run or task instance state.
// Handles states like "success", "running", "failed", "queued", "up_for_retry".
func ColorizeState(state string) string {
	displayState := cases.Title(language.English).String(strings.ReplaceAll(state, "_", " "))

	stateNormalized := strings.ToLower(strings.ReplaceAll(state, "_", ""))

	switch stateNormalized {
	case "success":
		return GreenStyle.Render(displayState)
	case "running":
		return CyanStyle.Render(displayState)
	case "queued", "scheduled", "deferred", "none":
		return PendingStyle.Render(displayState)
	case "upforretry", "upforreschedule", "restarting":
		return YellowStyle.Render(displayState)
	case "failed", "upstreamfailed":
		return RedStyle.Render(displayState)
	case "skipped", "removed":
		return MagentaStyle.Render(displayState)
	default:
		return BoldStyle.Render(displayState)
	}
}

// FormatTimestamp formats a time.Time to a human-readable string
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// FormatError formats an error message with styling
// NOTE: Adds a new line manually. Use strings.TrimSpace if you want to strip it.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	// Append a new line because there is some slightly odd behaviour with bubbletea in terminals - the last
	// line when the program exits appears to be overwritten. Seems like this is a problem with Bubbletea itself.
	// Issue here: https://github.com/charmbracelet/bubbletea/issues/304
	return ErrorStyle.Render(fmt.Sprintf("✗ Error: %s", err.Error())) + "\n"
}
