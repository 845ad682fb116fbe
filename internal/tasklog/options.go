package tasklog

import "github.com/charmbracelet/lipgloss"

// LevelOption is a selectable level filter handle for the UI.
type LevelOption struct {
	Label string
	Value Level
	Color lipgloss.Color
}

// SourceOption is a selectable source filter handle. Values always come from
// the current parse; ordering matches first occurrence in the blob so the
// option list is stable across re-renders of the same data.
type SourceOption struct {
	Label string
	Value string
}

// levelColors follows the terminal palette used elsewhere in the UI.
var levelColors = map[Level]lipgloss.Color{
	LevelTrace:    lipgloss.Color("8"),
	LevelDebug:    lipgloss.Color("8"),
	LevelInfo:     lipgloss.Color("12"),
	LevelWarning:  lipgloss.Color("11"),
	LevelError:    lipgloss.Color("9"),
	LevelCritical: lipgloss.Color("13"),
}

// LevelOptions returns the fixed level filter options in severity order.
func LevelOptions() []LevelOption {
	opts := make([]LevelOption, 0, len(Levels))
	for _, lvl := range Levels {
		opts = append(opts, LevelOption{
			Label: string(lvl),
			Value: lvl,
			Color: levelColors[lvl],
		})
	}
	return opts
}

// SourceOptions builds filter options for the sources discovered by a parse,
// preserving the given first-seen order.
func SourceOptions(sources []string) []SourceOption {
	opts := make([]SourceOption, 0, len(sources))
	for _, s := range sources {
		opts = append(opts, SourceOption{Label: s, Value: s})
	}
	return opts
}
