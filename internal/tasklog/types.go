package tasklog

import "time"

// Level classifies a single log line. The orchestrator's task runners emit a
// fixed set of level keywords; anything else degrades to LevelUnknown rather
// than being dropped.
type Level string

const (
	LevelTrace    Level = "TRACE"
	LevelDebug    Level = "DEBUG"
	LevelInfo     Level = "INFO"
	LevelWarning  Level = "WARNING"
	LevelError    Level = "ERROR"
	LevelCritical Level = "CRITICAL"
	LevelUnknown  Level = ""
)

// Levels lists the recognized levels in severity order. Used for filter
// options and for token matching during parsing.
var Levels = []Level{
	LevelTrace,
	LevelDebug,
	LevelInfo,
	LevelWarning,
	LevelError,
	LevelCritical,
}

// Valid reports whether l is one of the recognized level keywords.
func (l Level) Valid() bool {
	for _, known := range Levels {
		if l == known {
			return true
		}
	}
	return false
}

// SourceUnknown attributes lines seen before any source marker.
const SourceUnknown = ""

// Entry is one parsed log line. Order of entries always matches appearance
// order in the raw blob; entries without a parseable timestamp keep a zero
// Timestamp and their position.
type Entry struct {
	// Timestamp is the line's timestamp converted to the display timezone.
	// Zero when the line carried no recognizable timestamp prefix.
	Timestamp time.Time

	// Level is the recognized level token, or LevelUnknown.
	Level Level

	// Source names the log file/stream the line came from, or SourceUnknown
	// when no marker preceded it.
	Source string

	// Message is the line text with timestamp prefix removed.
	Message string
}

// HasTimestamp reports whether the entry carried a parseable timestamp.
func (e Entry) HasTimestamp() bool {
	return !e.Timestamp.IsZero()
}
