package timeutil

import (
	"fmt"
	"time"
)

// Log line timestamp layouts emitted by the orchestrator's task runners.
// Order matters: more specific layouts first so a trailing zone designator is
// never mistaken for message text.
var logTimestampLayouts = []string{
	"2006-01-02T15:04:05.000-0700", // runner default, numeric zone
	"2006-01-02T15:04:05.000Z0700",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05,000", // legacy comma-millis format
	"2006-01-02 15:04:05",
}

// ParseLogTimestamp parses a timestamp string found at the start of a log
// line and converts it to the display location. Layouts without zone info are
// interpreted in loc rather than UTC.
//
// Returns an error when the string matches none of the recognized layouts;
// callers are expected to degrade, not fail.
func ParseLogTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range logTimestampLayouts {
		t, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return t.In(loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}

// LoadDisplayLocation resolves a timezone name from configuration. An empty
// name means local time. Unknown names are an error so a typo in config
// surfaces instead of silently rendering UTC.
func LoadDisplayLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}

	return loc, nil
}
