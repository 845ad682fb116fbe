package tasklog

import (
	"path"
	"strings"
	"time"

	"github.com/stratushq/stratus/internal/timeutil"
)

// sourceMarkerPrefix starts the header lines the log collector writes when it
// switches to a new underlying log file or stream, e.g.
//
//	*** Reading remote log from: s3://bucket/dag/task/2.log
//	*** Found local files: worker-1.log
//
// Everything after the marker's last ": " names the source; lines that follow
// are attributed to it until the next marker.
const sourceMarkerPrefix = "*** "

// maxLevelTokenScan bounds how far into a line a level keyword is looked for.
// Level tokens appear immediately after the timestamp group in runner output;
// scanning further would misclassify lines that merely mention a level.
const maxLevelTokenScan = 4

// ParseBlob converts one attempt's raw log blob into structured entries plus
// the distinct source names in first-seen order. Parsing is filter-independent
// and never fails: malformed lines degrade to LevelUnknown/SourceUnknown and
// are kept in position, so no input line is ever silently dropped.
func ParseBlob(raw string, loc *time.Location) ([]Entry, []string) {
	if raw == "" {
		return nil, nil
	}

	var (
		entries   []Entry
		sources   []string
		seen      = map[string]bool{}
		current   = SourceUnknown
		addSource = func(name string) {
			if name == SourceUnknown || seen[name] {
				return
			}
			seen[name] = true
			sources = append(sources, name)
		}
	)

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if name, ok := parseSourceMarker(line); ok {
			current = name
			addSource(name)
			entries = append(entries, Entry{Source: current, Message: line})
			continue
		}

		ts, rest := parseTimestampPrefix(line, loc)
		entries = append(entries, Entry{
			Timestamp: ts,
			Level:     detectLevel(rest),
			Source:    current,
			Message:   rest,
		})
	}

	return entries, sources
}

// parseSourceMarker classifies collector header lines. The source value is the
// text after the last ": " (the whole remainder when there is none); path-like
// values are reduced to their base name so filter labels stay short.
func parseSourceMarker(line string) (string, bool) {
	if !strings.HasPrefix(line, sourceMarkerPrefix) {
		return "", false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(line, sourceMarkerPrefix))
	if rest == "" {
		return "", false
	}

	if idx := strings.LastIndex(rest, ": "); idx >= 0 {
		rest = strings.TrimSpace(rest[idx+2:])
	}
	if rest == "" {
		return "", false
	}

	if strings.ContainsAny(rest, "/") {
		rest = path.Base(rest)
	}

	return rest, true
}

// parseTimestampPrefix strips and parses a leading "[<timestamp>]" group.
// Lines without one (continuation lines, tracebacks) come back unchanged with
// a zero time.
func parseTimestampPrefix(line string, loc *time.Location) (time.Time, string) {
	if !strings.HasPrefix(line, "[") {
		return time.Time{}, line
	}

	end := strings.Index(line, "]")
	if end < 0 {
		return time.Time{}, line
	}

	ts, err := timeutil.ParseLogTimestamp(line[1:end], loc)
	if err != nil {
		return time.Time{}, line
	}

	return ts, strings.TrimLeft(line[end+1:], " ")
}

// detectLevel scans the first few tokens of a line for a level keyword.
// Matching is case-sensitive against the closed level set; tokens are trimmed
// of the bracket/colon decoration the runners wrap levels in.
func detectLevel(line string) Level {
	tokens := strings.Fields(line)
	if len(tokens) > maxLevelTokenScan {
		tokens = tokens[:maxLevelTokenScan]
	}

	for _, tok := range tokens {
		tok = strings.Trim(tok, "[]:-")
		for _, lvl := range Levels {
			if tok == string(lvl) {
				return lvl
			}
		}
	}

	return LevelUnknown
}

// DistinctSources re-derives the first-seen-ordered source set from an entry
// sequence. Useful when entries were combined from several parses.
func DistinctSources(entries []Entry) []string {
	var sources []string
	seen := map[string]bool{}
	for _, e := range entries {
		if e.Source == SourceUnknown || seen[e.Source] {
			continue
		}
		seen[e.Source] = true
		sources = append(sources, e.Source)
	}
	return sources
}
