package tasklog

import (
	"github.com/bmatcuk/doublestar/v4"
)

// LevelSet and SourceSet are the filter selections applied to a parsed entry
// sequence. An empty (or nil) set means no restriction on that axis.
type LevelSet map[Level]bool

type SourceSet map[string]bool

// FilterEntries returns the subsequence of entries matching both filter sets,
// preserving order. Pure and idempotent: filtering an already-filtered
// sequence with the same sets is a no-op, and growing a source set can only
// grow the result.
func FilterEntries(entries []Entry, levels LevelSet, sources SourceSet) []Entry {
	if len(levels) == 0 && len(sources) == 0 {
		return entries
	}

	filtered := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if len(levels) > 0 && !levels[e.Level] {
			continue
		}
		if len(sources) > 0 && !sources[e.Source] {
			continue
		}
		filtered = append(filtered, e)
	}

	return filtered
}

// ResolveSourcePatterns expands glob patterns from the --source flag against
// the parsed source list into a concrete SourceSet. Literal names work as
// exact matches since they are valid patterns matching only themselves.
// Patterns matching nothing contribute nothing; reconciling a selection that
// has gone entirely stale is the view's job, not the filter's.
func ResolveSourcePatterns(patterns, sources []string) (SourceSet, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	set := SourceSet{}
	for _, pattern := range patterns {
		for _, src := range sources {
			ok, err := doublestar.Match(pattern, src)
			if err != nil {
				return nil, err
			}
			if ok {
				set[src] = true
			}
		}
	}

	return set, nil
}

// StaleSources reports the selected source values absent from the freshly
// parsed source list. Any stale value invalidates the whole selection (the
// view clears it rather than pruning), so callers mostly care whether the
// result is non-empty.
func StaleSources(selected SourceSet, sources []string) []string {
	if len(selected) == 0 {
		return nil
	}

	present := map[string]bool{}
	for _, s := range sources {
		present[s] = true
	}

	var stale []string
	for s := range selected {
		if !present[s] {
			stale = append(stale, s)
		}
	}

	return stale
}
