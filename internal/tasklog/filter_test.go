package tasklog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFixture() []Entry {
	return []Entry{
		{Level: LevelInfo, Source: "worker-1.log", Message: "one"},
		{Level: LevelError, Source: "worker-1.log", Message: "two"},
		{Level: LevelInfo, Source: "worker-2.log", Message: "three"},
		{Level: LevelUnknown, Source: SourceUnknown, Message: "four"},
		{Level: LevelWarning, Source: "worker-2.log", Message: "five"},
	}
}

func messages(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}

func TestFilterEntries(t *testing.T) {
	entries := filterFixture()

	tcs := []struct {
		name     string
		levels   LevelSet
		sources  SourceSet
		expected []string
	}{
		{
			name:     "no filters is identity",
			expected: []string{"one", "two", "three", "four", "five"},
		},
		{
			name:     "level filter",
			levels:   LevelSet{LevelInfo: true},
			expected: []string{"one", "three"},
		},
		{
			name:     "source filter",
			sources:  SourceSet{"worker-2.log": true},
			expected: []string{"three", "five"},
		},
		{
			name:     "level and source are anded",
			levels:   LevelSet{LevelInfo: true, LevelWarning: true},
			sources:  SourceSet{"worker-2.log": true},
			expected: []string{"three", "five"},
		},
		{
			name:     "unknown level is selectable",
			levels:   LevelSet{LevelUnknown: true},
			expected: []string{"four"},
		},
		{
			name:     "absent source yields empty result",
			sources:  SourceSet{"gone.log": true},
			expected: []string{},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterEntries(entries, tc.levels, tc.sources)
			assert.Equal(t, tc.expected, messages(got))
		})
	}
}

func TestFilterEntriesIdempotent(t *testing.T) {
	entries := filterFixture()
	levels := LevelSet{LevelInfo: true}
	sources := SourceSet{"worker-1.log": true, "worker-2.log": true}

	once := FilterEntries(entries, levels, sources)
	twice := FilterEntries(once, levels, sources)
	assert.Equal(t, once, twice)
}

func TestFilterEntriesMonotonicInSources(t *testing.T) {
	entries := filterFixture()

	small := FilterEntries(entries, nil, SourceSet{"worker-1.log": true})
	large := FilterEntries(entries, nil, SourceSet{"worker-1.log": true, "worker-2.log": true})

	assert.GreaterOrEqual(t, len(large), len(small))
	for _, e := range small {
		assert.Contains(t, large, e)
	}
}

func TestResolveSourcePatterns(t *testing.T) {
	sources := []string{"worker-1.log", "worker-2.log", "scheduler.log"}

	tcs := []struct {
		name     string
		patterns []string
		expected SourceSet
	}{
		{
			name:     "no patterns means no restriction",
			patterns: nil,
			expected: nil,
		},
		{
			name:     "literal name",
			patterns: []string{"scheduler.log"},
			expected: SourceSet{"scheduler.log": true},
		},
		{
			name:     "glob expansion",
			patterns: []string{"worker-*.log"},
			expected: SourceSet{"worker-1.log": true, "worker-2.log": true},
		},
		{
			name:     "pattern matching nothing",
			patterns: []string{"triggerer-*.log"},
			expected: SourceSet{},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveSourcePatterns(tc.patterns, sources)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestStaleSources(t *testing.T) {
	assert.Empty(t, StaleSources(nil, []string{"a.log"}))
	assert.Empty(t, StaleSources(SourceSet{"a.log": true}, []string{"a.log", "b.log"}))
	assert.Equal(t, []string{"gone.log"},
		StaleSources(SourceSet{"gone.log": true}, []string{"a.log"}))
}
