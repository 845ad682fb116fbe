package tasklog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const providerBase = "https://logs.example.com/search"

func TestExternalLogLink(t *testing.T) {
	tcs := []struct {
		name     string
		mapIndex *int
		attempt  int
		expected url.Values
	}{
		{
			name:    "unmapped task",
			attempt: 2,
			expected: url.Values{
				"task_id":        {"extract"},
				"execution_date": {"2024-03-01T10:00:00+00:00"},
				"try_number":     {"2"},
			},
		},
		{
			name:     "mapped task",
			mapIndex: intPtr(4),
			attempt:  1,
			expected: url.Values{
				"task_id":        {"extract"},
				"execution_date": {"2024-03-01T10:00:00+00:00"},
				"map_index":      {"4"},
				"try_number":     {"1"},
			},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			link := ExternalLogLink(providerBase, "extract", "2024-03-01T10:00:00+00:00", tc.mapIndex, tc.attempt)

			u, err := url.Parse(link)
			require.NoError(t, err)
			assert.Equal(t, "https", u.Scheme)
			assert.Equal(t, "logs.example.com", u.Host)
			assert.Equal(t, tc.expected, u.Query())
		})
	}
}

func TestSeeMoreLink(t *testing.T) {
	link := SeeMoreLink(providerBase, "extract", "run-1", nil)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, url.Values{
		"task_id":        {"extract"},
		"execution_date": {"run-1"},
	}, u.Query())
	assert.NotContains(t, link, "try_number")
}

func TestLevelOptions(t *testing.T) {
	opts := LevelOptions()

	require.Len(t, opts, len(Levels))
	for i, lvl := range Levels {
		assert.Equal(t, string(lvl), opts[i].Label)
		assert.Equal(t, lvl, opts[i].Value)
		assert.NotEmpty(t, opts[i].Color)
	}
}

func TestSourceOptions(t *testing.T) {
	opts := SourceOptions([]string{"b.log", "a.log"})

	require.Len(t, opts, 2)
	// First-seen order from the parse is preserved, never re-sorted.
	assert.Equal(t, "b.log", opts[0].Value)
	assert.Equal(t, "a.log", opts[1].Value)
}
