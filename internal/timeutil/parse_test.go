package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogTimestamp(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)

	tcs := []struct {
		name          string
		input         string
		loc           *time.Location
		expectedError bool
		expectedUTC   string
	}{
		{
			name:        "runner default with numeric zone",
			input:       "2026-08-29T10:30:00.000-0500",
			loc:         time.UTC,
			expectedUTC: "2026-08-29T15:30:00Z",
		},
		{
			name:        "RFC3339 with Z",
			input:       "2026-08-29T10:30:00Z",
			loc:         time.UTC,
			expectedUTC: "2026-08-29T10:30:00Z",
		},
		{
			name:        "comma millis without zone uses display location",
			input:       "2026-08-29 10:30:00,123",
			loc:         est,
			expectedUTC: "2026-08-29T15:30:00Z",
		},
		{
			name:        "seconds precision without zone",
			input:       "2026-08-29 10:30:00",
			loc:         time.UTC,
			expectedUTC: "2026-08-29T10:30:00Z",
		},
		{
			name:          "not a timestamp",
			input:         "starting task",
			loc:           time.UTC,
			expectedError: true,
		},
		{
			name:          "date only",
			input:         "2026-08-29",
			loc:           time.UTC,
			expectedError: true,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseLogTimestamp(tc.input, tc.loc)
			if tc.expectedError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedUTC, parsed.UTC().Format(time.RFC3339))
			assert.Equal(t, tc.loc, parsed.Location(), "result is converted to the display location")
		})
	}
}

func TestLoadDisplayLocation(t *testing.T) {
	loc, err := LoadDisplayLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)

	loc, err = LoadDisplayLocation("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())

	_, err = LoadDisplayLocation("Mars/Olympus")
	require.Error(t, err)
}
