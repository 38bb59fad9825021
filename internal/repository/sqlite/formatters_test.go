package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeForDB_IsFixedWidthUTC(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	a := time.Date(2026, 3, 1, 10, 0, 0, 0, loc)
	b := time.Date(2026, 3, 1, 10, 0, 0, 123, loc)

	fa, fb := FormatTimeForDB(a), FormatTimeForDB(b)

	assert.Equal(t, "2026-03-01T04:30:00.000000000Z", fa)
	assert.Len(t, fb, len(fa))
	assert.Less(t, fa, fb)
}

func TestParseTimeFromDB_RoundTrip(t *testing.T) {
	original := time.Date(2026, 10, 14, 23, 59, 59, 999, time.UTC)

	parsed, err := ParseTimeFromDB(FormatTimeForDB(original))
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))

	parsed, err = ParseTimeFromDB("2026-10-14T08:00:00+05:30")
	require.NoError(t, err)
	assert.Equal(t, 2, parsed.UTC().Hour())
}

