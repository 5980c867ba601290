package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, "Europe/Lisbon", Location("Europe/Lisbon").String())
	assert.Equal(t, DefaultTimezone, Location("Mars/Olympus").String())
	assert.Equal(t, DefaultTimezone, Location("").String())
}

func TestDayBounds(t *testing.T) {
	loc := Location(DefaultTimezone)

	at, err := ParseDateTime(loc, "2026-03-02", "13:45")
	require.NoError(t, err)

	start, end := DayBounds(at)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, loc), end)

	_, err = ParseDate(loc, "2026-02-30")
	assert.Error(t, err)
}
