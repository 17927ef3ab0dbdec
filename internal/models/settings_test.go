package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayName(t *testing.T) {
	// 2024-06-02 is a Sunday.
	sunday := time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "sunday", WeekdayName(sunday))
	assert.Equal(t, "monday", WeekdayName(sunday.AddDate(0, 0, 1)))
	assert.Equal(t, "saturday", WeekdayName(sunday.AddDate(0, 0, 6)))
}

func TestOpeningHoursForDate(t *testing.T) {
	hours := OpeningHours{
		"monday": {Open: "11:00", Close: "22:00"},
	}

	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	day, ok := hours.ForDate(monday)
	require.True(t, ok)
	assert.Equal(t, "11:00", day.Open)
	assert.Equal(t, "22:00", day.Close)

	tuesday := monday.AddDate(0, 0, 1)
	_, ok = hours.ForDate(tuesday)
	assert.False(t, ok, "absent weekday means closed")
}

func TestKnownWeekday(t *testing.T) {
	assert.True(t, KnownWeekday("monday"))
	assert.True(t, KnownWeekday("Sunday"))
	assert.False(t, KnownWeekday("someday"))
}
