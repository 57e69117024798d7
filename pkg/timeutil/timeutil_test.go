package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAge(t *testing.T) {
	ref := Date(2024, 6, 15)

	tests := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"birthday already passed this year", Date(2000, 3, 1), 24},
		{"birthday later this year", Date(2000, 9, 1), 23},
		{"birthday today", Date(2000, 6, 15), 24},
		{"birthday tomorrow", Date(2000, 6, 16), 23},
		{"zero date of birth", time.Time{}, 0},
		{"born this year", Date(2024, 1, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(tt.dob, ref))
		})
	}
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2024, 3, 1, 14, 35, 12, 0, time.UTC)
	assert.Equal(t, Date(2024, 3, 1), DateOf(ts))
	assert.True(t, SameDay(ts, Date(2024, 3, 1)))
	assert.False(t, SameDay(ts, Date(2024, 3, 2)))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "01/03/2024", FormatDate(Date(2024, 3, 1)))
}

func TestClockHoursString(t *testing.T) {
	tests := []struct {
		value ClockHours
		want  string
	}{
		{9.0, "09:00"},
		{9.5, "09:30"},
		{10.25, "10:15"},
		{0, "00:00"},
		{23.999, "24:00"},
		{13.75, "13:45"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.value.String())
	}
}

func TestClockHoursRanges(t *testing.T) {
	assert.True(t, ClockHours(0).IsValidStart())
	assert.False(t, ClockHours(24).IsValidStart())
	assert.True(t, ClockHours(24).IsValidEnd())
	assert.False(t, ClockHours(24.5).IsValidEnd())
	assert.False(t, ClockHours(-1).IsValidStart())

	assert.Equal(t, 570, ClockHours(9.5).Minutes())
}
