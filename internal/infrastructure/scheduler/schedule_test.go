package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalSchedule_Next(t *testing.T) {
	s := NewIntervalSchedule(15 * time.Minute)

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, at.Add(15*time.Minute), s.Next(at))
	assert.Equal(t, "@every 15m0s", s.String())
}

func TestDailySchedule_Next(t *testing.T) {
	s := NewDailySchedule(2, 0)

	t.Run("before the slot fires same day", func(t *testing.T) {
		at := time.Date(2026, 3, 1, 1, 30, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC), s.Next(at))
	})

	t.Run("after the slot fires next day", func(t *testing.T) {
		at := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
		assert.Equal(t, time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC), s.Next(at))
	})

	t.Run("keeps the location", func(t *testing.T) {
		loc := time.FixedZone("UTC+5", 5*3600)
		at := time.Date(2026, 3, 1, 10, 0, 0, 0, loc)
		next := s.Next(at)
		assert.Equal(t, loc, next.Location())
		assert.Equal(t, 2, next.Hour())
	})
}
