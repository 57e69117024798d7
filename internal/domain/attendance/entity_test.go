package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewRecordParams {
	return NewRecordParams{
		ID:          "att-1",
		StudentID:   "student-1",
		ClassID:     "class-1",
		Date:        time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Status:      StatusPresent,
		StudentName: "Aizere",
	}
}

func TestNewRecord(t *testing.T) {
	r, err := NewRecord(validParams())
	require.NoError(t, err)

	assert.Equal(t, StatusPresent, r.Status)
	assert.True(t, r.Active)
	// Дата нормализуется до начала дня.
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), r.Date)
	assert.Equal(t, "Aizere - 15/03/2026 - Present", r.DisplayName)
}

func TestNewRecord_Validation(t *testing.T) {
	t.Run("missing student", func(t *testing.T) {
		p := validParams()
		p.StudentID = ""
		_, err := NewRecord(p)
		assert.ErrorIs(t, err, ErrStudentRequired)
	})

	t.Run("missing date", func(t *testing.T) {
		p := validParams()
		p.Date = time.Time{}
		_, err := NewRecord(p)
		assert.ErrorIs(t, err, ErrDateRequired)
	})

	t.Run("invalid status", func(t *testing.T) {
		p := validParams()
		p.Status = "vanished"
		_, err := NewRecord(p)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("check-out before check-in", func(t *testing.T) {
		p := validParams()
		p.CheckIn = 9.0
		p.CheckOut = 8.5
		_, err := NewRecord(p)
		assert.ErrorIs(t, err, ErrCheckOrder)
	})

	t.Run("check-out alone is allowed unordered", func(t *testing.T) {
		p := validParams()
		p.CheckIn = 9.0
		p.CheckOut = 0
		_, err := NewRecord(p)
		assert.NoError(t, err)
	})
}

// Только present повышает процент посещаемости.
func TestStatus_CountsAsAttended(t *testing.T) {
	assert.True(t, StatusPresent.CountsAsAttended())
	assert.False(t, StatusLate.CountsAsAttended())
	assert.False(t, StatusAbsent.CountsAsAttended())
	assert.False(t, StatusExcused.CountsAsAttended())
}

func TestRecord_ChangeStatus(t *testing.T) {
	r, err := NewRecord(validParams())
	require.NoError(t, err)

	require.NoError(t, r.ChangeStatus(StatusLate))
	assert.Equal(t, StatusLate, r.Status)

	assert.ErrorIs(t, r.ChangeStatus("gone"), ErrInvalidStatus)
	assert.Equal(t, StatusLate, r.Status)
}
