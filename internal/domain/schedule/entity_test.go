package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/pkg/timeutil"
)

func newSlot(t *testing.T, id, classID, teacherID string, day Weekday, start, end float64) *Schedule {
	t.Helper()
	s, err := NewSchedule(NewScheduleParams{
		ID:         id,
		ClassID:    classID,
		CourseID:   "course-1",
		TeacherID:  teacherID,
		DayOfWeek:  day,
		StartTime:  timeutil.ClockHours(start),
		EndTime:    timeutil.ClockHours(end),
		CourseName: "Algebra",
	})
	require.NoError(t, err)
	return s
}

func TestNewSchedule_TimeValidation(t *testing.T) {
	tests := []struct {
		name    string
		start   float64
		end     float64
		wantErr error
	}{
		{"valid", 9.0, 10.5, nil},
		{"equal start and end", 10.0, 10.0, ErrTimeOrder},
		{"end before start", 11.0, 9.0, ErrTimeOrder},
		{"negative start", -1.0, 10.0, ErrStartOutOfRange},
		{"start at 24", 24.0, 24.0, ErrStartOutOfRange},
		{"end above 24", 23.0, 24.5, ErrEndOutOfRange},
		{"end exactly 24", 23.0, 24.0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchedule(NewScheduleParams{
				ID:        "slot-1",
				ClassID:   "class-1",
				CourseID:  "course-1",
				TeacherID: "teacher-1",
				DayOfWeek: Monday,
				StartTime: timeutil.ClockHours(tt.start),
				EndTime:   timeutil.ClockHours(tt.end),
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewSchedule_RequiredReferences(t *testing.T) {
	params := NewScheduleParams{
		ID:        "slot-1",
		ClassID:   "class-1",
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		DayOfWeek: Monday,
		StartTime: 9.0,
		EndTime:   10.0,
	}

	p := params
	p.ClassID = ""
	_, err := NewSchedule(p)
	assert.ErrorIs(t, err, ErrClassRequired)

	p = params
	p.CourseID = ""
	_, err = NewSchedule(p)
	assert.ErrorIs(t, err, ErrCourseRequired)

	p = params
	p.TeacherID = ""
	_, err = NewSchedule(p)
	assert.ErrorIs(t, err, ErrTeacherRequired)

	p = params
	p.DayOfWeek = "someday"
	_, err = NewSchedule(p)
	assert.ErrorIs(t, err, ErrInvalidWeekday)
}

func TestNewSchedule_DateOrder(t *testing.T) {
	_, err := NewSchedule(NewScheduleParams{
		ID:        "slot-1",
		ClassID:   "class-1",
		CourseID:  "course-1",
		TeacherID: "teacher-1",
		DayOfWeek: Monday,
		StartTime: 9.0,
		EndTime:   10.0,
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, ErrDateOrder)
}

func TestSchedule_DerivedFields(t *testing.T) {
	s := newSlot(t, "slot-1", "class-1", "teacher-1", Monday, 9.5, 11.0)

	assert.InDelta(t, 1.5, s.Duration, 1e-9)
	assert.Equal(t, "Monday 09:30 - Algebra", s.DisplayName)
	assert.Equal(t, SessionLecture, s.SessionType)
	assert.True(t, s.Active)
}

func TestSchedule_DisplayNameRoundsMinutes(t *testing.T) {
	s, err := NewSchedule(NewScheduleParams{
		ID:         "slot-1",
		ClassID:    "class-1",
		CourseID:   "course-1",
		TeacherID:  "teacher-1",
		DayOfWeek:  Friday,
		StartTime:  10.26,
		EndTime:    11.0,
		CourseName: "Chemistry",
	})
	require.NoError(t, err)

	// 10.26 часа == 10:15.6, округляется до 10:16.
	assert.Equal(t, "Friday 10:16 - Chemistry", s.DisplayName)
}

func TestSchedule_Overlaps(t *testing.T) {
	tests := []struct {
		name         string
		s1, e1       float64
		s2, e2       float64
		wantOverlaps bool
	}{
		{"partial overlap", 9.0, 10.5, 10.0, 11.0, true},
		{"touching boundary", 9.0, 10.5, 10.5, 11.0, false},
		{"containment", 9.0, 12.0, 10.0, 11.0, true},
		{"identical", 9.0, 10.0, 9.0, 10.0, true},
		{"disjoint", 8.0, 9.0, 10.0, 11.0, false},
		{"touching other side", 10.5, 11.0, 9.0, 10.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newSlot(t, "a", "class-1", "teacher-1", Monday, tt.s1, tt.e1)
			b := newSlot(t, "b", "class-1", "teacher-1", Monday, tt.s2, tt.e2)

			assert.Equal(t, tt.wantOverlaps, a.Overlaps(b))
			assert.Equal(t, tt.wantOverlaps, b.Overlaps(a))
		})
	}
}

func TestFindConflict(t *testing.T) {
	t.Run("class conflict on overlapping slots", func(t *testing.T) {
		existing := newSlot(t, "existing", "class-1", "teacher-1", Monday, 9.0, 10.5)
		candidate := newSlot(t, "candidate", "class-1", "teacher-2", Monday, 10.0, 11.0)

		err := FindConflict(candidate, []*Schedule{existing})
		require.Error(t, err)
		assert.True(t, shared.IsConflict(err))

		var conflict *shared.ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "class", conflict.Party)
		assert.Equal(t, "existing", conflict.ConflictingID)
	})

	t.Run("teacher conflict across classes", func(t *testing.T) {
		existing := newSlot(t, "existing", "class-1", "teacher-1", Monday, 9.0, 10.5)
		candidate := newSlot(t, "candidate", "class-2", "teacher-1", Monday, 10.0, 11.0)

		err := FindConflict(candidate, []*Schedule{existing})
		require.Error(t, err)

		var conflict *shared.ConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, "teacher", conflict.Party)
	})

	t.Run("touching boundary is not a conflict", func(t *testing.T) {
		existing := newSlot(t, "existing", "class-1", "teacher-1", Monday, 9.0, 10.5)
		candidate := newSlot(t, "candidate", "class-1", "teacher-1", Monday, 10.5, 11.0)

		assert.NoError(t, FindConflict(candidate, []*Schedule{existing}))
	})

	t.Run("different weekday is not a conflict", func(t *testing.T) {
		existing := newSlot(t, "existing", "class-1", "teacher-1", Monday, 9.0, 10.5)
		candidate := newSlot(t, "candidate", "class-1", "teacher-1", Tuesday, 9.0, 10.5)

		assert.NoError(t, FindConflict(candidate, []*Schedule{existing}))
	})

	t.Run("inactive slot is skipped", func(t *testing.T) {
		existing := newSlot(t, "existing", "class-1", "teacher-1", Monday, 9.0, 10.5)
		existing.Deactivate()
		candidate := newSlot(t, "candidate", "class-1", "teacher-1", Monday, 10.0, 11.0)

		assert.NoError(t, FindConflict(candidate, []*Schedule{existing}))
	})

	t.Run("candidate is skipped when rechecking itself", func(t *testing.T) {
		existing := newSlot(t, "same-id", "class-1", "teacher-1", Monday, 9.0, 10.5)
		candidate := newSlot(t, "same-id", "class-1", "teacher-1", Monday, 9.0, 10.5)

		assert.NoError(t, FindConflict(candidate, []*Schedule{existing}))
	})

	t.Run("unrelated class and teacher do not conflict", func(t *testing.T) {
		existing := newSlot(t, "existing", "class-1", "teacher-1", Monday, 9.0, 10.5)
		candidate := newSlot(t, "candidate", "class-2", "teacher-2", Monday, 9.0, 10.5)

		assert.NoError(t, FindConflict(candidate, []*Schedule{existing}))
	})
}

func TestSchedule_Reslot(t *testing.T) {
	s := newSlot(t, "slot-1", "class-1", "teacher-1", Monday, 9.0, 10.0)

	require.NoError(t, s.Reslot(Wednesday, 14.0, 15.5, "Algebra"))
	assert.Equal(t, Wednesday, s.DayOfWeek)
	assert.InDelta(t, 1.5, s.Duration, 1e-9)
	// Отображаемое имя пересчитывается вместе с временем.
	assert.Equal(t, "Wednesday 14:00 - Algebra", s.DisplayName)

	err := s.Reslot(Wednesday, 15.0, 14.0, "Algebra")
	assert.ErrorIs(t, err, ErrTimeOrder)
	// Неудачный перенос не меняет слот.
	assert.InDelta(t, 14.0, float64(s.StartTime), 1e-9)
	assert.Equal(t, "Wednesday 14:00 - Algebra", s.DisplayName)
}
