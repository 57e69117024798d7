package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/school-records/internal/domain/attendance"
	"github.com/alem-hub/school-records/internal/domain/shared"
)

func TestMarkAttendanceHandler(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	t.Run("marks attendance", func(t *testing.T) {
		students := newFakeStudentRepo(newTestStudent("student-1", "Aizere", "class-1"))
		publisher := &fakePublisher{}
		handler := NewMarkAttendanceHandler(newFakeAttendanceRepo(), students, publisher)

		result, err := handler.Handle(ctx, MarkAttendanceCommand{
			StudentID: "student-1",
			CourseID:  "course-1",
			Date:      date,
			Status:    attendance.StatusPresent,
		})
		require.NoError(t, err)

		assert.Equal(t, "class-1", result.Record.ClassID)
		assert.Equal(t, "Aizere - 16/03/2026 - Present", result.Record.DisplayName)
		require.Len(t, publisher.published, 1)
		assert.Equal(t, shared.EventAttendanceMarked, publisher.published[0].EventType())
	})

	t.Run("rejects duplicate for same student, date and course", func(t *testing.T) {
		students := newFakeStudentRepo(newTestStudent("student-1", "Aizere", "class-1"))
		handler := NewMarkAttendanceHandler(newFakeAttendanceRepo(), students, &fakePublisher{})

		cmd := MarkAttendanceCommand{
			StudentID: "student-1",
			CourseID:  "course-1",
			Date:      date,
			Status:    attendance.StatusPresent,
		}
		_, err := handler.Handle(ctx, cmd)
		require.NoError(t, err)

		_, err = handler.Handle(ctx, cmd)
		assert.ErrorIs(t, err, attendance.ErrDuplicate)
	})

	t.Run("daily records without course are not deduplicated", func(t *testing.T) {
		students := newFakeStudentRepo(newTestStudent("student-1", "Aizere", "class-1"))
		handler := NewMarkAttendanceHandler(newFakeAttendanceRepo(), students, &fakePublisher{})

		cmd := MarkAttendanceCommand{
			StudentID: "student-1",
			Date:      date,
			Status:    attendance.StatusPresent,
		}
		_, err := handler.Handle(ctx, cmd)
		require.NoError(t, err)

		_, err = handler.Handle(ctx, cmd)
		assert.NoError(t, err)
	})
}

func TestMarkBulkAttendanceHandler(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

	students := newFakeStudentRepo(
		newTestStudent("student-1", "Aizere", "class-1"),
		newTestStudent("student-2", "Dias", "class-1"),
		newTestStudent("student-3", "Kamila", "class-1"),
	)
	records := newFakeAttendanceRepo()
	single := NewMarkAttendanceHandler(records, students, &fakePublisher{})
	handler := NewMarkBulkAttendanceHandler(single)

	// У второго ученика уже есть запись за эту дату по этому курсу.
	_, err := single.Handle(ctx, MarkAttendanceCommand{
		StudentID: "student-2",
		CourseID:  "course-1",
		Date:      date,
		Status:    attendance.StatusLate,
	})
	require.NoError(t, err)

	result, err := handler.Handle(ctx, MarkBulkAttendanceCommand{
		StudentIDs: []string{"student-1", "student-2", "student-3"},
		CourseID:   "course-1",
		Date:       date,
		Status:     attendance.StatusPresent,
	})
	require.NoError(t, err)

	// Дубликат отклоняет только запись второго ученика.
	assert.Equal(t, 3, result.TotalCount)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.ErrorIs(t, result.Errors["student-2"], attendance.ErrDuplicate)
	assert.Len(t, result.Records, 2)
}
