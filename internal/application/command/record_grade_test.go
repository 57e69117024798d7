package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/school-records/internal/domain/grade"
	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/internal/domain/student"
)

func TestRecordGradeHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("records grade with derived values", func(t *testing.T) {
		students := newFakeStudentRepo(newTestStudent("student-1", "Aizere", "class-1"))
		grades := newFakeGradeRepo()
		publisher := &fakePublisher{}
		handler := NewRecordGradeHandler(grades, students, publisher)

		result, err := handler.Handle(ctx, RecordGradeCommand{
			StudentID:      "student-1",
			CourseID:       "course-1",
			Value:          17,
			MaxValue:       20,
			EvaluationType: grade.EvaluationQuiz,
			Semester:       grade.SemesterFirst,
		})
		require.NoError(t, err)

		assert.InDelta(t, 85.0, result.Grade.Percentage, 1e-9)
		assert.Equal(t, grade.LetterBPlus, result.Grade.Letter)

		// Событие несёт область изменения для каскада пересчёта.
		require.Len(t, publisher.published, 1)
		changed, ok := publisher.published[0].(shared.RecordChangedEvent)
		require.True(t, ok)
		assert.Equal(t, shared.EventGradeRecorded, changed.EventType())
		assert.Equal(t, "student-1", changed.Scope.StudentID)
		assert.Equal(t, "class-1", changed.Scope.ClassID)
		assert.Equal(t, "course-1", changed.Scope.CourseID)
	})

	t.Run("defaults max grade to 20", func(t *testing.T) {
		students := newFakeStudentRepo(newTestStudent("student-1", "Aizere", "class-1"))
		handler := NewRecordGradeHandler(newFakeGradeRepo(), students, &fakePublisher{})

		result, err := handler.Handle(ctx, RecordGradeCommand{
			StudentID: "student-1",
			CourseID:  "course-1",
			Value:     19,
		})
		require.NoError(t, err)

		assert.InDelta(t, 20.0, result.Grade.MaxValue, 1e-9)
		assert.InDelta(t, 95.0, result.Grade.Percentage, 1e-9)
		assert.Equal(t, grade.LetterAPlus, result.Grade.Letter)
	})

	t.Run("rejects grade above max", func(t *testing.T) {
		students := newFakeStudentRepo(newTestStudent("student-1", "Aizere", "class-1"))
		publisher := &fakePublisher{}
		handler := NewRecordGradeHandler(newFakeGradeRepo(), students, publisher)

		_, err := handler.Handle(ctx, RecordGradeCommand{
			StudentID: "student-1",
			CourseID:  "course-1",
			Value:     25,
			MaxValue:  20,
		})
		assert.ErrorIs(t, err, grade.ErrGradeAboveMax)
		assert.Empty(t, publisher.published)
	})

	t.Run("rejects unknown student", func(t *testing.T) {
		handler := NewRecordGradeHandler(newFakeGradeRepo(), newFakeStudentRepo(), &fakePublisher{})

		_, err := handler.Handle(ctx, RecordGradeCommand{
			StudentID: "ghost",
			CourseID:  "course-1",
			Value:     10,
		})
		assert.ErrorIs(t, err, student.ErrStudentNotFound)
	})
}

func TestRescoreGradeHandler(t *testing.T) {
	ctx := context.Background()

	students := newFakeStudentRepo(newTestStudent("student-1", "Aizere", "class-1"))
	grades := newFakeGradeRepo()
	recorder := NewRecordGradeHandler(grades, students, &fakePublisher{})

	created, err := recorder.Handle(ctx, RecordGradeCommand{
		StudentID: "student-1",
		CourseID:  "course-1",
		Value:     11,
		MaxValue:  20,
	})
	require.NoError(t, err)
	require.Equal(t, grade.LetterF, created.Grade.Letter)

	publisher := &fakePublisher{}
	handler := NewRescoreGradeHandler(grades, students, publisher)

	g, err := handler.Handle(ctx, RescoreGradeCommand{
		GradeID: created.Grade.ID,
		Value:   18,
	})
	require.NoError(t, err)

	assert.InDelta(t, 90.0, g.Percentage, 1e-9)
	assert.Equal(t, grade.LetterA, g.Letter)
	require.Len(t, publisher.published, 1)
	assert.Equal(t, shared.EventGradeUpdated, publisher.published[0].EventType())
}
