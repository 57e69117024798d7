package command

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/school-records/internal/domain/course"
	"github.com/alem-hub/school-records/internal/domain/schedule"
	"github.com/alem-hub/school-records/internal/domain/shared"
)

func newTestCourse(id, name, teacherID, classID string) *course.Course {
	return &course.Course{
		ID:        id,
		Name:      name,
		Code:      "C-" + id,
		TeacherID: teacherID,
		ClassID:   classID,
		Active:    true,
	}
}

func mustPlan(t *testing.T, handler *PlanScheduleHandler, cmd PlanScheduleCommand) *schedule.Schedule {
	t.Helper()
	result, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	return result.Schedule
}

func TestPlanScheduleHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("plans a slot and derives display fields", func(t *testing.T) {
		courses := newFakeCourseRepo(newTestCourse("course-1", "Algebra", "teacher-1", "class-1"))
		publisher := &fakePublisher{}
		handler := NewPlanScheduleHandler(newFakeScheduleRepo(), courses, publisher)

		result, err := handler.Handle(ctx, PlanScheduleCommand{
			ClassID:   "class-1",
			CourseID:  "course-1",
			DayOfWeek: schedule.Monday,
			StartTime: 9.5,
			EndTime:   11.0,
		})
		require.NoError(t, err)

		assert.Equal(t, "teacher-1", result.Schedule.TeacherID)
		assert.InDelta(t, 1.5, result.Schedule.Duration, 1e-9)
		assert.Equal(t, "Monday 09:30 - Algebra", result.Schedule.DisplayName)
		require.Len(t, publisher.published, 1)
		assert.Equal(t, shared.EventSchedulePlanned, publisher.published[0].EventType())
	})

	t.Run("rejects overlapping class slot", func(t *testing.T) {
		courses := newFakeCourseRepo(
			newTestCourse("course-1", "Algebra", "teacher-1", "class-1"),
			newTestCourse("course-2", "History", "teacher-2", "class-1"),
		)
		slots := newFakeScheduleRepo()
		handler := NewPlanScheduleHandler(slots, courses, &fakePublisher{})

		mustPlan(t, handler, PlanScheduleCommand{
			ClassID:   "class-1",
			CourseID:  "course-1",
			DayOfWeek: schedule.Monday,
			StartTime: 9.0,
			EndTime:   10.5,
		})

		_, err := handler.Handle(ctx, PlanScheduleCommand{
			ClassID:   "class-1",
			CourseID:  "course-2",
			DayOfWeek: schedule.Monday,
			StartTime: 10.0,
			EndTime:   11.0,
		})
		require.Error(t, err)
		assert.True(t, shared.IsConflict(err))
	})

	t.Run("rejects teacher double booking across classes", func(t *testing.T) {
		courses := newFakeCourseRepo(
			newTestCourse("course-1", "Algebra", "teacher-1", "class-1"),
			newTestCourse("course-2", "Geometry", "teacher-1", "class-2"),
		)
		slots := newFakeScheduleRepo()
		handler := NewPlanScheduleHandler(slots, courses, &fakePublisher{})

		mustPlan(t, handler, PlanScheduleCommand{
			ClassID:   "class-1",
			CourseID:  "course-1",
			DayOfWeek: schedule.Tuesday,
			StartTime: 9.0,
			EndTime:   10.5,
		})

		_, err := handler.Handle(ctx, PlanScheduleCommand{
			ClassID:   "class-2",
			CourseID:  "course-2",
			DayOfWeek: schedule.Tuesday,
			StartTime: 10.0,
			EndTime:   11.0,
		})
		require.Error(t, err)
		assert.True(t, shared.IsConflict(err))
	})

	t.Run("allows slots touching at the boundary", func(t *testing.T) {
		courses := newFakeCourseRepo(
			newTestCourse("course-1", "Algebra", "teacher-1", "class-1"),
			newTestCourse("course-2", "History", "teacher-1", "class-1"),
		)
		slots := newFakeScheduleRepo()
		handler := NewPlanScheduleHandler(slots, courses, &fakePublisher{})

		mustPlan(t, handler, PlanScheduleCommand{
			ClassID:   "class-1",
			CourseID:  "course-1",
			DayOfWeek: schedule.Monday,
			StartTime: 9.0,
			EndTime:   10.5,
		})

		_, err := handler.Handle(ctx, PlanScheduleCommand{
			ClassID:   "class-1",
			CourseID:  "course-2",
			DayOfWeek: schedule.Monday,
			StartTime: 10.5,
			EndTime:   11.0,
		})
		assert.NoError(t, err)
	})

	t.Run("rejects malformed interval before conflict search", func(t *testing.T) {
		courses := newFakeCourseRepo(newTestCourse("course-1", "Algebra", "teacher-1", "class-1"))
		handler := NewPlanScheduleHandler(newFakeScheduleRepo(), courses, &fakePublisher{})

		_, err := handler.Handle(ctx, PlanScheduleCommand{
			ClassID:   "class-1",
			CourseID:  "course-1",
			DayOfWeek: schedule.Monday,
			StartTime: 11.0,
			EndTime:   9.0,
		})
		assert.ErrorIs(t, err, schedule.ErrTimeOrder)
	})
}

func TestReslotScheduleHandler(t *testing.T) {
	ctx := context.Background()

	courses := newFakeCourseRepo(
		newTestCourse("course-1", "Algebra", "teacher-1", "class-1"),
		newTestCourse("course-2", "History", "teacher-2", "class-1"),
	)
	slots := newFakeScheduleRepo()
	planner := NewPlanScheduleHandler(slots, courses, &fakePublisher{})

	first := mustPlan(t, planner, PlanScheduleCommand{
		ClassID:   "class-1",
		CourseID:  "course-1",
		DayOfWeek: schedule.Monday,
		StartTime: 9.0,
		EndTime:   10.5,
	})
	second := mustPlan(t, planner, PlanScheduleCommand{
		ClassID:   "class-1",
		CourseID:  "course-2",
		DayOfWeek: schedule.Monday,
		StartTime: 11.0,
		EndTime:   12.0,
	})

	handler := NewReslotScheduleHandler(slots, courses, &fakePublisher{})

	// Перенос слота в свободное окно проходит; сам слот при повторной
	// проверке не считается своим конфликтом.
	moved, err := handler.Handle(ctx, ReslotScheduleCommand{
		ScheduleID: first.ID,
		DayOfWeek:  schedule.Monday,
		StartTime:  13.0,
		EndTime:    14.0,
	})
	require.NoError(t, err)
	assert.InDelta(t, 13.0, float64(moved.StartTime), 1e-9)
	// Отображаемое имя следует за новым временем.
	assert.Equal(t, "Monday 13:00 - Algebra", moved.DisplayName)

	// Перенос поверх чужого слота отклоняется.
	_, err = handler.Handle(ctx, ReslotScheduleCommand{
		ScheduleID: first.ID,
		DayOfWeek:  schedule.Monday,
		StartTime:  11.5,
		EndTime:    12.5,
	})
	require.Error(t, err)
	assert.True(t, shared.IsConflict(err))

	var conflict *shared.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, second.ID, conflict.ConflictingID)
}
