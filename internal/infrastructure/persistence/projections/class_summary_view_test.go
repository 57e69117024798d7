package projections

import (
	"context"
	"testing"

	"github.com/alem-hub/school-records/internal/domain/class"
	"github.com/alem-hub/school-records/internal/domain/course"
	"github.com/alem-hub/school-records/internal/domain/student"
	"github.com/alem-hub/school-records/internal/domain/teacher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestSummary(t *testing.T, v *ClassSummaryView) *ClassSummary {
	t.Helper()

	summary, err := v.BuildSummary(BuildSummaryParams{
		Class: &class.Class{
			ID:                "class-1",
			Name:              "Grade 5 Alpha",
			Code:              "5A",
			Level:             5,
			Section:           "A",
			Capacity:          30,
			Room:              "201",
			HeadTeacherID:     "teacher-1",
			StudentCount:      2,
			AverageClassGrade: 16.0,
		},
		HeadTeacher: &teacher.Teacher{ID: "teacher-1", Name: "Aigul Bekova"},
		Students: []*student.Student{
			{ID: "student-1", AttendanceRate: 90},
			{ID: "student-2", AttendanceRate: 70},
		},
		Courses: []*course.Course{
			{ID: "course-1", HoursPerWeek: 4},
			{ID: "course-2", HoursPerWeek: 3},
		},
	})
	require.NoError(t, err)
	return summary
}

func TestClassSummaryView_BuildSummary(t *testing.T) {
	v := NewClassSummaryView()
	summary := buildTestSummary(t, v)

	assert.Equal(t, "Grade 5 Alpha", summary.Name)
	assert.Equal(t, "Aigul Bekova", summary.HeadTeacherName)
	assert.Equal(t, 28, summary.SeatsLeft)
	assert.InDelta(t, 16.0, summary.AverageGrade, 0.001)
	assert.InDelta(t, 80.0, summary.AttendanceRate, 0.001)
	assert.Equal(t, 2, summary.CourseCount)
	assert.Equal(t, 7, summary.TotalWeeklyHours)
}

func TestClassSummaryView_BuildSummary_RequiresClass(t *testing.T) {
	v := NewClassSummaryView()

	_, err := v.BuildSummary(BuildSummaryParams{})
	assert.Error(t, err)
}

func TestClassSummaryView_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	v := NewClassSummaryView()
	summary := buildTestSummary(t, v)

	require.NoError(t, v.Upsert(summary))

	byID, err := v.GetByClassID(ctx, "class-1")
	require.NoError(t, err)
	assert.Equal(t, "5A", byID.Code)

	byCode, err := v.GetByCode(ctx, "5A")
	require.NoError(t, err)
	assert.Equal(t, "class-1", byCode.ClassID)

	_, err = v.GetByClassID(ctx, "missing")
	assert.ErrorIs(t, err, class.ErrClassNotFound)
}

func TestClassSummaryView_UpdateAverages(t *testing.T) {
	ctx := context.Background()
	v := NewClassSummaryView()
	require.NoError(t, v.Upsert(buildTestSummary(t, v)))

	v.UpdateAverages("class-1", 14.2)

	summary, err := v.GetByClassID(ctx, "class-1")
	require.NoError(t, err)
	assert.InDelta(t, 14.2, summary.AverageGrade, 0.001)
}

func TestClassSummaryView_UpdateStudentCount(t *testing.T) {
	ctx := context.Background()
	v := NewClassSummaryView()
	require.NoError(t, v.Upsert(buildTestSummary(t, v)))

	v.UpdateStudentCount("class-1", 30)

	summary, err := v.GetByClassID(ctx, "class-1")
	require.NoError(t, err)
	assert.Equal(t, 30, summary.StudentCount)
	assert.Equal(t, 0, summary.SeatsLeft)
}

func TestClassSummaryView_GetAll_Sorted(t *testing.T) {
	ctx := context.Background()
	v := NewClassSummaryView()

	require.NoError(t, v.Upsert(&ClassSummary{ClassID: "c-3", Code: "6B", Level: 6, Section: "B"}))
	require.NoError(t, v.Upsert(&ClassSummary{ClassID: "c-1", Code: "5A", Level: 5, Section: "A"}))
	require.NoError(t, v.Upsert(&ClassSummary{ClassID: "c-2", Code: "5B", Level: 5, Section: "B"}))

	all, err := v.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"5A", "5B", "6B"}, []string{all[0].Code, all[1].Code, all[2].Code})
}

func TestClassSummaryView_Delete(t *testing.T) {
	ctx := context.Background()
	v := NewClassSummaryView()
	require.NoError(t, v.Upsert(buildTestSummary(t, v)))

	v.Delete("class-1")

	_, err := v.GetByClassID(ctx, "class-1")
	assert.ErrorIs(t, err, class.ErrClassNotFound)
	_, err = v.GetByCode(ctx, "5A")
	assert.ErrorIs(t, err, class.ErrClassNotFound)
	assert.Equal(t, 0, v.Count())
}
