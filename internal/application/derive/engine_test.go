package derive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/internal/domain/student"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes: record every sync call in order.
// ──────────────────────────────────────────────────────────────────────────────

type callLog struct {
	calls []string
}

func (l *callLog) record(name, id string) {
	l.calls = append(l.calls, name+":"+id)
}

type fakeStudents struct {
	log      *callLog
	students map[string]*student.Student
}

func (f *fakeStudents) GetByID(_ context.Context, id string) (*student.Student, error) {
	f.log.record("students.get", id)
	if s, ok := f.students[id]; ok {
		return s, nil
	}
	return nil, student.ErrStudentNotFound
}

func (f *fakeStudents) SyncAverageGrade(_ context.Context, id string) error {
	f.log.record("students.avg", id)
	return nil
}

func (f *fakeStudents) SyncAttendanceRate(_ context.Context, id string) error {
	f.log.record("students.rate", id)
	return nil
}

func (f *fakeStudents) SyncAge(_ context.Context, id string) error {
	f.log.record("students.age", id)
	return nil
}

type fakeClasses struct{ log *callLog }

func (f *fakeClasses) SyncStudentCount(_ context.Context, id string) error {
	f.log.record("classes.count", id)
	return nil
}

func (f *fakeClasses) SyncAverageGrade(_ context.Context, id string) error {
	f.log.record("classes.avg", id)
	return nil
}

type fakeCourses struct{ log *callLog }

func (f *fakeCourses) SyncAverageGrade(_ context.Context, id string) error {
	f.log.record("courses.avg", id)
	return nil
}

type fakeTeachers struct{ log *callLog }

func (f *fakeTeachers) SyncTotalCourses(_ context.Context, id string) error {
	f.log.record("teachers.total", id)
	return nil
}

func newTestEngine(students map[string]*student.Student) (*Engine, *callLog) {
	log := &callLog{}
	return NewEngine(
		&fakeStudents{log: log, students: students},
		&fakeClasses{log: log},
		&fakeCourses{log: log},
		&fakeTeachers{log: log},
	), log
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestTopologicalOrder_Complete(t *testing.T) {
	order := topologicalOrder()
	require.Len(t, order, len(nodes))

	pos := make(map[Field]int, len(order))
	for i, f := range order {
		pos[f] = i
	}
	for from, deps := range edges {
		for _, to := range deps {
			assert.Less(t, pos[from], pos[to], "%s must precede %s", from, to)
		}
	}
}

func TestRecompute_GradeChangeCascades(t *testing.T) {
	engine, log := newTestEngine(nil)

	scope := shared.ChangeScope{
		StudentID: "student-1",
		ClassID:   "class-1",
		CourseID:  "course-1",
	}
	err := engine.Recompute(context.Background(), scope, FieldGradeValue, FieldGradeMaxValue)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"students.avg:student-1",
		"classes.avg:class-1",
		"courses.avg:course-1",
	}, log.calls)

	// Среднее ученика пересчитывается раньше среднего класса.
	assert.Less(t, indexOf(log.calls, "students.avg:student-1"), indexOf(log.calls, "classes.avg:class-1"))
}

func TestRecompute_EachFieldOnce(t *testing.T) {
	engine, log := newTestEngine(nil)

	// И оценка, и перевод в другой класс затрагивают среднее класса;
	// пересчёт выполняется один раз.
	scope := shared.ChangeScope{StudentID: "student-1", ClassID: "class-1", CourseID: "course-1"}
	err := engine.Recompute(context.Background(), scope, FieldGradeValue, FieldStudentClass)
	require.NoError(t, err)

	assert.Equal(t, 1, countOf(log.calls, "classes.avg:class-1"))
}

func TestRecompute_AttendanceChange(t *testing.T) {
	engine, log := newTestEngine(nil)

	scope := shared.ChangeScope{StudentID: "student-1"}
	err := engine.Recompute(context.Background(), scope, FieldAttendanceStatus)
	require.NoError(t, err)

	assert.Equal(t, []string{"students.rate:student-1"}, log.calls)
}

func TestRecompute_ClassReassignment(t *testing.T) {
	engine, log := newTestEngine(nil)

	scope := shared.ChangeScope{StudentID: "student-1", ClassID: "class-2"}
	err := engine.Recompute(context.Background(), scope, FieldStudentClass)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		"classes.count:class-2",
		"classes.avg:class-2",
	}, log.calls)
}

func TestRecompute_DateOfBirthChange(t *testing.T) {
	engine, log := newTestEngine(nil)

	scope := shared.ChangeScope{StudentID: "student-1"}
	err := engine.Recompute(context.Background(), scope, FieldStudentDateOfBirth)
	require.NoError(t, err)

	assert.Equal(t, []string{"students.age:student-1"}, log.calls)
}

func TestRecompute_CourseReassignment(t *testing.T) {
	engine, log := newTestEngine(nil)

	scope := shared.ChangeScope{TeacherID: "teacher-1", CourseID: "course-1"}
	err := engine.Recompute(context.Background(), scope, FieldCourseTeacher)
	require.NoError(t, err)

	assert.Equal(t, []string{"teachers.total:teacher-1"}, log.calls)
}

func TestRecompute_EnrichesScopeFromStudent(t *testing.T) {
	engine, log := newTestEngine(map[string]*student.Student{
		"student-1": {ID: "student-1", ClassID: "class-7"},
	})

	// Область изменения без класса: движок добирает его из ученика.
	scope := shared.ChangeScope{StudentID: "student-1", CourseID: "course-1"}
	err := engine.Recompute(context.Background(), scope, FieldGradeValue)
	require.NoError(t, err)

	assert.Contains(t, log.calls, "students.get:student-1")
	assert.Contains(t, log.calls, "classes.avg:class-7")
}

func TestRecompute_SkipsMissingScopeLinks(t *testing.T) {
	engine, log := newTestEngine(nil)

	// Ученик без класса: пересчёт класса пропускается без ошибки.
	scope := shared.ChangeScope{StudentID: "student-1"}
	err := engine.Recompute(context.Background(), scope, FieldGradeValue)
	require.NoError(t, err)

	assert.Contains(t, log.calls, "students.avg:student-1")
	assert.NotContains(t, log.calls, "classes.avg:")
	assert.NotContains(t, log.calls, "courses.avg:")
}

func TestRecompute_NoDependents(t *testing.T) {
	engine, log := newTestEngine(nil)

	err := engine.Recompute(context.Background(), shared.ChangeScope{}, FieldGradeLetter)
	require.NoError(t, err)
	assert.Empty(t, log.calls)
}

func indexOf(calls []string, want string) int {
	for i, c := range calls {
		if c == want {
			return i
		}
	}
	return -1
}

func countOf(calls []string, want string) int {
	n := 0
	for _, c := range calls {
		if c == want {
			n++
		}
	}
	return n
}
