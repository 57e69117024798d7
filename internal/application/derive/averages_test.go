package derive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/school-records/internal/domain/attendance"
	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/internal/domain/student"
)

// ──────────────────────────────────────────────────────────────────────────────
// Вычисляющие фейки: контракт хранилища, выполненный в памяти. Средние
// ученика и курса - среднее сырых значений оценок (не процентов), среднее
// класса - среднее средних его учеников, посещаемость - доля записей со
// статусом present.
// ──────────────────────────────────────────────────────────────────────────────

type bookGrade struct {
	studentID string
	courseID  string
	value     float64
}

type bookMark struct {
	studentID string
	status    attendance.Status
}

type gradebook struct {
	students map[string]*student.Student
	grades   []bookGrade
	marks    []bookMark

	classAverages  map[string]float64
	courseAverages map[string]float64
}

func newGradebook(students ...*student.Student) *gradebook {
	b := &gradebook{
		students:       make(map[string]*student.Student),
		classAverages:  make(map[string]float64),
		courseAverages: make(map[string]float64),
	}
	for _, s := range students {
		b.students[s.ID] = s
	}
	return b
}

func (b *gradebook) GetByID(_ context.Context, id string) (*student.Student, error) {
	if s, ok := b.students[id]; ok {
		return s, nil
	}
	return nil, student.ErrStudentNotFound
}

func (b *gradebook) SyncAverageGrade(_ context.Context, id string) error {
	s, ok := b.students[id]
	if !ok {
		return student.ErrStudentNotFound
	}
	var total float64
	var count int
	for _, g := range b.grades {
		if g.studentID == id {
			total += g.value
			count++
		}
	}
	s.AverageGrade = 0
	if count > 0 {
		s.AverageGrade = total / float64(count)
	}
	return nil
}

func (b *gradebook) SyncAttendanceRate(_ context.Context, id string) error {
	s, ok := b.students[id]
	if !ok {
		return student.ErrStudentNotFound
	}
	var present, total int
	for _, m := range b.marks {
		if m.studentID != id {
			continue
		}
		total++
		if m.status.CountsAsAttended() {
			present++
		}
	}
	s.AttendanceRate = 0
	if total > 0 {
		s.AttendanceRate = 100 * float64(present) / float64(total)
	}
	return nil
}

func (b *gradebook) SyncAge(context.Context, string) error { return nil }

type gradebookClasses struct{ book *gradebook }

func (c *gradebookClasses) SyncStudentCount(context.Context, string) error { return nil }

func (c *gradebookClasses) SyncAverageGrade(_ context.Context, id string) error {
	var total float64
	var count int
	for _, s := range c.book.students {
		if s.ClassID == id {
			total += s.AverageGrade
			count++
		}
	}
	c.book.classAverages[id] = 0
	if count > 0 {
		c.book.classAverages[id] = total / float64(count)
	}
	return nil
}

type gradebookCourses struct{ book *gradebook }

func (c *gradebookCourses) SyncAverageGrade(_ context.Context, id string) error {
	var total float64
	var count int
	for _, g := range c.book.grades {
		if g.courseID == id {
			total += g.value
			count++
		}
	}
	c.book.courseAverages[id] = 0
	if count > 0 {
		c.book.courseAverages[id] = total / float64(count)
	}
	return nil
}

type gradebookTeachers struct{}

func (gradebookTeachers) SyncTotalCourses(context.Context, string) error { return nil }

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

// Оценки 15 и 17 дают среднее 16.0 - среднее сырых баллов, а не
// процентов от максимума.
func TestRecompute_AverageIsMeanOfRawValues(t *testing.T) {
	book := newGradebook(
		&student.Student{ID: "student-1", ClassID: "class-1", Active: true},
		&student.Student{ID: "student-2", ClassID: "class-1", Active: true, AverageGrade: 12},
	)
	book.grades = []bookGrade{
		{studentID: "student-1", courseID: "course-1", value: 15},
		{studentID: "student-1", courseID: "course-1", value: 17},
		{studentID: "student-2", courseID: "course-1", value: 12},
	}
	engine := NewEngine(book, &gradebookClasses{book: book}, &gradebookCourses{book: book}, gradebookTeachers{})

	scope := shared.ChangeScope{StudentID: "student-1", ClassID: "class-1", CourseID: "course-1"}
	require.NoError(t, engine.Recompute(context.Background(), scope, FieldGradeValue))

	assert.InDelta(t, 16.0, book.students["student-1"].AverageGrade, 1e-9)
	// Среднее курса - по всем его оценкам.
	assert.InDelta(t, (15.0+17.0+12.0)/3, book.courseAverages["course-1"], 1e-9)
	// Среднее класса - среднее средних учеников, и оно видит уже
	// пересчитанное среднее ученика.
	assert.InDelta(t, (16.0+12.0)/2, book.classAverages["class-1"], 1e-9)
}

// Опоздание в долю посещаемости не входит: present из двух записей - 50%.
func TestRecompute_AttendanceRateCountsOnlyPresent(t *testing.T) {
	book := newGradebook(&student.Student{ID: "student-1", ClassID: "class-1", Active: true})
	book.marks = []bookMark{
		{studentID: "student-1", status: attendance.StatusPresent},
		{studentID: "student-1", status: attendance.StatusLate},
	}
	engine := NewEngine(book, &gradebookClasses{book: book}, &gradebookCourses{book: book}, gradebookTeachers{})

	scope := shared.ChangeScope{StudentID: "student-1"}
	require.NoError(t, engine.Recompute(context.Background(), scope, FieldAttendanceStatus))

	assert.InDelta(t, 50.0, book.students["student-1"].AttendanceRate, 1e-9)
}
