// Package derive реализует движок вычисляемых полей: явный граф
// зависимостей между полями записей и однопроходный пересчёт затронутых
// значений после каждой записи.
package derive

import (
	"context"
	"fmt"

	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// FIELD GRAPH
// Узлы - пары (вид записи, поле). Базовые поля пишут команды; вычисляемые
// поля пересчитывает движок. Поля одной записи (процент, буква, длительность)
// пересчитываются фабриками сущностей до сохранения, поэтому их узлы здесь
// только распространяют изменение вниз по графу.
// ══════════════════════════════════════════════════════════════════════════════

// Field идентифицирует поле записи в графе зависимостей.
type Field string

const (
	// Базовые поля.
	FieldGradeValue         Field = "grade.grade"
	FieldGradeMaxValue      Field = "grade.max_grade"
	FieldStudentClass       Field = "student.class_id"
	FieldStudentDateOfBirth Field = "student.date_of_birth"
	FieldAttendanceStatus   Field = "attendance.status"
	FieldCourseTeacher      Field = "course.teacher_id"
	FieldScheduleTimes      Field = "schedule.times"

	// Вычисляемые поля.
	FieldGradePercentage       Field = "grade.percentage"
	FieldGradeLetter           Field = "grade.grade_letter"
	FieldStudentAverageGrade   Field = "student.average_grade"
	FieldStudentAttendanceRate Field = "student.attendance_rate"
	FieldStudentAge            Field = "student.age"
	FieldClassStudentCount     Field = "class.student_count"
	FieldClassAverageGrade     Field = "class.average_class_grade"
	FieldCourseAverageGrade    Field = "course.average_course_grade"
	FieldTeacherTotalCourses   Field = "teacher.total_courses"
	FieldScheduleDuration      Field = "schedule.duration"
)

// nodes перечисляет все узлы графа в фиксированном порядке,
// чтобы топологическая сортировка была детерминированной.
var nodes = []Field{
	FieldGradeValue,
	FieldGradeMaxValue,
	FieldStudentClass,
	FieldStudentDateOfBirth,
	FieldAttendanceStatus,
	FieldCourseTeacher,
	FieldScheduleTimes,
	FieldGradePercentage,
	FieldGradeLetter,
	FieldStudentAverageGrade,
	FieldStudentAttendanceRate,
	FieldStudentAge,
	FieldClassStudentCount,
	FieldClassAverageGrade,
	FieldCourseAverageGrade,
	FieldTeacherTotalCourses,
	FieldScheduleDuration,
}

// edges задаёт рёбра графа: поле → зависящие от него поля.
var edges = map[Field][]Field{
	FieldGradeValue:          {FieldGradePercentage, FieldStudentAverageGrade, FieldCourseAverageGrade},
	FieldGradeMaxValue:       {FieldGradePercentage},
	FieldGradePercentage:     {FieldGradeLetter},
	FieldStudentAverageGrade: {FieldClassAverageGrade},
	FieldAttendanceStatus:    {FieldStudentAttendanceRate},
	FieldStudentClass:        {FieldClassStudentCount, FieldClassAverageGrade},
	FieldStudentDateOfBirth:  {FieldStudentAge},
	FieldCourseTeacher:       {FieldTeacherTotalCourses},
	FieldScheduleTimes:       {FieldScheduleDuration},
}

// ══════════════════════════════════════════════════════════════════════════════
// STORE CONTRACTS
// Движку нужны только агрегатные пересчёты и поиск ученика для обогащения
// области изменения.
// ══════════════════════════════════════════════════════════════════════════════

// StudentStore пересчитывает вычисляемые поля ученика.
type StudentStore interface {
	GetByID(ctx context.Context, id string) (*student.Student, error)
	SyncAverageGrade(ctx context.Context, id string) error
	SyncAttendanceRate(ctx context.Context, id string) error
	SyncAge(ctx context.Context, id string) error
}

// ClassStore пересчитывает вычисляемые поля класса.
type ClassStore interface {
	SyncStudentCount(ctx context.Context, id string) error
	SyncAverageGrade(ctx context.Context, id string) error
}

// CourseStore пересчитывает вычисляемые поля курса.
type CourseStore interface {
	SyncAverageGrade(ctx context.Context, id string) error
}

// TeacherStore пересчитывает вычисляемые поля преподавателя.
type TeacherStore interface {
	SyncTotalCourses(ctx context.Context, id string) error
}

// ══════════════════════════════════════════════════════════════════════════════
// ENGINE
// ══════════════════════════════════════════════════════════════════════════════

// Engine пересчитывает вычисляемые поля по графу зависимостей.
type Engine struct {
	students StudentStore
	classes  ClassStore
	courses  CourseStore
	teachers TeacherStore

	// topo - топологический порядок всех узлов (алгоритм Кана),
	// вычисляется один раз при создании движка.
	topo []Field
}

// NewEngine создаёт движок вычисляемых полей.
func NewEngine(students StudentStore, classes ClassStore, courses CourseStore, teachers TeacherStore) *Engine {
	return &Engine{
		students: students,
		classes:  classes,
		courses:  courses,
		teachers: teachers,
		topo:     topologicalOrder(),
	}
}

// topologicalOrder строит порядок Кана по фиксированному списку узлов.
// Граф статичен и ацикличен, поэтому результат всегда полный.
func topologicalOrder() []Field {
	indegree := make(map[Field]int, len(nodes))
	for _, n := range nodes {
		indegree[n] = 0
	}
	for _, deps := range edges {
		for _, d := range deps {
			indegree[d]++
		}
	}

	queue := make([]Field, 0, len(nodes))
	for _, n := range nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]Field, 0, len(nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)

		for _, d := range edges[n] {
			indegree[d]--
			if indegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}
	return order
}

// affected собирает транзитивное замыкание зависимых полей.
// Сами изменённые поля в результат не входят: их значения уже записаны.
func affected(changed []Field) map[Field]bool {
	seen := make(map[Field]bool)
	queue := make([]Field, 0, len(changed))
	for _, f := range changed {
		queue = append(queue, edges[f]...)
	}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		if seen[f] {
			continue
		}
		seen[f] = true
		queue = append(queue, edges[f]...)
	}
	return seen
}

// Recompute пересчитывает все поля, зависящие от изменённых, в
// топологическом порядке, каждое ровно один раз. Область изменения
// указывает затронутые записи; недостающая ссылка на класс добирается
// из записи ученика.
func (e *Engine) Recompute(ctx context.Context, scope shared.ChangeScope, changed ...Field) error {
	targets := affected(changed)
	if len(targets) == 0 {
		return nil
	}

	scope, err := e.enrichScope(ctx, scope, targets)
	if err != nil {
		return err
	}

	for _, field := range e.topo {
		if !targets[field] {
			continue
		}
		if err := e.recomputeField(ctx, field, scope); err != nil {
			return fmt.Errorf("recompute %s: %w", field, err)
		}
	}
	return nil
}

// enrichScope добирает ссылку на класс из записи ученика, когда она
// нужна пересчёту класса, но в области изменения отсутствует.
func (e *Engine) enrichScope(ctx context.Context, scope shared.ChangeScope, targets map[Field]bool) (shared.ChangeScope, error) {
	needsClass := targets[FieldClassAverageGrade] || targets[FieldClassStudentCount]
	if !needsClass || scope.ClassID != "" || scope.StudentID == "" {
		return scope, nil
	}

	st, err := e.students.GetByID(ctx, scope.StudentID)
	if err != nil {
		if shared.IsNotFound(err) {
			return scope, nil
		}
		return scope, fmt.Errorf("resolve student class: %w", err)
	}
	scope.ClassID = st.ClassID
	return scope, nil
}

// recomputeField выполняет пересчёт одного поля. Узлы полей одной записи
// пересчитываются до сохранения и здесь пропускаются. Пересчёт с пустой
// ссылкой в области изменения пропускается: перекладывать нечего.
func (e *Engine) recomputeField(ctx context.Context, field Field, scope shared.ChangeScope) error {
	switch field {
	case FieldStudentAverageGrade:
		if scope.StudentID == "" {
			return nil
		}
		return e.students.SyncAverageGrade(ctx, scope.StudentID)

	case FieldStudentAttendanceRate:
		if scope.StudentID == "" {
			return nil
		}
		return e.students.SyncAttendanceRate(ctx, scope.StudentID)

	case FieldStudentAge:
		if scope.StudentID == "" {
			return nil
		}
		return e.students.SyncAge(ctx, scope.StudentID)

	case FieldClassStudentCount:
		if scope.ClassID == "" {
			return nil
		}
		return e.classes.SyncStudentCount(ctx, scope.ClassID)

	case FieldClassAverageGrade:
		if scope.ClassID == "" {
			return nil
		}
		return e.classes.SyncAverageGrade(ctx, scope.ClassID)

	case FieldCourseAverageGrade:
		if scope.CourseID == "" {
			return nil
		}
		return e.courses.SyncAverageGrade(ctx, scope.CourseID)

	case FieldTeacherTotalCourses:
		if scope.TeacherID == "" {
			return nil
		}
		return e.teachers.SyncTotalCourses(ctx, scope.TeacherID)

	case FieldGradePercentage, FieldGradeLetter, FieldScheduleDuration:
		// Поля одной записи: уже пересчитаны сущностью до сохранения.
		return nil

	default:
		return nil
	}
}
