// Package grade содержит доменную модель оценки.
// Здесь живёт шкала буквенных оценок и вычисление процента.
package grade

import (
	"time"

	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// EvaluationType определяет тип оценивания.
type EvaluationType string

const (
	EvaluationHomework      EvaluationType = "homework"
	EvaluationQuiz          EvaluationType = "quiz"
	EvaluationMidterm       EvaluationType = "midterm"
	EvaluationFinal         EvaluationType = "final"
	EvaluationProject       EvaluationType = "project"
	EvaluationPresentation  EvaluationType = "presentation"
	EvaluationParticipation EvaluationType = "participation"
)

// IsValid проверяет тип оценивания.
func (e EvaluationType) IsValid() bool {
	switch e {
	case EvaluationHomework, EvaluationQuiz, EvaluationMidterm, EvaluationFinal,
		EvaluationProject, EvaluationPresentation, EvaluationParticipation:
		return true
	default:
		return false
	}
}

// Semester определяет семестр.
type Semester string

const (
	SemesterFirst  Semester = "1"
	SemesterSecond Semester = "2"
)

// IsValid проверяет семестр.
func (s Semester) IsValid() bool {
	return s == SemesterFirst || s == SemesterSecond
}

// Letter - буквенная оценка по фиксированной шкале процентов.
type Letter string

const (
	LetterAPlus Letter = "a+"
	LetterA     Letter = "a"
	LetterBPlus Letter = "b+"
	LetterB     Letter = "b"
	LetterCPlus Letter = "c+"
	LetterC     Letter = "c"
	LetterD     Letter = "d"
	LetterF     Letter = "f"
)

// LetterForPercentage возвращает буквенную оценку для процента.
// Границы включаются в нижнюю ступень: ровно 95 даёт A+.
func LetterForPercentage(percentage float64) Letter {
	switch {
	case percentage >= 95:
		return LetterAPlus
	case percentage >= 90:
		return LetterA
	case percentage >= 85:
		return LetterBPlus
	case percentage >= 80:
		return LetterB
	case percentage >= 75:
		return LetterCPlus
	case percentage >= 70:
		return LetterC
	case percentage >= 60:
		return LetterD
	default:
		return LetterF
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrGradeNotFound - оценка не найдена.
	ErrGradeNotFound = shared.NewDomainError("grade", "Find", shared.ErrNotFound, "grade not found")

	// ErrStudentRequired - оценка обязана ссылаться на студента.
	ErrStudentRequired = shared.NewDomainError("grade", "Validate", shared.ErrEmptyValue, "grade student is required")

	// ErrCourseRequired - оценка обязана ссылаться на курс.
	ErrCourseRequired = shared.NewDomainError("grade", "Validate", shared.ErrEmptyValue, "grade course is required")

	// ErrNegativeGrade - отрицательная оценка.
	ErrNegativeGrade = shared.NewDomainError("grade", "Validate", shared.ErrValueOutOfRange, "grade cannot be negative")

	// ErrGradeAboveMax - оценка превышает максимум.
	ErrGradeAboveMax = shared.NewDomainError("grade", "Validate", shared.ErrValueOutOfRange, "grade cannot exceed max grade")

	// ErrInvalidMaxGrade - неположительный максимум.
	ErrInvalidMaxGrade = shared.NewDomainError("grade", "Validate", shared.ErrValueOutOfRange, "max grade must be positive")

	// ErrInvalidEvaluationType - неизвестный тип оценивания.
	ErrInvalidEvaluationType = shared.NewDomainError("grade", "Validate", shared.ErrInvalidInput, "invalid evaluation type")

	// ErrInvalidSemester - неизвестный семестр.
	ErrInvalidSemester = shared.NewDomainError("grade", "Validate", shared.ErrInvalidInput, "invalid semester")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: GRADE
// ══════════════════════════════════════════════════════════════════════════════

// Grade - запись оценки студента по курсу.
type Grade struct {
	// ID - внутренний уникальный идентификатор.
	ID string

	// StudentID - студент, получивший оценку.
	StudentID string

	// CourseID - курс, по которому выставлена оценка.
	CourseID string

	// Value - значение оценки, в диапазоне [0, MaxValue].
	Value float64

	// MaxValue - максимально возможное значение (> 0).
	MaxValue float64

	// EvaluationType - тип оценивания.
	EvaluationType EvaluationType

	// Semester - семестр.
	Semester Semester

	// Date - дата выставления.
	Date time.Time

	// GradedBy - преподаватель, выставивший оценку (может быть пустым).
	GradedBy string

	// Remarks - замечания.
	Remarks string

	// Active - флаг мягкого удаления.
	Active bool

	// Вычисляемые поля. Пересчитываются методом Refresh.

	// Percentage - оценка в процентах от максимума.
	Percentage float64

	// Letter - буквенная оценка по шкале процентов.
	Letter Letter

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// NewGradeParams содержит параметры для создания оценки.
type NewGradeParams struct {
	ID             string
	StudentID      string
	CourseID       string
	Value          float64
	MaxValue       float64
	EvaluationType EvaluationType
	Semester       Semester
	Date           time.Time
	GradedBy       string
	Remarks        string
}

// NewGrade создаёт новую оценку с валидацией и вычислением процентов.
// MaxValue по умолчанию 20 - шкала, принятая в школе.
func NewGrade(params NewGradeParams) (*Grade, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("grade", "Create", shared.ErrInvalidID, "grade id is required")
	}
	if params.StudentID == "" {
		return nil, ErrStudentRequired
	}
	if params.CourseID == "" {
		return nil, ErrCourseRequired
	}

	maxValue := params.MaxValue
	if maxValue == 0 {
		maxValue = 20.0
	}

	if err := ValidateBounds(params.Value, maxValue); err != nil {
		return nil, err
	}

	if !params.EvaluationType.IsValid() {
		return nil, ErrInvalidEvaluationType
	}
	if !params.Semester.IsValid() {
		return nil, ErrInvalidSemester
	}

	now := time.Now().UTC()
	date := params.Date
	if date.IsZero() {
		date = timeutil.Today()
	}

	g := &Grade{
		ID:             params.ID,
		StudentID:      params.StudentID,
		CourseID:       params.CourseID,
		Value:          params.Value,
		MaxValue:       maxValue,
		EvaluationType: params.EvaluationType,
		Semester:       params.Semester,
		Date:           date,
		GradedBy:       params.GradedBy,
		Remarks:        params.Remarks,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	g.Refresh()

	return g, nil
}

// ValidateBounds проверяет границы значения оценки:
// 0 <= value <= maxValue, maxValue > 0.
func ValidateBounds(value, maxValue float64) error {
	if maxValue <= 0 {
		return ErrInvalidMaxGrade
	}
	if value < 0 {
		return ErrNegativeGrade
	}
	if value > maxValue {
		return ErrGradeAboveMax
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// Refresh пересчитывает процент и букву из базовых полей.
// Идемпотентен: повторный вызов без изменения базовых полей даёт тот же
// результат.
func (g *Grade) Refresh() {
	if g.MaxValue > 0 {
		g.Percentage = g.Value / g.MaxValue * 100
	} else {
		g.Percentage = 0.0
	}
	g.Letter = LetterForPercentage(g.Percentage)
}

// Rescore изменяет значение оценки с повторной валидацией и пересчётом.
func (g *Grade) Rescore(value, maxValue float64) error {
	if err := ValidateBounds(value, maxValue); err != nil {
		return err
	}
	g.Value = value
	g.MaxValue = maxValue
	g.Refresh()
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// Deactivate выполняет мягкое удаление.
func (g *Grade) Deactivate() {
	g.Active = false
	g.UpdatedAt = time.Now().UTC()
}
