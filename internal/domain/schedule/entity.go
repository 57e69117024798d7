// Package schedule содержит доменную модель еженедельного слота расписания
// и детектор пересечения интервалов - ядро проверки конфликтов.
package schedule

import (
	"fmt"
	"time"

	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Weekday определяет день недели слота.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// IsValid проверяет день недели.
func (w Weekday) IsValid() bool {
	switch w {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday:
		return true
	default:
		return false
	}
}

// Label возвращает отображаемое имя дня недели.
func (w Weekday) Label() string {
	switch w {
	case Monday:
		return "Monday"
	case Tuesday:
		return "Tuesday"
	case Wednesday:
		return "Wednesday"
	case Thursday:
		return "Thursday"
	case Friday:
		return "Friday"
	case Saturday:
		return "Saturday"
	case Sunday:
		return "Sunday"
	default:
		return string(w)
	}
}

// SessionType определяет тип занятия.
type SessionType string

const (
	SessionLecture   SessionType = "lecture"
	SessionTutorial  SessionType = "tutorial"
	SessionPractical SessionType = "practical"
	SessionExam      SessionType = "exam"
)

// IsValid проверяет тип занятия (пустое допустимо, по умолчанию lecture).
func (s SessionType) IsValid() bool {
	switch s {
	case "", SessionLecture, SessionTutorial, SessionPractical, SessionExam:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrScheduleNotFound - слот не найден.
	ErrScheduleNotFound = shared.NewDomainError("schedule", "Find", shared.ErrNotFound, "schedule not found")

	// ErrClassRequired - слот обязан ссылаться на класс.
	ErrClassRequired = shared.NewDomainError("schedule", "Validate", shared.ErrEmptyValue, "schedule class is required")

	// ErrCourseRequired - слот обязан ссылаться на курс.
	ErrCourseRequired = shared.NewDomainError("schedule", "Validate", shared.ErrEmptyValue, "schedule course is required")

	// ErrTeacherRequired - слот обязан ссылаться на преподавателя.
	ErrTeacherRequired = shared.NewDomainError("schedule", "Validate", shared.ErrEmptyValue, "schedule teacher is required")

	// ErrInvalidWeekday - неизвестный день недели.
	ErrInvalidWeekday = shared.NewDomainError("schedule", "Validate", shared.ErrInvalidInput, "invalid day of week")

	// ErrInvalidSessionType - неизвестный тип занятия.
	ErrInvalidSessionType = shared.NewDomainError("schedule", "Validate", shared.ErrInvalidInput, "invalid session type")

	// ErrStartOutOfRange - начало вне диапазона [0, 24).
	ErrStartOutOfRange = shared.NewDomainError("schedule", "Validate", shared.ErrValueOutOfRange, "start time must be within [0, 24)")

	// ErrEndOutOfRange - конец вне диапазона [0, 24].
	ErrEndOutOfRange = shared.NewDomainError("schedule", "Validate", shared.ErrValueOutOfRange, "end time must be within [0, 24]")

	// ErrTimeOrder - конец не позже начала.
	ErrTimeOrder = shared.NewDomainError("schedule", "Validate", shared.ErrTimeOrder, "end time must be after start time")

	// ErrDateOrder - дата окончания раньше даты начала.
	ErrDateOrder = shared.NewDomainError("schedule", "Validate", shared.ErrDateOrder, "schedule end date precedes start date")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: SCHEDULE
// Еженедельно повторяющийся слот, а не разовое событие календаря.
// ══════════════════════════════════════════════════════════════════════════════

// Schedule - слот еженедельного расписания класса.
type Schedule struct {
	// ID - внутренний уникальный идентификатор.
	ID string

	// ClassID - класс, для которого назначен слот.
	ClassID string

	// CourseID - курс, который читается в слоте.
	CourseID string

	// TeacherID - преподаватель слота.
	TeacherID string

	// DayOfWeek - день недели.
	DayOfWeek Weekday

	// StartTime, EndTime - время в дробных часах: 9.5 == 09:30.
	// Начало в [0, 24), конец в (начало, 24].
	StartTime timeutil.ClockHours
	EndTime   timeutil.ClockHours

	// Room - аудитория.
	Room string

	// SessionType - тип занятия.
	SessionType SessionType

	// StartDate, EndDate - календарные границы действия слота.
	// Детектор конфликтов их не учитывает (см. FindConflict).
	StartDate time.Time
	EndDate   time.Time

	// Notes - заметки.
	Notes string

	// Active - флаг мягкого удаления. Неактивные слоты не участвуют
	// в проверке конфликтов.
	Active bool

	// Вычисляемые поля. Пересчитываются методом Refresh.

	// Duration - длительность в часах.
	Duration float64

	// DisplayName - отображаемое имя вида "Monday 09:30 - Algebra".
	DisplayName string

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// NewScheduleParams содержит параметры для создания слота.
type NewScheduleParams struct {
	ID          string
	ClassID     string
	CourseID    string
	TeacherID   string
	DayOfWeek   Weekday
	StartTime   timeutil.ClockHours
	EndTime     timeutil.ClockHours
	Room        string
	SessionType SessionType
	StartDate   time.Time
	EndDate     time.Time
	Notes       string

	// CourseName нужен только для отображаемого имени.
	CourseName string
}

// NewSchedule создаёт новый слот с валидацией. Проверка времени выполняется
// до поиска конфликтов: слот с некорректным интервалом отклоняется сразу.
func NewSchedule(params NewScheduleParams) (*Schedule, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("schedule", "Create", shared.ErrInvalidID, "schedule id is required")
	}
	if params.ClassID == "" {
		return nil, ErrClassRequired
	}
	if params.CourseID == "" {
		return nil, ErrCourseRequired
	}
	if params.TeacherID == "" {
		return nil, ErrTeacherRequired
	}
	if !params.DayOfWeek.IsValid() {
		return nil, ErrInvalidWeekday
	}
	if !params.SessionType.IsValid() {
		return nil, ErrInvalidSessionType
	}

	if err := ValidateTimes(params.StartTime, params.EndTime); err != nil {
		return nil, err
	}

	if !params.EndDate.IsZero() && !params.StartDate.IsZero() && params.EndDate.Before(params.StartDate) {
		return nil, ErrDateOrder
	}

	sessionType := params.SessionType
	if sessionType == "" {
		sessionType = SessionLecture
	}
	startDate := params.StartDate
	if startDate.IsZero() {
		startDate = timeutil.Today()
	}

	now := time.Now().UTC()

	s := &Schedule{
		ID:          params.ID,
		ClassID:     params.ClassID,
		CourseID:    params.CourseID,
		TeacherID:   params.TeacherID,
		DayOfWeek:   params.DayOfWeek,
		StartTime:   params.StartTime,
		EndTime:     params.EndTime,
		Room:        params.Room,
		SessionType: sessionType,
		StartDate:   startDate,
		EndDate:     params.EndDate,
		Notes:       params.Notes,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.Refresh(params.CourseName)

	return s, nil
}

// ValidateTimes проверяет интервал слота: начало в [0, 24), конец в [0, 24],
// начало строго раньше конца.
func ValidateTimes(start, end timeutil.ClockHours) error {
	if !start.IsValidStart() {
		return ErrStartOutOfRange
	}
	if !end.IsValidEnd() {
		return ErrEndOutOfRange
	}
	if start >= end {
		return ErrTimeOrder
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// Refresh пересчитывает длительность и отображаемое имя.
// Идемпотентен.
func (s *Schedule) Refresh(courseName string) {
	s.Duration = float64(s.EndTime - s.StartTime)
	s.DisplayName = fmt.Sprintf("%s %s - %s", s.DayOfWeek.Label(), s.StartTime, courseName)
}

// Reslot переносит слот на другое время с повторной валидацией.
// Название курса нужно для пересчёта отображаемого имени.
func (s *Schedule) Reslot(day Weekday, start, end timeutil.ClockHours, courseName string) error {
	if !day.IsValid() {
		return ErrInvalidWeekday
	}
	if err := ValidateTimes(start, end); err != nil {
		return err
	}
	s.DayOfWeek = day
	s.StartTime = start
	s.EndTime = end
	s.Refresh(courseName)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Deactivate выполняет мягкое удаление.
func (s *Schedule) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now().UTC()
}
