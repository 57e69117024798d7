// Package course содержит доменную модель курса (учебного предмета).
package course

import (
	"strings"
	"time"

	"github.com/alem-hub/school-records/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrCourseNotFound - курс не найден.
	ErrCourseNotFound = shared.NewDomainError("course", "Find", shared.ErrNotFound, "course not found")

	// ErrCodeTaken - код курса уже используется (включая неактивные записи).
	ErrCodeTaken = shared.NewDomainError("course", "Create", shared.ErrAlreadyExists, "course code already exists")

	// ErrNameRequired - название курса обязательно.
	ErrNameRequired = shared.NewDomainError("course", "Validate", shared.ErrEmptyValue, "course name is required")

	// ErrCodeRequired - код курса обязателен.
	ErrCodeRequired = shared.NewDomainError("course", "Validate", shared.ErrEmptyValue, "course code is required")

	// ErrTeacherRequired - курс обязан ссылаться на преподавателя.
	ErrTeacherRequired = shared.NewDomainError("course", "Validate", shared.ErrEmptyValue, "course teacher is required")

	// ErrClassRequired - курс обязан ссылаться на класс.
	ErrClassRequired = shared.NewDomainError("course", "Validate", shared.ErrEmptyValue, "course class is required")

	// ErrInvalidCredits - отрицательное количество кредитов.
	ErrInvalidCredits = shared.NewDomainError("course", "Validate", shared.ErrValueOutOfRange, "course credits cannot be negative")

	// ErrDateOrder - дата окончания раньше даты начала.
	ErrDateOrder = shared.NewDomainError("course", "Validate", shared.ErrDateOrder, "course end date precedes start date")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: COURSE
// ══════════════════════════════════════════════════════════════════════════════

// Course - учебный предмет, закреплённый за преподавателем и классом.
type Course struct {
	// ID - внутренний уникальный идентификатор.
	ID string

	// Name - название курса.
	Name string

	// Code - уникальный код курса. Уникальность проверяется по всем
	// записям, включая неактивные.
	Code string

	// Description - описание курса.
	Description string

	// Credits - количество кредитов.
	Credits int

	// HoursPerWeek - часов в неделю.
	HoursPerWeek int

	// TeacherID - преподаватель курса.
	TeacherID string

	// ClassID - класс, для которого читается курс.
	ClassID string

	// StartDate, EndDate - период преподавания (нулевые значения допустимы).
	StartDate time.Time
	EndDate   time.Time

	// Active - флаг мягкого удаления.
	Active bool

	// AverageCourseGrade - вычисляемая средняя оценка по курсу.
	AverageCourseGrade float64

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// NewCourseParams содержит параметры для создания курса.
type NewCourseParams struct {
	ID           string
	Name         string
	Code         string
	Description  string
	Credits      int
	HoursPerWeek int
	TeacherID    string
	ClassID      string
	StartDate    time.Time
	EndDate      time.Time
}

// NewCourse создаёт новый курс с валидацией всех полей.
func NewCourse(params NewCourseParams) (*Course, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("course", "Create", shared.ErrInvalidID, "course id is required")
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	code := strings.TrimSpace(params.Code)
	if code == "" {
		return nil, ErrCodeRequired
	}

	if params.TeacherID == "" {
		return nil, ErrTeacherRequired
	}
	if params.ClassID == "" {
		return nil, ErrClassRequired
	}

	if params.Credits < 0 {
		return nil, ErrInvalidCredits
	}

	if !params.EndDate.IsZero() && !params.StartDate.IsZero() && params.EndDate.Before(params.StartDate) {
		return nil, ErrDateOrder
	}

	credits := params.Credits
	if credits == 0 {
		credits = 3
	}
	hours := params.HoursPerWeek
	if hours == 0 {
		hours = 3
	}

	now := time.Now().UTC()

	return &Course{
		ID:           params.ID,
		Name:         name,
		Code:         code,
		Description:  params.Description,
		Credits:      credits,
		HoursPerWeek: hours,
		TeacherID:    params.TeacherID,
		ClassID:      params.ClassID,
		StartDate:    params.StartDate,
		EndDate:      params.EndDate,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// Reassign закрепляет курс за другим преподавателем.
func (c *Course) Reassign(teacherID string) error {
	if teacherID == "" {
		return ErrTeacherRequired
	}
	c.TeacherID = teacherID
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// Deactivate выполняет мягкое удаление.
func (c *Course) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now().UTC()
}
