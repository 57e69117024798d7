// Package teacher содержит доменную модель преподавателя.
package teacher

import (
	"strings"
	"time"

	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет текущий статус преподавателя.
type Status string

const (
	// StatusDraft - запись создана, преподаватель ещё не оформлен.
	StatusDraft Status = "draft"
	// StatusActive - преподаватель работает.
	StatusActive Status = "active"
	// StatusOnLeave - преподаватель в отпуске.
	StatusOnLeave Status = "on_leave"
	// StatusTerminated - контракт завершён.
	StatusTerminated Status = "terminated"
)

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusOnLeave, StatusTerminated:
		return true
	default:
		return false
	}
}

// IsEmployed возвращает true, если преподаватель ещё числится в штате.
func (s Status) IsEmployed() bool {
	return s == StatusDraft || s == StatusActive || s == StatusOnLeave
}

// Qualification определяет уровень диплома преподавателя.
type Qualification string

const (
	QualificationBachelor Qualification = "bachelor"
	QualificationMaster   Qualification = "master"
	QualificationPhD      Qualification = "phd"
	QualificationOther    Qualification = "other"
)

// IsValid проверяет значение диплома (пустое допустимо).
func (q Qualification) IsValid() bool {
	switch q {
	case "", QualificationBachelor, QualificationMaster, QualificationPhD, QualificationOther:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrTeacherNotFound - преподаватель не найден.
	ErrTeacherNotFound = shared.NewDomainError("teacher", "Find", shared.ErrNotFound, "teacher not found")

	// ErrNameRequired - имя преподавателя обязательно.
	ErrNameRequired = shared.NewDomainError("teacher", "Validate", shared.ErrEmptyValue, "teacher name is required")

	// ErrEmailRequired - email преподавателя обязателен.
	ErrEmailRequired = shared.NewDomainError("teacher", "Validate", shared.ErrEmptyValue, "teacher email is required")

	// ErrInvalidEmail - email без символа "@".
	ErrInvalidEmail = shared.NewDomainError("teacher", "Validate", shared.ErrInvalidFormat, "email must contain @")

	// ErrInvalidQualification - неизвестный уровень диплома.
	ErrInvalidQualification = shared.NewDomainError("teacher", "Validate", shared.ErrInvalidInput, "invalid qualification")

	// ErrInvalidStatus - неизвестный статус.
	ErrInvalidStatus = shared.NewDomainError("teacher", "Validate", shared.ErrInvalidState, "invalid teacher status")

	// ErrNotEmployed - преподаватель больше не в штате.
	ErrNotEmployed = shared.NewDomainError("teacher", "UpdateStatus", shared.ErrStateTransition, "teacher is no longer employed")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: TEACHER
// ══════════════════════════════════════════════════════════════════════════════

// Teacher - учётная запись преподавателя.
type Teacher struct {
	// ID - внутренний уникальный идентификатор.
	ID string

	// Name - полное имя.
	Name string

	// Email - адрес электронной почты (обязательный).
	Email string

	// Phone - контактный телефон.
	Phone string

	// HireDate - дата приёма на работу.
	HireDate time.Time

	// Department - кафедра или отдел.
	Department string

	// Specialization - предметная специализация.
	Specialization string

	// Qualification - уровень диплома.
	Qualification Qualification

	// Status - текущий статус.
	Status Status

	// Notes - внутренние заметки.
	Notes string

	// Active - флаг мягкого удаления.
	Active bool

	// TotalCourses - вычисляемое количество закреплённых курсов.
	TotalCourses int

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// NewTeacherParams содержит параметры для создания преподавателя.
type NewTeacherParams struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	HireDate       time.Time
	Department     string
	Specialization string
	Qualification  Qualification
	Notes          string
}

// NewTeacher создаёт нового преподавателя с валидацией всех полей.
func NewTeacher(params NewTeacherParams) (*Teacher, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("teacher", "Create", shared.ErrInvalidID, "teacher id is required")
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	email := strings.TrimSpace(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	if !params.Qualification.IsValid() {
		return nil, ErrInvalidQualification
	}

	now := time.Now().UTC()
	hireDate := params.HireDate
	if hireDate.IsZero() {
		hireDate = timeutil.Today()
	}

	return &Teacher{
		ID:             params.ID,
		Name:           name,
		Email:          email,
		Phone:          params.Phone,
		HireDate:       hireDate,
		Department:     params.Department,
		Specialization: params.Specialization,
		Qualification:  params.Qualification,
		Status:         StatusDraft,
		Notes:          params.Notes,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// MarkActive переводит преподавателя в активный статус.
func (t *Teacher) MarkActive() error {
	if !t.Status.IsEmployed() {
		return ErrNotEmployed
	}
	t.setStatus(StatusActive)
	return nil
}

// MarkOnLeave отправляет преподавателя в отпуск.
func (t *Teacher) MarkOnLeave() error {
	if !t.Status.IsEmployed() {
		return ErrNotEmployed
	}
	t.setStatus(StatusOnLeave)
	return nil
}

// MarkTerminated завершает контракт преподавателя.
func (t *Teacher) MarkTerminated() error {
	if !t.Status.IsEmployed() {
		return ErrNotEmployed
	}
	t.setStatus(StatusTerminated)
	return nil
}

// Deactivate выполняет мягкое удаление.
func (t *Teacher) Deactivate() {
	t.Active = false
	t.UpdatedAt = time.Now().UTC()
}

func (t *Teacher) setStatus(status Status) {
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
}
