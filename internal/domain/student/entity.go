// Package student содержит доменную модель студента.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package student

import (
	"strings"
	"time"

	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет текущий статус студента в школе.
type Status string

const (
	// StatusDraft - запись создана, студент ещё не зачислен.
	StatusDraft Status = "draft"
	// StatusActive - студент активно учится.
	StatusActive Status = "active"
	// StatusGraduated - студент успешно закончил школу.
	StatusGraduated Status = "graduated"
	// StatusSuspended - студент временно отстранён.
	StatusSuspended Status = "suspended"
	// StatusExpelled - студент отчислен.
	StatusExpelled Status = "expelled"
)

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusGraduated, StatusSuspended, StatusExpelled:
		return true
	default:
		return false
	}
}

// IsEnrolled возвращает true, если студент всё ещё числится в школе.
func (s Status) IsEnrolled() bool {
	return s == StatusDraft || s == StatusActive || s == StatusSuspended
}

// Gender определяет пол студента.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// IsValid проверяет, что значение пола корректно (пустое допустимо).
func (g Gender) IsValid() bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrStudentNotFound - студент не найден.
	ErrStudentNotFound = shared.NewDomainError("student", "Find", shared.ErrNotFound, "student not found")

	// ErrNameRequired - имя студента обязательно.
	ErrNameRequired = shared.NewDomainError("student", "Validate", shared.ErrEmptyValue, "student name is required")

	// ErrInvalidEmail - email без символа "@".
	ErrInvalidEmail = shared.NewDomainError("student", "Validate", shared.ErrInvalidFormat, "email must contain @")

	// ErrFutureDateOfBirth - дата рождения в будущем.
	ErrFutureDateOfBirth = shared.NewDomainError("student", "Validate", shared.ErrFutureDate, "date of birth cannot be in the future")

	// ErrInvalidStatus - неизвестный статус.
	ErrInvalidStatus = shared.NewDomainError("student", "Validate", shared.ErrInvalidState, "invalid student status")

	// ErrInvalidGender - неизвестное значение пола.
	ErrInvalidGender = shared.NewDomainError("student", "Validate", shared.ErrInvalidInput, "invalid gender")

	// ErrNotEnrolled - студент уже выбыл, переход статуса невозможен.
	ErrNotEnrolled = shared.NewDomainError("student", "UpdateStatus", shared.ErrStateTransition, "student is no longer enrolled")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Guardian содержит контактные данные опекуна студента.
type Guardian struct {
	Name     string
	Phone    string
	Email    string
	Relation string
}

// Student - учётная запись студента со всеми базовыми и вычисляемыми полями.
type Student struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID string

	// Name - полное имя.
	Name string

	// Email - адрес электронной почты (необязательный, но с проверкой формы).
	Email string

	// Phone - контактный телефон.
	Phone string

	// DateOfBirth - дата рождения (нулевое значение = не указана).
	DateOfBirth time.Time

	// Gender - пол.
	Gender Gender

	// Street, City, Zip - адрес проживания.
	Street string
	City   string
	Zip    string

	// Guardian - данные опекуна.
	Guardian Guardian

	// ClassID - класс, к которому прикреплён студент (может быть пустым).
	ClassID string

	// AdmissionDate - дата зачисления.
	AdmissionDate time.Time

	// Status - текущий статус в школе.
	Status Status

	// Notes - внутренние заметки.
	Notes string

	// Active - флаг мягкого удаления.
	Active bool

	// Вычисляемые поля. Обновляются движком пересчёта, напрямую не пишутся.

	// Age - возраст в полных годах.
	Age int

	// AverageGrade - средняя оценка по всем записям оценок.
	AverageGrade float64

	// AttendanceRate - доля посещённых занятий в процентах.
	AttendanceRate float64

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams содержит параметры для создания нового студента.
type NewStudentParams struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	DateOfBirth   time.Time
	Gender        Gender
	Street        string
	City          string
	Zip           string
	Guardian      Guardian
	ClassID       string
	AdmissionDate time.Time
	Notes         string
}

// NewStudent создаёт нового студента с валидацией всех полей.
// Новый студент всегда начинает в статусе draft.
func NewStudent(params NewStudentParams) (*Student, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("student", "Create", shared.ErrInvalidID, "student id is required")
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	if err := ValidateEmail(params.Email); err != nil {
		return nil, err
	}

	if err := ValidateDateOfBirth(params.DateOfBirth, timeutil.Today()); err != nil {
		return nil, err
	}

	if !params.Gender.IsValid() {
		return nil, ErrInvalidGender
	}

	now := time.Now().UTC()
	admission := params.AdmissionDate
	if admission.IsZero() {
		admission = timeutil.Today()
	}

	s := &Student{
		ID:            params.ID,
		Name:          name,
		Email:         strings.TrimSpace(params.Email),
		Phone:         params.Phone,
		DateOfBirth:   params.DateOfBirth,
		Gender:        params.Gender,
		Street:        params.Street,
		City:          params.City,
		Zip:           params.Zip,
		Guardian:      params.Guardian,
		ClassID:       params.ClassID,
		AdmissionDate: admission,
		Status:        StatusDraft,
		Notes:         params.Notes,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.RefreshAge(timeutil.Today())

	return s, nil
}

// ValidateEmail проверяет минимальную форму адреса: непустой email обязан
// содержать "@". Полная проверка по RFC здесь сознательно не делается.
func ValidateEmail(email string) error {
	if email != "" && !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateDateOfBirth проверяет, что дата рождения не в будущем.
func ValidateDateOfBirth(dateOfBirth, today time.Time) error {
	if !dateOfBirth.IsZero() && timeutil.DateOf(dateOfBirth).After(today) {
		return ErrFutureDateOfBirth
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// RefreshAge пересчитывает возраст на указанную дату.
// Возраст равен 0, если дата рождения не указана.
func (s *Student) RefreshAge(today time.Time) {
	s.Age = timeutil.Age(s.DateOfBirth, today)
}

// AssignClass прикрепляет студента к классу.
func (s *Student) AssignClass(classID string) {
	s.ClassID = classID
	s.UpdatedAt = time.Now().UTC()
}

// MarkActive переводит студента в активный статус.
func (s *Student) MarkActive() error {
	if !s.Status.IsEnrolled() {
		return ErrNotEnrolled
	}
	s.setStatus(StatusActive)
	return nil
}

// MarkGraduated помечает студента как выпускника.
func (s *Student) MarkGraduated() error {
	if s.Status != StatusActive {
		return ErrNotEnrolled
	}
	s.setStatus(StatusGraduated)
	return nil
}

// MarkSuspended временно отстраняет студента.
func (s *Student) MarkSuspended() error {
	if !s.Status.IsEnrolled() {
		return ErrNotEnrolled
	}
	s.setStatus(StatusSuspended)
	return nil
}

// MarkExpelled отчисляет студента.
func (s *Student) MarkExpelled() error {
	if !s.Status.IsEnrolled() {
		return ErrNotEnrolled
	}
	s.setStatus(StatusExpelled)
	return nil
}

// Deactivate выполняет мягкое удаление: запись сохраняется для истории,
// но исключается из агрегатов и проверок конфликтов.
func (s *Student) Deactivate() {
	s.Active = false
	s.UpdatedAt = time.Now().UTC()
}

func (s *Student) setStatus(status Status) {
	s.Status = status
	s.UpdatedAt = time.Now().UTC()
}

// Clone создаёт копию студента.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}
