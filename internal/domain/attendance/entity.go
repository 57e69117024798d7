// Package attendance содержит доменную модель записи посещаемости.
package attendance

import (
	"fmt"
	"time"

	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет статус посещаемости.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

// IsValid проверяет статус посещаемости.
func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	default:
		return false
	}
}

// Label возвращает отображаемое имя статуса.
func (s Status) Label() string {
	switch s {
	case StatusPresent:
		return "Present"
	case StatusAbsent:
		return "Absent"
	case StatusLate:
		return "Late"
	case StatusExcused:
		return "Excused"
	default:
		return string(s)
	}
}

// CountsAsAttended сообщает, засчитывается ли статус как посещение
// при расчёте процента посещаемости. Засчитывается только present:
// опоздания и уважительные пропуски долю не повышают.
func (s Status) CountsAsAttended() bool {
	return s == StatusPresent
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrRecordNotFound - запись посещаемости не найдена.
	ErrRecordNotFound = shared.NewDomainError("attendance", "Find", shared.ErrNotFound, "attendance record not found")

	// ErrStudentRequired - запись обязана ссылаться на ученика.
	ErrStudentRequired = shared.NewDomainError("attendance", "Validate", shared.ErrEmptyValue, "attendance student is required")

	// ErrDateRequired - дата обязательна.
	ErrDateRequired = shared.NewDomainError("attendance", "Validate", shared.ErrEmptyValue, "attendance date is required")

	// ErrInvalidStatus - неизвестный статус посещаемости.
	ErrInvalidStatus = shared.NewDomainError("attendance", "Validate", shared.ErrInvalidInput, "invalid attendance status")

	// ErrCheckOrder - время ухода не позже времени прихода.
	ErrCheckOrder = shared.NewDomainError("attendance", "Validate", shared.ErrTimeOrder, "check-out time must be after check-in time")

	// ErrDuplicate - у ученика уже есть запись за эту дату по этому курсу.
	ErrDuplicate = shared.NewDomainError("attendance", "Mark", shared.ErrDuplicate, "attendance already recorded for this student, date and course")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record - запись посещаемости ученика за календарный день.
type Record struct {
	// ID - внутренний уникальный идентификатор.
	ID string

	// StudentID - ученик, обязателен.
	StudentID string

	// ClassID - класс ученика на момент отметки.
	ClassID string

	// CourseID - курс; пустое значение означает общедневную отметку.
	CourseID string

	// Date - календарный день отметки (время обнуляется).
	Date time.Time

	// Status - статус посещаемости.
	Status Status

	// CheckIn, CheckOut - фактическое время прихода и ухода в дробных
	// часах; ноль означает "не отмечено".
	CheckIn  timeutil.ClockHours
	CheckOut timeutil.ClockHours

	// Remarks - комментарий.
	Remarks string

	// MarkedBy - кто отметил.
	MarkedBy string

	// Active - флаг мягкого удаления.
	Active bool

	// DisplayName - отображаемое имя вида "Aizere - 31/08/2026 - Present".
	// Пересчитывается методом Refresh.
	DisplayName string

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// NewRecordParams содержит параметры для создания записи посещаемости.
type NewRecordParams struct {
	ID        string
	StudentID string
	ClassID   string
	CourseID  string
	Date      time.Time
	Status    Status
	CheckIn   timeutil.ClockHours
	CheckOut  timeutil.ClockHours
	Remarks   string
	MarkedBy  string

	// StudentName нужен только для отображаемого имени.
	StudentName string
}

// NewRecord создаёт новую запись посещаемости с валидацией.
// Проверку дубликата выполняет вызывающая сторона через Repository.
func NewRecord(params NewRecordParams) (*Record, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("attendance", "Create", shared.ErrInvalidID, "attendance id is required")
	}
	if params.StudentID == "" {
		return nil, ErrStudentRequired
	}
	if params.Date.IsZero() {
		return nil, ErrDateRequired
	}
	if !params.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	if err := ValidateCheckTimes(params.CheckIn, params.CheckOut); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	r := &Record{
		ID:        params.ID,
		StudentID: params.StudentID,
		ClassID:   params.ClassID,
		CourseID:  params.CourseID,
		Date:      timeutil.DateOf(params.Date),
		Status:    params.Status,
		CheckIn:   params.CheckIn,
		CheckOut:  params.CheckOut,
		Remarks:   params.Remarks,
		MarkedBy:  params.MarkedBy,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.Refresh(params.StudentName)

	return r, nil
}

// ValidateCheckTimes проверяет порядок прихода и ухода. Проверка выполняется
// только когда заданы оба значения.
func ValidateCheckTimes(checkIn, checkOut timeutil.ClockHours) error {
	if checkIn != 0 && checkOut != 0 && checkOut <= checkIn {
		return ErrCheckOrder
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// Refresh пересчитывает отображаемое имя. Идемпотентен.
func (r *Record) Refresh(studentName string) {
	r.DisplayName = fmt.Sprintf("%s - %s - %s", studentName, timeutil.FormatDate(r.Date), r.Status.Label())
}

// ChangeStatus меняет статус записи.
func (r *Record) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	r.Status = status
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Deactivate выполняет мягкое удаление.
func (r *Record) Deactivate() {
	r.Active = false
	r.UpdatedAt = time.Now().UTC()
}
