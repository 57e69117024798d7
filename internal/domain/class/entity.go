// Package class содержит доменную модель класса (учебной группы).
package class

import (
	"strings"
	"time"

	"github.com/alem-hub/school-records/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrClassNotFound - класс не найден.
	ErrClassNotFound = shared.NewDomainError("class", "Find", shared.ErrNotFound, "class not found")

	// ErrCodeTaken - код класса уже используется (включая неактивные записи).
	ErrCodeTaken = shared.NewDomainError("class", "Create", shared.ErrAlreadyExists, "class code already exists")

	// ErrNameRequired - имя класса обязательно.
	ErrNameRequired = shared.NewDomainError("class", "Validate", shared.ErrEmptyValue, "class name is required")

	// ErrCodeRequired - код класса обязателен.
	ErrCodeRequired = shared.NewDomainError("class", "Validate", shared.ErrEmptyValue, "class code is required")

	// ErrInvalidLevel - уровень вне диапазона 1-6.
	ErrInvalidLevel = shared.NewDomainError("class", "Validate", shared.ErrValueOutOfRange, "class level must be between 1 and 6")

	// ErrInvalidCapacity - отрицательная вместимость.
	ErrInvalidCapacity = shared.NewDomainError("class", "Validate", shared.ErrValueOutOfRange, "class capacity cannot be negative")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: CLASS
// ══════════════════════════════════════════════════════════════════════════════

// Class - учебная группа, к которой прикрепляются студенты и курсы.
type Class struct {
	// ID - внутренний уникальный идентификатор.
	ID string

	// Name - название класса.
	Name string

	// Code - уникальный код класса. Уникальность проверяется по всем
	// записям, включая неактивные.
	Code string

	// Level - уровень обучения (1-6).
	Level int

	// Section - секция/параллель внутри уровня.
	Section string

	// Capacity - максимальная вместимость.
	Capacity int

	// Room - закреплённая аудитория.
	Room string

	// HeadTeacherID - классный руководитель (может быть пустым).
	HeadTeacherID string

	// Notes - внутренние заметки.
	Notes string

	// Active - флаг мягкого удаления.
	Active bool

	// Вычисляемые поля.

	// StudentCount - количество прикреплённых активных студентов.
	StudentCount int

	// AverageClassGrade - среднее значение средних оценок студентов класса.
	// Агрегат второго порядка: зависит от вычисляемого поля студентов.
	AverageClassGrade float64

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// NewClassParams содержит параметры для создания класса.
type NewClassParams struct {
	ID            string
	Name          string
	Code          string
	Level         int
	Section       string
	Capacity      int
	Room          string
	HeadTeacherID string
	Notes         string
}

// NewClass создаёт новый класс с валидацией всех полей.
func NewClass(params NewClassParams) (*Class, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("class", "Create", shared.ErrInvalidID, "class id is required")
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	code := strings.TrimSpace(params.Code)
	if code == "" {
		return nil, ErrCodeRequired
	}

	if params.Level < 1 || params.Level > 6 {
		return nil, ErrInvalidLevel
	}

	if params.Capacity < 0 {
		return nil, ErrInvalidCapacity
	}

	capacity := params.Capacity
	if capacity == 0 {
		capacity = 30
	}

	now := time.Now().UTC()

	return &Class{
		ID:            params.ID,
		Name:          name,
		Code:          code,
		Level:         params.Level,
		Section:       params.Section,
		Capacity:      capacity,
		Room:          params.Room,
		HeadTeacherID: params.HeadTeacherID,
		Notes:         params.Notes,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Deactivate выполняет мягкое удаление. Студенты класса не удаляются:
// их привязка к классу остаётся и может быть переназначена.
func (c *Class) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now().UTC()
}
