package student

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Контракт для работы с хранилищем студентов.
// Реализация находится в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранилища для студентов.
type Repository interface {
	// Create создаёт нового студента.
	Create(ctx context.Context, s *Student) error

	// GetByID возвращает студента по ID.
	// Возвращает ErrStudentNotFound, если студент не найден.
	GetByID(ctx context.Context, id string) (*Student, error)

	// Update обновляет данные студента.
	// Возвращает ErrStudentNotFound, если студент не найден.
	Update(ctx context.Context, s *Student) error

	// Deactivate выполняет мягкое удаление (active = false).
	Deactivate(ctx context.Context, id string) error

	// GetByClass возвращает активных студентов указанного класса.
	GetByClass(ctx context.Context, classID string) ([]*Student, error)

	// GetAll возвращает всех активных студентов.
	GetAll(ctx context.Context) ([]*Student, error)

	// SyncAverageGrade пересчитывает среднюю оценку студента по его записям
	// оценок одним атомарным запросом. Пустой набор оценок даёт 0.0.
	SyncAverageGrade(ctx context.Context, id string) error

	// SyncAttendanceRate пересчитывает процент посещаемости студента.
	// Отсутствие записей посещаемости даёт 0.0.
	SyncAttendanceRate(ctx context.Context, id string) error

	// SyncAge пересчитывает возраст студента по дате рождения.
	SyncAge(ctx context.Context, id string) error
}
