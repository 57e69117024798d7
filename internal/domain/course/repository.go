package course

import (
	"context"
)

// Repository определяет операции хранилища для курсов.
// Реализация находится в infrastructure/persistence.
type Repository interface {
	// Create создаёт новый курс.
	// Возвращает ErrCodeTaken, если код уже занят (включая неактивные записи).
	Create(ctx context.Context, c *Course) error

	// GetByID возвращает курс по ID.
	// Возвращает ErrCourseNotFound, если курс не найден.
	GetByID(ctx context.Context, id string) (*Course, error)

	// GetByCode возвращает курс по коду.
	GetByCode(ctx context.Context, code string) (*Course, error)

	// Update обновляет данные курса.
	Update(ctx context.Context, c *Course) error

	// Deactivate выполняет мягкое удаление.
	Deactivate(ctx context.Context, id string) error

	// GetByTeacher возвращает активные курсы преподавателя.
	GetByTeacher(ctx context.Context, teacherID string) ([]*Course, error)

	// GetByClass возвращает активные курсы класса.
	GetByClass(ctx context.Context, classID string) ([]*Course, error)

	// SyncAverageGrade пересчитывает среднюю оценку курса по его записям
	// оценок одним атомарным запросом. Пустой набор даёт 0.0.
	SyncAverageGrade(ctx context.Context, id string) error
}
