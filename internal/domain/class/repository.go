package class

import (
	"context"
)

// Repository определяет операции хранилища для классов.
// Реализация находится в infrastructure/persistence.
type Repository interface {
	// Create создаёт новый класс.
	// Возвращает ErrCodeTaken, если код уже занят (включая неактивные записи).
	Create(ctx context.Context, c *Class) error

	// GetByID возвращает класс по ID.
	// Возвращает ErrClassNotFound, если класс не найден.
	GetByID(ctx context.Context, id string) (*Class, error)

	// GetByCode возвращает класс по коду.
	GetByCode(ctx context.Context, code string) (*Class, error)

	// Update обновляет данные класса.
	Update(ctx context.Context, c *Class) error

	// Deactivate выполняет мягкое удаление.
	Deactivate(ctx context.Context, id string) error

	// GetAll возвращает все активные классы.
	GetAll(ctx context.Context) ([]*Class, error)

	// SyncStudentCount пересчитывает количество активных студентов класса.
	SyncStudentCount(ctx context.Context, id string) error

	// SyncAverageGrade пересчитывает среднюю оценку класса как среднее
	// значений average_grade его активных студентов. Пустой класс даёт 0.0.
	SyncAverageGrade(ctx context.Context, id string) error
}
