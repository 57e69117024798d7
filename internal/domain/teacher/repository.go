package teacher

import (
	"context"
)

// Repository определяет операции хранилища для преподавателей.
// Реализация находится в infrastructure/persistence.
type Repository interface {
	// Create создаёт нового преподавателя.
	Create(ctx context.Context, t *Teacher) error

	// GetByID возвращает преподавателя по ID.
	// Возвращает ErrTeacherNotFound, если преподаватель не найден.
	GetByID(ctx context.Context, id string) (*Teacher, error)

	// Update обновляет данные преподавателя.
	Update(ctx context.Context, t *Teacher) error

	// Deactivate выполняет мягкое удаление.
	Deactivate(ctx context.Context, id string) error

	// GetAll возвращает всех активных преподавателей.
	GetAll(ctx context.Context) ([]*Teacher, error)

	// SyncTotalCourses пересчитывает количество закреплённых курсов
	// одним атомарным запросом.
	SyncTotalCourses(ctx context.Context, id string) error
}
