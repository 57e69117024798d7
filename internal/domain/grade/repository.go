package grade

import (
	"context"
)

// Repository определяет операции хранилища для оценок.
// Реализация находится в infrastructure/persistence.
type Repository interface {
	// Create создаёт новую оценку.
	Create(ctx context.Context, g *Grade) error

	// GetByID возвращает оценку по ID.
	// Возвращает ErrGradeNotFound, если оценка не найдена.
	GetByID(ctx context.Context, id string) (*Grade, error)

	// Update обновляет оценку.
	Update(ctx context.Context, g *Grade) error

	// Deactivate выполняет мягкое удаление.
	Deactivate(ctx context.Context, id string) error

	// GetByStudent возвращает активные оценки студента.
	GetByStudent(ctx context.Context, studentID string) ([]*Grade, error)

	// GetByCourse возвращает активные оценки по курсу.
	GetByCourse(ctx context.Context, courseID string) ([]*Grade, error)

	// GetByStudentAndCourse возвращает активные оценки студента по курсу.
	GetByStudentAndCourse(ctx context.Context, studentID, courseID string) ([]*Grade, error)
}
