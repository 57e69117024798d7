package schedule

import "context"

// Repository определяет контракт хранилища слотов расписания.
type Repository interface {
	// Create сохраняет новый слот.
	Create(ctx context.Context, s *Schedule) error

	// GetByID возвращает слот по идентификатору.
	GetByID(ctx context.Context, id string) (*Schedule, error)

	// Update обновляет слот.
	Update(ctx context.Context, s *Schedule) error

	// Deactivate выполняет мягкое удаление слота.
	Deactivate(ctx context.Context, id string) error

	// GetByClass возвращает активные слоты класса.
	GetByClass(ctx context.Context, classID string) ([]*Schedule, error)

	// GetByTeacher возвращает активные слоты преподавателя.
	GetByTeacher(ctx context.Context, teacherID string) ([]*Schedule, error)

	// GetSiblings возвращает активные слоты того же дня недели,
	// принадлежащие классу ИЛИ преподавателю - кандидаты на конфликт.
	GetSiblings(ctx context.Context, classID, teacherID string, day Weekday) ([]*Schedule, error)
}
