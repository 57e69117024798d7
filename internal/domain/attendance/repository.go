package attendance

import (
	"context"
	"time"
)

// ReportRow - строка сводного отчёта посещаемости: количество записей
// в разрезе ученика, класса, курса, даты и статуса.
type ReportRow struct {
	StudentID string
	ClassID   string
	CourseID  string
	Date      time.Time
	Status    Status
	Count     int
}

// ReportFilter задаёт границы отчёта. Нулевые поля не фильтруют.
type ReportFilter struct {
	StudentID string
	ClassID   string
	CourseID  string
	From      time.Time
	To        time.Time
}

// Repository определяет контракт хранилища записей посещаемости.
type Repository interface {
	// Create сохраняет новую запись.
	Create(ctx context.Context, r *Record) error

	// GetByID возвращает запись по идентификатору.
	GetByID(ctx context.Context, id string) (*Record, error)

	// Update обновляет запись.
	Update(ctx context.Context, r *Record) error

	// Deactivate выполняет мягкое удаление записи.
	Deactivate(ctx context.Context, id string) error

	// GetByStudent возвращает активные записи ученика.
	GetByStudent(ctx context.Context, studentID string) ([]*Record, error)

	// GetByClassAndDate возвращает активные записи класса за день.
	GetByClassAndDate(ctx context.Context, classID string, date time.Time) ([]*Record, error)

	// ExistsDuplicate сообщает, есть ли у ученика активная запись
	// за эту дату по этому курсу. Проверка выполняется только
	// при непустом courseID.
	ExistsDuplicate(ctx context.Context, studentID string, date time.Time, courseID string) (bool, error)

	// Report возвращает сгруппированную сводку посещаемости.
	Report(ctx context.Context, filter ReportFilter) ([]ReportRow, error)
}
