package audit

import "context"

// Repository определяет контракт журнала изменений. Журнал только
// пополняется: ни Update, ни Delete не предусмотрены.
type Repository interface {
	// Append сохраняет запись журнала.
	Append(ctx context.Context, e *Entry) error

	// GetByEntity возвращает записи сущности в хронологическом порядке.
	GetByEntity(ctx context.Context, entityKind, entityID string) ([]*Entry, error)
}
