// Package audit содержит журнал изменений записей - только добавление,
// без правок и удалений.
package audit

import (
	"time"

	"github.com/alem-hub/school-records/internal/domain/shared"
)

// Entry - запись журнала изменений.
type Entry struct {
	// ID - внутренний уникальный идентификатор.
	ID string

	// EntityKind - вид сущности: "student", "grade", "schedule" и т.д.
	EntityKind string

	// EntityID - идентификатор изменённой сущности.
	EntityID string

	// EventType - тип доменного события.
	EventType shared.EventType

	// Actor - кто вызвал изменение; пустое значение означает систему.
	Actor string

	// Payload - снимок полей события в JSON.
	Payload []byte

	// OccurredAt - момент события.
	OccurredAt time.Time
}

// NewEntry создаёт запись журнала.
func NewEntry(id, entityKind, entityID string, eventType shared.EventType, actor string, payload []byte, occurredAt time.Time) (*Entry, error) {
	if id == "" {
		return nil, shared.NewDomainError("audit", "Create", shared.ErrInvalidID, "audit entry id is required")
	}
	if entityKind == "" || entityID == "" {
		return nil, shared.NewDomainError("audit", "Create", shared.ErrEmptyValue, "audit entry entity reference is required")
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	return &Entry{
		ID:         id,
		EntityKind: entityKind,
		EntityID:   entityID,
		EventType:  eventType,
		Actor:      actor,
		Payload:    payload,
		OccurredAt: occurredAt,
	}, nil
}
