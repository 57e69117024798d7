package postgres

import (
	"context"
	"fmt"

	"github.com/alem-hub/school-records/internal/domain/audit"
	"github.com/alem-hub/school-records/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUDIT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AuditRepository implements audit.Repository for PostgreSQL.
// The audit log is append-only; entries are never updated or deleted.
type AuditRepository struct {
	conn *Connection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(conn *Connection) *AuditRepository {
	return &AuditRepository{conn: conn}
}

// Append writes a new audit entry.
func (r *AuditRepository) Append(ctx context.Context, e *audit.Entry) error {
	query := `
		INSERT INTO audit_log (id, entity_kind, entity_id, event_type, actor, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		e.ID,
		e.EntityKind,
		e.EntityID,
		string(e.EventType),
		e.Actor,
		e.Payload,
		e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}

// GetByEntity returns the audit trail of a single entity, oldest first.
func (r *AuditRepository) GetByEntity(ctx context.Context, entityKind, entityID string) ([]*audit.Entry, error) {
	query := `
		SELECT id, entity_kind, entity_id, event_type, actor, payload, occurred_at
		FROM audit_log
		WHERE entity_kind = $1 AND entity_id = $2
		ORDER BY occurred_at ASC
	`

	rows, err := r.conn.Query(ctx, query, entityKind, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*audit.Entry, 0)
	for rows.Next() {
		var e audit.Entry
		var eventType string

		if err := rows.Scan(&e.ID, &e.EntityKind, &e.EntityID, &eventType, &e.Actor, &e.Payload, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}

		e.EventType = shared.EventType(eventType)
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}
