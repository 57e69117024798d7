package eventhandler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alem-hub/school-records/internal/domain/audit"
	"github.com/alem-hub/school-records/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON AUDIT TRAIL HANDLER
// Ведёт журнал изменений: одна запись журнала на каждое доменное событие.
// Журнал только пополняется.
// ═══════════════════════════════════════════════════════════════════════════

// OnAuditTrailHandler записывает доменные события в журнал изменений.
type OnAuditTrailHandler struct {
	auditRepo audit.Repository
	logger    *slog.Logger

	timeout time.Duration
}

// NewOnAuditTrailHandler создаёт новый обработчик журнала изменений.
func NewOnAuditTrailHandler(auditRepo audit.Repository, logger *slog.Logger) *OnAuditTrailHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnAuditTrailHandler{
		auditRepo: auditRepo,
		logger:    logger.With("handler", "on_audit_trail"),
		timeout:   10 * time.Second,
	}
}

// Handle записывает событие в журнал.
// Реализует интерфейс shared.EventHandler.
func (h *OnAuditTrailHandler) Handle(event shared.Event) error {
	entityKind := "record"
	actor := ""
	if changed, ok := event.(shared.RecordChangedEvent); ok {
		entityKind = changed.Entity
		actor = changed.Actor
	}

	payload, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("on_audit_trail: marshal payload: %w", err)
	}

	entry, err := audit.NewEntry(
		uuid.NewString(),
		entityKind,
		event.AggregateID(),
		event.EventType(),
		actor,
		payload,
		event.OccurredAt(),
	)
	if err != nil {
		return fmt.Errorf("on_audit_trail: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.auditRepo.Append(ctx, entry); err != nil {
		h.logger.Error("failed to append audit entry",
			"event_type", event.EventType(),
			"aggregate_id", event.AggregateID(),
			"error", err,
		)
		return fmt.Errorf("on_audit_trail: append: %w", err)
	}
	return nil
}

// Register подписывает обработчик на все события.
func (h *OnAuditTrailHandler) Register(subscriber shared.EventSubscriber) error {
	return subscriber.SubscribeAll(h.Handle)
}
