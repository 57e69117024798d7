// Package eventhandler содержит обработчики доменных событий.
// Обработчики связывают записи команд с каскадом пересчёта вычисляемых
// полей и журналом изменений.
package eventhandler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alem-hub/school-records/internal/application/derive"
	"github.com/alem-hub/school-records/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON RECORD CHANGED HANDLER
// Подписчик каждой записи: пересчитывает зависимые поля через движок
// вычисляемых значений. Шина работает в синхронном режиме, поэтому
// каскад завершается до возврата команды.
// ═══════════════════════════════════════════════════════════════════════════

// Recomputer пересчитывает зависимые поля после записи.
type Recomputer interface {
	Recompute(ctx context.Context, scope shared.ChangeScope, changed ...derive.Field) error
}

// OnRecordChangedHandler обрабатывает события изменения записей.
type OnRecordChangedHandler struct {
	engine Recomputer
	logger *slog.Logger

	// timeout ограничивает один каскад пересчёта.
	timeout time.Duration
}

// NewOnRecordChangedHandler создаёт новый обработчик изменения записей.
func NewOnRecordChangedHandler(engine Recomputer, logger *slog.Logger) *OnRecordChangedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnRecordChangedHandler{
		engine:  engine,
		logger:  logger.With("handler", "on_record_changed"),
		timeout: 30 * time.Second,
	}
}

// Handle обрабатывает событие изменения записи.
// Реализует интерфейс shared.EventHandler.
func (h *OnRecordChangedHandler) Handle(event shared.Event) error {
	changed, ok := event.(shared.RecordChangedEvent)
	if !ok {
		return nil
	}
	if len(changed.ChangedFields) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	fields := make([]derive.Field, 0, len(changed.ChangedFields))
	for _, f := range changed.ChangedFields {
		fields = append(fields, derive.Field(f))
	}

	if err := h.engine.Recompute(ctx, changed.Scope, fields...); err != nil {
		h.logger.Error("recompute cascade failed",
			"event_type", changed.EventType(),
			"entity", changed.Entity,
			"aggregate_id", changed.AggregateID(),
			"error", err,
		)
		return fmt.Errorf("on_record_changed: %w", err)
	}

	h.logger.Debug("recompute cascade completed",
		"event_type", changed.EventType(),
		"entity", changed.Entity,
		"aggregate_id", changed.AggregateID(),
		"changed_fields", changed.ChangedFields,
	)
	return nil
}

// EventTypes возвращает типы событий, на которые подписывается обработчик.
func (h *OnRecordChangedHandler) EventTypes() []shared.EventType {
	return []shared.EventType{
		shared.EventStudentEnrolled,
		shared.EventStudentUpdated,
		shared.EventStudentStatusChanged,
		shared.EventTeacherRegistered,
		shared.EventTeacherUpdated,
		shared.EventTeacherStatusChanged,
		shared.EventClassCreated,
		shared.EventClassUpdated,
		shared.EventCourseCreated,
		shared.EventCourseUpdated,
		shared.EventGradeRecorded,
		shared.EventGradeUpdated,
		shared.EventSchedulePlanned,
		shared.EventScheduleUpdated,
		shared.EventAttendanceMarked,
		shared.EventAttendanceBulkMarked,
	}
}

// Register подписывает обработчик на все его типы событий.
func (h *OnRecordChangedHandler) Register(subscriber shared.EventSubscriber) error {
	for _, eventType := range h.EventTypes() {
		if err := subscriber.Subscribe(eventType, h.Handle); err != nil {
			return fmt.Errorf("on_record_changed: subscribe %s: %w", eventType, err)
		}
	}
	return nil
}
