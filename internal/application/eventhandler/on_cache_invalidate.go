package eventhandler

import (
	"context"
	"log/slog"
	"time"

	"github.com/alem-hub/school-records/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON CACHE INVALIDATE HANDLER
// Сбрасывает кэшированные модели чтения (табели, отчёты посещаемости)
// после изменения записей. Кэш живёт недолго, поэтому ошибки сброса
// не критичны и только логируются.
// ═══════════════════════════════════════════════════════════════════════════

// TranscriptInvalidator сбрасывает кэш табелей.
type TranscriptInvalidator interface {
	InvalidateStudent(ctx context.Context, studentID string) error
}

// ReportInvalidator сбрасывает кэш отчётов посещаемости.
type ReportInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// OnCacheInvalidateHandler сбрасывает кэши моделей чтения по событиям.
type OnCacheInvalidateHandler struct {
	transcripts TranscriptInvalidator
	reports     ReportInvalidator
	logger      *slog.Logger

	timeout time.Duration
}

// NewOnCacheInvalidateHandler создаёт новый обработчик сброса кэша.
// Любой из инвалидаторов может быть nil, тогда соответствующий кэш
// не обслуживается.
func NewOnCacheInvalidateHandler(transcripts TranscriptInvalidator, reports ReportInvalidator, logger *slog.Logger) *OnCacheInvalidateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnCacheInvalidateHandler{
		transcripts: transcripts,
		reports:     reports,
		logger:      logger.With("handler", "on_cache_invalidate"),
		timeout:     5 * time.Second,
	}
}

// Handle сбрасывает кэши, затронутые изменением записи.
// Реализует интерфейс shared.EventHandler.
func (h *OnCacheInvalidateHandler) Handle(event shared.Event) error {
	changed, ok := event.(shared.RecordChangedEvent)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if h.transcripts != nil && changed.Scope.StudentID != "" {
		if err := h.transcripts.InvalidateStudent(ctx, changed.Scope.StudentID); err != nil {
			h.logger.Error("failed to invalidate transcript cache",
				"student_id", changed.Scope.StudentID,
				"error", err,
			)
		}
	}

	if h.reports != nil && changed.Entity == "attendance" {
		if err := h.reports.InvalidateAll(ctx); err != nil {
			h.logger.Error("failed to invalidate report cache", "error", err)
		}
	}

	return nil
}

// Register подписывает обработчик на все события.
func (h *OnCacheInvalidateHandler) Register(subscriber shared.EventSubscriber) error {
	return subscriber.SubscribeAll(h.Handle)
}
