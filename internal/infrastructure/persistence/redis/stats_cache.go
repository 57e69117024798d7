package redis

import (
	"context"
	"fmt"

	"github.com/alem-hub/school-records/internal/application/query"
	"github.com/alem-hub/school-records/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DERIVED STATS CACHES
// ══════════════════════════════════════════════════════════════════════════════
// Read models built from derived fields change whenever a grade or an
// attendance record does, so both caches expose targeted invalidation for
// the event handler to call after a recompute.

// TranscriptCache caches assembled student transcripts.
type TranscriptCache struct {
	cache *Cache
}

// NewTranscriptCache creates a new TranscriptCache.
func NewTranscriptCache(cache *Cache) *TranscriptCache {
	return &TranscriptCache{cache: cache}
}

// Get returns a cached transcript. Returns ErrCacheMiss when absent.
func (t *TranscriptCache) Get(ctx context.Context, studentID string) (*query.StudentTranscriptDTO, error) {
	var dto query.StudentTranscriptDTO
	if err := t.cache.Get(ctx, TranscriptKey(studentID), &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

// Set stores a transcript with the default TTL.
func (t *TranscriptCache) Set(ctx context.Context, dto *query.StudentTranscriptDTO) error {
	if dto == nil {
		return nil
	}
	return t.cache.Set(ctx, TranscriptKey(dto.StudentID), dto, TTLTranscriptCache)
}

// InvalidateStudent drops the cached transcript of one student.
func (t *TranscriptCache) InvalidateStudent(ctx context.Context, studentID string) error {
	return t.cache.Delete(ctx, TranscriptKey(studentID))
}

// InvalidateAll drops every cached transcript.
func (t *TranscriptCache) InvalidateAll(ctx context.Context) error {
	return t.cache.DeleteByPattern(ctx, PrefixTranscript+"*")
}

// ReportCache caches aggregated attendance reports keyed by their filter.
type ReportCache struct {
	cache *Cache
}

// NewReportCache creates a new ReportCache.
func NewReportCache(cache *Cache) *ReportCache {
	return &ReportCache{cache: cache}
}

// Get returns a cached report for the filter. Returns ErrCacheMiss when absent.
func (r *ReportCache) Get(ctx context.Context, q query.AttendanceReportQuery) (*query.AttendanceReportDTO, error) {
	var dto query.AttendanceReportDTO
	if err := r.cache.Get(ctx, ReportKey(reportFingerprint(q)), &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

// Set stores a report with the default TTL.
func (r *ReportCache) Set(ctx context.Context, q query.AttendanceReportQuery, dto *query.AttendanceReportDTO) error {
	if dto == nil {
		return nil
	}
	return r.cache.Set(ctx, ReportKey(reportFingerprint(q)), dto, TTLReportCache)
}

// InvalidateAll drops every cached report. Reports aggregate across many
// students, so targeted invalidation is not worth the bookkeeping.
func (r *ReportCache) InvalidateAll(ctx context.Context) error {
	return r.cache.DeleteByPattern(ctx, PrefixReport+"*")
}

// reportFingerprint builds a stable cache key suffix from the filter fields.
func reportFingerprint(q query.AttendanceReportQuery) string {
	from, to := "", ""
	if !q.From.IsZero() {
		from = timeutil.FormatDate(q.From)
	}
	if !q.To.IsZero() {
		to = timeutil.FormatDate(q.To)
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", q.StudentID, q.ClassID, q.CourseID, from, to)
}
