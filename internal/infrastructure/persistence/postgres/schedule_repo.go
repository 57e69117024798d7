package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alem-hub/school-records/internal/domain/schedule"
	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/pkg/timeutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ScheduleRepository implements schedule.Repository for PostgreSQL.
// The schedules table carries EXCLUDE constraints mirroring the application
// conflict check, so a slot that races past it still cannot be committed.
type ScheduleRepository struct {
	conn *Connection
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(conn *Connection) *ScheduleRepository {
	return &ScheduleRepository{conn: conn}
}

const scheduleColumns = `
	id, class_id, course_id, teacher_id, day_of_week, start_time, end_time,
	room, session_type, start_date, end_date, notes, active,
	duration, display_name, created_at, updated_at
`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new schedule slot.
func (r *ScheduleRepository) Create(ctx context.Context, s *schedule.Schedule) error {
	query := `
		INSERT INTO schedules (
			id, class_id, course_id, teacher_id, day_of_week, start_time, end_time,
			room, session_type, start_date, end_date, notes, active,
			duration, display_name, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.ClassID,
		s.CourseID,
		s.TeacherID,
		string(s.DayOfWeek),
		float64(s.StartTime),
		float64(s.EndTime),
		s.Room,
		string(s.SessionType),
		s.StartDate,
		nullableTime(s.EndDate),
		s.Notes,
		s.Active,
		s.Duration,
		s.DisplayName,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if conflictErr := mapScheduleConflict(err, s); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}

// GetByID returns a schedule slot by ID.
func (r *ScheduleRepository) GetByID(ctx context.Context, id string) (*schedule.Schedule, error) {
	query := "SELECT " + scheduleColumns + " FROM schedules WHERE id = $1"

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanSchedule(row)
}

// Update updates a schedule slot.
func (r *ScheduleRepository) Update(ctx context.Context, s *schedule.Schedule) error {
	query := `
		UPDATE schedules SET
			class_id = $1,
			course_id = $2,
			teacher_id = $3,
			day_of_week = $4,
			start_time = $5,
			end_time = $6,
			room = $7,
			session_type = $8,
			start_date = $9,
			end_date = $10,
			notes = $11,
			active = $12,
			duration = $13,
			display_name = $14,
			updated_at = $15
		WHERE id = $16
	`

	result, err := r.conn.Exec(ctx, query,
		s.ClassID,
		s.CourseID,
		s.TeacherID,
		string(s.DayOfWeek),
		float64(s.StartTime),
		float64(s.EndTime),
		s.Room,
		string(s.SessionType),
		s.StartDate,
		nullableTime(s.EndDate),
		s.Notes,
		s.Active,
		s.Duration,
		s.DisplayName,
		time.Now().UTC(),
		s.ID,
	)
	if err != nil {
		if conflictErr := mapScheduleConflict(err, s); conflictErr != nil {
			return conflictErr
		}
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	if result.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}

	return nil
}

// Deactivate performs a soft delete on a schedule slot.
func (r *ScheduleRepository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE schedules
		SET active = FALSE, updated_at = $1
		WHERE id = $2
	`

	result, err := r.conn.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate schedule: %w", err)
	}

	if result.RowsAffected() == 0 {
		return schedule.ErrScheduleNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing
// ─────────────────────────────────────────────────────────────────────────────

// GetByClass returns the class's active schedule slots.
func (r *ScheduleRepository) GetByClass(ctx context.Context, classID string) ([]*schedule.Schedule, error) {
	query := "SELECT " + scheduleColumns + `
		FROM schedules
		WHERE class_id = $1 AND active
		ORDER BY day_of_week ASC, start_time ASC
	`

	rows, err := r.conn.Query(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules by class: %w", err)
	}
	defer rows.Close()

	return r.scanSchedules(rows)
}

// GetByTeacher returns the teacher's active schedule slots.
func (r *ScheduleRepository) GetByTeacher(ctx context.Context, teacherID string) ([]*schedule.Schedule, error) {
	query := "SELECT " + scheduleColumns + `
		FROM schedules
		WHERE teacher_id = $1 AND active
		ORDER BY day_of_week ASC, start_time ASC
	`

	rows, err := r.conn.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules by teacher: %w", err)
	}
	defer rows.Close()

	return r.scanSchedules(rows)
}

// GetSiblings returns all active slots on the given weekday that belong to
// either the class or the teacher. This is the candidate set the conflict
// detector walks before a slot is planned or moved.
func (r *ScheduleRepository) GetSiblings(ctx context.Context, classID, teacherID string, day schedule.Weekday) ([]*schedule.Schedule, error) {
	query := "SELECT " + scheduleColumns + `
		FROM schedules
		WHERE day_of_week = $1 AND active AND (class_id = $2 OR teacher_id = $3)
		ORDER BY start_time ASC
	`

	rows, err := r.conn.Query(ctx, query, string(day), classID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sibling schedules: %w", err)
	}
	defer rows.Close()

	return r.scanSchedules(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Row Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *ScheduleRepository) scanSchedule(row pgx.Row) (*schedule.Schedule, error) {
	var s schedule.Schedule
	var dayOfWeek, sessionType string
	var startTime, endTime float64
	var endDate *time.Time

	err := row.Scan(
		&s.ID,
		&s.ClassID,
		&s.CourseID,
		&s.TeacherID,
		&dayOfWeek,
		&startTime,
		&endTime,
		&s.Room,
		&sessionType,
		&s.StartDate,
		&endDate,
		&s.Notes,
		&s.Active,
		&s.Duration,
		&s.DisplayName,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, schedule.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to scan schedule: %w", err)
	}

	s.DayOfWeek = schedule.Weekday(dayOfWeek)
	s.SessionType = schedule.SessionType(sessionType)
	s.StartTime = timeutil.ClockHours(startTime)
	s.EndTime = timeutil.ClockHours(endTime)
	s.EndDate = timeOrZero(endDate)

	return &s, nil
}

func (r *ScheduleRepository) scanSchedules(rows pgx.Rows) ([]*schedule.Schedule, error) {
	schedules := make([]*schedule.Schedule, 0)
	for rows.Next() {
		s, err := r.scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Error Mapping
// ─────────────────────────────────────────────────────────────────────────────

// mapScheduleConflict translates an exclusion constraint violation into the
// domain conflict error. The conflicting slot's identifier is not reported
// by the constraint, so it stays empty.
func mapScheduleConflict(err error, s *schedule.Schedule) error {
	if !IsExclusionViolation(err) {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName == "schedules_no_teacher_overlap" {
		return shared.NewTeacherConflict(s.TeacherID, "")
	}
	return shared.NewClassConflict(s.ClassID, "")
}
