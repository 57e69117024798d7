package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/school-records/internal/domain/attendance"
	"github.com/alem-hub/school-records/pkg/timeutil"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AttendanceRepository implements attendance.Repository for PostgreSQL.
// A partial unique index backstops the duplicate check for course-bound
// records; daily records carry no course and are not deduplicated.
type AttendanceRepository struct {
	conn *Connection
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(conn *Connection) *AttendanceRepository {
	return &AttendanceRepository{conn: conn}
}

const attendanceColumns = `
	id, student_id, class_id, course_id, date, status, check_in, check_out,
	remarks, marked_by, active, display_name, created_at, updated_at
`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new attendance record.
func (r *AttendanceRepository) Create(ctx context.Context, a *attendance.Record) error {
	query := `
		INSERT INTO attendance (
			id, student_id, class_id, course_id, date, status, check_in, check_out,
			remarks, marked_by, active, display_name, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.conn.Exec(ctx, query,
		a.ID,
		a.StudentID,
		nullableID(a.ClassID),
		nullableID(a.CourseID),
		a.Date,
		string(a.Status),
		float64(a.CheckIn),
		float64(a.CheckOut),
		a.Remarks,
		nullableID(a.MarkedBy),
		a.Active,
		a.DisplayName,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return attendance.ErrDuplicate
		}
		return fmt.Errorf("failed to create attendance record: %w", err)
	}

	return nil
}

// GetByID returns an attendance record by ID.
func (r *AttendanceRepository) GetByID(ctx context.Context, id string) (*attendance.Record, error) {
	query := "SELECT " + attendanceColumns + " FROM attendance WHERE id = $1"

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanRecord(row)
}

// Update updates an attendance record.
func (r *AttendanceRepository) Update(ctx context.Context, a *attendance.Record) error {
	query := `
		UPDATE attendance SET
			status = $1,
			check_in = $2,
			check_out = $3,
			remarks = $4,
			marked_by = $5,
			active = $6,
			display_name = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := r.conn.Exec(ctx, query,
		string(a.Status),
		float64(a.CheckIn),
		float64(a.CheckOut),
		a.Remarks,
		nullableID(a.MarkedBy),
		a.Active,
		a.DisplayName,
		time.Now().UTC(),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// Deactivate performs a soft delete on an attendance record.
func (r *AttendanceRepository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE attendance
		SET active = FALSE, updated_at = $1
		WHERE id = $2
	`

	result, err := r.conn.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate attendance record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing
// ─────────────────────────────────────────────────────────────────────────────

// GetByStudent returns the student's active attendance records.
func (r *AttendanceRepository) GetByStudent(ctx context.Context, studentID string) ([]*attendance.Record, error) {
	query := "SELECT " + attendanceColumns + `
		FROM attendance
		WHERE student_id = $1 AND active
		ORDER BY date DESC
	`

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance by student: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// GetByClassAndDate returns active attendance records for a class on a day.
func (r *AttendanceRepository) GetByClassAndDate(ctx context.Context, classID string, date time.Time) ([]*attendance.Record, error) {
	query := "SELECT " + attendanceColumns + `
		FROM attendance
		WHERE class_id = $1 AND date = $2 AND active
		ORDER BY created_at ASC
	`

	rows, err := r.conn.Query(ctx, query, classID, timeutil.DateOf(date))
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance by class and date: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Duplicate Check
// ─────────────────────────────────────────────────────────────────────────────

// ExistsDuplicate reports whether an active record already exists for the
// student, date and course combination.
func (r *AttendanceRepository) ExistsDuplicate(ctx context.Context, studentID string, date time.Time, courseID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM attendance
			WHERE student_id = $1 AND date = $2 AND course_id = $3 AND active
		)
	`, studentID, timeutil.DateOf(date), courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check attendance duplicate: %w", err)
	}
	return exists, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Reporting
// ─────────────────────────────────────────────────────────────────────────────

// Report aggregates active attendance records by student, course, date and
// status. Empty filter fields are ignored.
func (r *AttendanceRepository) Report(ctx context.Context, filter attendance.ReportFilter) ([]attendance.ReportRow, error) {
	query := `
		SELECT student_id, COALESCE(class_id::text, ''), COALESCE(course_id::text, ''),
		       date, status, COUNT(*)
		FROM attendance
		WHERE active
	`

	args := make([]interface{}, 0, 5)
	argN := 0
	addArg := func(clause string, value interface{}) {
		argN++
		query += fmt.Sprintf(" AND %s $%d", clause, argN)
		args = append(args, value)
	}

	if filter.StudentID != "" {
		addArg("student_id =", filter.StudentID)
	}
	if filter.ClassID != "" {
		addArg("class_id =", filter.ClassID)
	}
	if filter.CourseID != "" {
		addArg("course_id =", filter.CourseID)
	}
	if !filter.From.IsZero() {
		addArg("date >=", timeutil.DateOf(filter.From))
	}
	if !filter.To.IsZero() {
		addArg("date <=", timeutil.DateOf(filter.To))
	}

	query += `
		GROUP BY student_id, class_id, course_id, date, status
		ORDER BY date ASC, student_id ASC
	`

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance report: %w", err)
	}
	defer rows.Close()

	result := make([]attendance.ReportRow, 0)
	for rows.Next() {
		var row attendance.ReportRow
		var status string

		if err := rows.Scan(&row.StudentID, &row.ClassID, &row.CourseID, &row.Date, &status, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan attendance report row: %w", err)
		}

		row.Status = attendance.Status(status)
		result = append(result, row)
	}

	return result, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Row Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *AttendanceRepository) scanRecord(row pgx.Row) (*attendance.Record, error) {
	var a attendance.Record
	var status string
	var checkIn, checkOut float64
	var classID, courseID, markedBy *string

	err := row.Scan(
		&a.ID,
		&a.StudentID,
		&classID,
		&courseID,
		&a.Date,
		&status,
		&checkIn,
		&checkOut,
		&a.Remarks,
		&markedBy,
		&a.Active,
		&a.DisplayName,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, attendance.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to scan attendance record: %w", err)
	}

	a.ClassID = idOrEmpty(classID)
	a.CourseID = idOrEmpty(courseID)
	a.MarkedBy = idOrEmpty(markedBy)
	a.Status = attendance.Status(status)
	a.CheckIn = timeutil.ClockHours(checkIn)
	a.CheckOut = timeutil.ClockHours(checkOut)

	return &a, nil
}

func (r *AttendanceRepository) scanRecords(rows pgx.Rows) ([]*attendance.Record, error) {
	records := make([]*attendance.Record, 0)
	for rows.Next() {
		a, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
