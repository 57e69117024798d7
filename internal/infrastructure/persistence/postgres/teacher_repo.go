package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/school-records/internal/domain/teacher"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// TeacherRepository implements teacher.Repository for PostgreSQL.
type TeacherRepository struct {
	conn *Connection
}

// NewTeacherRepository creates a new TeacherRepository.
func NewTeacherRepository(conn *Connection) *TeacherRepository {
	return &TeacherRepository{conn: conn}
}

const teacherColumns = `
	id, name, email, phone, hire_date, department, specialization,
	qualification, status, notes, active, total_courses, created_at, updated_at
`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new teacher.
func (r *TeacherRepository) Create(ctx context.Context, t *teacher.Teacher) error {
	query := `
		INSERT INTO teachers (
			id, name, email, phone, hire_date, department, specialization,
			qualification, status, notes, active, total_courses, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.conn.Exec(ctx, query,
		t.ID,
		t.Name,
		t.Email,
		t.Phone,
		t.HireDate,
		t.Department,
		t.Specialization,
		string(t.Qualification),
		string(t.Status),
		t.Notes,
		t.Active,
		t.TotalCourses,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create teacher: %w", err)
	}

	return nil
}

// GetByID returns a teacher by ID.
func (r *TeacherRepository) GetByID(ctx context.Context, id string) (*teacher.Teacher, error) {
	query := "SELECT " + teacherColumns + " FROM teachers WHERE id = $1"

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanTeacher(row)
}

// Update updates a teacher.
func (r *TeacherRepository) Update(ctx context.Context, t *teacher.Teacher) error {
	query := `
		UPDATE teachers SET
			name = $1,
			email = $2,
			phone = $3,
			hire_date = $4,
			department = $5,
			specialization = $6,
			qualification = $7,
			status = $8,
			notes = $9,
			active = $10,
			updated_at = $11
		WHERE id = $12
	`

	result, err := r.conn.Exec(ctx, query,
		t.Name,
		t.Email,
		t.Phone,
		t.HireDate,
		t.Department,
		t.Specialization,
		string(t.Qualification),
		string(t.Status),
		t.Notes,
		t.Active,
		time.Now().UTC(),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update teacher: %w", err)
	}

	if result.RowsAffected() == 0 {
		return teacher.ErrTeacherNotFound
	}

	return nil
}

// Deactivate performs a soft delete on a teacher.
func (r *TeacherRepository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE teachers
		SET active = FALSE, updated_at = $1
		WHERE id = $2
	`

	result, err := r.conn.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate teacher: %w", err)
	}

	if result.RowsAffected() == 0 {
		return teacher.ErrTeacherNotFound
	}

	return nil
}

// GetAll returns all active teachers.
func (r *TeacherRepository) GetAll(ctx context.Context) ([]*teacher.Teacher, error) {
	query := "SELECT " + teacherColumns + `
		FROM teachers
		WHERE active
		ORDER BY name ASC
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teachers: %w", err)
	}
	defer rows.Close()

	return r.scanTeachers(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Derived Field Recomputation
// ─────────────────────────────────────────────────────────────────────────────

// SyncTotalCourses recomputes the number of active courses assigned to the
// teacher with a single atomic statement.
func (r *TeacherRepository) SyncTotalCourses(ctx context.Context, id string) error {
	query := `
		UPDATE teachers SET
			total_courses = COALESCE((
				SELECT COUNT(*) FROM courses
				WHERE teacher_id = teachers.id AND active
			), 0),
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.conn.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to sync teacher course count: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *TeacherRepository) scanTeacher(row pgx.Row) (*teacher.Teacher, error) {
	var t teacher.Teacher
	var qualification, status string

	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Email,
		&t.Phone,
		&t.HireDate,
		&t.Department,
		&t.Specialization,
		&qualification,
		&status,
		&t.Notes,
		&t.Active,
		&t.TotalCourses,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, teacher.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to scan teacher: %w", err)
	}

	t.Qualification = teacher.Qualification(qualification)
	t.Status = teacher.Status(status)

	return &t, nil
}

func (r *TeacherRepository) scanTeachers(rows pgx.Rows) ([]*teacher.Teacher, error) {
	teachers := make([]*teacher.Teacher, 0)
	for rows.Next() {
		t, err := r.scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}
