package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/school-records/internal/domain/student"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentColumns = `
	id, name, email, phone, date_of_birth, gender, street, city, zip,
	guardian_name, guardian_phone, guardian_email, guardian_relation,
	class_id, admission_date, status, notes, active,
	age, average_grade, attendance_rate, created_at, updated_at
`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new student.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (
			id, name, email, phone, date_of_birth, gender, street, city, zip,
			guardian_name, guardian_phone, guardian_email, guardian_relation,
			class_id, admission_date, status, notes, active,
			age, average_grade, attendance_rate, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23
		)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.Name,
		s.Email,
		s.Phone,
		nullableTime(s.DateOfBirth),
		string(s.Gender),
		s.Street,
		s.City,
		s.Zip,
		s.Guardian.Name,
		s.Guardian.Phone,
		s.Guardian.Email,
		s.Guardian.Relation,
		nullableID(s.ClassID),
		s.AdmissionDate,
		string(s.Status),
		s.Notes,
		s.Active,
		s.Age,
		s.AverageGrade,
		s.AttendanceRate,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID returns a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE id = $1"

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanStudent(row)
}

// Update updates a student.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE students SET
			name = $1,
			email = $2,
			phone = $3,
			date_of_birth = $4,
			gender = $5,
			street = $6,
			city = $7,
			zip = $8,
			guardian_name = $9,
			guardian_phone = $10,
			guardian_email = $11,
			guardian_relation = $12,
			class_id = $13,
			admission_date = $14,
			status = $15,
			notes = $16,
			active = $17,
			updated_at = $18
		WHERE id = $19
	`

	result, err := r.conn.Exec(ctx, query,
		s.Name,
		s.Email,
		s.Phone,
		nullableTime(s.DateOfBirth),
		string(s.Gender),
		s.Street,
		s.City,
		s.Zip,
		s.Guardian.Name,
		s.Guardian.Phone,
		s.Guardian.Email,
		s.Guardian.Relation,
		nullableID(s.ClassID),
		s.AdmissionDate,
		string(s.Status),
		s.Notes,
		s.Active,
		time.Now().UTC(),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	return nil
}

// Deactivate performs a soft delete on a student.
func (r *StudentRepository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE students
		SET active = FALSE, updated_at = $1
		WHERE id = $2
	`

	result, err := r.conn.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing
// ─────────────────────────────────────────────────────────────────────────────

// GetByClass returns active students of the given class.
func (r *StudentRepository) GetByClass(ctx context.Context, classID string) ([]*student.Student, error) {
	query := "SELECT " + studentColumns + `
		FROM students
		WHERE class_id = $1 AND active
		ORDER BY name ASC
	`

	rows, err := r.conn.Query(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query students by class: %w", err)
	}
	defer rows.Close()

	return r.scanStudents(rows)
}

// GetAll returns all active students.
func (r *StudentRepository) GetAll(ctx context.Context) ([]*student.Student, error) {
	query := "SELECT " + studentColumns + `
		FROM students
		WHERE active
		ORDER BY name ASC
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	return r.scanStudents(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Derived Field Recomputation
// ─────────────────────────────────────────────────────────────────────────────
// Each sync is a single atomic statement, so concurrent recomputes of the
// same student cannot interleave partial state.

// SyncAverageGrade recomputes the student's average grade as the mean of
// the raw grade values, not percentages. An empty set yields 0.0.
func (r *StudentRepository) SyncAverageGrade(ctx context.Context, id string) error {
	query := `
		UPDATE students SET
			average_grade = COALESCE((
				SELECT AVG(value) FROM grades
				WHERE student_id = students.id AND active
			), 0),
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.conn.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to sync student average grade: %w", err)
	}

	return nil
}

// SyncAttendanceRate recomputes the share of attended sessions in percent.
// Only present counts as attended; late and excused do not.
func (r *StudentRepository) SyncAttendanceRate(ctx context.Context, id string) error {
	query := `
		UPDATE students SET
			attendance_rate = COALESCE((
				SELECT 100.0 * COUNT(*) FILTER (WHERE status = 'present') / NULLIF(COUNT(*), 0)
				FROM attendance
				WHERE student_id = students.id AND active
			), 0),
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.conn.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to sync student attendance rate: %w", err)
	}

	return nil
}

// SyncAge recomputes the student's age in full years from the date of birth.
func (r *StudentRepository) SyncAge(ctx context.Context, id string) error {
	query := `
		UPDATE students SET
			age = COALESCE(EXTRACT(YEAR FROM age(CURRENT_DATE, date_of_birth))::int, 0),
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.conn.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to sync student age: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *StudentRepository) scanStudent(row pgx.Row) (*student.Student, error) {
	var s student.Student
	var gender, status string
	var dateOfBirth *time.Time
	var classID *string

	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Email,
		&s.Phone,
		&dateOfBirth,
		&gender,
		&s.Street,
		&s.City,
		&s.Zip,
		&s.Guardian.Name,
		&s.Guardian.Phone,
		&s.Guardian.Email,
		&s.Guardian.Relation,
		&classID,
		&s.AdmissionDate,
		&status,
		&s.Notes,
		&s.Active,
		&s.Age,
		&s.AverageGrade,
		&s.AttendanceRate,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, student.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.DateOfBirth = timeOrZero(dateOfBirth)
	s.ClassID = idOrEmpty(classID)
	s.Gender = student.Gender(gender)
	s.Status = student.Status(status)

	return &s, nil
}

func (r *StudentRepository) scanStudents(rows pgx.Rows) ([]*student.Student, error) {
	students := make([]*student.Student, 0)
	for rows.Next() {
		s, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
