package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/school-records/internal/domain/grade"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// GradeRepository implements grade.Repository for PostgreSQL.
type GradeRepository struct {
	conn *Connection
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(conn *Connection) *GradeRepository {
	return &GradeRepository{conn: conn}
}

const gradeColumns = `
	id, student_id, course_id, value, max_value, evaluation_type, semester,
	date, graded_by, remarks, active, percentage, letter, created_at, updated_at
`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new grade record. Percentage and letter are persisted as
// computed by the entity before the save.
func (r *GradeRepository) Create(ctx context.Context, g *grade.Grade) error {
	query := `
		INSERT INTO grades (
			id, student_id, course_id, value, max_value, evaluation_type, semester,
			date, graded_by, remarks, active, percentage, letter, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.conn.Exec(ctx, query,
		g.ID,
		g.StudentID,
		g.CourseID,
		g.Value,
		g.MaxValue,
		string(g.EvaluationType),
		string(g.Semester),
		g.Date,
		nullableID(g.GradedBy),
		g.Remarks,
		g.Active,
		g.Percentage,
		string(g.Letter),
		g.CreatedAt,
		g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create grade: %w", err)
	}

	return nil
}

// GetByID returns a grade by ID.
func (r *GradeRepository) GetByID(ctx context.Context, id string) (*grade.Grade, error) {
	query := "SELECT " + gradeColumns + " FROM grades WHERE id = $1"

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanGrade(row)
}

// Update updates a grade record.
func (r *GradeRepository) Update(ctx context.Context, g *grade.Grade) error {
	query := `
		UPDATE grades SET
			value = $1,
			max_value = $2,
			evaluation_type = $3,
			semester = $4,
			date = $5,
			graded_by = $6,
			remarks = $7,
			active = $8,
			percentage = $9,
			letter = $10,
			updated_at = $11
		WHERE id = $12
	`

	result, err := r.conn.Exec(ctx, query,
		g.Value,
		g.MaxValue,
		string(g.EvaluationType),
		string(g.Semester),
		g.Date,
		nullableID(g.GradedBy),
		g.Remarks,
		g.Active,
		g.Percentage,
		string(g.Letter),
		time.Now().UTC(),
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update grade: %w", err)
	}

	if result.RowsAffected() == 0 {
		return grade.ErrGradeNotFound
	}

	return nil
}

// Deactivate performs a soft delete on a grade record.
func (r *GradeRepository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE grades
		SET active = FALSE, updated_at = $1
		WHERE id = $2
	`

	result, err := r.conn.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate grade: %w", err)
	}

	if result.RowsAffected() == 0 {
		return grade.ErrGradeNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing
// ─────────────────────────────────────────────────────────────────────────────

// GetByStudent returns the student's active grades.
func (r *GradeRepository) GetByStudent(ctx context.Context, studentID string) ([]*grade.Grade, error) {
	query := "SELECT " + gradeColumns + `
		FROM grades
		WHERE student_id = $1 AND active
		ORDER BY date ASC
	`

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grades by student: %w", err)
	}
	defer rows.Close()

	return r.scanGrades(rows)
}

// GetByCourse returns the active grades recorded for a course.
func (r *GradeRepository) GetByCourse(ctx context.Context, courseID string) ([]*grade.Grade, error) {
	query := "SELECT " + gradeColumns + `
		FROM grades
		WHERE course_id = $1 AND active
		ORDER BY date ASC
	`

	rows, err := r.conn.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grades by course: %w", err)
	}
	defer rows.Close()

	return r.scanGrades(rows)
}

// GetByStudentAndCourse returns the student's active grades for one course.
func (r *GradeRepository) GetByStudentAndCourse(ctx context.Context, studentID, courseID string) ([]*grade.Grade, error) {
	query := "SELECT " + gradeColumns + `
		FROM grades
		WHERE student_id = $1 AND course_id = $2 AND active
		ORDER BY date ASC
	`

	rows, err := r.conn.Query(ctx, query, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grades by student and course: %w", err)
	}
	defer rows.Close()

	return r.scanGrades(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Row Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *GradeRepository) scanGrade(row pgx.Row) (*grade.Grade, error) {
	var g grade.Grade
	var evaluationType, semester, letter string
	var gradedBy *string

	err := row.Scan(
		&g.ID,
		&g.StudentID,
		&g.CourseID,
		&g.Value,
		&g.MaxValue,
		&evaluationType,
		&semester,
		&g.Date,
		&gradedBy,
		&g.Remarks,
		&g.Active,
		&g.Percentage,
		&letter,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, grade.ErrGradeNotFound
		}
		return nil, fmt.Errorf("failed to scan grade: %w", err)
	}

	g.EvaluationType = grade.EvaluationType(evaluationType)
	g.Semester = grade.Semester(semester)
	g.Letter = grade.Letter(letter)
	g.GradedBy = idOrEmpty(gradedBy)

	return &g, nil
}

func (r *GradeRepository) scanGrades(rows pgx.Rows) ([]*grade.Grade, error) {
	grades := make([]*grade.Grade, 0)
	for rows.Next() {
		g, err := r.scanGrade(rows)
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}
