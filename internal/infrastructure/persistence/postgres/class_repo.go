package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/school-records/internal/domain/class"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLASS REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ClassRepository implements class.Repository for PostgreSQL.
type ClassRepository struct {
	conn *Connection
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(conn *Connection) *ClassRepository {
	return &ClassRepository{conn: conn}
}

const classColumns = `
	id, name, code, level, section, capacity, room, head_teacher_id, notes,
	active, student_count, average_class_grade, created_at, updated_at
`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new class. The code column's unique constraint covers
// soft-deleted rows as well, so a retired code cannot be reused.
func (r *ClassRepository) Create(ctx context.Context, c *class.Class) error {
	query := `
		INSERT INTO classes (
			id, name, code, level, section, capacity, room, head_teacher_id, notes,
			active, student_count, average_class_grade, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.conn.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Code,
		c.Level,
		c.Section,
		c.Capacity,
		c.Room,
		nullableID(c.HeadTeacherID),
		c.Notes,
		c.Active,
		c.StudentCount,
		c.AverageClassGrade,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return class.ErrCodeTaken
		}
		return fmt.Errorf("failed to create class: %w", err)
	}

	return nil
}

// GetByID returns a class by ID.
func (r *ClassRepository) GetByID(ctx context.Context, id string) (*class.Class, error) {
	query := "SELECT " + classColumns + " FROM classes WHERE id = $1"

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanClass(row)
}

// GetByCode returns a class by code.
func (r *ClassRepository) GetByCode(ctx context.Context, code string) (*class.Class, error) {
	query := "SELECT " + classColumns + " FROM classes WHERE code = $1"

	row := r.conn.QueryRow(ctx, query, code)
	return r.scanClass(row)
}

// Update updates a class.
func (r *ClassRepository) Update(ctx context.Context, c *class.Class) error {
	query := `
		UPDATE classes SET
			name = $1,
			code = $2,
			level = $3,
			section = $4,
			capacity = $5,
			room = $6,
			head_teacher_id = $7,
			notes = $8,
			active = $9,
			updated_at = $10
		WHERE id = $11
	`

	result, err := r.conn.Exec(ctx, query,
		c.Name,
		c.Code,
		c.Level,
		c.Section,
		c.Capacity,
		c.Room,
		nullableID(c.HeadTeacherID),
		c.Notes,
		c.Active,
		time.Now().UTC(),
		c.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return class.ErrCodeTaken
		}
		return fmt.Errorf("failed to update class: %w", err)
	}

	if result.RowsAffected() == 0 {
		return class.ErrClassNotFound
	}

	return nil
}

// Deactivate performs a soft delete on a class.
func (r *ClassRepository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE classes
		SET active = FALSE, updated_at = $1
		WHERE id = $2
	`

	result, err := r.conn.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate class: %w", err)
	}

	if result.RowsAffected() == 0 {
		return class.ErrClassNotFound
	}

	return nil
}

// GetAll returns all active classes.
func (r *ClassRepository) GetAll(ctx context.Context) ([]*class.Class, error) {
	query := "SELECT " + classColumns + `
		FROM classes
		WHERE active
		ORDER BY level ASC, section ASC
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	return r.scanClasses(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Derived Field Recomputation
// ─────────────────────────────────────────────────────────────────────────────

// SyncStudentCount recomputes the number of active students in the class.
func (r *ClassRepository) SyncStudentCount(ctx context.Context, id string) error {
	query := `
		UPDATE classes SET
			student_count = COALESCE((
				SELECT COUNT(*) FROM students
				WHERE class_id = classes.id AND active
			), 0),
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.conn.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to sync class student count: %w", err)
	}

	return nil
}

// SyncAverageGrade recomputes the class average as the mean of its active
// students' average grades. An empty class yields 0.0.
func (r *ClassRepository) SyncAverageGrade(ctx context.Context, id string) error {
	query := `
		UPDATE classes SET
			average_class_grade = COALESCE((
				SELECT AVG(average_grade) FROM students
				WHERE class_id = classes.id AND active
			), 0),
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.conn.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to sync class average grade: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *ClassRepository) scanClass(row pgx.Row) (*class.Class, error) {
	var c class.Class
	var headTeacherID *string

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Code,
		&c.Level,
		&c.Section,
		&c.Capacity,
		&c.Room,
		&headTeacherID,
		&c.Notes,
		&c.Active,
		&c.StudentCount,
		&c.AverageClassGrade,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, class.ErrClassNotFound
		}
		return nil, fmt.Errorf("failed to scan class: %w", err)
	}

	c.HeadTeacherID = idOrEmpty(headTeacherID)

	return &c, nil
}

func (r *ClassRepository) scanClasses(rows pgx.Rows) ([]*class.Class, error) {
	classes := make([]*class.Class, 0)
	for rows.Next() {
		c, err := r.scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}
