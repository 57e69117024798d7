package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/alem-hub/school-records/internal/domain/course"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

const courseColumns = `
	id, name, code, description, credits, hours_per_week, teacher_id, class_id,
	start_date, end_date, active, average_course_grade, created_at, updated_at
`

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new course. The code column's unique constraint covers
// soft-deleted rows as well.
func (r *CourseRepository) Create(ctx context.Context, c *course.Course) error {
	query := `
		INSERT INTO courses (
			id, name, code, description, credits, hours_per_week, teacher_id, class_id,
			start_date, end_date, active, average_course_grade, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.conn.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Code,
		c.Description,
		c.Credits,
		c.HoursPerWeek,
		c.TeacherID,
		c.ClassID,
		nullableTime(c.StartDate),
		nullableTime(c.EndDate),
		c.Active,
		c.AverageCourseGrade,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return course.ErrCodeTaken
		}
		return fmt.Errorf("failed to create course: %w", err)
	}

	return nil
}

// GetByID returns a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*course.Course, error) {
	query := "SELECT " + courseColumns + " FROM courses WHERE id = $1"

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanCourse(row)
}

// GetByCode returns a course by code.
func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*course.Course, error) {
	query := "SELECT " + courseColumns + " FROM courses WHERE code = $1"

	row := r.conn.QueryRow(ctx, query, code)
	return r.scanCourse(row)
}

// Update updates a course.
func (r *CourseRepository) Update(ctx context.Context, c *course.Course) error {
	query := `
		UPDATE courses SET
			name = $1,
			code = $2,
			description = $3,
			credits = $4,
			hours_per_week = $5,
			teacher_id = $6,
			class_id = $7,
			start_date = $8,
			end_date = $9,
			active = $10,
			updated_at = $11
		WHERE id = $12
	`

	result, err := r.conn.Exec(ctx, query,
		c.Name,
		c.Code,
		c.Description,
		c.Credits,
		c.HoursPerWeek,
		c.TeacherID,
		c.ClassID,
		nullableTime(c.StartDate),
		nullableTime(c.EndDate),
		c.Active,
		time.Now().UTC(),
		c.ID,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return course.ErrCodeTaken
		}
		return fmt.Errorf("failed to update course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return course.ErrCourseNotFound
	}

	return nil
}

// Deactivate performs a soft delete on a course.
func (r *CourseRepository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE courses
		SET active = FALSE, updated_at = $1
		WHERE id = $2
	`

	result, err := r.conn.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return course.ErrCourseNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing
// ─────────────────────────────────────────────────────────────────────────────

// GetByTeacher returns the teacher's active courses.
func (r *CourseRepository) GetByTeacher(ctx context.Context, teacherID string) ([]*course.Course, error) {
	query := "SELECT " + courseColumns + `
		FROM courses
		WHERE teacher_id = $1 AND active
		ORDER BY name ASC
	`

	rows, err := r.conn.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses by teacher: %w", err)
	}
	defer rows.Close()

	return r.scanCourses(rows)
}

// GetByClass returns the active courses taught to a class.
func (r *CourseRepository) GetByClass(ctx context.Context, classID string) ([]*course.Course, error) {
	query := "SELECT " + courseColumns + `
		FROM courses
		WHERE class_id = $1 AND active
		ORDER BY name ASC
	`

	rows, err := r.conn.Query(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses by class: %w", err)
	}
	defer rows.Close()

	return r.scanCourses(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Derived Field Recomputation
// ─────────────────────────────────────────────────────────────────────────────

// SyncAverageGrade recomputes the course average as the mean of the raw
// grade values with a single atomic statement. An empty set yields 0.0.
func (r *CourseRepository) SyncAverageGrade(ctx context.Context, id string) error {
	query := `
		UPDATE courses SET
			average_course_grade = COALESCE((
				SELECT AVG(value) FROM grades
				WHERE course_id = courses.id AND active
			), 0),
			updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.conn.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to sync course average grade: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Row Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *CourseRepository) scanCourse(row pgx.Row) (*course.Course, error) {
	var c course.Course
	var startDate, endDate *time.Time

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Code,
		&c.Description,
		&c.Credits,
		&c.HoursPerWeek,
		&c.TeacherID,
		&c.ClassID,
		&startDate,
		&endDate,
		&c.Active,
		&c.AverageCourseGrade,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, course.ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}

	c.StartDate = timeOrZero(startDate)
	c.EndDate = timeOrZero(endDate)

	return &c, nil
}

func (r *CourseRepository) scanCourses(rows pgx.Rows) ([]*course.Course, error) {
	courses := make([]*course.Course, 0)
	for rows.Next() {
		c, err := r.scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
