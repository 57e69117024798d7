// Package projections implements read models for CQRS pattern.
package projections

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alem-hub/school-records/internal/domain/class"
	"github.com/alem-hub/school-records/internal/domain/course"
	"github.com/alem-hub/school-records/internal/domain/student"
	"github.com/alem-hub/school-records/internal/domain/teacher"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLASS SUMMARY VIEW - Denormalized Read Model for Class Dashboards
// ══════════════════════════════════════════════════════════════════════════════

// ClassSummaryView holds denormalized per-class summaries assembled from the
// class, student, course and teacher aggregates. It answers dashboard reads
// without touching the write-side repositories.
type ClassSummaryView struct {
	mu sync.RWMutex

	// summaries holds all class summaries indexed by class ID.
	summaries map[string]*ClassSummary

	// byCode indexes summaries by class code.
	byCode map[string]*ClassSummary

	// lastUpdated is the timestamp of the last update.
	lastUpdated time.Time

	// version is incremented on each update.
	version int64
}

// ClassSummary is a denormalized view of one class.
type ClassSummary struct {
	ClassID string `json:"class_id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Level   int    `json:"level"`
	Section string `json:"section"`
	Room    string `json:"room"`

	HeadTeacherID   string `json:"head_teacher_id"`
	HeadTeacherName string `json:"head_teacher_name"`

	// Derived aggregates, mirrored from the write side.
	StudentCount     int     `json:"student_count"`
	Capacity         int     `json:"capacity"`
	SeatsLeft        int     `json:"seats_left"`
	AverageGrade     float64 `json:"average_grade"`
	AttendanceRate   float64 `json:"attendance_rate"`
	CourseCount      int     `json:"course_count"`
	TotalWeeklyHours int     `json:"total_weekly_hours"`

	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// NewClassSummaryView creates a new empty class summary view.
func NewClassSummaryView() *ClassSummaryView {
	return &ClassSummaryView{
		summaries:   make(map[string]*ClassSummary),
		byCode:      make(map[string]*ClassSummary),
		lastUpdated: time.Now().UTC(),
		version:     1,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// BUILD / REBUILD OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// BuildSummaryParams contains the data needed to build a class summary.
type BuildSummaryParams struct {
	Class       *class.Class
	HeadTeacher *teacher.Teacher
	Students    []*student.Student
	Courses     []*course.Course
}

// BuildSummary constructs a ClassSummary from domain entities.
func (v *ClassSummaryView) BuildSummary(params BuildSummaryParams) (*ClassSummary, error) {
	if params.Class == nil {
		return nil, fmt.Errorf("projections: class is required to build summary")
	}

	c := params.Class
	now := time.Now().UTC()

	summary := &ClassSummary{
		ClassID:       c.ID,
		Name:          c.Name,
		Code:          c.Code,
		Level:         c.Level,
		Section:       c.Section,
		Room:          c.Room,
		HeadTeacherID: c.HeadTeacherID,
		StudentCount:  c.StudentCount,
		Capacity:      c.Capacity,
		SeatsLeft:     seatsLeft(c.Capacity, c.StudentCount),
		AverageGrade:  c.AverageClassGrade,
		CourseCount:   len(params.Courses),
		UpdatedAt:     now,
	}

	if params.HeadTeacher != nil {
		summary.HeadTeacherName = params.HeadTeacher.Name
	}

	if len(params.Students) > 0 {
		var total float64
		for _, s := range params.Students {
			total += s.AttendanceRate
		}
		summary.AttendanceRate = total / float64(len(params.Students))
	}

	for _, crs := range params.Courses {
		summary.TotalWeeklyHours += crs.HoursPerWeek
	}

	return summary, nil
}

// Upsert inserts or replaces a class summary.
func (v *ClassSummaryView) Upsert(summary *ClassSummary) error {
	if summary == nil || summary.ClassID == "" {
		return fmt.Errorf("projections: summary with class id is required")
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if old, ok := v.summaries[summary.ClassID]; ok && old.Code != summary.Code {
		delete(v.byCode, old.Code)
	}

	v.version++
	summary.Version = v.version
	v.summaries[summary.ClassID] = summary
	v.byCode[summary.Code] = summary
	v.lastUpdated = time.Now().UTC()

	return nil
}

// UpdateAverages refreshes the grade aggregates of one class in place.
// Called after the recompute engine syncs the write side.
func (v *ClassSummaryView) UpdateAverages(classID string, averageGrade float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	summary, ok := v.summaries[classID]
	if !ok {
		return
	}

	v.version++
	summary.AverageGrade = averageGrade
	summary.UpdatedAt = time.Now().UTC()
	summary.Version = v.version
	v.lastUpdated = summary.UpdatedAt
}

// UpdateStudentCount refreshes the roster size of one class in place.
func (v *ClassSummaryView) UpdateStudentCount(classID string, studentCount int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	summary, ok := v.summaries[classID]
	if !ok {
		return
	}

	v.version++
	summary.StudentCount = studentCount
	summary.SeatsLeft = seatsLeft(summary.Capacity, studentCount)
	summary.UpdatedAt = time.Now().UTC()
	summary.Version = v.version
	v.lastUpdated = summary.UpdatedAt
}

// Delete removes a class summary.
func (v *ClassSummaryView) Delete(classID string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	summary, ok := v.summaries[classID]
	if !ok {
		return
	}

	delete(v.byCode, summary.Code)
	delete(v.summaries, classID)
	v.version++
	v.lastUpdated = time.Now().UTC()
}

// ══════════════════════════════════════════════════════════════════════════════
// QUERY OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetByClassID returns the summary of one class.
func (v *ClassSummaryView) GetByClassID(ctx context.Context, classID string) (*ClassSummary, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	summary, ok := v.summaries[classID]
	if !ok {
		return nil, class.ErrClassNotFound
	}

	return summary.clone(), nil
}

// GetByCode returns the summary of one class by its code.
func (v *ClassSummaryView) GetByCode(ctx context.Context, code string) (*ClassSummary, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	summary, ok := v.byCode[code]
	if !ok {
		return nil, class.ErrClassNotFound
	}

	return summary.clone(), nil
}

// GetAll returns all summaries ordered by level and section.
func (v *ClassSummaryView) GetAll(ctx context.Context) ([]*ClassSummary, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	result := make([]*ClassSummary, 0, len(v.summaries))
	for _, summary := range v.summaries {
		result = append(result, summary.clone())
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Level != result[j].Level {
			return result[i].Level < result[j].Level
		}
		return result[i].Section < result[j].Section
	})

	return result, nil
}

// Count returns the number of summarized classes.
func (v *ClassSummaryView) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.summaries)
}

// GetVersion returns the current view version.
func (v *ClassSummaryView) GetVersion() int64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.version
}

// GetLastUpdated returns the time of the last mutation.
func (v *ClassSummaryView) GetLastUpdated() time.Time {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastUpdated
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *ClassSummary) clone() *ClassSummary {
	cp := *s
	return &cp
}

func seatsLeft(capacity, studentCount int) int {
	left := capacity - studentCount
	if left < 0 {
		return 0
	}
	return left
}
