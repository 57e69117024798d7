package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alem-hub/school-records/internal/domain/grade"
	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD GRADE COMMAND
// The write triggers the derived-value cascade: the grade's percentage and
// letter are computed before the insert, the student, class and course
// averages by the subscribers of the emitted event.
// ══════════════════════════════════════════════════════════════════════════════

// RecordGradeCommand contains the data to record a grade.
type RecordGradeCommand struct {
	// StudentID is the graded student, required.
	StudentID string

	// CourseID is the graded course, required.
	CourseID string

	// Value is the raw grade, in [0, MaxValue].
	Value float64

	// MaxValue defaults to 20 when zero.
	MaxValue float64

	// EvaluationType is the kind of evaluation.
	EvaluationType grade.EvaluationType

	// Semester is "1" or "2".
	Semester grade.Semester

	// Date defaults to today when zero.
	Date time.Time

	// GradedBy identifies the grading teacher.
	GradedBy string

	// Remarks is free-form text.
	Remarks string

	// Actor identifies who performs the change.
	Actor string
}

// Validate validates the command.
func (c RecordGradeCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("record_grade: student_id is required")
	}
	if c.CourseID == "" {
		return errors.New("record_grade: course_id is required")
	}
	return nil
}

// RecordGradeResult contains the result of recording a grade.
type RecordGradeResult struct {
	// Grade is the created record with percentage and letter populated.
	Grade *grade.Grade

	// Events contains domain events generated.
	Events []shared.Event
}

// RecordGradeHandler handles the RecordGradeCommand.
type RecordGradeHandler struct {
	gradeRepo      grade.Repository
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewRecordGradeHandler creates a new RecordGradeHandler.
func NewRecordGradeHandler(gradeRepo grade.Repository, studentRepo student.Repository, eventPublisher shared.EventPublisher) *RecordGradeHandler {
	return &RecordGradeHandler{
		gradeRepo:      gradeRepo,
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the record grade command.
func (h *RecordGradeHandler) Handle(ctx context.Context, cmd RecordGradeCommand) (*RecordGradeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_grade: validation failed: %w", err)
	}

	// The student must exist; its class link scopes the cascade.
	stud, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("record_grade: failed to get student: %w", err)
	}

	g, err := grade.NewGrade(grade.NewGradeParams{
		ID:             uuid.NewString(),
		StudentID:      cmd.StudentID,
		CourseID:       cmd.CourseID,
		Value:          cmd.Value,
		MaxValue:       cmd.MaxValue,
		EvaluationType: cmd.EvaluationType,
		Semester:       cmd.Semester,
		Date:           cmd.Date,
		GradedBy:       cmd.GradedBy,
		Remarks:        cmd.Remarks,
	})
	if err != nil {
		return nil, fmt.Errorf("record_grade: %w", err)
	}

	if err := h.gradeRepo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("record_grade: failed to create grade: %w", err)
	}

	event := shared.NewRecordChangedEvent(
		shared.EventGradeRecorded,
		"grade",
		g.ID,
		shared.ChangeScope{
			GradeID:   g.ID,
			StudentID: g.StudentID,
			CourseID:  g.CourseID,
			ClassID:   stud.ClassID,
		},
		"grade.grade", "grade.max_grade",
	)
	event.BaseEvent = event.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(event)

	return &RecordGradeResult{
		Grade:  g,
		Events: []shared.Event{event},
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RESCORE GRADE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RescoreGradeCommand changes the value of an existing grade.
type RescoreGradeCommand struct {
	// GradeID is the internal ID of the grade.
	GradeID string

	// Value is the new raw grade.
	Value float64

	// MaxValue is the new maximum; zero keeps the current one.
	MaxValue float64

	// Actor identifies who performs the change.
	Actor string
}

// Validate validates the command.
func (c RescoreGradeCommand) Validate() error {
	if c.GradeID == "" {
		return errors.New("rescore_grade: grade_id is required")
	}
	return nil
}

// RescoreGradeHandler handles the RescoreGradeCommand.
type RescoreGradeHandler struct {
	gradeRepo      grade.Repository
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewRescoreGradeHandler creates a new RescoreGradeHandler.
func NewRescoreGradeHandler(gradeRepo grade.Repository, studentRepo student.Repository, eventPublisher shared.EventPublisher) *RescoreGradeHandler {
	return &RescoreGradeHandler{
		gradeRepo:      gradeRepo,
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the rescore grade command.
func (h *RescoreGradeHandler) Handle(ctx context.Context, cmd RescoreGradeCommand) (*grade.Grade, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("rescore_grade: validation failed: %w", err)
	}

	g, err := h.gradeRepo.GetByID(ctx, cmd.GradeID)
	if err != nil {
		return nil, fmt.Errorf("rescore_grade: failed to get grade: %w", err)
	}

	maxValue := cmd.MaxValue
	if maxValue == 0 {
		maxValue = g.MaxValue
	}
	if err := g.Rescore(cmd.Value, maxValue); err != nil {
		return nil, fmt.Errorf("rescore_grade: %w", err)
	}

	if err := h.gradeRepo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("rescore_grade: failed to update grade: %w", err)
	}

	scope := shared.ChangeScope{
		GradeID:   g.ID,
		StudentID: g.StudentID,
		CourseID:  g.CourseID,
	}
	if stud, err := h.studentRepo.GetByID(ctx, g.StudentID); err == nil {
		scope.ClassID = stud.ClassID
	}

	event := shared.NewRecordChangedEvent(
		shared.EventGradeUpdated,
		"grade",
		g.ID,
		scope,
		"grade.grade", "grade.max_grade",
	)
	event.BaseEvent = event.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(event)

	return g, nil
}
