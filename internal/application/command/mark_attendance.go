package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alem-hub/school-records/internal/domain/attendance"
	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/internal/domain/student"
	"github.com/alem-hub/school-records/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK ATTENDANCE COMMAND
// One record per student per date per course. The duplicate check applies
// only when a course is set; an open-ended daily record is unconstrained.
// ══════════════════════════════════════════════════════════════════════════════

// MarkAttendanceCommand contains the data to mark attendance.
type MarkAttendanceCommand struct {
	// StudentID is the marked student, required.
	StudentID string

	// CourseID scopes the record to a course; empty means a daily record.
	CourseID string

	// Date defaults to today when zero.
	Date time.Time

	// Status is the attendance status.
	Status attendance.Status

	// CheckIn and CheckOut are optional times of day in fractional hours.
	CheckIn  timeutil.ClockHours
	CheckOut timeutil.ClockHours

	// Remarks is free-form text.
	Remarks string

	// Actor identifies who performs the change.
	Actor string
}

// Validate validates the command.
func (c MarkAttendanceCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("mark_attendance: student_id is required")
	}
	if !c.Status.IsValid() {
		return fmt.Errorf("mark_attendance: unknown status: %s", c.Status)
	}
	return nil
}

// MarkAttendanceResult contains the result of marking attendance.
type MarkAttendanceResult struct {
	// Record is the created attendance record.
	Record *attendance.Record

	// Events contains domain events generated.
	Events []shared.Event
}

// MarkAttendanceHandler handles the MarkAttendanceCommand.
type MarkAttendanceHandler struct {
	attendanceRepo attendance.Repository
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewMarkAttendanceHandler creates a new MarkAttendanceHandler.
func NewMarkAttendanceHandler(attendanceRepo attendance.Repository, studentRepo student.Repository, eventPublisher shared.EventPublisher) *MarkAttendanceHandler {
	return &MarkAttendanceHandler{
		attendanceRepo: attendanceRepo,
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the mark attendance command.
func (h *MarkAttendanceHandler) Handle(ctx context.Context, cmd MarkAttendanceCommand) (*MarkAttendanceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("mark_attendance: validation failed: %w", err)
	}

	stud, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("mark_attendance: failed to get student: %w", err)
	}

	date := cmd.Date
	if date.IsZero() {
		date = timeutil.Today()
	}

	if cmd.CourseID != "" {
		exists, err := h.attendanceRepo.ExistsDuplicate(ctx, cmd.StudentID, date, cmd.CourseID)
		if err != nil {
			return nil, fmt.Errorf("mark_attendance: duplicate check failed: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("mark_attendance: %w", attendance.ErrDuplicate)
		}
	}

	rec, err := attendance.NewRecord(attendance.NewRecordParams{
		ID:          uuid.NewString(),
		StudentID:   cmd.StudentID,
		ClassID:     stud.ClassID,
		CourseID:    cmd.CourseID,
		Date:        date,
		Status:      cmd.Status,
		CheckIn:     cmd.CheckIn,
		CheckOut:    cmd.CheckOut,
		Remarks:     cmd.Remarks,
		MarkedBy:    cmd.Actor,
		StudentName: stud.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("mark_attendance: %w", err)
	}

	if err := h.attendanceRepo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("mark_attendance: failed to create record: %w", err)
	}

	event := shared.NewRecordChangedEvent(
		shared.EventAttendanceMarked,
		"attendance",
		rec.ID,
		shared.ChangeScope{
			AttendanceID: rec.ID,
			StudentID:    rec.StudentID,
			ClassID:      rec.ClassID,
			CourseID:     rec.CourseID,
		},
		"attendance.status",
	)
	event.BaseEvent = event.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(event)

	return &MarkAttendanceResult{
		Record: rec,
		Events: []shared.Event{event},
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MARK BULK ATTENDANCE COMMAND
// Students are marked independently: a duplicate or validation failure
// rejects only that student's record, the rest of the batch proceeds.
// ══════════════════════════════════════════════════════════════════════════════

// MarkBulkAttendanceCommand marks a group of students at once.
type MarkBulkAttendanceCommand struct {
	// StudentIDs lists the students to mark, required.
	StudentIDs []string

	// CourseID scopes the records to a course; empty means daily records.
	CourseID string

	// Date defaults to today when zero.
	Date time.Time

	// Status is applied to every student in the batch.
	Status attendance.Status

	// Actor identifies who performs the change.
	Actor string
}

// Validate validates the command.
func (c MarkBulkAttendanceCommand) Validate() error {
	if len(c.StudentIDs) == 0 {
		return errors.New("mark_bulk_attendance: student_ids is required")
	}
	if !c.Status.IsValid() {
		return fmt.Errorf("mark_bulk_attendance: unknown status: %s", c.Status)
	}
	return nil
}

// MarkBulkAttendanceResult contains per-student outcomes.
type MarkBulkAttendanceResult struct {
	TotalCount   int
	SuccessCount int
	FailedCount  int

	// Records holds the successfully created records.
	Records []*attendance.Record

	// Errors maps a failed student ID to its error.
	Errors map[string]error
}

// MarkBulkAttendanceHandler handles the MarkBulkAttendanceCommand.
type MarkBulkAttendanceHandler struct {
	handler *MarkAttendanceHandler
}

// NewMarkBulkAttendanceHandler creates a new MarkBulkAttendanceHandler.
func NewMarkBulkAttendanceHandler(handler *MarkAttendanceHandler) *MarkBulkAttendanceHandler {
	return &MarkBulkAttendanceHandler{handler: handler}
}

// Handle executes the mark bulk attendance command.
func (h *MarkBulkAttendanceHandler) Handle(ctx context.Context, cmd MarkBulkAttendanceCommand) (*MarkBulkAttendanceResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("mark_bulk_attendance: validation failed: %w", err)
	}

	result := &MarkBulkAttendanceResult{
		TotalCount: len(cmd.StudentIDs),
		Records:    make([]*attendance.Record, 0, len(cmd.StudentIDs)),
		Errors:     make(map[string]error),
	}

	for _, studentID := range cmd.StudentIDs {
		single, err := h.handler.Handle(ctx, MarkAttendanceCommand{
			StudentID: studentID,
			CourseID:  cmd.CourseID,
			Date:      cmd.Date,
			Status:    cmd.Status,
			Actor:     cmd.Actor,
		})
		if err != nil {
			result.FailedCount++
			result.Errors[studentID] = err
			continue
		}
		result.SuccessCount++
		result.Records = append(result.Records, single.Record)
	}

	return result, nil
}
