package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alem-hub/school-records/internal/domain/course"
	"github.com/alem-hub/school-records/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE COURSE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CreateCourseCommand contains the data to create a course.
type CreateCourseCommand struct {
	// Name is the course name.
	Name string

	// Code is the unique course code.
	Code string

	// Description is free-form text.
	Description string

	// Credits defaults to 3 when zero.
	Credits int

	// HoursPerWeek defaults to 3 when zero.
	HoursPerWeek int

	// TeacherID is the assigned teacher, required.
	TeacherID string

	// ClassID is the class the course is taught to, required.
	ClassID string

	// StartDate and EndDate bound the course; EndDate must not precede
	// StartDate.
	StartDate time.Time
	EndDate   time.Time

	// Actor identifies who performs the change.
	Actor string
}

// Validate validates the command.
func (c CreateCourseCommand) Validate() error {
	if c.Name == "" {
		return errors.New("create_course: name is required")
	}
	if c.Code == "" {
		return errors.New("create_course: code is required")
	}
	if c.TeacherID == "" {
		return errors.New("create_course: teacher_id is required")
	}
	if c.ClassID == "" {
		return errors.New("create_course: class_id is required")
	}
	return nil
}

// CreateCourseHandler handles the CreateCourseCommand.
type CreateCourseHandler struct {
	courseRepo     course.Repository
	eventPublisher shared.EventPublisher
}

// NewCreateCourseHandler creates a new CreateCourseHandler.
func NewCreateCourseHandler(courseRepo course.Repository, eventPublisher shared.EventPublisher) *CreateCourseHandler {
	return &CreateCourseHandler{
		courseRepo:     courseRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the create course command.
func (h *CreateCourseHandler) Handle(ctx context.Context, cmd CreateCourseCommand) (*course.Course, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("create_course: validation failed: %w", err)
	}

	crs, err := course.NewCourse(course.NewCourseParams{
		ID:           uuid.NewString(),
		Name:         cmd.Name,
		Code:         cmd.Code,
		Description:  cmd.Description,
		Credits:      cmd.Credits,
		HoursPerWeek: cmd.HoursPerWeek,
		TeacherID:    cmd.TeacherID,
		ClassID:      cmd.ClassID,
		StartDate:    cmd.StartDate,
		EndDate:      cmd.EndDate,
	})
	if err != nil {
		return nil, fmt.Errorf("create_course: %w", err)
	}

	if err := h.courseRepo.Create(ctx, crs); err != nil {
		return nil, fmt.Errorf("create_course: failed to create course: %w", err)
	}

	// A new course changes the teacher's course counter.
	event := shared.NewRecordChangedEvent(
		shared.EventCourseCreated,
		"course",
		crs.ID,
		shared.ChangeScope{CourseID: crs.ID, TeacherID: crs.TeacherID, ClassID: crs.ClassID},
		"course.teacher_id",
	)
	event.BaseEvent = event.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(event)

	return crs, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REASSIGN COURSE TEACHER COMMAND
// Reassignment affects the course counters of both teachers.
// ══════════════════════════════════════════════════════════════════════════════

// ReassignCourseTeacherCommand moves a course to another teacher.
type ReassignCourseTeacherCommand struct {
	// CourseID is the internal ID of the course.
	CourseID string

	// TeacherID is the new teacher, required.
	TeacherID string

	// Actor identifies who performs the change.
	Actor string
}

// Validate validates the command.
func (c ReassignCourseTeacherCommand) Validate() error {
	if c.CourseID == "" {
		return errors.New("reassign_course_teacher: course_id is required")
	}
	if c.TeacherID == "" {
		return errors.New("reassign_course_teacher: teacher_id is required")
	}
	return nil
}

// ReassignCourseTeacherHandler handles the ReassignCourseTeacherCommand.
type ReassignCourseTeacherHandler struct {
	courseRepo     course.Repository
	eventPublisher shared.EventPublisher
}

// NewReassignCourseTeacherHandler creates a new ReassignCourseTeacherHandler.
func NewReassignCourseTeacherHandler(courseRepo course.Repository, eventPublisher shared.EventPublisher) *ReassignCourseTeacherHandler {
	return &ReassignCourseTeacherHandler{
		courseRepo:     courseRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the reassign course teacher command.
func (h *ReassignCourseTeacherHandler) Handle(ctx context.Context, cmd ReassignCourseTeacherCommand) (*course.Course, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("reassign_course_teacher: validation failed: %w", err)
	}

	crs, err := h.courseRepo.GetByID(ctx, cmd.CourseID)
	if err != nil {
		return nil, fmt.Errorf("reassign_course_teacher: failed to get course: %w", err)
	}

	previousTeacherID := crs.TeacherID
	if previousTeacherID == cmd.TeacherID {
		return crs, nil
	}

	if err := crs.Reassign(cmd.TeacherID); err != nil {
		return nil, fmt.Errorf("reassign_course_teacher: %w", err)
	}

	if err := h.courseRepo.Update(ctx, crs); err != nil {
		return nil, fmt.Errorf("reassign_course_teacher: failed to update course: %w", err)
	}

	event := shared.NewRecordChangedEvent(
		shared.EventCourseUpdated,
		"course",
		crs.ID,
		shared.ChangeScope{CourseID: crs.ID, TeacherID: crs.TeacherID},
		"course.teacher_id",
	)
	event.BaseEvent = event.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(event)

	prevEvent := shared.NewRecordChangedEvent(
		shared.EventCourseUpdated,
		"course",
		crs.ID,
		shared.ChangeScope{CourseID: crs.ID, TeacherID: previousTeacherID},
		"course.teacher_id",
	)
	prevEvent.BaseEvent = prevEvent.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(prevEvent)

	return crs, nil
}
