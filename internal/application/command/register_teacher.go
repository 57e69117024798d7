package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/internal/domain/teacher"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER TEACHER COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RegisterTeacherCommand contains the data to register a teacher.
type RegisterTeacherCommand struct {
	// Name is the teacher's full name.
	Name string

	// Email is required for teachers and must contain "@".
	Email string

	// Phone is the contact phone number.
	Phone string

	// HireDate defaults to today when zero.
	HireDate time.Time

	// Department is the teacher's department.
	Department string

	// Specialization is the subject specialization.
	Specialization string

	// Qualification is the highest academic qualification.
	Qualification teacher.Qualification

	// Notes is free-form text.
	Notes string

	// Actor identifies who performs the change.
	Actor string
}

// Validate validates the command.
func (c RegisterTeacherCommand) Validate() error {
	if c.Name == "" {
		return errors.New("register_teacher: name is required")
	}
	if c.Email == "" {
		return errors.New("register_teacher: email is required")
	}
	return nil
}

// RegisterTeacherHandler handles the RegisterTeacherCommand.
type RegisterTeacherHandler struct {
	teacherRepo    teacher.Repository
	eventPublisher shared.EventPublisher
}

// NewRegisterTeacherHandler creates a new RegisterTeacherHandler.
func NewRegisterTeacherHandler(teacherRepo teacher.Repository, eventPublisher shared.EventPublisher) *RegisterTeacherHandler {
	return &RegisterTeacherHandler{
		teacherRepo:    teacherRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the register teacher command.
func (h *RegisterTeacherHandler) Handle(ctx context.Context, cmd RegisterTeacherCommand) (*teacher.Teacher, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("register_teacher: validation failed: %w", err)
	}

	t, err := teacher.NewTeacher(teacher.NewTeacherParams{
		ID:             uuid.NewString(),
		Name:           cmd.Name,
		Email:          cmd.Email,
		Phone:          cmd.Phone,
		HireDate:       cmd.HireDate,
		Department:     cmd.Department,
		Specialization: cmd.Specialization,
		Qualification:  cmd.Qualification,
		Notes:          cmd.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("register_teacher: %w", err)
	}

	if err := h.teacherRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("register_teacher: failed to create teacher: %w", err)
	}

	event := shared.NewRecordChangedEvent(
		shared.EventTeacherRegistered,
		"teacher",
		t.ID,
		shared.ChangeScope{TeacherID: t.ID},
	)
	event.BaseEvent = event.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(event)

	return t, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CHANGE TEACHER STATUS COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// ChangeTeacherStatusCommand moves a teacher through its lifecycle.
type ChangeTeacherStatusCommand struct {
	// TeacherID is the internal ID of the teacher.
	TeacherID string

	// Status is the target lifecycle status.
	Status teacher.Status

	// Actor identifies who performs the change.
	Actor string
}

// Validate validates the command.
func (c ChangeTeacherStatusCommand) Validate() error {
	if c.TeacherID == "" {
		return errors.New("change_teacher_status: teacher_id is required")
	}
	if !c.Status.IsValid() {
		return fmt.Errorf("change_teacher_status: unknown status: %s", c.Status)
	}
	return nil
}

// ChangeTeacherStatusHandler handles the ChangeTeacherStatusCommand.
type ChangeTeacherStatusHandler struct {
	teacherRepo    teacher.Repository
	eventPublisher shared.EventPublisher
}

// NewChangeTeacherStatusHandler creates a new ChangeTeacherStatusHandler.
func NewChangeTeacherStatusHandler(teacherRepo teacher.Repository, eventPublisher shared.EventPublisher) *ChangeTeacherStatusHandler {
	return &ChangeTeacherStatusHandler{
		teacherRepo:    teacherRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the change teacher status command.
func (h *ChangeTeacherStatusHandler) Handle(ctx context.Context, cmd ChangeTeacherStatusCommand) (*teacher.Teacher, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("change_teacher_status: validation failed: %w", err)
	}

	t, err := h.teacherRepo.GetByID(ctx, cmd.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("change_teacher_status: failed to get teacher: %w", err)
	}

	switch cmd.Status {
	case teacher.StatusActive:
		err = t.MarkActive()
	case teacher.StatusOnLeave:
		err = t.MarkOnLeave()
	case teacher.StatusTerminated:
		err = t.MarkTerminated()
	default:
		err = teacher.ErrInvalidStatus
	}
	if err != nil {
		return nil, fmt.Errorf("change_teacher_status: %w", err)
	}

	if err := h.teacherRepo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("change_teacher_status: failed to update teacher: %w", err)
	}

	event := shared.NewRecordChangedEvent(
		shared.EventTeacherStatusChanged,
		"teacher",
		t.ID,
		shared.ChangeScope{TeacherID: t.ID},
		"teacher.status",
	)
	event.BaseEvent = event.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(event)

	return t, nil
}
