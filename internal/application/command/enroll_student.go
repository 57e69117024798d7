// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ENROLL STUDENT COMMAND
// Creates a student record in draft status. Activation is a separate
// status-transition command.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollStudentCommand contains the data to enroll a student.
type EnrollStudentCommand struct {
	// Name is the student's full name.
	Name string

	// Email is optional; when set it must contain "@".
	Email string

	// Phone is the contact phone number.
	Phone string

	// DateOfBirth must not be in the future.
	DateOfBirth time.Time

	// Gender is optional.
	Gender student.Gender

	// Address fields.
	Street string
	City   string
	Zip    string

	// Guardian is the emergency contact.
	Guardian student.Guardian

	// ClassID optionally assigns the student to a class immediately.
	ClassID string

	// AdmissionDate defaults to today when zero.
	AdmissionDate time.Time

	// Notes is free-form text.
	Notes string

	// Actor identifies who performs the change, for the audit trail.
	Actor string
}

// Validate validates the command.
func (c EnrollStudentCommand) Validate() error {
	if c.Name == "" {
		return errors.New("enroll_student: name is required")
	}
	return nil
}

// EnrollStudentResult contains the result of enrolling a student.
type EnrollStudentResult struct {
	// Student is the created record with derived fields populated.
	Student *student.Student

	// Events contains domain events generated.
	Events []shared.Event
}

// EnrollStudentHandler handles the EnrollStudentCommand.
type EnrollStudentHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewEnrollStudentHandler creates a new EnrollStudentHandler.
func NewEnrollStudentHandler(studentRepo student.Repository, eventPublisher shared.EventPublisher) *EnrollStudentHandler {
	return &EnrollStudentHandler{
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the enroll student command.
func (h *EnrollStudentHandler) Handle(ctx context.Context, cmd EnrollStudentCommand) (*EnrollStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("enroll_student: validation failed: %w", err)
	}

	stud, err := student.NewStudent(student.NewStudentParams{
		ID:            uuid.NewString(),
		Name:          cmd.Name,
		Email:         cmd.Email,
		Phone:         cmd.Phone,
		DateOfBirth:   cmd.DateOfBirth,
		Gender:        cmd.Gender,
		Street:        cmd.Street,
		City:          cmd.City,
		Zip:           cmd.Zip,
		Guardian:      cmd.Guardian,
		ClassID:       cmd.ClassID,
		AdmissionDate: cmd.AdmissionDate,
		Notes:         cmd.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("enroll_student: %w", err)
	}

	if err := h.studentRepo.Create(ctx, stud); err != nil {
		return nil, fmt.Errorf("enroll_student: failed to create student: %w", err)
	}

	changed := []string{"student.date_of_birth"}
	if stud.ClassID != "" {
		changed = append(changed, "student.class_id")
	}
	event := shared.NewRecordChangedEvent(
		shared.EventStudentEnrolled,
		"student",
		stud.ID,
		shared.ChangeScope{StudentID: stud.ID, ClassID: stud.ClassID},
		changed...,
	)
	event.BaseEvent = event.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(event)

	return &EnrollStudentResult{
		Student: stud,
		Events:  []shared.Event{event},
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CHANGE STUDENT STATUS COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// ChangeStudentStatusCommand moves a student through its lifecycle.
type ChangeStudentStatusCommand struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// Status is the target lifecycle status.
	Status student.Status

	// Actor identifies who performs the change.
	Actor string
}

// Validate validates the command.
func (c ChangeStudentStatusCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("change_student_status: student_id is required")
	}
	if !c.Status.IsValid() {
		return fmt.Errorf("change_student_status: unknown status: %s", c.Status)
	}
	return nil
}

// ChangeStudentStatusHandler handles the ChangeStudentStatusCommand.
type ChangeStudentStatusHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewChangeStudentStatusHandler creates a new ChangeStudentStatusHandler.
func NewChangeStudentStatusHandler(studentRepo student.Repository, eventPublisher shared.EventPublisher) *ChangeStudentStatusHandler {
	return &ChangeStudentStatusHandler{
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the change student status command.
func (h *ChangeStudentStatusHandler) Handle(ctx context.Context, cmd ChangeStudentStatusCommand) (*student.Student, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("change_student_status: validation failed: %w", err)
	}

	stud, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("change_student_status: failed to get student: %w", err)
	}

	switch cmd.Status {
	case student.StatusActive:
		err = stud.MarkActive()
	case student.StatusGraduated:
		err = stud.MarkGraduated()
	case student.StatusSuspended:
		err = stud.MarkSuspended()
	case student.StatusExpelled:
		err = stud.MarkExpelled()
	default:
		err = student.ErrInvalidStatus
	}
	if err != nil {
		return nil, fmt.Errorf("change_student_status: %w", err)
	}

	if err := h.studentRepo.Update(ctx, stud); err != nil {
		return nil, fmt.Errorf("change_student_status: failed to update student: %w", err)
	}

	event := shared.NewRecordChangedEvent(
		shared.EventStudentStatusChanged,
		"student",
		stud.ID,
		shared.ChangeScope{StudentID: stud.ID, ClassID: stud.ClassID},
		"student.status",
	)
	event.BaseEvent = event.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(event)

	return stud, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ASSIGN STUDENT CLASS COMMAND
// Moving a student between classes affects the derived counters of both
// the previous and the new class.
// ══════════════════════════════════════════════════════════════════════════════

// AssignStudentClassCommand moves a student to a class.
type AssignStudentClassCommand struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// ClassID is the target class; empty detaches the student.
	ClassID string

	// Actor identifies who performs the change.
	Actor string
}

// Validate validates the command.
func (c AssignStudentClassCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("assign_student_class: student_id is required")
	}
	return nil
}

// AssignStudentClassHandler handles the AssignStudentClassCommand.
type AssignStudentClassHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewAssignStudentClassHandler creates a new AssignStudentClassHandler.
func NewAssignStudentClassHandler(studentRepo student.Repository, eventPublisher shared.EventPublisher) *AssignStudentClassHandler {
	return &AssignStudentClassHandler{
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the assign student class command.
func (h *AssignStudentClassHandler) Handle(ctx context.Context, cmd AssignStudentClassCommand) (*student.Student, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("assign_student_class: validation failed: %w", err)
	}

	stud, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("assign_student_class: failed to get student: %w", err)
	}

	previousClassID := stud.ClassID
	if previousClassID == cmd.ClassID {
		return stud, nil
	}

	stud.AssignClass(cmd.ClassID)

	if err := h.studentRepo.Update(ctx, stud); err != nil {
		return nil, fmt.Errorf("assign_student_class: failed to update student: %w", err)
	}

	event := shared.NewRecordChangedEvent(
		shared.EventStudentUpdated,
		"student",
		stud.ID,
		shared.ChangeScope{StudentID: stud.ID, ClassID: stud.ClassID},
		"student.class_id",
	)
	event.BaseEvent = event.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(event)

	// The previous class loses a student; its counters need a recompute too.
	if previousClassID != "" {
		prevEvent := shared.NewRecordChangedEvent(
			shared.EventStudentUpdated,
			"student",
			stud.ID,
			shared.ChangeScope{ClassID: previousClassID},
			"student.class_id",
		)
		prevEvent.BaseEvent = prevEvent.BaseEvent.WithActor(cmd.Actor)
		_ = h.eventPublisher.Publish(prevEvent)
	}

	return stud, nil
}
