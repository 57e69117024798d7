package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alem-hub/school-records/internal/domain/course"
	"github.com/alem-hub/school-records/internal/domain/schedule"
	"github.com/alem-hub/school-records/internal/domain/shared"
	"github.com/alem-hub/school-records/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// PLAN SCHEDULE COMMAND
// Creates a weekly timetable slot. Time validation runs first; only a
// well-formed candidate is checked against the sibling slots of its class
// and teacher. The exclusion constraints in the store back the check
// against concurrent writers.
// ══════════════════════════════════════════════════════════════════════════════

// PlanScheduleCommand contains the data to plan a timetable slot.
type PlanScheduleCommand struct {
	// ClassID is the class the slot belongs to, required.
	ClassID string

	// CourseID is the course taught in the slot, required.
	CourseID string

	// TeacherID is the teacher of the slot; empty defaults to the
	// course's teacher.
	TeacherID string

	// DayOfWeek is the weekday of the slot.
	DayOfWeek schedule.Weekday

	// StartTime and EndTime are fractional hours: 9.5 means 09:30.
	StartTime timeutil.ClockHours
	EndTime   timeutil.ClockHours

	// Room is the room the slot takes place in.
	Room string

	// SessionType defaults to lecture.
	SessionType schedule.SessionType

	// StartDate and EndDate bound the slot's validity.
	StartDate time.Time
	EndDate   time.Time

	// Notes is free-form text.
	Notes string

	// Actor identifies who performs the change.
	Actor string
}

// Validate validates the command.
func (c PlanScheduleCommand) Validate() error {
	if c.ClassID == "" {
		return errors.New("plan_schedule: class_id is required")
	}
	if c.CourseID == "" {
		return errors.New("plan_schedule: course_id is required")
	}
	return nil
}

// PlanScheduleResult contains the result of planning a slot.
type PlanScheduleResult struct {
	// Schedule is the created slot with derived fields populated.
	Schedule *schedule.Schedule

	// Events contains domain events generated.
	Events []shared.Event
}

// PlanScheduleHandler handles the PlanScheduleCommand.
type PlanScheduleHandler struct {
	scheduleRepo   schedule.Repository
	courseRepo     course.Repository
	eventPublisher shared.EventPublisher
}

// NewPlanScheduleHandler creates a new PlanScheduleHandler.
func NewPlanScheduleHandler(scheduleRepo schedule.Repository, courseRepo course.Repository, eventPublisher shared.EventPublisher) *PlanScheduleHandler {
	return &PlanScheduleHandler{
		scheduleRepo:   scheduleRepo,
		courseRepo:     courseRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the plan schedule command.
func (h *PlanScheduleHandler) Handle(ctx context.Context, cmd PlanScheduleCommand) (*PlanScheduleResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("plan_schedule: validation failed: %w", err)
	}

	crs, err := h.courseRepo.GetByID(ctx, cmd.CourseID)
	if err != nil {
		return nil, fmt.Errorf("plan_schedule: failed to get course: %w", err)
	}

	teacherID := cmd.TeacherID
	if teacherID == "" {
		teacherID = crs.TeacherID
	}

	slot, err := schedule.NewSchedule(schedule.NewScheduleParams{
		ID:          uuid.NewString(),
		ClassID:     cmd.ClassID,
		CourseID:    cmd.CourseID,
		TeacherID:   teacherID,
		DayOfWeek:   cmd.DayOfWeek,
		StartTime:   cmd.StartTime,
		EndTime:     cmd.EndTime,
		Room:        cmd.Room,
		SessionType: cmd.SessionType,
		StartDate:   cmd.StartDate,
		EndDate:     cmd.EndDate,
		Notes:       cmd.Notes,
		CourseName:  crs.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("plan_schedule: %w", err)
	}

	siblings, err := h.scheduleRepo.GetSiblings(ctx, slot.ClassID, slot.TeacherID, slot.DayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("plan_schedule: failed to load sibling slots: %w", err)
	}
	if err := schedule.FindConflict(slot, siblings); err != nil {
		return nil, fmt.Errorf("plan_schedule: %w", err)
	}

	if err := h.scheduleRepo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("plan_schedule: failed to create schedule: %w", err)
	}

	event := shared.NewRecordChangedEvent(
		shared.EventSchedulePlanned,
		"schedule",
		slot.ID,
		shared.ChangeScope{
			ScheduleID: slot.ID,
			ClassID:    slot.ClassID,
			CourseID:   slot.CourseID,
			TeacherID:  slot.TeacherID,
		},
		"schedule.times",
	)
	event.BaseEvent = event.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(event)

	return &PlanScheduleResult{
		Schedule: slot,
		Events:   []shared.Event{event},
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RESLOT SCHEDULE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// ReslotScheduleCommand moves an existing slot to another day or time.
type ReslotScheduleCommand struct {
	// ScheduleID is the internal ID of the slot.
	ScheduleID string

	// DayOfWeek is the new weekday.
	DayOfWeek schedule.Weekday

	// StartTime and EndTime are the new bounds.
	StartTime timeutil.ClockHours
	EndTime   timeutil.ClockHours

	// Actor identifies who performs the change.
	Actor string
}

// Validate validates the command.
func (c ReslotScheduleCommand) Validate() error {
	if c.ScheduleID == "" {
		return errors.New("reslot_schedule: schedule_id is required")
	}
	return nil
}

// ReslotScheduleHandler handles the ReslotScheduleCommand.
type ReslotScheduleHandler struct {
	scheduleRepo   schedule.Repository
	courseRepo     course.Repository
	eventPublisher shared.EventPublisher
}

// NewReslotScheduleHandler creates a new ReslotScheduleHandler.
func NewReslotScheduleHandler(scheduleRepo schedule.Repository, courseRepo course.Repository, eventPublisher shared.EventPublisher) *ReslotScheduleHandler {
	return &ReslotScheduleHandler{
		scheduleRepo:   scheduleRepo,
		courseRepo:     courseRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the reslot schedule command.
func (h *ReslotScheduleHandler) Handle(ctx context.Context, cmd ReslotScheduleCommand) (*schedule.Schedule, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("reslot_schedule: validation failed: %w", err)
	}

	slot, err := h.scheduleRepo.GetByID(ctx, cmd.ScheduleID)
	if err != nil {
		return nil, fmt.Errorf("reslot_schedule: failed to get schedule: %w", err)
	}

	// The display name carries the course name, so the move recomputes it.
	crs, err := h.courseRepo.GetByID(ctx, slot.CourseID)
	if err != nil {
		return nil, fmt.Errorf("reslot_schedule: failed to get course: %w", err)
	}

	if err := slot.Reslot(cmd.DayOfWeek, cmd.StartTime, cmd.EndTime, crs.Name); err != nil {
		return nil, fmt.Errorf("reslot_schedule: %w", err)
	}

	siblings, err := h.scheduleRepo.GetSiblings(ctx, slot.ClassID, slot.TeacherID, slot.DayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("reslot_schedule: failed to load sibling slots: %w", err)
	}
	if err := schedule.FindConflict(slot, siblings); err != nil {
		return nil, fmt.Errorf("reslot_schedule: %w", err)
	}

	if err := h.scheduleRepo.Update(ctx, slot); err != nil {
		return nil, fmt.Errorf("reslot_schedule: failed to update schedule: %w", err)
	}

	event := shared.NewRecordChangedEvent(
		shared.EventScheduleUpdated,
		"schedule",
		slot.ID,
		shared.ChangeScope{
			ScheduleID: slot.ID,
			ClassID:    slot.ClassID,
			CourseID:   slot.CourseID,
			TeacherID:  slot.TeacherID,
		},
		"schedule.times",
	)
	event.BaseEvent = event.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(event)

	return slot, nil
}
