package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/alem-hub/school-records/internal/domain/class"
	"github.com/alem-hub/school-records/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE CLASS COMMAND
// Class codes are unique across active and inactive records.
// ══════════════════════════════════════════════════════════════════════════════

// CreateClassCommand contains the data to create a class.
type CreateClassCommand struct {
	// Name is the display name, e.g. "Grade 5 - A".
	Name string

	// Code is the unique class code.
	Code string

	// Level is the grade level, 1 through 6.
	Level int

	// Section is the optional section letter.
	Section string

	// Capacity defaults to 30 when zero.
	Capacity int

	// Room is the home room.
	Room string

	// HeadTeacherID optionally references the head teacher.
	HeadTeacherID string

	// Notes is free-form text.
	Notes string

	// Actor identifies who performs the change.
	Actor string
}

// Validate validates the command.
func (c CreateClassCommand) Validate() error {
	if c.Name == "" {
		return errors.New("create_class: name is required")
	}
	if c.Code == "" {
		return errors.New("create_class: code is required")
	}
	return nil
}

// CreateClassHandler handles the CreateClassCommand.
type CreateClassHandler struct {
	classRepo      class.Repository
	eventPublisher shared.EventPublisher
}

// NewCreateClassHandler creates a new CreateClassHandler.
func NewCreateClassHandler(classRepo class.Repository, eventPublisher shared.EventPublisher) *CreateClassHandler {
	return &CreateClassHandler{
		classRepo:      classRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the create class command.
func (h *CreateClassHandler) Handle(ctx context.Context, cmd CreateClassCommand) (*class.Class, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("create_class: validation failed: %w", err)
	}

	cl, err := class.NewClass(class.NewClassParams{
		ID:            uuid.NewString(),
		Name:          cmd.Name,
		Code:          cmd.Code,
		Level:         cmd.Level,
		Section:       cmd.Section,
		Capacity:      cmd.Capacity,
		Room:          cmd.Room,
		HeadTeacherID: cmd.HeadTeacherID,
		Notes:         cmd.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("create_class: %w", err)
	}

	// The repository enforces code uniqueness across active and
	// inactive records and returns ErrCodeTaken on collision.
	if err := h.classRepo.Create(ctx, cl); err != nil {
		return nil, fmt.Errorf("create_class: failed to create class: %w", err)
	}

	event := shared.NewRecordChangedEvent(
		shared.EventClassCreated,
		"class",
		cl.ID,
		shared.ChangeScope{ClassID: cl.ID},
	)
	event.BaseEvent = event.BaseEvent.WithActor(cmd.Actor)
	_ = h.eventPublisher.Publish(event)

	return cl, nil
}
