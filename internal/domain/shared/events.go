// Package shared contains common domain types, errors, and events that are
// used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Every committed write publishes one of these; the
// derived-value engine and the audit trail subscribe to them.
const (
	// Student events
	EventStudentEnrolled      EventType = "student.enrolled"
	EventStudentUpdated       EventType = "student.updated"
	EventStudentStatusChanged EventType = "student.status_changed"

	// Teacher events
	EventTeacherRegistered    EventType = "teacher.registered"
	EventTeacherUpdated       EventType = "teacher.updated"
	EventTeacherStatusChanged EventType = "teacher.status_changed"

	// Class and course events
	EventClassCreated  EventType = "class.created"
	EventClassUpdated  EventType = "class.updated"
	EventCourseCreated EventType = "course.created"
	EventCourseUpdated EventType = "course.updated"

	// Grade events
	EventGradeRecorded EventType = "grade.recorded"
	EventGradeUpdated  EventType = "grade.updated"

	// Schedule events
	EventSchedulePlanned EventType = "schedule.planned"
	EventScheduleUpdated EventType = "schedule.updated"

	// Attendance events
	EventAttendanceMarked     EventType = "attendance.marked"
	EventAttendanceBulkMarked EventType = "attendance.bulk_marked"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the record that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventHandler processes a single event.
type EventHandler func(event Event) error

// EventPublisher publishes domain events to interested subscribers.
type EventPublisher interface {
	Publish(event Event) error
}

// EventSubscriber registers handlers for domain events.
type EventSubscriber interface {
	Subscribe(eventType EventType, handler EventHandler) error
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Actor       string    `json:"actor,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// WithActor records who performed the change, for the audit trail.
func (e BaseEvent) WithActor(actor string) BaseEvent {
	e.Actor = actor
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Record Change Events
// The write commands emit one RecordChangedEvent per committed entity write.
// Scope identifies every related record the derived-value engine may need.
// ═══════════════════════════════════════════════════════════════════════════

// ChangeScope carries the identifiers of the records touched by a write.
// Empty fields mean "not applicable" or "unknown"; the derived-value engine
// resolves missing links from the store when it needs them.
type ChangeScope struct {
	StudentID    string `json:"student_id,omitempty"`
	TeacherID    string `json:"teacher_id,omitempty"`
	ClassID      string `json:"class_id,omitempty"`
	CourseID     string `json:"course_id,omitempty"`
	GradeID      string `json:"grade_id,omitempty"`
	ScheduleID   string `json:"schedule_id,omitempty"`
	AttendanceID string `json:"attendance_id,omitempty"`
}

// RecordChangedEvent is emitted after any entity write commits.
type RecordChangedEvent struct {
	BaseEvent

	// Entity is the kind of record written ("student", "grade", ...).
	Entity string `json:"entity"`

	// ChangedFields lists the base fields that were written.
	ChangedFields []string `json:"changed_fields"`

	// Scope identifies related records for recomputation.
	Scope ChangeScope `json:"scope"`
}

// Payload implements Event interface.
func (e RecordChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"entity":         e.Entity,
		"changed_fields": e.ChangedFields,
		"student_id":     e.Scope.StudentID,
		"teacher_id":     e.Scope.TeacherID,
		"class_id":       e.Scope.ClassID,
		"course_id":      e.Scope.CourseID,
		"grade_id":       e.Scope.GradeID,
		"schedule_id":    e.Scope.ScheduleID,
		"attendance_id":  e.Scope.AttendanceID,
	}
}

// NewRecordChangedEvent creates a change event for the given entity write.
func NewRecordChangedEvent(eventType EventType, entity, aggregateID string, scope ChangeScope, changedFields ...string) RecordChangedEvent {
	return RecordChangedEvent{
		BaseEvent:     NewBaseEvent(eventType, aggregateID),
		Entity:        entity,
		ChangedFields: changedFields,
		Scope:         scope,
	}
}
