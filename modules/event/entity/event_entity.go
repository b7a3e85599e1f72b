package entity

import (
	"time"

	"eventhub-api/core/entity"

	"github.com/google/uuid"
)

// EventStatus represents the lifecycle state of an event
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// Event is an organizer-owned event attendees can RSVP to. All timestamps
// are timezone-aware instants; capacity nil means unlimited.
type Event struct {
	Title        string      `db:"title" json:"title"`
	Slug         string      `db:"slug" json:"slug"`
	Description  *string     `db:"description" json:"description,omitempty"`
	Location     *string     `db:"location" json:"location,omitempty"`
	StartsAt     *time.Time  `db:"starts_at" json:"starts_at,omitempty"`
	EndsAt       *time.Time  `db:"ends_at" json:"ends_at,omitempty"`
	RSVPDeadline *time.Time  `db:"rsvp_deadline" json:"rsvp_deadline,omitempty"`
	Capacity     *int        `db:"capacity" json:"capacity,omitempty"`
	Status       EventStatus `db:"status" json:"status"`
	OrganizerID  uuid.UUID   `db:"organizer_id" json:"organizer_id"`
	CancelledAt  *time.Time  `db:"cancelled_at" json:"cancelled_at,omitempty"`
	JoinCode     string      `db:"join_code" json:"join_code"`
	entity.BaseEntity
}
