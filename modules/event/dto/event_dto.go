package dto

import (
	"time"

	"eventhub-api/modules/event/entity"

	"github.com/google/uuid"
)

type CreateEventRequest struct {
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	Location     *string    `json:"location"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
	RSVPDeadline *time.Time `json:"rsvp_deadline"`
	Capacity     *int       `json:"capacity"`
	Status       *string    `json:"status"`
	JoinCode     *string    `json:"join_code"`
}

// UpdateEventRequest uses pointer fields so a partial update only touches the
// fields the request actually carries; nil means "leave unchanged".
type UpdateEventRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Location     *string    `json:"location"`
	StartsAt     *time.Time `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at"`
	RSVPDeadline *time.Time `json:"rsvp_deadline"`
	Capacity     *int       `json:"capacity"`
}

type EventResponse struct {
	ID           uuid.UUID          `json:"id"`
	Title        string             `json:"title"`
	Slug         string             `json:"slug"`
	Description  *string            `json:"description,omitempty"`
	Location     *string            `json:"location,omitempty"`
	StartsAt     *time.Time         `json:"starts_at,omitempty"`
	EndsAt       *time.Time         `json:"ends_at,omitempty"`
	RSVPDeadline *time.Time         `json:"rsvp_deadline,omitempty"`
	Capacity     *int               `json:"capacity,omitempty"`
	Status       entity.EventStatus `json:"status"`
	CancelledAt  *time.Time         `json:"cancelled_at,omitempty"`
	OrganizerID  uuid.UUID          `json:"organizer_id"`
	JoinCode     string             `json:"join_code,omitempty"`
	RSVPCount    int                `json:"rsvp_count"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// RSVPResult reports the outcome of a join attempt; AlreadyJoined
// distinguishes an idempotent repeat from a fresh RSVP.
type RSVPResult struct {
	EventID       uuid.UUID `json:"event_id"`
	UserID        uuid.UUID `json:"user_id"`
	Status        string    `json:"status"`
	AlreadyJoined bool      `json:"already_joined"`
}

type AttendeeResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// ToEventResponse converts an event entity; includeJoinCode controls whether
// the code is exposed (organizer and admin views only).
func ToEventResponse(event *entity.Event, rsvpCount int, includeJoinCode bool) *EventResponse {
	resp := &EventResponse{
		ID:           event.ID,
		Title:        event.Title,
		Slug:         event.Slug,
		Description:  event.Description,
		Location:     event.Location,
		StartsAt:     event.StartsAt,
		EndsAt:       event.EndsAt,
		RSVPDeadline: event.RSVPDeadline,
		Capacity:     event.Capacity,
		Status:       event.Status,
		CancelledAt:  event.CancelledAt,
		OrganizerID:  event.OrganizerID,
		RSVPCount:    rsvpCount,
		CreatedAt:    event.CreatedAt,
		UpdatedAt:    event.UpdatedAt,
	}
	if includeJoinCode {
		resp.JoinCode = event.JoinCode
	}
	return resp
}

func ToAttendeeResponses(attendees []entity.Attendance) []AttendeeResponse {
	out := make([]AttendeeResponse, 0, len(attendees))
	for _, a := range attendees {
		out = append(out, AttendeeResponse{
			UserID:   a.UserID,
			Role:     a.Role,
			JoinedAt: a.CreatedAt,
		})
	}
	return out
}
