package entity

import (
	"time"

	"eventhub-api/core/entity"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	AttendanceStatusRSVPed    AttendanceStatus = "RSVPED"
	AttendanceStatusCancelled AttendanceStatus = "CANCELLED"
)

const (
	AttendanceRoleHost     = "host"
	AttendanceRoleAttendee = "attendee"
)

// Attendance links a user to an event. At most one RSVPED row may exist per
// (event, user); the pair is unique at the storage level.
type Attendance struct {
	EventID     uuid.UUID        `db:"event_id" json:"event_id"`
	UserID      uuid.UUID        `db:"user_id" json:"user_id"`
	Role        string           `db:"role" json:"role"`
	Status      AttendanceStatus `db:"status" json:"status"`
	CancelledAt *time.Time       `db:"cancelled_at" json:"cancelled_at,omitempty"`
	entity.BaseEntity
}
