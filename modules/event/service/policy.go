package service

import (
	"time"

	"eventhub-api/modules/event/entity"
)

// Reason codes attached to AppError for event and RSVP failures.
const (
	ReasonEventNotFound      = "EVENT_NOT_FOUND"
	ReasonEventCancelled     = "EVENT_CANCELLED"
	ReasonEventNotPublished  = "EVENT_NOT_PUBLISHED"
	ReasonRSVPCutoffPassed   = "RSVP_CUTOFF_PASSED"
	ReasonEventFull          = "EVENT_FULL"
	ReasonRSVPNotFound       = "RSVP_NOT_FOUND"
	ReasonCapacityBelowCount = "CAPACITY_BELOW_RSVP_COUNT"
	ReasonStartsAtTooSoon    = "STARTS_AT_TOO_SOON"
	ReasonJoinCodeCollision  = "JOIN_CODE_COLLISION"
	ReasonInvalidTimeRange   = "INVALID_TIME_RANGE"
	ReasonInvalidCapacity    = "INVALID_CAPACITY"
	ReasonStartsAtRequired   = "STARTS_AT_REQUIRED"
	ReasonStartsAtInPast     = "STARTS_AT_IN_PAST"
)

// StartsAtBuffer is the minimum distance from now that starts_at may be
// moved to while the event already has RSVPs.
const StartsAtBuffer = 5 * time.Minute

// CanRSVP decides whether an RSVP against event is allowed at instant now.
// An empty reason means allowed. Capacity is deliberately not checked here;
// it needs a count read inside the locking transaction.
func CanRSVP(event *entity.Event, now time.Time) (reason string) {
	if event.Status == entity.EventStatusCancelled {
		return ReasonEventCancelled
	}
	if event.Status != entity.EventStatusPublished {
		return ReasonEventNotPublished
	}
	if cutoff, ok := rsvpCutoff(event); ok && cutoff.Before(now) {
		return ReasonRSVPCutoffPassed
	}
	return ""
}

// rsvpCutoff returns the effective RSVP cutoff: the earlier of starts_at
// and rsvp_deadline over the non-nil values.
func rsvpCutoff(event *entity.Event) (time.Time, bool) {
	switch {
	case event.StartsAt != nil && event.RSVPDeadline != nil:
		if event.RSVPDeadline.Before(*event.StartsAt) {
			return *event.RSVPDeadline, true
		}
		return *event.StartsAt, true
	case event.StartsAt != nil:
		return *event.StartsAt, true
	case event.RSVPDeadline != nil:
		return *event.RSVPDeadline, true
	default:
		return time.Time{}, false
	}
}

// validateTimeBounds checks ends_at > starts_at and rsvp_deadline <= starts_at
// over the resulting field values of a create or update.
func validateTimeBounds(startsAt, endsAt, rsvpDeadline *time.Time) bool {
	if startsAt != nil && endsAt != nil && !endsAt.After(*startsAt) {
		return false
	}
	if startsAt != nil && rsvpDeadline != nil && rsvpDeadline.After(*startsAt) {
		return false
	}
	return true
}
