package repository

import (
	"context"
	"database/sql"
	"time"

	"eventhub-api/core/database"
	"eventhub-api/core/logger"
	"eventhub-api/modules/event/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// EventRepository handles event and attendance database operations
type EventRepository struct {
	DB database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{DB: db}
}

// RSVPTx is the transaction surface the RSVP state machine runs against.
// EventForUpdate takes the exclusive row lock that serializes all
// capacity-affecting operations on a single event.
type RSVPTx interface {
	EventForUpdate(ctx context.Context) (*entity.Event, error)
	Attendance(ctx context.Context, userID uuid.UUID) (*entity.Attendance, error)
	CountRSVPed(ctx context.Context) (int, error)
	InsertAttendance(ctx context.Context, userID uuid.UUID, role string) error
	SetAttendanceStatus(ctx context.Context, userID uuid.UUID, status entity.AttendanceStatus, cancelledAt *time.Time) error
}

// EventRepositoryInterface defines the repository contract
type EventRepositoryInterface interface {
	CreateEventWithHost(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetEventByJoinCode(ctx context.Context, joinCode string) (*entity.Event, error)
	ListPublished(ctx context.Context) ([]entity.Event, error)
	ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error)
	UpdateEvent(ctx context.Context, event *entity.Event) error
	CountRSVPed(ctx context.Context, eventID uuid.UUID) (int, error)
	GetAttendance(ctx context.Context, eventID, userID uuid.UUID) (*entity.Attendance, error)
	ListAttendees(ctx context.Context, eventID uuid.UUID) ([]entity.Attendance, error)

	// InRSVPTx runs fn inside one transaction scoped to a single event.
	InRSVPTx(ctx context.Context, eventID uuid.UUID, fn func(tx RSVPTx) error) error
}

const eventColumns = `
	id, title, slug, description, location, starts_at, ends_at, rsvp_deadline,
	capacity, status, organizer_id, cancelled_at, join_code, created_at, updated_at`

const attendanceColumns = `
	id, event_id, user_id, role, status, cancelled_at, created_at, updated_at`

// ===================== Event CRUD =====================

// CreateEventWithHost inserts the event and the organizer's host attendance
// row in one transaction, so a published event never exists without its host
// counted toward capacity.
func (r *EventRepository) CreateEventWithHost(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	var created entity.Event
	err := r.DB.InTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO events (title, slug, description, location, starts_at, ends_at,
			                    rsvp_deadline, capacity, status, organizer_id, join_code)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING ` + eventColumns

		if err := tx.GetContext(ctx, &created, query,
			event.Title, event.Slug, event.Description, event.Location,
			event.StartsAt, event.EndsAt, event.RSVPDeadline, event.Capacity,
			event.Status, event.OrganizerID, event.JoinCode); err != nil {
			return err
		}

		hostQuery := `
			INSERT INTO event_attendees (event_id, user_id, role, status)
			VALUES ($1, $2, $3, $4)`
		_, err := tx.ExecContext(ctx, hostQuery,
			created.ID, event.OrganizerID, entity.AttendanceRoleHost, entity.AttendanceStatusRSVPed)
		return err
	})
	if err != nil {
		if !database.IsUniqueViolation(err) {
			logger.Error("EventRepository:CreateEventWithHost", err)
		}
		return nil, err
	}
	return &created, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetEventByJoinCode(ctx context.Context, joinCode string) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE join_code = $1`

	var event entity.Event
	err := r.DB.GetContext(ctx, &event, query, joinCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByJoinCode", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) ListPublished(ctx context.Context) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE status = $1
		ORDER BY starts_at NULLS LAST, created_at DESC`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, entity.EventStatusPublished)
	if err != nil {
		logger.Error("EventRepository:ListPublished", err)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY created_at DESC`

	var events []entity.Event
	err := r.DB.SelectContext(ctx, &events, query, organizerID)
	if err != nil {
		logger.Error("EventRepository:ListByOrganizer", err)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event *entity.Event) error {
	query := `
		UPDATE events
		SET title = $2, slug = $3, description = $4, location = $5, starts_at = $6,
		    ends_at = $7, rsvp_deadline = $8, capacity = $9, status = $10,
		    cancelled_at = $11, updated_at = NOW()
		WHERE id = $1`

	err := r.DB.ExecContext(ctx, query,
		event.ID, event.Title, event.Slug, event.Description, event.Location,
		event.StartsAt, event.EndsAt, event.RSVPDeadline, event.Capacity,
		event.Status, event.CancelledAt)
	if err != nil {
		logger.Error("EventRepository:UpdateEvent", err)
		return err
	}
	return nil
}

// ===================== Attendance reads =====================

func (r *EventRepository) CountRSVPed(ctx context.Context, eventID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM event_attendees WHERE event_id = $1 AND status = $2`

	var count int
	err := r.DB.GetContext(ctx, &count, query, eventID, entity.AttendanceStatusRSVPed)
	if err != nil {
		logger.Error("EventRepository:CountRSVPed", err)
		return 0, err
	}
	return count, nil
}

func (r *EventRepository) GetAttendance(ctx context.Context, eventID, userID uuid.UUID) (*entity.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM event_attendees WHERE event_id = $1 AND user_id = $2`

	var attendance entity.Attendance
	err := r.DB.GetContext(ctx, &attendance, query, eventID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetAttendance", err)
		return nil, err
	}
	return &attendance, nil
}

func (r *EventRepository) ListAttendees(ctx context.Context, eventID uuid.UUID) ([]entity.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM event_attendees
		WHERE event_id = $1 AND status = $2
		ORDER BY created_at`

	var attendees []entity.Attendance
	err := r.DB.SelectContext(ctx, &attendees, query, eventID, entity.AttendanceStatusRSVPed)
	if err != nil {
		logger.Error("EventRepository:ListAttendees", err)
		return nil, err
	}
	return attendees, nil
}

// ===================== RSVP transaction =====================

func (r *EventRepository) InRSVPTx(ctx context.Context, eventID uuid.UUID, fn func(tx RSVPTx) error) error {
	return r.DB.InTx(ctx, func(tx *sqlx.Tx) error {
		return fn(&rsvpTx{tx: tx, eventID: eventID})
	})
}

type rsvpTx struct {
	tx      *sqlx.Tx
	eventID uuid.UUID
}

func (t *rsvpTx) EventForUpdate(ctx context.Context) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

	var event entity.Event
	err := t.tx.GetContext(ctx, &event, query, t.eventID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (t *rsvpTx) Attendance(ctx context.Context, userID uuid.UUID) (*entity.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM event_attendees WHERE event_id = $1 AND user_id = $2`

	var attendance entity.Attendance
	err := t.tx.GetContext(ctx, &attendance, query, t.eventID, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &attendance, nil
}

func (t *rsvpTx) CountRSVPed(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM event_attendees WHERE event_id = $1 AND status = $2`

	var count int
	err := t.tx.GetContext(ctx, &count, query, t.eventID, entity.AttendanceStatusRSVPed)
	return count, err
}

func (t *rsvpTx) InsertAttendance(ctx context.Context, userID uuid.UUID, role string) error {
	query := `
		INSERT INTO event_attendees (event_id, user_id, role, status)
		VALUES ($1, $2, $3, $4)`
	_, err := t.tx.ExecContext(ctx, query, t.eventID, userID, role, entity.AttendanceStatusRSVPed)
	return err
}

func (t *rsvpTx) SetAttendanceStatus(ctx context.Context, userID uuid.UUID, status entity.AttendanceStatus, cancelledAt *time.Time) error {
	query := `
		UPDATE event_attendees
		SET status = $3, cancelled_at = $4, updated_at = NOW()
		WHERE event_id = $1 AND user_id = $2`
	_, err := t.tx.ExecContext(ctx, query, t.eventID, userID, status, cancelledAt)
	return err
}
