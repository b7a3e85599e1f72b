package service

import (
	"context"
	"strings"
	"time"

	"eventhub-api/core/cache"
	"eventhub-api/core/constants"
	"eventhub-api/core/database"
	"eventhub-api/core/errors"
	"eventhub-api/core/logger"
	"eventhub-api/core/utils"
	authentity "eventhub-api/modules/auth/entity"
	"eventhub-api/modules/event/dto"
	"eventhub-api/modules/event/entity"
	"eventhub-api/modules/event/repository"
	notifentity "eventhub-api/modules/notification/entity"
	notifservice "eventhub-api/modules/notification/service"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type EventService struct {
	repo     repository.EventRepositoryInterface
	cache    cache.ICache
	notifier notifservice.NotificationServiceInterface
	now      func() time.Time
}

type EventServiceInterface interface {
	CreateEvent(ctx context.Context, actor *utils.TokenClaims, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetEvent(ctx context.Context, actor *utils.TokenClaims, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError)
	GetEventByJoinCode(ctx context.Context, joinCode string) (*dto.EventResponse, *errors.AppError)
	ListPublished(ctx context.Context) ([]dto.EventResponse, *errors.AppError)
	ListMyEvents(ctx context.Context, actor *utils.TokenClaims) ([]dto.EventResponse, *errors.AppError)
	UpdateEvent(ctx context.Context, actor *utils.TokenClaims, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError)
	PublishEvent(ctx context.Context, actor *utils.TokenClaims, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError)
	CancelEvent(ctx context.Context, actor *utils.TokenClaims, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError)
	ListAttendees(ctx context.Context, actor *utils.TokenClaims, eventID uuid.UUID) ([]dto.AttendeeResponse, *errors.AppError)
}

func NewEventService(repo repository.EventRepositoryInterface, c cache.ICache, notifier notifservice.NotificationServiceInterface) EventServiceInterface {
	return &EventService{repo: repo, cache: c, notifier: notifier, now: time.Now}
}

func (s *EventService) CreateEvent(ctx context.Context, actor *utils.TokenClaims, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	if actor.Role != string(authentity.RoleOrganizer) && actor.Role != string(authentity.RoleAdmin) {
		return nil, errors.NewAppError(errors.ErrForbidden, "only organizers can create events", nil)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "title is required", nil)
	}
	if req.Capacity != nil && *req.Capacity < 1 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "capacity must be at least 1", nil).
			WithReason(ReasonInvalidCapacity)
	}
	if !validateTimeBounds(req.StartsAt, req.EndsAt, req.RSVPDeadline) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "ends_at must be after starts_at and rsvp_deadline must not be after starts_at", nil).
			WithReason(ReasonInvalidTimeRange)
	}

	status := entity.EventStatusDraft
	if req.Status != nil {
		switch entity.EventStatus(strings.ToUpper(strings.TrimSpace(*req.Status))) {
		case entity.EventStatusDraft, entity.EventStatus(""):
		case entity.EventStatusPublished:
			if req.StartsAt == nil {
				return nil, errors.NewAppError(errors.ErrInvalidInput, "starts_at must be set to create a published event", nil).
					WithReason(ReasonStartsAtRequired)
			}
			if !req.StartsAt.After(s.now().UTC()) {
				return nil, errors.NewAppError(errors.ErrInvalidInput, "starts_at must be in the future", nil).
					WithReason(ReasonStartsAtInPast)
			}
			status = entity.EventStatusPublished
		default:
			return nil, errors.NewAppError(errors.ErrInvalidInput, "status must be DRAFT or PUBLISHED", nil)
		}
	}

	joinCode := utils.GenerateJoinCode()
	if req.JoinCode != nil {
		if code := strings.ToUpper(strings.TrimSpace(*req.JoinCode)); code != "" {
			joinCode = code
		}
	}

	event := &entity.Event{
		Title:        title,
		Slug:         slug.Make(title),
		Description:  req.Description,
		Location:     req.Location,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		RSVPDeadline: req.RSVPDeadline,
		Capacity:     req.Capacity,
		Status:       status,
		OrganizerID:  actor.UserID,
		JoinCode:     joinCode,
	}

	created, err := s.repo.CreateEventWithHost(ctx, event)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, errors.NewAppError(errors.ErrConflict, "join code collision, retry the request", err).
				WithReason(ReasonJoinCodeCollision)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create event", err)
	}

	// Host row counts toward capacity from the start.
	return dto.ToEventResponse(created, 1, true), nil
}

func (s *EventService) GetEvent(ctx context.Context, actor *utils.TokenClaims, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, appErr := s.getEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if event.Status != entity.EventStatusPublished && !s.canManage(actor, event) {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil).
			WithReason(ReasonEventNotFound)
	}
	count, err := s.repo.CountRSVPed(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count rsvps", err)
	}
	return dto.ToEventResponse(event, count, s.canManage(actor, event)), nil
}

func (s *EventService) GetEventByJoinCode(ctx context.Context, joinCode string) (*dto.EventResponse, *errors.AppError) {
	code := strings.ToUpper(strings.TrimSpace(joinCode))
	if code == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "join code is required", nil)
	}

	event, err := s.repo.GetEventByJoinCode(ctx, code)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up event", err)
	}
	if event == nil || event.Status != entity.EventStatusPublished {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil).
			WithReason(ReasonEventNotFound)
	}
	count, err := s.repo.CountRSVPed(ctx, event.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count rsvps", err)
	}
	return dto.ToEventResponse(event, count, false), nil
}

func (s *EventService) ListPublished(ctx context.Context) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list events", err)
	}
	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		count, err := s.repo.CountRSVPed(ctx, events[i].ID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count rsvps", err)
		}
		out = append(out, *dto.ToEventResponse(&events[i], count, false))
	}
	return out, nil
}

func (s *EventService) ListMyEvents(ctx context.Context, actor *utils.TokenClaims) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.ListByOrganizer(ctx, actor.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list events", err)
	}
	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		count, err := s.repo.CountRSVPed(ctx, events[i].ID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count rsvps", err)
		}
		out = append(out, *dto.ToEventResponse(&events[i], count, true))
	}
	return out, nil
}

// UpdateEvent applies a partial patch. Guards are best-effort against
// concurrent RSVPs: a capacity lowering racing a join may land either way,
// which is accepted.
func (s *EventService) UpdateEvent(ctx context.Context, actor *utils.TokenClaims, eventID uuid.UUID, req *dto.UpdateEventRequest) (*dto.EventResponse, *errors.AppError) {
	event, appErr := s.loadEventForWrite(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if !s.canManage(actor, event) {
		return nil, errors.NewAppError(errors.ErrForbidden, "not allowed to modify this event", nil)
	}
	if event.Status == entity.EventStatusCancelled {
		return nil, errors.NewAppError(errors.ErrConflict, "event is cancelled", nil).
			WithReason(ReasonEventCancelled)
	}

	count, err := s.repo.CountRSVPed(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count rsvps", err)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "title cannot be empty", nil)
		}
		event.Title = title
		event.Slug = slug.Make(title)
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			return nil, errors.NewAppError(errors.ErrInvalidInput, "capacity must be at least 1", nil).
				WithReason(ReasonInvalidCapacity)
		}
		if *req.Capacity < count {
			return nil, errors.NewAppError(errors.ErrConflict, "capacity is below the current rsvp count", nil).
				WithReason(ReasonCapacityBelowCount)
		}
		event.Capacity = req.Capacity
	}
	if req.StartsAt != nil {
		if count > 0 && req.StartsAt.Before(s.now().UTC().Add(StartsAtBuffer)) {
			return nil, errors.NewAppError(errors.ErrConflict, "cannot move the start time this close while rsvps exist", nil).
				WithReason(ReasonStartsAtTooSoon)
		}
		event.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		event.EndsAt = req.EndsAt
	}
	if req.RSVPDeadline != nil {
		event.RSVPDeadline = req.RSVPDeadline
	}

	// Bounds hold over the resulting values, not just the patched ones.
	if !validateTimeBounds(event.StartsAt, event.EndsAt, event.RSVPDeadline) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "ends_at must be after starts_at and rsvp_deadline must not be after starts_at", nil).
			WithReason(ReasonInvalidTimeRange)
	}

	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to update event", err)
	}
	s.invalidateCache(ctx, eventID)
	return dto.ToEventResponse(event, count, true), nil
}

func (s *EventService) PublishEvent(ctx context.Context, actor *utils.TokenClaims, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, appErr := s.loadEventForWrite(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if !s.canManage(actor, event) {
		return nil, errors.NewAppError(errors.ErrForbidden, "not allowed to modify this event", nil)
	}
	if event.Status == entity.EventStatusCancelled {
		return nil, errors.NewAppError(errors.ErrConflict, "cancelled events cannot be published", nil).
			WithReason(ReasonEventCancelled)
	}
	if event.StartsAt == nil {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "starts_at must be set before publishing", nil).
			WithReason(ReasonStartsAtRequired)
	}
	if !event.StartsAt.After(s.now().UTC()) {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "starts_at must be in the future", nil).
			WithReason(ReasonStartsAtInPast)
	}

	event.Status = entity.EventStatusPublished
	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to publish event", err)
	}
	s.invalidateCache(ctx, eventID)

	count, err := s.repo.CountRSVPed(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count rsvps", err)
	}
	return dto.ToEventResponse(event, count, true), nil
}

func (s *EventService) CancelEvent(ctx context.Context, actor *utils.TokenClaims, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, appErr := s.loadEventForWrite(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if !s.canManage(actor, event) {
		return nil, errors.NewAppError(errors.ErrForbidden, "not allowed to modify this event", nil)
	}
	if event.Status != entity.EventStatusCancelled {
		now := s.now().UTC()
		event.Status = entity.EventStatusCancelled
		event.CancelledAt = &now
		if err := s.repo.UpdateEvent(ctx, event); err != nil {
			return nil, errors.NewAppError(errors.ErrInternalServer, "failed to cancel event", err)
		}
		s.invalidateCache(ctx, eventID)
		s.notifyCancelled(ctx, event)
	}

	count, err := s.repo.CountRSVPed(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to count rsvps", err)
	}
	return dto.ToEventResponse(event, count, true), nil
}

func (s *EventService) notifyCancelled(ctx context.Context, event *entity.Event) {
	if s.notifier == nil {
		return
	}
	attendees, err := s.repo.ListAttendees(ctx, event.ID)
	if err != nil {
		logger.Warn("EventService:notifyCancelled:ListAttendees", "error", err)
		return
	}
	var recipients []uuid.UUID
	for _, a := range attendees {
		if a.Status == entity.AttendanceStatusRSVPed && a.UserID != event.OrganizerID {
			recipients = append(recipients, a.UserID)
		}
	}
	if len(recipients) == 0 {
		return
	}
	s.notifier.NotifyMany(ctx, recipients, notifentity.TypeEventCancelled,
		"Event cancelled",
		"The event \""+event.Title+"\" has been cancelled by the organizer.",
		map[string]interface{}{"event_id": event.ID.String(), "title": event.Title})
}

func (s *EventService) ListAttendees(ctx context.Context, actor *utils.TokenClaims, eventID uuid.UUID) ([]dto.AttendeeResponse, *errors.AppError) {
	event, appErr := s.getEvent(ctx, eventID)
	if appErr != nil {
		return nil, appErr
	}
	if !s.canManage(actor, event) {
		return nil, errors.NewAppError(errors.ErrForbidden, "only the organizer can list attendees", nil)
	}
	attendees, err := s.repo.ListAttendees(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to list attendees", err)
	}
	return dto.ToAttendeeResponses(attendees), nil
}

// loadEventForWrite reads the stored row directly. Mutations must never act
// on a cached snapshot; the cache is a read-side shortcut only.
func (s *EventService) loadEventForWrite(ctx context.Context, eventID uuid.UUID) (*entity.Event, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil).
			WithReason(ReasonEventNotFound)
	}
	return event, nil
}

func (s *EventService) getEvent(ctx context.Context, eventID uuid.UUID) (*entity.Event, *errors.AppError) {
	if s.cache != nil {
		var cached entity.Event
		ok, err := s.cache.GetJSON(ctx, constants.RedisKeyEventCache+eventID.String(), &cached)
		if err != nil {
			logger.Warn("EventService:getEvent:CacheGet", "error", err)
		} else if ok {
			return &cached, nil
		}
	}

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "event not found", nil).
			WithReason(ReasonEventNotFound)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, constants.RedisKeyEventCache+eventID.String(), event, constants.EventCacheTTL); err != nil {
			logger.Warn("EventService:getEvent:CacheSet", "error", err)
		}
	}
	return event, nil
}

func (s *EventService) canManage(actor *utils.TokenClaims, event *entity.Event) bool {
	if actor == nil {
		return false
	}
	return actor.Role == string(authentity.RoleAdmin) || event.OrganizerID == actor.UserID
}

func (s *EventService) invalidateCache(ctx context.Context, eventID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, constants.RedisKeyEventCache+eventID.String()); err != nil {
		logger.Warn("EventService:invalidateCache", "error", err)
	}
}
