package service

import (
	"context"
	"time"

	"eventhub-api/core/database"
	"eventhub-api/core/errors"
	"eventhub-api/core/logger"
	"eventhub-api/modules/event/dto"
	"eventhub-api/modules/event/entity"
	"eventhub-api/modules/event/repository"

	"github.com/google/uuid"
)

type RSVPService struct {
	repo repository.EventRepositoryInterface
	now  func() time.Time
}

type RSVPServiceInterface interface {
	RSVP(ctx context.Context, userID, eventID uuid.UUID) (*dto.RSVPResult, *errors.AppError)
	CancelRSVP(ctx context.Context, userID, eventID uuid.UUID) *errors.AppError
}

func NewRSVPService(repo repository.EventRepositoryInterface) RSVPServiceInterface {
	return &RSVPService{repo: repo, now: time.Now}
}

// RSVP joins userID to eventID. The whole decision runs under the event's
// row lock so the capacity count cannot go stale between check and insert.
// Repeat calls are idempotent and report AlreadyJoined.
func (s *RSVPService) RSVP(ctx context.Context, userID, eventID uuid.UUID) (*dto.RSVPResult, *errors.AppError) {
	result := &dto.RSVPResult{
		EventID: eventID,
		UserID:  userID,
		Status:  string(entity.AttendanceStatusRSVPed),
	}

	var appErr *errors.AppError
	err := s.repo.InRSVPTx(ctx, eventID, func(tx repository.RSVPTx) error {
		event, err := tx.EventForUpdate(ctx)
		if err != nil {
			return err
		}
		if event == nil {
			appErr = errors.NewAppError(errors.ErrNotFound, "event not found", nil).
				WithReason(ReasonEventNotFound)
			return appErr
		}

		if reason := CanRSVP(event, s.now().UTC()); reason != "" {
			appErr = rsvpDenied(reason)
			return appErr
		}

		existing, err := tx.Attendance(ctx, userID)
		if err != nil {
			return err
		}
		if existing != nil && existing.Status == entity.AttendanceStatusRSVPed {
			result.AlreadyJoined = true
			return nil
		}

		if event.Capacity != nil {
			count, err := tx.CountRSVPed(ctx)
			if err != nil {
				return err
			}
			if count >= *event.Capacity {
				appErr = errors.NewAppError(errors.ErrConflict, "event is at capacity", nil).
					WithReason(ReasonEventFull)
				return appErr
			}
		}

		if existing != nil {
			return tx.SetAttendanceStatus(ctx, userID, entity.AttendanceStatusRSVPed, nil)
		}
		return tx.InsertAttendance(ctx, userID, entity.AttendanceRoleAttendee)
	})
	if err != nil {
		if appErr != nil {
			return nil, appErr
		}
		if database.IsUniqueViolation(err) {
			// Lost a same-user insert race; the other writer's row is the
			// RSVP, so report an idempotent join.
			if att, gErr := s.repo.GetAttendance(ctx, eventID, userID); gErr == nil && att != nil &&
				att.Status == entity.AttendanceStatusRSVPed {
				result.AlreadyJoined = true
				return result, nil
			}
		}
		logger.Error("RSVPService:RSVP", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to rsvp", err)
	}
	return result, nil
}

// CancelRSVP marks the caller's attendance CANCELLED. A missing or
// already-cancelled RSVP comes back as a Validation error with
// RSVP_NOT_FOUND; callers treat that as a no-op success.
func (s *RSVPService) CancelRSVP(ctx context.Context, userID, eventID uuid.UUID) *errors.AppError {
	var appErr *errors.AppError
	err := s.repo.InRSVPTx(ctx, eventID, func(tx repository.RSVPTx) error {
		event, err := tx.EventForUpdate(ctx)
		if err != nil {
			return err
		}
		if event == nil {
			appErr = errors.NewAppError(errors.ErrNotFound, "event not found", nil).
				WithReason(ReasonEventNotFound)
			return appErr
		}

		existing, err := tx.Attendance(ctx, userID)
		if err != nil {
			return err
		}
		if existing == nil || existing.Status == entity.AttendanceStatusCancelled {
			appErr = errors.NewAppError(errors.ErrInvalidInput, "no active rsvp for this event", nil).
				WithReason(ReasonRSVPNotFound)
			return appErr
		}

		cancelledAt := s.now().UTC()
		return tx.SetAttendanceStatus(ctx, userID, entity.AttendanceStatusCancelled, &cancelledAt)
	})
	if err != nil {
		if appErr != nil {
			return appErr
		}
		logger.Error("RSVPService:CancelRSVP", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to cancel rsvp", err)
	}
	return nil
}

func rsvpDenied(reason string) *errors.AppError {
	switch reason {
	case ReasonEventCancelled:
		return errors.NewAppError(errors.ErrConflict, "event is cancelled", nil).WithReason(reason)
	case ReasonEventNotPublished:
		return errors.NewAppError(errors.ErrConflict, "event is not open for rsvp", nil).WithReason(reason)
	case ReasonRSVPCutoffPassed:
		return errors.NewAppError(errors.ErrConflict, "rsvp window has closed", nil).WithReason(reason)
	default:
		return errors.NewAppError(errors.ErrConflict, "rsvp not allowed", nil).WithReason(reason)
	}
}
