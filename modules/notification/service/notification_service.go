package service

import (
	"context"

	"eventhub-api/core/errors"
	"eventhub-api/core/logger"
	"eventhub-api/modules/notification/dto"
	"eventhub-api/modules/notification/entity"
	"eventhub-api/modules/notification/repository"

	"github.com/google/uuid"
)

type NotificationService struct {
	repo repository.NotificationRepositoryInterface
}

type NotificationServiceInterface interface {
	// Notify records a notification for one user. Best-effort: callers that
	// must not fail on notification trouble log and move on.
	Notify(ctx context.Context, userID uuid.UUID, kind, title, message string, data map[string]interface{}) error
	NotifyMany(ctx context.Context, userIDs []uuid.UUID, kind, title, message string, data map[string]interface{})

	GetMyNotifications(ctx context.Context, userID uuid.UUID, page, pageSize int) (*entity.PaginatedNotificationEntity, *errors.AppError)
	MarkAsRead(ctx context.Context, userID uuid.UUID, req *dto.MarkAsReadRequest) *errors.AppError
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError
	CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError)
}

func NewNotificationService(repo repository.NotificationRepositoryInterface) NotificationServiceInterface {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, kind, title, message string, data map[string]interface{}) error {
	return s.repo.Create(ctx, &entity.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
		Data:    entity.JSONB(data),
	})
}

// NotifyMany fans a notification out to several users, logging and skipping
// individual failures.
func (s *NotificationService) NotifyMany(ctx context.Context, userIDs []uuid.UUID, kind, title, message string, data map[string]interface{}) {
	for _, userID := range userIDs {
		if err := s.Notify(ctx, userID, kind, title, message, data); err != nil {
			logger.Warn("NotificationService:NotifyMany", "user_id", userID, "error", err)
		}
	}
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, page, pageSize int) (*entity.PaginatedNotificationEntity, *errors.AppError) {
	result, err := s.repo.GetByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get notifications", err)
	}
	return result, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, req *dto.MarkAsReadRequest) *errors.AppError {
	if len(req.IDs) == 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "ids is required", nil)
	}
	if err := s.repo.MarkAsRead(ctx, userID, req.IDs); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark as read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) *errors.AppError {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to mark all as read", err)
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrInternalServer, "failed to count unread", err)
	}
	return count, nil
}
