package notification

import (
	"eventhub-api/core/database"
	"eventhub-api/core/middleware"
	"eventhub-api/modules/notification/controller"
	"eventhub-api/modules/notification/repository"
	"eventhub-api/modules/notification/router"
	"eventhub-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the notification module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) service.NotificationServiceInterface {
	svc := NewService(db)
	ctrl := controller.NewNotificationController(svc)
	router.NewNotificationRouter(ctrl).Setup(e, mw)
	return svc
}

// NewService builds a notification service for use by other modules.
func NewService(db database.IDatabase) service.NotificationServiceInterface {
	return service.NewNotificationService(repository.NewNotificationRepository(db))
}
