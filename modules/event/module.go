package event

import (
	"eventhub-api/core/cache"
	"eventhub-api/core/database"
	"eventhub-api/core/middleware"
	"eventhub-api/modules/event/controller"
	"eventhub-api/modules/event/repository"
	"eventhub-api/modules/event/router"
	"eventhub-api/modules/event/service"
	notifservice "eventhub-api/modules/notification/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the event module and registers routes
func Init(e *echo.Echo, db database.IDatabase, c cache.ICache, notifier notifservice.NotificationServiceInterface, mw *middleware.Middleware) {
	repo := repository.NewEventRepository(db)
	eventSvc := service.NewEventService(repo, c, notifier)
	rsvpSvc := service.NewRSVPService(repo)
	ctrl := controller.NewEventController(eventSvc, rsvpSvc)

	router.NewEventRouter(ctrl).Setup(e, mw)
}
