package router

import (
	"eventhub-api/core/middleware"
	"eventhub-api/modules/event/controller"

	"github.com/labstack/echo/v4"
)

// EventRouter handles event and RSVP routes
type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

// Setup registers event routes
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	eventRoutes := v1.Group("/events")
	eventRoutes.GET("", r.EventController.List)
	eventRoutes.GET("/code/:code", r.EventController.GetByJoinCode)
	eventRoutes.POST("", r.EventController.Create, mw.AuthMiddleware())
	eventRoutes.GET("/mine", r.EventController.ListMine, mw.AuthMiddleware())
	eventRoutes.GET("/:id", r.EventController.Get, mw.AuthMiddleware())
	eventRoutes.PATCH("/:id", r.EventController.Update, mw.AuthMiddleware())
	eventRoutes.POST("/:id/publish", r.EventController.Publish, mw.AuthMiddleware())
	eventRoutes.POST("/:id/cancel", r.EventController.Cancel, mw.AuthMiddleware())
	eventRoutes.GET("/:id/attendees", r.EventController.Attendees, mw.AuthMiddleware())
	eventRoutes.POST("/:id/rsvp", r.EventController.RSVP, mw.AuthMiddleware())
	eventRoutes.DELETE("/:id/rsvp", r.EventController.CancelRSVP, mw.AuthMiddleware())
}
