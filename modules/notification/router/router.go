package router

import (
	"eventhub-api/core/middleware"
	"eventhub-api/modules/notification/controller"

	"github.com/labstack/echo/v4"
)

// NotificationRouter handles notification routes
type NotificationRouter struct {
	NotificationController *controller.NotificationController
}

func NewNotificationRouter(notificationController *controller.NotificationController) *NotificationRouter {
	return &NotificationRouter{
		NotificationController: notificationController,
	}
}

// Setup registers notification routes
func (r *NotificationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	notificationRoutes := v1.Group("/notifications", mw.AuthMiddleware())
	notificationRoutes.GET("", r.NotificationController.List)
	notificationRoutes.GET("/unread-count", r.NotificationController.UnreadCount)
	notificationRoutes.PUT("/mark-read", r.NotificationController.MarkRead)
	notificationRoutes.PUT("/mark-all-read", r.NotificationController.MarkAllRead)
}
