package router

import (
	"eventhub-api/core/middleware"
	"eventhub-api/modules/profile/controller"

	"github.com/labstack/echo/v4"
)

// ProfileRouter handles profile routes
type ProfileRouter struct {
	ProfileController *controller.ProfileController
}

func NewProfileRouter(profileController *controller.ProfileController) *ProfileRouter {
	return &ProfileRouter{
		ProfileController: profileController,
	}
}

// Setup registers profile routes
func (r *ProfileRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	profileRoutes := v1.Group("/profiles", mw.AuthMiddleware())
	profileRoutes.GET("/me", r.ProfileController.Me)
	profileRoutes.PUT("/me", r.ProfileController.UpdateMe)
}
