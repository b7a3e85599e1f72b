package router

import (
	"eventhub-api/core/middleware"
	"eventhub-api/modules/resume/controller"

	"github.com/labstack/echo/v4"
)

// ResumeRouter handles resume routes
type ResumeRouter struct {
	ResumeController *controller.ResumeController
}

func NewResumeRouter(resumeController *controller.ResumeController) *ResumeRouter {
	return &ResumeRouter{
		ResumeController: resumeController,
	}
}

// Setup registers resume routes
func (r *ResumeRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	v1 := e.Group("/api/v1")

	resumeRoutes := v1.Group("/resumes", mw.AuthMiddleware())
	resumeRoutes.POST("", r.ResumeController.Upload)
	resumeRoutes.GET("/latest", r.ResumeController.Latest)
	resumeRoutes.GET("/:id", r.ResumeController.Status)
}
