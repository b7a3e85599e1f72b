package profile

import (
	"eventhub-api/core/database"
	"eventhub-api/core/middleware"
	"eventhub-api/modules/profile/controller"
	"eventhub-api/modules/profile/repository"
	"eventhub-api/modules/profile/router"
	"eventhub-api/modules/profile/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the profile module and registers routes
func Init(e *echo.Echo, db database.IDatabase, mw *middleware.Middleware) {
	router.NewProfileRouter(controller.NewProfileController(NewService(db))).Setup(e, mw)
}

// NewService builds a profile service for use by other modules (the resume
// ingestion worker merges parsed output through it).
func NewService(db database.IDatabase) service.ProfileServiceInterface {
	return service.NewProfileService(repository.NewProfileRepository(db))
}
