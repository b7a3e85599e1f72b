package auth

import (
	"eventhub-api/core/cache"
	"eventhub-api/core/database"
	"eventhub-api/core/middleware"
	"eventhub-api/modules/auth/controller"
	"eventhub-api/modules/auth/repository"
	"eventhub-api/modules/auth/router"
	"eventhub-api/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and registers routes
func Init(e *echo.Echo, db database.IDatabase, c cache.ICache, mw *middleware.Middleware) {
	repo := repository.NewAuthRepository(db)
	svc := service.NewAuthService(repo, c)
	ctrl := controller.NewAuthController(svc)

	router.NewAuthRouter(ctrl).Setup(e, mw)
}

// GetRepository returns an auth repository for use by other modules.
func GetRepository(db database.IDatabase) repository.AuthRepositoryInterface {
	return repository.NewAuthRepository(db)
}
