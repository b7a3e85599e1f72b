package resume

import (
	"eventhub-api/core/config"
	"eventhub-api/core/database"
	"eventhub-api/core/middleware"
	"eventhub-api/core/queue"
	"eventhub-api/core/storage"
	"eventhub-api/modules/auth"
	notifservice "eventhub-api/modules/notification/service"
	"eventhub-api/modules/profile"
	"eventhub-api/modules/resume/controller"
	"eventhub-api/modules/resume/repository"
	"eventhub-api/modules/resume/router"
	"eventhub-api/modules/resume/service"
	"eventhub-api/modules/resume/worker"

	"github.com/labstack/echo/v4"
)

// Init initializes the resume module, registers routes, and returns the
// ingestion worker so core/server can attach it to the job mux.
func Init(e *echo.Echo, db database.IDatabase, store storage.BlobStore, q queue.IQueue, notifier notifservice.NotificationServiceInterface, mw *middleware.Middleware) *worker.Worker {
	cfg := config.Get()
	repo := repository.NewResumeRepository(db)

	svc := service.NewResumeService(repo, store, q, cfg.Resume.MaxUploadBytes)
	ctrl := controller.NewResumeController(svc)
	router.NewResumeRouter(ctrl).Setup(e, mw)

	return worker.NewWorker(repo, auth.GetRepository(db), profile.NewService(db), store, worker.NoopScanner{}, notifier)
}
