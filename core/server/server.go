package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventhub-api/core/cache"
	"eventhub-api/core/config"
	"eventhub-api/core/database"
	"eventhub-api/core/logger"
	"eventhub-api/core/middleware"
	"eventhub-api/core/queue"
	"eventhub-api/core/storage"
	"eventhub-api/modules/auth"
	"eventhub-api/modules/event"
	"eventhub-api/modules/notification"
	"eventhub-api/modules/profile"
	"eventhub-api/modules/resume"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoswagger "github.com/swaggo/echo-swagger"
)

// Run wires the whole application: config, infrastructure singletons, the
// HTTP modules, and the background ingestion worker, then serves until a
// shutdown signal arrives.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	}); err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	db := database.GetDB()

	c, err := cache.Init(cache.CacheConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	store, err := storage.Init(storage.StorageConfig{
		Backend:     cfg.Storage.Backend,
		LocalRoot:   cfg.Storage.LocalRoot,
		S3Bucket:    cfg.Storage.S3Bucket,
		S3Region:    cfg.Storage.S3Region,
		S3Endpoint:  cfg.Storage.S3Endpoint,
		S3AccessKey: cfg.Storage.S3AccessKey,
		S3SecretKey: cfg.Storage.S3SecretKey,
	})
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	queueConfig := queue.QueueConfig{
		RedisAddr:     cfg.Redis.Addr,
		RedisPassword: cfg.Redis.Password,
		RedisDB:       cfg.Redis.DB,
	}
	q, err := queue.Init(queueConfig)
	if err != nil {
		return fmt.Errorf("init queue: %w", err)
	}
	defer q.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/swagger/*", echoswagger.WrapHandler)

	mw := middleware.New(c)

	auth.Init(e, db, c, mw)
	notifier := notification.Init(e, db, mw)
	event.Init(e, db, c, notifier, mw)
	profile.Init(e, db, mw)
	ingestWorker := resume.Init(e, db, store, q, notifier, mw)

	workerSrv, mux := queue.NewWorkerServer(queueConfig, cfg.Resume.WorkerConcurrency)
	ingestWorker.Register(mux)
	go func() {
		if err := workerSrv.Run(mux); err != nil {
			logger.Error("worker server stopped", err)
		}
	}()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	workerSrv.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}
