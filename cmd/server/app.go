package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/taskwell/taskwell-api/internal/config"
	"github.com/taskwell/taskwell-api/internal/platform/email"
	"github.com/taskwell/taskwell-api/internal/platform/postgres"
	redisplatform "github.com/taskwell/taskwell-api/internal/platform/redis"
	"github.com/taskwell/taskwell-api/internal/service"
	"github.com/taskwell/taskwell-api/internal/service/auth"
	"github.com/taskwell/taskwell-api/internal/service/taskcache"
	"github.com/taskwell/taskwell-api/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger

	db         *sql.DB
	redisCache *redisplatform.Cache
	scheduler  *cron.Cron

	userStore store.UserStore

	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	taskService     *service.TaskService
	labelService    *service.LabelService
	commentService  *service.CommentService
	activityService *service.ActivityService
	notifier        *service.Notifier
}

// newApplication connects the database, applies migrations and wires every
// store, service and background job.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := applyMigrations(db, logger); err != nil {
		return nil, err
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Stores
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	labelStore := postgres.NewPostgresLabelStore(db, logger)
	commentStore := postgres.NewPostgresCommentStore(db, logger)
	activityStore := postgres.NewPostgresActivityLogStore(db, logger)
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)

	// Listing cache. The backend stays nil when disabled; a failed ping is
	// only worth a warning because every cache failure degrades to the
	// database anyway.
	var backend taskcache.Backend
	if cfg.Cache.Enabled {
		app.redisCache = redisplatform.New(cfg.Cache, logger)

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := app.redisCache.Ping(pingCtx); err != nil {
			logger.Warn("cache backend unreachable at startup, listings will hit the database",
				"addr", cfg.Cache.Addr,
				"error", err.Error())
		}
		cancel()

		backend = app.redisCache
	}

	cacheTTL := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	cacheManager := taskcache.NewManager(backend, taskStore, cacheTTL, logger)

	// Auth
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Services
	txRunner := &service.DBTxRunner{DB: db}
	recorder := service.NewRecorder(logger)

	app.taskService = service.NewTaskService(
		txRunner, taskStore, labelStore, activityStore, recorder, cacheManager, logger)
	app.labelService = service.NewLabelService(labelStore, logger)
	app.commentService = service.NewCommentService(
		txRunner, taskStore, commentStore, activityStore, recorder, logger)
	app.activityService = service.NewActivityService(activityStore, logger)

	var sender service.EmailSender
	if cfg.Email.Enabled {
		sender = email.New(cfg.Email, logger)
	}
	app.notifier = service.NewNotifier(taskStore, app.userStore, sender, logger)

	if err := app.setupScheduler(); err != nil {
		return nil, err
	}

	return app, nil
}

// setupScheduler registers the overdue-task scan on the configured cron
// schedule. An empty spec leaves only the manual trigger endpoint.
func (app *application) setupScheduler() error {
	spec := app.config.Notifier.CronSpec
	if spec == "" {
		app.logger.Info("overdue scan schedule disabled")
		return nil
	}

	app.scheduler = cron.New()
	_, err := app.scheduler.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := app.notifier.CheckOverdue(ctx, time.Now().UTC()); err != nil {
			app.logger.Error("scheduled overdue scan failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid notifier cron spec %q: %w", spec, err)
	}

	app.scheduler.Start()
	app.logger.Info("overdue scan scheduled", "spec", spec)
	return nil
}

// cleanup releases the application's long-lived resources during shutdown.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if app.redisCache != nil {
		if err := app.redisCache.Close(); err != nil {
			app.logger.Error("failed to close cache client", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
