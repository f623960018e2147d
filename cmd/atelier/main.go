package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/atelier-lms/atelier/internal/app"
	"github.com/atelier-lms/atelier/internal/auth"
	"github.com/atelier-lms/atelier/internal/authz"
	"github.com/atelier-lms/atelier/internal/courses"
	"github.com/atelier-lms/atelier/internal/observability"
	"github.com/atelier-lms/atelier/internal/platform/cache"
	"github.com/atelier-lms/atelier/internal/platform/db"
	"github.com/atelier-lms/atelier/internal/projects"
	"github.com/atelier-lms/atelier/internal/topics"
	"github.com/atelier-lms/atelier/internal/users"
	"github.com/atelier-lms/atelier/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL)
	refreshStore := auth.NewRefreshStore(redisClient, cfg.RefreshTokenTTL)
	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo, refreshStore, tokens)

	registry, err := app.NewRegistry()
	if err != nil {
		logger.Error("build operation registry", slog.Any("error", err))
		os.Exit(1)
	}
	guard := authz.NewMiddleware(registry, tokens, logger)

	usersService := users.NewService(users.NewRepository(pool))
	coursesService := courses.NewService(courses.NewRepository(pool))
	projectsService := projects.NewService(projects.NewRepository(pool))
	topicsService := topics.NewService(topics.NewRepository(pool))

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		AuthHandler:     auth.NewHandler(logger, authService, guard),
		UsersHandler:    users.NewHandler(logger, usersService, guard),
		CoursesHandler:  courses.NewHandler(logger, coursesService, guard),
		ProjectsHandler: projects.NewHandler(logger, projectsService, guard),
		TopicsHandler:   topics.NewHandler(logger, topicsService, guard),
		JobHandler:      jobHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
