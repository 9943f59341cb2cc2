package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/campusops/issue-service/internal/api/http"
	"github.com/campusops/issue-service/internal/api/http/handlers"
	"github.com/campusops/issue-service/internal/auth"
	"github.com/campusops/issue-service/internal/config"
	"github.com/campusops/issue-service/internal/events"
	"github.com/campusops/issue-service/internal/observability"
	"github.com/campusops/issue-service/internal/persistence"
	"github.com/campusops/issue-service/internal/repository"
	"github.com/campusops/issue-service/internal/service"
	"github.com/campusops/issue-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	rdb := persistence.NewRedis(cfg.Redis, logger)
	defer rdb.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	issueRepo := repository.NewIssueRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	statsCache := service.NewStatsCache(rdb.Client, cfg.Redis.StatsTTL(), logger)

	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:   issueRepo,
		CommentRepo: commentRepo,
		Dispatcher:  dispatcher,
		StatsCache:  statsCache,
	})
	authService := service.NewAuthService(*cfg, userRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, rdb),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Users:          handlers.NewUsersHandler(authService),
		Issues:         handlers.NewIssuesHandler(issueService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
