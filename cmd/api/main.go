package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/barber-portal/internal/api/http"
	"github.com/spec-kit/barber-portal/internal/api/http/handlers"
	"github.com/spec-kit/barber-portal/internal/auth"
	"github.com/spec-kit/barber-portal/internal/config"
	"github.com/spec-kit/barber-portal/internal/events"
	"github.com/spec-kit/barber-portal/internal/observability"
	"github.com/spec-kit/barber-portal/internal/persistence"
	"github.com/spec-kit/barber-portal/internal/repository"
	"github.com/spec-kit/barber-portal/internal/service"
	"github.com/spec-kit/barber-portal/internal/session"
	"github.com/spec-kit/barber-portal/internal/worker"
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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	staffRepo := repository.NewStaffRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	blockRepo := repository.NewBlockRepository(pool)
	catalogRepo := repository.NewCatalogRepository(pool)
	historyRepo := repository.NewHistoryRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	store := session.NewStore(redis.Client, cfg.Auth.SessionTTL())
	dispatcher := events.NewInMemoryDispatcher()

	sessionService := service.NewSessionService(*cfg, service.SessionDependencies{
		StaffRepo:       staffRepo,
		AppointmentRepo: appointmentRepo,
		BlockRepo:       blockRepo,
		CatalogRepo:     catalogRepo,
		Store:           store,
		Logger:          logger,
	})
	scheduleService := service.NewScheduleService(service.ScheduleDependencies{
		AppointmentRepo: appointmentRepo,
		BlockRepo:       blockRepo,
		HistoryRepo:     historyRepo,
		Reloader:        sessionService,
		Dispatcher:      dispatcher,
		Logger:          logger,
	})
	profileService := service.NewProfileService(*cfg, service.ProfileDependencies{
		StaffRepo:         staffRepo,
		PasswordResetRepo: resetRepo,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	sessionMiddleware := auth.NewSessionMiddleware(sessionService.TokenManager(), sessionService)

	observability.Register()
	metricsServer := observability.ServeMetrics(cfg.Metrics, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, time.Duration(cfg.App.RequestTimeoutSeconds)*time.Second)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:              handlers.NewAuthHandler(sessionService, profileService),
		Appointments:      handlers.NewAppointmentsHandler(scheduleService),
		Blocks:            handlers.NewBlocksHandler(scheduleService),
		Earnings:          handlers.NewEarningsHandler(),
		Profile:           handlers.NewProfileHandler(profileService),
		SessionMiddleware: sessionMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = metricsServer.Shutdown(shutdownCtx)
		shutdownCancel()
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
