package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/support-desk/helpdesk/internal/api/http"
	"github.com/support-desk/helpdesk/internal/api/http/handlers"
	"github.com/support-desk/helpdesk/internal/auth"
	"github.com/support-desk/helpdesk/internal/cache"
	"github.com/support-desk/helpdesk/internal/config"
	"github.com/support-desk/helpdesk/internal/events"
	"github.com/support-desk/helpdesk/internal/observability"
	"github.com/support-desk/helpdesk/internal/persistence"
	"github.com/support-desk/helpdesk/internal/repository"
	"github.com/support-desk/helpdesk/internal/service"
	"github.com/support-desk/helpdesk/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)

	var viewCache cache.ViewCache = cache.NewNoopViewCache()
	if redis.Ping(ctx) == nil {
		viewCache = cache.NewRedisViewCache(redis.Client, cfg.Cache.ViewTTL(), logger)
	}

	eventLog := observability.NewEventLogger(logger)
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		EventLog: eventLog,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		ViewCache:  viewCache,
		Dispatcher: dispatcher,
		EventLog:   eventLog,
	})
	invalidationService := service.NewInvalidationService(dispatcher, viewCache, logger)
	worker.StartInvalidationWorker(invalidationService)

	sessionCookie := auth.NewSessionCookie(cfg.Session.CookieName, authService.TokenManager().TTL(), cfg.Session.Secure)
	sessionMiddleware := auth.NewSessionMiddleware(authService.TokenManager(), sessionCookie, userRepo, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(pg, redis)
	usersHandler := handlers.NewUsersHandler(authService, sessionCookie)
	ticketsHandler := handlers.NewTicketsHandler(ticketService, eventLog)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  healthHandler,
		Users:   usersHandler,
		Tickets: ticketsHandler,
		Session: sessionMiddleware,
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
