package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/clinic-portal-gateway/internal/api/http"
	"github.com/spec-kit/clinic-portal-gateway/internal/api/http/handlers"
	"github.com/spec-kit/clinic-portal-gateway/internal/backend"
	"github.com/spec-kit/clinic-portal-gateway/internal/config"
	"github.com/spec-kit/clinic-portal-gateway/internal/events"
	"github.com/spec-kit/clinic-portal-gateway/internal/gate"
	"github.com/spec-kit/clinic-portal-gateway/internal/heartbeat"
	"github.com/spec-kit/clinic-portal-gateway/internal/observability"
	"github.com/spec-kit/clinic-portal-gateway/internal/persistence"
	"github.com/spec-kit/clinic-portal-gateway/internal/service"
	"github.com/spec-kit/clinic-portal-gateway/internal/session"
	"github.com/spec-kit/clinic-portal-gateway/internal/token"
	"github.com/spec-kit/clinic-portal-gateway/internal/worker"
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

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	auditService := service.NewAuditService(dispatcher, logger, metrics)
	worker.StartAuditWorker(auditService)

	var locker session.Locker
	var statusCache session.StatusCache
	var redis *persistence.Redis
	if cfg.Redis.Addr != "" {
		redis = persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		locker = redis
		statusCache = redis
	} else {
		locker = session.NewMemoryLocker()
		statusCache = session.NewMemoryStatusCache()
	}

	codec := token.NewCodec()
	backendClient := backend.NewClient(cfg.Backend, logger)
	clock := session.NewClock(codec, backendClient, cfg.Session, locker, dispatcher, logger)
	teardown := session.NewTeardown(codec, dispatcher, logger)
	heartbeats := heartbeat.NewManager(codec, clock, backendClient, cfg.Session, dispatcher, logger)
	defer heartbeats.Shutdown()

	alive := session.NewMiddleware(session.MiddlewareDeps{
		Codec:    codec,
		Clock:    clock,
		Teardown: teardown,
		Backend:  backendClient,
		Tracker:  heartbeats,
		Cache:    statusCache,
	}, cfg.Session, logger)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis),
		Portal:  handlers.NewPortalHandler(cfg.App.Name),
		Session: handlers.NewSessionHandler(codec, teardown, heartbeats, cfg.Session, logger),
		Gate:    gate.New(codec),
		Alive:   alive,
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
