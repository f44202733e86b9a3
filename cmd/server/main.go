package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"vnbank.backend/internal/config"
	"vnbank.backend/internal/infrastructure/events"
	"vnbank.backend/internal/infrastructure/jobs"
	"vnbank.backend/internal/infrastructure/locking"
	"vnbank.backend/internal/infrastructure/metrics"
	"vnbank.backend/internal/interfaces/http/handlers"
	"vnbank.backend/internal/interfaces/http/middleware"
	"vnbank.backend/internal/usecases"
	"vnbank.backend/pkg/jwt"
	"vnbank.backend/pkg/logger"
	"vnbank.backend/pkg/rabbitmq"
	"vnbank.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	dialBroker = func(url string) (rabbitmq.Publisher, error) {
		p, err := rabbitmq.NewEventProducer(url)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	runServer = func(srv *http.Server) error { return srv.ListenAndServe() }
	// shutdownSignal delivers SIGINT and SIGTERM
	shutdownSignal = func() <-chan os.Signal {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		return quit
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := newStorage(cfg)
	if err != nil {
		return err
	}
	defer store.close()

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ledgerMetrics := metrics.NewLedgerMetrics(registry)

	publisher := newPublisher(ctx, cfg.RabbitMQ)
	defer publisher.Close()

	// Usecases
	notificationUsecase := usecases.NewNotificationUsecase(store.notifications)
	accountLocker := locking.NewAccountLocker(cfg.Ledger.LockTimeout)
	transferUsecase := usecases.NewTransferUsecase(
		store.uow,
		store.accounts,
		store.ledger,
		accountLocker,
		store.idempotency,
		notificationUsecase,
		ledgerMetrics,
		events.NewLedgerEventPublisher(publisher, cfg.RabbitMQ.Exchange),
	)
	accountUsecase := usecases.NewAccountUsecase(store.accounts, store.users, accountLocker)
	authUsecase := usecases.NewAuthUsecase(store.uow, store.users, store.accounts, jwtService)
	userUsecase := usecases.NewUserUsecase(store.users)
	reminderUsecase := usecases.NewReminderUsecase(store.reminders, store.accounts, transferUsecase, notificationUsecase)

	if cfg.Server.SeedDemo {
		seeded, err := usecases.NewDemoSeeder(store.users, store.accounts, store.reminders, transferUsecase).Seed(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		if !seeded {
			logger.Info(ctx, "Demo data already present")
		}
	}

	reminderJob := jobs.NewReminderJob(reminderUsecase, cfg.Scheduler.ReminderSchedule)
	if err := reminderJob.Start(ctx); err != nil {
		return err
	}
	defer reminderJob.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware(healthPath, metricsPath))

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r, registry)
	registerAPIV1Routes(r, routeDeps{
		authHandler:         handlers.NewAuthHandler(authUsecase, accountUsecase),
		accountHandler:      handlers.NewAccountHandler(accountUsecase, transferUsecase),
		transferHandler:     handlers.NewTransferHandler(transferUsecase, accountUsecase),
		reminderHandler:     handlers.NewReminderHandler(reminderUsecase),
		notificationHandler: handlers.NewNotificationHandler(notificationUsecase),
		userHandler:         handlers.NewUserHandler(userUsecase),
		authMiddleware:      middleware.AuthMiddleware(jwtService),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "VNBank backend starting",
			zap.String("port", cfg.Server.Port),
			zap.String("storage", cfg.Database.Driver),
		)
		serveErr <- runServer(srv)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-shutdownSignal():
		logger.Info(ctx, "Shutting down server")
	}

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newPublisher connects to RabbitMQ when enabled, falling back to a publisher
// that drops events so ledger operations never depend on the broker.
func newPublisher(ctx context.Context, cfg config.RabbitMQConfig) rabbitmq.Publisher {
	if !cfg.Enabled {
		return &rabbitmq.EventProducerFallback{}
	}
	p, err := dialBroker(cfg.URL)
	if err != nil {
		logger.Warn(ctx, "RabbitMQ unavailable, ledger events will not be published", zap.Error(err))
		return &rabbitmq.EventProducerFallback{}
	}
	logger.Info(ctx, "RabbitMQ connected", zap.String("exchange", cfg.Exchange))
	return p
}
