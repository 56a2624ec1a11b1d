/**
 * @description
 * This is the main entry point for the lending-service. It is responsible for
 * initializing all components of the service: configuration, the database
 * connection pool, the message broker producer and consumer, the repository,
 * the core application service, the billing scheduler, and the HTTP server.
 * It wires everything together and starts the service.
 *
 * @dependencies
 * - log/slog, net/http: Standard Go libraries for logging and HTTP serving.
 * - github.com/jackc/pgx/v5: PostgreSQL driver.
 * - github.com/joho/godotenv: Optional .env loading for local development.
 * - internal/api, internal/app, internal/config, internal/store: Internal packages for the service.
 * - pkg/rabbitmq: Client for RabbitMQ.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/paisebank/lending-service/internal/api"
	"github.com/paisebank/lending-service/internal/app"
	"github.com/paisebank/lending-service/internal/config"
	"github.com/paisebank/lending-service/internal/store"
	"github.com/paisebank/lending-service/pkg/rabbitmq"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}
	logger.Info("starting lending-service", "port", cfg.ServerPort)

	// Establish a connection pool to the PostgreSQL database.
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error("database url parse failed", "error", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = 25
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	dbpool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	logger.Info("database connected")

	// The broker is optional at startup: registration and billing keep
	// working without it, with scoring deferred until it returns.
	var producer rabbitmq.Publisher
	eventProducer, err := rabbitmq.NewEventProducer(cfg.RabbitMQURL)
	if err != nil {
		logger.Warn("rabbitmq producer unavailable, using fallback", "error", err)
		producer = &rabbitmq.EventProducerFallback{Logger: logger}
	} else {
		producer = eventProducer
		defer eventProducer.Close()
		logger.Info("rabbitmq producer connected")
	}

	repository := store.NewPostgresRepository(dbpool)
	lendingService := app.NewService(repository, producer, logger, cfg)
	billingEngine := app.NewBillingEngine(repository, producer, logger, cfg.BillingGraceDays)

	// Credit scoring consumes user.registered events off the broker.
	scorer := app.NewCreditScorer(repository, logger)
	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQURL, logger)
	if err != nil {
		logger.Warn("rabbitmq consumer unavailable, credit scoring disabled", "error", err)
	} else {
		defer consumer.Close()
		bindings := map[string]func([]byte) bool{
			rabbitmq.UserRegisteredKey: scorer.HandleUserRegistered,
		}
		if err := consumer.ConsumeWithBindings(cfg.LendingEventQueue, bindings); err != nil {
			logger.Error("credit scoring consumer start failed", "error", err)
			os.Exit(1)
		}
		logger.Info("credit scoring consumer started", "queue", cfg.LendingEventQueue)
	}

	// Periodic billing cycle.
	scheduler := app.NewScheduler(billingEngine, logger, cfg.BillingCycleSchedule)
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	handlers := api.NewLendingHandlers(lendingService, billingEngine, logger)
	router := api.LendingRoutes(handlers, cfg.AllowedOrigins, cfg.InternalAPIKey)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped unexpectedly", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutdown started")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("shutdown complete")
}
