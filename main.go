package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"teslo/internal/app"
	"teslo/internal/config"
	"teslo/internal/database"
	"teslo/internal/logging"
	"teslo/internal/services"
	"teslo/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.Init(cfg.LogMode, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// --- Database ---
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	// --- Initialize RabbitMQ Client ---
	// Catalog events are optional; an empty RABBITMQ_URL turns them off.
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			logger.Fatal("Failed to initialize RabbitMQ client", zap.Error(err))
		}
		defer mqClient.Close()
		publisher = mqClient
	}

	application, registry := app.New(cfg, db, publisher)

	// --- Start RabbitMQ Consumer ---
	if mqClient != nil {
		if err := mqClient.ConsumeCatalogEvents(app.CatalogRelay(registry)); err != nil {
			logger.Error("Failed to start RabbitMQ consumer", zap.Error(err))
		}
	}

	// --- Start HTTP Server ---
	logger.Info("Starting server", zap.String("port", cfg.AppPort))

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := application.Listen(cfg.AppPort); err != nil {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Shutting down server...")

	if err := application.Shutdown(); err != nil {
		logger.Error("Error during Fiber shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Server gracefully stopped")
}
