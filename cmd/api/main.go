package main

import (
	"fmt"
	"os"

	"financebot/internal/config"
	"financebot/internal/database"
	"financebot/internal/events"
	"financebot/internal/logger"
	"financebot/internal/server"
)

// @title           financebot API
// @version         1.0
// @description     financebot keeps a personal ledger of expenses and incomes recorded through a chat bot, with budgets, goals and spending reports.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(database.MigrationsSource); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	publisher, err := events.NewPublisher(appConfig.AMQPURL, appConfig.AMQPExchange)
	if err != nil {
		return fmt.Errorf("failed to connect to message broker: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warnf("failed to close event publisher: %v", err)
		}
	}()

	router := server.NewRouter(dbManager.DB(), appConfig, publisher)

	log.Infof("Starting financebot server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
