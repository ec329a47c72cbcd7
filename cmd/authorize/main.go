// Command authorize allows a phone number to log in.
package main

import (
	"fmt"
	"os"

	"financebot/internal/config"
	"financebot/internal/database"
	"financebot/internal/logger"
	"financebot/internal/services"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Authorize error: %v", err)
	}
}

func run() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: authorize <phone>")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	authorized, err := services.NewUserService(dbManager.DB()).AuthorizeNumber(os.Args[1])
	if err != nil {
		return err
	}

	logger.Get().Infow("Phone number authorized", "number", authorized.Number, "id", authorized.ID)
	return nil
}
