package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/SUJAY300/medi-vault-web-app/internal/config"
	"github.com/SUJAY300/medi-vault-web-app/internal/infrastructure/auth"
	"github.com/SUJAY300/medi-vault-web-app/internal/infrastructure/database"
	"github.com/SUJAY300/medi-vault-web-app/internal/infrastructure/repositories"
	"github.com/SUJAY300/medi-vault-web-app/internal/logging"
	"github.com/SUJAY300/medi-vault-web-app/internal/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if !cfg.DurableConfigured() {
		log.Fatal("DATABASE_URL is not set")
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	log.Println("Connecting to database...")
	db, err := database.Open(cfg.DSN, cfg.LogLevel == "debug")
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer database.Close(db)

	log.Println("Running migrations...")
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin := services.DemoAdmin{
		Email:    cfg.DemoAdminEmail,
		Password: cfg.DemoAdminPass,
		FullName: cfg.DemoAdminName,
	}
	store := repositories.NewIdentityRepository(db, nil)
	created, err := services.SeedDemoAdmin(ctx, store, auth.NewPasswordService(cfg.BcryptCost), admin, logger)
	if err != nil {
		log.Fatalf("Failed to seed demo admin: %v", err)
	}

	if created {
		log.Printf("Created demo admin %s", admin.Email)
	} else {
		log.Printf("Demo admin %s already exists", admin.Email)
	}
}
