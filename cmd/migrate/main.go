package main

import (
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/pageza/healthbite/backend/config"
	"github.com/pageza/healthbite/backend/internal/database"
	"github.com/pageza/healthbite/backend/internal/logger"
)

func main() {
	migrationsDir := flag.String("dir", "migrations", "directory holding the *.sql migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.IsDevelopment()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.DB)
	if err != nil {
		logger.Get().Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(db, *migrationsDir); err != nil {
		logger.Get().Fatal("migration failed", zap.Error(err))
	}
	logger.Get().Info("all migrations applied", zap.String("dir", *migrationsDir))
}
