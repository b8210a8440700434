// Command migrate creates or updates the PostgreSQL schema and exits.
// It reads the same POSTGRES_* variables as the server.
package main

import (
	"Squares/config"
	pgconfig "Squares/config/postgres"
	"Squares/utils/logger"
	"fmt"
	"os"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error loading config:", err)
		os.Exit(1)
	}
	if err := logger.Setup(cfg.LogLevel, "console"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := pgconfig.ConnectGORM(cfg.Postgres, logger.Named("postgres"))
	if err != nil {
		logger.Errorf("Error connecting to PostgreSQL: %v", err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	if err := pgconfig.MigrateDatabase(db, logger.Log); err != nil {
		logger.Errorf("Migration failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Schema is up to date")
}
