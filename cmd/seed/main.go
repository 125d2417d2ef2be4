// Command seed loads the default categories, a starter account, and a
// handful of sample transactions into the configured database.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"financepro/internal/config"
	applog "financepro/internal/log"
	"financepro/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	store, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.Seed(context.Background()); err != nil {
		logger.Error("Seeding failed", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Seed complete", "path", cfg.SQLiteDBPath)
}
