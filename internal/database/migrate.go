package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pageza/allertrack/backend/internal/database/migrations"
	"github.com/pageza/allertrack/backend/internal/models"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

// RunMigrations brings the schema up to date. SQLite uses gorm
// auto-migration; postgres applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *gorm.DB, log *slog.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		log.Info("using gorm auto-migration for sqlite")
		return db.WithContext(ctx).AutoMigrate(
			&models.User{},
			&models.Allergy{},
		)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("error getting sql.DB: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	log.Info("database migrated", "version", version)
	return nil
}
