package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is nil when the service runs with the in-memory storage driver.
var DB *gorm.DB

var ErrNotConnected = errors.New("database not connected")

func Connect(cfg *config.Config) error {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	DB = db
	slog.Info("database connected", "host", cfg.DBHost, "name", cfg.DBName)
	return nil
}

// Migrate creates or updates the users, travel_stories and system_logs
// tables.
func Migrate() error {
	if DB == nil {
		return ErrNotConnected
	}
	return DB.AutoMigrate(
		&models.User{},
		&models.Story{},
		&models.SystemLog{},
	)
}

func Ping(ctx context.Context) error {
	if DB == nil {
		return ErrNotConnected
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
