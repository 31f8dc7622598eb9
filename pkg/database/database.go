package database

import (
	"fmt"
	"time"

	"storefront-api/internal/model"
	"storefront-api/pkg/config"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres, tunes the connection pool and runs the
// idempotent schema migration. The handle is returned to the caller,
// which owns its lifecycle and injects it into the handlers; nothing in
// this package holds global state.
func Open(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	// Set up GORM logger configuration
	var logLevel logger.LogLevel
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	} else {
		logLevel = logger.Error
	}

	// Override log level if explicitly set in config
	switch cfg.Database.LogLevel {
	case "silent":
		logLevel = logger.Silent
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	}

	// Build DSN from config
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	// Configure Postgres options
	pgConfig := postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool parameters
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Run migrations
	start := time.Now()
	log.Info("Starting database migration...")

	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.ProductSpecialType{},
		&model.User{},
		&model.Order{},
		&model.OrderItem{},
		&model.Review{},
	); err != nil {
		log.Error("Database migration failed", zap.Error(err))
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	log.Info("Database migration completed successfully",
		zap.Duration("duration", time.Since(start)))

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
