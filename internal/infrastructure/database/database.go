package database

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"llm-gateway/internal/domain/model"
	"llm-gateway/internal/infrastructure/logger"
	"llm-gateway/internal/utils/platformerrors"
)

// Config holds database configuration
type Config struct {
	DatabaseURL string
	MaxIdle     int
	MaxOpen     int
	MaxLifetime time.Duration
	LogLevel    gormlogger.LogLevel
}

// Connect creates a new database connection with the given configuration
func Connect(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(cfg.LogLevel),
		TranslateError: true,
	})
	if err != nil {
		log := logger.GetLogger()
		log.Error().Err(err).Msg("unable to connect to database")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(cfg.MaxLifetime)

	log := logger.GetLogger()
	log.Info().Msg("Successfully connected to database")
	return db, nil
}

// NewDB creates a new database connection using DSN
func NewDB(dsn string) (*gorm.DB, error) {
	return Connect(Config{
		DatabaseURL: dsn,
		MaxIdle:     10,
		MaxOpen:     25,
		MaxLifetime: 1 * time.Hour,
		LogLevel:    gormlogger.Silent,
	})
}

// StorageConfigSource yields the user storage section of the catalog
// document. The model registry is the production implementation.
type StorageConfigSource interface {
	UserStorage(ctx context.Context) (model.UserStorageConfig, error)
}

// Migrator prepares the backing table once a connection exists.
type Migrator func(db *gorm.DB, tableName string) error

// Connector resolves the user store's *gorm.DB lazily on first use. The
// connection string is read from the environment variable NAMED in the
// catalog's userStorage section; a missing variable surfaces as a
// CONFIGURATION error on the first user operation instead of failing the
// process at startup. A successful connection is cached for the process
// lifetime; failures are not cached, so a later call retries.
type Connector struct {
	source      StorageConfigSource
	autoMigrate bool
	migrate     Migrator

	mu  sync.Mutex
	db  *gorm.DB
	cfg model.UserStorageConfig
}

// NewConnector constructs a lazy connector over the given storage config
// source. When autoMigrate is true the migrator runs right after the first
// successful connection.
func NewConnector(source StorageConfigSource, autoMigrate bool, migrate Migrator) *Connector {
	return &Connector{source: source, autoMigrate: autoMigrate, migrate: migrate}
}

// Get returns the cached connection and storage config, connecting on first
// use.
func (c *Connector) Get(ctx context.Context) (*gorm.DB, model.UserStorageConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, c.cfg, nil
	}

	cfg, err := c.source.UserStorage(ctx)
	if err != nil {
		return nil, model.UserStorageConfig{}, err
	}

	dsn := os.Getenv(cfg.ConnectionStringEnvVar)
	if dsn == "" {
		return nil, model.UserStorageConfig{}, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeConfiguration,
			fmt.Sprintf("environment variable %q is not set; configure the user storage connection string", cfg.ConnectionStringEnvVar),
			nil,
			"2e0a6f4d-9a3c-4a9f-8d85-6f6a1b3c7e41",
		)
	}

	db, err := NewDB(dsn)
	if err != nil {
		return nil, model.UserStorageConfig{}, platformerrors.NewError(
			ctx,
			platformerrors.LayerInfrastructure,
			platformerrors.ErrorTypeDatabaseError,
			"connect to user storage",
			err,
			"d0b7c9e2-4f64-4f9a-9a71-3f5e8a2b1c90",
		)
	}

	if c.autoMigrate && c.migrate != nil {
		if err := c.migrate(db, cfg.TableName); err != nil {
			return nil, model.UserStorageConfig{}, platformerrors.NewError(
				ctx,
				platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeDatabaseError,
				fmt.Sprintf("migrate user storage table %q", cfg.TableName),
				err,
				"7b6a5e90-2d1c-4c3f-b8e7-9f0d4a5b6c72",
			)
		}
	}

	c.db = db
	c.cfg = cfg
	return c.db, c.cfg, nil
}
