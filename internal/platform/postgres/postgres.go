package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type poolConfig struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	logLevel    gormlogger.LogLevel
}

type Option func(*poolConfig)

// WithMaxOpenConns caps concurrent connections; the dashboard refresh alone opens one per queue.
func WithMaxOpenConns(n int) Option {
	return func(c *poolConfig) {
		c.maxOpen = n
	}
}

func WithMaxIdleConns(n int) Option {
	return func(c *poolConfig) {
		c.maxIdle = n
	}
}

func WithConnMaxLifetime(d time.Duration) Option {
	return func(c *poolConfig) {
		c.maxLifetime = d
	}
}

// WithLogLevel sets GORM's SQL logging level. Defaults to warnings only.
func WithLogLevel(level gormlogger.LogLevel) Option {
	return func(c *poolConfig) {
		c.logLevel = level
	}
}

// Connect opens a PostgreSQL connection via GORM, sizes the pool and verifies connectivity.
func Connect(ctx context.Context, dsn string, opts ...Option) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	cfg := poolConfig{maxOpen: 20, maxIdle: 10, maxLifetime: 30 * time.Minute, logLevel: gormlogger.Warn}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(cfg.logLevel),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.maxOpen)
	sqlDB.SetMaxIdleConns(cfg.maxIdle)
	sqlDB.SetConnMaxLifetime(cfg.maxLifetime)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the pool behind db. Nil is a no-op.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
