package api

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	customermemory "github.com/Apurer/repairshop-api/internal/domains/customers/adapters/memory"
	customerpostgres "github.com/Apurer/repairshop-api/internal/domains/customers/adapters/persistence/postgres"
	customerports "github.com/Apurer/repairshop-api/internal/domains/customers/ports"
	notificationmemory "github.com/Apurer/repairshop-api/internal/domains/notifications/adapters/memory"
	notificationpostgres "github.com/Apurer/repairshop-api/internal/domains/notifications/adapters/persistence/postgres"
	notificationports "github.com/Apurer/repairshop-api/internal/domains/notifications/ports"
	somemory "github.com/Apurer/repairshop-api/internal/domains/serviceorders/adapters/memory"
	sopostgres "github.com/Apurer/repairshop-api/internal/domains/serviceorders/adapters/persistence/postgres"
	soports "github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	"github.com/Apurer/repairshop-api/internal/platform/migrations"
	platformpostgres "github.com/Apurer/repairshop-api/internal/platform/postgres"
)

// Stores bundles the repositories of every bounded context. DB is nil when
// running on the in-memory fallback.
type Stores struct {
	DB            *gorm.DB
	Customers     customerports.Repository
	ServiceOrders soports.Repository
	IntakeKeys    soports.IdempotencyStore
	Notifications notificationports.Repository
}

// OpenStores connects to PostgreSQL when a DSN is configured and falls back
// to in-memory repositories otherwise. The cleanup closes the connection.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (Stores, func()) {
	memory := Stores{
		Customers:     customermemory.NewRepository(),
		ServiceOrders: somemory.NewRepository(),
		IntakeKeys:    somemory.NewIdempotencyStore(),
		Notifications: notificationmemory.NewRepository(),
	}
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return memory, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return memory, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to apply migrations, falling back to memory", slog.String("error", err.Error()))
		_ = platformpostgres.Close(db)
		return memory, func() {}
	}
	logger.Info("repositories configured with postgres")
	return Stores{
		DB:            db,
		Customers:     customerpostgres.NewRepository(db),
		ServiceOrders: sopostgres.NewRepository(db),
		IntakeKeys:    sopostgres.NewIdempotencyStore(db),
		Notifications: notificationpostgres.NewRepository(db),
	}, func() { _ = platformpostgres.Close(db) }
}
