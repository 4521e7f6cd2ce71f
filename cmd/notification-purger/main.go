package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/repairshop-api/internal/app/api"
	notificationapp "github.com/Apurer/repairshop-api/internal/domains/notifications/application"
	notificationpostgres "github.com/Apurer/repairshop-api/internal/domains/notifications/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/repairshop-api/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.PostgresDSN == "" {
		log.Fatal("POSTGRES_DSN not set; cannot purge notifications")
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, platformpostgres.WithMaxOpenConns(2))
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer platformpostgres.Close(db)

	service := notificationapp.NewService(notificationpostgres.NewRepository(db), notificationapp.WithLogger(logger))
	retention := time.Duration(cfg.NotificationRetentionDays) * 24 * time.Hour
	res := service.Purge(ctx, retention)
	if !res.IsSuccess {
		log.Fatalf("failed to purge notifications: %s", res.Message)
	}
	logger.Info("notification purge completed", slog.Int64("removed", res.Data), slog.Int("retentionDays", cfg.NotificationRetentionDays))
}
