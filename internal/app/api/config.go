package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/adapters/dashboard"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/adapters/pdf"
)

// DefaultNotificationRetentionDays applies when NOTIFICATION_RETENTION_DAYS is unset.
const DefaultNotificationRetentionDays = 30

// Config carries environment-driven settings shared by the api, the worker and the purger.
type Config struct {
	Port                      string
	PostgresDSN               string
	TemporalAddress           string
	TemporalNamespace         string
	TemporalDisabled          bool
	NotificationRetentionDays int
	DashboardPageSize         int
	Shop                      pdf.Shop
}

// LoadConfig reads a .env file when present, then environment variables,
// applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		Shop: pdf.Shop{
			Name:  strings.TrimSpace(os.Getenv("SHOP_NAME")),
			Site:  strings.TrimSpace(os.Getenv("SHOP_SITE")),
			Phone: strings.TrimSpace(os.Getenv("SHOP_PHONE")),
		},
	}
	var err error
	if cfg.NotificationRetentionDays, err = positiveInt("NOTIFICATION_RETENTION_DAYS", DefaultNotificationRetentionDays); err != nil {
		return Config{}, err
	}
	if cfg.DashboardPageSize, err = positiveInt("DASHBOARD_PAGE_SIZE", dashboard.DefaultPageSize); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
