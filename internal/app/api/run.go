package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	repairshopserver "github.com/Apurer/repairshop-api/go"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/adapters/dashboard"
	soworkflows "github.com/Apurer/repairshop-api/internal/domains/serviceorders/adapters/workflows"
	soapp "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application"
	soports "github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	"github.com/Apurer/repairshop-api/internal/platform/broadcast"
	platformobservability "github.com/Apurer/repairshop-api/internal/platform/observability"
)

const serviceName = "repairshop-api"

// Run boots the repair shop HTTP API with observability, repositories, workflows,
// live broadcasts and the dashboard wired. It returns when ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.SettingsFromEnv(serviceName, "api"))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stores, cleanupStores := OpenStores(ctx, cfg, logger)
	defer cleanupStores()

	hub := broadcast.NewHub(broadcast.WithLogger(logger))
	defer hub.Close()
	var notifier Notifier = hub
	if stores.DB != nil {
		listener, err := broadcast.NewListener(cfg.PostgresDSN, broadcast.DefaultChannel, hub, logger)
		if err != nil {
			logger.Warn("postgres LISTEN unavailable, broadcasting in process only", slog.String("error", err.Error()))
		} else {
			notifier = broadcast.NewPostgresNotifier(stores.DB, broadcast.DefaultChannel)
			go func() {
				if err := listener.Run(ctx); err != nil {
					logger.Error("postgres listener stopped", slog.String("error", err.Error()))
				}
			}()
		}
	}

	services := BuildServices(cfg, stores, notifier, instruments)

	var intake soports.IntakeOrchestrator = soworkflows.NewInlineIntakeWorkflows(services.ServiceOrders)
	if temporalClient, err := ConnectTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, running intake inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		intake = soworkflows.NewTemporalIntakeWorkflows(temporalClient, services.ServiceOrders)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}
	intake = soapp.NewIdempotentIntake(intake, stores.IntakeKeys, services.ServiceOrders, logger)

	board := dashboard.New(stores.ServiceOrders,
		dashboard.WithPageSize(cfg.DashboardPageSize),
		dashboard.WithLogger(logger),
	)
	if _, err := board.Refresh(ctx); err != nil {
		logger.Warn("initial dashboard refresh failed", slog.String("error", err.Error()))
	}
	go board.Run(ctx, hub.Subscribe(ctx))

	handlers := repairshopserver.ApiHandleFunctions{
		CustomerAPI:     repairshopserver.NewCustomerAPI(services.Customers),
		ServiceOrderAPI: repairshopserver.NewServiceOrderAPI(services.ServiceOrders, intake),
		NotificationAPI: repairshopserver.NewNotificationAPI(services.Notifications),
		DashboardAPI:    repairshopserver.NewDashboardAPI(board, hub),
	}
	router := repairshopserver.NewRouter(handlers, otelgin.Middleware(serviceName))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("repair shop API listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("repair shop API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("repair shop API shutdown failed", slog.String("error", err.Error()))
		return err
	}
	logger.Info("repair shop API stopped")
	return nil
}
