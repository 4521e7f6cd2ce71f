package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/repairshop-api/internal/app/api"
	soactivities "github.com/Apurer/repairshop-api/internal/durable/temporal/activities/serviceorders"
	soworkflows "github.com/Apurer/repairshop-api/internal/durable/temporal/workflows/serviceorders"
	"github.com/Apurer/repairshop-api/internal/platform/broadcast"
	platformobservability "github.com/Apurer/repairshop-api/internal/platform/observability"
)

const serviceName = "repairshop-worker"

// Run hosts the service order intake workflow and its activities until
// interrupted.
func Run(ctx context.Context) error {
	cfg, err := api.LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.SettingsFromEnv(serviceName, "worker"))
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

	stores, cleanupStores := api.OpenStores(ctx, cfg, logger)
	defer cleanupStores()
	var notifier api.Notifier = broadcast.NewHub()
	if stores.DB != nil {
		notifier = broadcast.NewPostgresNotifier(stores.DB, broadcast.DefaultChannel)
	} else {
		logger.Warn("worker running without postgres, change broadcasts stay in process")
	}
	services := api.BuildServices(cfg, stores, notifier, instruments)
	intakeActivities := soactivities.NewActivities(services.IntakeSteps, stores.IntakeKeys)

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, soworkflows.IntakeTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(soworkflows.IntakeWorkflow, workflow.RegisterOptions{Name: soworkflows.IntakeWorkflowName})
	w.RegisterActivityWithOptions(intakeActivities.RegisterServiceOrder, activity.RegisterOptions{Name: soactivities.RegisterServiceOrderActivityName})
	w.RegisterActivityWithOptions(intakeActivities.AttachToCustomer, activity.RegisterOptions{Name: soactivities.AttachToCustomerActivityName})
	w.RegisterActivityWithOptions(intakeActivities.RenderCheckIn, activity.RegisterOptions{Name: soactivities.RenderCheckInActivityName})
	w.RegisterActivityWithOptions(intakeActivities.Announce, activity.RegisterOptions{Name: soactivities.AnnounceActivityName})

	logger.Info("worker listening", slog.String("taskQueue", soworkflows.IntakeTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}
