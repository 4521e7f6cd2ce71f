package api

import (
	"log/slog"

	"github.com/Apurer/repairshop-api/internal/domains/customers/adapters/directory"
	customerobs "github.com/Apurer/repairshop-api/internal/domains/customers/adapters/observability"
	customerapp "github.com/Apurer/repairshop-api/internal/domains/customers/application"
	customerports "github.com/Apurer/repairshop-api/internal/domains/customers/ports"
	notificationobs "github.com/Apurer/repairshop-api/internal/domains/notifications/adapters/observability"
	notificationapp "github.com/Apurer/repairshop-api/internal/domains/notifications/application"
	notificationports "github.com/Apurer/repairshop-api/internal/domains/notifications/ports"
	soobs "github.com/Apurer/repairshop-api/internal/domains/serviceorders/adapters/observability"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/adapters/pdf"
	soapp "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application"
	soports "github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	platformobservability "github.com/Apurer/repairshop-api/internal/platform/observability"
)

// Notifier is satisfied by the in-process hub and the PostgreSQL notifier.
type Notifier interface {
	customerports.Notifier
	soports.Notifier
	notificationapp.Notifier
}

// Services holds the decorated application services.
type Services struct {
	Customers     customerports.Service
	ServiceOrders soports.Service
	Notifications notificationports.Service
	// IntakeSteps is the undecorated service order core, run step by step by workflows.
	IntakeSteps soports.IntakeSteps
}

// BuildServices wires every bounded context over the given stores.
func BuildServices(cfg Config, stores Stores, notifier Notifier, instruments *platformobservability.Instruments) Services {
	logger := effectiveLogger(instruments)

	coreCustomers := customerapp.NewService(stores.Customers,
		customerapp.WithNotifier(notifier),
		customerapp.WithLogger(logger),
	)
	customers := customerobs.New(coreCustomers,
		customerobs.WithLogger(logger),
		customerobs.WithTracer(instruments.Tracer("internal.customers.application")),
		customerobs.WithMeter(instruments.Meter("internal.customers.application")),
	)

	coreOrders := soapp.NewService(stores.ServiceOrders, directory.New(stores.Customers), pdf.NewGenerator(cfg.Shop),
		soapp.WithNotifier(notifier),
		soapp.WithLogger(logger),
	)
	orders := soobs.New(coreOrders,
		soobs.WithLogger(logger),
		soobs.WithTracer(instruments.Tracer("internal.serviceorders.application")),
		soobs.WithMeter(instruments.Meter("internal.serviceorders.application")),
	)

	coreNotifications := notificationapp.NewService(stores.Notifications,
		notificationapp.WithNotifier(notifier),
		notificationapp.WithLogger(logger),
	)
	notifications := notificationobs.New(coreNotifications,
		notificationobs.WithLogger(logger),
		notificationobs.WithTracer(instruments.Tracer("internal.notifications.application")),
		notificationobs.WithMeter(instruments.Meter("internal.notifications.application")),
	)

	return Services{
		Customers:     customers,
		ServiceOrders: orders,
		Notifications: notifications,
		IntakeSteps:   coreOrders,
	}
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.Default()
}
