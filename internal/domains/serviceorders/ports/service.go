package ports

import (
	"context"

	types "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

// Service exposes the service order use cases. Every outcome is an envelope.
type Service interface {
	CreateServiceOrder(ctx context.Context, cmd types.CreateServiceOrderCommand) response.Response[*types.ServiceOrderDocument]
	UpdateServiceOrder(ctx context.Context, cmd types.UpdateServiceOrderCommand) response.Response[*domain.ServiceOrder]
	GetServiceOrderByID(ctx context.Context, id int64) response.Response[*domain.ServiceOrder]
	GetServiceOrderForCustomer(ctx context.Context, id int64, code string) response.Response[*domain.ServiceOrder]
	GetServiceOrders(ctx context.Context, page pagination.Request) response.Response[*pagination.Page[*domain.ServiceOrder]]
	GetQueue(ctx context.Context, queue string, page pagination.Request) response.Response[*pagination.Page[*domain.ServiceOrder]]
	AddEstimate(ctx context.Context, cmd types.AddEstimateCommand) response.Response[*domain.ServiceOrder]
	ApproveEstimate(ctx context.Context, id int64) response.Response[*domain.ServiceOrder]
	RejectEstimate(ctx context.Context, id int64) response.Response[*domain.ServiceOrder]
	AddPurchasedPart(ctx context.Context, id int64) response.Response[*domain.ServiceOrder]
	ExecuteRepair(ctx context.Context, id int64) response.Response[*domain.ServiceOrder]
	AddDelivery(ctx context.Context, id int64) response.Response[*types.ServiceOrderDocument]
	RegeneratePDF(ctx context.Context, id int64) response.Response[[]byte]
	SetLocation(ctx context.Context, cmd types.SetLocationCommand) response.Response[*domain.ServiceOrder]
}

// IntakeSteps are the individual stages of CreateServiceOrder, run one by one
// by durable workflows.
type IntakeSteps interface {
	RegisterServiceOrder(ctx context.Context, cmd types.CreateServiceOrderCommand) response.Response[*domain.ServiceOrder]
	AttachToCustomer(ctx context.Context, customerID, orderID int64) error
	RenderCheckIn(ctx context.Context, orderID int64) ([]byte, error)
	Announce(ctx context.Context, message string)
}
