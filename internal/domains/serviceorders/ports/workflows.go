package ports

import (
	"context"

	types "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

// IntakeOrchestrator runs the service order intake, durably when a workflow engine is configured.
type IntakeOrchestrator interface {
	CreateServiceOrder(ctx context.Context, cmd types.CreateServiceOrderCommand) response.Response[*types.ServiceOrderDocument]
}
