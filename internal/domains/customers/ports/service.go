package ports

import (
	"context"

	types "github.com/Apurer/repairshop-api/internal/domains/customers/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/customers/domain"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

// Service exposes the customer use cases. Every outcome is an envelope.
type Service interface {
	CreateCustomer(ctx context.Context, cmd types.CreateCustomerCommand) response.Response[*domain.Customer]
	UpdateCustomer(ctx context.Context, cmd types.UpdateCustomerCommand) response.Response[*domain.Customer]
	GetCustomerByID(ctx context.Context, id int64) response.Response[*domain.Customer]
	GetAllCustomers(ctx context.Context, page pagination.Request) response.Response[*pagination.Page[*domain.Customer]]
}
