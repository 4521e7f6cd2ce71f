package ports

import (
	"context"
	"errors"

	"github.com/Apurer/repairshop-api/internal/domains/customers/domain"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

var ErrNotFound = errors.New("customer not found")

// Repository persists customers. Save inserts when the id is zero.
type Repository interface {
	Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	// AttachOrder appends to the order index atomically. Repeats are no-ops.
	AttachOrder(ctx context.Context, customerID, orderID int64) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Customer], error)
	Count(ctx context.Context) (int, error)
}

// Notifier broadcasts a change message to connected listeners. Best effort.
type Notifier interface {
	Broadcast(ctx context.Context, message string) error
}
