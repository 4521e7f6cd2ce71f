package ports

import (
	"context"
	"errors"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

var (
	ErrNotFound         = errors.New("service order not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// Repository persists service orders. Save inserts when the id is zero.
type Repository interface {
	Save(ctx context.Context, order *domain.ServiceOrder) (*domain.ServiceOrder, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceOrder, error)
	List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.ServiceOrder], error)
	ListQueue(ctx context.Context, queue domain.Queue, page pagination.Request) (pagination.Page[*domain.ServiceOrder], error)
	CountQueue(ctx context.Context, queue domain.Queue) (int, error)
}

// CustomerDirectory resolves customers owned by the customers context.
type CustomerDirectory interface {
	// Lookup returns ErrCustomerNotFound for an unknown id.
	Lookup(ctx context.Context, customerID int64) (domain.CustomerRef, error)
	AttachOrder(ctx context.Context, customerID, orderID int64) error
}

// PDFGenerator renders the tickets handed to the customer.
type PDFGenerator interface {
	CheckIn(ctx context.Context, order *domain.ServiceOrder) ([]byte, error)
	CheckOut(ctx context.Context, order *domain.ServiceOrder) ([]byte, error)
	Regenerate(ctx context.Context, order *domain.ServiceOrder) ([]byte, error)
}

// Notifier broadcasts a change message to connected listeners. Best effort.
type Notifier interface {
	Broadcast(ctx context.Context, message string) error
}
