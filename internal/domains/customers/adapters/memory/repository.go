package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Apurer/repairshop-api/internal/domains/customers/domain"
	"github.com/Apurer/repairshop-api/internal/domains/customers/ports"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory customer persistence adapter.
type Repository struct {
	mu        sync.RWMutex
	customers map[int64]*domain.Customer
	nextID    int64
}

func NewRepository() *Repository {
	return &Repository{customers: map[int64]*domain.Customer{}}
}

func (r *Repository) Save(_ context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	clone := customer.Clone()
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else {
		existing, ok := r.customers[clone.ID]
		if !ok {
			return nil, ports.ErrNotFound
		}
		// the index is append-only; keep links attached since the caller read
		for _, id := range existing.ServiceOrderIDs() {
			clone.AddServiceOrder(id)
		}
	}
	r.customers[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) AttachOrder(_ context.Context, customerID, orderID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[customerID]
	if !ok {
		return ports.ErrNotFound
	}
	customer.AddServiceOrder(orderID)
	return nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return customer.Clone(), nil
}

// List returns customers ordered by name, ties broken by id.
func (r *Repository) List(_ context.Context, page pagination.Request) (pagination.Page[*domain.Customer], error) {
	if err := page.Validate(); err != nil {
		return pagination.Page[*domain.Customer]{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		all = append(all, c.Clone())
	}
	slices.SortFunc(all, func(a, b *domain.Customer) int {
		return cmp.Or(cmp.Compare(a.Name.String(), b.Name.String()), cmp.Compare(a.ID, b.ID))
	})
	return pagination.Slice(all, page), nil
}

func (r *Repository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.customers), nil
}
