package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory service order persistence adapter.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.ServiceOrder
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.ServiceOrder{}}
}

func (r *Repository) Save(_ context.Context, order *domain.ServiceOrder) (*domain.ServiceOrder, error) {
	if order == nil {
		return nil, errors.New("service order is nil")
	}
	clone := order.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if _, ok := r.orders[clone.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	r.orders[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.ServiceOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

// List returns orders ordered by id.
func (r *Repository) List(_ context.Context, page pagination.Request) (pagination.Page[*domain.ServiceOrder], error) {
	if err := page.Validate(); err != nil {
		return pagination.Page[*domain.ServiceOrder]{}, err
	}
	return pagination.Slice(r.filter(nil), page), nil
}

func (r *Repository) ListQueue(_ context.Context, queue domain.Queue, page pagination.Request) (pagination.Page[*domain.ServiceOrder], error) {
	if err := page.Validate(); err != nil {
		return pagination.Page[*domain.ServiceOrder]{}, err
	}
	if _, err := domain.ParseQueue(string(queue)); err != nil {
		return pagination.Page[*domain.ServiceOrder]{}, err
	}
	return pagination.Slice(r.filter(queue.Matches), page), nil
}

func (r *Repository) CountQueue(_ context.Context, queue domain.Queue) (int, error) {
	if _, err := domain.ParseQueue(string(queue)); err != nil {
		return 0, err
	}
	return len(r.filter(queue.Matches)), nil
}

func (r *Repository) filter(match func(*domain.ServiceOrder) bool) []*domain.ServiceOrder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.orders))
	for id, order := range r.orders {
		if match == nil || match(order) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	out := make([]*domain.ServiceOrder, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.orders[id].Clone())
	}
	return out
}
