package memory

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Apurer/repairshop-api/internal/domains/notifications/domain"
	"github.com/Apurer/repairshop-api/internal/domains/notifications/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps notifications in process memory.
type Repository struct {
	mu     sync.RWMutex
	items  map[int64]*domain.Notification
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{items: map[int64]*domain.Notification{}}
}

func (r *Repository) Save(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	if n == nil {
		return nil, errors.New("notification is nil")
	}
	clone := n.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
	} else if _, ok := r.items[clone.ID]; !ok {
		return nil, ports.ErrNotFound
	}
	r.items[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return n.Clone(), nil
}

func (r *Repository) ListUnread(_ context.Context, since time.Time) ([]*domain.Notification, error) {
	r.mu.RLock()
	out := make([]*domain.Notification, 0)
	for _, n := range r.items {
		if !n.Read && !n.CreatedAt.Before(since) {
			out = append(out, n.Clone())
		}
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b *domain.Notification) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (r *Repository) PurgeRead(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, n := range r.items {
		if n.Read && n.CreatedAt.Before(cutoff) {
			delete(r.items, id)
			removed++
		}
	}
	return removed, nil
}
