// Package dashboard keeps a cached view of every service order queue and
// refreshes it whenever a change is broadcast.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

// DefaultPageSize bounds how many orders of each queue are cached.
const DefaultPageSize = 500

// QueueLister is the read side the dashboard needs from the service order store.
type QueueLister interface {
	ListQueue(ctx context.Context, queue domain.Queue, page pagination.Request) (pagination.Page[*domain.ServiceOrder], error)
}

// QueueView is the first page of a queue plus its total size.
type QueueView struct {
	Queue      domain.Queue
	Orders     []*domain.ServiceOrder
	TotalCount int
}

// ErrNotReady is returned while no board has been built yet.
var ErrNotReady = errors.New("dashboard not built yet")

// Board is one consistent snapshot of all queues, in domain.Queues() order.
type Board struct {
	Queues      []QueueView
	RefreshedAt time.Time
}

type Dashboard struct {
	orders   QueueLister
	pageSize int
	logger   *slog.Logger
	now      func() time.Time

	inflight *semaphore.Weighted
	mu       sync.RWMutex
	board    Board
}

type Option func(*Dashboard)

func WithPageSize(n int) Option {
	return func(d *Dashboard) {
		if n > 0 {
			d.pageSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dashboard) {
		d.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) {
		d.now = now
	}
}

func New(orders QueueLister, opts ...Option) *Dashboard {
	d := &Dashboard{
		orders:   orders,
		pageSize: DefaultPageSize,
		now:      time.Now,
		inflight: semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Snapshot returns the cached board, computing it first if it was never built.
// When another refresh is already building the first board it waits for that
// one instead of answering with an empty board.
func (d *Dashboard) Snapshot(ctx context.Context) (Board, error) {
	if board, ok := d.cached(); ok {
		return board, nil
	}
	ran, err := d.Refresh(ctx)
	if err != nil {
		return Board{}, err
	}
	if !ran {
		if err := d.inflight.Acquire(ctx, 1); err != nil {
			return Board{}, fmt.Errorf("%w: %w", ErrNotReady, err)
		}
		d.inflight.Release(1)
	}
	if board, ok := d.cached(); ok {
		return board, nil
	}
	return Board{}, ErrNotReady
}

func (d *Dashboard) cached() (Board, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.board, !d.board.RefreshedAt.IsZero()
}

// Refresh recomputes every queue concurrently. A call that overlaps a refresh
// already in flight returns false without doing any work.
func (d *Dashboard) Refresh(ctx context.Context) (bool, error) {
	if !d.inflight.TryAcquire(1) {
		return false, nil
	}
	defer d.inflight.Release(1)

	queues := domain.Queues()
	views := make([]QueueView, len(queues))
	page := pagination.Request{Number: 1, Size: d.pageSize}
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queues {
		g.Go(func() error {
			res, err := d.orders.ListQueue(gctx, q, page)
			if err != nil {
				return err
			}
			views[i] = QueueView{Queue: q, Orders: res.Items, TotalCount: res.TotalCount}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return true, err
	}

	d.mu.Lock()
	d.board = Board{Queues: views, RefreshedAt: d.now().UTC()}
	d.mu.Unlock()
	return true, nil
}

// Run refreshes the board for every event until the channel closes or ctx ends.
func (d *Dashboard) Run(ctx context.Context, events <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			ran, err := d.Refresh(ctx)
			if err != nil && d.logger != nil {
				d.logger.LogAttrs(ctx, slog.LevelError, "dashboard refresh failed",
					slog.String("trigger", msg), slog.String("error", err.Error()))
			}
			if !ran && d.logger != nil {
				d.logger.LogAttrs(ctx, slog.LevelDebug, "dashboard refresh coalesced", slog.String("trigger", msg))
			}
		}
	}
}
