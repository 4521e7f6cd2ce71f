package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

func newOrder(t *testing.T) *domain.ServiceOrder {
	t.Helper()
	product, err := domain.NewProduct("", "UN40J5200AG", "32HJ31HJ312", "SEM IMAGEM", "", domain.ProductTV)
	require.NoError(t, err)
	order, err := domain.NewServiceOrder(1, product, domain.EnterpriseParticular)
	require.NoError(t, err)
	return order
}

func TestRepository_SaveClonesAndAssignsIDs(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	saved, err := repo.Save(ctx, newOrder(t))
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID)

	require.NoError(t, saved.AddEstimate("placa", "3 meses", decimal.Zero, decimal.Zero, domain.RepairResultRepair))
	fetched, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEntered, fetched.Status)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_ListQueueFiltersAndCounts(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Save(ctx, newOrder(t))
		require.NoError(t, err)
	}
	estimated := newOrder(t)
	require.NoError(t, estimated.AddEstimate("placa", "3 meses", decimal.Zero, decimal.Zero, domain.RepairResultRepair))
	_, err := repo.Save(ctx, estimated)
	require.NoError(t, err)

	pending, err := repo.ListQueue(ctx, domain.QueuePendingEstimate, pagination.Request{Number: 1, Size: 2})
	require.NoError(t, err)
	assert.Len(t, pending.Items, 2)
	assert.Equal(t, 3, pending.TotalCount)

	count, err := repo.CountQueue(ctx, domain.QueueWaitingResponse)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	empty, err := repo.ListQueue(ctx, domain.QueueDelivered, pagination.Request{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Nil(t, empty.TotalPages)

	_, err = repo.CountQueue(ctx, domain.Queue("archived"))
	assert.ErrorIs(t, err, domain.ErrInvalidQueue)
}
