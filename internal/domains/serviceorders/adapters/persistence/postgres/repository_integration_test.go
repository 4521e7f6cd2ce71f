//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	"github.com/Apurer/repairshop-api/internal/platform/migrations"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

func setupServiceOrderPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("repairshop_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newOrder(t *testing.T) *domain.ServiceOrder {
	t.Helper()
	product, err := domain.NewProduct("SAMSUNG", "UN40J5200AG", "32HJ31HJ312", "SEM IMAGEM", "CONTROLE", domain.ProductTV)
	require.NoError(t, err)
	order, err := domain.NewServiceOrder(1, product, domain.EnterpriseParticular)
	require.NoError(t, err)
	require.NoError(t, order.UpdateCustomer(domain.CustomerRef{ID: 1, Name: "MARIA", Phone: "41 9999"}))
	return order
}

func TestRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupServiceOrderPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order := newOrder(t)
	saved, err := repo.Save(ctx, order)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)
	assert.Equal(t, order.SecurityCode, saved.SecurityCode)
	assert.Equal(t, "MARIA", saved.Customer.Name)
	assert.Equal(t, "SAMSUNG", saved.Product.Brand.String())

	_, err = repo.GetByID(ctx, saved.ID+100)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UpdatePersistsEstimateAndDates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupServiceOrderPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Save(ctx, newOrder(t))
	require.NoError(t, err)
	require.NoError(t, saved.AddEstimate("placa", "3 meses", decimal.RequireFromString("200.50"), decimal.NewFromInt(300), domain.RepairResultRepair))
	saved.AnnotateEstimate("troca da placa")
	require.NoError(t, saved.ApproveEstimate())
	saved.AddLocation("A1")

	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, "placa", updated.Solution.String())
	assert.Equal(t, "troca da placa", updated.EstimateMessage)
	assert.True(t, updated.TotalAmount().Equal(decimal.RequireFromString("500.50")))
	assert.Equal(t, domain.RepairStatusApproved, updated.RepairStatus)
	assert.NotNil(t, updated.InspectionDate)
	assert.NotNil(t, updated.ResponseDate)
	assert.Equal(t, "A1", updated.Product.Location)
}

func TestRepository_QueueScopesMatchDomainPredicates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupServiceOrderPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	fresh := newOrder(t)
	waiting := newOrder(t)
	require.NoError(t, waiting.AddEstimate("placa", "3 meses", decimal.Zero, decimal.Zero, domain.RepairResultRepair))
	rejected := newOrder(t)
	require.NoError(t, rejected.AddEstimate("placa", "3 meses", decimal.Zero, decimal.Zero, domain.RepairResultRepair))
	require.NoError(t, rejected.RejectEstimate())
	parts := newOrder(t)
	require.NoError(t, parts.AddEstimate("placa", "3 meses", decimal.Zero, decimal.Zero, domain.RepairResultRepair))
	require.NoError(t, parts.ApproveEstimate())
	parts.AddPurchasedPart()
	delivered := newOrder(t)
	delivered.AddDelivery()

	var saved []*domain.ServiceOrder
	for _, o := range []*domain.ServiceOrder{fresh, waiting, rejected, parts, delivered} {
		s, err := repo.Save(ctx, o)
		require.NoError(t, err)
		saved = append(saved, s)
	}

	for _, q := range domain.Queues() {
		count, err := repo.CountQueue(ctx, q)
		require.NoError(t, err)
		page, err := repo.ListQueue(ctx, q, pagination.Request{Number: 1, Size: 50})
		require.NoError(t, err)

		expected := 0
		for _, o := range saved {
			if q.Matches(o) {
				expected++
			}
		}
		assert.Equal(t, expected, count, string(q))
		assert.Len(t, page.Items, expected, string(q))
	}

	all, err := repo.List(ctx, pagination.Request{Number: 1, Size: 2})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, 5, all.TotalCount)
}
