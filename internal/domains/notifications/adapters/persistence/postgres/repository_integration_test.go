//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/repairshop-api/internal/domains/notifications/domain"
	"github.com/Apurer/repairshop-api/internal/domains/notifications/ports"
	"github.com/Apurer/repairshop-api/internal/platform/migrations"
)

func setupNotificationPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func TestNotificationRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db, cleanup := setupNotificationPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	older, err := domain.NewNotification("Older", "first", now.Add(-2*time.Hour))
	require.NoError(t, err)
	newer, err := domain.NewNotification("Newer", "second", now.Add(-time.Hour))
	require.NoError(t, err)
	stale, err := domain.NewNotification("Stale", "third", now.Add(-6*24*time.Hour))
	require.NoError(t, err)

	older, err = repo.Save(ctx, older)
	require.NoError(t, err)
	newer, err = repo.Save(ctx, newer)
	require.NoError(t, err)
	stale, err = repo.Save(ctx, stale)
	require.NoError(t, err)

	t.Run("ListUnread orders newest first inside the window", func(t *testing.T) {
		items, err := repo.ListUnread(ctx, now.Add(-domain.UnreadWindow))
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, newer.ID, items[0].ID)
		assert.Equal(t, older.ID, items[1].ID)
	})

	t.Run("Save marks as read", func(t *testing.T) {
		older.MarkAsRead()
		_, err := repo.Save(ctx, older)
		require.NoError(t, err)
		got, err := repo.GetByID(ctx, older.ID)
		require.NoError(t, err)
		assert.True(t, got.Read)
	})

	t.Run("Save unknown id", func(t *testing.T) {
		_, err := repo.Save(ctx, &domain.Notification{ID: 9999, Title: "x", Message: "y", CreatedAt: now})
		assert.ErrorIs(t, err, ports.ErrNotFound)
	})

	t.Run("PurgeRead only removes read notifications before the cutoff", func(t *testing.T) {
		stale.MarkAsRead()
		_, err := repo.Save(ctx, stale)
		require.NoError(t, err)

		removed, err := repo.PurgeRead(ctx, now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		_, err = repo.GetByID(ctx, stale.ID)
		assert.ErrorIs(t, err, ports.ErrNotFound)
		_, err = repo.GetByID(ctx, older.ID)
		assert.NoError(t, err)
	})
}
