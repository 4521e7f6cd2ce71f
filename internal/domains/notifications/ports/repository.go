package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Apurer/repairshop-api/internal/domains/notifications/domain"
)

var ErrNotFound = errors.New("notification not found")

// Repository persists notifications.
type Repository interface {
	Save(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)
	// ListUnread returns unread notifications created at or after since, newest first.
	ListUnread(ctx context.Context, since time.Time) ([]*domain.Notification, error)
	// PurgeRead deletes read notifications created before cutoff and reports how many were removed.
	PurgeRead(ctx context.Context, cutoff time.Time) (int64, error)
}
