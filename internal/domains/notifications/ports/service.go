package ports

import (
	"context"
	"time"

	"github.com/Apurer/repairshop-api/internal/domains/notifications/domain"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

// Service exposes the notification use cases.
type Service interface {
	CreateNotification(ctx context.Context, title, message string) response.Response[*domain.Notification]
	GetUnread(ctx context.Context) response.Response[[]*domain.Notification]
	MarkAsRead(ctx context.Context, id int64) response.Response[*domain.Notification]
	Purge(ctx context.Context, olderThan time.Duration) response.Response[int64]
}
