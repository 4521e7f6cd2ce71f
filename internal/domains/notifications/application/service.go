package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Apurer/repairshop-api/internal/domains/notifications/domain"
	"github.com/Apurer/repairshop-api/internal/domains/notifications/ports"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

// Notifier broadcasts a change message. Best effort.
type Notifier interface {
	Broadcast(ctx context.Context, message string) error
}

// Service orchestrates notification use cases.
type Service struct {
	repo     ports.Repository
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock fixes the time used for creation stamps and the unread window.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

var _ ports.Service = (*Service)(nil)

func (s *Service) CreateNotification(ctx context.Context, title, message string) response.Response[*domain.Notification] {
	n, err := domain.NewNotification(title, message, s.now())
	if err != nil {
		return failure[*domain.Notification](err, "creating the notification")
	}
	saved, err := s.repo.Save(ctx, n)
	if err != nil {
		return failure[*domain.Notification](err, "creating the notification")
	}
	s.announce(ctx, fmt.Sprintf("notification %d created", saved.ID))
	return response.Created(saved, "notification created successfully")
}

// GetUnread lists unread notifications from the last five days, newest first.
func (s *Service) GetUnread(ctx context.Context) response.Response[[]*domain.Notification] {
	items, err := s.repo.ListUnread(ctx, s.now().Add(-domain.UnreadWindow))
	if err != nil {
		return failure[[]*domain.Notification](err, "listing unread notifications")
	}
	if items == nil {
		items = []*domain.Notification{}
	}
	return response.OK(items, "unread notifications retrieved successfully")
}

func (s *Service) MarkAsRead(ctx context.Context, id int64) response.Response[*domain.Notification] {
	if id <= 0 {
		return failure[*domain.Notification](ErrInvalidID, "marking the notification as read")
	}
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failure[*domain.Notification](err, "marking the notification as read")
	}
	n.MarkAsRead()
	saved, err := s.repo.Save(ctx, n)
	if err != nil {
		return failure[*domain.Notification](err, "marking the notification as read")
	}
	return response.OK(saved, "notification marked as read")
}

// Purge deletes read notifications created more than olderThan ago.
func (s *Service) Purge(ctx context.Context, olderThan time.Duration) response.Response[int64] {
	if olderThan <= 0 {
		return failure[int64](ErrInvalidAge, "purging notifications")
	}
	removed, err := s.repo.PurgeRead(ctx, s.now().Add(-olderThan))
	if err != nil {
		return failure[int64](err, "purging notifications")
	}
	return response.OK(removed, fmt.Sprintf("%d notifications purged", removed))
}

func (s *Service) announce(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Broadcast(ctx, message); err != nil && s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "notification broadcast failed",
			slog.String("message", message), slog.String("error", err.Error()))
	}
}
