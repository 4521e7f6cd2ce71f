package observability

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/repairshop-api/internal/domains/notifications/domain"
	"github.com/Apurer/repairshop-api/internal/domains/notifications/ports"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

const tracerName = "github.com/Apurer/repairshop-api/internal/domains/notifications/adapters/observability/service"

// Service decorates the notification service with tracing, logging, and metrics.
type Service struct {
	inner  ports.Service
	tracer trace.Tracer
	logger *slog.Logger
	purged metric.Int64Counter
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		if m == nil {
			return
		}
		s.purged, _ = m.Int64Counter("notifications.purged", metric.WithDescription("Number of read notifications deleted by purges"))
	}
}

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{inner: inner}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateNotification(ctx context.Context, title, message string) response.Response[*domain.Notification] {
	ctx, span := s.tracer.Start(ctx, "NotificationService.CreateNotification")
	defer span.End()

	res := s.inner.CreateNotification(ctx, title, message)
	s.finish(ctx, span, res.StatusCode, res.Message, "create notification")
	return res
}

func (s *Service) GetUnread(ctx context.Context) response.Response[[]*domain.Notification] {
	ctx, span := s.tracer.Start(ctx, "NotificationService.GetUnread")
	defer span.End()

	res := s.inner.GetUnread(ctx)
	span.SetAttributes(attribute.Int("notifications.unread", len(res.Data)))
	s.finish(ctx, span, res.StatusCode, res.Message, "list unread notifications")
	return res
}

func (s *Service) MarkAsRead(ctx context.Context, id int64) response.Response[*domain.Notification] {
	ctx, span := s.tracer.Start(ctx, "NotificationService.MarkAsRead", trace.WithAttributes(attribute.Int64("notification.id", id)))
	defer span.End()

	res := s.inner.MarkAsRead(ctx, id)
	s.finish(ctx, span, res.StatusCode, res.Message, "mark notification as read", slog.Int64("notification.id", id))
	return res
}

func (s *Service) Purge(ctx context.Context, olderThan time.Duration) response.Response[int64] {
	ctx, span := s.tracer.Start(ctx, "NotificationService.Purge", trace.WithAttributes(attribute.String("purge.older_than", olderThan.String())))
	defer span.End()

	res := s.inner.Purge(ctx, olderThan)
	s.finish(ctx, span, res.StatusCode, res.Message, "purge notifications")
	if res.IsSuccess {
		if s.purged != nil {
			s.purged.Add(ctx, res.Data)
		}
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelInfo, "notifications purged", slog.Int64("removed", res.Data))
		}
	}
	return res
}

func (s *Service) finish(ctx context.Context, span trace.Span, status int, message, op string, attrs ...slog.Attr) {
	span.SetAttributes(attribute.Int("response.status_code", status))
	if status < 300 {
		return
	}
	level := slog.LevelWarn
	if status >= 500 {
		level = slog.LevelError
		span.RecordError(errors.New(message))
		span.SetStatus(codes.Error, message)
	}
	if s.logger != nil {
		attrs = append(attrs, slog.Int("status", status), slog.String("error", message))
		s.logger.LogAttrs(ctx, level, "failed to "+op, attrs...)
	}
}

var _ ports.Service = (*Service)(nil)
