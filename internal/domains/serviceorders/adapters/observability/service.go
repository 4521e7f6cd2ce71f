package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	types "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

const tracerName = "github.com/Apurer/repairshop-api/internal/domains/serviceorders/adapters/observability/service"

// Service decorates the service order service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
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
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core service order service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
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

// observe runs one call inside a span and records its envelope outcome.
func observe[T any](ctx context.Context, s *Service, op string, attrs []attribute.KeyValue, call func(context.Context) response.Response[T]) response.Response[T] {
	ctx, span := s.tracer.Start(ctx, "ServiceOrderService."+op, trace.WithAttributes(attrs...))
	defer span.End()

	res := call(ctx)
	span.SetAttributes(attribute.Int("response.status_code", res.StatusCode))
	logAttrs := make([]slog.Attr, 0, len(attrs)+2)
	for _, kv := range attrs {
		logAttrs = append(logAttrs, slog.Any(string(kv.Key), kv.Value.AsInterface()))
	}
	logAttrs = append(logAttrs, slog.Int("status", res.StatusCode))
	if !res.IsSuccess {
		s.metrics.recordFailure(ctx, op, res.StatusCode)
		level := slog.LevelWarn
		if res.StatusCode >= 500 {
			level = slog.LevelError
			span.RecordError(errors.New(res.Message))
			span.SetStatus(codes.Error, res.Message)
		}
		s.log(ctx, level, op+" failed", append(logAttrs, slog.String("error", res.Message))...)
		return res
	}
	s.metrics.recordCall(ctx, op)
	s.log(ctx, slog.LevelInfo, op+" completed", logAttrs...)
	return res
}

func orderID(id int64) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.Int64("service_order.id", id)}
}

func (s *Service) CreateServiceOrder(ctx context.Context, cmd types.CreateServiceOrderCommand) response.Response[*types.ServiceOrderDocument] {
	attrs := []attribute.KeyValue{
		attribute.Int64("customer.id", cmd.CustomerID),
		attribute.String("service_order.enterprise", cmd.Enterprise),
	}
	res := observe(ctx, s, "CreateServiceOrder", attrs, func(ctx context.Context) response.Response[*types.ServiceOrderDocument] {
		return s.inner.CreateServiceOrder(ctx, cmd)
	})
	if res.IsSuccess && res.Data != nil {
		s.metrics.recordTicket(ctx, "check_in")
	}
	return res
}

func (s *Service) UpdateServiceOrder(ctx context.Context, cmd types.UpdateServiceOrderCommand) response.Response[*domain.ServiceOrder] {
	return observe(ctx, s, "UpdateServiceOrder", orderID(cmd.ID), func(ctx context.Context) response.Response[*domain.ServiceOrder] {
		return s.inner.UpdateServiceOrder(ctx, cmd)
	})
}

func (s *Service) GetServiceOrderByID(ctx context.Context, id int64) response.Response[*domain.ServiceOrder] {
	return observe(ctx, s, "GetServiceOrderByID", orderID(id), func(ctx context.Context) response.Response[*domain.ServiceOrder] {
		return s.inner.GetServiceOrderByID(ctx, id)
	})
}

func (s *Service) GetServiceOrderForCustomer(ctx context.Context, id int64, code string) response.Response[*domain.ServiceOrder] {
	return observe(ctx, s, "GetServiceOrderForCustomer", orderID(id), func(ctx context.Context) response.Response[*domain.ServiceOrder] {
		return s.inner.GetServiceOrderForCustomer(ctx, id, code)
	})
}

func (s *Service) GetServiceOrders(ctx context.Context, page pagination.Request) response.Response[*pagination.Page[*domain.ServiceOrder]] {
	attrs := []attribute.KeyValue{attribute.Int("page.number", page.Number), attribute.Int("page.size", page.Size)}
	return observe(ctx, s, "GetServiceOrders", attrs, func(ctx context.Context) response.Response[*pagination.Page[*domain.ServiceOrder]] {
		return s.inner.GetServiceOrders(ctx, page)
	})
}

func (s *Service) GetQueue(ctx context.Context, queue string, page pagination.Request) response.Response[*pagination.Page[*domain.ServiceOrder]] {
	attrs := []attribute.KeyValue{
		attribute.String("queue", queue),
		attribute.Int("page.number", page.Number),
		attribute.Int("page.size", page.Size),
	}
	return observe(ctx, s, "GetQueue", attrs, func(ctx context.Context) response.Response[*pagination.Page[*domain.ServiceOrder]] {
		return s.inner.GetQueue(ctx, queue, page)
	})
}

func (s *Service) AddEstimate(ctx context.Context, cmd types.AddEstimateCommand) response.Response[*domain.ServiceOrder] {
	return observe(ctx, s, "AddEstimate", orderID(cmd.ID), func(ctx context.Context) response.Response[*domain.ServiceOrder] {
		return s.inner.AddEstimate(ctx, cmd)
	})
}

func (s *Service) ApproveEstimate(ctx context.Context, id int64) response.Response[*domain.ServiceOrder] {
	return observe(ctx, s, "ApproveEstimate", orderID(id), func(ctx context.Context) response.Response[*domain.ServiceOrder] {
		return s.inner.ApproveEstimate(ctx, id)
	})
}

func (s *Service) RejectEstimate(ctx context.Context, id int64) response.Response[*domain.ServiceOrder] {
	return observe(ctx, s, "RejectEstimate", orderID(id), func(ctx context.Context) response.Response[*domain.ServiceOrder] {
		return s.inner.RejectEstimate(ctx, id)
	})
}

func (s *Service) AddPurchasedPart(ctx context.Context, id int64) response.Response[*domain.ServiceOrder] {
	return observe(ctx, s, "AddPurchasedPart", orderID(id), func(ctx context.Context) response.Response[*domain.ServiceOrder] {
		return s.inner.AddPurchasedPart(ctx, id)
	})
}

func (s *Service) ExecuteRepair(ctx context.Context, id int64) response.Response[*domain.ServiceOrder] {
	return observe(ctx, s, "ExecuteRepair", orderID(id), func(ctx context.Context) response.Response[*domain.ServiceOrder] {
		return s.inner.ExecuteRepair(ctx, id)
	})
}

func (s *Service) AddDelivery(ctx context.Context, id int64) response.Response[*types.ServiceOrderDocument] {
	res := observe(ctx, s, "AddDelivery", orderID(id), func(ctx context.Context) response.Response[*types.ServiceOrderDocument] {
		return s.inner.AddDelivery(ctx, id)
	})
	if res.IsSuccess {
		s.metrics.recordTicket(ctx, "check_out")
	}
	return res
}

func (s *Service) RegeneratePDF(ctx context.Context, id int64) response.Response[[]byte] {
	res := observe(ctx, s, "RegeneratePDF", orderID(id), func(ctx context.Context) response.Response[[]byte] {
		return s.inner.RegeneratePDF(ctx, id)
	})
	if res.IsSuccess {
		s.metrics.recordTicket(ctx, "regenerated")
	}
	return res
}

func (s *Service) SetLocation(ctx context.Context, cmd types.SetLocationCommand) response.Response[*domain.ServiceOrder] {
	return observe(ctx, s, "SetLocation", orderID(cmd.ID), func(ctx context.Context) response.Response[*domain.ServiceOrder] {
		return s.inner.SetLocation(ctx, cmd)
	})
}

func (s *Service) log(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

type serviceMetrics struct {
	calls    metric.Int64Counter
	failures metric.Int64Counter
	tickets  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	calls, _ := m.Int64Counter("serviceorders.service.calls", metric.WithDescription("Number of successful service order operations"))
	failures, _ := m.Int64Counter("serviceorders.service.failures", metric.WithDescription("Number of service order operations answered with a non-2xx envelope"))
	tickets, _ := m.Int64Counter("serviceorders.service.tickets_rendered", metric.WithDescription("Number of PDF tickets rendered"))
	return serviceMetrics{calls: calls, failures: failures, tickets: tickets}
}

func (m serviceMetrics) recordCall(ctx context.Context, op string) {
	if m.calls != nil {
		m.calls.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, op string, status int) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op), attribute.Int("status", status)))
	}
}

func (m serviceMetrics) recordTicket(ctx context.Context, kind string) {
	if m.tickets != nil {
		m.tickets.Add(ctx, 1, metric.WithAttributes(attribute.String("ticket", kind)))
	}
}

var _ ports.Service = (*Service)(nil)
