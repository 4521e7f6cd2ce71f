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

	types "github.com/Apurer/repairshop-api/internal/domains/customers/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/customers/domain"
	"github.com/Apurer/repairshop-api/internal/domains/customers/ports"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

const tracerName = "github.com/Apurer/repairshop-api/internal/domains/customers/adapters/observability/service"

// Service decorates the customer service with tracing, logging, and metrics.
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

// New wraps the core customer service.
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

func (s *Service) CreateCustomer(ctx context.Context, cmd types.CreateCustomerCommand) response.Response[*domain.Customer] {
	ctx, span := s.tracer.Start(ctx, "CustomerService.CreateCustomer")
	defer span.End()

	s.logInfo(ctx, "creating customer")
	res := s.inner.CreateCustomer(ctx, cmd)
	span.SetAttributes(attribute.Int("response.status_code", res.StatusCode))
	if !res.IsSuccess {
		s.handleFailure(ctx, span, res.StatusCode, res.Message, "failed to create customer")
		return res
	}
	s.metrics.recordWrite(ctx, "create")
	s.logInfo(ctx, "customer created", slog.Int64("customer.id", res.Data.ID))
	return res
}

func (s *Service) UpdateCustomer(ctx context.Context, cmd types.UpdateCustomerCommand) response.Response[*domain.Customer] {
	ctx, span := s.tracer.Start(ctx, "CustomerService.UpdateCustomer", trace.WithAttributes(attribute.Int64("customer.id", cmd.ID)))
	defer span.End()

	s.logInfo(ctx, "updating customer", slog.Int64("customer.id", cmd.ID))
	res := s.inner.UpdateCustomer(ctx, cmd)
	span.SetAttributes(attribute.Int("response.status_code", res.StatusCode))
	if !res.IsSuccess {
		s.handleFailure(ctx, span, res.StatusCode, res.Message, "failed to update customer", slog.Int64("customer.id", cmd.ID))
		return res
	}
	s.metrics.recordWrite(ctx, "update")
	s.logInfo(ctx, "customer updated", slog.Int64("customer.id", cmd.ID))
	return res
}

func (s *Service) GetCustomerByID(ctx context.Context, id int64) response.Response[*domain.Customer] {
	ctx, span := s.tracer.Start(ctx, "CustomerService.GetCustomerByID", trace.WithAttributes(attribute.Int64("customer.id", id)))
	defer span.End()

	res := s.inner.GetCustomerByID(ctx, id)
	span.SetAttributes(attribute.Int("response.status_code", res.StatusCode))
	if !res.IsSuccess {
		s.handleFailure(ctx, span, res.StatusCode, res.Message, "failed to load customer", slog.Int64("customer.id", id))
	}
	return res
}

func (s *Service) GetAllCustomers(ctx context.Context, page pagination.Request) response.Response[*pagination.Page[*domain.Customer]] {
	ctx, span := s.tracer.Start(ctx, "CustomerService.GetAllCustomers",
		trace.WithAttributes(attribute.Int("page.number", page.Number), attribute.Int("page.size", page.Size)))
	defer span.End()

	res := s.inner.GetAllCustomers(ctx, page)
	span.SetAttributes(attribute.Int("response.status_code", res.StatusCode))
	if !res.IsSuccess {
		s.handleFailure(ctx, span, res.StatusCode, res.Message, "failed to list customers")
		return res
	}
	span.SetAttributes(attribute.Int("customers.total", res.Data.TotalCount))
	return res
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleFailure(ctx context.Context, span trace.Span, status int, message, msg string, attrs ...slog.Attr) {
	s.metrics.recordFailure(ctx, status)
	level := slog.LevelWarn
	if status >= 500 {
		level = slog.LevelError
		span.RecordError(errors.New(message))
		span.SetStatus(codes.Error, message)
	}
	if s.logger == nil {
		return
	}
	attrs = append(attrs, slog.Int("status", status), slog.String("error", message))
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

type serviceMetrics struct {
	writes   metric.Int64Counter
	failures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	writes, _ := m.Int64Counter("customers.service.writes", metric.WithDescription("Number of customer creates and updates"))
	failures, _ := m.Int64Counter("customers.service.failures", metric.WithDescription("Number of customer operations answered with a non-2xx envelope"))
	return serviceMetrics{writes: writes, failures: failures}
}

func (m serviceMetrics) recordWrite(ctx context.Context, op string) {
	if m.writes != nil {
		m.writes.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, status int) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.Int("status", status)))
	}
}

var _ ports.Service = (*Service)(nil)
