package application

import (
	"context"
	"log/slog"

	types "github.com/Apurer/repairshop-api/internal/domains/customers/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/customers/domain"
	"github.com/Apurer/repairshop-api/internal/domains/customers/ports"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

// Service orchestrates the customer use cases.
type Service struct {
	repo     ports.Repository
	notifier ports.Notifier
	logger   *slog.Logger
}

type Option func(*Service)

// WithNotifier broadcasts a message after each successful write.
func WithNotifier(n ports.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLogger reports notifier failures, which never fail the request.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) CreateCustomer(ctx context.Context, cmd types.CreateCustomerCommand) response.Response[*domain.Customer] {
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return failure[*domain.Customer](err, "creating the customer")
	}
	customer, err := buildCustomer(0, cmd.CustomerFields)
	if err != nil {
		return failure[*domain.Customer](err, "creating the customer")
	}
	saved, err := s.repo.Save(ctx, customer)
	if err != nil {
		return failure[*domain.Customer](err, "creating the customer")
	}
	s.notify(ctx, "customer created")
	return response.OK(saved, "customer created successfully")
}

func (s *Service) UpdateCustomer(ctx context.Context, cmd types.UpdateCustomerCommand) response.Response[*domain.Customer] {
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return failure[*domain.Customer](err, "updating the customer")
	}
	existing, err := s.repo.GetByID(ctx, cmd.ID)
	if err != nil {
		return failure[*domain.Customer](err, "updating the customer")
	}
	if err := applyFields(existing, cmd.CustomerFields); err != nil {
		return failure[*domain.Customer](err, "updating the customer")
	}
	saved, err := s.repo.Save(ctx, existing)
	if err != nil {
		return failure[*domain.Customer](err, "updating the customer")
	}
	s.notify(ctx, "customer updated")
	return response.OK(saved, "customer updated successfully")
}

func (s *Service) GetCustomerByID(ctx context.Context, id int64) response.Response[*domain.Customer] {
	if id <= 0 {
		return failure[*domain.Customer](types.ErrInvalidCommand, "loading the customer")
	}
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failure[*domain.Customer](err, "loading the customer")
	}
	return response.OK(customer, "customer retrieved successfully")
}

func (s *Service) GetAllCustomers(ctx context.Context, page pagination.Request) response.Response[*pagination.Page[*domain.Customer]] {
	if err := page.Validate(); err != nil {
		return failure[*pagination.Page[*domain.Customer]](err, "listing customers")
	}
	result, err := s.repo.List(ctx, page)
	if err != nil {
		return failure[*pagination.Page[*domain.Customer]](err, "listing customers")
	}
	return response.OK(&result, "customers retrieved successfully")
}

func (s *Service) notify(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Broadcast(ctx, message); err != nil && s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "customer change broadcast failed",
			slog.String("message", message), slog.String("error", err.Error()))
	}
}

func buildCustomer(id int64, f types.CustomerFields) (*domain.Customer, error) {
	addr, err := domain.NewAddress(f.Street, f.Neighborhood, f.City, f.Number, f.ZipCode, f.State)
	if err != nil {
		return nil, err
	}
	return domain.NewCustomer(id, f.Name, addr, f.Phone, f.Phone2, f.Email)
}

func applyFields(c *domain.Customer, f types.CustomerFields) error {
	if err := c.UpdateName(f.Name); err != nil {
		return err
	}
	addr, err := domain.NewAddress(f.Street, f.Neighborhood, f.City, f.Number, f.ZipCode, f.State)
	if err != nil {
		return err
	}
	c.UpdateAddress(addr)
	if err := c.UpdatePhone(f.Phone, f.Phone2); err != nil {
		return err
	}
	return c.UpdateEmail(f.Email)
}

var _ ports.Service = (*Service)(nil)
