package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	types "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

// Service orchestrates the service order use cases.
type Service struct {
	repo      ports.Repository
	customers ports.CustomerDirectory
	pdf       ports.PDFGenerator
	notifier  ports.Notifier
	logger    *slog.Logger
	now       func() time.Time
	codes     domain.CodeSource
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

// WithClock fixes the time used to stamp lifecycle dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithCodeSource fixes how security codes are drawn.
func WithCodeSource(src domain.CodeSource) Option {
	return func(s *Service) {
		s.codes = src
	}
}

func NewService(repo ports.Repository, customers ports.CustomerDirectory, pdf ports.PDFGenerator, opts ...Option) *Service {
	s := &Service{repo: repo, customers: customers, pdf: pdf}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateServiceOrder runs the whole intake in process: register, attach to
// the customer, render the check-in ticket and announce.
func (s *Service) CreateServiceOrder(ctx context.Context, cmd types.CreateServiceOrderCommand) response.Response[*types.ServiceOrderDocument] {
	registered := s.RegisterServiceOrder(ctx, cmd)
	if !registered.IsSuccess {
		return response.Fail[*types.ServiceOrderDocument](registered.StatusCode, registered.Message)
	}
	order := registered.Data
	if err := s.AttachToCustomer(ctx, order.CustomerID, order.ID); err != nil {
		return failure[*types.ServiceOrderDocument](err, "attaching the service order to its customer")
	}
	pdf, err := s.RenderCheckIn(ctx, order.ID)
	if err != nil {
		return failure[*types.ServiceOrderDocument](err, "rendering the check-in ticket")
	}
	s.Announce(ctx, createdMessage(order.ID))
	return response.OK(&types.ServiceOrderDocument{Order: order, PDF: pdf}, "service order created successfully")
}

// RegisterServiceOrder validates the command, resolves the customer and persists a new order.
func (s *Service) RegisterServiceOrder(ctx context.Context, cmd types.CreateServiceOrderCommand) response.Response[*domain.ServiceOrder] {
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return failure[*domain.ServiceOrder](err, "creating the service order")
	}
	productType, enterprise, _ := cmd.Parsed()
	customer, err := s.lookupCustomer(ctx, cmd.CustomerID)
	if err != nil {
		return failure[*domain.ServiceOrder](err, "creating the service order")
	}
	product, err := domain.NewProduct(cmd.Brand, cmd.Model, cmd.SerialNumber, cmd.Defect, cmd.Accessories, productType)
	if err != nil {
		return failure[*domain.ServiceOrder](err, "creating the service order")
	}
	order, err := domain.NewServiceOrder(cmd.CustomerID, product, enterprise, s.orderOptions()...)
	if err != nil {
		return failure[*domain.ServiceOrder](err, "creating the service order")
	}
	if err := order.UpdateCustomer(customer); err != nil {
		return failure[*domain.ServiceOrder](err, "creating the service order")
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return failure[*domain.ServiceOrder](err, "creating the service order")
	}
	return response.OK(saved, "service order registered successfully")
}

// AttachToCustomer indexes the order on its customer.
func (s *Service) AttachToCustomer(ctx context.Context, customerID, orderID int64) error {
	if s.customers == nil {
		return errors.New("customer directory not configured")
	}
	return s.customers.AttachOrder(ctx, customerID, orderID)
}

// RenderCheckIn renders the intake ticket of a persisted order.
func (s *Service) RenderCheckIn(ctx context.Context, orderID int64) ([]byte, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.pdf == nil {
		return nil, errors.New("pdf generator not configured")
	}
	return s.pdf.CheckIn(ctx, order)
}

// Announce broadcasts a change message. Failures are logged and dropped.
func (s *Service) Announce(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Broadcast(ctx, message); err != nil && s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "service order change broadcast failed",
			slog.String("message", message), slog.String("error", err.Error()))
	}
}

func (s *Service) UpdateServiceOrder(ctx context.Context, cmd types.UpdateServiceOrderCommand) response.Response[*domain.ServiceOrder] {
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return failure[*domain.ServiceOrder](err, "updating the service order")
	}
	productType, enterprise, _ := cmd.Parsed()
	customer, err := s.lookupCustomer(ctx, cmd.CustomerID)
	if err != nil {
		return failure[*domain.ServiceOrder](err, "updating the service order")
	}
	order, err := s.load(ctx, cmd.ID)
	if err != nil {
		return failure[*domain.ServiceOrder](err, "updating the service order")
	}
	previousCustomer := order.CustomerID
	if err := order.UpdateServiceOrder(customer, cmd.Brand, cmd.Model, cmd.SerialNumber, cmd.Defect, cmd.Accessories, productType, enterprise); err != nil {
		return failure[*domain.ServiceOrder](err, "updating the service order")
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return failure[*domain.ServiceOrder](err, "updating the service order")
	}
	if previousCustomer != saved.CustomerID {
		if err := s.AttachToCustomer(ctx, saved.CustomerID, saved.ID); err != nil {
			return failure[*domain.ServiceOrder](err, "attaching the service order to its customer")
		}
	}
	s.Announce(ctx, updatedMessage(saved.ID))
	return response.OK(saved, "service order updated successfully")
}

func (s *Service) GetServiceOrderByID(ctx context.Context, id int64) response.Response[*domain.ServiceOrder] {
	if id <= 0 {
		return failure[*domain.ServiceOrder](types.ErrInvalidCommand, "loading the service order")
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failure[*domain.ServiceOrder](err, "loading the service order")
	}
	return response.OK(order, "service order retrieved successfully")
}

// GetServiceOrderForCustomer only reveals the order when the security code matches.
func (s *Service) GetServiceOrderForCustomer(ctx context.Context, id int64, code string) response.Response[*domain.ServiceOrder] {
	if id <= 0 {
		return failure[*domain.ServiceOrder](types.ErrInvalidCommand, "loading the service order")
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failure[*domain.ServiceOrder](err, "loading the service order")
	}
	if !order.MatchesSecurityCode(code) {
		return failure[*domain.ServiceOrder](ports.ErrNotFound, "loading the service order")
	}
	return response.OK(order, "service order retrieved successfully")
}

func (s *Service) GetServiceOrders(ctx context.Context, page pagination.Request) response.Response[*pagination.Page[*domain.ServiceOrder]] {
	if err := page.Validate(); err != nil {
		return failure[*pagination.Page[*domain.ServiceOrder]](err, "listing service orders")
	}
	result, err := s.repo.List(ctx, page)
	if err != nil {
		return failure[*pagination.Page[*domain.ServiceOrder]](err, "listing service orders")
	}
	return response.OK(&result, "service orders retrieved successfully")
}

func (s *Service) GetQueue(ctx context.Context, queue string, page pagination.Request) response.Response[*pagination.Page[*domain.ServiceOrder]] {
	q, err := domain.ParseQueue(queue)
	if err != nil {
		return failure[*pagination.Page[*domain.ServiceOrder]](err, "listing the queue")
	}
	if err := page.Validate(); err != nil {
		return failure[*pagination.Page[*domain.ServiceOrder]](err, "listing the queue")
	}
	result, err := s.repo.ListQueue(ctx, q, page)
	if err != nil {
		return failure[*pagination.Page[*domain.ServiceOrder]](err, "listing the queue")
	}
	return response.OK(&result, "service orders retrieved successfully")
}

func (s *Service) AddEstimate(ctx context.Context, cmd types.AddEstimateCommand) response.Response[*domain.ServiceOrder] {
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return failure[*domain.ServiceOrder](err, "adding the estimate")
	}
	return s.transition(ctx, cmd.ID, "adding the estimate", "estimate added successfully", func(o *domain.ServiceOrder) error {
		if err := o.AddEstimate(cmd.Solution, cmd.Guarantee, cmd.PartCost, cmd.LaborCost, domain.RepairResult(cmd.RepairResult)); err != nil {
			return err
		}
		o.AnnotateEstimate(cmd.EstimateMessage)
		return nil
	})
}

func (s *Service) ApproveEstimate(ctx context.Context, id int64) response.Response[*domain.ServiceOrder] {
	return s.transition(ctx, id, "approving the estimate", "estimate approved successfully", (*domain.ServiceOrder).ApproveEstimate)
}

func (s *Service) RejectEstimate(ctx context.Context, id int64) response.Response[*domain.ServiceOrder] {
	return s.transition(ctx, id, "rejecting the estimate", "estimate rejected successfully", (*domain.ServiceOrder).RejectEstimate)
}

func (s *Service) AddPurchasedPart(ctx context.Context, id int64) response.Response[*domain.ServiceOrder] {
	return s.transition(ctx, id, "registering the purchased part", "purchased part registered successfully", func(o *domain.ServiceOrder) error {
		o.AddPurchasedPart()
		return nil
	})
}

func (s *Service) ExecuteRepair(ctx context.Context, id int64) response.Response[*domain.ServiceOrder] {
	return s.transition(ctx, id, "executing the repair", "repair executed successfully", (*domain.ServiceOrder).ExecuteRepair)
}

// AddDelivery closes the order and renders the check-out ticket.
func (s *Service) AddDelivery(ctx context.Context, id int64) response.Response[*types.ServiceOrderDocument] {
	delivered := s.transition(ctx, id, "registering the delivery", "delivery registered successfully", func(o *domain.ServiceOrder) error {
		o.AddDelivery()
		return nil
	})
	if !delivered.IsSuccess {
		return response.Fail[*types.ServiceOrderDocument](delivered.StatusCode, delivered.Message)
	}
	if s.pdf == nil {
		return failure[*types.ServiceOrderDocument](errors.New("pdf generator not configured"), "rendering the check-out ticket")
	}
	pdf, err := s.pdf.CheckOut(ctx, delivered.Data)
	if err != nil {
		return failure[*types.ServiceOrderDocument](err, "rendering the check-out ticket")
	}
	return response.OK(&types.ServiceOrderDocument{Order: delivered.Data, PDF: pdf}, delivered.Message)
}

// RegeneratePDF renders the ticket that matches the order's current state.
func (s *Service) RegeneratePDF(ctx context.Context, id int64) response.Response[[]byte] {
	if id <= 0 {
		return failure[[]byte](types.ErrInvalidCommand, "regenerating the ticket")
	}
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return failure[[]byte](err, "regenerating the ticket")
	}
	if s.pdf == nil {
		return failure[[]byte](errors.New("pdf generator not configured"), "regenerating the ticket")
	}
	pdf, err := s.pdf.Regenerate(ctx, order)
	if err != nil {
		return failure[[]byte](err, "regenerating the ticket")
	}
	return response.OK(pdf, "ticket regenerated successfully")
}

func (s *Service) SetLocation(ctx context.Context, cmd types.SetLocationCommand) response.Response[*domain.ServiceOrder] {
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return failure[*domain.ServiceOrder](err, "setting the location")
	}
	return s.transition(ctx, cmd.ID, "setting the location", "location updated successfully", func(o *domain.ServiceOrder) error {
		o.AddLocation(cmd.Location)
		return nil
	})
}

// transition loads an order, applies one mutation, saves and announces it.
func (s *Service) transition(ctx context.Context, id int64, action, success string, mutate func(*domain.ServiceOrder) error) response.Response[*domain.ServiceOrder] {
	if id <= 0 {
		return failure[*domain.ServiceOrder](types.ErrInvalidCommand, action)
	}
	order, err := s.load(ctx, id)
	if err != nil {
		return failure[*domain.ServiceOrder](err, action)
	}
	if err := mutate(order); err != nil {
		return failure[*domain.ServiceOrder](err, action)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return failure[*domain.ServiceOrder](err, action)
	}
	s.Announce(ctx, updatedMessage(saved.ID))
	return response.OK(saved, success)
}

func (s *Service) load(ctx context.Context, id int64) (*domain.ServiceOrder, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.now != nil {
		order.SetClock(s.now)
	}
	return order, nil
}

func (s *Service) lookupCustomer(ctx context.Context, id int64) (domain.CustomerRef, error) {
	if s.customers == nil {
		return domain.CustomerRef{}, errors.New("customer directory not configured")
	}
	return s.customers.Lookup(ctx, id)
}

func (s *Service) orderOptions() []domain.Option {
	var opts []domain.Option
	if s.now != nil {
		opts = append(opts, domain.WithClock(s.now))
	}
	if s.codes != nil {
		opts = append(opts, domain.WithCodeSource(s.codes))
	}
	return opts
}

func createdMessage(id int64) string { return fmt.Sprintf("service order %d created", id) }
func updatedMessage(id int64) string { return fmt.Sprintf("service order %d updated", id) }

var (
	_ ports.Service     = (*Service)(nil)
	_ ports.IntakeSteps = (*Service)(nil)
)
