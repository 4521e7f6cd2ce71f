package serviceorders

import (
	"context"
	"errors"
	"net/http"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/application"
	types "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
)

const (
	// RegisterServiceOrderActivityName validates and persists a new service order.
	RegisterServiceOrderActivityName = "serviceorders.activities.RegisterServiceOrder"
	// AttachToCustomerActivityName indexes the order on its customer.
	AttachToCustomerActivityName = "serviceorders.activities.AttachToCustomer"
	// RenderCheckInActivityName renders the intake ticket.
	RenderCheckInActivityName = "serviceorders.activities.RenderCheckIn"
	// AnnounceActivityName broadcasts the change to dashboards.
	AnnounceActivityName = "serviceorders.activities.Announce"
)

// Registration is the outcome of the register step. A non-2xx status is a
// business rejection and ends the workflow without retries.
type Registration struct {
	OrderID    int64
	CustomerID int64
	StatusCode int
	Message    string
}

// AttachInput identifies the customer and order to link.
type AttachInput struct {
	CustomerID int64
	OrderID    int64
}

// registrationKeyPrefix keeps workflow-owned keys apart from client keys.
const registrationKeyPrefix = "workflow/"

// Activities groups the intake steps executed by the worker. When keys is
// set, RegisterServiceOrder records the order it opened under the workflow id
// so a retried attempt returns that order instead of inserting another.
type Activities struct {
	steps ports.IntakeSteps
	keys  ports.IdempotencyStore
}

func NewActivities(steps ports.IntakeSteps, keys ports.IdempotencyStore) *Activities {
	return &Activities{steps: steps, keys: keys}
}

func (a *Activities) RegisterServiceOrder(ctx context.Context, cmd types.CreateServiceOrderCommand) (Registration, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		logger.Error("service order intake activities not initialized")
		return Registration{}, errors.New("service order intake activities not initialized")
	}
	logger.Info("RegisterServiceOrder activity started", "customerId", cmd.CustomerID)

	key := registrationKeyPrefix + activity.GetInfo(ctx).WorkflowExecution.ID
	if a.keys != nil {
		hash, err := application.FingerprintCreate(cmd)
		if err != nil {
			return Registration{}, err
		}
		// attempts of one activity never overlap, so a pending key only
		// means an earlier attempt gave up before recording its order
		record, _, err := a.keys.Reserve(ctx, key, hash)
		if err != nil {
			logger.Error("RegisterServiceOrder activity could not reserve key", "key", key, "error", err)
			return Registration{}, err
		}
		if !record.Pending() {
			logger.Info("RegisterServiceOrder activity replayed", "serviceOrderId", record.OrderID)
			return Registration{
				OrderID:    record.OrderID,
				CustomerID: cmd.CustomerID,
				StatusCode: http.StatusOK,
				Message:    "service order registered successfully",
			}, nil
		}
	}

	res := a.steps.RegisterServiceOrder(ctx, cmd)
	if !res.IsSuccess {
		a.release(ctx, key)
	}
	if res.StatusCode >= http.StatusInternalServerError {
		logger.Error("RegisterServiceOrder activity failed", "customerId", cmd.CustomerID, "error", res.Message)
		return Registration{}, errors.New(res.Message)
	}
	out := Registration{CustomerID: cmd.CustomerID, StatusCode: res.StatusCode, Message: res.Message}
	if res.IsSuccess && res.Data != nil {
		out.OrderID = res.Data.ID
		if a.keys != nil {
			if err := a.keys.Complete(ctx, key, out.OrderID); err != nil {
				logger.Warn("RegisterServiceOrder activity could not record order", "key", key, "serviceOrderId", out.OrderID, "error", err)
			}
		}
	}
	logger.Info("RegisterServiceOrder activity completed", "serviceOrderId", out.OrderID, "status", out.StatusCode)
	return out, nil
}

func (a *Activities) release(ctx context.Context, key string) {
	if a.keys == nil {
		return
	}
	if err := a.keys.Release(ctx, key); err != nil {
		activity.GetLogger(ctx).Warn("RegisterServiceOrder activity could not release key", "key", key, "error", err)
	}
}

func (a *Activities) AttachToCustomer(ctx context.Context, input AttachInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		return errors.New("service order intake activities not initialized")
	}
	if err := a.steps.AttachToCustomer(ctx, input.CustomerID, input.OrderID); err != nil {
		logger.Error("AttachToCustomer activity failed", "customerId", input.CustomerID, "serviceOrderId", input.OrderID, "error", err)
		return err
	}
	logger.Info("AttachToCustomer activity completed", "customerId", input.CustomerID, "serviceOrderId", input.OrderID)
	return nil
}

func (a *Activities) RenderCheckIn(ctx context.Context, orderID int64) ([]byte, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		return nil, errors.New("service order intake activities not initialized")
	}
	pdf, err := a.steps.RenderCheckIn(ctx, orderID)
	if err != nil {
		logger.Error("RenderCheckIn activity failed", "serviceOrderId", orderID, "error", err)
		return nil, err
	}
	logger.Info("RenderCheckIn activity completed", "serviceOrderId", orderID, "bytes", len(pdf))
	return pdf, nil
}

func (a *Activities) Announce(ctx context.Context, message string) error {
	if a == nil || a.steps == nil {
		return errors.New("service order intake activities not initialized")
	}
	a.steps.Announce(ctx, message)
	return nil
}
