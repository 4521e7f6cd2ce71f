package sequences

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	soactivities "github.com/Apurer/repairshop-api/internal/durable/temporal/activities/serviceorders"
	types "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
)

// IntakeResult is what the intake hands back to the caller.
type IntakeResult struct {
	OrderID    int64
	StatusCode int
	Message    string
	PDF        []byte
}

// RunIntakeSequence persists an order, links it to its customer, renders the
// check-in ticket and announces it, in that order.
func RunIntakeSequence(ctx workflow.Context, cmd types.CreateServiceOrderCommand) (*IntakeResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("intake sequence started", "customerId", cmd.CustomerID)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var reg soactivities.Registration
	if err := workflow.ExecuteActivity(ctx, soactivities.RegisterServiceOrderActivityName, cmd).Get(ctx, &reg); err != nil {
		logger.Error("intake sequence failed to register", "customerId", cmd.CustomerID, "error", err)
		return nil, err
	}
	if reg.OrderID == 0 {
		logger.Info("intake sequence rejected", "customerId", cmd.CustomerID, "status", reg.StatusCode)
		return &IntakeResult{StatusCode: reg.StatusCode, Message: reg.Message}, nil
	}

	attach := soactivities.AttachInput{CustomerID: reg.CustomerID, OrderID: reg.OrderID}
	if err := workflow.ExecuteActivity(ctx, soactivities.AttachToCustomerActivityName, attach).Get(ctx, nil); err != nil {
		logger.Error("intake sequence failed to attach", "serviceOrderId", reg.OrderID, "error", err)
		return nil, err
	}

	var pdf []byte
	if err := workflow.ExecuteActivity(ctx, soactivities.RenderCheckInActivityName, reg.OrderID).Get(ctx, &pdf); err != nil {
		logger.Error("intake sequence failed to render", "serviceOrderId", reg.OrderID, "error", err)
		return nil, err
	}

	message := fmt.Sprintf("service order %d created", reg.OrderID)
	if err := workflow.ExecuteActivity(ctx, soactivities.AnnounceActivityName, message).Get(ctx, nil); err != nil {
		logger.Warn("intake sequence failed to announce", "serviceOrderId", reg.OrderID, "error", err)
	}

	logger.Info("intake sequence completed", "serviceOrderId", reg.OrderID)
	return &IntakeResult{OrderID: reg.OrderID, StatusCode: reg.StatusCode, Message: "service order created successfully", PDF: pdf}, nil
}
