package serviceorders

import (
	"go.temporal.io/sdk/workflow"

	types "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
	"github.com/Apurer/repairshop-api/internal/durable/temporal/sequences"
)

const (
	// IntakeWorkflowName is the public identifier for registering the workflow.
	IntakeWorkflowName = "serviceorders.workflows.Intake"
	// IntakeTaskQueue is the queue consumed by the worker processing intake workflows.
	IntakeTaskQueue = "SERVICE_ORDER_INTAKE"
)

// IntakeWorkflowInput captures the payload required to open a service order.
type IntakeWorkflowInput struct {
	Command types.CreateServiceOrderCommand
	TraceID string
}

// IntakeWorkflow orchestrates the activities that open a service order.
func IntakeWorkflow(ctx workflow.Context, input IntakeWorkflowInput) (*sequences.IntakeResult, error) {
	logger := workflow.GetLogger(ctx)
	customerID := input.Command.CustomerID
	logger.Info("IntakeWorkflow started", withTraceID(input.TraceID, "customerId", customerID)...)
	result, err := sequences.RunIntakeSequence(ctx, input.Command)
	if err != nil {
		logger.Error("IntakeWorkflow failed", withTraceID(input.TraceID, "customerId", customerID, "error", err)...)
		return nil, err
	}
	logger.Info("IntakeWorkflow completed", withTraceID(input.TraceID, "serviceOrderId", result.OrderID, "status", result.StatusCode)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
