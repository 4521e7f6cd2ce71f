package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	types "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	"github.com/Apurer/repairshop-api/internal/durable/temporal/sequences"
	soworkflows "github.com/Apurer/repairshop-api/internal/durable/temporal/workflows/serviceorders"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

var (
	_ ports.IntakeOrchestrator = (*TemporalIntakeWorkflows)(nil)
	_ ports.IntakeOrchestrator = (*InlineIntakeWorkflows)(nil)
)

type orderReader interface {
	GetServiceOrderByID(ctx context.Context, id int64) response.Response[*domain.ServiceOrder]
}

// TemporalIntakeWorkflows starts service order intakes on a Temporal cluster.
type TemporalIntakeWorkflows struct {
	client    client.Client
	orders    orderReader
	taskQueue string
}

// NewTemporalIntakeWorkflows wires a Temporal client into the orchestrator.
// The reader loads the persisted order once the workflow completes.
func NewTemporalIntakeWorkflows(c client.Client, orders orderReader) *TemporalIntakeWorkflows {
	return &TemporalIntakeWorkflows{client: c, orders: orders, taskQueue: soworkflows.IntakeTaskQueue}
}

// CreateServiceOrder runs the intake workflow and waits for its result.
func (o *TemporalIntakeWorkflows) CreateServiceOrder(ctx context.Context, cmd types.CreateServiceOrderCommand) response.Response[*types.ServiceOrderDocument] {
	if o == nil || o.client == nil || o.orders == nil {
		return response.Internal[*types.ServiceOrderDocument]("temporal intake workflows not configured")
	}
	traceComponent := workflowTraceID(ctx)
	workflowID := buildIntakeWorkflowID(cmd, traceComponent)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		soworkflows.IntakeWorkflow,
		soworkflows.IntakeWorkflowInput{Command: cmd, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return response.Internal[*types.ServiceOrderDocument](fmt.Sprintf("unexpected error while starting the intake workflow: %v", err))
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var result sequences.IntakeResult
	if err := run.Get(ctx, &result); err != nil {
		return response.Internal[*types.ServiceOrderDocument](fmt.Sprintf("unexpected error while running the intake workflow: %v", err))
	}
	if result.OrderID == 0 {
		return response.Fail[*types.ServiceOrderDocument](result.StatusCode, result.Message)
	}
	loaded := o.orders.GetServiceOrderByID(ctx, result.OrderID)
	if !loaded.IsSuccess {
		return response.Fail[*types.ServiceOrderDocument](loaded.StatusCode, loaded.Message)
	}
	return response.OK(&types.ServiceOrderDocument{Order: loaded.Data, PDF: result.PDF}, result.Message)
}

// InlineIntakeWorkflows runs the intake in process, useful for tests or dev fallbacks.
type InlineIntakeWorkflows struct {
	service ports.Service
}

func NewInlineIntakeWorkflows(service ports.Service) *InlineIntakeWorkflows {
	return &InlineIntakeWorkflows{service: service}
}

// CreateServiceOrder delegates to the application service without durable orchestration.
func (o *InlineIntakeWorkflows) CreateServiceOrder(ctx context.Context, cmd types.CreateServiceOrderCommand) response.Response[*types.ServiceOrderDocument] {
	if o == nil || o.service == nil {
		return response.Internal[*types.ServiceOrderDocument]("inline intake workflows not configured")
	}
	return o.service.CreateServiceOrder(ctx, cmd)
}

// buildIntakeWorkflowID keys the workflow on the idempotency key when one is
// given so retries attach to the same run.
func buildIntakeWorkflowID(cmd types.CreateServiceOrderCommand, traceComponent string) string {
	if cmd.IdempotencyKey != "" {
		return fmt.Sprintf("service-order-intake-idem-%s", hashIdempotencyKey(cmd.IdempotencyKey))
	}
	if traceComponent == "" {
		traceComponent = "fallback-" + uuid.NewString()
	}
	return fmt.Sprintf("service-order-intake-%d-%s", cmd.CustomerID, traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16])
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
