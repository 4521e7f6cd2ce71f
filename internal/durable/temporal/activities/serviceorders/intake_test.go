package serviceorders

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/adapters/memory"
	types "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

type countingSteps struct {
	registered int
	reject     bool
}

func (c *countingSteps) RegisterServiceOrder(_ context.Context, cmd types.CreateServiceOrderCommand) response.Response[*domain.ServiceOrder] {
	if c.reject {
		return response.NotFound[*domain.ServiceOrder]("customer not found")
	}
	c.registered++
	return response.OK(&domain.ServiceOrder{ID: int64(100 + c.registered), CustomerID: cmd.CustomerID}, "service order registered successfully")
}

func (c *countingSteps) AttachToCustomer(context.Context, int64, int64) error { return nil }

func (c *countingSteps) RenderCheckIn(context.Context, int64) ([]byte, error) { return nil, nil }

func (c *countingSteps) Announce(context.Context, string) {}

func registerOnce(t *testing.T, env *testsuite.TestActivityEnvironment, cmd types.CreateServiceOrderCommand) Registration {
	t.Helper()
	val, err := env.ExecuteActivity(RegisterServiceOrderActivityName, cmd)
	require.NoError(t, err)
	var reg Registration
	require.NoError(t, val.Get(&reg))
	return reg
}

func newActivityEnv(acts *Activities) *testsuite.TestActivityEnvironment {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestActivityEnvironment()
	env.RegisterActivityWithOptions(acts.RegisterServiceOrder, activity.RegisterOptions{Name: RegisterServiceOrderActivityName})
	return env
}

func TestRegisterServiceOrder_RetryReturnsRecordedOrder(t *testing.T) {
	steps := &countingSteps{}
	env := newActivityEnv(NewActivities(steps, memory.NewIdempotencyStore()))
	cmd := types.CreateServiceOrderCommand{CustomerID: 4}

	first := registerOnce(t, env, cmd)
	retried := registerOnce(t, env, cmd)

	assert.Equal(t, int64(101), first.OrderID)
	assert.Equal(t, first.OrderID, retried.OrderID)
	assert.Equal(t, http.StatusOK, retried.StatusCode)
	assert.Equal(t, int64(4), retried.CustomerID)
	assert.Equal(t, 1, steps.registered)
}

func TestRegisterServiceOrder_RejectionFreesKey(t *testing.T) {
	steps := &countingSteps{reject: true}
	env := newActivityEnv(NewActivities(steps, memory.NewIdempotencyStore()))
	cmd := types.CreateServiceOrderCommand{CustomerID: 99}

	rejected := registerOnce(t, env, cmd)
	assert.Equal(t, http.StatusNotFound, rejected.StatusCode)
	assert.Zero(t, rejected.OrderID)

	steps.reject = false
	accepted := registerOnce(t, env, cmd)
	assert.Equal(t, int64(101), accepted.OrderID)
	assert.Equal(t, 1, steps.registered)
}

func TestRegisterServiceOrder_WithoutKeysAlwaysRegisters(t *testing.T) {
	steps := &countingSteps{}
	env := newActivityEnv(NewActivities(steps, nil))
	cmd := types.CreateServiceOrderCommand{CustomerID: 4}

	registerOnce(t, env, cmd)
	registerOnce(t, env, cmd)
	assert.Equal(t, 2, steps.registered)
}
