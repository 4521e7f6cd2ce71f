package application

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

type fakeOrderRepo struct {
	orders map[int64]*domain.ServiceOrder
	nextID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*domain.ServiceOrder{}}
}

func (f *fakeOrderRepo) Save(_ context.Context, o *domain.ServiceOrder) (*domain.ServiceOrder, error) {
	clone := o.Clone()
	if clone.ID == 0 {
		f.nextID++
		clone.ID = f.nextID
	}
	f.orders[clone.ID] = clone
	return clone.Clone(), nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*domain.ServiceOrder, error) {
	if o, ok := f.orders[id]; ok {
		return o.Clone(), nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeOrderRepo) sorted(match func(*domain.ServiceOrder) bool) []*domain.ServiceOrder {
	var out []*domain.ServiceOrder
	for _, o := range f.orders {
		if match == nil || match(o) {
			out = append(out, o.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeOrderRepo) List(_ context.Context, page pagination.Request) (pagination.Page[*domain.ServiceOrder], error) {
	return pagination.Slice(f.sorted(nil), page), nil
}

func (f *fakeOrderRepo) ListQueue(_ context.Context, q domain.Queue, page pagination.Request) (pagination.Page[*domain.ServiceOrder], error) {
	return pagination.Slice(f.sorted(q.Matches), page), nil
}

func (f *fakeOrderRepo) CountQueue(_ context.Context, q domain.Queue) (int, error) {
	return len(f.sorted(q.Matches)), nil
}

type fakeDirectory struct {
	customers map[int64]domain.CustomerRef
	attached  map[int64][]int64
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		customers: map[int64]domain.CustomerRef{
			1: {ID: 1, Name: "MARIA", Phone: "41 99999-0000"},
			2: {ID: 2, Name: "JOAO", Phone: "41 98888-0000"},
		},
		attached: map[int64][]int64{},
	}
}

func (d *fakeDirectory) Lookup(_ context.Context, id int64) (domain.CustomerRef, error) {
	ref, ok := d.customers[id]
	if !ok {
		return domain.CustomerRef{}, ports.ErrCustomerNotFound
	}
	return ref, nil
}

func (d *fakeDirectory) AttachOrder(_ context.Context, customerID, orderID int64) error {
	if _, ok := d.customers[customerID]; !ok {
		return ports.ErrCustomerNotFound
	}
	d.attached[customerID] = append(d.attached[customerID], orderID)
	return nil
}

type fakePDF struct{ err error }

func (p fakePDF) CheckIn(_ context.Context, o *domain.ServiceOrder) ([]byte, error) {
	return []byte("check-in " + o.SecurityCode), p.err
}

func (p fakePDF) CheckOut(_ context.Context, o *domain.ServiceOrder) ([]byte, error) {
	return []byte("check-out " + o.SecurityCode), p.err
}

func (p fakePDF) Regenerate(ctx context.Context, o *domain.ServiceOrder) ([]byte, error) {
	if o.Status == domain.StatusDelivered {
		return p.CheckOut(ctx, o)
	}
	return p.CheckIn(ctx, o)
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Broadcast(_ context.Context, message string) error {
	n.messages = append(n.messages, message)
	return errors.New("no listeners")
}

var testNow = time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	repo      *fakeOrderRepo
	directory *fakeDirectory
	notifier  *recordingNotifier
}

func newFixture() fixture {
	f := fixture{repo: newFakeOrderRepo(), directory: newFakeDirectory(), notifier: &recordingNotifier{}}
	f.svc = NewService(f.repo, f.directory, fakePDF{},
		WithNotifier(f.notifier),
		WithClock(func() time.Time { return testNow }),
		WithCodeSource(rand.New(rand.NewPCG(3, 4))))
	return f
}

func createCommand() types.CreateServiceOrderCommand {
	return types.CreateServiceOrderCommand{
		CustomerID: 1,
		ProductFields: types.ProductFields{
			Brand:        "samsung",
			Model:        " un40j5200ag ",
			SerialNumber: "32hj31hj312",
			Defect:       "Sem imagem",
			Accessories:  "controle",
			ProductType:  "TV",
			Enterprise:   "Particular",
		},
	}
}

func mustCreate(t *testing.T, f fixture) *domain.ServiceOrder {
	t.Helper()
	res := f.svc.CreateServiceOrder(context.Background(), createCommand())
	require.True(t, res.IsSuccess, res.Message)
	return res.Data.Order
}

func TestCreateServiceOrder_RegistersAttachesAndRenders(t *testing.T) {
	f := newFixture()

	res := f.svc.CreateServiceOrder(context.Background(), createCommand())
	require.True(t, res.IsSuccess, res.Message)
	require.Equal(t, http.StatusOK, res.StatusCode)

	order := res.Data.Order
	assert.Equal(t, "UN40J5200AG", order.Product.Model.String())
	assert.Equal(t, "SEM IMAGEM", order.Product.Defect.String())
	assert.Equal(t, domain.ProductTV, order.Product.Type)
	assert.Equal(t, domain.EnterpriseParticular, order.Enterprise)
	assert.Equal(t, "MARIA", order.Customer.Name)
	assert.Equal(t, testNow, order.EntryDate)
	assert.Equal(t, "check-in "+order.SecurityCode, string(res.Data.PDF))
	assert.Equal(t, []int64{order.ID}, f.directory.attached[1])
	assert.Equal(t, []string{"service order 1 created"}, f.notifier.messages)
}

func TestCreateServiceOrder_UnknownCustomerIsNotFound(t *testing.T) {
	f := newFixture()
	cmd := createCommand()
	cmd.CustomerID = 77

	res := f.svc.CreateServiceOrder(context.Background(), cmd)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Empty(t, f.repo.orders)
}

func TestCreateServiceOrder_ValidationErrors(t *testing.T) {
	f := newFixture()

	cases := map[string]func(*types.CreateServiceOrderCommand){
		"missing model":    func(c *types.CreateServiceOrderCommand) { c.Model = " " },
		"missing serial":   func(c *types.CreateServiceOrderCommand) { c.SerialNumber = "" },
		"bad product type": func(c *types.CreateServiceOrderCommand) { c.ProductType = "fridge" },
		"bad enterprise":   func(c *types.CreateServiceOrderCommand) { c.Enterprise = "acme" },
		"missing customer": func(c *types.CreateServiceOrderCommand) { c.CustomerID = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cmd := createCommand()
			mutate(&cmd)
			res := f.svc.CreateServiceOrder(context.Background(), cmd)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			assert.False(t, res.IsSuccess)
		})
	}
}

func TestCreateServiceOrder_PDFFailureIsInternal(t *testing.T) {
	f := newFixture()
	f.svc.pdf = fakePDF{err: errors.New("font missing")}

	res := f.svc.CreateServiceOrder(context.Background(), createCommand())
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, res.Message, "font missing")
}

func TestLifecycle_EstimateApproveRepairDeliver(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order := mustCreate(t, f)

	est := f.svc.AddEstimate(ctx, types.AddEstimateCommand{
		ID:              order.ID,
		Solution:        "placa",
		Guarantee:       "3 meses",
		PartCost:        decimal.NewFromInt(200),
		LaborCost:       decimal.NewFromInt(300),
		RepairResult:    "repair",
		EstimateMessage: " troca da placa principal ",
	})
	require.True(t, est.IsSuccess, est.Message)
	assert.Equal(t, "500", est.Data.TotalAmount().String())
	assert.Equal(t, domain.StatusEvaluated, est.Data.Status)
	assert.Equal(t, domain.RepairStatusWaiting, est.Data.RepairStatus)
	assert.Equal(t, "troca da placa principal", est.Data.EstimateMessage)

	approved := f.svc.ApproveEstimate(ctx, order.ID)
	require.True(t, approved.IsSuccess, approved.Message)
	assert.Equal(t, domain.RepairStatusApproved, approved.Data.RepairStatus)

	repaired := f.svc.ExecuteRepair(ctx, order.ID)
	require.True(t, repaired.IsSuccess, repaired.Message)
	assert.Equal(t, domain.StatusRepaired, repaired.Data.Status)

	pickup := f.svc.GetQueue(ctx, "waiting-pickup", pagination.Request{Number: 1, Size: 10})
	require.True(t, pickup.IsSuccess)
	assert.Equal(t, 1, pickup.Data.TotalCount)

	delivered := f.svc.AddDelivery(ctx, order.ID)
	require.True(t, delivered.IsSuccess, delivered.Message)
	assert.Equal(t, domain.StatusDelivered, delivered.Data.Order.Status)
	assert.Equal(t, "check-out "+order.SecurityCode, string(delivered.Data.PDF))

	pdf := f.svc.RegeneratePDF(ctx, order.ID)
	require.True(t, pdf.IsSuccess)
	assert.Equal(t, "check-out "+order.SecurityCode, string(pdf.Data))
}

func TestTransitions_PreconditionsAreBadRequests(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order := mustCreate(t, f)

	assert.Equal(t, http.StatusBadRequest, f.svc.ApproveEstimate(ctx, order.ID).StatusCode)
	assert.Equal(t, http.StatusBadRequest, f.svc.RejectEstimate(ctx, order.ID).StatusCode)
	assert.Equal(t, http.StatusBadRequest, f.svc.ExecuteRepair(ctx, order.ID).StatusCode)
	assert.Equal(t, http.StatusNotFound, f.svc.ApproveEstimate(ctx, 404).StatusCode)
	assert.Equal(t, http.StatusBadRequest, f.svc.ApproveEstimate(ctx, 0).StatusCode)

	res := f.svc.AddEstimate(ctx, types.AddEstimateCommand{
		ID: order.ID, Solution: "placa", Guarantee: "3 meses", PartCost: decimal.NewFromInt(-1), RepairResult: "repair",
	})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestAddPurchasedPart_MovesToWaitingParts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order := mustCreate(t, f)
	require.True(t, f.svc.AddEstimate(ctx, types.AddEstimateCommand{
		ID: order.ID, Solution: "placa", Guarantee: "3 meses", RepairResult: "repair",
	}).IsSuccess)
	require.True(t, f.svc.ApproveEstimate(ctx, order.ID).IsSuccess)

	res := f.svc.AddPurchasedPart(ctx, order.ID)
	require.True(t, res.IsSuccess)
	require.NotNil(t, res.Data.PurchasePartDate)
	assert.Equal(t, testNow, *res.Data.PurchasePartDate)

	parts := f.svc.GetQueue(ctx, "waiting-parts", pagination.Request{Number: 1, Size: 10})
	require.True(t, parts.IsSuccess)
	assert.Len(t, parts.Data.Items, 1)
}

func TestGetServiceOrderForCustomer_MatchesCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order := mustCreate(t, f)

	res := f.svc.GetServiceOrderForCustomer(ctx, order.ID, order.SecurityCode)
	require.True(t, res.IsSuccess)
	assert.Equal(t, order.ID, res.Data.ID)

	wrong := f.svc.GetServiceOrderForCustomer(ctx, order.ID, "A0A0")
	if order.SecurityCode == "A0A0" {
		wrong = f.svc.GetServiceOrderForCustomer(ctx, order.ID, "B1B1")
	}
	assert.Equal(t, http.StatusNotFound, wrong.StatusCode)
	assert.Nil(t, wrong.Data)
}

func TestUpdateServiceOrder_MovesToAnotherCustomer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	order := mustCreate(t, f)

	res := f.svc.UpdateServiceOrder(ctx, types.UpdateServiceOrderCommand{
		ID:         order.ID,
		CustomerID: 2,
		ProductFields: types.ProductFields{
			Model: "42lb", SerialNumber: "sn1", ProductType: "sound_box", Enterprise: "copel",
		},
	})
	require.True(t, res.IsSuccess, res.Message)
	assert.Equal(t, int64(2), res.Data.CustomerID)
	assert.Equal(t, "JOAO", res.Data.Customer.Name)
	assert.Equal(t, "42LB", res.Data.Product.Model.String())
	assert.Equal(t, order.SecurityCode, res.Data.SecurityCode)
	assert.Equal(t, []int64{order.ID}, f.directory.attached[2])

	missingCustomer := f.svc.UpdateServiceOrder(ctx, types.UpdateServiceOrderCommand{
		ID: order.ID, CustomerID: 9,
		ProductFields: types.ProductFields{Model: "X", SerialNumber: "Y", ProductType: "tv", Enterprise: "sis"},
	})
	assert.Equal(t, http.StatusNotFound, missingCustomer.StatusCode)

	missingOrder := f.svc.UpdateServiceOrder(ctx, types.UpdateServiceOrderCommand{
		ID: 999, CustomerID: 1,
		ProductFields: types.ProductFields{Model: "X", SerialNumber: "Y", ProductType: "tv", Enterprise: "sis"},
	})
	assert.Equal(t, http.StatusNotFound, missingOrder.StatusCode)
}

func TestSetLocation(t *testing.T) {
	f := newFixture()
	order := mustCreate(t, f)

	res := f.svc.SetLocation(context.Background(), types.SetLocationCommand{ID: order.ID, Location: " bancada 2 "})
	require.True(t, res.IsSuccess)
	assert.Equal(t, "BANCADA 2", res.Data.Product.Location)

	empty := f.svc.SetLocation(context.Background(), types.SetLocationCommand{ID: order.ID})
	assert.Equal(t, http.StatusBadRequest, empty.StatusCode)
}

func TestGetServiceOrders_Paginates(t *testing.T) {
	f := newFixture()
	for i := 0; i < 3; i++ {
		mustCreate(t, f)
	}

	res := f.svc.GetServiceOrders(context.Background(), pagination.Request{Number: 2, Size: 2})
	require.True(t, res.IsSuccess)
	assert.Len(t, res.Data.Items, 1)
	assert.Equal(t, 3, res.Data.TotalCount)

	bad := f.svc.GetServiceOrders(context.Background(), pagination.Request{Number: 1, Size: 0})
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	unknown := f.svc.GetQueue(context.Background(), "archived", pagination.Request{Number: 1, Size: 10})
	assert.Equal(t, http.StatusBadRequest, unknown.StatusCode)
}
