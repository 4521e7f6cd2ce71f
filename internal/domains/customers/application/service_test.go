package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/Apurer/repairshop-api/internal/domains/customers/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/customers/domain"
	"github.com/Apurer/repairshop-api/internal/domains/customers/ports"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

type fakeCustomerRepo struct {
	customers map[int64]*domain.Customer
	nextID    int64
	saveErr   error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[int64]*domain.Customer{}}
}

func (f *fakeCustomerRepo) Save(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	clone := c.Clone()
	if clone.ID == 0 {
		f.nextID++
		clone.ID = f.nextID
	}
	f.customers[clone.ID] = clone
	return clone.Clone(), nil
}

func (f *fakeCustomerRepo) AttachOrder(_ context.Context, customerID, orderID int64) error {
	c, ok := f.customers[customerID]
	if !ok {
		return ports.ErrNotFound
	}
	c.AddServiceOrder(orderID)
	return nil
}

func (f *fakeCustomerRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	if c, ok := f.customers[id]; ok {
		return c.Clone(), nil
	}
	return nil, ports.ErrNotFound
}

func (f *fakeCustomerRepo) List(_ context.Context, page pagination.Request) (pagination.Page[*domain.Customer], error) {
	all := make([]*domain.Customer, 0, len(f.customers))
	for id := int64(1); id <= f.nextID; id++ {
		if c, ok := f.customers[id]; ok {
			all = append(all, c.Clone())
		}
	}
	return pagination.Slice(all, page), nil
}

func (f *fakeCustomerRepo) Count(_ context.Context) (int, error) {
	return len(f.customers), nil
}

type recordingNotifier struct {
	messages []string
	err      error
}

func (n *recordingNotifier) Broadcast(_ context.Context, message string) error {
	n.messages = append(n.messages, message)
	return n.err
}

func validCreate(name string) types.CreateCustomerCommand {
	return types.CreateCustomerCommand{CustomerFields: types.CustomerFields{
		Name:         name,
		Street:       "rua das flores",
		Neighborhood: "centro",
		City:         "curitiba",
		Number:       "100",
		ZipCode:      "80000-000",
		State:        "pr",
		Phone:        "41 99999-0000",
		Email:        "Cliente@Example.com",
	}}
}

func TestCreateCustomer_NormalizesAndPersists(t *testing.T) {
	repo := newFakeCustomerRepo()
	notifier := &recordingNotifier{}
	svc := NewService(repo, WithNotifier(notifier))

	res := svc.CreateCustomer(context.Background(), validCreate("  maria silva "))
	require.True(t, res.IsSuccess)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotNil(t, res.Data)
	assert.Equal(t, int64(1), res.Data.ID)
	assert.Equal(t, "MARIA SILVA", res.Data.Name.String())
	assert.Equal(t, "PR", res.Data.Address.State())
	assert.Equal(t, "cliente@example.com", res.Data.Email.String())
	assert.Len(t, notifier.messages, 1)
}

func TestCreateCustomer_MissingPhoneIsBadRequest(t *testing.T) {
	svc := NewService(newFakeCustomerRepo())
	cmd := validCreate("joao")
	cmd.Phone = "   "

	res := svc.CreateCustomer(context.Background(), cmd)
	assert.False(t, res.IsSuccess)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, res.Message, "validation error")
}

func TestCreateCustomer_InvalidEmailIsBadRequest(t *testing.T) {
	svc := NewService(newFakeCustomerRepo())
	cmd := validCreate("joao")
	cmd.Email = "not-an-email"

	res := svc.CreateCustomer(context.Background(), cmd)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestCreateCustomer_RepositoryFailureIsInternal(t *testing.T) {
	repo := newFakeCustomerRepo()
	repo.saveErr = errors.New("connection reset")
	svc := NewService(repo)

	res := svc.CreateCustomer(context.Background(), validCreate("joao"))
	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, res.Message, "connection reset")
}

func TestCreateCustomer_NotifierFailureIsIgnored(t *testing.T) {
	svc := NewService(newFakeCustomerRepo(), WithNotifier(&recordingNotifier{err: errors.New("hub closed")}))

	res := svc.CreateCustomer(context.Background(), validCreate("joao"))
	assert.True(t, res.IsSuccess)
}

func TestUpdateCustomer_ReplacesFields(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewService(repo)
	created := svc.CreateCustomer(context.Background(), validCreate("joao"))
	require.True(t, created.IsSuccess)

	cmd := types.UpdateCustomerCommand{ID: created.Data.ID, CustomerFields: validCreate("joao pereira").CustomerFields}
	cmd.Phone2 = "41 3333-0000"
	cmd.Email = ""

	res := svc.UpdateCustomer(context.Background(), cmd)
	require.True(t, res.IsSuccess)
	assert.Equal(t, "JOAO PEREIRA", res.Data.Name.String())
	assert.Equal(t, "41 3333-0000", res.Data.Phone2.String())
	assert.True(t, res.Data.Email.IsZero())
}

func TestUpdateCustomer_UnknownIDIsNotFound(t *testing.T) {
	svc := NewService(newFakeCustomerRepo())
	cmd := types.UpdateCustomerCommand{ID: 42, CustomerFields: validCreate("joao").CustomerFields}

	res := svc.UpdateCustomer(context.Background(), cmd)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Nil(t, res.Data)
}

func TestGetCustomerByID(t *testing.T) {
	svc := NewService(newFakeCustomerRepo())
	created := svc.CreateCustomer(context.Background(), validCreate("ana"))

	res := svc.GetCustomerByID(context.Background(), created.Data.ID)
	require.True(t, res.IsSuccess)
	assert.Equal(t, "ANA", res.Data.Name.String())

	assert.Equal(t, http.StatusNotFound, svc.GetCustomerByID(context.Background(), 99).StatusCode)
	assert.Equal(t, http.StatusBadRequest, svc.GetCustomerByID(context.Background(), 0).StatusCode)
}

func TestGetAllCustomers_Paginates(t *testing.T) {
	svc := NewService(newFakeCustomerRepo())
	for i := 0; i < 30; i++ {
		require.True(t, svc.CreateCustomer(context.Background(), validCreate(fmt.Sprintf("cliente %d", i))).IsSuccess)
	}

	res := svc.GetAllCustomers(context.Background(), pagination.Request{Number: 1, Size: 25})
	require.True(t, res.IsSuccess)
	assert.Len(t, res.Data.Items, 25)
	assert.Equal(t, 30, res.Data.TotalCount)
	require.NotNil(t, res.Data.TotalPages)
	assert.Equal(t, 2, *res.Data.TotalPages)
}

func TestGetAllCustomers_RejectsInvalidPage(t *testing.T) {
	svc := NewService(newFakeCustomerRepo())

	res := svc.GetAllCustomers(context.Background(), pagination.Request{Number: 0, Size: 10})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}
