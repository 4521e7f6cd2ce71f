package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
)

func newOrder(t *testing.T) *domain.ServiceOrder {
	t.Helper()
	product, err := domain.NewProduct("SAMSUNG", "UN40J5200AG", "32HJ31HJ312", "SEM IMAGEM", "CONTROLE", domain.ProductTV)
	require.NoError(t, err)
	order, err := domain.NewServiceOrder(1, product, domain.EnterpriseParticular)
	require.NoError(t, err)
	order.ID = 1234
	require.NoError(t, order.UpdateCustomer(domain.CustomerRef{ID: 1, Name: "JOSÉ DA SILVA", Phone: "41 99999-0000"}))
	return order
}

func TestGenerator_RendersPDFs(t *testing.T) {
	gen := NewGenerator(Shop{Name: "TVS Eletrônica", Site: "www.example.com", Phone: "(41) 3000-0000"})
	order := newOrder(t)

	checkIn, err := gen.CheckIn(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(checkIn, []byte("%PDF-")))

	require.NoError(t, order.AddEstimate("troca da placa", "3 meses", decimal.NewFromInt(200), decimal.NewFromInt(300), domain.RepairResultRepair))
	require.NoError(t, order.ApproveEstimate())
	require.NoError(t, order.ExecuteRepair())
	order.AddDelivery()

	checkOut, err := gen.CheckOut(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(checkOut, []byte("%PDF-")))
}

func TestGenerator_RegenerateFollowsStatus(t *testing.T) {
	order := newOrder(t)
	assert.Equal(t, checkInTicket, ticketFor(order))

	order.AddDelivery()
	assert.Equal(t, checkOutTicket, ticketFor(order))

	regenerated, err := NewGenerator(Shop{}).Regenerate(context.Background(), order)
	require.NoError(t, err)
	assert.NotEmpty(t, regenerated)
}

func TestGenerator_RejectsNilOrder(t *testing.T) {
	_, err := NewGenerator(Shop{}).CheckIn(context.Background(), nil)
	assert.Error(t, err)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "00.012", formatNumber(12))
	assert.Equal(t, "01.234", formatNumber(1234))
	assert.Equal(t, "99.999", formatNumber(99999))
}
