package repairshopserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	sohttpmapper "github.com/Apurer/repairshop-api/internal/domains/serviceorders/adapters/http/mapper"
	sotypes "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
	soports "github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

// ServiceOrderAPI wires HTTP transport with the service orders bounded context.
type ServiceOrderAPI struct {
	service soports.Service
	intake  soports.IntakeOrchestrator
}

// NewServiceOrderAPI uses intake for creation when given, the service otherwise.
func NewServiceOrderAPI(service soports.Service, intake soports.IntakeOrchestrator) ServiceOrderAPI {
	return ServiceOrderAPI{service: service, intake: intake}
}

const idempotencyKeyHeader = "Idempotency-Key"

func documentPDF(doc *sotypes.ServiceOrderDocument) []byte { return doc.PDF }

func ticketName(id int64) string { return fmt.Sprintf("service-order-%d.pdf", id) }

// Post /v1/service-orders
// Opens a service order and returns the check-in ticket. An Idempotency-Key
// header makes retries replay the first ticket.
func (api *ServiceOrderAPI) CreateServiceOrder(c *gin.Context) {
	var payload sohttpmapper.ServiceOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	cmd := sohttpmapper.ToCreateCommand(payload)
	cmd.IdempotencyKey = c.GetHeader(idempotencyKeyHeader)
	res := api.createServiceOrder(c, cmd)
	if !res.IsSuccess {
		respondPDF(c, res, documentPDF, "")
		return
	}
	c.Header("X-Service-Order-Id", fmt.Sprint(res.Data.Order.ID))
	respondPDF(c, res, documentPDF, ticketName(res.Data.Order.ID))
}

func (api *ServiceOrderAPI) createServiceOrder(c *gin.Context, cmd sotypes.CreateServiceOrderCommand) response.Response[*sotypes.ServiceOrderDocument] {
	if api.intake != nil {
		return api.intake.CreateServiceOrder(c.Request.Context(), cmd)
	}
	return api.service.CreateServiceOrder(c.Request.Context(), cmd)
}

// Put /v1/service-orders/:id
func (api *ServiceOrderAPI) UpdateServiceOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload sohttpmapper.ServiceOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	res := api.service.UpdateServiceOrder(c.Request.Context(), sohttpmapper.ToUpdateCommand(id, payload))
	respondEnvelope(c, res, sohttpmapper.FromDomain)
}

// Get /v1/service-orders/:id
func (api *ServiceOrderAPI) GetServiceOrderByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	respondEnvelope(c, api.service.GetServiceOrderByID(c.Request.Context(), id), sohttpmapper.FromDomain)
}

// Get /v1/service-orders/:id/lookup/:code
// Lets a customer follow an order with the code printed on the ticket.
func (api *ServiceOrderAPI) GetServiceOrderForCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	res := api.service.GetServiceOrderForCustomer(c.Request.Context(), id, c.Param("code"))
	respondEnvelope(c, res, sohttpmapper.FromDomain)
}

// Get /v1/service-orders
func (api *ServiceOrderAPI) GetServiceOrders(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	respondEnvelope(c, api.service.GetServiceOrders(c.Request.Context(), page), sohttpmapper.FromDomainPage)
}

// Get /v1/service-orders/queues/:queue
func (api *ServiceOrderAPI) GetQueue(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	res := api.service.GetQueue(c.Request.Context(), c.Param("queue"), page)
	respondEnvelope(c, res, sohttpmapper.FromDomainPage)
}

// Put /v1/service-orders/:id/estimate
func (api *ServiceOrderAPI) AddEstimate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload sohttpmapper.EstimatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	res := api.service.AddEstimate(c.Request.Context(), sohttpmapper.ToEstimateCommand(id, payload))
	respondEnvelope(c, res, sohttpmapper.FromDomain)
}

// Put /v1/service-orders/:id/approve
func (api *ServiceOrderAPI) ApproveEstimate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	respondEnvelope(c, api.service.ApproveEstimate(c.Request.Context(), id), sohttpmapper.FromDomain)
}

// Put /v1/service-orders/:id/reject
func (api *ServiceOrderAPI) RejectEstimate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	respondEnvelope(c, api.service.RejectEstimate(c.Request.Context(), id), sohttpmapper.FromDomain)
}

// Put /v1/service-orders/:id/purchased-part
func (api *ServiceOrderAPI) AddPurchasedPart(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	respondEnvelope(c, api.service.AddPurchasedPart(c.Request.Context(), id), sohttpmapper.FromDomain)
}

// Put /v1/service-orders/:id/repair
func (api *ServiceOrderAPI) ExecuteRepair(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	respondEnvelope(c, api.service.ExecuteRepair(c.Request.Context(), id), sohttpmapper.FromDomain)
}

// Put /v1/service-orders/:id/delivery
// Closes the order and returns the check-out ticket.
func (api *ServiceOrderAPI) AddDelivery(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	respondPDF(c, api.service.AddDelivery(c.Request.Context(), id), documentPDF, ticketName(id))
}

// Put /v1/service-orders/:id/location
func (api *ServiceOrderAPI) SetLocation(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload sohttpmapper.LocationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	res := api.service.SetLocation(c.Request.Context(), sohttpmapper.ToLocationCommand(id, payload))
	respondEnvelope(c, res, sohttpmapper.FromDomain)
}

// Get /v1/service-orders/:id/pdf
func (api *ServiceOrderAPI) RegeneratePDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	respondPDF(c, api.service.RegeneratePDF(c.Request.Context(), id), identity[[]byte], ticketName(id))
}
