package repairshopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	customerhttpmapper "github.com/Apurer/repairshop-api/internal/domains/customers/adapters/http/mapper"
	customerports "github.com/Apurer/repairshop-api/internal/domains/customers/ports"
)

// CustomerAPI wires HTTP transport with the customers bounded context.
type CustomerAPI struct {
	service customerports.Service
}

func NewCustomerAPI(service customerports.Service) CustomerAPI {
	return CustomerAPI{service: service}
}

// Post /v1/customers
func (api *CustomerAPI) CreateCustomer(c *gin.Context) {
	var payload customerhttpmapper.CustomerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	res := api.service.CreateCustomer(c.Request.Context(), customerhttpmapper.ToCreateCommand(payload))
	respondEnvelope(c, res, customerhttpmapper.FromDomain)
}

// Put /v1/customers/:id
func (api *CustomerAPI) UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var payload customerhttpmapper.CustomerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	res := api.service.UpdateCustomer(c.Request.Context(), customerhttpmapper.ToUpdateCommand(id, payload))
	respondEnvelope(c, res, customerhttpmapper.FromDomain)
}

// Get /v1/customers/:id
func (api *CustomerAPI) GetCustomerByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	res := api.service.GetCustomerByID(c.Request.Context(), id)
	respondEnvelope(c, res, customerhttpmapper.FromDomain)
}

// Get /v1/customers
func (api *CustomerAPI) GetAllCustomers(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}
	res := api.service.GetAllCustomers(c.Request.Context(), page)
	respondEnvelope(c, res, customerhttpmapper.FromDomainPage)
}
