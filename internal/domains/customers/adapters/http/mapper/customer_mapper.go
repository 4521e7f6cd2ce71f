package mapper

import (
	types "github.com/Apurer/repairshop-api/internal/domains/customers/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/customers/domain"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

// CustomerPayload is the inbound body for create and update.
type CustomerPayload struct {
	Name         string `json:"name" binding:"required"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	Number       string `json:"number"`
	ZipCode      string `json:"zipCode"`
	State        string `json:"state"`
	Phone        string `json:"phone" binding:"required"`
	Phone2       string `json:"phone2,omitempty"`
	Email        string `json:"email,omitempty"`
}

// Address is the HTTP representation of a customer address.
type Address struct {
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	Number       string `json:"number"`
	ZipCode      string `json:"zipCode"`
	State        string `json:"state"`
}

// Customer is the HTTP representation of the customer aggregate.
type Customer struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Address         Address `json:"address"`
	Phone           string  `json:"phone"`
	Phone2          string  `json:"phone2,omitempty"`
	Email           string  `json:"email,omitempty"`
	ServiceOrderIDs []int64 `json:"serviceOrderIds"`
}

func (p CustomerPayload) fields() types.CustomerFields {
	return types.CustomerFields{
		Name:         p.Name,
		Street:       p.Street,
		Neighborhood: p.Neighborhood,
		City:         p.City,
		Number:       p.Number,
		ZipCode:      p.ZipCode,
		State:        p.State,
		Phone:        p.Phone,
		Phone2:       p.Phone2,
		Email:        p.Email,
	}
}

// ToCreateCommand maps a payload into the create command.
func ToCreateCommand(p CustomerPayload) types.CreateCustomerCommand {
	return types.CreateCustomerCommand{CustomerFields: p.fields()}
}

// ToUpdateCommand maps a payload and the path id into the update command.
func ToUpdateCommand(id int64, p CustomerPayload) types.UpdateCustomerCommand {
	return types.UpdateCustomerCommand{ID: id, CustomerFields: p.fields()}
}

// FromDomain converts the aggregate to its transport shape. Nil stays nil.
func FromDomain(c *domain.Customer) *Customer {
	if c == nil {
		return nil
	}
	ids := c.ServiceOrderIDs()
	if ids == nil {
		ids = []int64{}
	}
	return &Customer{
		ID:   c.ID,
		Name: c.Name.String(),
		Address: Address{
			Street:       c.Address.Street(),
			Neighborhood: c.Address.Neighborhood(),
			City:         c.Address.City(),
			Number:       c.Address.Number(),
			ZipCode:      c.Address.ZipCode(),
			State:        c.Address.State(),
		},
		Phone:           c.Phone.String(),
		Phone2:          c.Phone2.String(),
		Email:           c.Email.String(),
		ServiceOrderIDs: ids,
	}
}

// FromDomainPage converts a page of customers.
func FromDomainPage(page *pagination.Page[*domain.Customer]) *pagination.Page[*Customer] {
	if page == nil {
		return nil
	}
	out := pagination.Map(*page, FromDomain)
	return &out
}
