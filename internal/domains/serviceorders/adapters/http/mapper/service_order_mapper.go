package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	types "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

// ProductPayload describes the item in create and update requests.
type ProductPayload struct {
	Brand        string `json:"brand,omitempty"`
	Model        string `json:"model" binding:"required"`
	SerialNumber string `json:"serialNumber" binding:"required"`
	Defect       string `json:"defect,omitempty"`
	Accessories  string `json:"accessories,omitempty"`
	Type         string `json:"type" binding:"required"`
}

// ServiceOrderPayload is the inbound body for create and update.
type ServiceOrderPayload struct {
	CustomerID int64          `json:"customerId" binding:"required"`
	Enterprise string         `json:"enterprise" binding:"required"`
	Product    ProductPayload `json:"product"`
}

// EstimatePayload is the technician's diagnosis.
type EstimatePayload struct {
	Solution        string          `json:"solution"`
	Guarantee       string          `json:"guarantee"`
	PartCost        decimal.Decimal `json:"partCost"`
	LaborCost       decimal.Decimal `json:"laborCost"`
	RepairResult    string          `json:"repairResult"`
	EstimateMessage string          `json:"estimateMessage,omitempty"`
}

type LocationPayload struct {
	Location string `json:"location"`
}

type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type Product struct {
	Brand        string `json:"brand,omitempty"`
	Model        string `json:"model"`
	SerialNumber string `json:"serialNumber"`
	Defect       string `json:"defect,omitempty"`
	Accessories  string `json:"accessories,omitempty"`
	Type         string `json:"type"`
	Location     string `json:"location,omitempty"`
}

// ServiceOrder is the HTTP representation of the service order aggregate.
type ServiceOrder struct {
	ID               int64      `json:"id"`
	SecurityCode     string     `json:"securityCode"`
	CustomerID       int64      `json:"customerId"`
	Customer         Customer   `json:"customer"`
	Product          Product    `json:"product"`
	Enterprise       string     `json:"enterprise"`
	EntryDate        time.Time  `json:"entryDate"`
	InspectionDate   *time.Time `json:"inspectionDate"`
	ResponseDate     *time.Time `json:"responseDate"`
	RepairDate       *time.Time `json:"repairDate"`
	PurchasePartDate *time.Time `json:"purchasePartDate"`
	DeliveryDate     *time.Time `json:"deliveryDate"`
	Solution         string     `json:"solution,omitempty"`
	Guarantee        string     `json:"guarantee,omitempty"`
	EstimateMessage  string     `json:"estimateMessage,omitempty"`
	PartCost         string     `json:"partCost"`
	LaborCost        string     `json:"laborCost"`
	TotalAmount      string     `json:"totalAmount"`
	Status           string     `json:"status"`
	RepairStatus     string     `json:"repairStatus"`
	RepairResult     *string    `json:"repairResult"`
}

func (p ServiceOrderPayload) fields() types.ProductFields {
	return types.ProductFields{
		Brand:        p.Product.Brand,
		Model:        p.Product.Model,
		SerialNumber: p.Product.SerialNumber,
		Defect:       p.Product.Defect,
		Accessories:  p.Product.Accessories,
		ProductType:  p.Product.Type,
		Enterprise:   p.Enterprise,
	}
}

func ToCreateCommand(p ServiceOrderPayload) types.CreateServiceOrderCommand {
	return types.CreateServiceOrderCommand{CustomerID: p.CustomerID, ProductFields: p.fields()}
}

func ToUpdateCommand(id int64, p ServiceOrderPayload) types.UpdateServiceOrderCommand {
	return types.UpdateServiceOrderCommand{ID: id, CustomerID: p.CustomerID, ProductFields: p.fields()}
}

func ToEstimateCommand(id int64, p EstimatePayload) types.AddEstimateCommand {
	return types.AddEstimateCommand{
		ID:              id,
		Solution:        p.Solution,
		Guarantee:       p.Guarantee,
		PartCost:        p.PartCost,
		LaborCost:       p.LaborCost,
		RepairResult:    p.RepairResult,
		EstimateMessage: p.EstimateMessage,
	}
}

func ToLocationCommand(id int64, p LocationPayload) types.SetLocationCommand {
	return types.SetLocationCommand{ID: id, Location: p.Location}
}

// FromDomain converts the aggregate to its transport shape. Nil stays nil.
func FromDomain(o *domain.ServiceOrder) *ServiceOrder {
	if o == nil {
		return nil
	}
	out := &ServiceOrder{
		ID:           o.ID,
		SecurityCode: o.SecurityCode,
		CustomerID:   o.CustomerID,
		Customer:     Customer{ID: o.Customer.ID, Name: o.Customer.Name, Phone: o.Customer.Phone},
		Product: Product{
			Brand:        o.Product.Brand.String(),
			Model:        o.Product.Model.String(),
			SerialNumber: o.Product.SerialNumber.String(),
			Defect:       o.Product.Defect.String(),
			Accessories:  o.Product.Accessories,
			Type:         string(o.Product.Type),
			Location:     o.Product.Location,
		},
		Enterprise:       string(o.Enterprise),
		EntryDate:        o.EntryDate,
		InspectionDate:   o.InspectionDate,
		ResponseDate:     o.ResponseDate,
		RepairDate:       o.RepairDate,
		PurchasePartDate: o.PurchasePartDate,
		DeliveryDate:     o.DeliveryDate,
		Solution:         o.Solution.String(),
		Guarantee:        o.Guarantee.String(),
		EstimateMessage:  o.EstimateMessage,
		PartCost:         o.PartCost.String(),
		LaborCost:        o.LaborCost.String(),
		TotalAmount:      o.TotalAmount().StringFixed(2),
		Status:           string(o.Status),
		RepairStatus:     string(o.RepairStatus),
	}
	if o.RepairResult != domain.RepairResultNone {
		r := string(o.RepairResult)
		out.RepairResult = &r
	}
	return out
}

func FromDomainPage(page *pagination.Page[*domain.ServiceOrder]) *pagination.Page[*ServiceOrder] {
	if page == nil {
		return nil
	}
	out := pagination.Map(*page, FromDomain)
	return &out
}
