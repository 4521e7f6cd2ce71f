package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCustomer   = errors.New("customer reference requires an id and a name")
	ErrInvalidCustomerID = errors.New("customer id must be greater than zero")
	ErrEstimateMissing   = errors.New("estimate solution must be recorded first")
	ErrRepairNotApproved = errors.New("repair requires an approved estimate")
)

// CustomerRef is the customer snapshot an order carries for display.
type CustomerRef struct {
	ID    int64
	Name  string
	Phone string
}

// ServiceOrder tracks one item from intake to delivery.
type ServiceOrder struct {
	ID           int64
	SecurityCode string
	CustomerID   int64
	Customer     CustomerRef
	Product      Product
	Enterprise   Enterprise

	EntryDate        time.Time
	InspectionDate   *time.Time
	ResponseDate     *time.Time
	RepairDate       *time.Time
	PurchasePartDate *time.Time
	DeliveryDate     *time.Time

	Solution        Solution
	Guarantee       Guarantee
	EstimateMessage string
	PartCost        PartCost
	LaborCost       LaborCost

	Status       Status
	RepairStatus RepairStatus
	RepairResult RepairResult

	now func() time.Time
}

type options struct {
	now   func() time.Time
	codes CodeSource
}

type Option func(*options)

// WithClock replaces time.Now for every date the order stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithCodeSource sets where the security code characters come from.
func WithCodeSource(src CodeSource) Option {
	return func(o *options) {
		o.codes = src
	}
}

// NewServiceOrder opens an order in the entered/entered state.
func NewServiceOrder(customerID int64, product Product, enterprise Enterprise, opts ...Option) (*ServiceOrder, error) {
	if customerID <= 0 {
		return nil, ErrInvalidCustomerID
	}
	if _, err := ParseEnterprise(string(enterprise)); err != nil {
		return nil, err
	}
	if err := product.UpdateProduct(product.Brand.String(), product.Model.String(), product.SerialNumber.String(),
		product.Defect.String(), product.Accessories, product.Type); err != nil {
		return nil, err
	}
	cfg := options{codes: DefaultCodeSource}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	o := &ServiceOrder{
		CustomerID:   customerID,
		Product:      product,
		Enterprise:   enterprise,
		Status:       StatusEntered,
		RepairStatus: RepairStatusEntered,
		now:          cfg.now,
	}
	o.EntryDate = o.clock()
	o.SecurityCode = GenerateSecurityCode(cfg.codes)
	return o, nil
}

// SetClock swaps the clock on a rehydrated order.
func (o *ServiceOrder) SetClock(now func() time.Time) {
	o.now = now
}

func (o *ServiceOrder) clock() time.Time {
	if o.now != nil {
		return o.now().UTC()
	}
	return time.Now().UTC()
}

func (o *ServiceOrder) stamp(field **time.Time) {
	if *field == nil {
		t := o.clock()
		*field = &t
	}
}

// AddEstimate records the diagnosis. A second call overwrites the estimate.
func (o *ServiceOrder) AddEstimate(solution, guarantee string, partCost, laborCost decimal.Decimal, result RepairResult) error {
	sol, err := NewSolution(solution)
	if err != nil {
		return err
	}
	g, err := NewGuarantee(guarantee)
	if err != nil {
		return err
	}
	pc, err := NewPartCost(partCost)
	if err != nil {
		return err
	}
	lc, err := NewLaborCost(laborCost)
	if err != nil {
		return err
	}
	if _, err := ParseRepairResult(string(result)); err != nil {
		return err
	}
	o.Solution = sol
	o.Guarantee = g
	o.PartCost = pc
	o.LaborCost = lc
	o.RepairResult = result
	o.Status = StatusEvaluated
	o.RepairStatus = RepairStatusWaiting
	o.stamp(&o.InspectionDate)
	return nil
}

// AnnotateEstimate stores the free-text message sent with the estimate.
func (o *ServiceOrder) AnnotateEstimate(message string) {
	o.EstimateMessage = strings.TrimSpace(message)
}

func (o *ServiceOrder) ApproveEstimate() error {
	if o.Solution.IsZero() {
		return ErrEstimateMissing
	}
	o.RepairStatus = RepairStatusApproved
	o.stamp(&o.ResponseDate)
	return nil
}

func (o *ServiceOrder) RejectEstimate() error {
	if o.Solution.IsZero() {
		return ErrEstimateMissing
	}
	o.RepairStatus = RepairStatusDisapproved
	o.stamp(&o.ResponseDate)
	return nil
}

func (o *ServiceOrder) AddPurchasedPart() {
	o.Status = StatusOrderPart
	o.stamp(&o.PurchasePartDate)
}

func (o *ServiceOrder) ExecuteRepair() error {
	if o.RepairStatus != RepairStatusApproved {
		return ErrRepairNotApproved
	}
	o.Status = StatusRepaired
	o.stamp(&o.RepairDate)
	return nil
}

func (o *ServiceOrder) AddDelivery() {
	o.Status = StatusDelivered
	o.stamp(&o.DeliveryDate)
}

// UpdateServiceOrder is an administrative correction of customer, product and enterprise.
func (o *ServiceOrder) UpdateServiceOrder(customer CustomerRef, brand, model, serial, defect, accessories string, productType ProductType, enterprise Enterprise) error {
	if customer.ID == 0 || strings.TrimSpace(customer.Name) == "" {
		return ErrInvalidCustomer
	}
	if _, err := ParseEnterprise(string(enterprise)); err != nil {
		return err
	}
	product := o.Product
	if err := product.UpdateProduct(brand, model, serial, defect, accessories, productType); err != nil {
		return err
	}
	o.CustomerID = customer.ID
	o.Customer = customer
	o.Product = product
	o.Enterprise = enterprise
	return nil
}

// UpdateCustomer attaches the customer snapshot.
func (o *ServiceOrder) UpdateCustomer(customer CustomerRef) error {
	if customer.ID == 0 || strings.TrimSpace(customer.Name) == "" {
		return ErrInvalidCustomer
	}
	o.Customer = customer
	return nil
}

// AddLocation records where the product is shelved.
func (o *ServiceOrder) AddLocation(location string) {
	o.Product.Location = strings.ToUpper(strings.TrimSpace(location))
}

func (o *ServiceOrder) TotalAmount() decimal.Decimal {
	return o.PartCost.Decimal().Add(o.LaborCost.Decimal())
}

// Clone returns a deep copy, dates included.
func (o *ServiceOrder) Clone() *ServiceOrder {
	if o == nil {
		return nil
	}
	c := *o
	c.InspectionDate = cloneTime(o.InspectionDate)
	c.ResponseDate = cloneTime(o.ResponseDate)
	c.RepairDate = cloneTime(o.RepairDate)
	c.PurchasePartDate = cloneTime(o.PurchasePartDate)
	c.DeliveryDate = cloneTime(o.DeliveryDate)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
