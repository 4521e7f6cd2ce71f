package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
)

// ErrInvalidCommand marks a command rejected before touching the aggregate.
var ErrInvalidCommand = errors.New("invalid service order command")

// ProductFields describes the item and the account it is filed under.
type ProductFields struct {
	Brand        string
	Model        string
	SerialNumber string
	Defect       string
	Accessories  string
	ProductType  string
	Enterprise   string
}

// Normalize trims everything and upper-cases the product text.
func (f *ProductFields) Normalize() {
	f.Brand = strings.ToUpper(strings.TrimSpace(f.Brand))
	f.Model = strings.ToUpper(strings.TrimSpace(f.Model))
	f.SerialNumber = strings.ToUpper(strings.TrimSpace(f.SerialNumber))
	f.Defect = strings.ToUpper(strings.TrimSpace(f.Defect))
	f.Accessories = strings.ToUpper(strings.TrimSpace(f.Accessories))
	f.ProductType = strings.ToLower(strings.TrimSpace(f.ProductType))
	f.Enterprise = strings.ToLower(strings.TrimSpace(f.Enterprise))
}

// Parsed validates the enum fields and returns them typed.
func (f ProductFields) Parsed() (domain.ProductType, domain.Enterprise, error) {
	if f.Model == "" {
		return "", "", fmt.Errorf("%w: model is required", ErrInvalidCommand)
	}
	if f.SerialNumber == "" {
		return "", "", fmt.Errorf("%w: serial number is required", ErrInvalidCommand)
	}
	pt, err := domain.ParseProductType(f.ProductType)
	if err != nil {
		return "", "", err
	}
	ent, err := domain.ParseEnterprise(f.Enterprise)
	if err != nil {
		return "", "", err
	}
	return pt, ent, nil
}

type CreateServiceOrderCommand struct {
	CustomerID int64
	ProductFields
	// IdempotencyKey is optional. Retries carrying the same key replay the
	// first outcome.
	IdempotencyKey string
}

func (c *CreateServiceOrderCommand) Normalize() {
	c.ProductFields.Normalize()
	c.IdempotencyKey = strings.TrimSpace(c.IdempotencyKey)
}

func (c CreateServiceOrderCommand) Validate() error {
	if c.CustomerID <= 0 {
		return fmt.Errorf("%w: customer id is required", ErrInvalidCommand)
	}
	_, _, err := c.Parsed()
	return err
}

type UpdateServiceOrderCommand struct {
	ID         int64
	CustomerID int64
	ProductFields
}

func (c *UpdateServiceOrderCommand) Normalize() { c.ProductFields.Normalize() }

func (c UpdateServiceOrderCommand) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("%w: id is required", ErrInvalidCommand)
	}
	if c.CustomerID <= 0 {
		return fmt.Errorf("%w: customer id is required", ErrInvalidCommand)
	}
	_, _, err := c.Parsed()
	return err
}

type AddEstimateCommand struct {
	ID              int64
	Solution        string
	Guarantee       string
	PartCost        decimal.Decimal
	LaborCost       decimal.Decimal
	RepairResult    string
	EstimateMessage string
}

func (c *AddEstimateCommand) Normalize() {
	c.Solution = strings.TrimSpace(c.Solution)
	c.Guarantee = strings.TrimSpace(c.Guarantee)
	c.RepairResult = strings.ToLower(strings.TrimSpace(c.RepairResult))
	c.EstimateMessage = strings.TrimSpace(c.EstimateMessage)
}

func (c AddEstimateCommand) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("%w: id is required", ErrInvalidCommand)
	}
	if c.Solution == "" {
		return fmt.Errorf("%w: solution is required", ErrInvalidCommand)
	}
	if c.Guarantee == "" {
		return fmt.Errorf("%w: guarantee is required", ErrInvalidCommand)
	}
	_, err := domain.ParseRepairResult(c.RepairResult)
	return err
}

type SetLocationCommand struct {
	ID       int64
	Location string
}

func (c *SetLocationCommand) Normalize() {
	c.Location = strings.ToUpper(strings.TrimSpace(c.Location))
}

func (c SetLocationCommand) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("%w: id is required", ErrInvalidCommand)
	}
	if c.Location == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidCommand)
	}
	return nil
}
