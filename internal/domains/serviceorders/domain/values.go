package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyModel        = errors.New("product model cannot be empty")
	ErrEmptySerialNumber = errors.New("product serial number cannot be empty")
	ErrEmptyDefect       = errors.New("product defect cannot be empty")
	ErrEmptyBrand        = errors.New("product brand cannot be empty")
	ErrEmptySolution     = errors.New("solution cannot be empty")
	ErrEmptyGuarantee    = errors.New("guarantee cannot be empty")
	ErrNegativeCost      = errors.New("cost cannot be negative")
)

func nonEmpty(v string, err error) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", err
	}
	return v, nil
}

type Model struct{ value string }

func NewModel(v string) (Model, error) {
	s, err := nonEmpty(v, ErrEmptyModel)
	return Model{value: s}, err
}

func (m Model) String() string { return m.value }

type SerialNumber struct{ value string }

func NewSerialNumber(v string) (SerialNumber, error) {
	s, err := nonEmpty(v, ErrEmptySerialNumber)
	return SerialNumber{value: s}, err
}

func (s SerialNumber) String() string { return s.value }

type Defect struct{ value string }

func NewDefect(v string) (Defect, error) {
	s, err := nonEmpty(v, ErrEmptyDefect)
	return Defect{value: s}, err
}

func (d Defect) String() string { return d.value }
func (d Defect) IsZero() bool   { return d.value == "" }

type Brand struct{ value string }

func NewBrand(v string) (Brand, error) {
	s, err := nonEmpty(v, ErrEmptyBrand)
	return Brand{value: s}, err
}

func (b Brand) String() string { return b.value }
func (b Brand) IsZero() bool   { return b.value == "" }

// Solution is the repair the technician proposes in the estimate.
type Solution struct{ value string }

func NewSolution(v string) (Solution, error) {
	s, err := nonEmpty(v, ErrEmptySolution)
	return Solution{value: s}, err
}

func (s Solution) String() string { return s.value }
func (s Solution) IsZero() bool   { return s.value == "" }

type Guarantee struct{ value string }

func NewGuarantee(v string) (Guarantee, error) {
	s, err := nonEmpty(v, ErrEmptyGuarantee)
	return Guarantee{value: s}, err
}

func (g Guarantee) String() string { return g.value }
func (g Guarantee) IsZero() bool   { return g.value == "" }

// PartCost and LaborCost hold non-negative amounts rounded to cents.
// The amount is kept as a string so the values stay comparable with ==;
// zero is the empty string.
type PartCost struct{ amount string }

func NewPartCost(v decimal.Decimal) (PartCost, error) {
	s, err := costString(v)
	return PartCost{amount: s}, err
}

func (c PartCost) Decimal() decimal.Decimal { return costDecimal(c.amount) }
func (c PartCost) String() string           { return c.Decimal().StringFixed(2) }

type LaborCost struct{ amount string }

func NewLaborCost(v decimal.Decimal) (LaborCost, error) {
	s, err := costString(v)
	return LaborCost{amount: s}, err
}

func (c LaborCost) Decimal() decimal.Decimal { return costDecimal(c.amount) }
func (c LaborCost) String() string           { return c.Decimal().StringFixed(2) }

func costString(v decimal.Decimal) (string, error) {
	if v.IsNegative() {
		return "", ErrNegativeCost
	}
	v = v.Round(2)
	if v.IsZero() {
		return "", nil
	}
	return v.StringFixed(2), nil
}

func costDecimal(amount string) decimal.Decimal {
	if amount == "" {
		return decimal.Zero
	}
	return decimal.RequireFromString(amount)
}
