package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCommand marks a command rejected before touching the aggregate.
var ErrInvalidCommand = errors.New("invalid customer command")

// CustomerFields is the contact payload shared by create and update.
type CustomerFields struct {
	Name         string
	Street       string
	Neighborhood string
	City         string
	Number       string
	ZipCode      string
	State        string
	Phone        string
	Phone2       string
	Email        string
}

// Normalize trims every field and upper-cases the printable ones.
func (f *CustomerFields) Normalize() {
	f.Name = strings.ToUpper(strings.TrimSpace(f.Name))
	f.Street = strings.ToUpper(strings.TrimSpace(f.Street))
	f.Neighborhood = strings.ToUpper(strings.TrimSpace(f.Neighborhood))
	f.City = strings.ToUpper(strings.TrimSpace(f.City))
	f.Number = strings.TrimSpace(f.Number)
	f.ZipCode = strings.TrimSpace(f.ZipCode)
	f.State = strings.ToUpper(strings.TrimSpace(f.State))
	f.Phone = strings.TrimSpace(f.Phone)
	f.Phone2 = strings.TrimSpace(f.Phone2)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

func (f CustomerFields) validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidCommand)
	}
	if f.Phone == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidCommand)
	}
	return nil
}

type CreateCustomerCommand struct {
	CustomerFields
}

func (c CreateCustomerCommand) Validate() error {
	return c.validate()
}

type UpdateCustomerCommand struct {
	ID int64
	CustomerFields
}

func (c UpdateCustomerCommand) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("%w: id must be greater than zero", ErrInvalidCommand)
	}
	return c.validate()
}
