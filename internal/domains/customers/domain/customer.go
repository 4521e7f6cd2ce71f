package domain

import (
	"slices"
	"strings"
)

// Customer is the aggregate managed by the customers bounded context.
// Service orders are indexed by id only; their lifecycle belongs elsewhere.
type Customer struct {
	ID      int64
	Name    Name
	Address Address
	Phone   Phone
	Phone2  Phone
	Email   Email

	serviceOrderIDs []int64
}

// NewCustomer validates every contact field and builds the aggregate.
func NewCustomer(id int64, name string, address Address, phone, phone2, email string) (*Customer, error) {
	c := &Customer{ID: id}
	if err := c.UpdateName(name); err != nil {
		return nil, err
	}
	c.UpdateAddress(address)
	if err := c.UpdatePhone(phone, phone2); err != nil {
		return nil, err
	}
	if err := c.UpdateEmail(email); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Customer) UpdateName(name string) error {
	n, err := NewName(name)
	if err != nil {
		return err
	}
	c.Name = n
	return nil
}

func (c *Customer) UpdateAddress(address Address) {
	c.Address = address
}

// UpdatePhone requires the primary number; the secondary one may be blank.
func (c *Customer) UpdatePhone(primary, secondary string) error {
	p1, err := NewPhone(primary)
	if err != nil {
		return err
	}
	var p2 Phone
	if strings.TrimSpace(secondary) != "" {
		p2, _ = NewPhone(secondary)
	}
	c.Phone = p1
	c.Phone2 = p2
	return nil
}

// UpdateEmail replaces the email; a blank value clears it.
func (c *Customer) UpdateEmail(email string) error {
	e, err := NewEmail(email)
	if err != nil {
		return err
	}
	c.Email = e
	return nil
}

// AddServiceOrder indexes a persisted order. Zero ids and repeats are ignored.
func (c *Customer) AddServiceOrder(orderID int64) {
	if orderID == 0 || slices.Contains(c.serviceOrderIDs, orderID) {
		return
	}
	c.serviceOrderIDs = append(c.serviceOrderIDs, orderID)
}

// ServiceOrderIDs returns a copy of the indexed order ids.
func (c *Customer) ServiceOrderIDs() []int64 {
	return slices.Clone(c.serviceOrderIDs)
}

// Validate re-checks the aggregate invariants, e.g. after rehydration.
func (c *Customer) Validate() error {
	if c.Name.IsZero() {
		return ErrEmptyName
	}
	if c.Phone.IsZero() {
		return ErrEmptyPhone
	}
	return nil
}

// Clone returns a deep copy safe to hand across goroutines.
func (c *Customer) Clone() *Customer {
	if c == nil {
		return nil
	}
	clone := *c
	clone.serviceOrderIDs = slices.Clone(c.serviceOrderIDs)
	return &clone
}
