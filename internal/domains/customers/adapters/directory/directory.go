// Package directory exposes customers to the service orders context.
package directory

import (
	"context"
	"errors"

	"github.com/Apurer/repairshop-api/internal/domains/customers/ports"
	sodomain "github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	soports "github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
)

var _ soports.CustomerDirectory = (*Directory)(nil)

// Directory answers customer lookups from the customer repository.
type Directory struct {
	repo ports.Repository
}

func New(repo ports.Repository) *Directory {
	return &Directory{repo: repo}
}

func (d *Directory) Lookup(ctx context.Context, customerID int64) (sodomain.CustomerRef, error) {
	customer, err := d.repo.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return sodomain.CustomerRef{}, soports.ErrCustomerNotFound
		}
		return sodomain.CustomerRef{}, err
	}
	return sodomain.CustomerRef{
		ID:    customer.ID,
		Name:  customer.Name.String(),
		Phone: customer.Phone.String(),
	}, nil
}

// AttachOrder appends the order to the customer's index. Repeats are no-ops.
func (d *Directory) AttachOrder(ctx context.Context, customerID, orderID int64) error {
	if err := d.repo.AttachOrder(ctx, customerID, orderID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return soports.ErrCustomerNotFound
		}
		return err
	}
	return nil
}
