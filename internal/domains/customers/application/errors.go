package application

import (
	"errors"
	"fmt"

	types "github.com/Apurer/repairshop-api/internal/domains/customers/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/customers/domain"
	"github.com/Apurer/repairshop-api/internal/domains/customers/ports"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

// ErrInvalidInput signals the request violated a command rule or a domain invariant.
var ErrInvalidInput = errors.New("invalid customer input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, types.ErrInvalidCommand) ||
		errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptyPhone) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrInvalidState) ||
		errors.Is(err, pagination.ErrInvalidPageNumber) ||
		errors.Is(err, pagination.ErrInvalidPageSize) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

// failure converts an error into the envelope taxonomy: 400, 404 or 500.
func failure[T any](err error, action string) response.Response[T] {
	err = mapError(err)
	switch {
	case errors.Is(err, ErrInvalidInput):
		return response.BadRequest[T](fmt.Sprintf("validation error: %v", err))
	case errors.Is(err, ports.ErrNotFound):
		return response.NotFound[T]("customer not found")
	default:
		return response.Internal[T](fmt.Sprintf("unexpected error while %s: %v", action, err))
	}
}
