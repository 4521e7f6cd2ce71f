package application

import (
	"errors"
	"fmt"
	"net/http"

	types "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

// ErrInvalidInput signals the request violated a command rule or a domain invariant.
var ErrInvalidInput = errors.New("invalid service order input")

var invalidInputErrors = []error{
	types.ErrInvalidCommand,
	domain.ErrInvalidStatus,
	domain.ErrInvalidRepairStatus,
	domain.ErrInvalidRepairResult,
	domain.ErrInvalidProductType,
	domain.ErrInvalidEnterprise,
	domain.ErrEmptyModel,
	domain.ErrEmptySerialNumber,
	domain.ErrEmptyDefect,
	domain.ErrEmptyBrand,
	domain.ErrEmptySolution,
	domain.ErrEmptyGuarantee,
	domain.ErrNegativeCost,
	domain.ErrInvalidCustomer,
	domain.ErrInvalidCustomerID,
	domain.ErrEstimateMissing,
	domain.ErrRepairNotApproved,
	domain.ErrInvalidQueue,
	pagination.ErrInvalidPageNumber,
	pagination.ErrInvalidPageSize,
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range invalidInputErrors {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}
	return err
}

// failure converts an error into the envelope taxonomy: 400, 404, 409 or 500.
func failure[T any](err error, action string) response.Response[T] {
	err = mapError(err)
	switch {
	case errors.Is(err, ErrInvalidInput):
		return response.BadRequest[T](fmt.Sprintf("validation error: %v", err))
	case errors.Is(err, ports.ErrNotFound):
		return response.NotFound[T]("service order not found")
	case errors.Is(err, ports.ErrCustomerNotFound):
		return response.NotFound[T]("customer not found")
	case errors.Is(err, ports.ErrIdempotencyInProgress):
		return response.Fail[T](http.StatusConflict, "a request with this idempotency key is still in progress")
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return response.Fail[T](http.StatusConflict, "idempotency key already used for a different request")
	default:
		return response.Internal[T](fmt.Sprintf("unexpected error while %s: %v", action, err))
	}
}
