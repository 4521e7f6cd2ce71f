package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/repairshop-api/internal/domains/notifications/domain"
	"github.com/Apurer/repairshop-api/internal/domains/notifications/ports"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

var (
	// ErrInvalidInput signals the request violated a notification rule.
	ErrInvalidInput = errors.New("invalid notification input")
	ErrInvalidID    = errors.New("notification id must be positive")
	ErrInvalidAge   = errors.New("purge age must be positive")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyTitle) ||
		errors.Is(err, domain.ErrEmptyMessage) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidAge) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}

func failure[T any](err error, action string) response.Response[T] {
	err = mapError(err)
	switch {
	case errors.Is(err, ErrInvalidInput):
		return response.BadRequest[T](fmt.Sprintf("validation error: %v", err))
	case errors.Is(err, ports.ErrNotFound):
		return response.NotFound[T]("notification not found")
	default:
		return response.Internal[T](fmt.Sprintf("unexpected error while %s: %v", action, err))
	}
}
