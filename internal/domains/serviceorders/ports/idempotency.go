package ports

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used with a different payload.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// ErrIdempotencyInProgress is a conflict raised while the first request for a
// key has not finished yet.
var ErrIdempotencyInProgress = fmt.Errorf("%w: request with this key still in progress", ErrIdempotencyConflict)

// ErrKeyNotReserved is returned when completing a key nobody reserved.
var ErrKeyNotReserved = errors.New("idempotency key not reserved")

// PendingReservationTTL is how long a reservation without an order blocks
// its key before another request may take it over.
const PendingReservationTTL = 2 * time.Minute

// IdempotencyRecord ties a client-supplied key to the service order it opened.
// OrderID is zero while the reservation is pending.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Pending reports whether the key is reserved but no order was recorded yet.
func (r IdempotencyRecord) Pending() bool { return r.OrderID == 0 }

// IdempotencyStore persists intake keys so retried check-ins replay instead of duplicating.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Reserve claims the key for a request. It reports true when the caller
	// now owns the key, either because it was free or because a pending
	// reservation outlived PendingReservationTTL. Otherwise the stored record
	// is returned untouched.
	Reserve(ctx context.Context, key, requestHash string) (*IdempotencyRecord, bool, error)
	// Complete records the order opened under a reserved key.
	Complete(ctx context.Context, key string, orderID int64) error
	// Release drops a pending reservation so the key can be retried.
	Release(ctx context.Context, key string) error
}
