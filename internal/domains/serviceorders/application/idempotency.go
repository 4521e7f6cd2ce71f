package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	types "github.com/Apurer/repairshop-api/internal/domains/serviceorders/application/types"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	"github.com/Apurer/repairshop-api/internal/shared/response"
)

// FingerprintCreate hashes the normalized create command, leaving the
// idempotency key out.
func FingerprintCreate(cmd types.CreateServiceOrderCommand) (string, error) {
	cmd.Normalize()
	cmd.IdempotencyKey = ""
	payload, err := json.Marshal(cmd)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

type orderReplayer interface {
	GetServiceOrderByID(ctx context.Context, id int64) response.Response[*domain.ServiceOrder]
	RegeneratePDF(ctx context.Context, id int64) response.Response[[]byte]
}

var _ ports.IntakeOrchestrator = (*IdempotentIntake)(nil)

// IdempotentIntake guards an intake orchestrator with an idempotency store.
// Commands without a key pass straight through.
type IdempotentIntake struct {
	next   ports.IntakeOrchestrator
	store  ports.IdempotencyStore
	orders orderReplayer
	logger *slog.Logger
}

func NewIdempotentIntake(next ports.IntakeOrchestrator, store ports.IdempotencyStore, orders orderReplayer, logger *slog.Logger) *IdempotentIntake {
	return &IdempotentIntake{next: next, store: store, orders: orders, logger: logger}
}

func (i *IdempotentIntake) CreateServiceOrder(ctx context.Context, cmd types.CreateServiceOrderCommand) response.Response[*types.ServiceOrderDocument] {
	cmd.Normalize()
	if cmd.IdempotencyKey == "" || i.store == nil {
		return i.next.CreateServiceOrder(ctx, cmd)
	}
	hash, err := FingerprintCreate(cmd)
	if err != nil {
		return failure[*types.ServiceOrderDocument](err, "fingerprinting the request")
	}
	existing, reserved, err := i.store.Reserve(ctx, cmd.IdempotencyKey, hash)
	if err != nil {
		return failure[*types.ServiceOrderDocument](err, "reserving the idempotency key")
	}
	if !reserved {
		switch {
		case existing.RequestHash != hash:
			return failure[*types.ServiceOrderDocument](ports.ErrIdempotencyConflict, "replaying the request")
		case existing.Pending():
			return failure[*types.ServiceOrderDocument](ports.ErrIdempotencyInProgress, "replaying the request")
		}
		return i.replay(ctx, existing.OrderID)
	}

	res := i.next.CreateServiceOrder(ctx, cmd)
	if !res.IsSuccess {
		if err := i.store.Release(ctx, cmd.IdempotencyKey); err != nil {
			i.warn(ctx, "idempotency key not released", cmd.IdempotencyKey, err)
		}
		return res
	}
	if err := i.store.Complete(ctx, cmd.IdempotencyKey, res.Data.Order.ID); err != nil {
		// the order exists, so the caller still gets it
		i.warn(ctx, "idempotency key not completed", cmd.IdempotencyKey, err)
	}
	return res
}

func (i *IdempotentIntake) warn(ctx context.Context, msg, key string, err error) {
	if i.logger != nil {
		i.logger.WarnContext(ctx, msg, slog.String("key", key), slog.Any("error", err))
	}
}

func (i *IdempotentIntake) replay(ctx context.Context, id int64) response.Response[*types.ServiceOrderDocument] {
	loaded := i.orders.GetServiceOrderByID(ctx, id)
	if !loaded.IsSuccess {
		return response.Fail[*types.ServiceOrderDocument](loaded.StatusCode, loaded.Message)
	}
	ticket := i.orders.RegeneratePDF(ctx, id)
	if !ticket.IsSuccess {
		return response.Fail[*types.ServiceOrderDocument](ticket.StatusCode, ticket.Message)
	}
	return response.OK(&types.ServiceOrderDocument{Order: loaded.Data, PDF: ticket.Data}, fmt.Sprintf("service order %d already created for this key", id))
}
