package domain

import (
	"errors"
	"strings"
)

var ErrInvalidQueue = errors.New("unknown service order queue")

// Queue is a dashboard view derived from an order's compound state.
type Queue string

const (
	QueuePendingEstimate Queue = "pending-estimate"
	QueueWaitingResponse Queue = "waiting-response"
	QueuePendingPurchase Queue = "pending-purchase"
	QueueWaitingParts    Queue = "waiting-parts"
	QueueWaitingPickup   Queue = "waiting-pickup"
	QueueDelivered       Queue = "delivered"
)

var queues = []Queue{
	QueuePendingEstimate,
	QueueWaitingResponse,
	QueuePendingPurchase,
	QueueWaitingParts,
	QueueWaitingPickup,
	QueueDelivered,
}

// Queues returns the six queues in dashboard order.
func Queues() []Queue {
	out := make([]Queue, len(queues))
	copy(out, queues)
	return out
}

func ParseQueue(v string) (Queue, error) {
	q := Queue(strings.ToLower(strings.TrimSpace(v)))
	for _, known := range queues {
		if q == known {
			return q, nil
		}
	}
	return "", ErrInvalidQueue
}

// Matches reports whether the order currently belongs to the queue.
// The SQL scopes in the postgres adapter mirror these predicates.
func (q Queue) Matches(o *ServiceOrder) bool {
	if o == nil {
		return false
	}
	switch q {
	case QueuePendingEstimate:
		return o.Status == StatusEntered && o.RepairStatus == RepairStatusEntered
	case QueueWaitingResponse:
		return o.Status == StatusEvaluated && o.RepairStatus == RepairStatusWaiting
	case QueuePendingPurchase:
		return o.Status == StatusEvaluated && o.RepairStatus == RepairStatusApproved && o.PurchasePartDate == nil
	case QueueWaitingParts:
		return o.Status == StatusOrderPart && o.RepairStatus == RepairStatusApproved && o.PurchasePartDate != nil
	case QueueWaitingPickup:
		if o.Status == StatusRepaired {
			return true
		}
		return o.Status == StatusEvaluated &&
			(o.RepairStatus == RepairStatusDisapproved ||
				o.RepairResult == RepairResultUnrepaired ||
				o.RepairResult == RepairResultNoDefectFound)
	case QueueDelivered:
		return o.Status == StatusDelivered
	}
	return false
}
