package mapper

import (
	"time"

	"github.com/Apurer/repairshop-api/internal/domains/notifications/domain"
)

type NotificationPayload struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromDomain(n *domain.Notification) *Notification {
	if n == nil {
		return nil
	}
	return &Notification{ID: n.ID, Title: n.Title, Message: n.Message, Read: n.Read, CreatedAt: n.CreatedAt}
}

func FromDomainList(items []*domain.Notification) []*Notification {
	out := make([]*Notification, 0, len(items))
	for _, n := range items {
		out = append(out, FromDomain(n))
	}
	return out
}
