package domain

import (
	"errors"
	"strings"
	"time"
)

// UnreadWindow bounds how long an unread notification stays visible.
const UnreadWindow = 5 * 24 * time.Hour

var (
	ErrEmptyTitle   = errors.New("notification title is required")
	ErrEmptyMessage = errors.New("notification message is required")
)

// Notification is a short message shown on the shop dashboard until read.
type Notification struct {
	ID        int64
	Title     string
	Message   string
	Read      bool
	CreatedAt time.Time
}

func NewNotification(title, message string, createdAt time.Time) (*Notification, error) {
	title = strings.TrimSpace(title)
	message = strings.TrimSpace(message)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if message == "" {
		return nil, ErrEmptyMessage
	}
	return &Notification{Title: title, Message: message, CreatedAt: createdAt.UTC()}, nil
}

func (n *Notification) MarkAsRead() {
	n.Read = true
}

// IsUnread reports whether the notification is unread and inside the window ending at now.
func (n *Notification) IsUnread(now time.Time) bool {
	return !n.Read && !n.CreatedAt.Before(now.Add(-UnreadWindow))
}

func (n *Notification) Clone() *Notification {
	if n == nil {
		return nil
	}
	clone := *n
	return &clone
}
