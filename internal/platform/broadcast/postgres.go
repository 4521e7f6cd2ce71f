package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DefaultChannel is the LISTEN/NOTIFY channel shared by the api and the worker.
const DefaultChannel = "repairshop_changes"

// PostgresNotifier publishes messages with pg_notify so every process
// listening on the channel receives them.
type PostgresNotifier struct {
	db      *gorm.DB
	channel string
}

func NewPostgresNotifier(db *gorm.DB, channel string) *PostgresNotifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &PostgresNotifier{db: db, channel: channel}
}

func (n *PostgresNotifier) Broadcast(ctx context.Context, message string) error {
	if n == nil || n.db == nil {
		return errors.New("postgres notifier not configured")
	}
	return n.db.WithContext(ctx).Exec("SELECT pg_notify(?, ?)", n.channel, message).Error
}

// Listener relays NOTIFY payloads from PostgreSQL into a local hub.
type Listener struct {
	listener *pq.Listener
	hub      *Hub
	logger   *slog.Logger
}

// NewListener opens a dedicated LISTEN connection on channel.
func NewListener(dsn, channel string, hub *Hub, logger *slog.Logger) (*Listener, error) {
	if channel == "" {
		channel = DefaultChannel
	}
	report := func(ev pq.ListenerEventType, err error) {
		if err != nil && logger != nil {
			logger.Warn("postgres listener event", slog.Int("event", int(ev)), slog.String("error", err.Error()))
		}
	}
	l := pq.NewListener(dsn, 2*time.Second, time.Minute, report)
	if err := l.Listen(channel); err != nil {
		_ = l.Close()
		return nil, err
	}
	return &Listener{listener: l, hub: hub, logger: logger}, nil
}

// Run forwards notifications until ctx is cancelled, then closes the connection.
func (l *Listener) Run(ctx context.Context) error {
	defer l.listener.Close()
	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-l.listener.Notify:
			// nil after a reconnect; messages sent while disconnected are lost.
			if n == nil {
				continue
			}
			if err := l.hub.Broadcast(ctx, n.Extra); err != nil {
				if errors.Is(err, ErrClosed) {
					return nil
				}
				return err
			}
		case <-ping.C:
			if err := l.listener.Ping(); err != nil && l.logger != nil {
				l.logger.Warn("postgres listener ping failed", slog.String("error", err.Error()))
			}
		}
	}
}
