package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore persists intake keys in PostgreSQL.
type IdempotencyStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewIdempotencyStore(db *gorm.DB) *IdempotencyStore {
	return &IdempotencyStore{db: db, now: time.Now}
}

// IdempotencyRecord is one intake key and the order it opened. A zero
// service_order_id marks a pending reservation.
type IdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:service_order_id;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (IdempotencyRecord) TableName() string { return "service_order_idempotency_keys" }

// Get loads a record by key, returning nil when absent.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (*ports.IdempotencyRecord, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record IdempotencyRecord
	if err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toPortIdempotencyRecord(&record), nil
}

// Reserve inserts a pending row unless the key is taken. A stale pending row
// is taken over with a conditional update so only one caller wins it.
func (s *IdempotencyStore) Reserve(ctx context.Context, key, requestHash string) (*ports.IdempotencyRecord, bool, error) {
	if err := s.ensureDB(); err != nil {
		return nil, false, err
	}
	now := s.now().UTC()
	row := IdempotencyRecord{Key: key, RequestHash: requestHash, CreatedAt: now, UpdatedAt: now}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return toPortIdempotencyRecord(&row), true, nil
	}

	takeover := s.db.WithContext(ctx).Model(&IdempotencyRecord{}).
		Where("key = ? AND service_order_id = 0 AND updated_at < ?", key, now.Add(-ports.PendingReservationTTL)).
		Updates(map[string]any{"request_hash": requestHash, "created_at": now, "updated_at": now})
	if takeover.Error != nil {
		return nil, false, takeover.Error
	}
	stored, err := s.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, errors.New("idempotency key vanished after insert")
	}
	return stored, takeover.RowsAffected == 1, nil
}

// Complete fills in the order id of a pending reservation.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, orderID int64) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&IdempotencyRecord{}).
		Where("key = ? AND (service_order_id = 0 OR service_order_id = ?)", key, orderID).
		Updates(map[string]any{"service_order_id": orderID, "updated_at": s.now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}
	stored, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if stored == nil {
		return ports.ErrKeyNotReserved
	}
	return ports.ErrIdempotencyConflict
}

// Release deletes the key only while it is still pending.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("key = ? AND service_order_id = 0", key).
		Delete(&IdempotencyRecord{}).Error
}

func (s *IdempotencyStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres idempotency store not configured")
	}
	return nil
}

func toPortIdempotencyRecord(rec *IdempotencyRecord) *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         rec.Key,
		RequestHash: rec.RequestHash,
		OrderID:     rec.OrderID,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
