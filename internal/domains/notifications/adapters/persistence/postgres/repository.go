package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/repairshop-api/internal/domains/notifications/domain"
	"github.com/Apurer/repairshop-api/internal/domains/notifications/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists notifications in PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller owns DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&NotificationRecord{})
	}
	return repo
}

type NotificationRecord struct {
	ID        int64     `gorm:"primaryKey;column:id;autoIncrement"`
	Title     string    `gorm:"column:title;type:varchar(200)"`
	Message   string    `gorm:"column:message;type:text"`
	Read      bool      `gorm:"column:read;index"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (NotificationRecord) TableName() string { return "notifications" }

func (r *Repository) Save(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if n == nil {
		return nil, errors.New("notification is nil")
	}
	rec := toRecord(n)
	db := r.db.WithContext(ctx)
	if rec.ID == 0 {
		if err := db.Create(&rec).Error; err != nil {
			return nil, err
		}
		return toDomain(rec), nil
	}
	var existing int64
	if err := db.Model(&NotificationRecord{}).Where("id = ?", rec.ID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing == 0 {
		return nil, ports.ErrNotFound
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "message", "read", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return nil, err
	}
	return toDomain(rec), nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rec NotificationRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return toDomain(rec), nil
}

func (r *Repository) ListUnread(ctx context.Context, since time.Time) ([]*domain.Notification, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var recs []NotificationRecord
	err := r.db.WithContext(ctx).
		Where("read = ? AND created_at >= ?", false, since.UTC()).
		Order("created_at DESC").Order("id DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Notification, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toDomain(rec))
	}
	return out, nil
}

// PurgeRead removes read notifications created before cutoff. Use for housekeeping or cron.
func (r *Repository) PurgeRead(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	res := r.db.WithContext(ctx).Where("read = ? AND created_at < ?", true, cutoff.UTC()).Delete(&NotificationRecord{})
	return res.RowsAffected, res.Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres notification repository not configured")
	}
	return nil
}

func toRecord(n *domain.Notification) NotificationRecord {
	return NotificationRecord{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.UTC(),
	}
}

func toDomain(rec NotificationRecord) *domain.Notification {
	return &domain.Notification{
		ID:        rec.ID,
		Title:     rec.Title,
		Message:   rec.Message,
		Read:      rec.Read,
		CreatedAt: rec.CreatedAt.UTC(),
	}
}
