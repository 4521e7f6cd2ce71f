package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/domain"
	"github.com/Apurer/repairshop-api/internal/domains/serviceorders/ports"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists service orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&ServiceOrderRecord{})
	}
	return repo
}

// ServiceOrderRecord maps the service order aggregate, product included, to one table.
type ServiceOrderRecord struct {
	ID            int64  `gorm:"primaryKey;column:id;autoIncrement"`
	SecurityCode  string `gorm:"column:security_code;type:char(4)"`
	CustomerID    int64  `gorm:"column:customer_id;index"`
	CustomerName  string `gorm:"column:customer_name"`
	CustomerPhone string `gorm:"column:customer_phone"`
	Enterprise    string `gorm:"column:enterprise;type:varchar(32)"`

	ProductBrand        string `gorm:"column:product_brand"`
	ProductModel        string `gorm:"column:product_model"`
	ProductSerialNumber string `gorm:"column:product_serial_number;index"`
	ProductDefect       string `gorm:"column:product_defect"`
	ProductAccessories  string `gorm:"column:product_accessories"`
	ProductType         string `gorm:"column:product_type;type:varchar(32)"`
	ProductLocation     string `gorm:"column:product_location"`

	EntryDate        time.Time  `gorm:"column:entry_date"`
	InspectionDate   *time.Time `gorm:"column:inspection_date"`
	ResponseDate     *time.Time `gorm:"column:response_date"`
	RepairDate       *time.Time `gorm:"column:repair_date"`
	PurchasePartDate *time.Time `gorm:"column:purchase_part_date"`
	DeliveryDate     *time.Time `gorm:"column:delivery_date"`

	Solution        string          `gorm:"column:solution"`
	Guarantee       string          `gorm:"column:guarantee"`
	EstimateMessage string          `gorm:"column:estimate_message"`
	PartCost        decimal.Decimal `gorm:"column:part_cost;type:numeric(18,2);not null;default:0"`
	LaborCost       decimal.Decimal `gorm:"column:labor_cost;type:numeric(18,2);not null;default:0"`

	Status       string `gorm:"column:status;type:varchar(32);index:idx_service_orders_state"`
	RepairStatus string `gorm:"column:repair_status;type:varchar(32);index:idx_service_orders_state"`
	RepairResult string `gorm:"column:repair_result;type:varchar(32)"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (ServiceOrderRecord) TableName() string { return "service_orders" }

// Save inserts a new order or upserts an existing one. The security code is never rewritten.
func (r *Repository) Save(ctx context.Context, order *domain.ServiceOrder) (*domain.ServiceOrder, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("service order is nil")
	}
	record := toRecord(order)
	db := r.db.WithContext(ctx)
	if record.ID == 0 {
		if err := db.Create(&record).Error; err != nil {
			return nil, err
		}
		return r.GetByID(ctx, record.ID)
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"customer_id":           record.CustomerID,
			"customer_name":         record.CustomerName,
			"customer_phone":        record.CustomerPhone,
			"enterprise":            record.Enterprise,
			"product_brand":         record.ProductBrand,
			"product_model":         record.ProductModel,
			"product_serial_number": record.ProductSerialNumber,
			"product_defect":        record.ProductDefect,
			"product_accessories":   record.ProductAccessories,
			"product_type":          record.ProductType,
			"product_location":      record.ProductLocation,
			"inspection_date":       record.InspectionDate,
			"response_date":         record.ResponseDate,
			"repair_date":           record.RepairDate,
			"purchase_part_date":    record.PurchasePartDate,
			"delivery_date":         record.DeliveryDate,
			"solution":              record.Solution,
			"guarantee":             record.Guarantee,
			"estimate_message":      record.EstimateMessage,
			"part_cost":             record.PartCost,
			"labor_cost":            record.LaborCost,
			"status":                record.Status,
			"repair_status":         record.RepairStatus,
			"repair_result":         record.RepairResult,
			"updated_at":            gorm.Expr("NOW()"),
		}),
	}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a service order by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ServiceOrder, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record ServiceOrderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain()
}

// List returns one page of all service orders ordered by id.
func (r *Repository) List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.ServiceOrder], error) {
	return r.page(ctx, page, nil)
}

// ListQueue returns one page of the orders matching a dashboard queue.
func (r *Repository) ListQueue(ctx context.Context, queue domain.Queue, page pagination.Request) (pagination.Page[*domain.ServiceOrder], error) {
	scope, err := queueScope(queue)
	if err != nil {
		return pagination.Page[*domain.ServiceOrder]{}, err
	}
	return r.page(ctx, page, scope)
}

func (r *Repository) CountQueue(ctx context.Context, queue domain.Queue) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	scope, err := queueScope(queue)
	if err != nil {
		return 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&ServiceOrderRecord{}).Scopes(scope).Count(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *Repository) page(ctx context.Context, page pagination.Request, scope func(*gorm.DB) *gorm.DB) (pagination.Page[*domain.ServiceOrder], error) {
	if err := r.ensureDB(); err != nil {
		return pagination.Page[*domain.ServiceOrder]{}, err
	}
	if err := page.Validate(); err != nil {
		return pagination.Page[*domain.ServiceOrder]{}, err
	}
	base := r.db.WithContext(ctx).Model(&ServiceOrderRecord{})
	if scope != nil {
		base = base.Scopes(scope)
	}
	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return pagination.Page[*domain.ServiceOrder]{}, err
	}
	var records []ServiceOrderRecord
	if err := base.Session(&gorm.Session{}).
		Order("id").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&records).Error; err != nil {
		return pagination.Page[*domain.ServiceOrder]{}, err
	}
	orders := make([]*domain.ServiceOrder, 0, len(records))
	for i := range records {
		o, err := records[i].toDomain()
		if err != nil {
			return pagination.Page[*domain.ServiceOrder]{}, err
		}
		orders = append(orders, o)
	}
	return pagination.NewPage(orders, int(total), page), nil
}

// queueScope mirrors domain.Queue.Matches in SQL.
func queueScope(queue domain.Queue) (func(*gorm.DB) *gorm.DB, error) {
	switch queue {
	case domain.QueuePendingEstimate:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ? AND repair_status = ?", string(domain.StatusEntered), string(domain.RepairStatusEntered))
		}, nil
	case domain.QueueWaitingResponse:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ? AND repair_status = ?", string(domain.StatusEvaluated), string(domain.RepairStatusWaiting))
		}, nil
	case domain.QueuePendingPurchase:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ? AND repair_status = ? AND purchase_part_date IS NULL",
				string(domain.StatusEvaluated), string(domain.RepairStatusApproved))
		}, nil
	case domain.QueueWaitingParts:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ? AND repair_status = ? AND purchase_part_date IS NOT NULL",
				string(domain.StatusOrderPart), string(domain.RepairStatusApproved))
		}, nil
	case domain.QueueWaitingPickup:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("(status = ? OR (status = ? AND (repair_status = ? OR repair_result IN ?)))",
				string(domain.StatusRepaired), string(domain.StatusEvaluated), string(domain.RepairStatusDisapproved),
				[]string{string(domain.RepairResultUnrepaired), string(domain.RepairResultNoDefectFound)})
		}, nil
	case domain.QueueDelivered:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("status = ?", string(domain.StatusDelivered))
		}, nil
	}
	return nil, domain.ErrInvalidQueue
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres service order repository not configured")
	}
	return nil
}

func toRecord(o *domain.ServiceOrder) ServiceOrderRecord {
	return ServiceOrderRecord{
		ID:                  o.ID,
		SecurityCode:        o.SecurityCode,
		CustomerID:          o.CustomerID,
		CustomerName:        o.Customer.Name,
		CustomerPhone:       o.Customer.Phone,
		Enterprise:          string(o.Enterprise),
		ProductBrand:        o.Product.Brand.String(),
		ProductModel:        o.Product.Model.String(),
		ProductSerialNumber: o.Product.SerialNumber.String(),
		ProductDefect:       o.Product.Defect.String(),
		ProductAccessories:  o.Product.Accessories,
		ProductType:         string(o.Product.Type),
		ProductLocation:     o.Product.Location,
		EntryDate:           o.EntryDate,
		InspectionDate:      o.InspectionDate,
		ResponseDate:        o.ResponseDate,
		RepairDate:          o.RepairDate,
		PurchasePartDate:    o.PurchasePartDate,
		DeliveryDate:        o.DeliveryDate,
		Solution:            o.Solution.String(),
		Guarantee:           o.Guarantee.String(),
		EstimateMessage:     o.EstimateMessage,
		PartCost:            o.PartCost.Decimal(),
		LaborCost:           o.LaborCost.Decimal(),
		Status:              string(o.Status),
		RepairStatus:        string(o.RepairStatus),
		RepairResult:        string(o.RepairResult),
	}
}

func (r ServiceOrderRecord) toDomain() (*domain.ServiceOrder, error) {
	product, err := domain.NewProduct(r.ProductBrand, r.ProductModel, r.ProductSerialNumber,
		r.ProductDefect, r.ProductAccessories, domain.ProductType(r.ProductType))
	if err != nil {
		return nil, err
	}
	product.Location = r.ProductLocation
	partCost, err := domain.NewPartCost(r.PartCost)
	if err != nil {
		return nil, err
	}
	laborCost, err := domain.NewLaborCost(r.LaborCost)
	if err != nil {
		return nil, err
	}
	o := &domain.ServiceOrder{
		ID:           r.ID,
		SecurityCode: r.SecurityCode,
		CustomerID:   r.CustomerID,
		Customer: domain.CustomerRef{
			ID:    r.CustomerID,
			Name:  r.CustomerName,
			Phone: r.CustomerPhone,
		},
		Product:          product,
		Enterprise:       domain.Enterprise(r.Enterprise),
		EntryDate:        r.EntryDate.UTC(),
		InspectionDate:   utc(r.InspectionDate),
		ResponseDate:     utc(r.ResponseDate),
		RepairDate:       utc(r.RepairDate),
		PurchasePartDate: utc(r.PurchasePartDate),
		DeliveryDate:     utc(r.DeliveryDate),
		EstimateMessage:  r.EstimateMessage,
		PartCost:         partCost,
		LaborCost:        laborCost,
		Status:           domain.Status(r.Status),
		RepairStatus:     domain.RepairStatus(r.RepairStatus),
		RepairResult:     domain.RepairResult(r.RepairResult),
	}
	if r.Solution != "" {
		if o.Solution, err = domain.NewSolution(r.Solution); err != nil {
			return nil, err
		}
	}
	if r.Guarantee != "" {
		if o.Guarantee, err = domain.NewGuarantee(r.Guarantee); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
