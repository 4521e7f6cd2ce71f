package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&customerRecord{},
		&customerOrderRecord{},
		&serviceOrderRecord{},
		&idempotencyKeyRecord{},
		&notificationRecord{},
	)
}

// Customer schema mirrors the customers Postgres adapter.
type customerRecord struct {
	ID           int64     `gorm:"primaryKey;column:id;autoIncrement"`
	Name         string    `gorm:"column:name;type:varchar(200);index"`
	Street       string    `gorm:"column:street"`
	Neighborhood string    `gorm:"column:neighborhood"`
	City         string    `gorm:"column:city"`
	Number       string    `gorm:"column:number;type:varchar(20)"`
	ZipCode      string    `gorm:"column:zip_code;type:varchar(20)"`
	State        string    `gorm:"column:state;type:varchar(2)"`
	Phone        string    `gorm:"column:phone;type:varchar(40)"`
	Phone2       string    `gorm:"column:phone2;type:varchar(40)"`
	Email        string    `gorm:"column:email"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

type customerOrderRecord struct {
	CustomerID     int64     `gorm:"primaryKey;column:customer_id"`
	ServiceOrderID int64     `gorm:"primaryKey;column:service_order_id"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (customerOrderRecord) TableName() string { return "customer_service_orders" }

// Service order schema mirrors the service orders Postgres adapter.
type serviceOrderRecord struct {
	ID                  int64           `gorm:"primaryKey;column:id;autoIncrement"`
	SecurityCode        string          `gorm:"column:security_code;type:char(4)"`
	CustomerID          int64           `gorm:"column:customer_id;index"`
	CustomerName        string          `gorm:"column:customer_name"`
	CustomerPhone       string          `gorm:"column:customer_phone"`
	Enterprise          string          `gorm:"column:enterprise;type:varchar(32)"`
	ProductBrand        string          `gorm:"column:product_brand"`
	ProductModel        string          `gorm:"column:product_model"`
	ProductSerialNumber string          `gorm:"column:product_serial_number;index"`
	ProductDefect       string          `gorm:"column:product_defect"`
	ProductAccessories  string          `gorm:"column:product_accessories"`
	ProductType         string          `gorm:"column:product_type;type:varchar(32)"`
	ProductLocation     string          `gorm:"column:product_location"`
	EntryDate           time.Time       `gorm:"column:entry_date"`
	InspectionDate      *time.Time      `gorm:"column:inspection_date"`
	ResponseDate        *time.Time      `gorm:"column:response_date"`
	RepairDate          *time.Time      `gorm:"column:repair_date"`
	PurchasePartDate    *time.Time      `gorm:"column:purchase_part_date"`
	DeliveryDate        *time.Time      `gorm:"column:delivery_date"`
	Solution            string          `gorm:"column:solution"`
	Guarantee           string          `gorm:"column:guarantee"`
	EstimateMessage     string          `gorm:"column:estimate_message"`
	PartCost            decimal.Decimal `gorm:"column:part_cost;type:numeric(18,2);not null;default:0"`
	LaborCost           decimal.Decimal `gorm:"column:labor_cost;type:numeric(18,2);not null;default:0"`
	Status              string          `gorm:"column:status;type:varchar(32);index:idx_service_orders_state"`
	RepairStatus        string          `gorm:"column:repair_status;type:varchar(32);index:idx_service_orders_state"`
	RepairResult        string          `gorm:"column:repair_result;type:varchar(32)"`
	CreatedAt           time.Time       `gorm:"column:created_at"`
	UpdatedAt           time.Time       `gorm:"column:updated_at"`
}

func (serviceOrderRecord) TableName() string { return "service_orders" }

// Notification schema mirrors the notifications Postgres adapter.
type notificationRecord struct {
	ID        int64     `gorm:"primaryKey;column:id;autoIncrement"`
	Title     string    `gorm:"column:title;type:varchar(200)"`
	Message   string    `gorm:"column:message;type:text"`
	Read      bool      `gorm:"column:read;index"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (notificationRecord) TableName() string { return "notifications" }

type idempotencyKeyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     int64     `gorm:"column:service_order_id;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyKeyRecord) TableName() string { return "service_order_idempotency_keys" }
