package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/repairshop-api/internal/domains/customers/domain"
	"github.com/Apurer/repairshop-api/internal/domains/customers/ports"
	"github.com/Apurer/repairshop-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists customers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	repo := &Repository{db: db}
	if db != nil {
		_ = db.AutoMigrate(&CustomerRecord{}, &CustomerOrderRecord{})
	}
	return repo
}

// CustomerRecord maps the customer aggregate to a relational table.
type CustomerRecord struct {
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

func (CustomerRecord) TableName() string { return "customers" }

// CustomerOrderRecord holds the append-only service order index of a customer.
type CustomerOrderRecord struct {
	CustomerID     int64     `gorm:"primaryKey;column:customer_id"`
	ServiceOrderID int64     `gorm:"primaryKey;column:service_order_id"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (CustomerOrderRecord) TableName() string { return "customer_service_orders" }

// Save inserts a customer when its id is zero and updates it otherwise. An
// unknown non-zero id is ErrNotFound. Order links are only ever added.
func (r *Repository) Save(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(customer)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if record.ID == 0 {
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		} else {
			res := tx.Model(&CustomerRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
				"name":         record.Name,
				"street":       record.Street,
				"neighborhood": record.Neighborhood,
				"city":         record.City,
				"number":       record.Number,
				"zip_code":     record.ZipCode,
				"state":        record.State,
				"phone":        record.Phone,
				"phone2":       record.Phone2,
				"email":        record.Email,
				"updated_at":   time.Now().UTC(),
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ports.ErrNotFound
			}
		}
		for _, orderID := range customer.ServiceOrderIDs() {
			if err := linkOrder(tx, record.ID, orderID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// AttachOrder adds one row to the order index without touching the
// customer columns.
func (r *Repository) AttachOrder(ctx context.Context, customerID, orderID int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	var found int64
	if err := r.db.WithContext(ctx).Model(&CustomerRecord{}).Where("id = ?", customerID).Count(&found).Error; err != nil {
		return err
	}
	if found == 0 {
		return ports.ErrNotFound
	}
	return linkOrder(r.db.WithContext(ctx), customerID, orderID)
}

func linkOrder(tx *gorm.DB, customerID, orderID int64) error {
	link := CustomerOrderRecord{CustomerID: customerID, ServiceOrderID: orderID}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

// GetByID fetches a customer with its service order index.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record CustomerRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	links, err := r.orderLinks(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	return record.toDomain(links[id])
}

// List returns one page of customers ordered by name, ties broken by id.
func (r *Repository) List(ctx context.Context, page pagination.Request) (pagination.Page[*domain.Customer], error) {
	if err := r.ensureDB(); err != nil {
		return pagination.Page[*domain.Customer]{}, err
	}
	if err := page.Validate(); err != nil {
		return pagination.Page[*domain.Customer]{}, err
	}
	total, err := r.Count(ctx)
	if err != nil {
		return pagination.Page[*domain.Customer]{}, err
	}
	var records []CustomerRecord
	if err := r.db.WithContext(ctx).
		Order("name, id").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&records).Error; err != nil {
		return pagination.Page[*domain.Customer]{}, err
	}
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	links, err := r.orderLinks(ctx, ids)
	if err != nil {
		return pagination.Page[*domain.Customer]{}, err
	}
	customers := make([]*domain.Customer, 0, len(records))
	for i := range records {
		c, err := records[i].toDomain(links[records[i].ID])
		if err != nil {
			return pagination.Page[*domain.Customer]{}, err
		}
		customers = append(customers, c)
	}
	return pagination.NewPage(customers, total, page), nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var total int64
	if err := r.db.WithContext(ctx).Model(&CustomerRecord{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return int(total), nil
}

func (r *Repository) orderLinks(ctx context.Context, customerIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(customerIDs))
	if len(customerIDs) == 0 {
		return out, nil
	}
	var links []CustomerOrderRecord
	if err := r.db.WithContext(ctx).
		Where("customer_id IN ?", customerIDs).
		Order("created_at, service_order_id").
		Find(&links).Error; err != nil {
		return nil, err
	}
	for _, l := range links {
		out[l.CustomerID] = append(out[l.CustomerID], l.ServiceOrderID)
	}
	return out, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres customer repository not configured")
	}
	return nil
}

func toRecord(c *domain.Customer) CustomerRecord {
	return CustomerRecord{
		ID:           c.ID,
		Name:         c.Name.String(),
		Street:       c.Address.Street(),
		Neighborhood: c.Address.Neighborhood(),
		City:         c.Address.City(),
		Number:       c.Address.Number(),
		ZipCode:      c.Address.ZipCode(),
		State:        c.Address.State(),
		Phone:        c.Phone.String(),
		Phone2:       c.Phone2.String(),
		Email:        c.Email.String(),
	}
}

func (r CustomerRecord) toDomain(orderIDs []int64) (*domain.Customer, error) {
	addr, err := domain.NewAddress(r.Street, r.Neighborhood, r.City, r.Number, r.ZipCode, r.State)
	if err != nil {
		return nil, err
	}
	c, err := domain.NewCustomer(r.ID, r.Name, addr, r.Phone, r.Phone2, r.Email)
	if err != nil {
		return nil, err
	}
	for _, id := range orderIDs {
		c.AddServiceOrder(id)
	}
	return c, nil
}
