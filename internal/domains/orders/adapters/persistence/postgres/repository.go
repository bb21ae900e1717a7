package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle and applies
// the schema with migrations.Run.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational row. Line items are embedded as JSON.
type orderRecord struct {
	ID                string           `gorm:"primaryKey;column:id;size:64"`
	UserID            string           `gorm:"column:user_id;size:128;index:idx_orders_user_placed"`
	Status            string           `gorm:"column:status;type:varchar(32);index"`
	Priority          string           `gorm:"column:priority;type:varchar(16)"`
	Items             []lineItemRecord `gorm:"column:items;type:jsonb;serializer:json"`
	Subtotal          decimal.Decimal  `gorm:"column:subtotal;type:numeric"`
	Tax               decimal.Decimal  `gorm:"column:tax;type:numeric"`
	ShippingCost      decimal.Decimal  `gorm:"column:shipping_cost;type:numeric"`
	Total             decimal.Decimal  `gorm:"column:total;type:numeric"`
	ShippingAddress   string           `gorm:"column:shipping_address"`
	ShippingApartment string           `gorm:"column:shipping_apartment"`
	ShippingCity      string           `gorm:"column:shipping_city"`
	ShippingState     string           `gorm:"column:shipping_state"`
	ShippingZipCode   string           `gorm:"column:shipping_zip_code;size:32"`
	PlacedAt          time.Time        `gorm:"column:placed_at;index:idx_orders_user_placed,sort:desc"`
	AssignedAt        *time.Time       `gorm:"column:assigned_at"`
	PickedAt          *time.Time       `gorm:"column:picked_at"`
	DeliveredAt       *time.Time       `gorm:"column:delivered_at"`
	CancelledAt       *time.Time       `gorm:"column:cancelled_at"`
	EstimatedDelivery *time.Time       `gorm:"column:estimated_delivery"`
	CreatedAt         time.Time        `gorm:"column:created_at"`
	UpdatedAt         time.Time        `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type lineItemRecord struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Brand     string          `json:"brand,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int32           `json:"quantity"`
}

// Save inserts or updates an order.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("cannot save nil order")
	}
	record := newOrderRecord(order)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":             record.Status,
				"priority":           record.Priority,
				"assigned_at":        record.AssignedAt,
				"picked_at":          record.PickedAt,
				"delivered_at":       record.DeliveredAt,
				"cancelled_at":       record.CancelledAt,
				"estimated_delivery": record.EstimatedDelivery,
				"updated_at":         gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, order.ID)
}

// Update writes the lifecycle columns of an order whose stored status is still expected.
func (r *Repository) Update(ctx context.Context, order *domain.Order, expected domain.Status) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("cannot update nil order")
	}
	record := newOrderRecord(order)
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND status = ?", order.ID, string(expected)).
		Updates(map[string]any{
			"status":             record.Status,
			"assigned_at":        record.AssignedAt,
			"picked_at":          record.PickedAt,
			"delivered_at":       record.DeliveredAt,
			"cancelled_at":       record.CancelledAt,
			"estimated_delivery": record.EstimatedDelivery,
			"updated_at":         gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, order.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrStaleOrder
	}
	return r.GetByID(ctx, order.ID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*projection.Projection[*domain.Order], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("placed_at DESC").
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Order], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func newOrderRecord(order *domain.Order) orderRecord {
	items := make([]lineItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, lineItemRecord{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Brand:     item.Brand,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return orderRecord{
		ID:                order.ID,
		UserID:            order.UserID,
		Status:            string(order.Status),
		Priority:          string(order.Priority),
		Items:             items,
		Subtotal:          order.Subtotal,
		Tax:               order.Tax,
		ShippingCost:      order.ShippingCost,
		Total:             order.Total,
		ShippingAddress:   order.Shipping.Address,
		ShippingApartment: order.Shipping.Apartment,
		ShippingCity:      order.Shipping.City,
		ShippingState:     order.Shipping.State,
		ShippingZipCode:   order.Shipping.ZipCode,
		PlacedAt:          order.CreatedAt,
		AssignedAt:        order.AssignedAt,
		PickedAt:          order.PickedAt,
		DeliveredAt:       order.DeliveredAt,
		CancelledAt:       order.CancelledAt,
		EstimatedDelivery: order.EstimatedDelivery,
	}
}

func (r orderRecord) toProjection() *projection.Projection[*domain.Order] {
	items := make([]domain.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Brand:     item.Brand,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	order := &domain.Order{
		ID:           r.ID,
		UserID:       r.UserID,
		Status:       domain.Status(r.Status),
		Priority:     domain.Priority(r.Priority),
		Items:        items,
		Subtotal:     r.Subtotal,
		Tax:          r.Tax,
		ShippingCost: r.ShippingCost,
		Total:        r.Total,
		Shipping: domain.ShippingForm{
			Address:   r.ShippingAddress,
			Apartment: r.ShippingApartment,
			City:      r.ShippingCity,
			State:     r.ShippingState,
			ZipCode:   r.ShippingZipCode,
		},
		CreatedAt:         r.PlacedAt.UTC(),
		AssignedAt:        utcPtr(r.AssignedAt),
		PickedAt:          utcPtr(r.PickedAt),
		DeliveredAt:       utcPtr(r.DeliveredAt),
		CancelledAt:       utcPtr(r.CancelledAt),
		EstimatedDelivery: utcPtr(r.EstimatedDelivery),
	}
	return &projection.Projection[*domain.Order]{
		Entity:   order,
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
