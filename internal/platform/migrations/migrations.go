package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the relational schema for every bounded context. Repositories never migrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&idempotencyRecord{},
		&productRecord{},
		&reviewRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID                string          `gorm:"primaryKey;column:id;size:64"`
	UserID            string          `gorm:"column:user_id;size:128;index:idx_orders_user_placed"`
	Status            string          `gorm:"column:status;type:varchar(32);index"`
	Priority          string          `gorm:"column:priority;type:varchar(16)"`
	Items             []orderLineItem `gorm:"column:items;type:jsonb;serializer:json"`
	Subtotal          decimal.Decimal `gorm:"column:subtotal;type:numeric"`
	Tax               decimal.Decimal `gorm:"column:tax;type:numeric"`
	ShippingCost      decimal.Decimal `gorm:"column:shipping_cost;type:numeric"`
	Total             decimal.Decimal `gorm:"column:total;type:numeric"`
	ShippingAddress   string          `gorm:"column:shipping_address"`
	ShippingApartment string          `gorm:"column:shipping_apartment"`
	ShippingCity      string          `gorm:"column:shipping_city"`
	ShippingState     string          `gorm:"column:shipping_state"`
	ShippingZipCode   string          `gorm:"column:shipping_zip_code;size:32"`
	PlacedAt          time.Time       `gorm:"column:placed_at;index:idx_orders_user_placed,sort:desc"`
	AssignedAt        *time.Time      `gorm:"column:assigned_at"`
	PickedAt          *time.Time      `gorm:"column:picked_at"`
	DeliveredAt       *time.Time      `gorm:"column:delivered_at"`
	CancelledAt       *time.Time      `gorm:"column:cancelled_at"`
	EstimatedDelivery *time.Time      `gorm:"column:estimated_delivery"`
	CreatedAt         time.Time       `gorm:"column:created_at"`
	UpdatedAt         time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderLineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Brand     string          `json:"brand,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int32           `json:"quantity"`
}

// Idempotency schema mirrors the order checkout key store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID          string           `gorm:"primaryKey;column:id;size:64"`
	Name        string           `gorm:"column:name"`
	Description string           `gorm:"column:description"`
	Brand       string           `gorm:"column:brand"`
	Category    string           `gorm:"column:category;type:varchar(32);index"`
	Price       decimal.Decimal  `gorm:"column:price;type:numeric"`
	Image       string           `gorm:"column:image"`
	Variants    []productVariant `gorm:"column:variants;type:jsonb;serializer:json"`
	Featured    bool             `gorm:"column:featured;index"`
	CreatedAt   time.Time        `gorm:"column:created_at"`
	UpdatedAt   time.Time        `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type productVariant struct {
	Name      string           `json:"name"`
	Images    []string         `json:"images,omitempty"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
}

// Review schema mirrors the reviews Postgres adapter.
type reviewRecord struct {
	ID         string         `gorm:"primaryKey;column:id;size:64"`
	ProductID  string         `gorm:"column:product_id;size:64;index:idx_reviews_product_reviewed"`
	UserID     string         `gorm:"column:user_id;size:128"`
	Rating     int            `gorm:"column:rating"`
	Title      string         `gorm:"column:title;size:100"`
	Comment    string         `gorm:"column:comment"`
	Images     pq.StringArray `gorm:"column:images;type:text[]"`
	ReviewedAt time.Time      `gorm:"column:reviewed_at;index:idx_reviews_product_reviewed,sort:desc"`
	CreatedAt  time.Time      `gorm:"column:created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (reviewRecord) TableName() string { return "reviews" }
