package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle and applies
// the schema with migrations.Run.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productRecord struct {
	ID          string          `gorm:"primaryKey;column:id;size:64"`
	Name        string          `gorm:"column:name"`
	Description string          `gorm:"column:description"`
	Brand       string          `gorm:"column:brand"`
	Category    string          `gorm:"column:category;type:varchar(32);index"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric"`
	Image       string          `gorm:"column:image"`
	Variants    []variantRecord `gorm:"column:variants;type:jsonb;serializer:json"`
	Featured    bool            `gorm:"column:featured;index"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type variantRecord struct {
	Name      string           `json:"name"`
	Images    []string         `json:"images,omitempty"`
	Price     decimal.Decimal  `json:"price"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty"`
}

// Save inserts or updates a product.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("cannot save nil product")
	}
	record := newProductRecord(product)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":        record.Name,
				"description": record.Description,
				"brand":       record.Brand,
				"category":    record.Category,
				"price":       record.Price,
				"image":       record.Image,
				"variants":    gorm.Expr("EXCLUDED.variants"),
				"featured":    record.Featured,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, product.ID)
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toProjection(), nil
}

// List returns every product in creation order.
func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.Product], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Product], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

// Delete removes a product and reports the affected row count.
func (r *Repository) Delete(ctx context.Context, id string) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", id)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func newProductRecord(product *domain.Product) productRecord {
	variants := make([]variantRecord, 0, len(product.Variants))
	for _, variant := range product.Variants {
		variants = append(variants, variantRecord{
			Name:      variant.Name,
			Images:    append([]string(nil), variant.Images...),
			Price:     variant.Price,
			SalePrice: variant.SalePrice,
		})
	}
	return productRecord{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Brand:       product.Brand,
		Category:    string(product.Category),
		Price:       product.Price,
		Image:       product.Image,
		Variants:    variants,
		Featured:    product.Featured,
	}
}

func (r productRecord) toProjection() *projection.Projection[*domain.Product] {
	product := &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Brand:       r.Brand,
		Category:    domain.Category(r.Category),
		Price:       r.Price,
		Image:       r.Image,
		Featured:    r.Featured,
	}
	for _, variant := range r.Variants {
		product.Variants = append(product.Variants, domain.Variant{
			Name:      variant.Name,
			Images:    append([]string(nil), variant.Images...),
			Price:     variant.Price,
			SalePrice: variant.SalePrice,
		})
	}
	return &projection.Projection[*domain.Product]{
		Entity:   product,
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}
