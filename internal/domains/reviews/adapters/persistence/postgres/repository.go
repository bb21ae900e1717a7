package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists reviews in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. The caller owns the DB lifecycle and applies
// the schema with migrations.Run.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

// Save inserts a review. Reviews are immutable once written.
func (r *Repository) Save(ctx context.Context, review *domain.Review) (*projection.Projection[*domain.Review], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if review == nil {
		return nil, errors.New("cannot save nil review")
	}
	record := reviewRecord{
		ID:         review.ID,
		ProductID:  review.ProductID,
		UserID:     review.UserID,
		Rating:     review.Rating,
		Title:      review.Title,
		Comment:    review.Comment,
		Images:     pq.StringArray(append([]string{}, review.Images...)),
		ReviewedAt: review.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toProjection(), nil
}

// ListByProduct returns the product's reviews, newest first.
func (r *Repository) ListByProduct(ctx context.Context, productID string) ([]*projection.Projection[*domain.Review], error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []reviewRecord
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("reviewed_at DESC").
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Review], 0, len(records))
	for i := range records {
		list = append(list, records[i].toProjection())
	}
	return list, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres review repository not configured")
	}
	return nil
}

func (r reviewRecord) toProjection() *projection.Projection[*domain.Review] {
	return &projection.Projection[*domain.Review]{
		Entity: &domain.Review{
			ID:        r.ID,
			ProductID: r.ProductID,
			UserID:    r.UserID,
			Rating:    r.Rating,
			Title:     r.Title,
			Comment:   r.Comment,
			Images:    append([]string(nil), r.Images...),
			CreatedAt: r.ReviewedAt.UTC(),
		},
		Metadata: projection.Metadata{CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt},
	}
}
