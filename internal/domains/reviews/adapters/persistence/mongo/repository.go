package mongo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/reviews/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

// CollectionName is the collection holding review documents.
const CollectionName = "reviews"

var _ ports.Repository = (*Repository)(nil)

// Repository persists reviews as MongoDB documents.
type Repository struct {
	collection *mongo.Collection
	now        func() time.Time
}

func NewRepository(db *mongo.Database) *Repository {
	repo := &Repository{now: time.Now}
	if db == nil {
		return repo
	}
	repo.collection = db.Collection(CollectionName)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := repo.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "productId", Value: 1}, {Key: "reviewedAt", Value: -1}},
		Options: options.Index().SetName("idx_reviews_product_reviewed"),
	}); err != nil {
		slog.Warn("mongo review repository index creation failed", slog.String("error", err.Error()))
	}
	return repo
}

type reviewDocument struct {
	ID         string    `bson:"_id"`
	ProductID  string    `bson:"productId"`
	UserID     string    `bson:"userId"`
	Rating     int       `bson:"rating"`
	Title      string    `bson:"title"`
	Comment    string    `bson:"comment,omitempty"`
	Images     []string  `bson:"images"`
	ReviewedAt time.Time `bson:"reviewedAt"`
	CreatedAt  time.Time `bson:"createdAt"`
}

func (r *Repository) Save(ctx context.Context, review *domain.Review) (*projection.Projection[*domain.Review], error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	if review == nil {
		return nil, errors.New("cannot save nil review")
	}
	doc := reviewDocument{
		ID:         review.ID,
		ProductID:  review.ProductID,
		UserID:     review.UserID,
		Rating:     review.Rating,
		Title:      review.Title,
		Comment:    review.Comment,
		Images:     append([]string{}, review.Images...),
		ReviewedAt: review.CreatedAt,
		CreatedAt:  r.now().UTC(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toProjection(), nil
}

func (r *Repository) ListByProduct(ctx context.Context, productID string) ([]*projection.Projection[*domain.Review], error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "reviewedAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"productId": productID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Review], 0, len(docs))
	for _, doc := range docs {
		list = append(list, doc.toProjection())
	}
	return list, nil
}

func (r *Repository) ensureCollection() error {
	if r == nil || r.collection == nil {
		return errors.New("mongo review repository not configured")
	}
	return nil
}

func (d reviewDocument) toProjection() *projection.Projection[*domain.Review] {
	return &projection.Projection[*domain.Review]{
		Entity: &domain.Review{
			ID:        d.ID,
			ProductID: d.ProductID,
			UserID:    d.UserID,
			Rating:    d.Rating,
			Title:     d.Title,
			Comment:   d.Comment,
			Images:    append([]string(nil), d.Images...),
			CreatedAt: d.ReviewedAt.UTC(),
		},
		Metadata: projection.Metadata{CreatedAt: d.CreatedAt, UpdatedAt: d.CreatedAt},
	}
}
