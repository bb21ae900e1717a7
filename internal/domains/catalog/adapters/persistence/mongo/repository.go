package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

// CollectionName is the collection holding product documents.
const CollectionName = "products"

var _ ports.Repository = (*Repository)(nil)

// Repository persists products as MongoDB documents.
type Repository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewRepository wires a MongoDB-backed catalog. The caller owns the client lifecycle.
func NewRepository(db *mongo.Database) *Repository {
	repo := &Repository{now: time.Now}
	if db == nil {
		return repo
	}
	repo.collection = db.Collection(CollectionName)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := repo.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}, Options: options.Index().SetName("idx_products_category")},
		{Keys: bson.D{{Key: "createdAt", Value: 1}}, Options: options.Index().SetName("idx_products_created")},
	}); err != nil {
		slog.Warn("mongo product repository index creation failed", slog.String("error", err.Error()))
	}
	return repo
}

type productDocument struct {
	ID          string            `bson:"_id,omitempty"`
	Name        string            `bson:"name"`
	Description string            `bson:"description,omitempty"`
	Brand       string            `bson:"brand,omitempty"`
	Category    string            `bson:"category"`
	Price       string            `bson:"price"`
	Image       string            `bson:"image,omitempty"`
	Variants    []variantDocument `bson:"variants"`
	Featured    bool              `bson:"featured"`
	CreatedAt   time.Time         `bson:"createdAt,omitempty"`
	UpdatedAt   time.Time         `bson:"updatedAt"`
}

type variantDocument struct {
	Name      string   `bson:"name"`
	Images    []string `bson:"images"`
	Price     string   `bson:"price,omitempty"`
	SalePrice string   `bson:"salePrice,omitempty"`
}

// Save upserts a product document, keeping the original creation time.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("cannot save nil product")
	}
	now := r.now().UTC()
	doc := newProductDocument(product)
	doc.UpdatedAt = now
	update := bson.M{
		"$set":         doc,
		"$setOnInsert": bson.M{"createdAt": now},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": product.ID}, update, options.Update().SetUpsert(true)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, product.ID)
}

// GetByID fetches a product document.
func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Product], error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	var doc productDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return doc.toProjection()
}

// List returns the catalog in creation order.
func (r *Repository) List(ctx context.Context) ([]*projection.Projection[*domain.Product], error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Product], 0, len(docs))
	for i := range docs {
		proj, err := docs[i].toProjection()
		if err != nil {
			return nil, err
		}
		list = append(list, proj)
	}
	return list, nil
}

// Delete removes a product and reports how many documents matched.
func (r *Repository) Delete(ctx context.Context, id string) (int64, error) {
	if err := r.ensureCollection(); err != nil {
		return 0, err
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *Repository) ensureCollection() error {
	if r == nil || r.collection == nil {
		return errors.New("mongo product repository not configured")
	}
	return nil
}

func newProductDocument(product *domain.Product) productDocument {
	variants := make([]variantDocument, 0, len(product.Variants))
	for _, variant := range product.Variants {
		doc := variantDocument{
			Name:   variant.Name,
			Images: append([]string{}, variant.Images...),
			Price:  variant.Price.String(),
		}
		if variant.SalePrice != nil {
			doc.SalePrice = variant.SalePrice.String()
		}
		variants = append(variants, doc)
	}
	return productDocument{
		Name:        product.Name,
		Description: product.Description,
		Brand:       product.Brand,
		Category:    string(product.Category),
		Price:       product.Price.String(),
		Image:       product.Image,
		Variants:    variants,
		Featured:    product.Featured,
	}
}

func (d productDocument) toProjection() (*projection.Projection[*domain.Product], error) {
	price, err := decimal.NewFromString(d.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s price: %w", d.ID, err)
	}
	product := &domain.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Brand:       d.Brand,
		Category:    domain.Category(d.Category),
		Price:       price,
		Image:       d.Image,
		Featured:    d.Featured,
	}
	for _, variant := range d.Variants {
		converted := domain.Variant{Name: variant.Name, Images: append([]string(nil), variant.Images...)}
		if variant.Price != "" {
			if converted.Price, err = decimal.NewFromString(variant.Price); err != nil {
				return nil, fmt.Errorf("product %s variant %q price: %w", d.ID, variant.Name, err)
			}
		}
		if variant.SalePrice != "" {
			sale, err := decimal.NewFromString(variant.SalePrice)
			if err != nil {
				return nil, fmt.Errorf("product %s variant %q sale price: %w", d.ID, variant.Name, err)
			}
			converted.SalePrice = &sale
		}
		product.Variants = append(product.Variants, converted)
	}
	return &projection.Projection[*domain.Product]{
		Entity:   product,
		Metadata: projection.Metadata{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
	}, nil
}
