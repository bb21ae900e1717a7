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

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

// CollectionName is the collection holding order documents.
const CollectionName = "orders"

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders as MongoDB documents.
type Repository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewRepository wires a MongoDB-backed repository and ensures its indexes. The caller owns the client lifecycle.
func NewRepository(db *mongo.Database) *Repository {
	repo := &Repository{now: time.Now}
	if db == nil {
		return repo
	}
	repo.collection = db.Collection(CollectionName)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := repo.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "placedAt", Value: -1}},
		Options: options.Index().SetName("idx_orders_user_placed"),
	}); err != nil {
		slog.Warn("mongo order repository index creation failed", slog.String("error", err.Error()))
	}
	return repo
}

type orderDocument struct {
	ID                string             `bson:"_id,omitempty"`
	UserID            string             `bson:"userId"`
	Status            string             `bson:"status"`
	Priority          string             `bson:"priority"`
	Items             []lineItemDocument `bson:"items"`
	Subtotal          string             `bson:"subtotal"`
	Tax               string             `bson:"tax"`
	ShippingCost      string             `bson:"shippingCost"`
	Total             string             `bson:"total"`
	Shipping          shippingDocument   `bson:"shipping"`
	PlacedAt          time.Time          `bson:"placedAt"`
	AssignedAt        *time.Time         `bson:"assignedAt,omitempty"`
	PickedAt          *time.Time         `bson:"pickedAt,omitempty"`
	DeliveredAt       *time.Time         `bson:"deliveredAt,omitempty"`
	CancelledAt       *time.Time         `bson:"cancelledAt,omitempty"`
	EstimatedDelivery *time.Time         `bson:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt,omitempty"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

type lineItemDocument struct {
	ProductID string `bson:"productId"`
	Name      string `bson:"name"`
	Image     string `bson:"image,omitempty"`
	Brand     string `bson:"brand,omitempty"`
	UnitPrice string `bson:"unitPrice"`
	Quantity  int32  `bson:"quantity"`
}

type shippingDocument struct {
	Address   string `bson:"address"`
	Apartment string `bson:"apartment,omitempty"`
	City      string `bson:"city"`
	State     string `bson:"state"`
	ZipCode   string `bson:"zipCode"`
}

// Save upserts an order document, keeping the original creation time.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("cannot save nil order")
	}
	now := r.now().UTC()
	doc := newOrderDocument(order)
	doc.ID = ""
	doc.UpdatedAt = now
	update := bson.M{
		"$set":         doc,
		"$setOnInsert": bson.M{"createdAt": now},
	}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": order.ID}, update, options.Update().SetUpsert(true)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, order.ID)
}

// Update sets the lifecycle fields of an order document whose stored status is still expected.
func (r *Repository) Update(ctx context.Context, order *domain.Order, expected domain.Status) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("cannot update nil order")
	}
	update := bson.M{"$set": bson.M{
		"status":            string(order.Status),
		"assignedAt":        order.AssignedAt,
		"pickedAt":          order.PickedAt,
		"deliveredAt":       order.DeliveredAt,
		"cancelledAt":       order.CancelledAt,
		"estimatedDelivery": order.EstimatedDelivery,
		"updatedAt":         r.now().UTC(),
	}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": order.ID, "status": string(expected)}, update)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, order.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrStaleOrder
	}
	return r.GetByID(ctx, order.ID)
}

// GetByID fetches an order document by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Order], error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	var doc orderDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return doc.toProjection()
}

// ListByUser returns the user's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]*projection.Projection[*domain.Order], error) {
	if err := r.ensureCollection(); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "placedAt", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Order], 0, len(docs))
	for i := range docs {
		proj, err := docs[i].toProjection()
		if err != nil {
			return nil, err
		}
		list = append(list, proj)
	}
	return list, nil
}

func (r *Repository) ensureCollection() error {
	if r == nil || r.collection == nil {
		return errors.New("mongo order repository not configured")
	}
	return nil
}

func newOrderDocument(order *domain.Order) orderDocument {
	items := make([]lineItemDocument, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, lineItemDocument{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Brand:     item.Brand,
			UnitPrice: item.UnitPrice.String(),
			Quantity:  item.Quantity,
		})
	}
	return orderDocument{
		ID:           order.ID,
		UserID:       order.UserID,
		Status:       string(order.Status),
		Priority:     string(order.Priority),
		Items:        items,
		Subtotal:     order.Subtotal.String(),
		Tax:          order.Tax.String(),
		ShippingCost: order.ShippingCost.String(),
		Total:        order.Total.String(),
		Shipping: shippingDocument{
			Address:   order.Shipping.Address,
			Apartment: order.Shipping.Apartment,
			City:      order.Shipping.City,
			State:     order.Shipping.State,
			ZipCode:   order.Shipping.ZipCode,
		},
		PlacedAt:          order.CreatedAt,
		AssignedAt:        order.AssignedAt,
		PickedAt:          order.PickedAt,
		DeliveredAt:       order.DeliveredAt,
		CancelledAt:       order.CancelledAt,
		EstimatedDelivery: order.EstimatedDelivery,
	}
}

func (d orderDocument) toProjection() (*projection.Projection[*domain.Order], error) {
	items := make([]domain.LineItem, 0, len(d.Items))
	for _, item := range d.Items {
		price, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("order %s item %q price: %w", d.ID, item.Name, err)
		}
		items = append(items, domain.LineItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Brand:     item.Brand,
			UnitPrice: price,
			Quantity:  item.Quantity,
		})
	}
	amounts := make([]decimal.Decimal, 4)
	for i, raw := range []string{d.Subtotal, d.Tax, d.ShippingCost, d.Total} {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("order %s amount: %w", d.ID, err)
		}
		amounts[i] = amount
	}
	order := &domain.Order{
		ID:           d.ID,
		UserID:       d.UserID,
		Status:       domain.Status(d.Status),
		Priority:     domain.Priority(d.Priority),
		Items:        items,
		Subtotal:     amounts[0],
		Tax:          amounts[1],
		ShippingCost: amounts[2],
		Total:        amounts[3],
		Shipping: domain.ShippingForm{
			Address:   d.Shipping.Address,
			Apartment: d.Shipping.Apartment,
			City:      d.Shipping.City,
			State:     d.Shipping.State,
			ZipCode:   d.Shipping.ZipCode,
		},
		CreatedAt:         d.PlacedAt.UTC(),
		AssignedAt:        utcPtr(d.AssignedAt),
		PickedAt:          utcPtr(d.PickedAt),
		DeliveredAt:       utcPtr(d.DeliveredAt),
		CancelledAt:       utcPtr(d.CancelledAt),
		EstimatedDelivery: utcPtr(d.EstimatedDelivery),
	}
	return &projection.Projection[*domain.Order]{
		Entity:   order,
		Metadata: projection.Metadata{CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt},
	}, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	utc := t.UTC()
	return &utc
}
