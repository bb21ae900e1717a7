//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront-api/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("storefront_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, migrations.Run(db))

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newOrder(t *testing.T, id, userID string, placedAt time.Time) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(id, userID,
		[]domain.LineItem{
			{ProductID: "p-1", Name: "Trail Runner", Brand: "Stride", UnitPrice: decimal.RequireFromString("120.00"), Quantity: 1},
			{ProductID: "p-2", Name: "Socks", UnitPrice: decimal.RequireFromString("4.50"), Quantity: 3},
		},
		domain.Totals{},
		domain.ShippingForm{Address: "5 Oak Ave", Apartment: "2B", City: "Austin", State: "TX", ZipCode: "73301"},
		domain.PriorityHigh, placedAt)
	require.NoError(t, err)
	return order
}

func TestPostgresRepository_SaveAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	placedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	saved, err := repo.Save(ctx, newOrder(t, "7d9f1c2a-0000-4000-8000-000000000001", "user-1", placedAt))
	require.NoError(t, err)
	assert.False(t, saved.Metadata.CreatedAt.IsZero())

	loaded, err := repo.GetByID(ctx, saved.Entity.ID)
	require.NoError(t, err)
	order := loaded.Entity
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.Equal(t, domain.PriorityHigh, order.Priority)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Trail Runner", order.Items[0].Name)
	assert.True(t, decimal.RequireFromString("133.5").Equal(order.Total))
	assert.Equal(t, "5 Oak Ave, 2B, Austin, TX 73301", order.Shipping.Format())
	assert.True(t, placedAt.Equal(order.CreatedAt))
	assert.NoError(t, order.Validate())
}

func TestPostgresRepository_SavePersistsTransitions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	placedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	order := newOrder(t, "7d9f1c2a-0000-4000-8000-000000000002", "user-1", placedAt)
	_, err := repo.Save(ctx, order)
	require.NoError(t, err)

	require.NoError(t, order.Cancel(placedAt.Add(time.Hour)))
	_, err = repo.Save(ctx, order)
	require.NoError(t, err)

	loaded, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, loaded.Entity.Status)
	require.NotNil(t, loaded.Entity.CancelledAt)
	assert.True(t, placedAt.Add(time.Hour).Equal(*loaded.Entity.CancelledAt))
}

func TestPostgresRepository_ListByUserNewestFirst(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	_, err := repo.Save(ctx, newOrder(t, "7d9f1c2a-0000-4000-8000-000000000010", "user-1", base))
	require.NoError(t, err)
	_, err = repo.Save(ctx, newOrder(t, "7d9f1c2a-0000-4000-8000-000000000011", "user-1", base.Add(time.Hour)))
	require.NoError(t, err)
	_, err = repo.Save(ctx, newOrder(t, "7d9f1c2a-0000-4000-8000-000000000012", "user-2", base))
	require.NoError(t, err)

	list, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "7d9f1c2a-0000-4000-8000-000000000011", list[0].Entity.ID)
}

func TestPostgresRepository_GetByIDNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	_, err := NewRepository(db).GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPostgresIdempotencyStore_Conflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()

	_, err := store.Save(ctx, ports.IdempotencyRecord{Key: "checkout-1", RequestHash: "abc", OrderID: "o-1"})
	require.NoError(t, err)

	replay, err := store.Save(ctx, ports.IdempotencyRecord{Key: "checkout-1", RequestHash: "abc", OrderID: "o-1"})
	require.NoError(t, err)
	assert.Equal(t, "o-1", replay.OrderID)

	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "checkout-1", RequestHash: "def", OrderID: "o-2"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)

	missing, err := store.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgresIdempotencyStore_PurgeOlderThan(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := store.Save(ctx, ports.IdempotencyRecord{Key: "stale", RequestHash: "abc", OrderID: "o-1", CreatedAt: now.Add(-48 * time.Hour)})
	require.NoError(t, err)
	_, err = store.Save(ctx, ports.IdempotencyRecord{Key: "fresh", RequestHash: "def", OrderID: "o-2", CreatedAt: now})
	require.NoError(t, err)

	purged, err := store.PurgeOlderThan(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, purged)

	stale, err := store.Get(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, stale)
	fresh, err := store.Get(ctx, "fresh")
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.Equal(t, "o-2", fresh.OrderID)
}

func TestPostgresRepository_UpdateRejectsStaleStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()
	placedAt := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	order := newOrder(t, "7d9f1c2a-0000-4000-8000-000000000005", "user-1", placedAt)
	_, err := repo.Save(ctx, order)
	require.NoError(t, err)

	picked := order.Clone()
	require.NoError(t, picked.Advance(domain.StatusOutForDelivery, placedAt.Add(time.Hour)))
	_, err = repo.Update(ctx, picked, domain.StatusPending)
	require.NoError(t, err)

	require.NoError(t, order.Cancel(placedAt.Add(2*time.Hour)))
	_, err = repo.Update(ctx, order, domain.StatusPending)
	require.ErrorIs(t, err, ports.ErrStaleOrder)

	loaded, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutForDelivery, loaded.Entity.Status)
	assert.NotNil(t, loaded.Entity.PickedAt)
	assert.Nil(t, loaded.Entity.CancelledAt)

	_, err = repo.Update(ctx, newOrder(t, "7d9f1c2a-0000-4000-8000-000000000006", "user-1", placedAt), domain.StatusPending)
	require.ErrorIs(t, err, ports.ErrNotFound)
}
