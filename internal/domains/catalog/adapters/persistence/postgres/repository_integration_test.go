//go:build integration
// +build integration

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

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/ports"
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

func TestPostgresRepository_ProductLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	first, err := domain.NewProduct("prod-1", "Canvas Sneakers", "Low top", "Stride", domain.CategoryFashion, decimal.RequireFromString("54.90"))
	require.NoError(t, err)
	first.Variants = []domain.Variant{{Name: "white", Images: []string{"/uploads/products/white.png"}}}
	saved, err := repo.Save(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/products/white.png", saved.Entity.ImageURL())
	assert.True(t, decimal.RequireFromString("54.90").Equal(saved.Entity.Price))

	second, err := domain.NewProduct("prod-2", "Desk Lamp", "", "Lumen", domain.CategoryElectronics, decimal.RequireFromString("25"))
	require.NoError(t, err)
	second.Featured = true
	_, err = repo.Save(ctx, second)
	require.NoError(t, err)

	first.Featured = true
	first.Variants = nil
	updated, err := repo.Save(ctx, first)
	require.NoError(t, err)
	assert.True(t, updated.Entity.Featured)
	assert.Empty(t, updated.Entity.Variants)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "prod-1", list[0].Entity.ID)

	deleted, err := repo.Delete(ctx, "prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	deleted, err = repo.Delete(ctx, "prod-1")
	require.NoError(t, err)
	assert.Zero(t, deleted)

	_, err = repo.GetByID(ctx, "prod-1")
	require.ErrorIs(t, err, ports.ErrNotFound)
}
