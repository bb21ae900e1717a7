package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
)

func TestRepository_ListKeepsInsertionOrder(t *testing.T) {
	repo := NewRepository()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.WithClock(func() time.Time { return start })
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		p, err := domain.NewProduct(id, "Product "+id, "", "", domain.CategoryFashion, decimal.NewFromInt(1))
		require.NoError(t, err)
		_, err = repo.Save(ctx, p)
		require.NoError(t, err)
	}
	again, err := repo.GetByID(ctx, "c")
	require.NoError(t, err)
	again.Entity.Featured = true
	_, err = repo.Save(ctx, again.Entity)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	ids := []string{list[0].Entity.ID, list[1].Entity.ID, list[2].Entity.ID}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
	assert.True(t, list[0].Entity.Featured)
}

func TestRepository_DeleteReportsCount(t *testing.T) {
	repo := NewRepository()
	p, err := domain.NewProduct("x", "Cable", "", "", domain.CategoryElectronics, decimal.NewFromInt(3))
	require.NoError(t, err)
	_, err = repo.Save(context.Background(), p)
	require.NoError(t, err)

	deleted, err := repo.Delete(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	deleted, err = repo.Delete(context.Background(), "x")
	require.NoError(t, err)
	assert.Zero(t, deleted)
}
