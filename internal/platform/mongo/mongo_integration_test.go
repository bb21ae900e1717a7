//go:build integration
// +build integration

package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func TestConnect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcmongo.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	db, cleanup := ConnectOrFallback(ctx, uri, "", nil)
	require.NotNil(t, db)
	defer cleanup()
	require.Equal(t, DefaultDatabase, db.Name())

	_, err = Connect(ctx, "", "storefront")
	require.Error(t, err)
}
