package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/media/domain"
)

func TestStore_PutWritesBelowRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewStore(root, "/uploads/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), domain.Object{
		Folder:      domain.ProductsFolder,
		PublicID:    "lamp-1700000000000",
		ContentType: "image/png",
		Data:        []byte("png-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/products/lamp-1700000000000.png", url)

	data, err := os.ReadFile(filepath.Join(root, "products", "lamp-1700000000000.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	entries, err := os.ReadDir(filepath.Join(root, "products"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_RejectsTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	_, err = store.Put(context.Background(), domain.Object{Folder: "..", PublicID: "escape", ContentType: "image/png"})
	require.Error(t, err)
}

func TestNewStore_RequiresRoot(t *testing.T) {
	_, err := NewStore(" ", "/uploads")
	require.Error(t, err)
}
