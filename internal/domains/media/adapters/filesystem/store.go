package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/media/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/media/ports"
)

var _ ports.ObjectStore = (*Store)(nil)

// Store writes objects below a root directory that the API serves statically.
type Store struct {
	root    string
	baseURL string
}

// NewStore creates the root directory if needed. baseURL is the path the root is mounted at, e.g. "/uploads".
func NewStore(root, baseURL string) (*Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("media root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &Store{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Put writes the object atomically and returns its public URL.
func (s *Store) Put(ctx context.Context, object domain.Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := object.Key()
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create media folder: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(object.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("store %s: %w", key, err)
	}
	return path.Join(s.baseURL, key), nil
}
