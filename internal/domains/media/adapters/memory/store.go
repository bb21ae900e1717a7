package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/media/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/media/ports"
)

var _ ports.ObjectStore = (*Store)(nil)

// Store keeps objects in memory and serves them under a fixed prefix.
type Store struct {
	mu      sync.RWMutex
	objects map[string]domain.Object
	baseURL string
}

func NewStore(baseURL string) *Store {
	return &Store{objects: map[string]domain.Object{}, baseURL: baseURL}
}

func (s *Store) Put(_ context.Context, object domain.Object) (string, error) {
	object.Data = append([]byte(nil), object.Data...)
	s.mu.Lock()
	s.objects[object.Key()] = object
	s.mu.Unlock()
	return s.baseURL + "/" + object.Key(), nil
}

// Get returns a stored object by key.
func (s *Store) Get(key string) (domain.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	object, ok := s.objects[key]
	return object, ok
}

// Len reports how many objects are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
