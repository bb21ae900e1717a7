package application

import (
	"context"
	"fmt"
	"time"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/media/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/domains/media/ports"
)

// Service stores product images.
type Service struct {
	store ports.ObjectStore
	now   func() time.Time
}

// Option customises the media service.
type Option func(*Service)

// WithClock overrides the time used for public ids.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the media service to an object store.
func NewService(store ports.ObjectStore, opts ...Option) *Service {
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Upload validates every file before storing any of them and returns their URLs in request order.
func (s *Service) Upload(ctx context.Context, input ports.UploadInput) ([]string, error) {
	if len(input.Files) == 0 {
		return nil, domain.ErrNoFiles
	}
	objects := make([]domain.Object, 0, len(input.Files))
	for _, file := range input.Files {
		contentType, err := domain.DetectImage(file.Data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file.Filename, err)
		}
		objects = append(objects, domain.Object{Folder: domain.ProductsFolder, ContentType: contentType, Data: file.Data})
	}

	urls := make([]string, 0, len(objects))
	seen := make(map[string]int, len(objects))
	for i := range objects {
		id := domain.PublicID(input.ProductName, s.now())
		if count := seen[id]; count > 0 {
			objects[i].PublicID = fmt.Sprintf("%s-%d", id, i)
		} else {
			objects[i].PublicID = id
		}
		seen[id]++
		url, err := s.store.Put(ctx, objects[i])
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

var _ ports.Service = (*Service)(nil)
