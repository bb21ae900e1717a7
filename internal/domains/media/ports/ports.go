package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/media/domain"
)

// ObjectStore persists uploaded objects and returns the URL they are served from.
type ObjectStore interface {
	Put(ctx context.Context, object domain.Object) (string, error)
}

// File is one uploaded part of a multipart request.
type File struct {
	Filename string
	Data     []byte
}

// UploadInput is the upload command.
type UploadInput struct {
	ProductName string
	Files       []File
}

// Service exposes media use cases to adapters.
type Service interface {
	Upload(ctx context.Context, input UploadInput) ([]string, error)
}
