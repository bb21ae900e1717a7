package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	catalogdomain "github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
)

// ProductsFolder holds every product image.
const ProductsFolder = "products"

// DefaultProductName names uploads submitted without a product name.
const DefaultProductName = "product"

var (
	ErrNoFiles  = errors.New("no files provided")
	ErrNotImage = errors.New("only image files can be uploaded")
	ErrEmpty    = errors.New("uploaded file is empty")
)

// Object is a stored binary plus the key it is addressed by.
type Object struct {
	Folder      string
	PublicID    string
	ContentType string
	Data        []byte
}

// Key is the folder-relative path of the object, extension included.
func (o Object) Key() string {
	return o.Folder + "/" + o.PublicID + Extension(o.ContentType)
}

// PublicID names an upload after its product and upload time, for example "denim-jacket-1712345678901".
func PublicID(productName string, at time.Time) string {
	name := catalogdomain.Slug(productName)
	if name == "" {
		name = DefaultProductName
	}
	return fmt.Sprintf("%s-%d", name, at.UnixMilli())
}

// DetectImage sniffs the content type and rejects anything that is not an image.
func DetectImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmpty
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: got %s", ErrNotImage, contentType)
	}
	return contentType, nil
}

var extensions = map[string]string{
	"image/png":                ".png",
	"image/jpeg":               ".jpg",
	"image/gif":                ".gif",
	"image/webp":               ".webp",
	"image/bmp":                ".bmp",
	"image/x-icon":             ".ico",
	"image/vnd.microsoft.icon": ".ico",
	"image/svg+xml":            ".svg",
}

// Extension maps an image content type to a file extension.
func Extension(contentType string) string {
	if ext, ok := extensions[contentType]; ok {
		return ext
	}
	if subtype, ok := strings.CutPrefix(contentType, "image/"); ok && subtype != "" {
		return "." + subtype
	}
	return ""
}
