package types

import (
	"github.com/Apurer/go-gin-storefront-api/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

// ProductProjection is the read model returned by catalog use cases.
type ProductProjection = projection.Projection[*domain.Product]
