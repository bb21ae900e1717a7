package types

import (
	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront-api/internal/shared/projection"
)

// OrderProjection transports an order aggregate together with its persistence metadata.
type OrderProjection = projection.Projection[*domain.Order]

// OrderSummary counts a customer's orders for the tracking page header and filter tabs.
type OrderSummary struct {
	Active    int
	Delivered int
	Cancelled int
	Total     int
	ByStatus  map[domain.Status]int
}

// CloneProjectionList duplicates a slice of projections and the orders they carry.
func CloneProjectionList(sources []*OrderProjection) []*OrderProjection {
	if len(sources) == 0 {
		return nil
	}
	result := make([]*OrderProjection, 0, len(sources))
	for _, src := range sources {
		if src == nil {
			continue
		}
		result = append(result, &OrderProjection{Entity: src.Entity.Clone(), Metadata: src.Metadata})
	}
	return result
}
