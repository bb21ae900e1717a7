package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront-api/internal/domains/orders/domain"
)

// DateLayout renders dates like "Mar 1, 2024".
const DateLayout = "Jan 2, 2006"

// FormatDate renders an optional timestamp for the tracking page.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "Not set"
	}
	return t.Format(DateLayout)
}

// FormatPrice renders a money amount with two decimals.
func FormatPrice(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatShippingAddress renders the checkout address on one line.
func FormatShippingAddress(shipping domain.ShippingForm) string {
	return shipping.Format()
}
