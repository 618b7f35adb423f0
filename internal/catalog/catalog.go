package catalog

import (
	"github.com/shopspring/decimal"
)

// Product is an immutable snapshot of a catalog entry from a single fetch.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	// StockQuantity is nil when the catalog did not report stock for
	// the product. Stock carries the legacy field some responses use
	// instead.
	StockQuantity *int
	Stock         *int
	Images        []string
}

// Image returns the first catalog image, or empty when none were sent.
func (p Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
