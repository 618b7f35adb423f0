package cart

import (
	"github.com/shopspring/decimal"

	"github.com/salessavvy/storefront/internal/gateway"
	pkgerrors "github.com/salessavvy/storefront/pkg/errors"
)

// Item is one reconciled cart line. TotalPrice always equals
// PricePerUnit * Quantity rounded to two decimals.
type Item struct {
	ProductID     string
	Name          string
	Description   string
	ImageURL      string
	Quantity      int
	PricePerUnit  decimal.Decimal
	TotalPrice    decimal.Decimal
	StockQuantity *int
}

// Snapshot is the client's view of the server-side cart at a point in
// time. Snapshots are never mutated: every successful operation produces
// a replacement.
type Snapshot struct {
	Username string
	Items    []Item
	Subtotal decimal.Decimal
}

// Empty reports whether the cart has no lines.
func (s Snapshot) Empty() bool {
	return len(s.Items) == 0
}

// TotalQuantity sums line quantities, the number shown on the cart badge.
func (s Snapshot) TotalQuantity() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

// QuantityByProduct maps product ids to their cart quantity.
func (s Snapshot) QuantityByProduct() map[string]int {
	byProduct := make(map[string]int, len(s.Items))
	for _, item := range s.Items {
		byProduct[item.ProductID] = item.Quantity
	}
	return byProduct
}

// Item returns the line for a product, if present.
func (s Snapshot) Item(productID string) (Item, bool) {
	for _, item := range s.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return Item{}, false
}

func (s Snapshot) clone() Snapshot {
	items := make([]Item, len(s.Items))
	copy(items, s.Items)
	return Snapshot{Username: s.Username, Items: items, Subtotal: s.Subtotal}
}

// snapshotFromPayload normalizes a server cart payload: numeric strings
// become fixed-point decimals and every line total is recomputed from its
// unit price so the invariant holds regardless of what the server sent.
func snapshotFromPayload(payload *gateway.CartPayload) (Snapshot, error) {
	items := make([]Item, 0, len(payload.Cart.Products))
	subtotal := decimal.Zero
	for _, p := range payload.Cart.Products {
		unitPrice, err := decimal.NewFromString(p.PricePerUnit.String())
		if err != nil {
			return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeServer, err, "unparseable price for product "+p.ProductID.String())
		}
		unitPrice = unitPrice.Round(2)
		total := lineTotal(unitPrice, p.Quantity)
		items = append(items, Item{
			ProductID:     p.ProductID.String(),
			Name:          p.Name,
			Description:   p.Description,
			ImageURL:      p.ImageURL,
			Quantity:      p.Quantity,
			PricePerUnit:  unitPrice,
			TotalPrice:    total,
			StockQuantity: p.StockQuantity,
		})
		subtotal = subtotal.Add(total)
	}
	return Snapshot{
		Username: payload.Username,
		Items:    items,
		Subtotal: subtotal,
	}, nil
}

func lineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
