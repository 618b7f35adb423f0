package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/salessavvy/storefront/internal/gateway"
	pkgerrors "github.com/salessavvy/storefront/pkg/errors"
)

// ProductsFromPayload converts a catalog response into the domain
// model, preserving the server's fetch order.
func ProductsFromPayload(payload *gateway.CatalogPayload) ([]Product, error) {
	products := make([]Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		price := decimal.Zero
		if raw := p.Price.String(); raw != "" {
			parsed, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeServer, err, "unparseable price for product "+p.ProductID.String())
			}
			price = parsed.Round(2)
		}
		products = append(products, Product{
			ID:            p.ProductID.String(),
			Name:          p.Name,
			Description:   p.Description,
			Price:         price,
			StockQuantity: p.StockQuantity,
			Stock:         p.Stock,
			Images:        p.Images,
		})
	}
	return products, nil
}
