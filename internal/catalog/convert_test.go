package catalog

import (
	"encoding/json"
	"testing"

	"github.com/salessavvy/storefront/internal/gateway"
	pkgerrors "github.com/salessavvy/storefront/pkg/errors"
)

func TestProductsFromPayloadKeepsFetchOrder(t *testing.T) {
	t.Parallel()

	qty := 4
	payload := &gateway.CatalogPayload{Products: []gateway.CatalogProduct{
		{ProductID: json.Number("2"), Name: "Keyboard", Price: json.Number("1499.00"), StockQuantity: &qty},
		{ProductID: json.Number("1"), Name: "Mouse", Price: json.Number("499.999"), Images: []string{"mouse.png"}},
	}}

	products, err := ProductsFromPayload(payload)
	if err != nil {
		t.Fatalf("ProductsFromPayload: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].ID != "2" || products[1].ID != "1" {
		t.Fatalf("fetch order lost: %q, %q", products[0].ID, products[1].ID)
	}
	if got := products[1].Price.StringFixed(2); got != "500.00" {
		t.Fatalf("expected rounded price 500.00, got %s", got)
	}
	if products[0].StockQuantity == nil || *products[0].StockQuantity != 4 {
		t.Fatalf("stock quantity lost: %+v", products[0])
	}
	if got := products[1].Image(); got != "mouse.png" {
		t.Fatalf("expected first image, got %q", got)
	}
}

func TestProductsFromPayloadMissingPriceIsZero(t *testing.T) {
	t.Parallel()

	payload := &gateway.CatalogPayload{Products: []gateway.CatalogProduct{
		{ProductID: json.Number("1"), Name: "Mouse"},
	}}

	products, err := ProductsFromPayload(payload)
	if err != nil {
		t.Fatalf("ProductsFromPayload: %v", err)
	}
	if !products[0].Price.IsZero() {
		t.Fatalf("expected zero price, got %s", products[0].Price)
	}
}

func TestProductsFromPayloadUnparseablePrice(t *testing.T) {
	t.Parallel()

	payload := &gateway.CatalogPayload{Products: []gateway.CatalogProduct{
		{ProductID: json.Number("1"), Name: "Mouse", Price: json.Number("free")},
	}}

	_, err := ProductsFromPayload(payload)
	if code := pkgerrors.CodeOf(err); code != pkgerrors.CodeServer {
		t.Fatalf("expected %s, got %v", pkgerrors.CodeServer, err)
	}
}
