package catalog

// StockLedger maps product ids to the quantity available in the catalog
// fetch it was built from. It is superseded wholesale on every refresh.
type StockLedger map[string]int

// Level classifies a ledger entry for display and cap decisions. A zero
// quantity is treated as "not tracked" rather than "sold out": quantity
// caps only apply to LevelLimited entries.
type Level int

const (
	LevelUnknown Level = iota
	LevelUntracked
	LevelLimited
)

// BuildStockLedger derives the available quantity per product. Products
// report stock either via stock_quantity or the legacy stock field;
// products reporting neither are recorded as zero.
func BuildStockLedger(products []Product) StockLedger {
	ledger := make(StockLedger, len(products))
	for _, p := range products {
		switch {
		case p.StockQuantity != nil:
			ledger[p.ID] = *p.StockQuantity
		case p.Stock != nil:
			ledger[p.ID] = *p.Stock
		default:
			ledger[p.ID] = 0
		}
	}
	return ledger
}

// Available returns the raw ledger quantity and whether the product was
// part of the fetch the ledger was built from.
func (l StockLedger) Available(productID string) (int, bool) {
	qty, ok := l[productID]
	return qty, ok
}

// LevelOf interprets the ledger entry for a product.
func (l StockLedger) LevelOf(productID string) Level {
	qty, ok := l[productID]
	if !ok {
		return LevelUnknown
	}
	if qty <= 0 {
		return LevelUntracked
	}
	return LevelLimited
}
