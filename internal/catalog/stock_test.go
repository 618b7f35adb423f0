package catalog

import "testing"

func intPtr(v int) *int { return &v }

func TestBuildStockLedgerFieldFallback(t *testing.T) {
	t.Parallel()

	products := []Product{
		{ID: "1", StockQuantity: intPtr(7)},
		{ID: "2", Stock: intPtr(3)},
		{ID: "3"},
		{ID: "4", StockQuantity: intPtr(0), Stock: intPtr(9)},
	}

	ledger := BuildStockLedger(products)

	cases := map[string]int{"1": 7, "2": 3, "3": 0, "4": 0}
	for id, want := range cases {
		got, ok := ledger.Available(id)
		if !ok {
			t.Fatalf("expected ledger entry for %s", id)
		}
		if got != want {
			t.Fatalf("product %s: expected stock %d, got %d", id, want, got)
		}
	}

	if _, ok := ledger.Available("missing"); ok {
		t.Fatal("expected no entry for product outside the fetch")
	}
}

func TestStockLedgerLevels(t *testing.T) {
	t.Parallel()

	ledger := BuildStockLedger([]Product{
		{ID: "tracked", StockQuantity: intPtr(5)},
		{ID: "untracked"},
	})

	if got := ledger.LevelOf("tracked"); got != LevelLimited {
		t.Fatalf("expected limited level, got %v", got)
	}
	if got := ledger.LevelOf("untracked"); got != LevelUntracked {
		t.Fatalf("expected untracked level, got %v", got)
	}
	if got := ledger.LevelOf("absent"); got != LevelUnknown {
		t.Fatalf("expected unknown level, got %v", got)
	}
}
