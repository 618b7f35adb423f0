package catalog

import "testing"

func TestFilterProductsTokenOrMatch(t *testing.T) {
	t.Parallel()

	products := []Product{
		{ID: "1", Name: "Blue Denim Jacket", Description: "casual wear"},
		{ID: "2", Name: "Running Shoes", Description: "mesh upper"},
		{ID: "3", Name: "Formal Shirt", Description: "blue cotton"},
	}

	got := FilterProducts(products, "blue shoes")
	if len(got) != 3 {
		t.Fatalf("expected OR-match across tokens to keep all 3, got %d", len(got))
	}

	got = FilterProducts(products, "denim")
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected only the jacket, got %v", got)
	}

	if got := FilterProducts(products, "   "); len(got) != 3 {
		t.Fatalf("blank query must match everything, got %d", len(got))
	}

	if got := FilterProducts(products, "zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestPaginateClampsWindow(t *testing.T) {
	t.Parallel()

	products := productsWithIDs("1", "2", "3", "4", "5")

	page := Paginate(products, 1, 2)
	if len(page) != 2 || page[0].ID != "1" {
		t.Fatalf("unexpected first page %v", orderedIDs(page))
	}

	page = Paginate(products, 3, 2)
	if len(page) != 1 || page[0].ID != "5" {
		t.Fatalf("unexpected last page %v", orderedIDs(page))
	}

	// Pages past the end clamp to the last page.
	page = Paginate(products, 9, 2)
	if len(page) != 1 || page[0].ID != "5" {
		t.Fatalf("expected clamp to last page, got %v", orderedIDs(page))
	}

	if got := Paginate(nil, 1, 2); got != nil {
		t.Fatalf("expected nil window for empty catalog, got %v", got)
	}
}

func TestPageCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		total, perPage, want int
	}{
		{0, 15, 0},
		{1, 15, 1},
		{15, 15, 1},
		{16, 15, 2},
		{5, 0, 0},
	}
	for _, tc := range cases {
		if got := PageCount(tc.total, tc.perPage); got != tc.want {
			t.Fatalf("PageCount(%d, %d) = %d, want %d", tc.total, tc.perPage, got, tc.want)
		}
	}
}
