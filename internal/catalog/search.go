package catalog

import "strings"

// FilterProducts keeps products matching any whitespace-separated token of
// the query against name or description, case-insensitively. A blank query
// matches everything.
func FilterProducts(products []Product, query string) []Product {
	tokens := searchTokens(query)
	if len(tokens) == 0 {
		return products
	}

	matched := make([]Product, 0, len(products))
	for _, p := range products {
		name := strings.ToLower(p.Name)
		desc := strings.ToLower(p.Description)
		for _, token := range tokens {
			if strings.Contains(name, token) || strings.Contains(desc, token) {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched
}

func searchTokens(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	tokens := fields[:0]
	for _, f := range fields {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Paginate returns the 1-based page window over products. Out-of-range
// pages clamp to the nearest valid page; perPage below 1 yields the whole
// slice.
func Paginate(products []Product, page, perPage int) []Product {
	if perPage < 1 {
		return products
	}
	last := PageCount(len(products), perPage)
	if last == 0 {
		return nil
	}
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}

// PageCount returns the number of pages needed for total items.
func PageCount(total, perPage int) int {
	if total <= 0 || perPage < 1 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
