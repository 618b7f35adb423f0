package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeTaxRoundTrip(t *testing.T) {
	t.Parallel()

	tolerance := decimal.RequireFromString("0.000000001")
	subtotals := []string{"0.01", "1", "117.99", "999.50", "4999.99", "5000", "123456.78"}

	for _, raw := range subtotals {
		subtotal := decimal.RequireFromString(raw)
		b := Compute(subtotal)

		rebuilt := b.Base.Mul(inclusiveTaxDivisor)
		if rebuilt.Sub(subtotal).Abs().GreaterThan(tolerance) {
			t.Fatalf("subtotal %s: base*1.18 = %s drifted past tolerance", raw, rebuilt)
		}

		taxSum := b.SGST.Add(b.CGST)
		if !taxSum.Equal(subtotal.Sub(b.Base)) {
			t.Fatalf("subtotal %s: SGST+CGST != total tax", raw)
		}
		if !b.SGST.Equal(b.CGST) {
			t.Fatalf("subtotal %s: tax halves differ", raw)
		}
	}
}

func TestComputeShippingTiers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		subtotal string
		shipping string
		grand    string
	}{
		{"5000.00", "250.00", "5250.00"},
		{"5000.01", "0.00", "5000.01"},
		{"0", "0.00", "0.00"},
		{"100", "5.00", "105.00"},
	}

	for _, tc := range cases {
		b := Compute(decimal.RequireFromString(tc.subtotal)).Rounded()
		if b.Shipping.StringFixed(2) != tc.shipping {
			t.Fatalf("subtotal %s: expected shipping %s, got %s", tc.subtotal, tc.shipping, b.Shipping.StringFixed(2))
		}
		if b.GrandTotal.StringFixed(2) != tc.grand {
			t.Fatalf("subtotal %s: expected grand total %s, got %s", tc.subtotal, tc.grand, b.GrandTotal.StringFixed(2))
		}
	}
}

func TestComputeZeroSubtotal(t *testing.T) {
	t.Parallel()

	b := Compute(decimal.Zero)
	for name, field := range map[string]decimal.Decimal{
		"base":        b.Base,
		"sgst":        b.SGST,
		"cgst":        b.CGST,
		"shipping":    b.Shipping,
		"grand total": b.GrandTotal,
	} {
		if !field.IsZero() {
			t.Fatalf("expected zero %s for empty cart, got %s", name, field)
		}
	}
}

func TestRoundedOnlyAffectsDisplay(t *testing.T) {
	t.Parallel()

	subtotal := decimal.RequireFromString("117.99")
	b := Compute(subtotal)

	// Intermediates keep full precision: the unrounded base is not equal
	// to its two-decimal display form.
	if b.Base.Equal(b.Base.Round(2)) {
		t.Fatal("expected unrounded base to carry more than two decimals")
	}
	display := b.Rounded()
	if !display.Base.Equal(b.Base.Round(2)) {
		t.Fatal("display base must round the full-precision value once")
	}
}
