package pricing

import (
	"github.com/shopspring/decimal"
)

// The catalog carries tax-inclusive prices at a fixed 18% GST rate, split
// evenly between SGST and CGST. Shipping is 5% of the inclusive subtotal
// up to and including the free-shipping threshold.
var (
	inclusiveTaxDivisor   = decimal.RequireFromString("1.18")
	two                   = decimal.NewFromInt(2)
	shippingRate          = decimal.RequireFromString("0.05")
	freeShippingThreshold = decimal.NewFromInt(5000)
)

// Breakdown decomposes a tax-inclusive subtotal. All fields carry full
// precision; rounding happens only in Rounded.
type Breakdown struct {
	Subtotal   decimal.Decimal
	Base       decimal.Decimal
	SGST       decimal.Decimal
	CGST       decimal.Decimal
	Shipping   decimal.Decimal
	GrandTotal decimal.Decimal
}

// Compute derives the checkout summary from the sum of cart line totals.
// A non-positive subtotal yields an all-zero breakdown.
func Compute(subtotalInclusive decimal.Decimal) Breakdown {
	if subtotalInclusive.Sign() <= 0 {
		return Breakdown{
			Subtotal:   decimal.Zero,
			Base:       decimal.Zero,
			SGST:       decimal.Zero,
			CGST:       decimal.Zero,
			Shipping:   decimal.Zero,
			GrandTotal: decimal.Zero,
		}
	}

	base := subtotalInclusive.Div(inclusiveTaxDivisor)
	totalTax := subtotalInclusive.Sub(base)
	halfTax := totalTax.Div(two)

	shipping := decimal.Zero
	if subtotalInclusive.LessThanOrEqual(freeShippingThreshold) {
		shipping = subtotalInclusive.Mul(shippingRate)
	}

	return Breakdown{
		Subtotal:   subtotalInclusive,
		Base:       base,
		SGST:       halfTax,
		CGST:       halfTax,
		Shipping:   shipping,
		GrandTotal: subtotalInclusive.Add(shipping),
	}
}

// Rounded returns the display form of the breakdown, every field rounded
// to two decimals.
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		Subtotal:   b.Subtotal.Round(2),
		Base:       b.Base.Round(2),
		SGST:       b.SGST.Round(2),
		CGST:       b.CGST.Round(2),
		Shipping:   b.Shipping.Round(2),
		GrandTotal: b.GrandTotal.Round(2),
	}
}
