// Package pricing implements the cart totals computation: product discounts,
// voucher application, and the rounding policy shared by every surface that
// displays money.
//
// All monetary values are rounded half-up to 2 decimal places at each
// aggregation boundary, not once at the end. Historical order totals were
// produced this way, so intermediate rounding must be preserved bit-for-bit.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/urban-deals/internal/domain/cart"
	"github.com/xenking/urban-deals/internal/domain/catalog"
	"github.com/xenking/urban-deals/internal/domain/voucher"
)

var hundred = decimal.NewFromInt(100)

// Item is a cart line resolved against the catalog, carrying the price
// snapshot the totals are computed from.
type Item struct {
	Product  catalog.Product
	Qty      int
	UnitSale decimal.Decimal // discounted unit price, rounded to 2dp
}

// LineTotal returns the sale price times quantity, rounded to 2dp.
func (it Item) LineTotal() decimal.Decimal {
	return it.UnitSale.Mul(decimal.NewFromInt(int64(it.Qty))).Round(2)
}

// Breakdown is the totals structure for a cart or order.
//
// Invariants: FinalTotal >= 0 and FinalTotal <= DiscountedTotal <= Subtotal
// whenever every line resolved.
type Breakdown struct {
	ItemsCount      int
	Subtotal        decimal.Decimal
	ProductDiscount decimal.Decimal
	DiscountedTotal decimal.Decimal
	VoucherDiscount decimal.Decimal
	FinalTotal      decimal.Decimal
}

// Resolve maps cart lines onto catalog products, in cart order. Lines whose
// product is not in the given slice are not priced; their product IDs are
// returned in missing so the caller can decide whether that is a warning
// (cart display) or an error (checkout).
func Resolve(lines []cart.Line, products []catalog.Product) (items []Item, missing []int64) {
	byID := make(map[int64]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items = make([]Item, 0, len(lines))
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			missing = append(missing, l.ProductID)
			continue
		}
		items = append(items, Item{
			Product:  p,
			Qty:      l.Qty,
			UnitSale: p.DiscountedUnitPrice(),
		})
	}
	return items, missing
}

// Compute calculates the totals breakdown for the resolved items with an
// optional voucher. It is a pure function of its inputs: no side effects, and
// identical inputs always produce an identical breakdown.
func Compute(items []Item, v *voucher.Voucher) Breakdown {
	var b Breakdown
	subtotal := decimal.Zero
	discounted := decimal.Zero

	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Qty))
		b.ItemsCount += it.Qty
		subtotal = subtotal.Add(it.Product.Price.Mul(qty))
		discounted = discounted.Add(it.UnitSale.Mul(qty))
	}

	b.Subtotal = subtotal.Round(2)
	b.DiscountedTotal = discounted.Round(2)

	b.ProductDiscount = b.Subtotal.Sub(b.DiscountedTotal).Round(2)
	if b.ProductDiscount.IsNegative() {
		b.ProductDiscount = decimal.Zero
	}

	b.VoucherDiscount = decimal.Zero
	b.FinalTotal = b.DiscountedTotal
	if v != nil {
		b.VoucherDiscount = b.DiscountedTotal.Mul(v.Percent.Div(hundred)).Round(2)
		b.FinalTotal = b.DiscountedTotal.Sub(b.VoucherDiscount).Round(2)
		if b.FinalTotal.IsNegative() {
			b.FinalTotal = decimal.Zero
		}
	}

	return b
}
