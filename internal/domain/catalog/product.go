package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Product represents a catalog item available for purchase. The unit price and
// discount percentage are immutable within a single pricing computation.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	DiscountPct decimal.Decimal
	Image       string
}

// DiscountedUnitPrice returns the per-unit sale price after the product's own
// discount, rounded half-up to 2 decimal places. Rounding happens here, at the
// unit level, so that line and cart totals aggregate the same cent values the
// storefront displays.
func (p Product) DiscountedUnitPrice() decimal.Decimal {
	factor := one.Sub(p.DiscountPct.Div(hundred))
	return p.Price.Mul(factor).Round(2)
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Product, error)
}
