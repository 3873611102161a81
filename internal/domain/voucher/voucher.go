package voucher

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a voucher code does not exist or does not
// belong to the user trying to apply it.
var ErrNotFound = errors.New("voucher not found")

// Voucher is a percentage-discount code owned by a user. At most one voucher
// is applied to the cart at a time; the selection is per-user state, not
// per-line.
type Voucher struct {
	ID      string
	Title   string
	Percent decimal.Decimal
}

// Repository provides lookup of a user's vouchers.
type Repository interface {
	ListForUser(ctx context.Context, userID int64) ([]Voucher, error)
	GetForUser(ctx context.Context, userID int64, voucherID string) (*Voucher, error)
}
