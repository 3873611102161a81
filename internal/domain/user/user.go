package user

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when the requested user does not exist.
var ErrNotFound = errors.New("user not found")

// DefaultID identifies the single demo account the storefront operates on.
const DefaultID int64 = 1

// User is a storefront account with a wallet balance usable as a payment
// method. The wallet is mutated only by successful wallet-paid orders.
type User struct {
	ID               int64
	FirstName        string
	LastName         string
	Wallet           decimal.Decimal
	AppliedVoucherID string
}

// Repository defines persistence operations for users and their applied
// voucher selection. Wallet balances are written only as part of order
// creation (see order.Repository), never directly.
type Repository interface {
	Get(ctx context.Context, id int64) (*User, error)
	SetAppliedVoucher(ctx context.Context, userID int64, voucherID string) error
	ClearAppliedVoucher(ctx context.Context, userID int64) error
}
