package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xenking/urban-deals/internal/domain/pricing"
)

// PaymentMethod enumerates the supported checkout payment options.
type PaymentMethod string

const (
	// PaymentWallet pays from the user's stored wallet balance.
	PaymentWallet PaymentMethod = "wallet"
	// PaymentCash pays on delivery.
	PaymentCash PaymentMethod = "cash"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentWallet || m == PaymentCash
}

// Customer holds the contact fields collected at checkout.
type Customer struct {
	FullName string
	Phone    string
	Email    string
	City     string
	Address  string
	Note     string
}

// Item is an order line with product details snapshotted at creation time.
// Orders must not change retroactively when the catalog does, so the name,
// image and prices are copied rather than referenced.
type Item struct {
	ProductID int64
	Name      string
	Image     string
	Qty       int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// Order is an immutable record of a completed purchase. History is
// append-only: once created an order is never updated.
type Order struct {
	ID           string
	UserID       int64
	CreatedAt    time.Time
	Customer     Customer
	Payment      PaymentMethod
	VoucherID    string
	Items        []Item
	Totals       pricing.Breakdown
	WalletBefore decimal.Decimal
	WalletAfter  decimal.Decimal
}

// Repository defines persistence operations for orders.
//
// Create must atomically persist the order and its items, apply the new
// wallet balance for wallet-paid orders, and reset the user's cart and
// applied voucher. There is no partial-write window between them.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	List(ctx context.Context, userID int64) ([]Order, error)
	GetByID(ctx context.Context, userID int64, id string) (*Order, error)
}
