package order

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/urban-deals/internal/domain/cart"
	"github.com/xenking/urban-deals/internal/domain/catalog"
	"github.com/xenking/urban-deals/internal/domain/pricing"
	"github.com/xenking/urban-deals/internal/domain/user"
	"github.com/xenking/urban-deals/internal/domain/voucher"
)

// Sentinel errors for order placement.
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidPayment = errors.New("unknown payment method")
	ErrNotFound       = errors.New("order not found")
)

// ProductNotFoundError indicates a cart line references a product that no
// longer exists in the catalog. Checkout fails loudly instead of silently
// dropping the line.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// ValidationError indicates a malformed customer contact field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientFundsError indicates the wallet balance cannot cover the order
// total. The shortfall is reported so callers can display it.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: need %s, have %s",
		e.Required.StringFixed(2), e.Available.StringFixed(2))
}

// Shortfall returns how much the wallet is missing, rounded to 2dp.
func (e *InsufficientFundsError) Shortfall() decimal.Decimal {
	return e.Required.Sub(e.Available).Round(2)
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// PlaceOrderRequest holds the checkout input. The cart, applied voucher and
// wallet balance are read from persisted state, not trusted from the client.
type PlaceOrderRequest struct {
	UserID   int64
	Customer Customer
	Payment  PaymentMethod
}

// Service builds orders from the current cart, catalog and wallet state.
// It computes everything and mutates nothing itself: the order repository
// applies the resulting record (and new wallet balance) atomically.
type Service struct {
	products catalog.Repository
	carts    cart.Repository
	users    user.Repository
	vouchers voucher.Repository
	orders   Repository
	now      func() time.Time
}

// NewService creates an order Service with the required domain dependencies.
func NewService(
	products catalog.Repository,
	carts cart.Repository,
	users user.Repository,
	vouchers voucher.Repository,
	orders Repository,
) *Service {
	return &Service{
		products: products,
		carts:    carts,
		users:    users,
		vouchers: vouchers,
		orders:   orders,
		now:      time.Now,
	}
}

// PlaceOrder validates the checkout request, prices the user's cart, checks
// the wallet for wallet payments, and persists an immutable order with item
// and totals snapshots. On success the repository has already applied the new
// wallet balance and cleared the cart and applied voucher.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if !req.Payment.Valid() {
		return nil, ErrInvalidPayment
	}

	customer, err := validateCustomer(req.Customer)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Get(ctx, req.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "get user")
	}

	c, err := s.carts.Get(ctx, req.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "get cart")
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	products, err := s.products.GetByIDs(ctx, c.ProductIDs())
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}

	items, missing := pricing.Resolve(c.Lines, products)
	if len(missing) > 0 {
		return nil, &ProductNotFoundError{ProductID: missing[0]}
	}

	v, err := s.appliedVoucher(ctx, u)
	if err != nil {
		return nil, err
	}

	totals := pricing.Compute(items, v)

	walletBefore := u.Wallet.Round(2)
	walletAfter := walletBefore
	if req.Payment == PaymentWallet {
		if walletBefore.LessThan(totals.FinalTotal) {
			return nil, &InsufficientFundsError{
				Required:  totals.FinalTotal,
				Available: walletBefore,
			}
		}
		walletAfter = walletBefore.Sub(totals.FinalTotal).Round(2)
	}

	now := s.now()
	o := &Order{
		ID:           "ORD-" + strconv.FormatInt(now.UnixMilli(), 10),
		UserID:       req.UserID,
		CreatedAt:    now,
		Customer:     customer,
		Payment:      req.Payment,
		Items:        snapshotItems(items),
		Totals:       totals,
		WalletBefore: walletBefore,
		WalletAfter:  walletAfter,
	}
	if v != nil {
		o.VoucherID = v.ID
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	return o, nil
}

// appliedVoucher resolves the user's currently applied voucher. A selection
// pointing at a voucher the user no longer owns is treated as no voucher,
// matching how the storefront behaved.
func (s *Service) appliedVoucher(ctx context.Context, u *user.User) (*voucher.Voucher, error) {
	if u.AppliedVoucherID == "" {
		return nil, nil
	}
	v, err := s.vouchers.GetForUser(ctx, u.ID, u.AppliedVoucherID)
	if err != nil {
		if errors.Is(err, voucher.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get applied voucher")
	}
	return v, nil
}

// snapshotItems copies product details into order items so later catalog
// changes cannot alter the order.
func snapshotItems(items []pricing.Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = Item{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Image:     it.Product.Image,
			Qty:       it.Qty,
			UnitPrice: it.UnitSale,
			LineTotal: it.LineTotal(),
		}
	}
	return out
}

func validateCustomer(c Customer) (Customer, error) {
	c.FullName = strings.TrimSpace(c.FullName)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.City = strings.TrimSpace(c.City)
	c.Address = strings.TrimSpace(c.Address)
	c.Note = strings.TrimSpace(c.Note)

	switch {
	case len(c.FullName) < 3:
		return c, &ValidationError{Field: "fullName", Reason: "enter full name"}
	case len(c.Phone) < 6:
		return c, &ValidationError{Field: "phone", Reason: "enter valid phone"}
	case !emailPattern.MatchString(c.Email):
		return c, &ValidationError{Field: "email", Reason: "enter valid email"}
	case len(c.City) < 2:
		return c, &ValidationError{Field: "city", Reason: "enter city"}
	case len(c.Address) < 5:
		return c, &ValidationError{Field: "address", Reason: "enter address"}
	}
	return c, nil
}
