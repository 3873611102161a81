package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/urban-deals/internal/domain/order"
)

const (
	insertOrderSQL = `INSERT INTO orders
	(id, user_id, created_at, full_name, phone, email, city, address, note, payment, voucher_id,
	 items_count, subtotal, product_discount, discounted_total, voucher_discount, final_total,
	 wallet_before, wallet_after)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''),
	        $12, $13, $14, $15, $16, $17, $18, $19)`

	insertOrderItemSQL = `INSERT INTO order_items
	(order_id, product_id, name, image, qty, unit_price, line_total)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	updateWalletSQL = `UPDATE users SET wallet = $2 WHERE id = $1`

	listOrdersSQL = `SELECT id, user_id, created_at, full_name, phone, email, city, address, note,
	payment, COALESCE(voucher_id, ''), items_count, subtotal, product_discount, discounted_total,
	voucher_discount, final_total, wallet_before, wallet_after
	FROM orders WHERE user_id = $1 ORDER BY created_at DESC`

	getOrderSQL = `SELECT id, user_id, created_at, full_name, phone, email, city, address, note,
	payment, COALESCE(voucher_id, ''), items_count, subtotal, product_discount, discounted_total,
	voucher_discount, final_total, wallet_before, wallet_after
	FROM orders WHERE user_id = $1 AND id = $2`

	getOrderItemsSQL = `SELECT product_id, name, image, qty, unit_price, line_total
	FROM order_items WHERE order_id = $1 ORDER BY id`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order and its items, applies the new wallet balance for
// wallet-paid orders, and resets the user's cart and applied voucher. All of
// it happens in one transaction so a failure leaves no partial state behind.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning order create: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	_, err = tx.Exec(ctx, insertOrderSQL,
		o.ID, o.UserID, o.CreatedAt,
		o.Customer.FullName, o.Customer.Phone, o.Customer.Email,
		o.Customer.City, o.Customer.Address, o.Customer.Note,
		string(o.Payment), o.VoucherID,
		o.Totals.ItemsCount, o.Totals.Subtotal, o.Totals.ProductDiscount,
		o.Totals.DiscountedTotal, o.Totals.VoucherDiscount, o.Totals.FinalTotal,
		o.WalletBefore, o.WalletAfter,
	)
	if err != nil {
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, insertOrderItemSQL,
			o.ID, it.ProductID, it.Name, it.Image, it.Qty, it.UnitPrice, it.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("creating order item %d: %w", it.ProductID, err)
		}
	}

	if o.Payment == order.PaymentWallet {
		if _, err = tx.Exec(ctx, updateWalletSQL, o.UserID, o.WalletAfter); err != nil {
			return fmt.Errorf("updating wallet for user %d: %w", o.UserID, err)
		}
	}

	if _, err = tx.Exec(ctx, deleteCartSQL, o.UserID); err != nil {
		return fmt.Errorf("clearing cart for user %d: %w", o.UserID, err)
	}
	if _, err = tx.Exec(ctx, clearAppliedVoucherSQL, o.UserID); err != nil {
		return fmt.Errorf("clearing applied voucher for user %d: %w", o.UserID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing order %q: %w", o.ID, err)
	}
	return nil
}

// List returns the user's order history, newest first, without line items.
func (r *OrderRepository) List(ctx context.Context, userID int64) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}
	defer rows.Close()

	var orders []order.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading orders: %w", err)
	}
	return orders, nil
}

// GetByID returns a single order with its line items. Returns
// order.ErrNotFound when no matching order exists for the user.
func (r *OrderRepository) GetByID(ctx context.Context, userID int64, id string) (*order.Order, error) {
	row := r.pool.QueryRow(ctx, getOrderSQL, userID, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	rows, err := r.pool.Query(ctx, getOrderItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting items for order %q: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it order.Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Image, &it.Qty, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading order items: %w", err)
	}
	return o, nil
}

func scanOrder(row pgx.Row) (*order.Order, error) {
	var o order.Order
	var payment string
	err := row.Scan(
		&o.ID, &o.UserID, &o.CreatedAt,
		&o.Customer.FullName, &o.Customer.Phone, &o.Customer.Email,
		&o.Customer.City, &o.Customer.Address, &o.Customer.Note,
		&payment, &o.VoucherID,
		&o.Totals.ItemsCount, &o.Totals.Subtotal, &o.Totals.ProductDiscount,
		&o.Totals.DiscountedTotal, &o.Totals.VoucherDiscount, &o.Totals.FinalTotal,
		&o.WalletBefore, &o.WalletAfter,
	)
	if err != nil {
		return nil, err
	}
	o.Payment = order.PaymentMethod(payment)
	return &o, nil
}
