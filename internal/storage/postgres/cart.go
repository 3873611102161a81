package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/urban-deals/internal/domain/cart"
)

const (
	getCartSQL = `SELECT product_id, qty FROM cart_items
	WHERE user_id = $1 ORDER BY position`

	deleteCartSQL = `DELETE FROM cart_items WHERE user_id = $1`

	insertCartItemSQL = `INSERT INTO cart_items (user_id, product_id, qty, position)
	VALUES ($1, $2, $3, $4)`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL. Line order
// is preserved via an explicit position column.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// Get loads the user's cart. A user with no rows gets an empty cart, not an
// error.
func (r *CartRepository) Get(ctx context.Context, userID int64) (*cart.Cart, error) {
	rows, err := r.pool.Query(ctx, getCartSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("getting cart for user %d: %w", userID, err)
	}
	defer rows.Close()

	var c cart.Cart
	for rows.Next() {
		var l cart.Line
		if err := rows.Scan(&l.ProductID, &l.Qty); err != nil {
			return nil, fmt.Errorf("scanning cart line: %w", err)
		}
		c.Lines = append(c.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cart: %w", err)
	}
	return &c, nil
}

// Save replaces the user's cart with the given one in a single transaction.
func (r *CartRepository) Save(ctx context.Context, userID int64, c *cart.Cart) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning cart save: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, deleteCartSQL, userID); err != nil {
		return fmt.Errorf("clearing cart for user %d: %w", userID, err)
	}
	for i, l := range c.Lines {
		if _, err := tx.Exec(ctx, insertCartItemSQL, userID, l.ProductID, l.Qty, i); err != nil {
			return fmt.Errorf("inserting cart line %d: %w", l.ProductID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing cart save: %w", err)
	}
	return nil
}

// Clear removes every line of the user's cart.
func (r *CartRepository) Clear(ctx context.Context, userID int64) error {
	if _, err := r.pool.Exec(ctx, deleteCartSQL, userID); err != nil {
		return fmt.Errorf("clearing cart for user %d: %w", userID, err)
	}
	return nil
}
