package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/urban-deals/internal/domain/user"
)

const (
	getUserSQL = `SELECT id, first_name, last_name, wallet, COALESCE(applied_voucher_id, '')
	FROM users WHERE id = $1`

	setAppliedVoucherSQL = `UPDATE users SET applied_voucher_id = $2 WHERE id = $1`

	clearAppliedVoucherSQL = `UPDATE users SET applied_voucher_id = NULL WHERE id = $1`
)

var _ user.Repository = (*UserRepository)(nil)

// UserRepository implements user.Repository backed by PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a UserRepository that uses the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Get returns the user by id, including the currently applied voucher
// selection. Returns user.ErrNotFound when the user does not exist.
func (r *UserRepository) Get(ctx context.Context, id int64) (*user.User, error) {
	row := r.pool.QueryRow(ctx, getUserSQL, id)

	var u user.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Wallet, &u.AppliedVoucherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("getting user %d: %w", id, err)
	}
	return &u, nil
}

// SetAppliedVoucher records the user's applied voucher selection.
func (r *UserRepository) SetAppliedVoucher(ctx context.Context, userID int64, voucherID string) error {
	tag, err := r.pool.Exec(ctx, setAppliedVoucherSQL, userID, voucherID)
	if err != nil {
		return fmt.Errorf("setting applied voucher for user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

// ClearAppliedVoucher removes the user's applied voucher selection.
func (r *UserRepository) ClearAppliedVoucher(ctx context.Context, userID int64) error {
	if _, err := r.pool.Exec(ctx, clearAppliedVoucherSQL, userID); err != nil {
		return fmt.Errorf("clearing applied voucher for user %d: %w", userID, err)
	}
	return nil
}
