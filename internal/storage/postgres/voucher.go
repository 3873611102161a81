package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/urban-deals/internal/domain/voucher"
)

const (
	listUserVouchersSQL = `SELECT v.id, v.title, v.percent
	FROM vouchers v
	JOIN user_vouchers uv ON uv.voucher_id = v.id
	WHERE uv.user_id = $1
	ORDER BY v.percent`

	getUserVoucherSQL = `SELECT v.id, v.title, v.percent
	FROM vouchers v
	JOIN user_vouchers uv ON uv.voucher_id = v.id
	WHERE uv.user_id = $1 AND v.id = $2`
)

var _ voucher.Repository = (*VoucherRepository)(nil)

// VoucherRepository implements voucher.Repository backed by PostgreSQL.
type VoucherRepository struct {
	pool *pgxpool.Pool
}

// NewVoucherRepository returns a VoucherRepository that uses the given pool.
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// ListForUser returns the user's vouchers ordered by percentage.
func (r *VoucherRepository) ListForUser(ctx context.Context, userID int64) ([]voucher.Voucher, error) {
	rows, err := r.pool.Query(ctx, listUserVouchersSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing vouchers for user %d: %w", userID, err)
	}
	defer rows.Close()

	var vouchers []voucher.Voucher
	for rows.Next() {
		var v voucher.Voucher
		if err := rows.Scan(&v.ID, &v.Title, &v.Percent); err != nil {
			return nil, fmt.Errorf("scanning voucher: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading vouchers: %w", err)
	}
	return vouchers, nil
}

// GetForUser returns one of the user's vouchers by code. Returns
// voucher.ErrNotFound when the voucher does not exist or belongs to another
// user.
func (r *VoucherRepository) GetForUser(ctx context.Context, userID int64, voucherID string) (*voucher.Voucher, error) {
	row := r.pool.QueryRow(ctx, getUserVoucherSQL, userID, voucherID)

	var v voucher.Voucher
	if err := row.Scan(&v.ID, &v.Title, &v.Percent); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, voucher.ErrNotFound
		}
		return nil, fmt.Errorf("getting voucher %q: %w", voucherID, err)
	}
	return &v, nil
}
