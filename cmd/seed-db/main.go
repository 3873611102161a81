// Command seed-db loads the demo catalog, user account and vouchers into
// PostgreSQL. It is idempotent: existing rows are updated in place, and the
// demo user's wallet is left untouched on re-runs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/urban-deals/internal/storage/postgres"
)

type productJSON struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	DiscountPct decimal.Decimal `json:"discountPct"`
	Image       string          `json:"image"`
}

type userJSON struct {
	ID        int64           `json:"id"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Wallet    decimal.Decimal `json:"wallet"`
	Vouchers  []voucherJSON   `json:"vouchers"`
}

type voucherJSON struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Percent decimal.Decimal `json:"percent"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		userFile     string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&userFile, "user-file", "db/seed/user.json", "path to user JSON file")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, userFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, userFile string) error {
	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedUser(ctx, pool, userFile); err != nil {
		return errors.Wrap(err, "seed user")
	}

	if err := seedProducts(ctx, pool, productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	return nil
}

const upsertProductSQL = `
INSERT INTO products (id, name, description, price, discount_pct, image)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    discount_pct = EXCLUDED.discount_pct,
    image = EXCLUDED.image`

func seedProducts(ctx context.Context, pool *pgxpool.Pool, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(products)))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, p := range products {
		g.Go(func() error {
			if _, err := pool.Exec(ctx, upsertProductSQL,
				p.ID, p.Name, p.Description, p.Price, p.DiscountPct, p.Image,
			); err != nil {
				return errors.Wrapf(err, "upsert product %d", p.ID)
			}
			slog.Info("upserted product", slog.Int64("id", p.ID), slog.String("name", p.Name))
			return nil
		})
	}
	return g.Wait()
}

const (
	insertUserSQL = `
INSERT INTO users (id, first_name, last_name, wallet)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO UPDATE SET
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name`

	upsertVoucherSQL = `
INSERT INTO vouchers (id, title, percent)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET
    title = EXCLUDED.title,
    percent = EXCLUDED.percent`

	grantVoucherSQL = `
INSERT INTO user_vouchers (user_id, voucher_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`
)

func seedUser(ctx context.Context, pool *pgxpool.Pool, userFile string) error {
	slog.Info("reading user file", slog.String("path", userFile))

	data, err := os.ReadFile(userFile)
	if err != nil {
		return errors.Wrap(err, "read user file")
	}

	var u userJSON
	if err := json.Unmarshal(data, &u); err != nil {
		return errors.Wrap(err, "parse user JSON")
	}

	// The wallet balance is only used on first insert so re-seeding does not
	// undo purchases.
	if _, err := pool.Exec(ctx, insertUserSQL, u.ID, u.FirstName, u.LastName, u.Wallet); err != nil {
		return errors.Wrapf(err, "upsert user %d", u.ID)
	}
	slog.Info("upserted user", slog.Int64("id", u.ID), slog.String("firstName", u.FirstName))

	for _, v := range u.Vouchers {
		if _, err := pool.Exec(ctx, upsertVoucherSQL, v.ID, v.Title, v.Percent); err != nil {
			return errors.Wrapf(err, "upsert voucher %s", v.ID)
		}
		if _, err := pool.Exec(ctx, grantVoucherSQL, u.ID, v.ID); err != nil {
			return errors.Wrapf(err, "grant voucher %s", v.ID)
		}
		slog.Info("upserted voucher", slog.String("id", v.ID), slog.String("title", v.Title))
	}

	return nil
}
