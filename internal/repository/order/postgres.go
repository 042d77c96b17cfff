package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const selectOrders = `
SELECT id, items, subtotal::text, tax::text, tax_rate::text, total::text, placed_at, payment_method
FROM orders
`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Add(ctx context.Context, o domain.Order) error {
	items, err := encodeItems(o.Items)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO orders (id, items, subtotal, tax, tax_rate, total, placed_at, payment_method)
VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6::numeric, $7, $8)
`
	_, err = r.pool.Exec(ctx, q,
		o.ID,
		items,
		o.Subtotal.String(),
		o.Tax.String(),
		o.TaxRate.String(),
		o.Total.String(),
		o.Date,
		string(o.PaymentMethod),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			r.logger.Printf("order repo: add id=%s duplicate", o.ID)
			return domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: add id=%s error=%v", o.ID, err)
		return err
	}
	r.logger.Printf("order repo: added id=%s total=%s items=%d", o.ID, o.Total, len(o.Items))
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, selectOrders+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, selectOrders+`ORDER BY placed_at DESC, id DESC`)
	if err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("order repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	return err
}

func (r *postgresRepo) Clear(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM orders`)
	return err
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o                             domain.Order
		items                         []byte
		subtotal, tax, taxRate, total string
		method                        string
	)
	if err := row.Scan(&o.ID, &items, &subtotal, &tax, &taxRate, &total, &o.Date, &method); err != nil {
		return o, err
	}
	var err error
	if o.Items, err = decodeItems(items); err != nil {
		return o, err
	}
	amounts := []struct {
		dst *decimal.Decimal
		raw string
	}{
		{&o.Subtotal, subtotal},
		{&o.Tax, tax},
		{&o.TaxRate, taxRate},
		{&o.Total, total},
	}
	for _, a := range amounts {
		d, err := decimal.NewFromString(a.raw)
		if err != nil {
			return o, fmt.Errorf("order %s: parse amount %q: %w", o.ID, a.raw, err)
		}
		*a.dst = d
	}
	o.PaymentMethod = domain.PaymentMethod(method)
	return o, nil
}
