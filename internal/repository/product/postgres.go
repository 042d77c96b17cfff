package product

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

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

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT id, name, price::text, category, owner, image, description
FROM products
ORDER BY name ASC, id ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT id, name, price::text, category, owner, image, description
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Put(ctx context.Context, p domain.Product) error {
	const q = `
INSERT INTO products (id, name, price, category, owner, image, description)
VALUES ($1, $2, $3::numeric, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    category = EXCLUDED.category,
    owner = EXCLUDED.owner,
    image = EXCLUDED.image,
    description = EXCLUDED.description
`
	_, err := r.pool.Exec(ctx, q,
		p.ID,
		p.Name,
		p.Price.String(),
		p.Category,
		p.Owner,
		p.Image,
		p.Description,
	)
	if err != nil {
		r.logger.Printf("product repo: upsert id=%s error=%v", p.ID, err)
		return err
	}
	r.logger.Printf("product repo: upserted id=%s name=%q", p.ID, p.Name)
	return nil
}

func (r *postgresRepo) Add(ctx context.Context, p domain.Product) error {
	return r.Put(ctx, p)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM products`)
	return err
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &p.Category, &p.Owner, &p.Image, &p.Description); err != nil {
		return p, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return p, fmt.Errorf("product %s: parse price %q: %w", p.ID, price, err)
	}
	p.Price = d
	return p, nil
}
