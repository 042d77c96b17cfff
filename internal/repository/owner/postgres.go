package owner

import (
	"context"
	"errors"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.OwnerItem, error) {
	const q = `
SELECT id, name
FROM owners
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.OwnerItem{}
	for rows.Next() {
		var c domain.OwnerItem
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Get(ctx context.Context, id string) (*domain.OwnerItem, error) {
	var c domain.OwnerItem
	err := r.pool.QueryRow(ctx, `SELECT id, name FROM owners WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Put(ctx context.Context, c domain.OwnerItem) error {
	const q = `
INSERT INTO owners (id, name)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE
SET name = EXCLUDED.name
`
	_, err := r.pool.Exec(ctx, q, c.ID, c.Name)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM owners WHERE id = $1`, id)
	return err
}

func (r *postgresRepo) Clear(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM owners`)
	return err
}
