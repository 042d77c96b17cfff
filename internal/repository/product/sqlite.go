package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type productRow struct {
	ID          string `gorm:"primaryKey"`
	Name        string
	Price       decimal.Decimal
	Category    string
	Owner       string
	Image       string
	Description string
}

func (productRow) TableName() string { return "products" }

type sqliteRepo struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewSQLite(db *gorm.DB, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &sqliteRepo{db: db, logger: logger}
}

func (r *sqliteRepo) List(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error; err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	result := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.Product(row))
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *sqliteRepo) Get(ctx context.Context, id string) (*domain.Product, error) {
	var row productRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	p := domain.Product(row)
	return &p, nil
}

func (r *sqliteRepo) Put(ctx context.Context, p domain.Product) error {
	row := productRow(p)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		r.logger.Printf("product repo: upsert id=%s error=%v", p.ID, err)
		return err
	}
	r.logger.Printf("product repo: upserted id=%s name=%q", p.ID, p.Name)
	return nil
}

func (r *sqliteRepo) Add(ctx context.Context, p domain.Product) error {
	return r.Put(ctx, p)
}

func (r *sqliteRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&productRow{}).Error; err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	return nil
}

func (r *sqliteRepo) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM products`).Error
}
