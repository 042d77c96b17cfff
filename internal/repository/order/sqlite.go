package order

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderRow struct {
	ID            string `gorm:"primaryKey"`
	Items         string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	TaxRate       decimal.Decimal
	Total         decimal.Decimal
	PlacedAt      time.Time
	PaymentMethod string
}

func (orderRow) TableName() string { return "orders" }

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

func (r *sqliteRepo) Add(ctx context.Context, o domain.Order) error {
	items, err := encodeItems(o.Items)
	if err != nil {
		return err
	}
	row := orderRow{
		ID:            o.ID,
		Items:         string(items),
		Subtotal:      o.Subtotal,
		Tax:           o.Tax,
		TaxRate:       o.TaxRate,
		Total:         o.Total,
		PlacedAt:      o.Date.UTC(),
		PaymentMethod: string(o.PaymentMethod),
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&orderRow{}).Where("id = ?", o.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrAlreadyExists
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		r.logger.Printf("order repo: add id=%s error=%v", o.ID, err)
		return err
	}
	r.logger.Printf("order repo: added id=%s total=%s items=%d", o.ID, o.Total, len(o.Items))
	return nil
}

func (r *sqliteRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	var row orderRow
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("order repo: get id=%s error=%v", id, err)
		return nil, err
	}
	o, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *sqliteRepo) List(ctx context.Context) ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.WithContext(ctx).Order("placed_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		r.logger.Printf("order repo: list error=%v", err)
		return nil, err
	}
	result := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		o, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, nil
}

func (r *sqliteRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&orderRow{}).Error
}

func (r *sqliteRepo) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM orders`).Error
}

func (row orderRow) toDomain() (domain.Order, error) {
	items, err := decodeItems([]byte(row.Items))
	if err != nil {
		return domain.Order{}, err
	}
	return domain.Order{
		ID:            row.ID,
		Items:         items,
		Subtotal:      row.Subtotal,
		Tax:           row.Tax,
		TaxRate:       row.TaxRate,
		Total:         row.Total,
		Date:          row.PlacedAt,
		PaymentMethod: domain.PaymentMethod(row.PaymentMethod),
	}, nil
}
