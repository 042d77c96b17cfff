package owner

import (
	"context"
	"errors"

	"github.com/Deadra-code/Kitchen-POS/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ownerRow struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func (ownerRow) TableName() string { return "owners" }

type sqliteRepo struct {
	db *gorm.DB
}

func NewSQLite(db *gorm.DB) Repository {
	return &sqliteRepo{db: db}
}

func (r *sqliteRepo) List(ctx context.Context) ([]domain.OwnerItem, error) {
	var rows []ownerRow
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.OwnerItem, 0, len(rows))
	for _, row := range rows {
		result = append(result, domain.OwnerItem(row))
	}
	return result, nil
}

func (r *sqliteRepo) Get(ctx context.Context, id string) (*domain.OwnerItem, error) {
	var row ownerRow
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	c := domain.OwnerItem(row)
	return &c, nil
}

func (r *sqliteRepo) Put(ctx context.Context, c domain.OwnerItem) error {
	row := ownerRow(c)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoUpdates: clause.AssignmentColumns([]string{"name"})}).
		Create(&row).Error
}

func (r *sqliteRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&ownerRow{}).Error
}

func (r *sqliteRepo) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM owners`).Error
}
