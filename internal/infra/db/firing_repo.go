package db

import (
	"context"

	"github.com/aminhilali/minaret/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FiringRepository is the persisted FiringStore: records survive a
// restart, so an alert never fires twice even if the service bounces
// inside an open window.
type FiringRepository struct {
	db *gorm.DB
}

func NewFiringRepository(db *gorm.DB) *FiringRepository {
	return &FiringRepository{db: db}
}

func (r *FiringRepository) Seen(ctx context.Context, key domain.FiringKey) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&firingRecordModel{}).
		Where("day = ? AND kind = ? AND prayer = ?", key.Day, string(key.Kind), string(key.Prayer)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *FiringRepository) Record(ctx context.Context, key domain.FiringKey) error {
	model := firingRecordModel{
		Day:    key.Day,
		Kind:   string(key.Kind),
		Prayer: string(key.Prayer),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model).Error
}
