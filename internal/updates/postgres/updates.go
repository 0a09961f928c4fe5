package postgres

import (
	"context"

	"github.com/rakhadyo/company-portal/internal/updates"
	"gorm.io/gorm"
)

// UpdateRepository implements the updates.Repository interface using GORM
type UpdateRepository struct {
	db *gorm.DB
}

func NewUpdateRepository(db *gorm.DB) updates.Repository {
	return &UpdateRepository{db: db}
}

func (r *UpdateRepository) ListRecords(ctx context.Context) ([]*updates.Record, error) {
	var records []*updates.Record
	err := r.db.WithContext(ctx).
		Order("week_start DESC, created_at DESC").
		Find(&records).Error
	return records, err
}

func (r *UpdateRepository) Insert(ctx context.Context, rec *updates.Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}
