package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/rakhadyo/company-portal/internal/applicant"
	"gorm.io/gorm"
)

// ApplicantRepository implements the applicant.Repository interface using GORM
type ApplicantRepository struct {
	db *gorm.DB
}

func NewApplicantRepository(db *gorm.DB) applicant.Repository {
	return &ApplicantRepository{db: db}
}

// ListPage returns one keyset page ordered newest-first. The cursor is the
// applicant_id of the last row of the previous page.
func (r *ApplicantRepository) ListPage(ctx context.Context, cursor string, limit int) ([]applicant.Applicant, string, error) {
	query := r.db.WithContext(ctx).
		Order("submitted_at DESC, applicant_id DESC").
		Limit(limit + 1)

	if cursor != "" {
		var anchor applicant.Applicant
		err := r.db.WithContext(ctx).
			Select("applicant_id", "submitted_at").
			Where("applicant_id = ?", cursor).
			First(&anchor).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}
		if err == nil {
			query = query.Where(
				"(submitted_at, applicant_id) < (?, ?)",
				anchor.SubmittedAt, anchor.ApplicantID,
			)
		}
	}

	var rows []applicant.Applicant
	if err := query.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = rows[len(rows)-1].ApplicantID
	}
	return rows, nextCursor, nil
}

func (r *ApplicantRepository) GetByID(ctx context.Context, applicantID string) (*applicant.Applicant, error) {
	var a applicant.Applicant
	err := r.db.WithContext(ctx).
		Where("applicant_id = ?", applicantID).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, applicant.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *ApplicantRepository) UpdateStage(ctx context.Context, applicantID string, stage applicant.Stage, status string) error {
	result := r.db.WithContext(ctx).
		Model(&applicant.Applicant{}).
		Where("applicant_id = ?", applicantID).
		Updates(map[string]interface{}{
			"stage":      string(stage),
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return applicant.ErrNotFound
	}
	return nil
}
