package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/rakhadyo/company-portal/internal/job"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobRepository implements the job.Repository interface using GORM
type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) job.Repository {
	return &JobRepository{db: db}
}

func (r *JobRepository) ListAll(ctx context.Context) ([]job.Job, error) {
	var jobs []job.Job
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) ListByStatus(ctx context.Context, status job.Status) ([]job.Job, error) {
	var jobs []job.Job
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) GetByID(ctx context.Context, jobID string) (*job.Job, error) {
	var j job.Job
	err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		First(&j).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, job.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *JobRepository) Save(ctx context.Context, j *job.Job) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "job_id"}},
			UpdateAll: true,
		}).
		Create(j).Error
}

func (r *JobRepository) Delete(ctx context.Context, jobID string) error {
	result := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Delete(&job.Job{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return job.ErrNotFound
	}
	return nil
}

// bankRow is the single-row storage for the question bank document.
type bankRow struct {
	ID        int       `gorm:"column:id;primaryKey"`
	Document  []byte    `gorm:"column:document;type:jsonb"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (bankRow) TableName() string {
	return "question_bank"
}

func (r *JobRepository) GetBank(ctx context.Context) ([]byte, error) {
	var row bankRow
	err := r.db.WithContext(ctx).
		Where("id = ?", 1).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row.Document, nil
}

func (r *JobRepository) SaveBank(ctx context.Context, document []byte) error {
	row := bankRow{ID: 1, Document: document, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}
