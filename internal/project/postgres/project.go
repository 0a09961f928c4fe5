package postgres

import (
	"context"

	"github.com/rakhadyo/company-portal/internal/project"
	"gorm.io/gorm"
)

// ProjectRepository implements the project.Repository interface using GORM
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) project.Repository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) GetByID(ctx context.Context, projectID string) (*project.Project, error) {
	var p project.Project
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, project.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) GetAll(ctx context.Context) ([]*project.Project, error) {
	var projects []*project.Project
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) Save(ctx context.Context, p *project.Project) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProjectRepository) WeeklyReports(ctx context.Context, projectID string) ([]*project.WeeklyReport, error) {
	var reports []*project.WeeklyReport
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("week_start DESC").
		Find(&reports).Error
	return reports, err
}

func (r *ProjectRepository) AddWeeklyReport(ctx context.Context, report *project.WeeklyReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}
