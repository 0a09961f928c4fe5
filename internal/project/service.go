package project

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rakhadyo/company-portal/internal"
)

type Repository interface {
	GetByID(ctx context.Context, projectID string) (*Project, error)
	GetAll(ctx context.Context) ([]*Project, error)
	Save(ctx context.Context, p *Project) error
	WeeklyReports(ctx context.Context, projectID string) ([]*WeeklyReport, error)
	AddWeeklyReport(ctx context.Context, r *WeeklyReport) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAll(ctx context.Context) ([]*Project, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) GetByID(ctx context.Context, projectID string) (*Project, error) {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		if err == ErrNotFound {
			return nil, internal.ErrProjectNotFound
		}
		return nil, err
	}
	return p, nil
}

// Upsert creates or replaces a project wholesale. No version check:
// last write wins when two admins edit concurrently.
func (s *Service) Upsert(ctx context.Context, dto UpsertProjectDTO) (*Project, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	now := time.Now()
	p := &Project{
		ProjectID:      dto.ProjectID,
		Name:           dto.Name,
		Description:    dto.Description,
		Owner:          dto.Owner,
		Producer:       dto.Producer,
		BudgetTotal:    dto.BudgetTotal,
		BudgetConsumed: dto.BudgetConsumed,
		Status:         dto.Status,
		UpdatedAt:      now,
	}

	if p.Status == "" {
		p.Status = StatusActive
	}

	if p.ProjectID == "" {
		p.ProjectID = uuid.NewString()
		p.CreatedAt = now
	} else {
		existing, err := s.repo.GetByID(ctx, p.ProjectID)
		if err != nil {
			if err == ErrNotFound {
				return nil, internal.ErrProjectNotFound
			}
			return nil, err
		}
		p.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Save(ctx, p); err != nil {
		s.logger.Error("failed to save project", "error", err, "project_id", p.ProjectID)
		return nil, err
	}

	s.logger.Info("project saved", "project_id", p.ProjectID, "status", p.Status)
	return p, nil
}

// Deactivate models "delete" by flipping status to inactive.
func (s *Service) Deactivate(ctx context.Context, projectID string) (*Project, error) {
	p, err := s.repo.GetByID(ctx, projectID)
	if err != nil {
		if err == ErrNotFound {
			return nil, internal.ErrProjectNotFound
		}
		return nil, err
	}

	p.Status = StatusInactive
	p.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("project deactivated", "project_id", projectID)
	return p, nil
}

func (s *Service) WeeklyReports(ctx context.Context, projectID string) ([]*WeeklyReport, error) {
	if _, err := s.repo.GetByID(ctx, projectID); err != nil {
		if err == ErrNotFound {
			return nil, internal.ErrProjectNotFound
		}
		return nil, err
	}
	return s.repo.WeeklyReports(ctx, projectID)
}

func (s *Service) AddWeeklyReport(ctx context.Context, dto WeeklyReportDTO) (*WeeklyReport, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetByID(ctx, dto.ProjectID); err != nil {
		if err == ErrNotFound {
			return nil, internal.ErrProjectNotFound
		}
		return nil, err
	}

	report := &WeeklyReport{
		ProjectID: dto.ProjectID,
		WeekStart: dto.WeekStart,
		Consumed:  dto.Consumed,
		Notes:     dto.Notes,
		CreatedAt: time.Now(),
	}

	if err := s.repo.AddWeeklyReport(ctx, report); err != nil {
		s.logger.Error("failed to add weekly report", "error", err, "project_id", dto.ProjectID)
		return nil, err
	}

	return report, nil
}
