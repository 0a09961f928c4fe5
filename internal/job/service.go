package job

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rakhadyo/company-portal/internal"
)

type Repository interface {
	ListAll(ctx context.Context) ([]Job, error)
	ListByStatus(ctx context.Context, status Status) ([]Job, error)
	GetByID(ctx context.Context, jobID string) (*Job, error)
	Save(ctx context.Context, j *Job) error
	Delete(ctx context.Context, jobID string) error
	GetBank(ctx context.Context) ([]byte, error)
	SaveBank(ctx context.Context, document []byte) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// PublicJobs lists only enabled jobs, for the unauthenticated careers
// endpoint. Question references and inline questions stay included so the
// application form can render.
func (s *Service) PublicJobs(ctx context.Context) ([]Job, error) {
	jobs, err := s.repo.ListByStatus(ctx, StatusEnabled)
	if err != nil {
		s.logger.Error("failed to list public jobs", "error", err)
		return nil, err
	}
	return jobs, nil
}

func (s *Service) AllJobs(ctx context.Context) ([]Job, error) {
	jobs, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list jobs", "error", err)
		return nil, err
	}
	return jobs, nil
}

// Upsert creates or updates a job keyed by the presence of JobID.
func (s *Service) Upsert(ctx context.Context, dto UpsertJobDTO) (*Job, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	status := StatusEnabled
	if dto.Status != "" {
		parsed, err := ParseStatus(dto.Status)
		if err != nil {
			return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidJobStatus)
		}
		status = parsed
	}

	now := time.Now()
	j := &Job{
		JobID:               dto.JobID,
		Title:               dto.Title,
		Team:                dto.Team,
		Location:            dto.Location,
		Description:         dto.Description,
		Tags:                dto.Tags,
		Status:              status,
		GeneralQuestionIDs:  dto.GeneralQuestionIDs,
		PersonalQuestionIDs: dto.PersonalQuestionIDs,
		RoleQuestions:       dto.RoleQuestions,
		UpdatedAt:           now,
	}

	if j.JobID == "" {
		j.JobID = uuid.New().String()
		j.CreatedAt = now
	} else {
		existing, err := s.repo.GetByID(ctx, j.JobID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, internal.ErrJobNotFound
			}
			return nil, err
		}
		j.CreatedAt = existing.CreatedAt
	}

	if err := s.pruneAgainstBank(ctx, j); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, j); err != nil {
		s.logger.Error("failed to save job", "job_id", j.JobID, "error", err)
		return nil, err
	}
	return j, nil
}

// SetStatus transitions a job, accepting legacy status spellings.
func (s *Service) SetStatus(ctx context.Context, jobID string, dto SetStatusDTO) (*Job, error) {
	status, err := ParseStatus(dto.Status)
	if err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidJobStatus)
	}

	j, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrJobNotFound
		}
		return nil, err
	}

	j.Status = status
	j.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, j); err != nil {
		s.logger.Error("failed to update job status", "job_id", jobID, "error", err)
		return nil, err
	}
	return j, nil
}

// Delete removes a job permanently.
func (s *Service) Delete(ctx context.Context, jobID string) error {
	if err := s.repo.Delete(ctx, jobID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrJobNotFound
		}
		s.logger.Error("failed to delete job", "job_id", jobID, "error", err)
		return err
	}
	return nil
}

// Bank returns the current question bank, empty lists when none was ever
// saved.
func (s *Service) Bank(ctx context.Context) (*QuestionBank, error) {
	raw, err := s.repo.GetBank(ctx)
	if err != nil {
		s.logger.Error("failed to load question bank", "error", err)
		return nil, err
	}
	if len(raw) == 0 {
		return &QuestionBank{General: []Question{}, Personal: []Question{}}, nil
	}

	bank, err := ValidateBank(raw)
	if err != nil {
		// A stored bank that no longer validates is a data problem, not a
		// caller problem.
		s.logger.Error("stored question bank fails validation", "error", err)
		return nil, internal.NewInternalError("question bank is corrupted", err)
	}
	return bank, nil
}

// SaveBank validates and replaces the whole bank document, then prunes
// question references that the new bank no longer defines from every job.
func (s *Service) SaveBank(ctx context.Context, raw []byte) (*QuestionBank, error) {
	bank, err := ValidateBank(raw)
	if err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeBankSchema)
	}

	if err := s.repo.SaveBank(ctx, raw); err != nil {
		s.logger.Error("failed to save question bank", "error", err)
		return nil, err
	}

	known := bank.KnownIDs()
	jobs, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("failed to list jobs for pruning", "error", err)
		return bank, nil
	}
	for i := range jobs {
		if !jobs[i].PruneQuestionIDs(known) {
			continue
		}
		jobs[i].UpdatedAt = time.Now()
		if err := s.repo.Save(ctx, &jobs[i]); err != nil {
			s.logger.Error("failed to prune job question ids", "job_id", jobs[i].JobID, "error", err)
		} else {
			s.logger.Info("pruned dangling question ids", "job_id", jobs[i].JobID)
		}
	}
	return bank, nil
}

func (s *Service) pruneAgainstBank(ctx context.Context, j *Job) error {
	if len(j.GeneralQuestionIDs) == 0 && len(j.PersonalQuestionIDs) == 0 {
		return nil
	}
	bank, err := s.Bank(ctx)
	if err != nil {
		return err
	}
	if j.PruneQuestionIDs(bank.KnownIDs()) {
		s.logger.Warn("job referenced unknown question ids, pruned", "job_id", j.JobID)
	}
	return nil
}
