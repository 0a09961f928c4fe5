package updates

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rakhadyo/company-portal/internal"
	"github.com/rakhadyo/company-portal/internal/core/events"
)

type Repository interface {
	ListRecords(ctx context.Context) ([]*Record, error)
	Insert(ctx context.Context, rec *Record) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	publisher EventPublisher
	logger    *slog.Logger
}

func NewService(repo Repository, publisher EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns all updates canonicalized, deduplicated and sorted. Rows
// that cannot be normalized are skipped with a warning rather than failing
// the whole listing.
func (s *Service) List(ctx context.Context) ([]*Update, error) {
	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		s.logger.Error("failed to load weekly updates", "error", err)
		return nil, err
	}

	normalized := make([]*Update, 0, len(records))
	for _, rec := range records {
		u, err := Normalize(rec)
		if err != nil {
			s.logger.Warn("skipping malformed update record", "record_id", rec.ID, "error", err)
			continue
		}
		normalized = append(normalized, u)
	}

	deduped := Dedupe(normalized)
	Sort(deduped)
	return deduped, nil
}

// ByWeek filters the canonical listing down to one weekStart.
func (s *Service) ByWeek(ctx context.Context, weekStart string) ([]*Update, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*Update, 0, len(all))
	for _, u := range all {
		if u.WeekStart == weekStart {
			out = append(out, u)
		}
	}
	return out, nil
}

// Weeks returns the distinct week-start values for UI pickers.
func (s *Service) Weeks(ctx context.Context) ([]string, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return AllWeeks(all), nil
}

// Submit persists a weekly update for the logged-in user. Zero-hour
// timesheet entries are dropped and totalHours computed before write.
func (s *Service) Submit(ctx context.Context, username string, dto SubmitUpdateDTO) (*Update, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidWeekStart)
	}

	timesheet := DropZeroHours(dto.Timesheet)
	totalHours := TotalHours(timesheet)
	now := time.Now().UTC()

	doc := map[string]interface{}{
		"userId":          username,
		"weekStart":       dto.WeekStart,
		"accomplishments": dto.Accomplishments,
		"blockers":        dto.Blockers,
		"next":            dto.Next,
		"retrospective":   dto.Retrospective,
		"timesheet":       timesheet,
		"totalHours":      totalHours,
		"createdAt":       now.Format(time.RFC3339),
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, internal.NewInternalError("failed to encode update payload", err)
	}

	rec := &Record{
		Username:  username,
		WeekStart: dto.WeekStart,
		Payload:   payload,
		CreatedAt: now,
	}

	if err := s.repo.Insert(ctx, rec); err != nil {
		s.logger.Error("failed to insert weekly update", "error", err, "username", username, "week_start", dto.WeekStart)
		return nil, err
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewUpdateSubmittedEvent(username, dto.WeekStart, totalHours)); err != nil {
			s.logger.Warn("failed to publish update event", "error", err)
		}
	}

	s.logger.Info("weekly update submitted",
		"username", username,
		"week_start", dto.WeekStart,
		"total_hours", totalHours)

	return &Update{
		ID:              rec.ID,
		Username:        username,
		WeekStart:       dto.WeekStart,
		Accomplishments: dto.Accomplishments,
		Blockers:        dto.Blockers,
		Next:            dto.Next,
		Retrospective:   dto.Retrospective,
		Timesheet:       timesheet,
		TotalHours:      totalHours,
		CreatedAt:       now.Format(time.RFC3339),
	}, nil
}
