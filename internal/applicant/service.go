package applicant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rakhadyo/company-portal/internal"
	"github.com/rakhadyo/company-portal/internal/core/events"
	"github.com/rakhadyo/company-portal/internal/mailgateway"
	"github.com/rakhadyo/company-portal/internal/user"
)

const defaultPageSize = 200

type Repository interface {
	ListPage(ctx context.Context, cursor string, limit int) ([]Applicant, string, error)
	GetByID(ctx context.Context, applicantID string) (*Applicant, error)
	UpdateStage(ctx context.Context, applicantID string, stage Stage, status string) error
}

// MailAPI is the slice of the gateway client the composer needs. Every
// call carries its own credential.
type MailAPI interface {
	SendRichEmail(ctx context.Context, cred mailgateway.Credential, req mailgateway.RichEmailRequest) (*mailgateway.SendResult, error)
	SendDocEmail(ctx context.Context, cred mailgateway.Credential, req mailgateway.DocEmailRequest) (*mailgateway.SendResult, error)
	SendWelcomeEmail(ctx context.Context, cred mailgateway.Credential, req mailgateway.WelcomeEmailRequest) (*mailgateway.SendResult, error)
}

// EmployeeLookupAPI resolves a portal user for the employee document flow.
type EmployeeLookupAPI interface {
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
	PublishSync(ctx context.Context, event events.Event) error
}

type Service struct {
	repo      Repository
	mail      MailAPI
	employees EmployeeLookupAPI
	publisher EventPublisher
	cred      mailgateway.Credential
	logger    *slog.Logger
}

func NewService(repo Repository, mail MailAPI, employees EmployeeLookupAPI, publisher EventPublisher, cred mailgateway.Credential, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		mail:      mail,
		employees: employees,
		publisher: publisher,
		cred:      cred,
		logger:    logger,
	}
}

// ListResult is one page of applicants plus pipeline KPIs. KPIs count the
// whole loaded page, not the filtered view.
type ListResult struct {
	Applicants []Applicant `json:"applicants"`
	NextCursor string      `json:"nextCursor,omitempty"`
	KPIs       KPICounts   `json:"kpis"`
}

func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if err := q.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	page, nextCursor, err := s.repo.ListPage(ctx, q.Cursor, limit)
	if err != nil {
		s.logger.Error("failed to load applicants page", "error", err)
		return nil, err
	}

	for i := range page {
		if page[i].Stage == "" {
			inferred := InferStage(page[i].Status)
			if inferred == StageUnknown && page[i].Status != "" {
				s.logger.Warn("applicant status matches no known stage",
					"applicant_id", page[i].ApplicantID, "status", page[i].Status)
			}
			page[i].Stage = inferred
		}
	}

	return &ListResult{
		Applicants: ApplyFilters(page, q),
		NextCursor: nextCursor,
		KPIs:       CountKPIs(page),
	}, nil
}

func (s *Service) Get(ctx context.Context, applicantID string) (*Applicant, error) {
	a, err := s.repo.GetByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrApplicantNotFound
		}
		s.logger.Error("failed to load applicant", "applicant_id", applicantID, "error", err)
		return nil, err
	}
	if a.Stage == "" {
		a.Stage = InferStage(a.Status)
	}
	return a, nil
}

// SendStageEmail validates the composer form, sends via the gateway and,
// on success, advances the applicant's stage. Validation failures never
// reach the gateway.
func (s *Service) SendStageEmail(ctx context.Context, applicantID string, req *ComposeRequest, sentBy string) (*mailgateway.SendResult, error) {
	a, err := s.Get(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	composed, err := Compose(a, req)
	if err != nil {
		return nil, s.composeError(err)
	}

	result, err := s.dispatch(ctx, composed)
	if err != nil {
		s.logger.Error("stage email send failed",
			"applicant_id", applicantID, "stage", req.Stage, "error", err)
		return nil, err
	}

	fromStage := a.EffectiveStage()
	status := fmt.Sprintf("%s email sent", req.Stage)
	if err := s.repo.UpdateStage(ctx, applicantID, req.Stage, status); err != nil {
		// The mail went out; the stage move is best-effort after that.
		s.logger.Error("failed to record stage transition",
			"applicant_id", applicantID, "stage", req.Stage, "error", err)
	} else if fromStage != req.Stage {
		if err := s.publisher.PublishSync(ctx, events.NewApplicantStageChangedEvent(
			applicantID, string(fromStage), string(req.Stage))); err != nil {
			s.logger.Warn("failed to publish stage change", "applicant_id", applicantID, "error", err)
		}
	}

	if err := s.publisher.Publish(ctx, events.NewApplicantEmailSentEvent(
		applicantID, string(req.Stage), composed.Kind, sentBy)); err != nil {
		s.logger.Warn("failed to publish email sent event", "applicant_id", applicantID, "error", err)
	}

	return result, nil
}

// SendEmployeeDocEmail sends a document email to an existing employee,
// reusing the NDA/Offer composer stages with the user's contact details.
func (s *Service) SendEmployeeDocEmail(ctx context.Context, username string, req *ComposeRequest, sentBy string) (*mailgateway.SendResult, error) {
	if _, ok := docEmailTypes[req.Stage]; !ok {
		return nil, internal.NewValidationError(
			fmt.Sprintf("stage %q has no document email", req.Stage), internal.ErrCodeInvalidStage)
	}

	u, err := s.employees.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	// Employees ride through the composer as a synthetic applicant so the
	// same validation and variable rules apply.
	target := &Applicant{ApplicantID: "employee:" + u.Username, Name: u.Name, Email: u.Email}
	composed, err := Compose(target, req)
	if err != nil {
		return nil, s.composeError(err)
	}

	result, err := s.dispatch(ctx, composed)
	if err != nil {
		s.logger.Error("employee doc email send failed",
			"username", username, "doc_type", req.Stage, "error", err)
		return nil, err
	}

	if err := s.publisher.Publish(ctx, events.NewApplicantEmailSentEvent(
		target.ApplicantID, string(req.Stage), composed.Kind, sentBy)); err != nil {
		s.logger.Warn("failed to publish email sent event", "username", username, "error", err)
	}

	return result, nil
}

func (s *Service) dispatch(ctx context.Context, composed *ComposedEmail) (*mailgateway.SendResult, error) {
	switch composed.Kind {
	case "rich":
		return s.mail.SendRichEmail(ctx, s.cred, *composed.Rich)
	case "doc":
		return s.mail.SendDocEmail(ctx, s.cred, *composed.Doc)
	default:
		return s.mail.SendWelcomeEmail(ctx, s.cred, *composed.Welcome)
	}
}

func (s *Service) composeError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidStage):
		return internal.NewValidationError(err.Error(), internal.ErrCodeInvalidStage)
	case errors.Is(err, ErrMissingVars):
		return internal.NewValidationError(err.Error(), internal.ErrCodeMissingStageVars)
	default:
		return internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}
}
