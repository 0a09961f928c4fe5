package job

import (
	"strings"

	"github.com/rakhadyo/company-portal/internal"
)

// UpsertJobDTO creates a job when JobID is empty and updates it otherwise.
// Status accepts legacy spellings; it is canonicalized before persisting.
type UpsertJobDTO struct {
	JobID               string     `json:"jobId,omitempty"`
	Title               string     `json:"title"`
	Team                string     `json:"team"`
	Location            string     `json:"location"`
	Description         string     `json:"description,omitempty"`
	Tags                []string   `json:"tags,omitempty"`
	Status              string     `json:"status"`
	GeneralQuestionIDs  []string   `json:"generalQuestionIds,omitempty"`
	PersonalQuestionIDs []string   `json:"personalQuestionIds,omitempty"`
	RoleQuestions       []Question `json:"roleQuestions,omitempty"`
}

func (dto *UpsertJobDTO) Validate() error {
	if strings.TrimSpace(dto.Title) == "" {
		return internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
	}
	if dto.Status != "" {
		if _, err := ParseStatus(dto.Status); err != nil {
			return internal.NewValidationError(err.Error(), internal.ErrCodeInvalidJobStatus)
		}
	}
	for _, q := range dto.RoleQuestions {
		if strings.TrimSpace(q.ID) == "" || strings.TrimSpace(q.Label) == "" {
			return internal.NewValidationError("role questions need an id and a label", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

// SetStatusDTO carries the target status for a transition.
type SetStatusDTO struct {
	Status string `json:"status"`
}
