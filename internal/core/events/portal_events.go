package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeApplicantEmailSent    = "applicant.email_sent"
	EventTypeApplicantStageChanged = "applicant.stage_changed"
	EventTypeUpdateSubmitted       = "update.submitted"
)

type ApplicantEmailSentEvent struct {
	BaseEvent
	ApplicantID string `json:"applicant_id"`
	Stage       string `json:"stage"`
	EmailType   string `json:"email_type"`
	SentBy      string `json:"sent_by"`
}

func NewApplicantEmailSentEvent(applicantID, stage, emailType, sentBy string) *ApplicantEmailSentEvent {
	return &ApplicantEmailSentEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApplicantEmailSent,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"applicant_id": applicantID,
				"stage":        stage,
				"email_type":   emailType,
				"sent_by":      sentBy,
			},
		},
		ApplicantID: applicantID,
		Stage:       stage,
		EmailType:   emailType,
		SentBy:      sentBy,
	}
}

type ApplicantStageChangedEvent struct {
	BaseEvent
	ApplicantID string `json:"applicant_id"`
	FromStage   string `json:"from_stage"`
	ToStage     string `json:"to_stage"`
}

func NewApplicantStageChangedEvent(applicantID, fromStage, toStage string) *ApplicantStageChangedEvent {
	return &ApplicantStageChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeApplicantStageChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"applicant_id": applicantID,
				"from_stage":   fromStage,
				"to_stage":     toStage,
			},
		},
		ApplicantID: applicantID,
		FromStage:   fromStage,
		ToStage:     toStage,
	}
}

type UpdateSubmittedEvent struct {
	BaseEvent
	Username   string  `json:"username"`
	WeekStart  string  `json:"week_start"`
	TotalHours float64 `json:"total_hours"`
}

func NewUpdateSubmittedEvent(username, weekStart string, totalHours float64) *UpdateSubmittedEvent {
	return &UpdateSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUpdateSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"username":    username,
				"week_start":  weekStart,
				"total_hours": totalHours,
			},
		},
		Username:   username,
		WeekStart:  weekStart,
		TotalHours: totalHours,
	}
}
