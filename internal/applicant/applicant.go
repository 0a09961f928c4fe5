package applicant

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound       = errors.New("applicant not found")
	ErrInvalidStage   = errors.New("invalid pipeline stage")
	ErrMissingVars    = errors.New("missing required email variables")
	ErrInvalidBucket  = errors.New("invalid applicant bucket")
	ErrInvalidSortKey = errors.New("invalid sort key")
)

// Stage is the canonical pipeline position. The stage column is the source
// of truth; InferStage only backfills rows that predate the column.
type Stage string

const (
	StageIntroduction Stage = "Introduction"
	StageTechnical    Stage = "Technical"
	StageConfirmation Stage = "Confirmation"
	StageReject       Stage = "Reject"
	StageNDA          Stage = "NDA"
	StageOffer        Stage = "Offer"
	StageWelcome      Stage = "Welcome"
	StageUnknown      Stage = "Unknown"
)

// Bucket groups stages for list filtering and KPI counts.
type Bucket string

const (
	BucketActive    Bucket = "active"
	BucketRejected  Bucket = "rejected"
	BucketConverted Bucket = "converted"
)

type Applicant struct {
	ApplicantID string    `gorm:"column:applicant_id;primaryKey" json:"applicantId"`
	Name        string    `gorm:"column:name" json:"name"`
	Email       string    `gorm:"column:email" json:"email"`
	RoleID      string    `gorm:"column:role_id" json:"roleId"`
	RoleTitle   string    `gorm:"column:role_title" json:"roleTitle"`
	Status      string    `gorm:"column:status" json:"status"`
	Stage       Stage     `gorm:"column:stage" json:"stage"`
	SubmittedAt time.Time `gorm:"column:submitted_at" json:"submittedAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
	Payload     []byte    `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`
}

func (Applicant) TableName() string {
	return "applicants"
}

// EffectiveStage prefers the explicit column and falls back to inference
// from the legacy free-text status.
func (a *Applicant) EffectiveStage() Stage {
	if a.Stage != "" {
		return a.Stage
	}
	return InferStage(a.Status)
}

func (a *Applicant) Bucket() Bucket {
	return BucketFor(a.EffectiveStage())
}

// stageTokens is checked in order; the first token found in the status
// decides the stage. Terminal outcomes outrank in-flight ones so a status
// like "rejected after technical" lands on Reject.
var stageTokens = []struct {
	token string
	stage Stage
}{
	{"reject", StageReject},
	{"welcome", StageWelcome},
	{"offer", StageOffer},
	{"nda", StageNDA},
	{"confirm", StageConfirmation},
	{"tech", StageTechnical},
	{"intro", StageIntroduction},
}

// InferStage maps a legacy free-text status onto a Stage. Unmatched text,
// including the empty string, becomes StageUnknown.
func InferStage(status string) Stage {
	lowered := strings.ToLower(status)
	for _, candidate := range stageTokens {
		if strings.Contains(lowered, candidate.token) {
			return candidate.stage
		}
	}
	return StageUnknown
}

func BucketFor(stage Stage) Bucket {
	switch stage {
	case StageReject:
		return BucketRejected
	case StageWelcome:
		return BucketConverted
	default:
		return BucketActive
	}
}

// ParseStage accepts only canonical stage names.
func ParseStage(raw string) (Stage, error) {
	for _, s := range []Stage{
		StageIntroduction, StageTechnical, StageConfirmation,
		StageReject, StageNDA, StageOffer, StageWelcome, StageUnknown,
	} {
		if raw == string(s) {
			return s, nil
		}
	}
	return "", ErrInvalidStage
}

func ParseBucket(raw string) (Bucket, error) {
	switch Bucket(strings.ToLower(raw)) {
	case BucketActive:
		return BucketActive, nil
	case BucketRejected:
		return BucketRejected, nil
	case BucketConverted:
		return BucketConverted, nil
	}
	return "", ErrInvalidBucket
}

// KPICounts summarizes a filtered page of applicants.
type KPICounts struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Rejected  int `json:"rejected"`
	Converted int `json:"converted"`
}

func CountKPIs(applicants []Applicant) KPICounts {
	counts := KPICounts{Total: len(applicants)}
	for i := range applicants {
		switch applicants[i].Bucket() {
		case BucketRejected:
			counts.Rejected++
		case BucketConverted:
			counts.Converted++
		default:
			counts.Active++
		}
	}
	return counts
}
