package job

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("job not found")
	ErrInvalidStatus = errors.New("invalid job status")
)

// Status is the canonical job lifecycle value. Legacy rows and old admin
// screens used ACTIVE/PAUSED/DISABLED; ParseStatus folds those in, but
// only canonical values are ever written back.
type Status string

const (
	StatusEnabled  Status = "enabled"
	StatusPaused   Status = "paused"
	StatusDisabled Status = "disabled"
)

func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "enabled", "active":
		return StatusEnabled, nil
	case "paused":
		return StatusPaused, nil
	case "disabled":
		return StatusDisabled, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Question is one entry of the question bank or a job's inline role
// questions.
type Question struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type Job struct {
	JobID               string     `gorm:"column:job_id;primaryKey" json:"jobId"`
	Title               string     `gorm:"column:title" json:"title"`
	Team                string     `gorm:"column:team" json:"team"`
	Location            string     `gorm:"column:location" json:"location"`
	Description         string     `gorm:"column:description" json:"description,omitempty"`
	Tags                []string   `gorm:"column:tags;serializer:json" json:"tags,omitempty"`
	Status              Status     `gorm:"column:status" json:"status"`
	GeneralQuestionIDs  []string   `gorm:"column:general_question_ids;serializer:json" json:"generalQuestionIds,omitempty"`
	PersonalQuestionIDs []string   `gorm:"column:personal_question_ids;serializer:json" json:"personalQuestionIds,omitempty"`
	RoleQuestions       []Question `gorm:"column:role_questions;serializer:json" json:"roleQuestions,omitempty"`
	CreatedAt           time.Time  `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt           time.Time  `gorm:"column:updated_at" json:"updatedAt"`
}

func (Job) TableName() string {
	return "jobs"
}

// PruneQuestionIDs drops references to bank questions that no longer
// exist. Returns true when anything was removed.
func (j *Job) PruneQuestionIDs(known map[string]bool) bool {
	pruned := false
	j.GeneralQuestionIDs, pruned = pruneIDs(j.GeneralQuestionIDs, known, pruned)
	j.PersonalQuestionIDs, pruned = pruneIDs(j.PersonalQuestionIDs, known, pruned)
	return pruned
}

func pruneIDs(ids []string, known map[string]bool, alreadyPruned bool) ([]string, bool) {
	kept := ids[:0]
	for _, id := range ids {
		if known[id] {
			kept = append(kept, id)
		}
	}
	return kept, alreadyPruned || len(kept) != len(ids)
}
