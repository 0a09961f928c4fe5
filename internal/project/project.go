package project

import (
	"errors"
	"time"
)

// Project is owned by the admin screens. The upsert endpoint is keyed by
// presence of ProjectID; "delete" sets status to inactive.
type Project struct {
	ProjectID      string    `json:"project_id" gorm:"primaryKey;column:project_id"`
	Name           string    `json:"name" gorm:"not null"`
	Description    string    `json:"description"`
	Owner          string    `json:"owner" gorm:"column:owner_username"`
	Producer       string    `json:"producer" gorm:"column:producer_username"`
	BudgetTotal    int64     `json:"budget_total" gorm:"column:budget_total"`
	BudgetConsumed int64     `json:"budget_consumed" gorm:"column:budget_consumed"`
	Status         string    `json:"status" gorm:"default:active"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Project) TableName() string {
	return "projects"
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusOnHold   = "on-hold"
)

// WeeklyReport is one week of budget burn for a project.
type WeeklyReport struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	ProjectID string    `json:"project_id" gorm:"column:project_id;not null"`
	WeekStart string    `json:"week_start" gorm:"column:week_start;not null"`
	Consumed  int64     `json:"consumed"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (WeeklyReport) TableName() string {
	return "project_weekly_reports"
}

var ErrNotFound = errors.New("project not found")

// UpsertProjectDTO creates when ProjectID is empty, updates otherwise.
type UpsertProjectDTO struct {
	ProjectID      string `json:"project_id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Owner          string `json:"owner"`
	Producer       string `json:"producer"`
	BudgetTotal    int64  `json:"budget_total"`
	BudgetConsumed int64  `json:"budget_consumed"`
	Status         string `json:"status"`
}

func (dto UpsertProjectDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if dto.BudgetTotal < 0 || dto.BudgetConsumed < 0 {
		return errors.New("budget values cannot be negative")
	}
	return nil
}

type WeeklyReportDTO struct {
	ProjectID string `json:"project_id"`
	WeekStart string `json:"week_start"`
	Consumed  int64  `json:"consumed"`
	Notes     string `json:"notes"`
}

func (dto WeeklyReportDTO) Validate() error {
	if dto.ProjectID == "" {
		return errors.New("project_id is required")
	}
	if dto.WeekStart == "" {
		return errors.New("week_start is required")
	}
	if dto.Consumed < 0 {
		return errors.New("consumed cannot be negative")
	}
	return nil
}
