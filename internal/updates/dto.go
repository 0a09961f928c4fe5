package updates

import (
	"errors"
	"time"
)

// SubmitUpdateDTO is the weekly-update submission payload.
type SubmitUpdateDTO struct {
	WeekStart       string           `json:"week_start"`
	Accomplishments string           `json:"accomplishments"`
	Blockers        string           `json:"blockers"`
	Next            string           `json:"next"`
	Retrospective   Retrospective    `json:"retrospective"`
	Timesheet       []TimesheetEntry `json:"timesheet"`
}

func (dto SubmitUpdateDTO) Validate() error {
	if dto.WeekStart == "" {
		return errors.New("week_start is required")
	}
	if _, err := time.Parse("2006-01-02", dto.WeekStart); err != nil {
		return errors.New("week_start must be a YYYY-MM-DD date")
	}
	for _, e := range dto.Timesheet {
		if e.Hours < 0 {
			return errors.New("timesheet hours cannot be negative")
		}
		if e.Date == "" {
			return errors.New("timesheet entries need a date")
		}
	}
	return nil
}
