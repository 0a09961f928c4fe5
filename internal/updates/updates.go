package updates

import (
	"encoding/json"
	"errors"
	"sort"
	"time"
)

// Update is the canonical weekly-update row every consumer sees. Raw rows
// arrive with drifting field names and stringified sub-documents; Normalize
// maps them all into this shape.
type Update struct {
	ID              int64            `json:"id"`
	Username        string           `json:"username"`
	WeekStart       string           `json:"week_start"`
	Accomplishments string           `json:"accomplishments"`
	Blockers        string           `json:"blockers"`
	Next            string           `json:"next"`
	Retrospective   Retrospective    `json:"retrospective"`
	Timesheet       []TimesheetEntry `json:"timesheet"`
	TotalHours      float64          `json:"total_hours"`
	CreatedAt       string           `json:"created_at"`
}

type Retrospective struct {
	Worked  []string `json:"worked"`
	Didnt   []string `json:"didnt"`
	Improve []string `json:"improve"`
}

type TimesheetEntry struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
}

// Record is the persisted row. Payload carries the submission document;
// legacy rows wrote it with older field names, which Normalize tolerates.
type Record struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"column:username;not null"`
	WeekStart string    `json:"week_start" gorm:"column:week_start;not null"`
	Payload   []byte    `json:"payload" gorm:"column:payload;type:jsonb"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
}

func (Record) TableName() string {
	return "weekly_updates"
}

var ErrEmptyRecord = errors.New("empty update record")

// Normalize maps a persisted record onto the canonical shape. Field-name
// drift handled: weekStart|weekOf, next|nextWeek, userId|employee_id|username;
// retrospective and timesheet may be JSON-encoded strings or structures.
func Normalize(rec *Record) (*Update, error) {
	if rec == nil {
		return nil, ErrEmptyRecord
	}

	var payload map[string]interface{}
	if len(rec.Payload) > 0 {
		if err := json.Unmarshal(rec.Payload, &payload); err != nil {
			payload = nil
		}
	}

	u := &Update{
		ID:        rec.ID,
		Username:  rec.Username,
		WeekStart: rec.WeekStart,
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
	}

	if payload != nil {
		if v := firstString(payload, "userId", "employee_id", "username"); v != "" {
			u.Username = v
		}
		if v := firstString(payload, "weekStart", "weekOf"); v != "" {
			u.WeekStart = v
		}
		if v := firstString(payload, "createdAt"); v != "" {
			u.CreatedAt = v
		}
		u.Accomplishments = firstString(payload, "accomplishments")
		u.Blockers = firstString(payload, "blockers")
		u.Next = firstString(payload, "next", "nextWeek")
		u.Retrospective = parseRetrospective(payload["retrospective"])
		u.Timesheet = parseTimesheet(payload["timesheet"])
		u.TotalHours = TotalHours(u.Timesheet)
	}

	if u.Username == "" || u.WeekStart == "" {
		return nil, ErrEmptyRecord
	}

	return u, nil
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// parseRetrospective accepts either a JSON-encoded string or an already
// decoded object.
func parseRetrospective(v interface{}) Retrospective {
	switch t := v.(type) {
	case string:
		var r Retrospective
		if err := json.Unmarshal([]byte(t), &r); err == nil {
			return r
		}
		return Retrospective{}
	case map[string]interface{}:
		return Retrospective{
			Worked:  stringList(t["worked"]),
			Didnt:   stringList(t["didnt"]),
			Improve: stringList(t["improve"]),
		}
	default:
		return Retrospective{}
	}
}

func parseTimesheet(v interface{}) []TimesheetEntry {
	switch t := v.(type) {
	case string:
		var entries []TimesheetEntry
		if err := json.Unmarshal([]byte(t), &entries); err == nil {
			return entries
		}
		return nil
	case []interface{}:
		entries := make([]TimesheetEntry, 0, len(t))
		for _, item := range t {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			entry := TimesheetEntry{}
			if d, ok := m["date"].(string); ok {
				entry.Date = d
			}
			if h, ok := m["hours"].(float64); ok {
				entry.Hours = h
			}
			entries = append(entries, entry)
		}
		return entries
	default:
		return nil
	}
}

func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Dedupe keeps exactly one update per (username, weekStart): the one with
// the lexicographically greatest CreatedAt (RFC3339 sorts chronologically).
func Dedupe(updates []*Update) []*Update {
	type key struct {
		username  string
		weekStart string
	}

	best := make(map[key]*Update, len(updates))
	order := make([]key, 0, len(updates))
	for _, u := range updates {
		k := key{u.Username, u.WeekStart}
		if existing, ok := best[k]; ok {
			if u.CreatedAt > existing.CreatedAt {
				best[k] = u
			}
			continue
		}
		best[k] = u
		order = append(order, k)
	}

	out := make([]*Update, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}

// Sort orders updates by weekStart descending, then createdAt descending.
func Sort(updates []*Update) {
	sort.SliceStable(updates, func(i, j int) bool {
		if updates[i].WeekStart != updates[j].WeekStart {
			return updates[i].WeekStart > updates[j].WeekStart
		}
		return updates[i].CreatedAt > updates[j].CreatedAt
	})
}

// AllWeeks returns each distinct weekStart exactly once, sorted descending.
func AllWeeks(updates []*Update) []string {
	seen := make(map[string]bool, len(updates))
	weeks := make([]string, 0, len(updates))
	for _, u := range updates {
		if !seen[u.WeekStart] {
			seen[u.WeekStart] = true
			weeks = append(weeks, u.WeekStart)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(weeks)))
	return weeks
}

// TotalHours sums timesheet hours.
func TotalHours(entries []TimesheetEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	return total
}

// DropZeroHours removes zero-hour days before persisting.
func DropZeroHours(entries []TimesheetEntry) []TimesheetEntry {
	out := make([]TimesheetEntry, 0, len(entries))
	for _, e := range entries {
		if e.Hours != 0 {
			out = append(out, e)
		}
	}
	return out
}
