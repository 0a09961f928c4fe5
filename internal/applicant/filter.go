package applicant

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

const (
	SortBySubmitted = "submittedAt"
	SortByName      = "name"
	SortByRole      = "role"
	SortByStatus    = "status"
)

// ListQuery describes one filtered view over a loaded page of applicants.
// Filters apply in a fixed order: search, bucket, stage, date range, sort.
type ListQuery struct {
	Search string
	Bucket Bucket
	Stage  Stage
	From   time.Time
	To     time.Time
	SortBy string
	Cursor string
	Limit  int
}

func (q *ListQuery) Validate() error {
	if q.Bucket != "" {
		if _, err := ParseBucket(string(q.Bucket)); err != nil {
			return err
		}
	}
	if q.Stage != "" {
		if _, err := ParseStage(string(q.Stage)); err != nil {
			return err
		}
	}
	switch q.SortBy {
	case "", SortBySubmitted, SortByName, SortByRole, SortByStatus:
	default:
		return ErrInvalidSortKey
	}
	return nil
}

var searchFolder = cases.Fold()

func fold(s string) string {
	return searchFolder.String(s)
}

// matchesSearch does a case-folded substring match over the fields an
// admin would scan the list by.
func matchesSearch(a *Applicant, needle string) bool {
	for _, field := range []string{a.Name, a.Email, a.RoleTitle, a.Status} {
		if strings.Contains(fold(field), needle) {
			return true
		}
	}
	return false
}

// ApplyFilters narrows a page of applicants per the query. The input slice
// is never mutated.
func ApplyFilters(applicants []Applicant, q ListQuery) []Applicant {
	out := make([]Applicant, 0, len(applicants))

	needle := fold(strings.TrimSpace(q.Search))
	for i := range applicants {
		a := &applicants[i]
		if needle != "" && !matchesSearch(a, needle) {
			continue
		}
		if q.Bucket != "" && a.Bucket() != q.Bucket {
			continue
		}
		if q.Stage != "" && a.EffectiveStage() != q.Stage {
			continue
		}
		if !q.From.IsZero() && a.SubmittedAt.Before(q.From) {
			continue
		}
		if !q.To.IsZero() && a.SubmittedAt.After(q.To) {
			continue
		}
		out = append(out, *a)
	}

	SortApplicants(out, q.SortBy)
	return out
}

// SortApplicants orders a slice by the given key. The default and the
// submitted-date key are newest-first; the rest ascend.
func SortApplicants(applicants []Applicant, sortBy string) {
	sort.SliceStable(applicants, func(i, j int) bool {
		switch sortBy {
		case SortByName:
			return fold(applicants[i].Name) < fold(applicants[j].Name)
		case SortByRole:
			return fold(applicants[i].RoleTitle) < fold(applicants[j].RoleTitle)
		case SortByStatus:
			return fold(applicants[i].Status) < fold(applicants[j].Status)
		default:
			return applicants[i].SubmittedAt.After(applicants[j].SubmittedAt)
		}
	})
}
