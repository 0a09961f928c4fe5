package updates

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/rakhadyo/company-portal/internal/core/events"
)

func TestUpdates(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Updates Module Suite")
}

// Mock repository for testing
type mockUpdateRepository struct {
	records       []*Record
	inserted      []*Record
	returnError   bool
	errorToReturn error
}

func (m *mockUpdateRepository) ListRecords(ctx context.Context) ([]*Record, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.records, nil
}

func (m *mockUpdateRepository) Insert(ctx context.Context, rec *Record) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.inserted = append(m.inserted, rec)
	return nil
}

// Mock event publisher for testing
type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

func record(username, weekStart string, createdAt time.Time, payload map[string]interface{}) *Record {
	raw, _ := json.Marshal(payload)
	return &Record{
		Username:  username,
		WeekStart: weekStart,
		Payload:   raw,
		CreatedAt: createdAt,
	}
}

var _ = ginkgo.Describe("Normalize", func() {
	ginkgo.It("should map legacy field names onto the canonical shape", func() {
		rec := record("", "", time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC), map[string]interface{}{
			"employee_id": "emma",
			"weekOf":      "2026-07-27",
			"nextWeek":    "ship the importer",
		})

		u, err := Normalize(rec)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(u.Username).To(gomega.Equal("emma"))
		gomega.Expect(u.WeekStart).To(gomega.Equal("2026-07-27"))
		gomega.Expect(u.Next).To(gomega.Equal("ship the importer"))
	})

	ginkgo.It("should parse a retrospective that arrives as a JSON string", func() {
		rec := record("emma", "2026-07-27", time.Now(), map[string]interface{}{
			"userId":        "emma",
			"weekStart":     "2026-07-27",
			"retrospective": `{"worked":["pairing"],"didnt":["standups"],"improve":["docs"]}`,
		})

		u, err := Normalize(rec)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(u.Retrospective.Worked).To(gomega.Equal([]string{"pairing"}))
		gomega.Expect(u.Retrospective.Didnt).To(gomega.Equal([]string{"standups"}))
		gomega.Expect(u.Retrospective.Improve).To(gomega.Equal([]string{"docs"}))
	})

	ginkgo.It("should parse a timesheet that arrives as a structure", func() {
		rec := record("emma", "2026-07-27", time.Now(), map[string]interface{}{
			"userId":    "emma",
			"weekStart": "2026-07-27",
			"timesheet": []map[string]interface{}{
				{"date": "2026-07-27", "hours": 4.5},
				{"date": "2026-07-28", "hours": 5},
			},
		})

		u, err := Normalize(rec)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(u.Timesheet).To(gomega.HaveLen(2))
		gomega.Expect(u.TotalHours).To(gomega.BeNumerically("==", 9.5))
	})

	ginkgo.It("should reject rows with no resolvable user or week", func() {
		rec := record("", "", time.Now(), map[string]interface{}{"accomplishments": "things"})

		_, err := Normalize(rec)

		gomega.Expect(err).To(gomega.Equal(ErrEmptyRecord))
	})
})

var _ = ginkgo.Describe("Dedupe", func() {
	ginkgo.It("should keep the row with the greatest createdAt per user and week", func() {
		older := &Update{Username: "emma", WeekStart: "2026-07-27", CreatedAt: "2026-07-27T09:00:00Z", Next: "old"}
		newer := &Update{Username: "emma", WeekStart: "2026-07-27", CreatedAt: "2026-07-28T09:00:00Z", Next: "new"}
		other := &Update{Username: "andi", WeekStart: "2026-07-27", CreatedAt: "2026-07-27T12:00:00Z"}

		out := Dedupe([]*Update{older, newer, other})

		gomega.Expect(out).To(gomega.HaveLen(2))
		gomega.Expect(out[0].Next).To(gomega.Equal("new"))
		gomega.Expect(out[1].Username).To(gomega.Equal("andi"))
	})

	ginkgo.It("should keep resubmissions even when the duplicate arrives first", func() {
		newer := &Update{Username: "emma", WeekStart: "2026-07-27", CreatedAt: "2026-07-28T09:00:00Z", Next: "new"}
		older := &Update{Username: "emma", WeekStart: "2026-07-27", CreatedAt: "2026-07-27T09:00:00Z", Next: "old"}

		out := Dedupe([]*Update{newer, older})

		gomega.Expect(out).To(gomega.HaveLen(1))
		gomega.Expect(out[0].Next).To(gomega.Equal("new"))
	})
})

var _ = ginkgo.Describe("Sort and AllWeeks", func() {
	ginkgo.It("should order by weekStart then createdAt, both descending", func() {
		rows := []*Update{
			{Username: "a", WeekStart: "2026-07-20", CreatedAt: "2026-07-20T10:00:00Z"},
			{Username: "b", WeekStart: "2026-07-27", CreatedAt: "2026-07-27T09:00:00Z"},
			{Username: "c", WeekStart: "2026-07-27", CreatedAt: "2026-07-27T11:00:00Z"},
		}

		Sort(rows)

		gomega.Expect(rows[0].Username).To(gomega.Equal("c"))
		gomega.Expect(rows[1].Username).To(gomega.Equal("b"))
		gomega.Expect(rows[2].Username).To(gomega.Equal("a"))
	})

	ginkgo.It("should list each distinct week once, newest first", func() {
		rows := []*Update{
			{WeekStart: "2026-07-20"},
			{WeekStart: "2026-07-27"},
			{WeekStart: "2026-07-20"},
		}

		weeks := AllWeeks(rows)

		gomega.Expect(weeks).To(gomega.Equal([]string{"2026-07-27", "2026-07-20"}))
	})
})

var _ = ginkgo.Describe("UpdatesService", func() {
	var (
		service   *Service
		mockRepo  *mockUpdateRepository
		publisher *mockPublisher
		ctx       context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockRepo = &mockUpdateRepository{}
		publisher = &mockPublisher{}
		service = NewService(mockRepo, publisher, slog.Default())
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("should skip malformed rows instead of failing the listing", func() {
			mockRepo.records = []*Record{
				record("emma", "2026-07-27", time.Now(), map[string]interface{}{
					"userId": "emma", "weekStart": "2026-07-27",
				}),
				{Username: "", WeekStart: "", Payload: []byte("{}")},
			}

			rows, err := service.List(ctx)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(rows).To(gomega.HaveLen(1))
		})

		ginkgo.It("should surface repository errors", func() {
			mockRepo.returnError = true
			mockRepo.errorToReturn = errors.New("connection refused")

			_, err := service.List(ctx)

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Submit", func() {
		ginkgo.It("should drop zero-hour entries and compute total hours", func() {
			dto := SubmitUpdateDTO{
				WeekStart: "2026-07-27",
				Timesheet: []TimesheetEntry{
					{Date: "2026-07-27", Hours: 4.5},
					{Date: "2026-07-28", Hours: 0},
					{Date: "2026-07-29", Hours: 5},
				},
			}

			u, err := service.Submit(ctx, "emma", dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.Timesheet).To(gomega.HaveLen(2))
			gomega.Expect(u.TotalHours).To(gomega.BeNumerically("==", 9.5))
			gomega.Expect(mockRepo.inserted).To(gomega.HaveLen(1))
		})

		ginkgo.It("should persist a payload that normalizes back to the same row", func() {
			dto := SubmitUpdateDTO{
				WeekStart: "2026-07-27",
				Next:      "write more tests",
				Timesheet: []TimesheetEntry{{Date: "2026-07-27", Hours: 8}},
			}

			_, err := service.Submit(ctx, "emma", dto)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			roundTripped, err := Normalize(mockRepo.inserted[0])
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(roundTripped.Username).To(gomega.Equal("emma"))
			gomega.Expect(roundTripped.WeekStart).To(gomega.Equal("2026-07-27"))
			gomega.Expect(roundTripped.Next).To(gomega.Equal("write more tests"))
			gomega.Expect(roundTripped.TotalHours).To(gomega.BeNumerically("==", 8))
		})

		ginkgo.It("should publish an event after a successful submit", func() {
			dto := SubmitUpdateDTO{WeekStart: "2026-07-27"}

			_, err := service.Submit(ctx, "emma", dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(publisher.published).To(gomega.HaveLen(1))
			gomega.Expect(publisher.published[0].EventType()).To(gomega.Equal(events.EventTypeUpdateSubmitted))
		})

		ginkgo.It("should reject a malformed week start", func() {
			dto := SubmitUpdateDTO{WeekStart: "July 27"}

			_, err := service.Submit(ctx, "emma", dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(mockRepo.inserted).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject negative timesheet hours", func() {
			dto := SubmitUpdateDTO{
				WeekStart: "2026-07-27",
				Timesheet: []TimesheetEntry{{Date: "2026-07-27", Hours: -1}},
			}

			_, err := service.Submit(ctx, "emma", dto)

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})
