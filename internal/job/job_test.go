package job

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestJob(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Job Module Suite")
}

// Mock repository for testing
type mockJobRepository struct {
	jobs          map[string]*Job
	bank          []byte
	returnError   bool
	errorToReturn error
}

func newMockJobRepository() *mockJobRepository {
	return &mockJobRepository{jobs: map[string]*Job{}}
}

func (m *mockJobRepository) ListAll(ctx context.Context) ([]Job, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	out := make([]Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, *j)
	}
	return out, nil
}

func (m *mockJobRepository) ListByStatus(ctx context.Context, status Status) ([]Job, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	out := []Job{}
	for _, j := range m.jobs {
		if j.Status == status {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (m *mockJobRepository) GetByID(ctx context.Context, jobID string) (*Job, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if j, ok := m.jobs[jobID]; ok {
		copied := *j
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (m *mockJobRepository) Save(ctx context.Context, j *Job) error {
	if m.returnError {
		return m.errorToReturn
	}
	copied := *j
	m.jobs[j.JobID] = &copied
	return nil
}

func (m *mockJobRepository) Delete(ctx context.Context, jobID string) error {
	if m.returnError {
		return m.errorToReturn
	}
	if _, ok := m.jobs[jobID]; !ok {
		return ErrNotFound
	}
	delete(m.jobs, jobID)
	return nil
}

func (m *mockJobRepository) GetBank(ctx context.Context) ([]byte, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.bank, nil
}

func (m *mockJobRepository) SaveBank(ctx context.Context, document []byte) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.bank = document
	return nil
}

var _ = ginkgo.Describe("ParseStatus", func() {
	ginkgo.It("should accept canonical values", func() {
		for raw, want := range map[string]Status{
			"enabled":  StatusEnabled,
			"paused":   StatusPaused,
			"disabled": StatusDisabled,
		} {
			got, err := ParseStatus(raw)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(got).To(gomega.Equal(want))
		}
	})

	ginkgo.It("should fold legacy uppercase spellings", func() {
		for raw, want := range map[string]Status{
			"ACTIVE":   StatusEnabled,
			"PAUSED":   StatusPaused,
			"DISABLED": StatusDisabled,
		} {
			got, err := ParseStatus(raw)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(got).To(gomega.Equal(want))
		}
	})

	ginkgo.It("should reject anything else", func() {
		_, err := ParseStatus("archived")

		gomega.Expect(err).To(gomega.MatchError(ErrInvalidStatus))
	})
})

var _ = ginkgo.Describe("ValidateBank", func() {
	validBank := func() map[string]interface{} {
		return map[string]interface{}{
			"general": []map[string]interface{}{
				{"id": "g1", "label": "Why us?", "type": "textarea", "required": true},
			},
			"personal": []map[string]interface{}{
				{"id": "p1", "label": "Location", "type": "text"},
			},
		}
	}

	ginkgo.It("should accept a well-formed document", func() {
		raw, _ := json.Marshal(validBank())

		bank, err := ValidateBank(raw)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(bank.General).To(gomega.HaveLen(1))
		gomega.Expect(bank.Personal).To(gomega.HaveLen(1))
	})

	ginkgo.It("should reject a question without a label", func() {
		doc := validBank()
		doc["general"] = []map[string]interface{}{{"id": "g1", "type": "text"}}
		raw, _ := json.Marshal(doc)

		_, err := ValidateBank(raw)

		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(err.Error()).To(gomega.ContainSubstring("schema violation"))
	})

	ginkgo.It("should reject an unknown question type", func() {
		doc := validBank()
		doc["personal"] = []map[string]interface{}{{"id": "p1", "label": "x", "type": "hologram"}}
		raw, _ := json.Marshal(doc)

		_, err := ValidateBank(raw)

		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("should reject a missing list", func() {
		raw := []byte(`{"general":[]}`)

		_, err := ValidateBank(raw)

		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("should reject duplicate question ids across lists", func() {
		doc := validBank()
		doc["personal"] = []map[string]interface{}{{"id": "g1", "label": "dupe", "type": "text"}}
		raw, _ := json.Marshal(doc)

		_, err := ValidateBank(raw)

		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(err.Error()).To(gomega.ContainSubstring("duplicate"))
	})
})

var _ = ginkgo.Describe("JobService", func() {
	var (
		service  *Service
		mockRepo *mockJobRepository
		ctx      context.Context
	)

	bankDoc := []byte(`{
		"general":  [{"id": "g1", "label": "Why us?", "type": "textarea"}],
		"personal": [{"id": "p1", "label": "Location", "type": "text"}]
	}`)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockJobRepository()
		mockRepo.bank = bankDoc
		service = NewService(mockRepo, slog.Default())
	})

	ginkgo.Describe("Upsert", func() {
		ginkgo.It("should assign an id and default status on create", func() {
			j, err := service.Upsert(ctx, UpsertJobDTO{Title: "Backend Engineer"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(j.JobID).ToNot(gomega.BeEmpty())
			gomega.Expect(j.Status).To(gomega.Equal(StatusEnabled))
		})

		ginkgo.It("should canonicalize a legacy status on the way in", func() {
			j, err := service.Upsert(ctx, UpsertJobDTO{Title: "Designer", Status: "PAUSED"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(j.Status).To(gomega.Equal(StatusPaused))
		})

		ginkgo.It("should preserve the creation time on update", func() {
			created, err := service.Upsert(ctx, UpsertJobDTO{Title: "Backend Engineer"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			updated, err := service.Upsert(ctx, UpsertJobDTO{JobID: created.JobID, Title: "Senior Backend Engineer"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.CreatedAt).To(gomega.Equal(created.CreatedAt))
			gomega.Expect(updated.Title).To(gomega.Equal("Senior Backend Engineer"))
		})

		ginkgo.It("should prune question ids the bank does not define", func() {
			j, err := service.Upsert(ctx, UpsertJobDTO{
				Title:               "Backend Engineer",
				GeneralQuestionIDs:  []string{"g1", "ghost"},
				PersonalQuestionIDs: []string{"p1"},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(j.GeneralQuestionIDs).To(gomega.Equal([]string{"g1"}))
			gomega.Expect(j.PersonalQuestionIDs).To(gomega.Equal([]string{"p1"}))
		})

		ginkgo.It("should reject updates to unknown jobs", func() {
			_, err := service.Upsert(ctx, UpsertJobDTO{JobID: "nope", Title: "Ghost"})

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("SetStatus", func() {
		ginkgo.It("should transition with a tolerant spelling", func() {
			created, err := service.Upsert(ctx, UpsertJobDTO{Title: "Backend Engineer"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			j, err := service.SetStatus(ctx, created.JobID, SetStatusDTO{Status: "DISABLED"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(j.Status).To(gomega.Equal(StatusDisabled))
		})

		ginkgo.It("should reject an unparseable status", func() {
			created, err := service.Upsert(ctx, UpsertJobDTO{Title: "Backend Engineer"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.SetStatus(ctx, created.JobID, SetStatusDTO{Status: "archived"})

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("PublicJobs", func() {
		ginkgo.It("should list enabled jobs only", func() {
			_, err := service.Upsert(ctx, UpsertJobDTO{Title: "Visible"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.Upsert(ctx, UpsertJobDTO{Title: "Hidden", Status: "disabled"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			jobs, err := service.PublicJobs(ctx)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(jobs).To(gomega.HaveLen(1))
			gomega.Expect(jobs[0].Title).To(gomega.Equal("Visible"))
		})
	})

	ginkgo.Describe("SaveBank", func() {
		ginkgo.It("should replace the document and prune dangling references", func() {
			_, err := service.Upsert(ctx, UpsertJobDTO{
				Title:              "Backend Engineer",
				GeneralQuestionIDs: []string{"g1"},
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			replacement := []byte(`{"general":[{"id":"g2","label":"New","type":"text"}],"personal":[]}`)
			bank, err := service.SaveBank(ctx, replacement)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(bank.General[0].ID).To(gomega.Equal("g2"))

			reloaded, err := service.AllJobs(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(reloaded).To(gomega.HaveLen(1))
			gomega.Expect(reloaded[0].GeneralQuestionIDs).To(gomega.BeEmpty())
		})

		ginkgo.It("should reject a schema-violating document without saving", func() {
			_, err := service.SaveBank(ctx, []byte(`{"general":[{"id":"g2"}],"personal":[]}`))

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(mockRepo.bank).To(gomega.Equal(bankDoc))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("should remove the job permanently", func() {
			created, err := service.Upsert(ctx, UpsertJobDTO{Title: "Backend Engineer"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Delete(ctx, created.JobID)).To(gomega.Succeed())

			jobs, err := service.AllJobs(ctx)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(jobs).To(gomega.BeEmpty())
		})

		ginkgo.It("should report unknown jobs", func() {
			err := service.Delete(ctx, "nope")

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})
