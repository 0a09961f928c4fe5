package applicant

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/rakhadyo/company-portal/internal/core/events"
	"github.com/rakhadyo/company-portal/internal/mailgateway"
	"github.com/rakhadyo/company-portal/internal/user"
)

// Mock repository for testing
type mockApplicantRepository struct {
	applicants map[string]*Applicant
	page       []Applicant
	nextCursor string
	stageSets  map[string]Stage

	returnError   bool
	errorToReturn error
}

func newMockApplicantRepository() *mockApplicantRepository {
	return &mockApplicantRepository{
		applicants: map[string]*Applicant{},
		stageSets:  map[string]Stage{},
	}
}

func (m *mockApplicantRepository) ListPage(ctx context.Context, cursor string, limit int) ([]Applicant, string, error) {
	if m.returnError {
		return nil, "", m.errorToReturn
	}
	return m.page, m.nextCursor, nil
}

func (m *mockApplicantRepository) GetByID(ctx context.Context, applicantID string) (*Applicant, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if a, ok := m.applicants[applicantID]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, ErrNotFound
}

func (m *mockApplicantRepository) UpdateStage(ctx context.Context, applicantID string, stage Stage, status string) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.stageSets[applicantID] = stage
	if a, ok := m.applicants[applicantID]; ok {
		a.Stage = stage
		a.Status = status
	}
	return nil
}

// Mock gateway for testing
type mockMailGateway struct {
	richSent    []mailgateway.RichEmailRequest
	docSent     []mailgateway.DocEmailRequest
	welcomeSent []mailgateway.WelcomeEmailRequest
	creds       []mailgateway.Credential

	returnError   bool
	errorToReturn error
}

func (m *mockMailGateway) sends() int {
	return len(m.richSent) + len(m.docSent) + len(m.welcomeSent)
}

func (m *mockMailGateway) SendRichEmail(ctx context.Context, cred mailgateway.Credential, req mailgateway.RichEmailRequest) (*mailgateway.SendResult, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	m.creds = append(m.creds, cred)
	m.richSent = append(m.richSent, req)
	return &mailgateway.SendResult{Message: "rich sent", MessageID: "m-rich"}, nil
}

func (m *mockMailGateway) SendDocEmail(ctx context.Context, cred mailgateway.Credential, req mailgateway.DocEmailRequest) (*mailgateway.SendResult, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	m.creds = append(m.creds, cred)
	m.docSent = append(m.docSent, req)
	return &mailgateway.SendResult{Message: "doc sent", MessageID: "m-doc"}, nil
}

func (m *mockMailGateway) SendWelcomeEmail(ctx context.Context, cred mailgateway.Credential, req mailgateway.WelcomeEmailRequest) (*mailgateway.SendResult, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	m.creds = append(m.creds, cred)
	m.welcomeSent = append(m.welcomeSent, req)
	return &mailgateway.SendResult{Message: "welcome sent", MessageID: "m-welcome"}, nil
}

// Mock employee lookup for testing
type mockEmployeeLookup struct {
	users map[string]*user.User
}

func (m *mockEmployeeLookup) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if u, ok := m.users[username]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

// Mock event publisher for testing
type mockEventPublisher struct {
	async []events.Event
	sync  []events.Event
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	m.async = append(m.async, event)
	return nil
}

func (m *mockEventPublisher) PublishSync(ctx context.Context, event events.Event) error {
	m.sync = append(m.sync, event)
	return nil
}

var _ = ginkgo.Describe("ApplicantService", func() {
	var (
		service   *Service
		mockRepo  *mockApplicantRepository
		gateway   *mockMailGateway
		employees *mockEmployeeLookup
		publisher *mockEventPublisher
		ctx       context.Context
	)

	ginkgo.BeforeEach(func() {
		ctx = context.Background()
		mockRepo = newMockApplicantRepository()
		gateway = &mockMailGateway{}
		employees = &mockEmployeeLookup{users: map[string]*user.User{
			"emma": {Username: "emma", Name: "Emma Employee", Email: "emma@portal.local"},
		}}
		publisher = &mockEventPublisher{}
		service = NewService(mockRepo, gateway, employees, publisher,
			mailgateway.Credential{Token: "gateway-token"}, slog.Default())

		mockRepo.applicants["a-42"] = &Applicant{
			ApplicantID: "a-42",
			Name:        "Ada Lovelace",
			Email:       "ada@example.com",
			Status:      "intro call booked",
			SubmittedAt: time.Now(),
		}
	})

	ginkgo.Describe("List", func() {
		ginkgo.It("should backfill stages from the legacy status", func() {
			mockRepo.page = []Applicant{
				{ApplicantID: "a-1", Status: "NDA Sent"},
				{ApplicantID: "a-2", Status: ""},
			}

			result, err := service.List(ctx, ListQuery{})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.Applicants[0].Stage).To(gomega.Equal(StageNDA))
			gomega.Expect(result.Applicants[1].Stage).To(gomega.Equal(StageUnknown))
		})

		ginkgo.It("should compute KPIs over the full page, not the filtered view", func() {
			mockRepo.page = []Applicant{
				{ApplicantID: "a-1", Name: "Ada", Stage: StageIntroduction},
				{ApplicantID: "a-2", Name: "Grace", Stage: StageReject},
				{ApplicantID: "a-3", Name: "Alan", Stage: StageWelcome},
			}

			result, err := service.List(ctx, ListQuery{Search: "ada"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.Applicants).To(gomega.HaveLen(1))
			gomega.Expect(result.KPIs.Total).To(gomega.Equal(3))
			gomega.Expect(result.KPIs.Rejected).To(gomega.Equal(1))
			gomega.Expect(result.KPIs.Converted).To(gomega.Equal(1))
		})

		ginkgo.It("should pass the cursor through", func() {
			mockRepo.nextCursor = "a-99"

			result, err := service.List(ctx, ListQuery{})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.NextCursor).To(gomega.Equal("a-99"))
		})

		ginkgo.It("should reject an invalid sort key", func() {
			_, err := service.List(ctx, ListQuery{SortBy: "shoe-size"})

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("SendStageEmail", func() {
		ginkgo.It("should send and advance the stage on success", func() {
			result, err := service.SendStageEmail(ctx, "a-42", &ComposeRequest{Stage: StageIntroduction}, "andi")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.Message).To(gomega.Equal("rich sent"))
			gomega.Expect(gateway.richSent).To(gomega.HaveLen(1))
			gomega.Expect(mockRepo.stageSets["a-42"]).To(gomega.Equal(StageIntroduction))
		})

		ginkgo.It("should carry the per-call credential to the gateway", func() {
			_, err := service.SendStageEmail(ctx, "a-42", &ComposeRequest{Stage: StageIntroduction}, "andi")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(gateway.creds).To(gomega.HaveLen(1))
			gomega.Expect(gateway.creds[0].Token).To(gomega.Equal("gateway-token"))
		})

		ginkgo.It("should not call the gateway when validation fails", func() {
			_, err := service.SendStageEmail(ctx, "a-42", &ComposeRequest{Stage: StageConfirmation}, "andi")

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(gateway.sends()).To(gomega.BeZero())
			gomega.Expect(mockRepo.stageSets).To(gomega.BeEmpty())
		})

		ginkgo.It("should not advance the stage when the gateway fails", func() {
			gateway.returnError = true
			gateway.errorToReturn = errors.New("gateway down")

			_, err := service.SendStageEmail(ctx, "a-42", &ComposeRequest{Stage: StageIntroduction}, "andi")

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(mockRepo.stageSets).To(gomega.BeEmpty())
		})

		ginkgo.It("should publish stage change and email sent events", func() {
			_, err := service.SendStageEmail(ctx, "a-42", &ComposeRequest{Stage: StageTechnical}, "andi")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(publisher.sync).To(gomega.HaveLen(1))
			gomega.Expect(publisher.sync[0].EventType()).To(gomega.Equal(events.EventTypeApplicantStageChanged))
			gomega.Expect(publisher.async).To(gomega.HaveLen(1))
			gomega.Expect(publisher.async[0].EventType()).To(gomega.Equal(events.EventTypeApplicantEmailSent))
		})

		ginkgo.It("should return not found for an unknown applicant", func() {
			_, err := service.SendStageEmail(ctx, "nope", &ComposeRequest{Stage: StageIntroduction}, "andi")

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(gateway.sends()).To(gomega.BeZero())
		})
	})

	ginkgo.Describe("SendEmployeeDocEmail", func() {
		ginkgo.It("should send a doc email to the employee's address", func() {
			result, err := service.SendEmployeeDocEmail(ctx, "emma", &ComposeRequest{Stage: StageNDA}, "andi")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.Message).To(gomega.Equal("doc sent"))
			gomega.Expect(gateway.docSent).To(gomega.HaveLen(1))
			gomega.Expect(gateway.docSent[0].To).To(gomega.Equal("emma@portal.local"))
		})

		ginkgo.It("should reject stages without a document email", func() {
			_, err := service.SendEmployeeDocEmail(ctx, "emma", &ComposeRequest{Stage: StageIntroduction}, "andi")

			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(gateway.sends()).To(gomega.BeZero())
		})
	})
})
