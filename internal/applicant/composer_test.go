package applicant

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Compose", func() {
	var target *Applicant

	ginkgo.BeforeEach(func() {
		target = &Applicant{ApplicantID: "a-42", Name: "Ada Lovelace", Email: "ada@example.com"}
	})

	ginkgo.Describe("stage to endpoint mapping", func() {
		ginkgo.It("should build rich emails for the interview stages", func() {
			cases := map[Stage]string{
				StageIntroduction: "INTRO",
				StageTechnical:    "TECH",
				StageReject:       "REJECT",
			}
			for stage, emailType := range cases {
				composed, err := Compose(target, &ComposeRequest{Stage: stage})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(composed.Kind).To(gomega.Equal("rich"))
				gomega.Expect(composed.Rich.EmailType).To(gomega.Equal(emailType))
				gomega.Expect(composed.Rich.To).To(gomega.Equal("ada@example.com"))
			}
		})

		ginkgo.It("should build doc emails for NDA and Offer", func() {
			composed, err := Compose(target, &ComposeRequest{Stage: StageNDA})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(composed.Kind).To(gomega.Equal("doc"))
			gomega.Expect(composed.Doc.DocType).To(gomega.Equal("NDA"))

			composed, err = Compose(target, &ComposeRequest{Stage: StageOffer, DateStarted: "2026-09-01"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(composed.Doc.DocType).To(gomega.Equal("OFFER"))
		})

		ginkgo.It("should build the welcome email for Welcome", func() {
			composed, err := Compose(target, &ComposeRequest{
				Stage:              StageWelcome,
				DateStarted:        "2026-09-01",
				CreateEmployeeUser: true,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(composed.Kind).To(gomega.Equal("welcome"))
			gomega.Expect(composed.Welcome.CreateEmployeeUser).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("stage-specific validation", func() {
		ginkgo.It("should block Confirmation without meetingWhen", func() {
			_, err := Compose(target, &ComposeRequest{
				Stage:       StageConfirmation,
				MeetingLink: "https://meet.example.com/x",
			})

			gomega.Expect(err).To(gomega.MatchError(ErrMissingVars))
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("meetingWhen"))
		})

		ginkgo.It("should block Confirmation without meetingLink", func() {
			_, err := Compose(target, &ComposeRequest{
				Stage:       StageConfirmation,
				MeetingWhen: "2026-09-01 10:00",
			})

			gomega.Expect(err).To(gomega.MatchError(ErrMissingVars))
			gomega.Expect(err.Error()).To(gomega.ContainSubstring("meetingLink"))
		})

		ginkgo.It("should block Offer and Welcome without dateStarted", func() {
			for _, stage := range []Stage{StageOffer, StageWelcome} {
				_, err := Compose(target, &ComposeRequest{Stage: stage})

				gomega.Expect(err).To(gomega.MatchError(ErrMissingVars))
				gomega.Expect(err.Error()).To(gomega.ContainSubstring("dateStarted"))
			}
		})

		ginkgo.It("should reject unknown stages", func() {
			_, err := Compose(target, &ComposeRequest{Stage: "Bogus"})

			gomega.Expect(err).To(gomega.MatchError(ErrInvalidStage))
		})

		ginkgo.It("should refuse to compose for the Unknown stage", func() {
			_, err := Compose(target, &ComposeRequest{Stage: StageUnknown})

			gomega.Expect(err).To(gomega.MatchError(ErrInvalidStage))
		})
	})

	ginkgo.Describe("variable assembly", func() {
		ginkgo.It("should pass meeting details into the Confirmation vars", func() {
			composed, err := Compose(target, &ComposeRequest{
				Stage:       StageConfirmation,
				MeetingWhen: "2026-09-01 10:00",
				MeetingLink: "https://meet.example.com/x",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(composed.Rich.Vars).To(gomega.HaveKeyWithValue("meetingWhen", "2026-09-01 10:00"))
			gomega.Expect(composed.Rich.Vars).To(gomega.HaveKeyWithValue("meetingLink", "https://meet.example.com/x"))
		})

		ginkgo.It("should duplicate the extra info under all four Welcome aliases", func() {
			composed, err := Compose(target, &ComposeRequest{
				Stage:       StageWelcome,
				DateStarted: "2026-09-01",
				ExtraInfo:   "bring your laptop",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			for _, alias := range []string{"extraInfo", "EXTRA_INFO", "DOC_NOTES", "WELCOME_NOTES"} {
				gomega.Expect(composed.Welcome.Vars).To(gomega.HaveKeyWithValue(alias, "bring your laptop"))
			}
		})

		ginkgo.It("should inject the applicant id under its Welcome aliases", func() {
			composed, err := Compose(target, &ComposeRequest{
				Stage:       StageWelcome,
				DateStarted: "2026-09-01",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			for _, alias := range []string{"applicantId", "applicant_id", "APPLICANT_ID"} {
				gomega.Expect(composed.Welcome.Vars).To(gomega.HaveKeyWithValue(alias, "a-42"))
			}
		})

		ginkgo.It("should keep caller-supplied vars and layer stage vars on top", func() {
			composed, err := Compose(target, &ComposeRequest{
				Stage:       StageOffer,
				DateStarted: "2026-09-01",
				Role:        "Backend Engineer",
				Vars:        map[string]string{"salutation": "Dear Ada"},
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(composed.Doc.Vars).To(gomega.HaveKeyWithValue("salutation", "Dear Ada"))
			gomega.Expect(composed.Doc.Vars).To(gomega.HaveKeyWithValue("dateStarted", "2026-09-01"))
			gomega.Expect(composed.Doc.Vars).To(gomega.HaveKeyWithValue("role", "Backend Engineer"))
		})
	})
})
