package applicant

import (
	"fmt"

	"github.com/rakhadyo/company-portal/internal/mailgateway"
)

// richEmailTypes maps composer stages onto the gateway's rich email types.
var richEmailTypes = map[Stage]string{
	StageIntroduction: "INTRO",
	StageTechnical:    "TECH",
	StageConfirmation: "CONFIRMATION",
	StageReject:       "REJECT",
}

// docEmailTypes maps composer stages onto the gateway's document types.
var docEmailTypes = map[Stage]string{
	StageNDA:   "NDA",
	StageOffer: "OFFER",
}

// ComposeRequest is the admin's stage-specific email form. Which fields
// are required depends on Stage; Validate enforces that before any
// gateway call is made.
type ComposeRequest struct {
	Stage   Stage  `json:"stage"`
	Subject string `json:"subject,omitempty"`

	MeetingWhen string `json:"meetingWhen,omitempty"`
	MeetingLink string `json:"meetingLink,omitempty"`

	DateStarted        string `json:"dateStarted,omitempty"`
	EmploymentType     string `json:"employment_type,omitempty"`
	Role               string `json:"role,omitempty"`
	CreateEmployeeUser bool   `json:"createEmployeeUser,omitempty"`

	ExtraInfo string            `json:"vars_extraInfo,omitempty"`
	Vars      map[string]string `json:"vars,omitempty"`
}

// Validate checks the stage-specific required fields. A failure here means
// no mail is sent for this attempt.
func (r *ComposeRequest) Validate() error {
	if _, err := ParseStage(string(r.Stage)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidStage, r.Stage)
	}
	if r.Stage == StageUnknown {
		return fmt.Errorf("%w: cannot compose for stage %q", ErrInvalidStage, r.Stage)
	}

	var missing []string
	switch r.Stage {
	case StageConfirmation:
		if r.MeetingWhen == "" {
			missing = append(missing, "meetingWhen")
		}
		if r.MeetingLink == "" {
			missing = append(missing, "meetingLink")
		}
	case StageOffer, StageWelcome:
		if r.DateStarted == "" {
			missing = append(missing, "dateStarted")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v for stage %s", ErrMissingVars, missing, r.Stage)
	}
	return nil
}

// buildVars assembles the template variables for the outgoing email,
// starting from free-form Vars and layering the stage fields on top.
func (r *ComposeRequest) buildVars(applicantID string) map[string]string {
	vars := make(map[string]string, len(r.Vars)+8)
	for k, v := range r.Vars {
		vars[k] = v
	}

	switch r.Stage {
	case StageConfirmation:
		vars["meetingWhen"] = r.MeetingWhen
		vars["meetingLink"] = r.MeetingLink
	case StageOffer:
		vars["dateStarted"] = r.DateStarted
		if r.EmploymentType != "" {
			vars["employment_type"] = r.EmploymentType
		}
		if r.Role != "" {
			vars["role"] = r.Role
		}
	case StageWelcome:
		vars["dateStarted"] = r.DateStarted
		if r.Role != "" {
			vars["role"] = r.Role
		}
		// Template engines on the mail side disagree on variable names,
		// so the same values go out under every known alias.
		for _, alias := range []string{"applicantId", "applicant_id", "APPLICANT_ID"} {
			vars[alias] = applicantID
		}
		if r.ExtraInfo != "" {
			for _, alias := range []string{"extraInfo", "EXTRA_INFO", "DOC_NOTES", "WELCOME_NOTES"} {
				vars[alias] = r.ExtraInfo
			}
		}
	}
	return vars
}

// ComposedEmail is a validated, ready-to-send gateway request. Exactly one
// of Rich, Doc, Welcome is set.
type ComposedEmail struct {
	Kind    string
	Rich    *mailgateway.RichEmailRequest
	Doc     *mailgateway.DocEmailRequest
	Welcome *mailgateway.WelcomeEmailRequest
}

// Compose validates the form and builds the gateway payload for the
// applicant. The returned email carries the stage's endpoint selection.
func Compose(a *Applicant, req *ComposeRequest) (*ComposedEmail, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	vars := req.buildVars(a.ApplicantID)

	if emailType, ok := richEmailTypes[req.Stage]; ok {
		return &ComposedEmail{
			Kind: "rich",
			Rich: &mailgateway.RichEmailRequest{
				ApplicantID: a.ApplicantID,
				To:          a.Email,
				EmailType:   emailType,
				Subject:     req.Subject,
				Vars:        vars,
			},
		}, nil
	}

	if docType, ok := docEmailTypes[req.Stage]; ok {
		return &ComposedEmail{
			Kind: "doc",
			Doc: &mailgateway.DocEmailRequest{
				ApplicantID: a.ApplicantID,
				To:          a.Email,
				DocType:     docType,
				Subject:     req.Subject,
				Vars:        vars,
			},
		}, nil
	}

	// Only Welcome remains after the rich and doc tables.
	return &ComposedEmail{
		Kind: "welcome",
		Welcome: &mailgateway.WelcomeEmailRequest{
			ApplicantID:        a.ApplicantID,
			To:                 a.Email,
			Subject:            req.Subject,
			CreateEmployeeUser: req.CreateEmployeeUser,
			Vars:               vars,
		},
	}, nil
}
