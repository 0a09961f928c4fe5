package applicant

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"

	"github.com/rakhadyo/company-portal/internal/auth"
	"github.com/rakhadyo/company-portal/internal/mailgateway"
	"github.com/rakhadyo/company-portal/internal/transport"
	"github.com/rakhadyo/company-portal/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context, q ListQuery) (*ListResult, error)
	Get(ctx context.Context, applicantID string) (*Applicant, error)
	SendStageEmail(ctx context.Context, applicantID string, req *ComposeRequest, sentBy string) (*mailgateway.SendResult, error)
	SendEmployeeDocEmail(ctx context.Context, username string, req *ComposeRequest, sentBy string) (*mailgateway.SendResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// endpointStages restricts each send endpoint to the stages it serves.
var endpointStages = map[string]map[Stage]bool{
	"rich": {
		StageIntroduction: true,
		StageTechnical:    true,
		StageConfirmation: true,
		StageReject:       true,
	},
	"doc": {
		StageNDA:   true,
		StageOffer: true,
	},
	"welcome": {
		StageWelcome: true,
	},
}

// ListApplicants handles GET /admin/applicants.
func (h *Handler) ListApplicants(w http.ResponseWriter, r *http.Request) {
	q := ListQuery{
		Search: r.URL.Query().Get("search"),
		Bucket: Bucket(r.URL.Query().Get("bucket")),
		Stage:  Stage(r.URL.Query().Get("stage")),
		SortBy: r.URL.Query().Get("sortBy"),
		Cursor: r.URL.Query().Get("cursor"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		q.Limit = limit
	}
	for _, bound := range []struct {
		param string
		dst   *time.Time
	}{
		{"from", &q.From},
		{"to", &q.To},
	} {
		raw := r.URL.Query().Get(bound.param)
		if raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, bound.param+" must be YYYY-MM-DD")
			return
		}
		*bound.dst = t
	}

	result, err := h.Service.List(r.Context(), q)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, result)
}

// GetApplicant handles GET /admin/applicants/{id}.
func (h *Handler) GetApplicant(w http.ResponseWriter, r *http.Request) {
	applicantID := chi.URLParam(r, "id")
	if applicantID == "" {
		h.WriteError(w, http.StatusBadRequest, "applicant id is required")
		return
	}

	a, err := h.Service.Get(r.Context(), applicantID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, a)
}

// SendRichEmail handles POST /admin/applicants/{id}/send-rich-email.
func (h *Handler) SendRichEmail(w http.ResponseWriter, r *http.Request) {
	h.sendStageEmail(w, r, "rich")
}

// SendDocEmail handles POST /admin/applicants/{id}/send-doc-email.
func (h *Handler) SendDocEmail(w http.ResponseWriter, r *http.Request) {
	h.sendStageEmail(w, r, "doc")
}

// SendWelcomeEmail handles POST /admin/applicants/{id}/send-welcome-email.
func (h *Handler) SendWelcomeEmail(w http.ResponseWriter, r *http.Request) {
	h.sendStageEmail(w, r, "welcome")
}

func (h *Handler) sendStageEmail(w http.ResponseWriter, r *http.Request, kind string) {
	applicantID := chi.URLParam(r, "id")
	if applicantID == "" {
		h.WriteError(w, http.StatusBadRequest, "applicant id is required")
		return
	}

	req, sentBy, ok := h.decodeCompose(w, r, kind)
	if !ok {
		return
	}

	result, err := h.Service.SendStageEmail(r.Context(), applicantID, req, sentBy)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{
		"message":   sendMessage(result),
		"messageId": result.MessageID,
	})
}

// SendEmployeeDocEmail handles POST /admin/employees/{username}/send-doc-email.
func (h *Handler) SendEmployeeDocEmail(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if username == "" {
		h.WriteError(w, http.StatusBadRequest, "username is required")
		return
	}

	req, sentBy, ok := h.decodeCompose(w, r, "doc")
	if !ok {
		return
	}

	result, err := h.Service.SendEmployeeDocEmail(r.Context(), username, req, sentBy)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{
		"message":   sendMessage(result),
		"messageId": result.MessageID,
	})
}

func (h *Handler) decodeCompose(w http.ResponseWriter, r *http.Request, kind string) (*ComposeRequest, string, bool) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, "", false
	}

	var req ComposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return nil, "", false
	}

	if !endpointStages[kind][req.Stage] {
		h.WriteError(w, http.StatusBadRequest, "stage "+string(req.Stage)+" is not served by this endpoint")
		return nil, "", false
	}
	return &req, sessionUser.Username, true
}

func sendMessage(result *mailgateway.SendResult) string {
	if result.Message != "" {
		return result.Message
	}
	return "email sent"
}
