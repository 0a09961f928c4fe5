package job

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/rakhadyo/company-portal/internal/transport"
	"github.com/rakhadyo/company-portal/pkg/logger"
)

type ServiceAPI interface {
	PublicJobs(ctx context.Context) ([]Job, error)
	AllJobs(ctx context.Context) ([]Job, error)
	Upsert(ctx context.Context, dto UpsertJobDTO) (*Job, error)
	SetStatus(ctx context.Context, jobID string, dto SetStatusDTO) (*Job, error)
	Delete(ctx context.Context, jobID string) error
	Bank(ctx context.Context) (*QuestionBank, error)
	SaveBank(ctx context.Context, raw []byte) (*QuestionBank, error)
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

// PublicJobs handles GET /jobs, the unauthenticated careers listing.
func (h *Handler) PublicJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Service.PublicJobs(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, jobs)
}

// ListJobs handles GET /admin/jobs.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Service.AllJobs(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, jobs)
}

// UpsertJob handles POST /admin/jobs/upsert.
func (h *Handler) UpsertJob(w http.ResponseWriter, r *http.Request) {
	var dto UpsertJobDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created := dto.JobID == ""
	j, err := h.Service.Upsert(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, j)
}

// SetJobStatus handles POST /admin/jobs/{id}/status.
func (h *Handler) SetJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if jobID == "" {
		h.WriteError(w, http.StatusBadRequest, "job id is required")
		return
	}

	var dto SetStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	j, err := h.Service.SetStatus(r.Context(), jobID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, j)
}

// DeleteJob handles POST /admin/jobs/{id}/delete.
func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	if jobID == "" {
		h.WriteError(w, http.StatusBadRequest, "job id is required")
		return
	}

	if err := h.Service.Delete(r.Context(), jobID); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": "job deleted"})
}

// GetQuestionBank handles GET /admin/jobs/question-bank.
func (h *Handler) GetQuestionBank(w http.ResponseWriter, r *http.Request) {
	bank, err := h.Service.Bank(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, bank)
}

// SaveQuestionBank handles POST /admin/jobs/question-bank. The body is the
// full replacement document.
func (h *Handler) SaveQuestionBank(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	bank, err := h.Service.SaveBank(r.Context(), raw)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, bank)
}
