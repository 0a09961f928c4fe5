package project

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/rakhadyo/company-portal/internal/transport"
	"github.com/rakhadyo/company-portal/pkg/logger"
)

type ServiceAPI interface {
	GetAll(ctx context.Context) ([]*Project, error)
	GetByID(ctx context.Context, projectID string) (*Project, error)
	Upsert(ctx context.Context, dto UpsertProjectDTO) (*Project, error)
	Deactivate(ctx context.Context, projectID string) (*Project, error)
	WeeklyReports(ctx context.Context, projectID string) ([]*WeeklyReport, error)
	AddWeeklyReport(ctx context.Context, dto WeeklyReportDTO) (*WeeklyReport, error)
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

// GetProjects handles GET /projects
func (h *Handler) GetProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Service.GetAll(r.Context())
	if err != nil {
		h.Logger.Error("GetProjects: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to load projects")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"projects": projects,
	})
}

// UpsertProject handles POST /projects
func (h *Handler) UpsertProject(w http.ResponseWriter, r *http.Request) {
	var dto UpsertProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Upsert(r.Context(), dto)
	if err != nil {
		h.Logger.Error("UpsertProject: service error", "error", err, "project_id", dto.ProjectID)
		h.HandleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if dto.ProjectID == "" {
		status = http.StatusCreated
	}
	h.WriteJSON(w, status, p)
}

// DeactivateProject handles POST /projects/{id}/deactivate
func (h *Handler) DeactivateProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")
	if projectID == "" {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	p, err := h.Service.Deactivate(r.Context(), projectID)
	if err != nil {
		h.Logger.Error("DeactivateProject: service error", "error", err, "project_id", projectID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

// GetWeeklyReports handles GET /weekly/{projectId}
func (h *Handler) GetWeeklyReports(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectId")
	if projectID == "" {
		h.WriteError(w, http.StatusBadRequest, "invalid project ID")
		return
	}

	reports, err := h.Service.WeeklyReports(r.Context(), projectID)
	if err != nil {
		h.Logger.Error("GetWeeklyReports: service error", "error", err, "project_id", projectID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reports": reports,
	})
}

// AddWeeklyReport handles POST /weekly
func (h *Handler) AddWeeklyReport(w http.ResponseWriter, r *http.Request) {
	var dto WeeklyReportDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.Service.AddWeeklyReport(r.Context(), dto)
	if err != nil {
		h.Logger.Error("AddWeeklyReport: service error", "error", err, "project_id", dto.ProjectID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, report)
}
