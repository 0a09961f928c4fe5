package updates

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/rakhadyo/company-portal/internal/auth"
	"github.com/rakhadyo/company-portal/internal/transport"
	"github.com/rakhadyo/company-portal/pkg/logger"
)

type ServiceAPI interface {
	List(ctx context.Context) ([]*Update, error)
	ByWeek(ctx context.Context, weekStart string) ([]*Update, error)
	Weeks(ctx context.Context) ([]string, error)
	Submit(ctx context.Context, username string, dto SubmitUpdateDTO) (*Update, error)
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

// GetUpdates handles GET /updates with an optional ?week= filter.
func (h *Handler) GetUpdates(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserFromContext(r.Context()); !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var (
		rows []*Update
		err  error
	)
	if week := r.URL.Query().Get("week"); week != "" {
		rows, err = h.Service.ByWeek(r.Context(), week)
	} else {
		rows, err = h.Service.List(r.Context())
	}
	if err != nil {
		h.Logger.Error("GetUpdates: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to load updates")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"updates": rows,
	})
}

// GetWeeks handles GET /updates/weeks
func (h *Handler) GetWeeks(w http.ResponseWriter, r *http.Request) {
	weeks, err := h.Service.Weeks(r.Context())
	if err != nil {
		h.Logger.Error("GetWeeks: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to load weeks")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"weeks": weeks,
	})
}

// SubmitUpdate handles POST /updates/submit
func (h *Handler) SubmitUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Submit(r.Context(), user.Username, dto)
	if err != nil {
		h.Logger.Error("SubmitUpdate: service error", "error", err, "username", user.Username)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SubmitUpdate: update submitted",
		"username", user.Username,
		"week_start", u.WeekStart,
		"total_hours", u.TotalHours)

	h.WriteJSON(w, http.StatusCreated, u)
}
