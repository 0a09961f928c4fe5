package user

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
	GetByUsername(ctx context.Context, username string) (*User, error)
	Directory(ctx context.Context) ([]*User, error)
	AllUsers(ctx context.Context) ([]*User, error)
	CreateUser(ctx context.Context, dto CreateUserDTO) (*User, error)
	UpdateUser(ctx context.Context, dto UpdateUserDTO) (*User, error)
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

// GetCurrentUser handles GET /me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.UserFromContext(r.Context())
	if !ok || sessionUser == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByUsername(r.Context(), sessionUser.Username)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service error", "error", err, "username", sessionUser.Username)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// GetDirectory handles GET /directory
func (h *Handler) GetDirectory(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.Directory(r.Context())
	if err != nil {
		h.Logger.Error("GetDirectory: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to load directory")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
	})
}

// GetAllUsers handles GET /admin/users
func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.AllUsers(r.Context())
	if err != nil {
		h.Logger.Error("GetAllUsers: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to load users")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
	})
}

// CreateUser handles POST /admin/createUser
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.CreateUser(r.Context(), dto)
	if err != nil {
		h.Logger.Error("CreateUser: service error", "error", err, "username", dto.Username)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateUser: user created", "username", u.Username, "role", u.Role)
	h.WriteJSON(w, http.StatusCreated, u)
}

// UpdateUser handles POST /admin/updateUser
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.UpdateUser(r.Context(), dto)
	if err != nil {
		h.Logger.Error("UpdateUser: service error", "error", err, "username", dto.Username)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}
