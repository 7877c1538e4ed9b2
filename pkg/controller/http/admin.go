package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
	"github.com/motorq-lab/motorq/pkg/usecase"
)

// AdminHandler handles account administration endpoints
type AdminHandler struct {
	adminUC usecase.AdminUseCase
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminUC usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUC: adminUC,
	}
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// HandleListUsers handles GET /api/admin/users
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("not authenticated"), http.StatusUnauthorized)
		return
	}

	users, err := h.adminUC.ListUsers(r.Context(), user)
	if err != nil {
		writeError(r.Context(), w, err, adminErrorStatus(err))
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"users": users,
	})
}

// HandleUpdateRole handles PATCH /api/admin/users/{userID}/role
func (h *AdminHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("not authenticated"), http.StatusUnauthorized)
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	role := types.Role(req.Role)
	if !role.IsValid() {
		writeError(r.Context(), w, goerr.New("invalid role", goerr.V("role", req.Role)), http.StatusBadRequest)
		return
	}

	id := types.UserID(chi.URLParam(r, "userID"))
	updated, err := h.adminUC.UpdateRole(r.Context(), user, id, role)
	if err != nil {
		writeError(r.Context(), w, err, adminErrorStatus(err))
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, updated)
}

// HandleDeleteUser handles DELETE /api/admin/users/{userID}
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("not authenticated"), http.StatusUnauthorized)
		return
	}

	id := types.UserID(chi.URLParam(r, "userID"))
	if err := h.adminUC.DeleteUser(r.Context(), user, id); err != nil {
		writeError(r.Context(), w, err, adminErrorStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// adminErrorStatus maps use case errors to HTTP status codes
func adminErrorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
