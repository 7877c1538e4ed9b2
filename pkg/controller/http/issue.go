package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/domain/types"
	"github.com/motorq-lab/motorq/pkg/usecase"
	"github.com/motorq-lab/motorq/pkg/utils/async"
)

// IssueHandler handles issue endpoints
type IssueHandler struct {
	issueUC usecase.IssueUseCase
}

// NewIssueHandler creates a new issue handler
func NewIssueHandler(issueUC usecase.IssueUseCase) *IssueHandler {
	return &IssueHandler{
		issueUC: issueUC,
	}
}

type createIssueRequest struct {
	Description  string `json:"description"`
	Category     string `json:"category"`
	VehicleModel string `json:"vehicle_model"`
	Severity     string `json:"severity"`
	Analyze      bool   `json:"analyze"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// HandleCreate handles POST /api/issues
func (h *IssueHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("not authenticated"), http.StatusUnauthorized)
		return
	}

	var req createIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	issue, err := h.issueUC.Create(r.Context(), user, usecase.CreateIssueInput{
		Description:  req.Description,
		Category:     req.Category,
		VehicleModel: req.VehicleModel,
		Severity:     req.Severity,
		Analyze:      req.Analyze,
	})
	if err != nil {
		writeError(r.Context(), w, err, issueErrorStatus(err))
		return
	}

	writeJSON(r.Context(), w, http.StatusCreated, issue)
}

// HandleList handles GET /api/issues
func (h *IssueHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("not authenticated"), http.StatusUnauthorized)
		return
	}

	issues, err := h.issueUC.List(r.Context(), user)
	if err != nil {
		writeError(r.Context(), w, err, issueErrorStatus(err))
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"issues": issues,
	})
}

// HandleGet handles GET /api/issues/{issueID}
func (h *IssueHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("not authenticated"), http.StatusUnauthorized)
		return
	}

	id := types.IssueID(chi.URLParam(r, "issueID"))
	issue, err := h.issueUC.Get(r.Context(), user, id)
	if err != nil {
		writeError(r.Context(), w, err, issueErrorStatus(err))
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, issue)
}

// HandleUpdateStatus handles PATCH /api/issues/{issueID}/status
func (h *IssueHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("not authenticated"), http.StatusUnauthorized)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, goerr.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}

	status, err := model.ParseStatus(req.Status)
	if err != nil {
		writeError(r.Context(), w, err, http.StatusBadRequest)
		return
	}

	id := types.IssueID(chi.URLParam(r, "issueID"))
	issue, err := h.issueUC.UpdateStatus(r.Context(), user, id, status)
	if err != nil {
		writeError(r.Context(), w, err, issueErrorStatus(err))
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, issue)
}

// HandleAnalyze handles POST /api/issues/{issueID}/analyze. The diagnosis
// runs in the background so the caller gets an immediate acknowledgement.
func (h *IssueHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("not authenticated"), http.StatusUnauthorized)
		return
	}

	id := types.IssueID(chi.URLParam(r, "issueID"))

	// Verify access before dispatching
	if _, err := h.issueUC.Get(r.Context(), user, id); err != nil {
		writeError(r.Context(), w, err, issueErrorStatus(err))
		return
	}

	async.Dispatch(r.Context(), func(ctx context.Context) error {
		if err := h.issueUC.Reanalyze(ctx, user, id); err != nil {
			return goerr.Wrap(err, "background diagnosis failed", goerr.V("issueID", id))
		}
		ctxlog.From(ctx).Info("Issue diagnosis completed", "issueID", id)
		return nil
	})

	writeJSON(r.Context(), w, http.StatusAccepted, map[string]string{
		"status":   "accepted",
		"issue_id": id.String(),
	})
}

// HandleDelete handles DELETE /api/issues/{issueID}
func (h *IssueHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("not authenticated"), http.StatusUnauthorized)
		return
	}

	id := types.IssueID(chi.URLParam(r, "issueID"))
	if err := h.issueUC.Delete(r.Context(), user, id); err != nil {
		writeError(r.Context(), w, err, issueErrorStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// issueErrorStatus maps use case errors to HTTP status codes
func issueErrorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrIssueNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrPermission):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}
