package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/motorq-lab/motorq/pkg/domain/model"
	"github.com/motorq-lab/motorq/pkg/usecase"
)

// AnalyticsHandler handles analytics endpoints
type AnalyticsHandler struct {
	analyticsUC usecase.AnalyticsUseCase
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsUC usecase.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUC: analyticsUC,
	}
}

// HandleSummary handles GET /api/analytics
func (h *AnalyticsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("not authenticated"), http.StatusUnauthorized)
		return
	}

	summary, err := h.analyticsUC.Summary(r.Context(), user)
	if err != nil {
		writeError(r.Context(), w, err, analyticsErrorStatus(err))
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, summary)
}

// HandleExportSnapshot handles GET /api/analytics/export/snapshot
func (h *AnalyticsHandler) HandleExportSnapshot(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("not authenticated"), http.StatusUnauthorized)
		return
	}

	data, err := h.analyticsUC.ExportSnapshot(r.Context(), user)
	if err != nil {
		writeError(r.Context(), w, err, analyticsErrorStatus(err))
		return
	}

	name := fmt.Sprintf("analytics-snapshot-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write snapshot export", "error", err)
	}
}

// HandleExportCSV handles GET /api/analytics/export/csv
func (h *AnalyticsHandler) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeError(r.Context(), w, goerr.New("not authenticated"), http.StatusUnauthorized)
		return
	}

	data, err := h.analyticsUC.ExportCSV(r.Context(), user)
	if err != nil {
		writeError(r.Context(), w, err, analyticsErrorStatus(err))
		return
	}

	name := fmt.Sprintf("issues-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write CSV export", "error", err)
	}
}

// analyticsErrorStatus maps use case errors to HTTP status codes
func analyticsErrorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, model.ErrNoSummary):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
