package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"esgcheck/internal/service"
	"esgcheck/internal/transport/rest/middleware"
)

// ReportHandler handles report endpoints
type ReportHandler struct {
	reportSvc *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Get handles GET /v1/assessments/{id}/report
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())
	if companyID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rep, err := h.reportSvc.Get(r.Context(), companyID, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}
