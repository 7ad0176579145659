package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"esgcheck/internal/model"
	"esgcheck/internal/service"
	"esgcheck/internal/transport/rest/middleware"
)

// AssessmentHandler handles assessment session endpoints
type AssessmentHandler struct {
	assessmentSvc *service.AssessmentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(assessmentSvc *service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentSvc: assessmentSvc}
}

// Start handles POST /v1/assessments
func (h *AssessmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	companyID := middleware.GetCompanyID(r.Context())
	if companyID == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.assessmentSvc.Start(r.Context(), companyID, middleware.GetUserID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

// Get handles GET /v1/assessments/{id}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.assessmentSvc.Get(r.Context(), middleware.GetCompanyID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Answer handles PUT /v1/assessments/{id}/answers
func (h *AssessmentHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req model.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.assessmentSvc.Answer(r.Context(), middleware.GetCompanyID(r.Context()), mux.Vars(r)["id"], req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Reset handles POST /v1/assessments/{id}/reset
func (h *AssessmentHandler) Reset(w http.ResponseWriter, r *http.Request) {
	view, err := h.assessmentSvc.Reset(r.Context(), middleware.GetCompanyID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Submit handles POST /v1/assessments/{id}/submit
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	result, err := h.assessmentSvc.Submit(ctx, middleware.GetCompanyID(ctx), middleware.GetUserID(ctx), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ListSubmissions handles GET /v1/submissions
func (h *AssessmentHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.assessmentSvc.ListSubmissions(r.Context(), middleware.GetCompanyID(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": subs})
}

// GetSubmission handles GET /v1/submissions/{id}
func (h *AssessmentHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.assessmentSvc.GetSubmission(r.Context(), middleware.GetCompanyID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sub)
}

// Discard handles DELETE /v1/assessments/{id}
func (h *AssessmentHandler) Discard(w http.ResponseWriter, r *http.Request) {
	if err := h.assessmentSvc.Discard(r.Context(), middleware.GetCompanyID(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
