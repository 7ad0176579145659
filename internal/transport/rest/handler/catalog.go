package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"esgcheck/internal/model"
	"esgcheck/internal/service"
)

// CatalogHandler serves the question catalog
type CatalogHandler struct {
	catalogSvc *service.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogSvc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// List handles GET /v1/assessment/kesg
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	cat, err := h.catalogSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.KesgResponse{
		Items:      cat.Questions,
		TotalCount: len(cat.Questions),
		Source:     string(cat.Source),
	})
}

// Get handles GET /v1/assessment/kesg/{id}
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid question id")
		return
	}

	q, err := h.catalogSvc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, q)
}
