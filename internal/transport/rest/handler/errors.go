package handler

import (
	"errors"
	"log"
	"net/http"

	"esgcheck/internal/assessment"
	"esgcheck/internal/service"
)

// writeServiceError maps service and engine errors to HTTP responses
func writeServiceError(w http.ResponseWriter, err error) {
	var incomplete *assessment.IncompleteError
	var invalid *service.ValidationError

	switch {
	case errors.As(err, &incomplete):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":      assessment.ErrIncompleteSubmission.Error(),
			"answered":   incomplete.Answered,
			"total":      incomplete.Total,
			"unanswered": incomplete.Unanswered,
		})
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": invalid.Message,
			"field": invalid.Field,
		})
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrSubmissionInProgress),
		errors.Is(err, service.ErrAlreadySubmitted),
		errors.Is(err, service.ErrConcurrentUpdate),
		errors.Is(err, service.ErrAccountExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSubmissionFailed):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		log.Printf("[API] internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
