package service

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound      = errors.New("assessment session not found")
	ErrForbidden            = errors.New("session belongs to another company")
	ErrSubmissionInProgress = errors.New("a submission for this session is already in progress")
	ErrAlreadySubmitted     = errors.New("assessment has already been submitted")
	ErrSubmissionFailed     = errors.New("submission could not be delivered")
	ErrConcurrentUpdate     = errors.New("session was modified concurrently, retry")
	ErrNotFound             = errors.New("not found")
)

// ValidationError reports a request that does not fit the session catalog
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
