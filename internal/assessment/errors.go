package assessment

import (
	"errors"
	"fmt"
)

// ErrIncompleteSubmission is returned when a payload is requested for a
// state that does not answer every catalog question.
var ErrIncompleteSubmission = errors.New("all questions must be answered before submitting")

// IncompleteError carries the progress at the time submission was refused
type IncompleteError struct {
	Answered   int
	Total      int
	Unanswered []int
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s (%d/%d answered)", ErrIncompleteSubmission.Error(), e.Answered, e.Total)
}

func (e *IncompleteError) Unwrap() error { return ErrIncompleteSubmission }
