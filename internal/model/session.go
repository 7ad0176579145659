package model

import "time"

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionSubmitting SessionStatus = "submitting"
	SessionSubmitted  SessionStatus = "submitted"
)

// CatalogSource records where a session's questions came from
type CatalogSource string

const (
	CatalogPrimary  CatalogSource = "primary"
	CatalogFallback CatalogSource = "fallback"
)

// Session is one company user's assessment in progress. Questions is the
// catalog snapshot taken at start and never changes afterwards.
type Session struct {
	ID           string        `json:"id"`
	CompanyID    string        `json:"company_id"`
	UserID       string        `json:"user_id"`
	Status       SessionStatus `json:"status"`
	Source       CatalogSource `json:"source"`
	Questions    []Question    `json:"questions"`
	Responses    ResponseState `json:"responses"`
	SubmissionID string        `json:"submission_id,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	SubmittedAt  *time.Time    `json:"submitted_at,omitempty"`
}

// Question looks up a question of the session catalog by id
func (s *Session) Question(id int) (*Question, bool) {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i], true
		}
	}
	return nil, false
}

// SessionView is the session as returned to clients
type SessionView struct {
	*Session
	Progress Progress `json:"progress"`
}
