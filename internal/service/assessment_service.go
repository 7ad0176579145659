package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"esgcheck/internal/assessment"
	"esgcheck/internal/cache"
	"esgcheck/internal/catalog"
	"esgcheck/internal/model"
	"esgcheck/internal/repository"
)

// CatalogLoader yields the question catalog for new sessions
type CatalogLoader interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// AssessmentService runs assessment sessions: start, answer, reset, submit
type AssessmentService struct {
	loader      CatalogLoader
	sessions    cache.SessionCache
	sink        Sink
	submissions repository.SubmissionRepo
	broadcaster Broadcaster
	reports     *ReportService
	strict      bool
}

// NewAssessmentService creates a new assessment service. With strict set,
// answers naming a question or option outside the session catalog are
// rejected; otherwise they are stored and ignored for completion.
func NewAssessmentService(
	loader CatalogLoader,
	sessions cache.SessionCache,
	sink Sink,
	submissions repository.SubmissionRepo,
	strict bool,
) *AssessmentService {
	return &AssessmentService{
		loader:      loader,
		sessions:    sessions,
		sink:        sink,
		submissions: submissions,
		strict:      strict,
	}
}

// SetBroadcaster sets the broadcaster for live progress events
func (s *AssessmentService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetReportService enables score reports for submitted sessions
func (s *AssessmentService) SetReportService(reports *ReportService) {
	s.reports = reports
}

// Start loads the catalog and opens an empty session for the user
func (s *AssessmentService) Start(ctx context.Context, companyID, userID string) (*model.SessionView, error) {
	cat, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	now := time.Now()
	session := &model.Session{
		ID:        "as_" + uuid.New().String(),
		CompanyID: companyID,
		UserID:    userID,
		Status:    model.SessionInProgress,
		Source:    cat.Source,
		Questions: cat.Questions,
		Responses: model.ResponseState{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Set(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Printf("[Assessment] session %s started for company %s (%d questions, %s catalog)",
		session.ID, companyID, len(session.Questions), session.Source)
	return viewOf(session), nil
}

// Get returns a session with its current progress
func (s *AssessmentService) Get(ctx context.Context, companyID, sessionID string) (*model.SessionView, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if session.CompanyID != companyID {
		return nil, ErrForbidden
	}
	return viewOf(session), nil
}

// Answer applies one answer to the session and returns the new state
func (s *AssessmentService) Answer(ctx context.Context, companyID, sessionID string, req model.AnswerRequest) (*model.SessionView, error) {
	if req.Value == nil {
		return nil, &ValidationError{Field: "value", Message: "value is required"}
	}
	value := *req.Value

	session, err := s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		if sess.CompanyID != companyID {
			return ErrForbidden
		}
		if err := checkOpen(sess); err != nil {
			return err
		}

		questionType := req.QuestionType
		if q, ok := sess.Question(req.QuestionID); ok {
			questionType = q.Type
			if s.strict && !q.HasOption(value) {
				return &ValidationError{
					Field:   "value",
					Message: fmt.Sprintf("%d is not an option of question %d", value, req.QuestionID),
				}
			}
		} else if s.strict {
			return &ValidationError{
				Field:   "question_id",
				Message: fmt.Sprintf("question %d is not part of this assessment", req.QuestionID),
			}
		}

		if sess.Responses == nil {
			sess.Responses = model.ResponseState{}
		}
		assessment.ApplyAnswer(sess.Responses, req.QuestionID, value, questionType)
		sess.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, mapCacheErr(err)
	}

	view := viewOf(session)
	s.broadcast(session.ID, "progress", view.Progress)
	return view, nil
}

// Reset clears every answer of a session that is not being submitted
func (s *AssessmentService) Reset(ctx context.Context, companyID, sessionID string) (*model.SessionView, error) {
	session, err := s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		if sess.CompanyID != companyID {
			return ErrForbidden
		}
		if sess.Status == model.SessionSubmitting {
			return ErrSubmissionInProgress
		}
		sess.Responses = model.ResponseState{}
		sess.Status = model.SessionInProgress
		sess.SubmissionID = ""
		sess.SubmittedAt = nil
		sess.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, mapCacheErr(err)
	}

	view := viewOf(session)
	s.broadcast(session.ID, "progress", view.Progress)
	return view, nil
}

// Discard deletes a session that is not being submitted and closes its
// live connections
func (s *AssessmentService) Discard(ctx context.Context, companyID, sessionID string) error {
	err := s.sessions.DeleteIf(ctx, sessionID, func(sess *model.Session) error {
		if sess.CompanyID != companyID {
			return ErrForbidden
		}
		if sess.Status == model.SessionSubmitting {
			return ErrSubmissionInProgress
		}
		return nil
	})
	if err != nil {
		return mapCacheErr(err)
	}
	if s.broadcaster != nil {
		s.broadcaster.DisconnectSession(sessionID)
	}
	log.Printf("[Assessment] session %s discarded", sessionID)
	return nil
}

// Submit packages a complete session and hands it to the sink once. An
// incomplete session is refused before packaging. A sink failure puts the
// session back in progress with its answers intact; it is not retried.
func (s *AssessmentService) Submit(ctx context.Context, companyID, userID, sessionID string) (*model.SubmissionResult, error) {
	var payload *model.SubmissionPayload
	_, err := s.sessions.Update(ctx, sessionID, func(sess *model.Session) error {
		if sess.CompanyID != companyID {
			return ErrForbidden
		}
		if err := checkOpen(sess); err != nil {
			return err
		}
		if !assessment.IsComplete(sess.Questions, sess.Responses) {
			return &assessment.IncompleteError{
				Answered:   assessment.CompletionCount(sess.Questions, sess.Responses),
				Total:      len(sess.Questions),
				Unanswered: assessment.Unanswered(sess.Questions, sess.Responses),
			}
		}

		p, err := assessment.BuildPayload(sess.Questions, sess.Responses, sess.CompanyID)
		if err != nil {
			return err
		}
		payload = p
		sess.Status = model.SessionSubmitting
		sess.UpdatedAt = time.Now()
		return nil
	})
	if err != nil {
		return nil, mapCacheErr(err)
	}

	// The handoff is not cancelled when the caller goes away; the sink's own
	// timeout bounds it.
	sinkCtx := context.WithoutCancel(ctx)
	receipt, err := s.sink.Submit(sinkCtx, SubmissionMeta{SessionID: sessionID, UserID: userID}, payload)
	if err != nil {
		log.Printf("[Assessment] submission of session %s failed: %v", sessionID, err)
		if _, rerr := s.sessions.Update(sinkCtx, sessionID, func(sess *model.Session) error {
			sess.Status = model.SessionInProgress
			sess.UpdatedAt = time.Now()
			return nil
		}); rerr != nil {
			log.Printf("[Assessment] failed to reopen session %s: %v", sessionID, rerr)
		}
		return nil, fmt.Errorf("%w: %v", ErrSubmissionFailed, err)
	}

	session, err := s.sessions.Update(sinkCtx, sessionID, func(sess *model.Session) error {
		now := time.Now()
		sess.Status = model.SessionSubmitted
		sess.SubmissionID = receipt.ID
		sess.SubmittedAt = &now
		sess.UpdatedAt = now
		return nil
	})
	if err != nil {
		log.Printf("[Assessment] session %s submitted but state not updated: %v", sessionID, err)
	} else {
		s.broadcast(session.ID, "submitted", receipt)
	}

	var scoreReport *model.ScoreReport
	if s.reports != nil && session != nil {
		if scoreReport, err = s.reports.Generate(sinkCtx, session); err != nil {
			log.Printf("[Assessment] report for session %s not stored: %v", sessionID, err)
		}
	}

	log.Printf("[Assessment] session %s submitted for company %s (%d responses)",
		sessionID, companyID, len(payload.Responses))
	return &model.SubmissionResult{
		SessionID: sessionID,
		Receipt:   receipt,
		Payload:   payload,
		Report:    scoreReport,
	}, nil
}

// ListSubmissions returns the stored submissions of a company
func (s *AssessmentService) ListSubmissions(ctx context.Context, companyID string) ([]*model.Submission, error) {
	if s.submissions == nil {
		return []*model.Submission{}, nil
	}
	subs, err := s.submissions.GetByCompanyID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []*model.Submission{}
	}
	return subs, nil
}

// GetSubmission returns one stored submission of the company
func (s *AssessmentService) GetSubmission(ctx context.Context, companyID, id string) (*model.Submission, error) {
	if s.submissions == nil {
		return nil, ErrNotFound
	}
	sub, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.CompanyID != companyID {
		return nil, ErrNotFound
	}
	return sub, nil
}

func checkOpen(sess *model.Session) error {
	switch sess.Status {
	case model.SessionSubmitting:
		return ErrSubmissionInProgress
	case model.SessionSubmitted:
		return ErrAlreadySubmitted
	}
	return nil
}

func mapCacheErr(err error) error {
	switch {
	case errors.Is(err, cache.ErrSessionNotFound):
		return ErrSessionNotFound
	case errors.Is(err, cache.ErrConflict):
		return ErrConcurrentUpdate
	}
	return err
}

func viewOf(session *model.Session) *model.SessionView {
	return &model.SessionView{
		Session:  session,
		Progress: assessment.ProgressOf(session.Questions, session.Responses),
	}
}

func (s *AssessmentService) broadcast(sessionID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToSession(sessionID, msgType, payload)
	}
}
