package service

import (
	"context"
	"fmt"
	"time"

	"esgcheck/internal/cache"
	"esgcheck/internal/model"
	"esgcheck/internal/report"
)

// ReportService scores submitted sessions and serves the stored reports
type ReportService struct {
	reports  cache.ReportCache
	sessions cache.SessionCache
}

// NewReportService creates a new report service. sessions is consulted so a
// report is not served for a session that was reset after its submit.
func NewReportService(reports cache.ReportCache, sessions cache.SessionCache) *ReportService {
	return &ReportService{
		reports:  reports,
		sessions: sessions,
	}
}

// Generate scores a submitted session and stores the report
func (s *ReportService) Generate(ctx context.Context, session *model.Session) (*model.ScoreReport, error) {
	overall, categories := report.Score(session.Questions, session.Responses)
	r := &model.ScoreReport{
		SessionID:    session.ID,
		CompanyID:    session.CompanyID,
		SubmissionID: session.SubmissionID,
		Overall:      overall,
		Status:       report.StatusOf(overall),
		Categories:   categories,
		CreatedAt:    time.Now(),
	}
	if err := s.reports.SetReport(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}
	return r, nil
}

// Get returns the report of a submitted session of the company
func (s *ReportService) Get(ctx context.Context, companyID, sessionID string) (*model.ScoreReport, error) {
	r, err := s.reports.GetReport(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if r == nil || r.CompanyID != companyID {
		return nil, ErrNotFound
	}

	// An expired session leaves the report as the only record
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session != nil && (session.Status != model.SessionSubmitted || session.SubmissionID != r.SubmissionID) {
		return nil, ErrNotFound
	}
	return r, nil
}
