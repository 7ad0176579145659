package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"esgcheck/internal/model"
	"esgcheck/internal/repository"
)

// SubmissionMeta identifies who submitted a payload
type SubmissionMeta struct {
	SessionID string
	UserID    string
}

// Sink receives finished submission payloads. A sink makes exactly one
// delivery attempt per call.
type Sink interface {
	Submit(ctx context.Context, meta SubmissionMeta, payload *model.SubmissionPayload) (*model.SubmissionReceipt, error)
}

// StoreSink persists payloads in the submissions collection
type StoreSink struct {
	repo repository.SubmissionRepo
}

// NewStoreSink creates a sink backed by the submission repository
func NewStoreSink(repo repository.SubmissionRepo) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Submit(ctx context.Context, meta SubmissionMeta, payload *model.SubmissionPayload) (*model.SubmissionReceipt, error) {
	sub := &model.Submission{
		SessionID:   meta.SessionID,
		CompanyID:   payload.CompanyID,
		UserID:      meta.UserID,
		Responses:   payload.Responses,
		SubmittedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}
	return &model.SubmissionReceipt{
		ID:          sub.ID,
		Status:      "stored",
		SubmittedAt: sub.SubmittedAt,
	}, nil
}

// HTTPSink posts payloads as JSON to a remote assessment endpoint
type HTTPSink struct {
	url        string
	httpClient *http.Client
}

// NewHTTPSink creates a sink posting to url
func NewHTTPSink(url string, timeout time.Duration) *HTTPSink {
	return &HTTPSink{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type httpSinkResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (s *HTTPSink) Submit(ctx context.Context, meta SubmissionMeta, payload *model.SubmissionPayload) (*model.SubmissionReceipt, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", meta.SessionID)

	log.Printf("[Sink] POST %s (%d responses)", s.url, len(payload.Responses))
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("sink returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	receipt := &model.SubmissionReceipt{Status: "accepted", SubmittedAt: time.Now()}
	var parsed httpSinkResponse
	if len(respBody) > 0 && json.Unmarshal(respBody, &parsed) == nil {
		receipt.ID = parsed.ID
		if parsed.Status != "" {
			receipt.Status = parsed.Status
		}
	}
	return receipt, nil
}
