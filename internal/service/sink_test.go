package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"esgcheck/internal/model"
)

func samplePayload() *model.SubmissionPayload {
	level := 2
	return &model.SubmissionPayload{
		CompanyID: "acme",
		Responses: []model.ResponseRecord{
			{QuestionID: 1, QuestionType: model.QuestionTypeFourLevel, LevelID: &level},
			{QuestionID: 2, QuestionType: model.QuestionTypeFiveChoice, ChoiceIDs: []int{10, 11}},
		},
	}
}

func TestHTTPSinkPostsPayload(t *testing.T) {
	var got model.SubmissionPayload
	var sessionHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		sessionHeader = r.Header.Get("X-Session-ID")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"remote-7","status":"received"}`))
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, time.Second)
	receipt, err := sink.Submit(context.Background(), SubmissionMeta{SessionID: "as_1"}, samplePayload())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if receipt.ID != "remote-7" || receipt.Status != "received" {
		t.Fatalf("receipt = %+v", receipt)
	}
	if sessionHeader != "as_1" || got.CompanyID != "acme" || len(got.Responses) != 2 {
		t.Fatalf("server saw header %q body %+v", sessionHeader, got)
	}
	if got.Responses[0].ChoiceIDs != nil || got.Responses[1].LevelID != nil {
		t.Fatalf("records carry both fields: %+v", got.Responses)
	}
}

func TestHTTPSinkFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "db down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := NewHTTPSink(srv.URL, time.Second).Submit(context.Background(), SubmissionMeta{}, samplePayload()); err == nil {
		t.Fatal("expected error for 500 response")
	}

	unreachable := httptest.NewServer(http.NotFoundHandler())
	url := unreachable.URL
	unreachable.Close()
	if _, err := NewHTTPSink(url, time.Second).Submit(context.Background(), SubmissionMeta{}, samplePayload()); err == nil {
		t.Fatal("expected error for unreachable sink")
	}
}

func TestHTTPSinkAcceptsEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	receipt, err := NewHTTPSink(srv.URL, time.Second).Submit(context.Background(), SubmissionMeta{}, samplePayload())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if receipt.Status != "accepted" {
		t.Fatalf("status = %q", receipt.Status)
	}
}

func TestStoreSink(t *testing.T) {
	repo := &fakeSubmissionRepo{}
	sink := NewStoreSink(repo)

	receipt, err := sink.Submit(context.Background(), SubmissionMeta{SessionID: "as_9", UserID: "alice"}, samplePayload())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if receipt.ID != "sub-as_9" || receipt.Status != "stored" || len(repo.subs) != 1 {
		t.Fatalf("receipt = %+v, stored = %d", receipt, len(repo.subs))
	}
	if repo.subs[0].UserID != "alice" || repo.subs[0].CompanyID != "acme" {
		t.Fatalf("stored = %+v", repo.subs[0])
	}

	repo.err = errors.New("write concern")
	if _, err := sink.Submit(context.Background(), SubmissionMeta{}, samplePayload()); err == nil {
		t.Fatal("expected error from failing repo")
	}
}
