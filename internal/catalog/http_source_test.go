package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPSourceMapsKesgItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assessment/kesg" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"total_count":2,"items":[
			{"id":1,"item_name":"Supplier code of conduct","question_type":"three_level",
			 "choices":[{"level_no":0,"label":"no"},{"level_no":1,"label":"partly"},{"level_no":2,"label":"yes"}]},
			{"id":2,"item_name":"Certifications","question_type":"five_choice",
			 "choices":[{"id":10,"text":"ISO 14001"},{"id":11,"text":"SA8000"}],"category":"Environment"}]}`))
	}))
	defer srv.Close()

	questions, err := NewHTTPSource(srv.URL+"/", time.Second).ListQuestions(context.Background())
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions", len(questions))
	}
	if questions[0].Text != "Supplier code of conduct" || len(questions[0].Levels) != 3 || questions[0].Weight != 1 {
		t.Fatalf("question 1 = %+v", questions[0])
	}
	if questions[1].Category != "Environment" || len(questions[1].Choices) != 2 {
		t.Fatalf("question 2 = %+v", questions[1])
	}
}

func TestHTTPSourceErrors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		payload string
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"db down"}`},
		{"empty items", http.StatusOK, `{"items":[],"total_count":0}`},
		{"bad json", http.StatusOK, `{"items":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.payload))
			}))
			defer srv.Close()

			if _, err := NewHTTPSource(srv.URL, time.Second).ListQuestions(context.Background()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
