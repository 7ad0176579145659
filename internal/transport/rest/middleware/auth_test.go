package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"esgcheck/internal/model"
)

type stubValidator struct{}

func (stubValidator) ValidateToken(token string) (*model.UserClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &model.UserClaims{UserID: "alice", CompanyID: "acme"}, nil
}

func TestRequireUser(t *testing.T) {
	var gotUser, gotCompany string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = GetUserID(r.Context())
		gotCompany = GetCompanyID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := NewAuthMiddleware(stubValidator{}).RequireUser(next)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"good token", "bearer good", http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/assessments", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}

	if gotUser != "alice" || gotCompany != "acme" {
		t.Fatalf("context ids = %q, %q", gotUser, gotCompany)
	}
}
