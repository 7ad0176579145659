package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"esgcheck/internal/model"
)

// HTTPSource reads the catalog from a remote kesg endpoint
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPSource creates a source for {baseURL}/assessment/kesg
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type kesgListResponse struct {
	Items      []model.KesgItem `json:"items"`
	TotalCount int              `json:"total_count"`
}

func (s *HTTPSource) ListQuestions(ctx context.Context) ([]model.Question, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/assessment/kesg", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kesg request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("kesg request returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var list kesgListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode kesg response: %w", err)
	}
	if len(list.Items) == 0 {
		return nil, ErrEmptyCatalog
	}

	questions := make([]model.Question, 0, len(list.Items))
	for _, it := range list.Items {
		q, err := it.ToQuestion()
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, nil
}
