package model

import "time"

// ScoreStatus buckets an overall score
type ScoreStatus string

const (
	ScoreExcellent ScoreStatus = "excellent" // 80 and above
	ScoreFair      ScoreStatus = "fair"      // 60 to 80
	ScoreRisk      ScoreStatus = "risk"
)

// CategoryScore is the weighted score of one question category
type CategoryScore struct {
	Category  string  `json:"category"`
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Questions int     `json:"questions"`
}

// ScoreReport summarizes a submitted assessment on a 0-100 scale
type ScoreReport struct {
	SessionID    string          `json:"session_id"`
	CompanyID    string          `json:"company_id"`
	SubmissionID string          `json:"submission_id,omitempty"`
	Overall      float64         `json:"overall"`
	Status       ScoreStatus     `json:"status"`
	Categories   []CategoryScore `json:"categories"`
	CreatedAt    time.Time       `json:"created_at"`
}
