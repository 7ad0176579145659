package model

import "time"

// ResponseRecord is one entry of a submission. Exactly one of LevelID and
// ChoiceIDs is present, matching QuestionType.
type ResponseRecord struct {
	QuestionID   int          `json:"question_id" bson:"questionId"`
	QuestionType QuestionType `json:"question_type" bson:"questionType"`
	LevelID      *int         `json:"level_id,omitempty" bson:"levelId,omitempty"`
	ChoiceIDs    []int        `json:"choice_ids,omitempty" bson:"choiceIds,omitempty"`
}

// SubmissionPayload is the finalized snapshot handed to the submission sink
type SubmissionPayload struct {
	CompanyID string           `json:"company_id" bson:"companyId"`
	Responses []ResponseRecord `json:"responses" bson:"responses"`
}

// Submission is a stored payload
type Submission struct {
	ID          string           `json:"id" bson:"_id,omitempty"`
	SessionID   string           `json:"session_id" bson:"sessionId"`
	CompanyID   string           `json:"company_id" bson:"companyId"`
	UserID      string           `json:"user_id" bson:"userId"`
	Responses   []ResponseRecord `json:"responses" bson:"responses"`
	SubmittedAt time.Time        `json:"submitted_at" bson:"submittedAt"`
}

// SubmissionReceipt is returned by a sink after accepting a payload
type SubmissionReceipt struct {
	ID          string    `json:"id,omitempty"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmissionResult is returned to the client after a successful submit
type SubmissionResult struct {
	SessionID string             `json:"session_id"`
	Receipt   *SubmissionReceipt `json:"receipt"`
	Payload   *SubmissionPayload `json:"payload"`
	Report    *ScoreReport       `json:"report,omitempty"`
}
