package assessment

import "esgcheck/internal/model"

// BuildPayload turns a complete response state into the submission payload,
// one record per question in catalog order. Callers must check IsComplete
// first; an incomplete state yields an *IncompleteError.
func BuildPayload(questions []model.Question, state model.ResponseState, companyID string) (*model.SubmissionPayload, error) {
	if !IsComplete(questions, state) {
		return nil, &IncompleteError{
			Answered:   CompletionCount(questions, state),
			Total:      len(questions),
			Unanswered: Unanswered(questions, state),
		}
	}

	records := make([]model.ResponseRecord, 0, len(questions))
	for _, q := range questions {
		a := state[q.ID]
		rec := model.ResponseRecord{
			QuestionID:   q.ID,
			QuestionType: q.Type,
		}
		if q.Type.Kind() == model.MultiChoice {
			rec.ChoiceIDs = sortedCopy(a.ChoiceIDs)
		} else {
			level := *a.LevelID
			rec.LevelID = &level
		}
		records = append(records, rec)
	}

	return &model.SubmissionPayload{
		CompanyID: companyID,
		Responses: records,
	}, nil
}
