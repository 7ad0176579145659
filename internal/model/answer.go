package model

// Answer is the stored value for one question. LevelID is set for
// single-choice questions, ChoiceIDs for multi-choice questions.
type Answer struct {
	LevelID   *int  `json:"level_id,omitempty" bson:"levelId,omitempty"`
	ChoiceIDs []int `json:"choice_ids,omitempty" bson:"choiceIds,omitempty"`
}

// ResponseState maps question id to its current answer
type ResponseState map[int]Answer

// Clone returns a deep copy of the state
func (s ResponseState) Clone() ResponseState {
	out := make(ResponseState, len(s))
	for id, a := range s {
		c := Answer{}
		if a.LevelID != nil {
			v := *a.LevelID
			c.LevelID = &v
		}
		if a.ChoiceIDs != nil {
			c.ChoiceIDs = append([]int(nil), a.ChoiceIDs...)
		}
		out[id] = c
	}
	return out
}

// Progress summarizes completion of a response state against a catalog
type Progress struct {
	Answered int  `json:"answered"`
	Total    int  `json:"total"`
	Complete bool `json:"complete"`
}

// AnswerRequest is one user interaction: select a level or toggle a choice.
// QuestionType is only consulted for questions outside the session catalog.
// Value is a pointer so a missing value is not mistaken for level 0.
type AnswerRequest struct {
	QuestionID   int          `json:"question_id"`
	Value        *int         `json:"value"`
	QuestionType QuestionType `json:"question_type,omitempty"`
}
