// Package assessment holds the questionnaire response engine: per-question
// answer updates, completion tracking and submission packaging. It is pure
// in-memory logic and knows nothing about storage or transport.
package assessment

import (
	"sort"

	"esgcheck/internal/model"
)

// ApplyAnswer records value for questionID using the update rule of
// questionType. Multi-choice values toggle in and out of the stored set;
// single-choice values replace whatever was stored. Only the entry for
// questionID changes. Ids are not checked against any catalog.
func ApplyAnswer(state model.ResponseState, questionID, value int, questionType model.QuestionType) {
	if questionType.Kind() == model.MultiChoice {
		state[questionID] = model.Answer{ChoiceIDs: toggle(state[questionID].ChoiceIDs, value)}
		return
	}
	v := value
	state[questionID] = model.Answer{LevelID: &v}
}

// toggle returns a new slice with value removed if present, appended otherwise
func toggle(current []int, value int) []int {
	next := make([]int, 0, len(current)+1)
	found := false
	for _, c := range current {
		if c == value {
			found = true
			continue
		}
		next = append(next, c)
	}
	if !found {
		next = append(next, value)
	}
	return next
}

// IsAnswered reports whether q has a usable answer in state
func IsAnswered(q *model.Question, state model.ResponseState) bool {
	a, ok := state[q.ID]
	if !ok {
		return false
	}
	if q.Type.Kind() == model.MultiChoice {
		return len(a.ChoiceIDs) > 0
	}
	return a.LevelID != nil
}

// CompletionCount counts the catalog questions answered in state. It is
// recomputed from scratch on every call.
func CompletionCount(questions []model.Question, state model.ResponseState) int {
	n := 0
	for i := range questions {
		if IsAnswered(&questions[i], state) {
			n++
		}
	}
	return n
}

// IsComplete reports whether every catalog question is answered
func IsComplete(questions []model.Question, state model.ResponseState) bool {
	return CompletionCount(questions, state) == len(questions)
}

// ProgressOf returns the completion summary of state over questions
func ProgressOf(questions []model.Question, state model.ResponseState) model.Progress {
	answered := CompletionCount(questions, state)
	return model.Progress{
		Answered: answered,
		Total:    len(questions),
		Complete: answered == len(questions),
	}
}

// Unanswered lists the ids of catalog questions still missing an answer
func Unanswered(questions []model.Question, state model.ResponseState) []int {
	var ids []int
	for i := range questions {
		if !IsAnswered(&questions[i], state) {
			ids = append(ids, questions[i].ID)
		}
	}
	return ids
}

func sortedCopy(ids []int) []int {
	out := append([]int(nil), ids...)
	sort.Ints(out)
	return out
}
