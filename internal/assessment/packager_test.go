package assessment

import (
	"errors"
	"testing"

	"esgcheck/internal/model"
)

func TestBuildPayloadScenario(t *testing.T) {
	questions := scenarioCatalog()
	state := model.ResponseState{}

	ApplyAnswer(state, 1, 2, model.QuestionTypeFourLevel)
	ApplyAnswer(state, 2, 10, model.QuestionTypeFiveChoice)
	ApplyAnswer(state, 2, 11, model.QuestionTypeFiveChoice)

	if !IsComplete(questions, state) {
		t.Fatal("expected complete state")
	}

	payload, err := BuildPayload(questions, state, "sample_company")
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	if payload.CompanyID != "sample_company" {
		t.Fatalf("company = %q", payload.CompanyID)
	}
	if len(payload.Responses) != 2 {
		t.Fatalf("got %d records, want 2", len(payload.Responses))
	}

	r1 := payload.Responses[0]
	if r1.QuestionID != 1 || r1.QuestionType != model.QuestionTypeFourLevel || r1.LevelID == nil || *r1.LevelID != 2 || r1.ChoiceIDs != nil {
		t.Fatalf("record 1 = %+v", r1)
	}

	r2 := payload.Responses[1]
	if r2.QuestionID != 2 || r2.QuestionType != model.QuestionTypeFiveChoice || r2.LevelID != nil {
		t.Fatalf("record 2 = %+v", r2)
	}
	seen := map[int]int{}
	for _, id := range r2.ChoiceIDs {
		seen[id]++
	}
	if len(r2.ChoiceIDs) != 2 || seen[10] != 1 || seen[11] != 1 {
		t.Fatalf("choice ids = %v, want 10 and 11 once each", r2.ChoiceIDs)
	}
}

func TestBuildPayloadExactlyOneValueField(t *testing.T) {
	questions := []model.Question{
		{ID: 5, Type: model.QuestionTypeFiveChoice, Choices: []model.ChoiceOption{{ID: 3}, {ID: 1}, {ID: 2}}},
		{ID: 6, Type: model.QuestionTypeThreeLevel, Levels: levels(3)},
		{ID: 7, Type: model.QuestionType("custom_scale"), Levels: levels(2)},
	}
	state := model.ResponseState{}
	ApplyAnswer(state, 5, 3, model.QuestionTypeFiveChoice)
	ApplyAnswer(state, 5, 1, model.QuestionTypeFiveChoice)
	ApplyAnswer(state, 6, 0, model.QuestionTypeThreeLevel)
	ApplyAnswer(state, 7, 1, model.QuestionType("custom_scale"))

	payload, err := BuildPayload(questions, state, "acme")
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}
	for i, rec := range payload.Responses {
		hasLevel := rec.LevelID != nil
		hasChoices := rec.ChoiceIDs != nil
		if hasLevel == hasChoices {
			t.Fatalf("record %d has level=%v choices=%v", i, hasLevel, hasChoices)
		}
		wantChoices := questions[i].Type.Kind() == model.MultiChoice
		if hasChoices != wantChoices {
			t.Fatalf("record %d value field does not match type %s", i, rec.QuestionType)
		}
	}
	if got := payload.Responses[0].ChoiceIDs; got[0] != 1 || got[1] != 3 {
		t.Fatalf("choice ids not sorted: %v", got)
	}
}

func TestBuildPayloadIsSnapshot(t *testing.T) {
	questions := scenarioCatalog()
	state := model.ResponseState{}
	ApplyAnswer(state, 1, 2, model.QuestionTypeFourLevel)
	ApplyAnswer(state, 2, 10, model.QuestionTypeFiveChoice)

	payload, err := BuildPayload(questions, state, "acme")
	if err != nil {
		t.Fatalf("BuildPayload: %v", err)
	}

	ApplyAnswer(state, 1, 0, model.QuestionTypeFourLevel)
	ApplyAnswer(state, 2, 11, model.QuestionTypeFiveChoice)

	if *payload.Responses[0].LevelID != 2 {
		t.Fatalf("payload level changed to %d", *payload.Responses[0].LevelID)
	}
	if len(payload.Responses[1].ChoiceIDs) != 1 {
		t.Fatalf("payload choices changed to %v", payload.Responses[1].ChoiceIDs)
	}
}

func TestBuildPayloadRejectsIncompleteState(t *testing.T) {
	questions := scenarioCatalog()
	state := model.ResponseState{}
	ApplyAnswer(state, 1, 2, model.QuestionTypeFourLevel)

	_, err := BuildPayload(questions, state, "acme")
	if !errors.Is(err, ErrIncompleteSubmission) {
		t.Fatalf("err = %v, want ErrIncompleteSubmission", err)
	}
	var inc *IncompleteError
	if !errors.As(err, &inc) {
		t.Fatalf("err is %T, want *IncompleteError", err)
	}
	if inc.Answered != 1 || inc.Total != 2 || len(inc.Unanswered) != 1 || inc.Unanswered[0] != 2 {
		t.Fatalf("incomplete detail = %+v", inc)
	}
}
