package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// QuestionType is the question_type tag carried by every catalog item
type QuestionType string

const (
	QuestionTypeThreeLevel QuestionType = "three_level"
	QuestionTypeFourLevel  QuestionType = "four_level"
	QuestionTypeFiveLevel  QuestionType = "five_level"
	QuestionTypeFiveChoice QuestionType = "five_choice"
)

// AnswerKind is the update rule family a question type belongs to
type AnswerKind int

const (
	SingleChoice AnswerKind = iota // mutually exclusive levels
	MultiChoice                    // independently toggleable choices
)

func (k AnswerKind) String() string {
	if k == MultiChoice {
		return "multi_choice"
	}
	return "single_choice"
}

// Kind maps a question type to its answer kind. Only five_choice is
// multi-select; every other type, known or not, is a single level pick.
func (t QuestionType) Kind() AnswerKind {
	if t == QuestionTypeFiveChoice {
		return MultiChoice
	}
	return SingleChoice
}

// LevelOption is one selectable level of a single-choice question
type LevelOption struct {
	LevelNo int    `json:"level_no" bson:"levelNo"`
	Label   string `json:"label" bson:"label"`
	Desc    string `json:"desc,omitempty" bson:"desc,omitempty"`
}

// ChoiceOption is one toggleable choice of a multi-choice question
type ChoiceOption struct {
	ID   int    `json:"id" bson:"id"`
	Text string `json:"text" bson:"text"`
}

// Question is one assessment item. Levels is populated for single-choice
// types and Choices for multi-choice types, never both.
type Question struct {
	ID       int            `json:"id" bson:"_id"`
	Text     string         `json:"question_text" bson:"questionText"`
	Type     QuestionType   `json:"question_type" bson:"questionType"`
	Levels   []LevelOption  `json:"-" bson:"levels,omitempty"`
	Choices  []ChoiceOption `json:"-" bson:"choices,omitempty"`
	Category string         `json:"category,omitempty" bson:"category,omitempty"`
	Weight   float64        `json:"weight" bson:"weight"`
}

// OptionIDs returns the identifiers a valid answer may use, in display order
func (q *Question) OptionIDs() []int {
	if q.Type.Kind() == MultiChoice {
		ids := make([]int, len(q.Choices))
		for i, c := range q.Choices {
			ids[i] = c.ID
		}
		return ids
	}
	ids := make([]int, len(q.Levels))
	for i, l := range q.Levels {
		ids[i] = l.LevelNo
	}
	return ids
}

// HasOption reports whether value identifies one of the question's options
func (q *Question) HasOption(value int) bool {
	for _, id := range q.OptionIDs() {
		if id == value {
			return true
		}
	}
	return false
}

type questionJSON struct {
	ID       int             `json:"id"`
	Text     string          `json:"question_text"`
	Type     QuestionType    `json:"question_type"`
	Choices  json.RawMessage `json:"choices,omitempty"`
	Category string          `json:"category,omitempty"`
	Weight   float64         `json:"weight"`
}

// MarshalJSON emits the wire shape with options under "choices"
func (q Question) MarshalJSON() ([]byte, error) {
	var choices interface{}
	if q.Type.Kind() == MultiChoice {
		choices = q.Choices
	} else {
		choices = q.Levels
	}
	raw, err := json.Marshal(choices)
	if err != nil {
		return nil, err
	}
	return json.Marshal(questionJSON{
		ID:       q.ID,
		Text:     q.Text,
		Type:     q.Type,
		Choices:  raw,
		Category: q.Category,
		Weight:   q.Weight,
	})
}

// UnmarshalJSON decodes "choices" according to question_type
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw questionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	levels, choices, err := DecodeOptions(raw.Type, raw.Choices)
	if err != nil {
		return fmt.Errorf("question %d: %w", raw.ID, err)
	}
	*q = Question{
		ID:       raw.ID,
		Text:     raw.Text,
		Type:     raw.Type,
		Levels:   levels,
		Choices:  choices,
		Category: raw.Category,
		Weight:   raw.Weight,
	}
	return nil
}

// legacyLevel is the keyed form {"0": {"text": ..., "score": 0}} some
// catalogs still store for level questions.
type legacyLevel struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Desc  string `json:"desc"`
	Score *int   `json:"score"`
}

// DecodeOptions parses a raw choices document for the given question type.
// Level types accept either an array of {level_no, label, desc} or the keyed
// legacy object; five_choice accepts an array of {id, text}.
func DecodeOptions(t QuestionType, raw json.RawMessage) ([]LevelOption, []ChoiceOption, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil, nil
	}

	if t.Kind() == MultiChoice {
		var choices []ChoiceOption
		if err := json.Unmarshal(raw, &choices); err != nil {
			return nil, nil, fmt.Errorf("decode choices: %w", err)
		}
		return nil, choices, nil
	}

	var levels []LevelOption
	if err := json.Unmarshal(raw, &levels); err == nil {
		return levels, nil, nil
	}

	var keyed map[string]legacyLevel
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, nil, fmt.Errorf("decode levels: %w", err)
	}
	for key, l := range keyed {
		no, err := strconv.Atoi(key)
		if err != nil {
			if l.Score == nil {
				return nil, nil, fmt.Errorf("decode levels: non-numeric level key %q", key)
			}
			no = *l.Score
		}
		label := l.Label
		if label == "" {
			label = l.Text
		}
		levels = append(levels, LevelOption{LevelNo: no, Label: label, Desc: l.Desc})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].LevelNo < levels[j].LevelNo })
	return levels, nil, nil
}

// KesgItem is a catalog row as served by the kesg endpoint
type KesgItem struct {
	ID           int             `json:"id"`
	ItemName     string          `json:"item_name"`
	QuestionText string          `json:"question_text,omitempty"`
	QuestionType QuestionType    `json:"question_type,omitempty"`
	Choices      json.RawMessage `json:"choices,omitempty"`
	Category     string          `json:"category,omitempty"`
	Weight       *float64        `json:"weight,omitempty"`
}

const (
	DefaultQuestionType = QuestionTypeThreeLevel
	DefaultCategory     = "self-assessment"
)

// ToQuestion converts a kesg row into a catalog question, applying the
// defaults used when a row leaves type, category or weight empty.
func (it KesgItem) ToQuestion() (Question, error) {
	t := it.QuestionType
	if t == "" {
		t = DefaultQuestionType
	}
	text := it.ItemName
	if text == "" {
		text = it.QuestionText
	}
	category := it.Category
	if category == "" {
		category = DefaultCategory
	}
	weight := 1.0
	if it.Weight != nil {
		weight = *it.Weight
	}

	levels, choices, err := DecodeOptions(t, it.Choices)
	if err != nil {
		return Question{}, fmt.Errorf("kesg item %d: %w", it.ID, err)
	}
	return Question{
		ID:       it.ID,
		Text:     text,
		Type:     t,
		Levels:   levels,
		Choices:  choices,
		Category: category,
		Weight:   weight,
	}, nil
}

// KesgResponse is the body of the catalog listing endpoint
type KesgResponse struct {
	Items      []Question `json:"items"`
	TotalCount int        `json:"total_count"`
	Source     string     `json:"source,omitempty"`
}
