package catalog

import (
	_ "embed"
	"encoding/json"

	"esgcheck/internal/model"
)

//go:embed fallback_catalog.json
var fallbackJSON []byte

// Fallback returns a fresh copy of the built-in supply-chain due diligence
// catalog used when the primary source cannot be read.
func Fallback() []model.Question {
	var questions []model.Question
	if err := json.Unmarshal(fallbackJSON, &questions); err != nil {
		panic("catalog: embedded fallback catalog is malformed: " + err.Error())
	}
	return questions
}
