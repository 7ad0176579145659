// Package report scores a finished assessment by category. Category and
// weight are catalog metadata; the answer engine never looks at them.
package report

import (
	"math"

	"esgcheck/internal/model"
)

const (
	excellentThreshold = 80
	fairThreshold      = 60
)

// StatusOf buckets a 0-100 score
func StatusOf(score float64) model.ScoreStatus {
	switch {
	case score >= excellentThreshold:
		return model.ScoreExcellent
	case score >= fairThreshold:
		return model.ScoreFair
	}
	return model.ScoreRisk
}

// QuestionScore returns the answer's share of the question's maximum, in
// [0, 1]. A level answer scores by the position of the chosen level in the
// question's level list; a choice answer by the fraction of choices picked.
// Unknown levels and choices score nothing.
func QuestionScore(q *model.Question, a model.Answer) float64 {
	if q.Type.Kind() == model.MultiChoice {
		if len(q.Choices) == 0 {
			return 0
		}
		picked := 0
		for _, id := range a.ChoiceIDs {
			if q.HasOption(id) {
				picked++
			}
		}
		return float64(picked) / float64(len(q.Choices))
	}

	if a.LevelID == nil || len(q.Levels) == 0 {
		return 0
	}
	lowest, highest := q.Levels[0].LevelNo, q.Levels[0].LevelNo
	for _, l := range q.Levels[1:] {
		lowest = min(lowest, l.LevelNo)
		highest = max(highest, l.LevelNo)
	}
	if !q.HasOption(*a.LevelID) {
		return 0
	}
	if highest == lowest {
		return 1
	}
	return float64(*a.LevelID-lowest) / float64(highest-lowest)
}

type bucket struct {
	weighted float64
	weight   float64
	count    int
}

// Score computes per-category and overall weighted scores. Categories keep
// the order of their first question in the catalog.
func Score(questions []model.Question, state model.ResponseState) (overall float64, categories []model.CategoryScore) {
	buckets := map[string]*bucket{}
	var order []string
	var total bucket

	for i := range questions {
		q := &questions[i]
		category := q.Category
		if category == "" {
			category = model.DefaultCategory
		}
		b, ok := buckets[category]
		if !ok {
			b = &bucket{}
			buckets[category] = b
			order = append(order, category)
		}

		weight := q.Weight
		if weight < 0 {
			weight = 0
		}
		s := QuestionScore(q, state[q.ID]) * weight
		b.weighted += s
		b.weight += weight
		b.count++
		total.weighted += s
		total.weight += weight
	}

	categories = make([]model.CategoryScore, 0, len(order))
	for _, name := range order {
		b := buckets[name]
		categories = append(categories, model.CategoryScore{
			Category:  name,
			Score:     percent(b),
			Weight:    b.weight,
			Questions: b.count,
		})
	}
	return percent(&total), categories
}

func percent(b *bucket) float64 {
	if b.weight == 0 {
		return 0
	}
	return math.Round(b.weighted/b.weight*1000) / 10
}
