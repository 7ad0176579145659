// Package catalog loads the assessment question catalog. A failing or empty
// primary source is replaced by the built-in fallback catalog so sessions
// can always be answered.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"

	"esgcheck/internal/model"
)

var ErrEmptyCatalog = errors.New("catalog has no questions")

// Source produces the question catalog in display order
type Source interface {
	ListQuestions(ctx context.Context) ([]model.Question, error)
}

// Cache stores the last catalog loaded from the primary source
type Cache interface {
	GetCatalog(ctx context.Context) ([]model.Question, error)
	SetCatalog(ctx context.Context, questions []model.Question) error
}

// Catalog is a loaded, validated question list and where it came from
type Catalog struct {
	Questions []model.Question
	Source    model.CatalogSource
}

// Find returns the question with the given id
func (c *Catalog) Find(id int) (*model.Question, bool) {
	for i := range c.Questions {
		if c.Questions[i].ID == id {
			return &c.Questions[i], true
		}
	}
	return nil, false
}

// Loader reads the primary source and falls back on failure
type Loader struct {
	primary  Source
	cache    Cache
	fallback []model.Question
}

// NewLoader creates a loader over primary. A nil primary always serves the
// fallback catalog. cache may be nil.
func NewLoader(primary Source, cache Cache) *Loader {
	return &Loader{
		primary:  primary,
		cache:    cache,
		fallback: Fallback(),
	}
}

// WithFallback replaces the built-in fallback catalog
func (l *Loader) WithFallback(questions []model.Question) *Loader {
	l.fallback = questions
	return l
}

// Load returns the catalog. Primary source errors, empty results and
// invalid catalogs are logged and answered with the fallback catalog; Load
// only fails if the fallback itself is unusable.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	questions, err := l.loadPrimary(ctx)
	if err == nil {
		return &Catalog{Questions: questions, Source: model.CatalogPrimary}, nil
	}
	log.Printf("[Catalog] primary source unavailable, using fallback catalog: %v", err)

	if err := Validate(l.fallback); err != nil {
		return nil, fmt.Errorf("fallback catalog invalid: %w", err)
	}
	return &Catalog{Questions: cloneQuestions(l.fallback), Source: model.CatalogFallback}, nil
}

func (l *Loader) loadPrimary(ctx context.Context) ([]model.Question, error) {
	if l.primary == nil {
		return nil, errors.New("no primary source configured")
	}

	if l.cache != nil {
		cached, err := l.cache.GetCatalog(ctx)
		if err != nil {
			log.Printf("[Catalog] cache read failed: %v", err)
		} else if len(cached) > 0 && Validate(cached) == nil {
			return cached, nil
		}
	}

	questions, err := l.primary.ListQuestions(ctx)
	if err != nil {
		return nil, err
	}
	if err := Validate(questions); err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.SetCatalog(ctx, questions); err != nil {
			log.Printf("[Catalog] cache write failed: %v", err)
		}
	}
	log.Printf("[Catalog] loaded %d questions from primary source", len(questions))
	return questions, nil
}

// Validate checks catalog invariants: at least one question, unique ids,
// and every question with a non-empty, duplicate-free option list.
func Validate(questions []model.Question) error {
	if len(questions) == 0 {
		return ErrEmptyCatalog
	}
	ids := make(map[int]bool, len(questions))
	for _, q := range questions {
		if ids[q.ID] {
			return fmt.Errorf("duplicate question id %d", q.ID)
		}
		ids[q.ID] = true

		opts := q.OptionIDs()
		if len(opts) == 0 {
			return fmt.Errorf("question %d (%s) has no options", q.ID, q.Type)
		}
		seen := make(map[int]bool, len(opts))
		for _, o := range opts {
			if seen[o] {
				return fmt.Errorf("question %d has duplicate option %d", q.ID, o)
			}
			seen[o] = true
		}
	}
	return nil
}

func cloneQuestions(in []model.Question) []model.Question {
	out := make([]model.Question, len(in))
	for i, q := range in {
		q.Levels = append([]model.LevelOption(nil), q.Levels...)
		q.Choices = append([]model.ChoiceOption(nil), q.Choices...)
		out[i] = q
	}
	return out
}
