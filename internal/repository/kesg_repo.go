package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"esgcheck/internal/model"
)

// KesgRepo reads the kesg self-assessment table
type KesgRepo interface {
	ListQuestions(ctx context.Context) ([]model.Question, error)
	GetQuestion(ctx context.Context, id int) (*model.Question, error)
	Upsert(ctx context.Context, q *model.Question) error
}

type kesgRepo struct {
	db *sql.DB
}

// NewKesgRepo creates a kesg repository over an open database
func NewKesgRepo(db *sql.DB) KesgRepo {
	return &kesgRepo{db: db}
}

const kesgColumns = `id, item_name, question_type, levels_json, choices_json, category, weight`

func (r *kesgRepo) ListQuestions(ctx context.Context) ([]model.Question, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+kesgColumns+` FROM kesg ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query kesg: %w", err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanKesg(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *kesgRepo) GetQuestion(ctx context.Context, id int) (*model.Question, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+kesgColumns+` FROM kesg WHERE id = $1`, id)
	q, err := scanKesg(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *kesgRepo) Upsert(ctx context.Context, q *model.Question) error {
	var levels, choices []byte
	var err error
	if q.Type.Kind() == model.MultiChoice {
		choices, err = json.Marshal(q.Choices)
	} else {
		levels, err = json.Marshal(q.Levels)
	}
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO kesg (`+kesgColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET item_name = excluded.item_name, question_type = excluded.question_type,
		 levels_json = excluded.levels_json, choices_json = excluded.choices_json, category = excluded.category, weight = excluded.weight`,
		q.ID, q.Text, string(q.Type), nullJSON(levels), nullJSON(choices), q.Category, q.Weight)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanKesg picks levels_json for level types and choices_json for
// five_choice, matching how the table stores the two variants.
func scanKesg(row rowScanner) (model.Question, error) {
	var (
		id                 int
		itemName           string
		questionType       sql.NullString
		levelsJSON, chJSON []byte
		category           sql.NullString
		weight             sql.NullFloat64
	)
	if err := row.Scan(&id, &itemName, &questionType, &levelsJSON, &chJSON, &category, &weight); err != nil {
		return model.Question{}, err
	}

	item := model.KesgItem{
		ID:           id,
		ItemName:     itemName,
		QuestionType: model.QuestionType(questionType.String),
		Category:     category.String,
	}
	if weight.Valid {
		w := weight.Float64
		item.Weight = &w
	}
	if item.QuestionType.Kind() == model.MultiChoice {
		item.Choices = chJSON
	} else {
		item.Choices = levelsJSON
	}
	return item.ToQuestion()
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
