package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"esgcheck/internal/db"
	"esgcheck/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestKesgRepoListPicksColumnByType(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	_, err := conn.ExecContext(ctx, `INSERT INTO kesg (id, item_name, question_type, levels_json, choices_json) VALUES
		(2, 'Certifications held', 'five_choice', NULL, '[{"id":10,"text":"ISO 14001"},{"id":11,"text":"SA8000"}]'),
		(1, 'Supplier code of conduct', 'three_level', '[{"level_no":0,"label":"no"},{"level_no":1,"label":"partly"},{"level_no":2,"label":"yes"}]', NULL),
		(3, 'Audit coverage', NULL, '{"0":{"text":"none","score":0},"1":{"text":"some","score":1}}', NULL)`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	questions, err := NewKesgRepo(conn).ListQuestions(ctx)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("got %d questions", len(questions))
	}
	for i, want := range []int{1, 2, 3} {
		if questions[i].ID != want {
			t.Fatalf("questions not ordered by id: %d at %d", questions[i].ID, i)
		}
	}
	if len(questions[0].Levels) != 3 || questions[0].Category != model.DefaultCategory || questions[0].Weight != 1 {
		t.Fatalf("question 1 = %+v", questions[0])
	}
	if len(questions[1].Choices) != 2 || questions[1].Levels != nil {
		t.Fatalf("question 2 = %+v", questions[1])
	}
	if questions[2].Type != model.DefaultQuestionType || len(questions[2].Levels) != 2 {
		t.Fatalf("question 3 = %+v", questions[2])
	}
}

func TestKesgRepoUpsertAndGet(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	repo := NewKesgRepo(conn)

	in := &model.Question{
		ID:       5,
		Text:     "Risk categories covered",
		Type:     model.QuestionTypeFiveChoice,
		Choices:  []model.ChoiceOption{{ID: 1, Text: "Human rights"}, {ID: 2, Text: "Environment"}},
		Category: "Governance",
		Weight:   2,
	}
	if err := repo.Upsert(ctx, in); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.GetQuestion(ctx, 5)
	if err != nil {
		t.Fatalf("GetQuestion: %v", err)
	}
	if got == nil || got.Text != in.Text || len(got.Choices) != 2 || got.Weight != 2 || got.Category != "Governance" {
		t.Fatalf("got %+v", got)
	}

	in.Text = "Risk categories covered by the policy"
	if err := repo.Upsert(ctx, in); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if got, _ := repo.GetQuestion(ctx, 5); got == nil || got.Text != in.Text {
		t.Fatalf("upsert did not update row: %+v", got)
	}

	missing, err := repo.GetQuestion(ctx, 42)
	if err != nil || missing != nil {
		t.Fatalf("missing question = %+v, %v", missing, err)
	}
}
