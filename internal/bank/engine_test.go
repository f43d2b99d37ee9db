package bank

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:bank_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, repo *store.QuestionRepo, recs ...quiz.Record) {
	t.Helper()
	for _, r := range recs {
		_, err := repo.Add(context.Background(), r)
		require.NoError(t, err)
		// Distinct creation timestamps keep the ordering observable.
		time.Sleep(2 * time.Millisecond)
	}
}

func record(level quiz.Level, section quiz.Section, prompt string, correct bool) quiz.Record {
	r := quiz.Record{
		Topic: quiz.Topic{Level: level, Section: section},
		Question: quiz.Question{
			Prompt:        prompt,
			Options:       []string{"1", "2", "3", "4"},
			CorrectAnswer: "1",
			Explanation:   "-",
		},
	}
	if correct {
		now := time.Now()
		r.LastCorrectAt = &now
	}
	return r
}

func prompts(recs []quiz.StoredRecord) []string {
	out := []string{}
	for _, r := range recs {
		out = append(out, r.Question.Prompt)
	}
	return out
}

func TestEngineQuery(t *testing.T) {
	s := openStore(t)
	seed(t, s.Questions(),
		record(quiz.LevelN3, quiz.SectionGrammar, "A", false),
		record(quiz.LevelN3, quiz.SectionVocabulary, "B", false),
		record(quiz.LevelN3, quiz.SectionGrammar, "C", true),
	)
	e := NewEngine(s.Questions())
	ctx := context.Background()

	got, err := e.Query(ctx, Filter{Level: quiz.LevelN3, Section: quiz.SectionGrammar})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A"}, prompts(got))

	got, err = e.Query(ctx, Filter{Level: quiz.LevelN3, Section: quiz.SectionGrammar, Correctness: OnlyIncorrect})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, prompts(got))

	again, err := e.Query(ctx, Filter{Level: quiz.LevelN3, Section: quiz.SectionGrammar, Correctness: OnlyIncorrect})
	require.NoError(t, err)
	assert.Equal(t, got, again)

	got, err = e.Query(ctx, Filter{Level: quiz.LevelN1})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEngineStats(t *testing.T) {
	s := openStore(t)
	seed(t, s.Questions(),
		record(quiz.LevelN3, quiz.SectionGrammar, "A", false),
		record(quiz.LevelN3, quiz.SectionGrammar, "C", true),
		record(quiz.LevelN5, quiz.SectionVocabulary, "V", true),
	)
	stats, err := NewEngine(s.Questions()).Stats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, quiz.Topic{Level: quiz.LevelN3, Section: quiz.SectionGrammar}, stats[0].Topic)
	assert.Equal(t, 2, stats[0].Total)
	assert.Equal(t, 1, stats[0].Correct)
	assert.Equal(t, 1, stats[0].Incorrect())
	assert.Equal(t, quiz.LevelN5, stats[1].Topic.Level)
}

type failingSource struct{}

func (failingSource) Query(context.Context, store.QueryOpts) ([]quiz.StoredRecord, error) {
	return nil, errors.New("boom")
}

func (failingSource) Count(context.Context, store.QueryOpts) (int, error) {
	return 0, errors.New("boom")
}

func TestEngineErrors(t *testing.T) {
	e := NewEngine(failingSource{})
	_, err := e.Query(context.Background(), Filter{})
	assert.ErrorContains(t, err, "boom")
	_, err = e.Stats(context.Background())
	assert.ErrorContains(t, err, "boom")
}
