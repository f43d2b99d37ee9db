package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/quiz"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(level quiz.Level, section quiz.Section, prompt string) quiz.Record {
	return quiz.Record{
		Topic: quiz.Topic{Level: level, Section: section},
		Question: quiz.Question{
			Prompt:        prompt,
			Options:       []string{"は", "が", "を", "に"},
			CorrectAnswer: "が",
			Explanation:   "主語を示す助詞。",
		},
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not checked here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range Tables {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table.Name,
		).Scan(&name)
		require.NoError(t, err, "table %s", table.Name)
		assert.Equal(t, table.Name, name)
	}
}

func TestWithConnParams(t *testing.T) {
	got := withConnParams("/tmp/kotoba.db")
	assert.True(t, strings.HasPrefix(got, "/tmp/kotoba.db?"))
	assert.Contains(t, got, "_pragma=foreign_keys(1)")
	assert.Contains(t, got, "_time_format=sqlite")

	got = withConnParams("file:x?mode=memory&_pragma=busy_timeout(100)")
	assert.Equal(t, 1, strings.Count(got, "busy_timeout"))
	assert.Contains(t, got, "mode=memory&")
}

func TestQuestionAddGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	rec := sampleRecord(quiz.LevelN3, quiz.SectionGrammar, "雨___降っている。")
	id, err := repo.Add(ctx, rec)
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, rec.Topic, got.Topic)
	assert.Equal(t, rec.Question, got.Question)
	assert.Nil(t, got.LastCorrectAt)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestQuestionAddRequiresTopic(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Questions().Add(context.Background(), quiz.Record{})
	require.Error(t, err)
}

func TestQuestionIDsAreNotReused(t *testing.T) {
	s := openTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	first, err := repo.Add(ctx, sampleRecord(quiz.LevelN5, quiz.SectionVocabulary, "a"))
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, first))

	second, err := repo.Add(ctx, sampleRecord(quiz.LevelN5, quiz.SectionVocabulary, "b"))
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestQuestionGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Questions().Get(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
	assert.True(t, IsNotFound(err))
}

func TestQuestionDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	id, err := repo.Add(ctx, sampleRecord(quiz.LevelN2, quiz.SectionGrammar, "q"))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestionPutPreservesCreatedAt(t *testing.T) {
	s := openTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	repo.now = func() time.Time { return base }

	id, err := repo.Add(ctx, sampleRecord(quiz.LevelN3, quiz.SectionGrammar, "q"))
	require.NoError(t, err)
	before, err := repo.Get(ctx, id)
	require.NoError(t, err)

	correctAt := base.Add(time.Hour)
	graded := *before
	graded.Record = graded.Record.Graded(true, correctAt)
	require.NoError(t, repo.Put(ctx, graded))

	after, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, after.LastCorrectAt)
	assert.True(t, correctAt.Equal(*after.LastCorrectAt))
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))

	graded.Record = graded.Record.Graded(false, correctAt)
	require.NoError(t, repo.Put(ctx, graded))
	after, err = repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, after.LastCorrectAt)
}

func TestQuestionPutMissing(t *testing.T) {
	s := openTestStore(t)
	err := s.Questions().Put(context.Background(), quiz.StoredRecord{
		Record: sampleRecord(quiz.LevelN1, quiz.SectionGrammar, "q"),
		ID:     99,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuestionQueryOrderAndFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.Questions()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	correct := base
	seed := []quiz.Record{
		sampleRecord(quiz.LevelN3, quiz.SectionGrammar, "A"),
		sampleRecord(quiz.LevelN3, quiz.SectionVocabulary, "B"),
		sampleRecord(quiz.LevelN3, quiz.SectionGrammar, "C"),
		sampleRecord(quiz.LevelN4, quiz.SectionGrammar, "D"),
	}
	seed[2].LastCorrectAt = &correct
	for _, rec := range seed {
		_, err := repo.Add(ctx, rec)
		require.NoError(t, err)
	}

	prompts := func(recs []quiz.StoredRecord) []string {
		var out []string
		for _, r := range recs {
			out = append(out, r.Question.Prompt)
		}
		return out
	}

	all, err := repo.Query(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "C", "B", "A"}, prompts(all))

	n3g, err := repo.Query(ctx, QueryOpts{Level: quiz.LevelN3, Section: quiz.SectionGrammar})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A"}, prompts(n3g))

	no := false
	incorrect, err := repo.Query(ctx, QueryOpts{Level: quiz.LevelN3, Section: quiz.SectionGrammar, Correct: &no})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, prompts(incorrect))

	yes := true
	n, err := repo.Count(ctx, QueryOpts{Correct: &yes})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	limited, err := repo.Query(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "C"}, prompts(limited))

	matched, err := repo.Query(ctx, QueryOpts{
		Limit: 1,
		Match: func(r *quiz.StoredRecord) bool { return r.Level == quiz.LevelN3 },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, prompts(matched))

	total, err := repo.Count(ctx, QueryOpts{Level: quiz.LevelN3})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestQuestionQueryEmpty(t *testing.T) {
	s := openTestStore(t)
	recs, err := s.Questions().Query(context.Background(), QueryOpts{Level: quiz.LevelN1})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestWriteErrorUnwraps(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := writeErr("add question", cause)

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, "add question", we.Op)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, writeErr("noop", nil))
}

func TestWriteFailureOnClosedStore(t *testing.T) {
	s := openTestStore(t)
	repo := s.Questions()
	require.NoError(t, s.Close())

	_, err := repo.Add(context.Background(), sampleRecord(quiz.LevelN3, quiz.SectionGrammar, "q"))
	var we *WriteError
	assert.ErrorAs(t, err, &we)
}
