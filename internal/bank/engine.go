package bank

import (
	"context"
	"fmt"

	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/store"
)

// Source is the subset of the question repository the engine reads.
type Source interface {
	Query(ctx context.Context, opts store.QueryOpts) ([]quiz.StoredRecord, error)
	Count(ctx context.Context, opts store.QueryOpts) (int, error)
}

// Engine answers filtered bank selections.
type Engine struct {
	src Source
}

func NewEngine(src Source) *Engine {
	return &Engine{src: src}
}

// Query returns the records matching f, most recently created first.
// Level and section narrow the indexed scan; the full predicate runs on
// the candidates.
func (e *Engine) Query(ctx context.Context, f Filter) ([]quiz.StoredRecord, error) {
	recs, err := e.src.Query(ctx, store.QueryOpts{
		Level:   f.Level,
		Section: f.Section,
		Match:   Build(f),
	})
	if err != nil {
		return nil, fmt.Errorf("bank query %s: %w", f, err)
	}
	return recs, nil
}

// TopicStats summarizes the bank contents for one topic.
type TopicStats struct {
	Topic   quiz.Topic
	Total   int
	Correct int
}

// Incorrect is the number of records not answered correctly last time.
func (s TopicStats) Incorrect() int {
	return s.Total - s.Correct
}

// Stats returns per-topic totals for every topic with at least one record,
// ordered by level then section.
func (e *Engine) Stats(ctx context.Context) ([]TopicStats, error) {
	correct := true
	var out []TopicStats
	for _, l := range quiz.Levels {
		for _, s := range quiz.Sections {
			opts := store.QueryOpts{Level: l, Section: s}
			total, err := e.src.Count(ctx, opts)
			if err != nil {
				return nil, fmt.Errorf("count %s/%s: %w", l, s, err)
			}
			if total == 0 {
				continue
			}
			opts.Correct = &correct
			n, err := e.src.Count(ctx, opts)
			if err != nil {
				return nil, fmt.Errorf("count %s/%s: %w", l, s, err)
			}
			out = append(out, TopicStats{
				Topic:   quiz.Topic{Level: l, Section: s},
				Total:   total,
				Correct: n,
			})
		}
	}
	return out, nil
}
