// Package questiongen produces JLPT multiple-choice questions, either from
// an LLM directly or from a running kotoba question service.
package questiongen

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/kotoba/internal/quiz"
)

// Count limits for one request.
const (
	MinCount = 1
	MaxCount = 50
)

// ErrNoQuestions is returned when a source produced nothing usable.
var ErrNoQuestions = errors.New("no valid questions generated")

// Request describes a batch of questions to produce.
type Request struct {
	Topic quiz.Topic
	Count int

	// Scope narrows the grammar points covered, e.g. "助詞". Empty or
	// ScopeAll means no restriction.
	Scope string
}

// Validate checks the request bounds.
func (r Request) Validate() error {
	if r.Topic.Level == "" {
		return errors.New("level is required")
	}
	if r.Count < MinCount || r.Count > MaxCount {
		return fmt.Errorf("count must be between %d and %d, got %d", MinCount, MaxCount, r.Count)
	}
	return nil
}

// Source produces questions.
type Source interface {
	Fetch(ctx context.Context, req Request) ([]quiz.Question, error)
}

// Records wraps fetched questions as unanswered records of req's topic.
func Records(req Request, qs []quiz.Question) []quiz.Record {
	recs := make([]quiz.Record, len(qs))
	for i, q := range qs {
		recs[i] = quiz.Record{Topic: req.Topic, Question: q}
	}
	return recs
}
