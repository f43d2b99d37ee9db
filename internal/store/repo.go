package store

import (
	"context"
	"time"

	"github.com/abhisek/kotoba/internal/quiz"
)

// QueryOpts narrows a revision bank query. Zero values impose no constraint.
type QueryOpts struct {
	Level   quiz.Level
	Section quiz.Section

	// Correct selects records by whether lastCorrectAt is present.
	Correct *bool

	// Match is applied in memory after the indexed filters.
	Match func(*quiz.StoredRecord) bool

	Limit int // max results (0 = unlimited)
}

// EventQueryOpts configures LLM event queries.
type EventQueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match when non-empty
	From    time.Time
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a persisted LLM request row.
type LLMRequestEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides access to the LLM request log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts EventQueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a single event by ID, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
}
