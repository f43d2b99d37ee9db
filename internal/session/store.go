// Package session holds the active quiz and writes every change through to
// durable storage so a quiz survives restarts.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/store"
)

// Well-known storage keys.
const (
	KeyPractice = "practice"
	KeyRevision = "revision"
)

// ErrCorrupt is returned by Open when the stored document cannot be used.
// The returned Store is still valid and starts idle.
var ErrCorrupt = errors.New("corrupt session document")

func errInvalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, msg)
}

// Persister is the key-value storage a session is written through to.
type Persister interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}

// Store owns one quiz session. Reads are served from memory; mutations
// apply in memory first and are then persisted. A failed write is returned
// to the caller but the in-memory change is kept.
type Store struct {
	mu    sync.Mutex
	p     Persister
	key   string
	s     Session
	newID func() string
}

// Open loads the session stored under key. A missing entry yields an idle
// session.
func Open(ctx context.Context, p Persister, key string) (*Store, error) {
	st := &Store{p: p, key: key, newID: uuid.NewString}

	data, err := p.Load(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("load session %q: %w", key, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return st, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := s.validate(); err != nil {
		return st, err
	}
	st.s = s
	return st, nil
}

// Key returns the storage key.
func (st *Store) Key() string {
	return st.key
}

// StartNewQuiz replaces the session with fresh, unanswered slots for recs.
func (st *Store) StartNewQuiz(ctx context.Context, recs []quiz.Record) error {
	states := make([]QuestionState, len(recs))
	for i, r := range recs {
		states[i] = QuestionState{QuestionData: r}
	}
	return st.StartWithStates(ctx, states)
}

// StartWithStates replaces the session with the given slots, keeping their
// bank ids. Sequences are renumbered 1..n and answers cleared.
func (st *Store) StartWithStates(ctx context.Context, states []QuestionState) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	qs := make([]QuestionState, len(states))
	for i, s := range states {
		s = s.clone()
		s.Sequence = i + 1
		s.Answer = ""
		qs[i] = s
	}
	st.s = Session{
		SessionID:      st.newID(),
		Topic:          topicLabel(qs),
		QuestionStates: qs,
	}
	return st.persist(ctx)
}

// AnswerCurrentAndAdvance replaces the slot with the given sequence and
// advances the cursor by one, clamped to the session length. Unknown
// sequences and answers on a completed session are ignored.
func (st *Store) AnswerCurrentAndAdvance(ctx context.Context, answered QuestionState, delta int) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.s.Phase() != PhaseInProgress {
		return nil
	}
	i := st.indexOf(answered.Sequence)
	if i < 0 {
		return nil
	}

	// Only the first answer on a slot scores.
	if delta > 0 && !st.s.QuestionStates[i].Answered() {
		st.s.Score += delta
	}
	st.s.QuestionStates[i] = answered.clone()
	st.s.CurrentIndex = min(st.s.CurrentIndex+1, len(st.s.QuestionStates))
	return st.persist(ctx)
}

// UpdateRecordID sets or clears the bank id of a slot. Unknown sequences
// are ignored.
func (st *Store) UpdateRecordID(ctx context.Context, sequence int, id *int) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	i := st.indexOf(sequence)
	if i < 0 {
		return nil
	}
	if id == nil {
		st.s.QuestionStates[i].ID = nil
	} else {
		v := *id
		st.s.QuestionStates[i].ID = &v
	}
	return st.persist(ctx)
}

// Reset clears the session and removes its durable entry.
func (st *Store) Reset(ctx context.Context) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.s = Session{}
	if err := st.p.Delete(ctx, st.key); err != nil {
		return fmt.Errorf("reset session %q: %w", st.key, err)
	}
	return nil
}

// Current returns the slot awaiting an answer.
func (st *Store) Current() (QuestionState, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.s.Phase() != PhaseInProgress {
		return QuestionState{}, false
	}
	return st.s.QuestionStates[st.s.CurrentIndex].clone(), true
}

// HasNoMoreQuestions reports whether the current index is past the last slot.
func (st *Store) HasNoMoreQuestions() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.CurrentIndex >= len(st.s.QuestionStates)
}

func (st *Store) Score() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.Score
}

func (st *Store) Total() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.s.QuestionStates)
}

func (st *Store) Phase() Phase {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.Phase()
}

// Snapshot returns a deep copy of the session document.
func (st *Store) Snapshot() Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.clone()
}

func (st *Store) indexOf(sequence int) int {
	for i, q := range st.s.QuestionStates {
		if q.Sequence == sequence {
			return i
		}
	}
	return -1
}

func (st *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(st.s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := st.p.Save(ctx, st.key, data); err != nil {
		return fmt.Errorf("persist session %q: %w", st.key, err)
	}
	return nil
}

func topicLabel(states []QuestionState) string {
	if len(states) == 0 {
		return ""
	}
	first := states[0].QuestionData.Topic
	for _, s := range states[1:] {
		if s.QuestionData.Topic != first {
			return "mixed"
		}
	}
	return first.String()
}
