package session

import (
	"github.com/abhisek/kotoba/internal/quiz"
)

// Phase is the lifecycle position of a quiz session.
type Phase int

const (
	PhaseIdle       Phase = iota // No questions loaded
	PhaseInProgress              // Some questions remain unanswered
	PhaseCompleted               // Every question has been answered
)

func (p Phase) String() string {
	switch p {
	case PhaseInProgress:
		return "in progress"
	case PhaseCompleted:
		return "completed"
	}
	return "idle"
}

// QuestionState is one slot of a quiz.
type QuestionState struct {
	// Sequence is the 1-based position in the quiz.
	Sequence int `json:"sequence"`

	// Answer is the selected option value, empty until answered.
	Answer string `json:"answer"`

	// ID references the revision bank record when the slot is saved.
	ID *int `json:"id,omitempty"`

	// QuestionData carries the question and its graded lastCorrectAt.
	QuestionData quiz.Record `json:"questionData"`
}

// Answered reports whether the learner has responded to this slot.
func (q QuestionState) Answered() bool {
	return q.Answer != ""
}

// Correct reports whether the recorded answer matches the correct option.
func (q QuestionState) Correct() bool {
	return q.QuestionData.Question.IsCorrect(q.Answer)
}

// Saved reports whether the slot references a bank record.
func (q QuestionState) Saved() bool {
	return q.ID != nil
}

func (q QuestionState) clone() QuestionState {
	if q.ID != nil {
		id := *q.ID
		q.ID = &id
	}
	if q.QuestionData.LastCorrectAt != nil {
		t := *q.QuestionData.LastCorrectAt
		q.QuestionData.LastCorrectAt = &t
	}
	q.QuestionData.Question.Options = append([]string(nil), q.QuestionData.Question.Options...)
	return q
}

// Session is the durable quiz document.
type Session struct {
	SessionID      string          `json:"sessionId,omitempty"`
	Topic          string          `json:"topic,omitempty"`
	Score          int             `json:"score"`
	CurrentIndex   int             `json:"currentIndex"`
	QuestionStates []QuestionState `json:"questionStates"`
}

// Phase derives the lifecycle phase from the document.
func (s Session) Phase() Phase {
	switch {
	case len(s.QuestionStates) == 0:
		return PhaseIdle
	case s.CurrentIndex >= len(s.QuestionStates):
		return PhaseCompleted
	}
	return PhaseInProgress
}

func (s Session) clone() Session {
	out := s
	out.QuestionStates = make([]QuestionState, len(s.QuestionStates))
	for i, q := range s.QuestionStates {
		out.QuestionStates[i] = q.clone()
	}
	return out
}

// validate checks the structural invariants of a loaded document.
func (s Session) validate() error {
	if s.Score < 0 {
		return errInvalid("negative score")
	}
	if s.CurrentIndex < 0 || s.CurrentIndex > len(s.QuestionStates) {
		return errInvalid("current index out of range")
	}
	for i, q := range s.QuestionStates {
		if q.Sequence != i+1 {
			return errInvalid("sequences are not contiguous")
		}
	}
	return nil
}
