// Package revision drives practice and revision quizzes: it seeds the
// session, grades answers and keeps bank records in step with grading.
package revision

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/abhisek/kotoba/internal/bank"
	"github.com/abhisek/kotoba/internal/questiongen"
	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/savestate"
	"github.com/abhisek/kotoba/internal/session"
)

var (
	// ErrNothingToRevise is returned when a bank filter selects no records.
	ErrNothingToRevise = errors.New("no saved questions match the filter")

	// ErrNoActiveQuestion is returned when answering without a current slot.
	ErrNoActiveQuestion = errors.New("no question awaiting an answer")

	// ErrUnknownOption is returned for answers that are not one of the options.
	ErrUnknownOption = errors.New("answer is not one of the options")
)

// Flow coordinates one quiz session with the revision bank.
type Flow struct {
	sess   *session.Store
	bank   *bank.Engine
	saves  *savestate.Controller
	source questiongen.Source
	now    func() time.Time
}

// New creates a flow. source may be nil when only revision is used.
func New(sess *session.Store, b *bank.Engine, saves *savestate.Controller, source questiongen.Source) *Flow {
	f := &Flow{sess: sess, bank: b, saves: saves, source: source, now: time.Now}
	f.track()
	return f
}

func (f *Flow) Session() *session.Store      { return f.sess }
func (f *Flow) Saves() *savestate.Controller { return f.saves }
func (f *Flow) Source() questiongen.Source   { return f.source }

// StartRevision seeds the session with the bank records selected by filter.
// Each slot keeps its bank id so the record can be regraded or unsaved.
func (f *Flow) StartRevision(ctx context.Context, filter bank.Filter) (int, error) {
	recs, err := f.bank.Query(ctx, filter)
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, fmt.Errorf("%s: %w", filter, ErrNothingToRevise)
	}

	states := make([]session.QuestionState, len(recs))
	for i, r := range recs {
		id := r.ID
		states[i] = session.QuestionState{ID: &id, QuestionData: r.Record}
	}
	err = f.sess.StartWithStates(ctx, states)
	f.track()
	return len(states), err
}

// StartPractice fetches new questions for topic and starts a quiz on them.
func (f *Flow) StartPractice(ctx context.Context, topic quiz.Topic, count int, scope string) (int, error) {
	if f.source == nil {
		return 0, errors.New("no question source configured")
	}
	req := questiongen.Request{Topic: topic, Count: count, Scope: scope}
	qs, err := f.source.Fetch(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("fetch questions: %w", err)
	}
	err = f.sess.StartNewQuiz(ctx, questiongen.Records(req, qs))
	f.track()
	return len(qs), err
}

// Feedback describes a graded answer.
type Feedback struct {
	Sequence      int
	Selected      string
	Correct       bool
	CorrectAnswer string
	Explanation   string
	Done          bool
}

// Answer grades option against the current question, records the result
// and advances. When the slot is saved in the bank the graded record is
// written back. Storage failures are returned alongside valid feedback;
// the in-memory session has already moved on.
func (f *Flow) Answer(ctx context.Context, option string) (Feedback, error) {
	cur, ok := f.sess.Current()
	if !ok {
		return Feedback{}, ErrNoActiveQuestion
	}
	q := cur.QuestionData.Question
	if !slices.Contains(q.Options, option) {
		return Feedback{}, fmt.Errorf("%q: %w", option, ErrUnknownOption)
	}

	correct := q.IsCorrect(option)
	delta := 0
	if correct {
		delta = 1
	}
	answered := cur
	answered.Answer = option
	answered.QuestionData = cur.QuestionData.Graded(correct, f.now())

	var errs []error
	if err := f.sess.AnswerCurrentAndAdvance(ctx, answered, delta); err != nil {
		errs = append(errs, err)
	}
	f.saves.Refresh(answered.Sequence, answered.QuestionData)
	if answered.ID != nil {
		if err := f.saves.Resave(ctx, *answered.ID, answered.QuestionData); err != nil {
			errs = append(errs, err)
		}
	}

	return Feedback{
		Sequence:      answered.Sequence,
		Selected:      option,
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Done:          f.sess.HasNoMoreQuestions(),
	}, errors.Join(errs...)
}

// Results returns the session slots for the results screen. With
// onlyIncorrect, slots whose graded record has lastCorrectAt are left out.
func (f *Flow) Results(onlyIncorrect bool) []savestate.Slot {
	states := session.Filter(f.sess.Snapshot(), onlyIncorrect)
	slots := make([]savestate.Slot, len(states))
	for i, s := range states {
		slots[i] = savestate.Slot{Sequence: s.Sequence, Record: s.QuestionData, ID: s.ID}
	}
	return slots
}

// Reset discards the session.
func (f *Flow) Reset(ctx context.Context) error {
	err := f.sess.Reset(ctx)
	f.track()
	return err
}

// track registers every session slot with the save controller.
func (f *Flow) track() {
	f.saves.Track(f.Results(false)...)
}
