package savestate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/store"
)

type fakeWriter struct {
	nextID    int
	records   map[int]quiz.Record
	addErr    error
	deleteErr error
	putErr    error
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{nextID: 1, records: map[int]quiz.Record{}}
}

func (w *fakeWriter) Add(_ context.Context, rec quiz.Record) (int, error) {
	if w.addErr != nil {
		return 0, w.addErr
	}
	id := w.nextID
	w.nextID++
	w.records[id] = rec
	return id, nil
}

func (w *fakeWriter) Delete(_ context.Context, id int) error {
	if w.deleteErr != nil {
		return w.deleteErr
	}
	if _, ok := w.records[id]; !ok {
		return store.ErrNotFound
	}
	delete(w.records, id)
	return nil
}

func (w *fakeWriter) Put(_ context.Context, rec quiz.StoredRecord) error {
	if w.putErr != nil {
		return w.putErr
	}
	w.records[rec.ID] = rec.Record
	return nil
}

type fakeSink struct {
	ids map[int]*int
	err error
}

func (s *fakeSink) UpdateRecordID(_ context.Context, sequence int, id *int) error {
	if s.ids == nil {
		s.ids = map[int]*int{}
	}
	s.ids[sequence] = id
	return s.err
}

func record(prompt string) quiz.Record {
	return quiz.Record{
		Topic:    quiz.Topic{Level: quiz.LevelN3, Section: quiz.SectionGrammar},
		Question: quiz.Question{Prompt: prompt, Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a"},
	}
}

func intPtr(v int) *int { return &v }

func TestTrackInitialStates(t *testing.T) {
	c := NewController(newFakeWriter(), nil, nil)
	c.Track(Slot{Sequence: 2, Record: record("b"), ID: intPtr(7)}, Slot{Sequence: 1, Record: record("a")})

	views := c.Views()
	require.Len(t, views, 2)
	assert.Equal(t, 1, views[0].Sequence)
	assert.Equal(t, Unsaved, views[0].State)
	assert.Equal(t, Saved, views[1].State)
	assert.Equal(t, 7, *views[1].ID)
	assert.Equal(t, None, views[1].Outcome)
}

func TestSaveCommit(t *testing.T) {
	w := newFakeWriter()
	sink := &fakeSink{}
	c := NewController(w, sink, nil)
	c.Track(Slot{Sequence: 1, Record: record("a")})
	ctx := context.Background()

	task, err := c.Save(1)
	require.NoError(t, err)

	v, _ := c.View(1)
	assert.Equal(t, Saving, v.State)
	assert.Equal(t, Pending, v.Outcome)

	_, err = c.Save(1)
	assert.ErrorIs(t, err, ErrBusy)
	_, err = c.Unsave(1)
	assert.ErrorIs(t, err, ErrBusy)

	require.NoError(t, c.Apply(ctx, c.Execute(ctx, task)))

	v, _ = c.View(1)
	assert.Equal(t, Saved, v.State)
	assert.Equal(t, Committed, v.Outcome)
	require.NotNil(t, v.ID)
	assert.Equal(t, 1, *v.ID)
	require.NotNil(t, sink.ids[1])
	assert.Equal(t, 1, *sink.ids[1])
	assert.Len(t, w.records, 1)
}

func TestSaveRollbackLeavesNoID(t *testing.T) {
	w := newFakeWriter()
	w.addErr = &store.WriteError{Op: "add question", Err: errors.New("disk full")}
	sink := &fakeSink{}
	var logs bytes.Buffer
	c := NewController(w, sink, log.New(&logs, "", 0))
	c.Track(Slot{Sequence: 1, Record: record("a")})
	ctx := context.Background()

	task, err := c.Save(1)
	require.NoError(t, err)
	err = c.Apply(ctx, c.Execute(ctx, task))

	var we *store.WriteError
	require.ErrorAs(t, err, &we)

	v, _ := c.View(1)
	assert.Equal(t, Unsaved, v.State)
	assert.Equal(t, RolledBack, v.Outcome)
	assert.Nil(t, v.ID)
	assert.Empty(t, sink.ids)
	assert.Contains(t, logs.String(), "rolled back")

	// The control is usable again after a rollback.
	w.addErr = nil
	v, err = c.Run(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, Saved, v.State)
}

func TestUnsaveCommit(t *testing.T) {
	w := newFakeWriter()
	id, _ := w.Add(context.Background(), record("a"))
	sink := &fakeSink{}
	c := NewController(w, sink, nil)
	c.Track(Slot{Sequence: 3, Record: record("a"), ID: intPtr(id)})

	v, err := c.Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, Unsaved, v.State)
	assert.Equal(t, Committed, v.Outcome)
	assert.Nil(t, v.ID)
	assert.Empty(t, w.records)

	got, ok := sink.ids[3]
	require.True(t, ok)
	assert.Nil(t, got)
}

func TestUnsaveRollbackKeepsID(t *testing.T) {
	w := newFakeWriter()
	id, _ := w.Add(context.Background(), record("a"))
	w.deleteErr = errors.New("locked")
	c := NewController(w, nil, nil)
	c.Track(Slot{Sequence: 1, Record: record("a"), ID: intPtr(id)})

	v, err := c.Run(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, Saved, v.State)
	assert.Equal(t, RolledBack, v.Outcome)
	require.NotNil(t, v.ID)
	assert.Equal(t, id, *v.ID)
}

func TestUnsaveMissingRecordCommits(t *testing.T) {
	c := NewController(newFakeWriter(), nil, nil)
	c.Track(Slot{Sequence: 1, Record: record("a"), ID: intPtr(42)})

	v, err := c.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Unsaved, v.State)
}

func TestUnsaveWithoutID(t *testing.T) {
	c := NewController(newFakeWriter(), nil, nil)
	c.Track(Slot{Sequence: 1, Record: record("a")})

	_, err := c.Unsave(1)
	assert.ErrorIs(t, err, ErrNoID)
}

func TestUnknownSlot(t *testing.T) {
	c := NewController(newFakeWriter(), nil, nil)
	_, err := c.Save(9)
	assert.ErrorIs(t, err, ErrUnknownSlot)
	_, err = c.Toggle(9)
	assert.ErrorIs(t, err, ErrUnknownSlot)
}

func TestApplyIgnoresStaleResults(t *testing.T) {
	w := newFakeWriter()
	c := NewController(w, nil, nil)
	c.Track(Slot{Sequence: 1, Record: record("a")})
	ctx := context.Background()

	task, err := c.Save(1)
	require.NoError(t, err)
	res := c.Execute(ctx, task)

	require.Len(t, w.records, 1)

	c.Track(Slot{Sequence: 1, Record: record("b")})
	require.NoError(t, c.Apply(ctx, res))

	v, _ := c.View(1)
	assert.Equal(t, Unsaved, v.State)
	assert.Nil(t, v.ID)
	assert.Empty(t, w.records, "stale save must not leave an unreferenced record")
}

func TestStaleSaveCleanupFailureIsLogged(t *testing.T) {
	w := newFakeWriter()
	var buf bytes.Buffer
	sink := &fakeSink{}
	c := NewController(w, sink, log.New(&buf, "", 0))
	c.Track(Slot{Sequence: 1, Record: record("a")})
	ctx := context.Background()

	task, err := c.Save(1)
	require.NoError(t, err)
	res := c.Execute(ctx, task)

	c.Track()
	w.deleteErr = errors.New("disk full")
	require.NoError(t, c.Apply(ctx, res))

	assert.Contains(t, buf.String(), "orphaned record")
	assert.Empty(t, sink.ids)
}

func TestStaleUnsaveDoesNotDelete(t *testing.T) {
	w := newFakeWriter()
	c := NewController(w, nil, nil)
	c.Track(Slot{Sequence: 1, Record: record("a"), ID: intPtr(7)})
	w.records[7] = record("a")
	ctx := context.Background()

	task, err := c.Unsave(1)
	require.NoError(t, err)
	w.deleteErr = errors.New("locked")
	res := c.Execute(ctx, task)
	require.Error(t, res.Err)

	c.Track(Slot{Sequence: 1, Record: record("a"), ID: intPtr(7)})
	w.deleteErr = nil
	require.NoError(t, c.Apply(ctx, res))

	v, _ := c.View(1)
	assert.Equal(t, Saved, v.State)
	assert.Contains(t, w.records, 7)
}

func TestSinkFailureKeepsCommit(t *testing.T) {
	sink := &fakeSink{err: errors.New("session write failed")}
	c := NewController(newFakeWriter(), sink, nil)
	c.Track(Slot{Sequence: 1, Record: record("a")})

	v, err := c.Run(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, Saved, v.State)
	assert.Equal(t, Committed, v.Outcome)
}

func TestResave(t *testing.T) {
	w := newFakeWriter()
	c := NewController(w, nil, nil)
	ctx := context.Background()

	require.NoError(t, c.Resave(ctx, 5, record("x")))
	assert.Equal(t, "x", w.records[5].Question.Prompt)

	w.putErr = errors.New("readonly")
	assert.ErrorContains(t, c.Resave(ctx, 5, record("y")), "readonly")
}

func TestSaveUnsaveRoundTripWithStore(t *testing.T) {
	s, err := store.Open(fmt.Sprintf("file:savestate_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	repo := s.Questions()
	ctx := context.Background()

	c := NewController(repo, nil, nil)
	c.Track(Slot{Sequence: 1, Record: record("a")})

	v, err := c.Run(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, v.ID)

	got, err := repo.Get(ctx, *v.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Question.Prompt)

	savedID := *v.ID
	v, err = c.Run(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, v.ID)

	_, err = repo.Get(ctx, savedID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRefreshSavesGradedRecord(t *testing.T) {
	w := newFakeWriter()
	c := NewController(w, nil, nil)
	c.Track(Slot{Sequence: 1, Record: record("a")})

	graded := record("a").Graded(true, time.Now())
	c.Refresh(1, graded)
	c.Refresh(9, graded)

	v, err := c.Run(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, w.records[*v.ID].LastCorrectAt)
}
