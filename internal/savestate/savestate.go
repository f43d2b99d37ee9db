// Package savestate keeps the optimistic saved/unsaved indicator of quiz
// slots consistent with the revision bank.
//
// A save or unsave flips the rendered state at once and hands back a Task
// that performs the store write. The Task's Result is fed back through
// Apply, which either commits the new id to the session or restores the
// previous state.
package savestate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"

	"github.com/abhisek/kotoba/internal/quiz"
	"github.com/abhisek/kotoba/internal/store"
)

var (
	// ErrBusy is returned while a slot has an operation in flight.
	ErrBusy = errors.New("save operation already pending")

	// ErrNoID is returned when unsaving a slot that has no stored record.
	ErrNoID = errors.New("slot has no stored record")

	// ErrUnknownSlot is returned for sequences the controller does not track.
	ErrUnknownSlot = errors.New("unknown slot")
)

// State is the rendered save state of one slot.
type State int

const (
	Unsaved State = iota
	Saving
	Saved
	Unsaving
)

func (s State) String() string {
	switch s {
	case Saving:
		return "saving"
	case Saved:
		return "saved"
	case Unsaving:
		return "unsaving"
	}
	return "unsaved"
}

// Pending reports whether a store write is in flight.
func (s State) Pending() bool {
	return s == Saving || s == Unsaving
}

// Outcome is the result of the most recent operation on a slot.
type Outcome int

const (
	None Outcome = iota
	Pending
	Committed
	RolledBack
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled back"
	}
	return "none"
}

// Writer is the store surface used by the controller.
type Writer interface {
	Add(ctx context.Context, rec quiz.Record) (int, error)
	Delete(ctx context.Context, id int) error
	Put(ctx context.Context, rec quiz.StoredRecord) error
}

// IDSink receives committed id changes, typically the session store.
type IDSink interface {
	UpdateRecordID(ctx context.Context, sequence int, id *int) error
}

// Slot identifies one quiz question that can be saved.
type Slot struct {
	Sequence int
	Record   quiz.Record
	ID       *int
}

// View is a snapshot of a tracked slot for rendering.
type View struct {
	Slot
	State   State
	Outcome Outcome
	Err     error
}

type entry struct {
	slot    Slot
	state   State
	outcome Outcome
	err     error
	gen     uint64
}

// Controller tracks the save state of a set of slots. It is safe for
// concurrent use; Tasks may run on other goroutines.
type Controller struct {
	mu      sync.Mutex
	w       Writer
	sink    IDSink
	logger  *log.Logger
	entries map[int]*entry
	gen     uint64
}

// NewController creates a controller. sink and logger may be nil.
func NewController(w Writer, sink IDSink, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Controller{
		w:       w,
		sink:    sink,
		logger:  logger,
		entries: make(map[int]*entry),
	}
}

// Track replaces the tracked slots. Each slot starts Saved when it carries
// an id and Unsaved otherwise. Results of tasks issued before Track are
// ignored by Apply, except that a record added by such a task is deleted
// again.
func (c *Controller) Track(slots ...Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.entries = make(map[int]*entry, len(slots))
	for _, s := range slots {
		state := Unsaved
		if s.ID != nil {
			id := *s.ID
			s.ID = &id
			state = Saved
		}
		c.entries[s.Sequence] = &entry{slot: s, state: state, gen: c.gen}
	}
}

// Refresh replaces the record carried by a tracked slot, e.g. once it has
// been graded, so a later save stores the graded copy. The save state is
// left untouched.
func (c *Controller) Refresh(sequence int, rec quiz.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[sequence]; ok {
		e.slot.Record = rec
	}
}

// Views returns the tracked slots ordered by sequence.
func (c *Controller) Views() []View {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]View, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.view())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// View returns the current view of one slot.
func (c *Controller) View(sequence int) (View, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[sequence]
	if !ok {
		return View{}, false
	}
	return e.view(), true
}

func (e *entry) view() View {
	v := View{Slot: e.slot, State: e.state, Outcome: e.outcome, Err: e.err}
	if e.slot.ID != nil {
		id := *e.slot.ID
		v.ID = &id
	}
	return v
}

// Save marks the slot Saving and returns the task that adds its record to
// the bank.
func (c *Controller) Save(sequence int) (Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.lookup(sequence)
	if err != nil {
		return Task{}, err
	}
	switch e.state {
	case Saving, Unsaving:
		return Task{}, ErrBusy
	case Saved:
		return Task{}, fmt.Errorf("slot %d already saved", sequence)
	}

	e.state = Saving
	e.outcome = Pending
	e.err = nil
	return Task{Sequence: sequence, Op: OpSave, Record: e.slot.Record, gen: e.gen}, nil
}

// Unsave marks the slot Unsaving and returns the task that deletes its
// record from the bank.
func (c *Controller) Unsave(sequence int) (Task, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.lookup(sequence)
	if err != nil {
		return Task{}, err
	}
	if e.state.Pending() {
		return Task{}, ErrBusy
	}
	if e.slot.ID == nil {
		return Task{}, ErrNoID
	}

	e.state = Unsaving
	e.outcome = Pending
	e.err = nil
	return Task{Sequence: sequence, Op: OpUnsave, ID: *e.slot.ID, gen: e.gen}, nil
}

// Toggle saves an unsaved slot and unsaves a saved one.
func (c *Controller) Toggle(sequence int) (Task, error) {
	v, ok := c.View(sequence)
	if !ok {
		return Task{}, fmt.Errorf("slot %d: %w", sequence, ErrUnknownSlot)
	}
	if v.State == Saved {
		return c.Unsave(sequence)
	}
	return c.Save(sequence)
}

func (c *Controller) lookup(sequence int) (*entry, error) {
	e, ok := c.entries[sequence]
	if !ok {
		return nil, fmt.Errorf("slot %d: %w", sequence, ErrUnknownSlot)
	}
	return e, nil
}

// Execute performs the task's store write using the controller's writer.
func (c *Controller) Execute(ctx context.Context, t Task) Result {
	return t.Do(ctx, c.w)
}

// Apply reconciles a finished task. On success the slot id is set or
// cleared and forwarded to the sink; on failure the slot returns to its
// previous state and the failure is returned for display.
func (c *Controller) Apply(ctx context.Context, r Result) error {
	c.mu.Lock()
	e, ok := c.entries[r.Sequence]
	if !ok || e.gen != r.gen || !e.state.Pending() {
		c.mu.Unlock()
		c.logger.Printf("savestate: dropping stale %s result for slot %d", r.Op, r.Sequence)
		if r.Op == OpSave && r.Err == nil {
			c.discard(ctx, r.ID)
		}
		return nil
	}

	if r.Err != nil {
		if e.state == Saving {
			e.state = Unsaved
		} else {
			e.state = Saved
		}
		e.outcome = RolledBack
		e.err = r.Err
		c.mu.Unlock()
		c.logger.Printf("savestate: %s slot %d rolled back: %v", r.Op, r.Sequence, r.Err)
		return fmt.Errorf("%s question %d: %w", r.Op, r.Sequence, r.Err)
	}

	var id *int
	if r.Op == OpSave {
		v := r.ID
		id = &v
		e.state = Saved
	} else {
		e.state = Unsaved
	}
	e.slot.ID = id
	e.outcome = Committed
	e.err = nil
	c.mu.Unlock()

	if c.sink == nil {
		return nil
	}
	if err := c.sink.UpdateRecordID(ctx, r.Sequence, id); err != nil {
		c.logger.Printf("savestate: record id for slot %d not persisted: %v", r.Sequence, err)
		return fmt.Errorf("update session record id: %w", err)
	}
	return nil
}

// discard deletes a record whose save finished after its slot stopped
// being tracked, so no bank record is left without a slot.
func (c *Controller) discard(ctx context.Context, id int) {
	err := c.w.Delete(ctx, id)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		c.logger.Printf("savestate: orphaned record %d not removed: %v", id, err)
		return
	}
	c.logger.Printf("savestate: removed orphaned record %d", id)
}

// Run toggles a slot and completes the write synchronously.
func (c *Controller) Run(ctx context.Context, sequence int) (View, error) {
	t, err := c.Toggle(sequence)
	if err != nil {
		return View{}, err
	}
	applyErr := c.Apply(ctx, c.Execute(ctx, t))
	v, _ := c.View(sequence)
	return v, applyErr
}

// Resave overwrites an already stored record, e.g. after the learner
// answers it again during revision. Failures are logged and returned.
func (c *Controller) Resave(ctx context.Context, id int, rec quiz.Record) error {
	err := c.w.Put(ctx, quiz.StoredRecord{Record: rec, ID: id})
	if err != nil {
		c.logger.Printf("savestate: resave record %d: %v", id, err)
		return fmt.Errorf("resave record %d: %w", id, err)
	}
	return nil
}

// Op is the kind of store write a Task performs.
type Op int

const (
	OpSave Op = iota
	OpUnsave
)

func (o Op) String() string {
	if o == OpUnsave {
		return "unsave"
	}
	return "save"
}

// Task is a deferred store write produced by Save or Unsave.
type Task struct {
	Sequence int
	Op       Op
	Record   quiz.Record
	ID       int
	gen      uint64
}

// Result is the outcome of running a Task.
type Result struct {
	Sequence int
	Op       Op
	ID       int
	Err      error
	gen      uint64
}

// Do runs the write against w. Deleting a record that is already gone
// counts as success.
func (t Task) Do(ctx context.Context, w Writer) Result {
	r := Result{Sequence: t.Sequence, Op: t.Op, ID: t.ID, gen: t.gen}
	switch t.Op {
	case OpSave:
		r.ID, r.Err = w.Add(ctx, t.Record)
	case OpUnsave:
		if err := w.Delete(ctx, t.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			r.Err = err
		}
	}
	return r
}
