package revision

import (
	"context"
	"errors"
	"log"

	"github.com/abhisek/kotoba/internal/bank"
	"github.com/abhisek/kotoba/internal/questiongen"
	"github.com/abhisek/kotoba/internal/savestate"
	"github.com/abhisek/kotoba/internal/session"
	"github.com/abhisek/kotoba/internal/store"
)

// Open loads the session stored under key and wires it to the bank in st.
// A corrupt session document is logged and replaced by an idle session.
func Open(ctx context.Context, st *store.Store, key string, source questiongen.Source, logger *log.Logger) (*Flow, error) {
	sess, err := session.Open(ctx, st.Sessions(), key)
	if errors.Is(err, session.ErrCorrupt) {
		if logger != nil {
			logger.Printf("revision: discarding session %q: %v", key, err)
		}
		err = nil
	}
	if err != nil {
		return nil, err
	}

	questions := st.Questions()
	saves := savestate.NewController(questions, sess, logger)
	return New(sess, bank.NewEngine(questions), saves, source), nil
}

// DeleteRecord removes a record from the bank and clears every stored
// session slot that referenced it.
func DeleteRecord(ctx context.Context, st *store.Store, id int) error {
	if err := st.Questions().Delete(ctx, id); err != nil {
		return err
	}
	var errs []error
	for _, key := range []string{session.KeyPractice, session.KeyRevision} {
		sess, err := session.Open(ctx, st.Sessions(), key)
		if err != nil {
			if !errors.Is(err, session.ErrCorrupt) {
				errs = append(errs, err)
			}
			continue
		}
		for _, q := range sess.Snapshot().QuestionStates {
			if q.ID != nil && *q.ID == id {
				errs = append(errs, sess.UpdateRecordID(ctx, q.Sequence, nil))
			}
		}
	}
	return errors.Join(errs...)
}
