package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/kotoba/internal/quiz"
)

var questionColumns = []string{"id", "level", "section", "question", "last_correct_at", "created_at"}

// QuestionRepo is the revision bank: durable storage for saved questions.
type QuestionRepo struct {
	drv *entsql.Driver
	now func() time.Time
}

func (r *QuestionRepo) clock() time.Time {
	if r.now != nil {
		return r.now().UTC()
	}
	return time.Now().UTC()
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// Add persists rec under a freshly issued ID and stamps its creation time.
func (r *QuestionRepo) Add(ctx context.Context, rec quiz.Record) (int, error) {
	if rec.Level == "" || rec.Section == "" {
		return 0, fmt.Errorf("add question: level and section are required")
	}
	payload, err := json.Marshal(rec.Question)
	if err != nil {
		return 0, fmt.Errorf("encode question: %w", err)
	}

	query, args := builder().Insert(QuestionRecordsTable.Name).
		Columns("level", "section", "question", "last_correct_at", "created_at").
		Values(string(rec.Level), string(rec.Section), string(payload), nullableTime(rec.LastCorrectAt), r.clock()).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, writeErr("add question", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, writeErr("add question", err)
	}
	return int(id), nil
}

// Get returns the record with the given ID or ErrNotFound.
func (r *QuestionRepo) Get(ctx context.Context, id int) (*quiz.StoredRecord, error) {
	query, args := builder().Select(questionColumns...).
		From(builder().Table(QuestionRecordsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	recs, err := r.scan(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("get question %d: %w", id, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	return &recs[0], nil
}

// Put overwrites the topic, question and lastCorrectAt of an existing
// record. The creation time is never changed.
func (r *QuestionRepo) Put(ctx context.Context, rec quiz.StoredRecord) error {
	payload, err := json.Marshal(rec.Question)
	if err != nil {
		return fmt.Errorf("encode question: %w", err)
	}

	upd := builder().Update(QuestionRecordsTable.Name).
		Set("level", string(rec.Level)).
		Set("section", string(rec.Section)).
		Set("question", string(payload))
	if rec.LastCorrectAt != nil {
		upd.Set("last_correct_at", rec.LastCorrectAt.UTC())
	} else {
		upd.SetNull("last_correct_at")
	}
	query, args := upd.Where(entsql.EQ("id", rec.ID)).Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return writeErr("put question", err)
	}
	return affectedOne(res, rec.ID)
}

// Delete removes the record with the given ID. Deleting a missing record
// returns ErrNotFound.
func (r *QuestionRepo) Delete(ctx context.Context, id int) error {
	query, args := builder().Delete(QuestionRecordsTable.Name).
		Where(entsql.EQ("id", id)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return writeErr("delete question", err)
	}
	return affectedOne(res, id)
}

// Query returns matching records, most recently created first.
func (r *QuestionRepo) Query(ctx context.Context, opts QueryOpts) ([]quiz.StoredRecord, error) {
	sel := builder().Select(questionColumns...).
		From(builder().Table(QuestionRecordsTable.Name))
	applyQueryOpts(sel, opts)
	sel.OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	if opts.Limit > 0 && opts.Match == nil {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	recs, err := r.scan(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	if opts.Match == nil {
		return recs, nil
	}

	out := recs[:0]
	for i := range recs {
		if opts.Match(&recs[i]) {
			out = append(out, recs[i])
			if opts.Limit > 0 && len(out) == opts.Limit {
				break
			}
		}
	}
	return out, nil
}

// Count returns the number of records matching opts.
func (r *QuestionRepo) Count(ctx context.Context, opts QueryOpts) (int, error) {
	if opts.Match != nil {
		recs, err := r.Query(ctx, opts)
		if err != nil {
			return 0, err
		}
		return len(recs), nil
	}

	sel := builder().Select(entsql.Count("*")).
		From(builder().Table(QuestionRecordsTable.Name))
	applyQueryOpts(sel, opts)
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	defer rows.Close()
	n, err := entsql.ScanInt(rows)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.Level != "" {
		sel.Where(entsql.EQ("level", string(opts.Level)))
	}
	if opts.Section != "" {
		sel.Where(entsql.EQ("section", string(opts.Section)))
	}
	if opts.Correct != nil {
		if *opts.Correct {
			sel.Where(entsql.NotNull("last_correct_at"))
		} else {
			sel.Where(entsql.IsNull("last_correct_at"))
		}
	}
}

func (r *QuestionRepo) scan(ctx context.Context, query string, args []any) ([]quiz.StoredRecord, error) {
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []quiz.StoredRecord
	for rows.Next() {
		var (
			rec         quiz.StoredRecord
			level       string
			section     string
			payload     []byte
			lastCorrect sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &level, &section, &payload, &lastCorrect, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(payload, &rec.Question); err != nil {
			return nil, fmt.Errorf("decode question %d: %w", rec.ID, err)
		}
		rec.Level = quiz.Level(level)
		rec.Section = quiz.Section(section)
		if lastCorrect.Valid {
			t := lastCorrect.Time
			rec.LastCorrectAt = &t
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func affectedOne(res sql.Result, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return writeErr("rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("question %d: %w", id, ErrNotFound)
	}
	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
