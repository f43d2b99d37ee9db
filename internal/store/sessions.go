package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// SessionRepo is a small key-value store for serialized quiz sessions.
// Each key holds one JSON document that is replaced wholesale on save.
type SessionRepo struct {
	drv *entsql.Driver
}

// Load returns the document stored under key, or ErrNotFound.
func (r *SessionRepo) Load(ctx context.Context, key string) ([]byte, error) {
	query, args := builder().Select("data").
		From(builder().Table(QuizSessionsTable.Name)).
		Where(entsql.EQ("session_key", key)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("load session %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("load session %q: %w", key, err)
		}
		return nil, fmt.Errorf("session %q: %w", key, ErrNotFound)
	}
	var data []byte
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("scan session %q: %w", key, err)
	}
	return data, nil
}

// Save replaces the document stored under key.
func (r *SessionRepo) Save(ctx context.Context, key string, data []byte) error {
	query, args := builder().Insert(QuizSessionsTable.Name).
		Columns("session_key", "data", "updated_at").
		Values(key, string(data), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("session_key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return writeErr("save session", err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *SessionRepo) Delete(ctx context.Context, key string) error {
	query, args := builder().Delete(QuizSessionsTable.Name).
		Where(entsql.EQ("session_key", key)).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return writeErr("delete session", err)
	}
	return nil
}

// Keys lists the stored session keys with their last update time.
func (r *SessionRepo) Keys(ctx context.Context) (map[string]time.Time, error) {
	query, args := builder().Select("session_key", "updated_at").
		From(builder().Table(QuizSessionsTable.Name)).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var (
			key string
			at  time.Time
		)
		if err := rows.Scan(&key, &at); err != nil {
			return nil, fmt.Errorf("scan session key: %w", err)
		}
		out[key] = at
	}
	return out, rows.Err()
}
