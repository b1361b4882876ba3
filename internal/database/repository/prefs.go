package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PrefRepo handles the prefs key-value table.
type PrefRepo struct {
	db *sql.DB
}

func NewPrefRepo(db *sql.DB) *PrefRepo { return &PrefRepo{db: db} }

// Get returns the pref for key, or nil when unset.
func (r *PrefRepo) Get(ctx context.Context, key string) (*Pref, error) {
	row := r.db.QueryRowContext(ctx, `SELECT key, value, updated_at FROM prefs WHERE key = ?`, key)
	var p Pref
	if err := row.Scan(&p.Key, &p.Value, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PrefRepo) Set(ctx context.Context, key, value string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO prefs(key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at;
	`, key, value, at)
	return err
}

func (r *PrefRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM prefs WHERE key = ?`, key)
	return err
}
