package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/orderview/internal/database/repository"
)

// SeedDefaults loads users and orders into an empty database. It is
// idempotent and safe to run on every startup: a database that already has
// users is left alone.
func SeedDefaults(ctx context.Context, db *sql.DB, users []repository.User, orders []repository.Order) error {
	n, err := repository.NewUserRepo(db).Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	return WithTx(ctx, db, func(tx *sql.Tx) error {
		for _, u := range users {
			if _, err := tx.ExecContext(ctx, `INSERT INTO users(id, name) VALUES (?, ?)`, u.ID, u.Name); err != nil {
				return fmt.Errorf("seed user %d: %w", u.ID, err)
			}
		}
		for _, o := range orders {
			if _, err := tx.ExecContext(ctx, `INSERT INTO orders(id, user_id, total) VALUES (?, ?, ?)`, o.ID, o.UserID, o.Total); err != nil {
				return fmt.Errorf("seed order %d: %w", o.ID, err)
			}
		}
		return nil
	})
}
