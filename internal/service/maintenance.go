package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/orderview/internal/database"
	"github.com/jask/orderview/internal/database/repository"
)

// MaintenanceService houses destructive/ops actions surfaced through the CLI.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes all data, including the saved selection. It keeps the schema
// intact so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"orders", "users", "prefs"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}

// Reseed resets the database and loads the given rows.
func (s *MaintenanceService) Reseed(ctx context.Context, users []repository.User, orders []repository.Order) error {
	if err := s.Reset(ctx); err != nil {
		return err
	}
	return database.SeedDefaults(ctx, s.DB, users, orders)
}
