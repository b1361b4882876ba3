package prefs

import (
	"context"

	"github.com/jask/orderview/internal/database"
	"github.com/jask/orderview/internal/database/repository"
)

// SQLStore keeps prefs in the sqlite prefs table.
type SQLStore struct {
	Prefs *repository.PrefRepo
}

var _ Store = (*SQLStore)(nil)

func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	p, err := s.Prefs.Get(ctx, key)
	if err != nil || p == nil {
		return "", false, err
	}
	return p.Value, true, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	return s.Prefs.Set(ctx, key, value, database.Now())
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	return s.Prefs.Delete(ctx, key)
}
