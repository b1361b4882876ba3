package prefs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// SelectedUserKey holds the textual id of the selected user.
const SelectedUserKey = "selectedUserId"

// SelectedUser reads and writes the persisted selection.
type SelectedUser struct {
	Store Store
}

// Load returns the saved id, or nil when nothing usable is saved. A value
// that does not parse as an id counts as nothing saved.
func (s SelectedUser) Load(ctx context.Context) (*int64, error) {
	raw, ok, err := s.Store.Get(ctx, SelectedUserKey)
	if err != nil {
		return nil, fmt.Errorf("load selected user: %w", err)
	}
	if !ok {
		return nil, nil
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, nil
	}
	return &id, nil
}

// Save persists id; nil removes the key.
func (s SelectedUser) Save(ctx context.Context, id *int64) error {
	if id == nil {
		return s.Clear(ctx)
	}
	if err := s.Store.Set(ctx, SelectedUserKey, strconv.FormatInt(*id, 10)); err != nil {
		return fmt.Errorf("save selected user: %w", err)
	}
	return nil
}

// Clear removes the saved selection.
func (s SelectedUser) Clear(ctx context.Context) error {
	if err := s.Store.Remove(ctx, SelectedUserKey); err != nil {
		return fmt.Errorf("clear selected user: %w", err)
	}
	return nil
}
