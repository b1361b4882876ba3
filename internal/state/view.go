package state

import (
	"sync"

	"go.uber.org/zap"
)

// View is the presentation boundary: three read-only bindings (Users,
// Summary, SelectedID) and two intents (Select, ClearSelection).
type View struct {
	store *Store
	sel   *Selectors
	log   *zap.Logger

	mu         sync.Mutex
	lastMissed optID
}

// NewView binds a view to store.
func NewView(store *Store, log *zap.Logger) *View {
	if log == nil {
		log = zap.NewNop()
	}
	return &View{store: store, sel: NewSelectors(), log: log}
}

// Users lists users in collection order.
func (v *View) Users() []User { return v.sel.AllUsers(v.store.State()) }

// Orders lists the selected user's orders.
func (v *View) Orders() []Order { return v.sel.SelectedUserOrders(v.store.State()) }

// SelectedID returns the selected user id, if any.
func (v *View) SelectedID() (int64, bool) { return SelectedUserID(v.store.State()) }

// Summary returns the selected user's name and order total. A selection that
// points at a user who is not loaded is logged once per id.
func (v *View) Summary() Summary {
	s := v.store.State()
	_, sel := v.sel.SelectedUser(s)
	v.noteMissing(s, sel)
	return v.sel.SelectedUserSummary(s)
}

// Err returns the first slice error, users before orders.
func (v *View) Err() error {
	s := v.store.State()
	if s.Users.Err != nil {
		return s.Users.Err
	}
	return s.Orders.Err
}

// Loading reports whether either slice has an operation outstanding.
func (v *View) Loading() bool {
	s := v.store.State()
	return s.Users.Loading || s.Orders.Loading
}

// Select dispatches a selection of id.
func (v *View) Select(id int64) { v.store.Dispatch(SelectUser{UserID: ID(id)}) }

// ClearSelection dispatches an empty selection.
func (v *View) ClearSelection() { v.store.Dispatch(SelectUser{}) }

// Reload dispatches a fresh user load; orders follow on success.
func (v *View) Reload() { v.store.Dispatch(LoadUsers{}) }

func (v *View) noteMissing(s AppState, sel Selection) {
	key := selectedKey(s)
	v.mu.Lock()
	defer v.mu.Unlock()
	if sel != SelectionMissing {
		v.lastMissed = optID{}
		return
	}
	// Missing is expected while users are still loading.
	if s.Users.Loading || v.lastMissed == key {
		return
	}
	v.lastMissed = key
	v.log.Warn("selected user not in store", zap.Int64("user_id", key.id))
}
