package state

import "sync"

// Summary is the joined view of the selected user and their orders.
type Summary struct {
	UserName          string
	TotalOrdersAmount float64
}

// Selection describes how SelectedUserID resolves against the users.
type Selection int

const (
	NoSelection Selection = iota
	Selected
	// SelectionMissing means SelectedUserID names a user that is not loaded.
	SelectionMissing
)

func (s Selection) String() string {
	switch s {
	case Selected:
		return "selected"
	case SelectionMissing:
		return "missing"
	default:
		return "none"
	}
}

// Plain projections. These recompute on every call; Selectors memoizes them.

func allUsers(s AppState) []User      { return s.Users.Users.All() }
func allOrders(s AppState) []Order    { return s.Orders.Orders.All() }
func selectedKey(s AppState) optID    { return optIDOf(s.Users.SelectedUserID) }
func usersVersion(s AppState) uint64  { return s.Users.Users.Version() }
func ordersVersion(s AppState) uint64 { return s.Orders.Orders.Version() }

func ordersByUser(orders []Order, userID int64) []Order {
	out := make([]Order, 0)
	for _, o := range orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

func selectedUser(s AppState) (User, Selection) {
	id := s.Users.SelectedUserID
	if id == nil {
		return User{}, NoSelection
	}
	u, ok := s.Users.Users.Get(*id)
	if !ok {
		return User{}, SelectionMissing
	}
	return u, Selected
}

func summarize(u User, sel Selection, orders []Order) Summary {
	if sel != Selected {
		return Summary{}
	}
	var total float64
	for _, o := range orders {
		total += o.Total
	}
	return Summary{UserName: u.Name, TotalOrdersAmount: total}
}

type optID struct {
	id  int64
	set bool
}

func optIDOf(p *int64) optID {
	if p == nil {
		return optID{}
	}
	return optID{id: *p, set: true}
}

// memo caches the result of the last computation for one key.
type memo[K comparable, V any] struct {
	ok  bool
	key K
	val V
}

type selectedUserResult struct {
	user User
	sel  Selection
}

type viewKey struct {
	users    uint64
	orders   uint64
	selected optID
}

type byUserKey struct {
	orders uint64
	userID int64
}

// Selectors memoizes the derived views by the version of the collections
// they read. Repeated calls with unchanged inputs return the cached value.
// Returned slices are shared between callers and must not be modified.
type Selectors struct {
	mu     sync.Mutex
	misses int

	users    memo[uint64, []User]
	orders   memo[uint64, []Order]
	byUser   memo[byUserKey, []Order]
	selected memo[viewKey, selectedUserResult]
	summary  memo[viewKey, Summary]
}

// NewSelectors returns an empty selector cache.
func NewSelectors() *Selectors { return &Selectors{} }

func cached[K comparable, V any](x *Selectors, m *memo[K, V], key K, compute func() V) V {
	x.mu.Lock()
	defer x.mu.Unlock()
	if m.ok && m.key == key {
		return m.val
	}
	m.key, m.val, m.ok = key, compute(), true
	x.misses++
	return m.val
}

// AllUsers returns users in collection order.
func (x *Selectors) AllUsers(s AppState) []User {
	return cached(x, &x.users, usersVersion(s), func() []User { return allUsers(s) })
}

// AllOrders returns orders in collection order.
func (x *Selectors) AllOrders(s AppState) []Order {
	return cached(x, &x.orders, ordersVersion(s), func() []Order { return allOrders(s) })
}

// OrdersByUser returns the orders whose UserID is userID, in collection order.
func (x *Selectors) OrdersByUser(s AppState, userID int64) []Order {
	orders := x.AllOrders(s)
	key := byUserKey{orders: ordersVersion(s), userID: userID}
	return cached(x, &x.byUser, key, func() []Order { return ordersByUser(orders, userID) })
}

// SelectedUser resolves SelectedUserID. The Selection result tells "nothing
// selected" apart from "selected id is not loaded".
func (x *Selectors) SelectedUser(s AppState) (User, Selection) {
	key := viewKey{users: usersVersion(s), selected: selectedKey(s)}
	out := cached(x, &x.selected, key, func() selectedUserResult {
		u, sel := selectedUser(s)
		return selectedUserResult{user: u, sel: sel}
	})
	return out.user, out.sel
}

// SelectedUserOrders returns the orders of the selected id, or none when
// nothing is selected.
func (x *Selectors) SelectedUserOrders(s AppState) []Order {
	id, ok := SelectedUserID(s)
	if !ok {
		return []Order{}
	}
	return x.OrdersByUser(s, id)
}

// SelectedUserSummary joins the selected user with their orders. With no
// selection, or a selection that is not loaded, it is the zero Summary.
func (x *Selectors) SelectedUserSummary(s AppState) Summary {
	u, sel := x.SelectedUser(s)
	orders := x.SelectedUserOrders(s)
	key := viewKey{users: usersVersion(s), orders: ordersVersion(s), selected: selectedKey(s)}
	return cached(x, &x.summary, key, func() Summary { return summarize(u, sel, orders) })
}

// Simple field selectors.

func SelectedUserID(s AppState) (int64, bool) {
	k := selectedKey(s)
	return k.id, k.set
}

func UserByID(s AppState, id int64) (User, bool) { return s.Users.Users.Get(id) }
func UserExists(s AppState, id int64) bool        { return s.Users.Users.Has(id) }
func TotalUsers(s AppState) int                   { return s.Users.Users.Len() }
func UsersLoading(s AppState) bool                { return s.Users.Loading }
func UsersError(s AppState) error                 { return s.Users.Err }
func OrdersLoading(s AppState) bool               { return s.Orders.Loading }
func OrdersError(s AppState) error                { return s.Orders.Err }
