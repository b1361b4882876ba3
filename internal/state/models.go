package state

// User represents a user entity.
type User struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// EntityID implements Entity.
func (u User) EntityID() int64 { return u.ID }

// Order represents an order entity. UserID references User.ID.
type Order struct {
	ID     int64   `json:"id" yaml:"id"`
	UserID int64   `json:"userId" yaml:"userId"`
	Total  float64 `json:"total" yaml:"total"`
}

// EntityID implements Entity.
func (o Order) EntityID() int64 { return o.ID }

// UsersState is the users slice of AppState.
type UsersState struct {
	Users          Collection[User]
	SelectedUserID *int64
	Loading        bool
	// FetchingDetail is set while a LoadUserDetails is outstanding.
	FetchingDetail bool
	Err            error
}

// OrdersState is the orders slice of AppState.
type OrdersState struct {
	Orders  Collection[Order]
	Loading bool
	Err     error
}

// AppState is the root state. The two slices are independent; joins happen
// only in selectors.
type AppState struct {
	Users  UsersState
	Orders OrdersState
}

// ID returns a pointer to a copy of id, for optional-id fields.
func ID(id int64) *int64 { return &id }
