package state

// Action is the closed set of messages the store understands. Only types in
// this package can implement it.
type Action interface {
	Type() string
	action()
}

// Action type names.
const (
	TypeLoadUsers              = "[User List] Load Users"
	TypeLoadUsersSuccess       = "[User API] Load Users Success"
	TypeLoadUsersFailure       = "[User API] Load Users Failure"
	TypeAddUser                = "[User] Add User"
	TypeAddUserSuccess         = "[User API] Add User Success"
	TypeAddUserFailure         = "[User API] Add User Failure"
	TypeUpdateUser             = "[User] Update User"
	TypeUpdateUserSuccess      = "[User API] Update User Success"
	TypeUpdateUserFailure      = "[User API] Update User Failure"
	TypeDeleteUser             = "[User] Delete User"
	TypeDeleteUserSuccess      = "[User API] Delete User Success"
	TypeDeleteUserFailure      = "[User API] Delete User Failure"
	TypeSelectUser             = "[User] Select User"
	TypeLoadUserDetails        = "[User] Load User Details"
	TypeLoadUserDetailsSuccess = "[User API] Load User Details Success"
	TypeLoadUserDetailsFailure = "[User API] Load User Details Failure"

	TypeLoadOrders         = "[Order List] Load Orders"
	TypeLoadOrdersSuccess  = "[Order API] Load Orders Success"
	TypeLoadOrdersFailure  = "[Order API] Load Orders Failure"
	TypeAddOrder           = "[Order] Add Order"
	TypeAddOrderSuccess    = "[Order API] Add Order Success"
	TypeAddOrderFailure    = "[Order API] Add Order Failure"
	TypeUpdateOrder        = "[Order] Update Order"
	TypeUpdateOrderSuccess = "[Order API] Update Order Success"
	TypeUpdateOrderFailure = "[Order API] Update Order Failure"
	TypeDeleteOrder        = "[Order] Delete Order"
	TypeDeleteOrderSuccess = "[Order API] Delete Order Success"
	TypeDeleteOrderFailure = "[Order API] Delete Order Failure"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type LoadUsers struct{}

type LoadUsersSuccess struct{ Users []User }

type LoadUsersFailure struct{ Err error }

type AddUser struct{ User User }

type AddUserSuccess struct{ User User }

type AddUserFailure struct{ Err error }

type UpdateUser struct{ User User }

type UpdateUserSuccess struct{ User User }

type UpdateUserFailure struct{ Err error }

type DeleteUser struct{ UserID int64 }

type DeleteUserSuccess struct{ UserID int64 }

type DeleteUserFailure struct{ Err error }

// SelectUser sets the selection. A nil UserID clears it.
type SelectUser struct{ UserID *int64 }

type LoadUserDetails struct{ UserID int64 }

type LoadUserDetailsSuccess struct{ User User }

type LoadUserDetailsFailure struct{ Err error }

func (LoadUsers) Type() string              { return TypeLoadUsers }
func (LoadUsersSuccess) Type() string       { return TypeLoadUsersSuccess }
func (LoadUsersFailure) Type() string       { return TypeLoadUsersFailure }
func (AddUser) Type() string                { return TypeAddUser }
func (AddUserSuccess) Type() string         { return TypeAddUserSuccess }
func (AddUserFailure) Type() string         { return TypeAddUserFailure }
func (UpdateUser) Type() string             { return TypeUpdateUser }
func (UpdateUserSuccess) Type() string      { return TypeUpdateUserSuccess }
func (UpdateUserFailure) Type() string      { return TypeUpdateUserFailure }
func (DeleteUser) Type() string             { return TypeDeleteUser }
func (DeleteUserSuccess) Type() string      { return TypeDeleteUserSuccess }
func (DeleteUserFailure) Type() string      { return TypeDeleteUserFailure }
func (SelectUser) Type() string             { return TypeSelectUser }
func (LoadUserDetails) Type() string        { return TypeLoadUserDetails }
func (LoadUserDetailsSuccess) Type() string { return TypeLoadUserDetailsSuccess }
func (LoadUserDetailsFailure) Type() string { return TypeLoadUserDetailsFailure }

func (LoadUsers) action()              {}
func (LoadUsersSuccess) action()       {}
func (LoadUsersFailure) action()       {}
func (AddUser) action()                {}
func (AddUserSuccess) action()         {}
func (AddUserFailure) action()         {}
func (UpdateUser) action()             {}
func (UpdateUserSuccess) action()      {}
func (UpdateUserFailure) action()      {}
func (DeleteUser) action()             {}
func (DeleteUserSuccess) action()      {}
func (DeleteUserFailure) action()      {}
func (SelectUser) action()             {}
func (LoadUserDetails) action()        {}
func (LoadUserDetailsSuccess) action() {}
func (LoadUserDetailsFailure) action() {}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

type LoadOrders struct{}

type LoadOrdersSuccess struct{ Orders []Order }

type LoadOrdersFailure struct{ Err error }

type AddOrder struct{ Order Order }

type AddOrderSuccess struct{ Order Order }

type AddOrderFailure struct{ Err error }

type UpdateOrder struct{ Order Order }

type UpdateOrderSuccess struct{ Order Order }

type UpdateOrderFailure struct{ Err error }

type DeleteOrder struct{ OrderID int64 }

type DeleteOrderSuccess struct{ OrderID int64 }

type DeleteOrderFailure struct{ Err error }

func (LoadOrders) Type() string         { return TypeLoadOrders }
func (LoadOrdersSuccess) Type() string  { return TypeLoadOrdersSuccess }
func (LoadOrdersFailure) Type() string  { return TypeLoadOrdersFailure }
func (AddOrder) Type() string           { return TypeAddOrder }
func (AddOrderSuccess) Type() string    { return TypeAddOrderSuccess }
func (AddOrderFailure) Type() string    { return TypeAddOrderFailure }
func (UpdateOrder) Type() string        { return TypeUpdateOrder }
func (UpdateOrderSuccess) Type() string { return TypeUpdateOrderSuccess }
func (UpdateOrderFailure) Type() string { return TypeUpdateOrderFailure }
func (DeleteOrder) Type() string        { return TypeDeleteOrder }
func (DeleteOrderSuccess) Type() string { return TypeDeleteOrderSuccess }
func (DeleteOrderFailure) Type() string { return TypeDeleteOrderFailure }

func (LoadOrders) action()         {}
func (LoadOrdersSuccess) action()  {}
func (LoadOrdersFailure) action()  {}
func (AddOrder) action()           {}
func (AddOrderSuccess) action()    {}
func (AddOrderFailure) action()    {}
func (UpdateOrder) action()        {}
func (UpdateOrderSuccess) action() {}
func (UpdateOrderFailure) action() {}
func (DeleteOrder) action()        {}
func (DeleteOrderSuccess) action() {}
func (DeleteOrderFailure) action() {}
