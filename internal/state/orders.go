package state

// ReduceOrders applies a to the orders slice. It reports false, and returns s
// unchanged, for actions the slice does not handle.
func ReduceOrders(s OrdersState, a Action) (OrdersState, bool) {
	switch a := a.(type) {
	case LoadOrders, AddOrder, UpdateOrder, DeleteOrder:
		s.Loading, s.Err = true, nil

	case LoadOrdersSuccess:
		s.Orders = s.Orders.SetAll(a.Orders)
		s.Loading, s.Err = false, nil
	case LoadOrdersFailure:
		s.Loading, s.Err = false, newFailure(LoadFailure, a, a.Err)

	case AddOrderSuccess:
		s.Orders = s.Orders.UpsertOne(a.Order)
		s.Loading, s.Err = false, nil
	case AddOrderFailure:
		s.Loading, s.Err = false, newFailure(AddFailure, a, a.Err)

	case UpdateOrderSuccess:
		s.Orders, _ = s.Orders.UpdateOne(a.Order)
		s.Loading, s.Err = false, nil
	case UpdateOrderFailure:
		s.Loading, s.Err = false, newFailure(UpdateFailure, a, a.Err)

	case DeleteOrderSuccess:
		s.Orders, _ = s.Orders.RemoveOne(a.OrderID)
		s.Loading, s.Err = false, nil
	case DeleteOrderFailure:
		s.Loading, s.Err = false, newFailure(DeleteFailure, a, a.Err)

	default:
		return s, false
	}
	return s, true
}

// Reduce is the root reducer. Each slice is only ever written by its own
// reducer.
func Reduce(s AppState, a Action) (AppState, bool) {
	users, usersChanged := ReduceUsers(s.Users, a)
	orders, ordersChanged := ReduceOrders(s.Orders, a)
	if !usersChanged && !ordersChanged {
		return s, false
	}
	return AppState{Users: users, Orders: orders}, true
}
