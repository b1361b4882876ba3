package source

import (
	"context"
	"fmt"

	"github.com/jask/orderview/internal/database/repository"
	"github.com/jask/orderview/internal/state"
)

// SQL is a Source over the sqlite repositories. It keeps the same simulated
// latency as Mock so the UI behaves identically on either backend.
type SQL struct {
	Users   *repository.UserRepo
	Orders  *repository.OrderRepo
	Latency Latency
}

var _ Source = (*SQL)(nil)

func (s *SQL) wait(ctx context.Context, op Op) error {
	return sleep(ctx, s.Latency.of(op))
}

func (s *SQL) ListUsers(ctx context.Context) ([]state.User, error) {
	if err := s.wait(ctx, OpListUsers); err != nil {
		return nil, err
	}
	rows, err := s.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]state.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, userFromRow(r))
	}
	return out, nil
}

func (s *SQL) ListOrders(ctx context.Context) ([]state.Order, error) {
	if err := s.wait(ctx, OpListOrders); err != nil {
		return nil, err
	}
	rows, err := s.Orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return ordersFromRows(rows), nil
}

func (s *SQL) GetUser(ctx context.Context, id int64) (state.User, bool, error) {
	if err := s.wait(ctx, OpGetUser); err != nil {
		return state.User{}, false, err
	}
	row, err := s.Users.Get(ctx, id)
	if err != nil {
		return state.User{}, false, fmt.Errorf("get user %d: %w", id, err)
	}
	if row == nil {
		return state.User{}, false, nil
	}
	return userFromRow(*row), true, nil
}

func (s *SQL) OrdersForUser(ctx context.Context, userID int64) ([]state.Order, error) {
	if err := s.wait(ctx, OpOrdersForUser); err != nil {
		return nil, err
	}
	rows, err := s.Orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders for user %d: %w", userID, err)
	}
	return ordersFromRows(rows), nil
}

func (s *SQL) CreateUser(ctx context.Context, u state.User) (state.User, error) {
	if err := s.wait(ctx, OpCreateUser); err != nil {
		return state.User{}, err
	}
	if err := s.Users.Upsert(ctx, repository.User{ID: u.ID, Name: u.Name}); err != nil {
		return state.User{}, fmt.Errorf("create user %d: %w", u.ID, err)
	}
	return u, nil
}

func (s *SQL) UpdateUser(ctx context.Context, u state.User) (state.User, error) {
	if err := s.wait(ctx, OpUpdateUser); err != nil {
		return state.User{}, err
	}
	if _, err := s.Users.Update(ctx, repository.User{ID: u.ID, Name: u.Name}); err != nil {
		return state.User{}, fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return u, nil
}

func (s *SQL) DeleteUser(ctx context.Context, id int64) error {
	if err := s.wait(ctx, OpDeleteUser); err != nil {
		return err
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

func (s *SQL) CreateOrder(ctx context.Context, o state.Order) (state.Order, error) {
	if err := s.wait(ctx, OpCreateOrder); err != nil {
		return state.Order{}, err
	}
	if err := s.Orders.Upsert(ctx, orderRow(o)); err != nil {
		return state.Order{}, fmt.Errorf("create order %d: %w", o.ID, err)
	}
	return o, nil
}

func (s *SQL) UpdateOrder(ctx context.Context, o state.Order) (state.Order, error) {
	if err := s.wait(ctx, OpUpdateOrder); err != nil {
		return state.Order{}, err
	}
	if _, err := s.Orders.Update(ctx, orderRow(o)); err != nil {
		return state.Order{}, fmt.Errorf("update order %d: %w", o.ID, err)
	}
	return o, nil
}

func (s *SQL) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.wait(ctx, OpDeleteOrder); err != nil {
		return err
	}
	if err := s.Orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order %d: %w", id, err)
	}
	return nil
}

func userFromRow(r repository.User) state.User { return state.User{ID: r.ID, Name: r.Name} }

func orderRow(o state.Order) repository.Order {
	return repository.Order{ID: o.ID, UserID: o.UserID, Total: o.Total}
}

func ordersFromRows(rows []repository.Order) []state.Order {
	out := make([]state.Order, 0, len(rows))
	for _, r := range rows {
		out = append(out, state.Order{ID: r.ID, UserID: r.UserID, Total: r.Total})
	}
	return out
}
