package source

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jask/orderview/internal/state"
)

// Mock is an in-memory Source seeded from a Fixture.
type Mock struct {
	mu      sync.Mutex
	users   []state.User
	orders  []state.Order
	latency Latency
	fail    map[Op][]error
	calls   map[Op]int
	log     *zap.Logger
}

var _ Source = (*Mock)(nil)

// NewMock returns a mock holding a copy of fx.
func NewMock(fx Fixture, latency Latency, log *zap.Logger) *Mock {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mock{
		users:   append([]state.User(nil), fx.Users...),
		orders:  append([]state.Order(nil), fx.Orders...),
		latency: latency,
		fail:    make(map[Op][]error),
		calls:   make(map[Op]int),
		log:     log,
	}
}

// FailNext makes the next call of op fail with err wrapped in ErrTransport.
// Repeated calls queue further failures.
func (m *Mock) FailNext(op Op, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail[op] = append(m.fail[op], err)
}

// Calls returns how many times op has been invoked.
func (m *Mock) Calls(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// begin counts the call, waits out the latency and returns any injected
// failure.
func (m *Mock) begin(ctx context.Context, op Op) error {
	m.mu.Lock()
	m.calls[op]++
	var injected error
	if q := m.fail[op]; len(q) > 0 {
		injected, m.fail[op] = q[0], q[1:]
	}
	m.mu.Unlock()

	m.log.Debug("source call", zap.String("op", string(op)))
	if err := sleep(ctx, m.latency.of(op)); err != nil {
		return err
	}
	if injected != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrTransport, injected)
	}
	return nil
}

func (m *Mock) ListUsers(ctx context.Context) ([]state.User, error) {
	if err := m.begin(ctx, OpListUsers); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]state.User(nil), m.users...), nil
}

func (m *Mock) ListOrders(ctx context.Context) ([]state.Order, error) {
	if err := m.begin(ctx, OpListOrders); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]state.Order(nil), m.orders...), nil
}

func (m *Mock) GetUser(ctx context.Context, id int64) (state.User, bool, error) {
	if err := m.begin(ctx, OpGetUser); err != nil {
		return state.User{}, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return state.User{}, false, nil
}

func (m *Mock) OrdersForUser(ctx context.Context, userID int64) ([]state.Order, error) {
	if err := m.begin(ctx, OpOrdersForUser); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]state.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

// CreateUser stores u, replacing any user with the same id, and echoes it.
func (m *Mock) CreateUser(ctx context.Context, u state.User) (state.User, error) {
	if err := m.begin(ctx, OpCreateUser); err != nil {
		return state.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.users, u.ID); i >= 0 {
		m.users[i] = u
	} else {
		m.users = append(m.users, u)
	}
	return u, nil
}

// UpdateUser writes u if it exists and echoes it either way.
func (m *Mock) UpdateUser(ctx context.Context, u state.User) (state.User, error) {
	if err := m.begin(ctx, OpUpdateUser); err != nil {
		return state.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.users, u.ID); i >= 0 {
		m.users[i] = u
	}
	return u, nil
}

func (m *Mock) DeleteUser(ctx context.Context, id int64) error {
	if err := m.begin(ctx, OpDeleteUser); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.users, id); i >= 0 {
		m.users = append(m.users[:i], m.users[i+1:]...)
	}
	return nil
}

func (m *Mock) CreateOrder(ctx context.Context, o state.Order) (state.Order, error) {
	if err := m.begin(ctx, OpCreateOrder); err != nil {
		return state.Order{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.orders, o.ID); i >= 0 {
		m.orders[i] = o
	} else {
		m.orders = append(m.orders, o)
	}
	return o, nil
}

func (m *Mock) UpdateOrder(ctx context.Context, o state.Order) (state.Order, error) {
	if err := m.begin(ctx, OpUpdateOrder); err != nil {
		return state.Order{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.orders, o.ID); i >= 0 {
		m.orders[i] = o
	}
	return o, nil
}

func (m *Mock) DeleteOrder(ctx context.Context, id int64) error {
	if err := m.begin(ctx, OpDeleteOrder); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := indexOf(m.orders, id); i >= 0 {
		m.orders = append(m.orders[:i], m.orders[i+1:]...)
	}
	return nil
}

func indexOf[T state.Entity](items []T, id int64) int {
	for i, item := range items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}
