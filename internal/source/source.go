// Package source provides the data source the effect pipeline reads users
// and orders from. Every call simulates network latency and honours context
// cancellation.
package source

import (
	"context"
	"errors"
	"time"

	"github.com/jask/orderview/internal/state"
)

// ErrTransport marks simulated transport faults.
var ErrTransport = errors.New("transport error")

// Source is the data-access port.
type Source interface {
	ListUsers(ctx context.Context) ([]state.User, error)
	ListOrders(ctx context.Context) ([]state.Order, error)
	// GetUser reports found=false, with a nil error, for an unknown id.
	GetUser(ctx context.Context, id int64) (state.User, bool, error)
	OrdersForUser(ctx context.Context, userID int64) ([]state.Order, error)

	CreateUser(ctx context.Context, u state.User) (state.User, error)
	UpdateUser(ctx context.Context, u state.User) (state.User, error)
	DeleteUser(ctx context.Context, id int64) error

	CreateOrder(ctx context.Context, o state.Order) (state.Order, error)
	UpdateOrder(ctx context.Context, o state.Order) (state.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

// Latency holds the simulated delay per call class.
type Latency struct {
	Read   time.Duration
	Write  time.Duration
	Detail time.Duration
}

// DefaultLatency mirrors a slow API: reads 500ms, writes 300ms, detail 800ms.
var DefaultLatency = Latency{
	Read:   500 * time.Millisecond,
	Write:  300 * time.Millisecond,
	Detail: 800 * time.Millisecond,
}

// Op names a Source call, for failure injection and call counting.
type Op string

const (
	OpListUsers     Op = "list_users"
	OpListOrders    Op = "list_orders"
	OpGetUser       Op = "get_user"
	OpOrdersForUser Op = "orders_for_user"
	OpCreateUser    Op = "create_user"
	OpUpdateUser    Op = "update_user"
	OpDeleteUser    Op = "delete_user"
	OpCreateOrder   Op = "create_order"
	OpUpdateOrder   Op = "update_order"
	OpDeleteOrder   Op = "delete_order"
)

func (l Latency) of(op Op) time.Duration {
	switch op {
	case OpListUsers, OpListOrders, OpOrdersForUser:
		return l.Read
	case OpGetUser:
		return l.Detail
	default:
		return l.Write
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
