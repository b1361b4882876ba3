package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jask/orderview/internal/database"
	"github.com/jask/orderview/internal/database/repository"
	"github.com/jask/orderview/internal/state"
)

func TestMockReadsDefaultFixture(t *testing.T) {
	ctx := context.Background()
	m := NewMock(DefaultFixture(), Latency{}, zaptest.NewLogger(t))

	users, err := m.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 4)
	require.Equal(t, "John Doe", users[0].Name)

	orders, err := m.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 9)

	u, found, err := m.GetUser(ctx, 3)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Bob Johnson", u.Name)

	_, found, err = m.GetUser(ctx, 99)
	require.NoError(t, err)
	require.False(t, found)

	mine, err := m.OrdersForUser(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []state.Order{{ID: 201, UserID: 2, Total: 350}, {ID: 202, UserID: 2, Total: 150}}, mine)

	require.Equal(t, 1, m.Calls(OpListUsers))
	require.Equal(t, 2, m.Calls(OpGetUser))
}

func TestMockWritesMutateData(t *testing.T) {
	ctx := context.Background()
	m := NewMock(DefaultFixture(), Latency{}, nil)

	_, err := m.CreateUser(ctx, state.User{ID: 5, Name: "Eve"})
	require.NoError(t, err)
	_, err = m.UpdateUser(ctx, state.User{ID: 1, Name: "Johnny"})
	require.NoError(t, err)
	echoed, err := m.UpdateUser(ctx, state.User{ID: 77, Name: "ghost"})
	require.NoError(t, err)
	require.Equal(t, int64(77), echoed.ID)
	require.NoError(t, m.DeleteUser(ctx, 2))

	users, err := m.ListUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, []state.User{
		{ID: 1, Name: "Johnny"},
		{ID: 3, Name: "Bob Johnson"},
		{ID: 4, Name: "Alice Williams"},
		{ID: 5, Name: "Eve"},
	}, users)

	_, err = m.CreateOrder(ctx, state.Order{ID: 501, UserID: 5, Total: 10})
	require.NoError(t, err)
	_, err = m.UpdateOrder(ctx, state.Order{ID: 501, UserID: 5, Total: 11})
	require.NoError(t, err)
	require.NoError(t, m.DeleteOrder(ctx, 101))
	mine, err := m.OrdersForUser(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, []state.Order{{ID: 501, UserID: 5, Total: 11}}, mine)
	all, err := m.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 9)
}

func TestMockFailNextInjectsOneFailure(t *testing.T) {
	ctx := context.Background()
	m := NewMock(DefaultFixture(), Latency{}, nil)
	cause := errors.New("connection reset")
	m.FailNext(OpListOrders, cause)

	_, err := m.ListOrders(ctx)
	require.ErrorIs(t, err, ErrTransport)
	require.ErrorIs(t, err, cause)

	_, err = m.ListOrders(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, m.Calls(OpListOrders))
}

func TestMockLatencyHonoursContext(t *testing.T) {
	m := NewMock(DefaultFixture(), Latency{Read: time.Hour, Detail: time.Hour, Write: time.Hour}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _, err := m.GetUser(ctx, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}

func TestMockLatencyDelaysCall(t *testing.T) {
	m := NewMock(DefaultFixture(), Latency{Read: 30 * time.Millisecond}, nil)
	start := time.Now()
	_, err := m.ListUsers(context.Background())
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestParseFixture(t *testing.T) {
	fx, err := ParseFixture([]byte(`
users:
  - {id: 1, name: John Doe}
  - {id: 2, name: Jane Smith}
orders:
  - {id: 101, userId: 1, total: 1200}
  - {id: 102, userId: 1, total: 25.5}
`))
	require.NoError(t, err)
	require.Equal(t, []state.User{{ID: 1, Name: "John Doe"}, {ID: 2, Name: "Jane Smith"}}, fx.Users)
	require.Equal(t, []state.Order{{ID: 101, UserID: 1, Total: 1200}, {ID: 102, UserID: 1, Total: 25.5}}, fx.Orders)

	_, err = ParseFixture([]byte("users:\n  - {id: 1, name: a}\n  - {id: 1, name: b}\n"))
	require.ErrorContains(t, err, "duplicate user id 1")

	_, err = ParseFixture([]byte("users: [oops"))
	require.Error(t, err)
}

func TestLoadFixture(t *testing.T) {
	fx, err := LoadFixture("")
	require.NoError(t, err)
	require.Equal(t, DefaultFixture(), fx)

	path := filepath.Join(t.TempDir(), "fixture.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users:\n  - {id: 7, name: Seven}\n"), 0o600))
	fx, err = LoadFixture(path)
	require.NoError(t, err)
	require.Equal(t, []state.User{{ID: 7, Name: "Seven"}}, fx.Users)
	require.Empty(t, fx.Orders)

	_, err = LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestSQLSourceMatchesMock(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db, err := database.Prepare(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	users, orders := DefaultFixture().Rows()
	require.NoError(t, database.SeedDefaults(ctx, db, users, orders))

	src := &SQL{Users: repository.NewUserRepo(db), Orders: repository.NewOrderRepo(db)}
	mock := NewMock(DefaultFixture(), Latency{}, nil)

	gotUsers, err := src.ListUsers(ctx)
	require.NoError(t, err)
	wantUsers, _ := mock.ListUsers(ctx)
	require.Equal(t, wantUsers, gotUsers)

	gotOrders, err := src.ListOrders(ctx)
	require.NoError(t, err)
	wantOrders, _ := mock.ListOrders(ctx)
	require.Equal(t, wantOrders, gotOrders)

	u, found, err := src.GetUser(ctx, 4)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Alice Williams", u.Name)
	_, found, err = src.GetUser(ctx, 40)
	require.NoError(t, err)
	require.False(t, found)

	_, err = src.CreateUser(ctx, state.User{ID: 5, Name: "Eve"})
	require.NoError(t, err)
	_, err = src.UpdateUser(ctx, state.User{ID: 5, Name: "Eve Adams"})
	require.NoError(t, err)
	u, _, err = src.GetUser(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, "Eve Adams", u.Name)
	require.NoError(t, src.DeleteUser(ctx, 5))

	_, err = src.CreateOrder(ctx, state.Order{ID: 999, UserID: 4, Total: 1})
	require.NoError(t, err)
	_, err = src.UpdateOrder(ctx, state.Order{ID: 999, UserID: 4, Total: 2})
	require.NoError(t, err)
	mine, err := src.OrdersForUser(ctx, 4)
	require.NoError(t, err)
	require.Equal(t, []state.Order{{ID: 401, UserID: 4, Total: 600}, {ID: 999, UserID: 4, Total: 2}}, mine)
	require.NoError(t, src.DeleteOrder(ctx, 999))

	cancel()
	_, err = src.ListUsers(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSQLSourceListsInInsertionOrderLikeMock(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db, err := database.Prepare(filepath.Join(t.TempDir(), "order.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	src := &SQL{Users: repository.NewUserRepo(db), Orders: repository.NewOrderRepo(db)}
	mock := NewMock(Fixture{}, Latency{}, nil)

	for _, s := range []Source{src, mock} {
		for _, u := range []state.User{{ID: 10, Name: "Ten"}, {ID: 5, Name: "Five"}} {
			_, err := s.CreateUser(ctx, u)
			require.NoError(t, err)
		}
	}
	got, err := src.ListUsers(ctx)
	require.NoError(t, err)
	want, err := mock.ListUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.Equal(t, int64(10), got[0].ID)
}
