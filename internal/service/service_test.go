package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/orderview/internal/database"
	"github.com/jask/orderview/internal/database/repository"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Prepare(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestImportCSV(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := openDB(t)
	svc := &ImportService{Users: repository.NewUserRepo(db), Orders: repository.NewOrderRepo(db)}

	data := strings.Join([]string{
		"user_id,user_name,order_id,total",
		"1,John Doe,101,1200",
		"1,John Doe,102,\"1,025.50\"",
		"2,Jane Smith,201,$350",
		"x,Bad,1,1",
		"3,,301,1",
		"3,Bob,302",
		"3,Bob Johnson,303,abc",
	}, "\n")
	res, err := svc.ImportCSV(ctx, strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, res.Users)
	require.Equal(t, 3, res.Imported)
	require.Equal(t, 0, res.Skipped)
	require.Len(t, res.Errors, 4)
	require.ErrorContains(t, res.Errors[0], "line 5 user_id")

	orders, err := svc.Orders.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []repository.Order{{ID: 101, UserID: 1, Total: 1200}, {ID: 102, UserID: 1, Total: 1025.5}}, orders)

	res, err = svc.ImportCSV(ctx, strings.NewReader("1,John Doe,101,1200\n1,John Doe,102,99\n"))
	require.NoError(t, err)
	require.Equal(t, 1, res.Skipped)
	require.Equal(t, 1, res.Imported)
	require.Empty(t, res.Errors)
}

func TestResetAndReseed(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := openDB(t)
	users := repository.NewUserRepo(db)
	prefs := repository.NewPrefRepo(db)
	require.NoError(t, users.Upsert(ctx, repository.User{ID: 9, Name: "Nine"}))
	require.NoError(t, prefs.Set(ctx, "selectedUserId", "9", database.Now()))

	svc := &MaintenanceService{DB: db}
	require.NoError(t, svc.Reset(ctx))
	n, err := users.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
	p, err := prefs.Get(ctx, "selectedUserId")
	require.NoError(t, err)
	require.Nil(t, p)

	require.NoError(t, svc.Reseed(ctx,
		[]repository.User{{ID: 1, Name: "John Doe"}},
		[]repository.Order{{ID: 101, UserID: 1, Total: 5}},
	))
	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []repository.User{{ID: 1, Name: "John Doe"}}, list)

	require.Error(t, (&MaintenanceService{}).Reset(ctx))
}
