package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/orderview/internal/state"
)

// NewUsersCommand creates the users command.
func NewUsersCommand(rootOpts *RootOptions) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List users with their order counts and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := runUsers(cmd.Context(), rootOpts, timeout)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), rootOpts.Format, rows)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "give up after this long")
	return cmd
}

type userRow struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Orders int     `json:"orders"`
	Total  float64 `json:"total"`
}

type userRows []userRow

func (rows userRows) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-24s %6s %12s", "ID", "NAME", "ORDERS", "TOTAL")
	for _, r := range rows {
		fmt.Fprintf(&b, "\n%-6d %-24s %6d %12.2f", r.ID, r.Name, r.Orders, r.Total)
	}
	return b.String()
}

func runUsers(ctx context.Context, rootOpts *RootOptions, timeout time.Duration) (userRows, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	rt, err := openRuntime(ctx, rootOpts, runtimeOptions{logToStderr: true, readOnlyPrefs: true})
	if err != nil {
		return nil, err
	}
	defer rt.close()
	sub := rt.store.Subscribe()
	defer sub.Close()
	runCtx, stop := context.WithCancel(ctx)
	wait := rt.start(runCtx)
	defer func() {
		stop()
		_ = wait()
	}()

	if err := loadAll(ctx, rt, sub); err != nil {
		return nil, err
	}
	s := rt.store.State()
	sel := state.NewSelectors()
	rows := userRows{}
	for _, u := range sel.AllUsers(s) {
		orders := sel.OrdersByUser(s, u.ID)
		r := userRow{ID: u.ID, Name: u.Name, Orders: len(orders)}
		for _, o := range orders {
			r.Total += o.Total
		}
		rows = append(rows, r)
	}
	return rows, nil
}
