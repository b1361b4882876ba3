package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/orderview/internal/state"
)

// SummaryOptions holds flags for the summary command.
type SummaryOptions struct {
	UserID  int64
	Timeout time.Duration
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummaryOptions{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the name and order total of a user",
		Long: `Loads users and orders, selects --user (or the saved selection when
--user is omitted) and prints the summary. The saved selection is not changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runSummary(cmd.Context(), rootOpts, opts)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), rootOpts.Format, res)
		},
	}
	cmd.Flags().Int64VarP(&opts.UserID, "user", "u", 0, "user id to summarise")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 10*time.Second, "give up after this long")
	return cmd
}

type summaryResult struct {
	UserID *int64  `json:"userId"`
	Name   string  `json:"userName"`
	Total  float64 `json:"totalOrdersAmount"`
	Orders int     `json:"orders"`
	Error  string  `json:"error,omitempty"`
}

func (r summaryResult) Text() string {
	if r.UserID == nil {
		return "no user selected"
	}
	if r.Name == "" {
		return fmt.Sprintf("user %d not found", *r.UserID)
	}
	return fmt.Sprintf("%s: %.2f (%d orders)", r.Name, r.Total, r.Orders)
}

func runSummary(ctx context.Context, rootOpts *RootOptions, opts *SummaryOptions) (summaryResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	rt, err := openRuntime(ctx, rootOpts, runtimeOptions{logToStderr: true, readOnlyPrefs: true})
	if err != nil {
		return summaryResult{}, err
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
		return summaryResult{}, err
	}
	if opts.UserID > 0 {
		rt.store.Dispatch(state.SelectUser{UserID: state.ID(opts.UserID)})
		if _, err := sub.Until(ctx, state.IsType(state.TypeSelectUser)); err != nil {
			return summaryResult{}, fmt.Errorf("select user: %w", err)
		}
	}

	res := summaryResult{}
	if id, ok := rt.view.SelectedID(); ok {
		res.UserID = &id
	}
	s := rt.view.Summary()
	res.Name, res.Total, res.Orders = s.UserName, s.TotalOrdersAmount, len(rt.view.Orders())
	return res, nil
}

// loadAll dispatches LoadUsers and waits for both slices to settle. A saved
// selection is restored before orders arrive, so it is in place on return.
func loadAll(ctx context.Context, rt *runtime, sub *state.Subscription) error {
	rt.store.Dispatch(state.LoadUsers{})
	c, err := sub.Until(ctx, state.IsType(state.TypeLoadUsersSuccess, state.TypeLoadUsersFailure))
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	if f, ok := c.Action.(state.LoadUsersFailure); ok {
		return f.Err
	}
	c, err = sub.Until(ctx, state.IsType(state.TypeLoadOrdersSuccess, state.TypeLoadOrdersFailure))
	if err != nil {
		return fmt.Errorf("load orders: %w", err)
	}
	if f, ok := c.Action.(state.LoadOrdersFailure); ok {
		return f.Err
	}
	return nil
}
