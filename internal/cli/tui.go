package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/orderview/internal/config"
	"github.com/jask/orderview/internal/logging"
	"github.com/jask/orderview/internal/tui"
)

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive viewer (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), rootOpts)
		},
	}
}

func runTUI(ctx context.Context, opts *RootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt, err := openRuntime(ctx, opts, runtimeOptions{})
	if err != nil {
		return err
	}
	defer rt.close()
	watchLogLevel(opts, rt)

	sub := rt.store.Subscribe()
	wait := rt.start(ctx)
	app := tui.New(ctx, rt.view, sub, rt.cfg.UI, rt.log.Named("tui"))
	_, runErr := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()

	cancel()
	if err := wait(); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("tui: %w", runErr)
	}
	return nil
}

// watchLogLevel applies log level edits to the running process.
func watchLogLevel(opts *RootOptions, rt *runtime) {
	if opts.Verbose {
		return
	}
	_, err := config.Watch(opts.ConfigPath, func(c config.Config) {
		lvl, err := logging.ParseLevel(c.Log.Level)
		if err != nil {
			rt.log.Warn("ignoring log level", zap.Error(err))
			return
		}
		if lvl != rt.level.Level() {
			rt.level.SetLevel(lvl)
			rt.log.Info("log level changed", zap.Stringer("level", lvl))
		}
	}, func(err error) {
		rt.log.Warn("config reload failed", zap.Error(err))
	})
	if err != nil {
		rt.log.Warn("config watch", zap.Error(err))
	}
}
