package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jask/orderview/internal/config"
	"github.com/jask/orderview/internal/database"
	"github.com/jask/orderview/internal/database/repository"
	"github.com/jask/orderview/internal/service"
	"github.com/jask/orderview/internal/source"
	"github.com/jask/orderview/internal/testdata"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import users and orders into the sqlite database",
		Long: `Reads rows of user_id, user_name, order_id, total. The database is the
one named by database.path; set source.backend = "sqlite" to browse it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runImport(cmd.Context(), rootOpts, args[0])
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), rootOpts.Format, res)
		},
	}
}

type importOutput struct {
	Users    int      `json:"users"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

func (o importOutput) Text() string {
	s := fmt.Sprintf("imported %d orders for %d users, skipped %d", o.Imported, o.Users, o.Skipped)
	if len(o.Errors) > 0 {
		s += fmt.Sprintf(", errors %d:\n  %s", len(o.Errors), strings.Join(o.Errors, "\n  "))
	}
	return s
}

func runImport(ctx context.Context, opts *RootOptions, path string) (importOutput, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return importOutput{}, err
	}
	db, err := database.Prepare(cfg.Database.Path)
	if err != nil {
		return importOutput{}, err
	}
	defer db.Close()

	f, err := os.Open(path)
	if err != nil {
		return importOutput{}, fmt.Errorf("open import file: %w", err)
	}
	defer f.Close()

	svc := &service.ImportService{Users: repository.NewUserRepo(db), Orders: repository.NewOrderRepo(db)}
	res, err := svc.ImportCSV(ctx, f)
	if err != nil {
		return importOutput{}, err
	}
	out := importOutput{Users: res.Users, Imported: res.Imported, Skipped: res.Skipped}
	for _, e := range res.Errors {
		out.Errors = append(out.Errors, e.Error())
	}
	return out, nil
}

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		seed     bool
		generate int
	)
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe the sqlite database, optionally reloading the fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runReset(cmd.Context(), rootOpts, seed, generate); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "database reset")
			return err
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "reload the configured fixture after wiping")
	cmd.Flags().IntVar(&generate, "generate", 0, "load this many synthetic users instead of the fixture")
	return cmd
}

func runReset(ctx context.Context, opts *RootOptions, seed bool, generate int) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	db, err := database.Prepare(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := &service.MaintenanceService{DB: db}
	var fx source.Fixture
	switch {
	case generate > 0:
		fx = testdata.Generate(time.Now().UnixNano(), generate, 8)
	case seed:
		if fx, err = source.LoadFixture(cfg.Source.Fixture); err != nil {
			return err
		}
	default:
		return svc.Reset(ctx)
	}
	users, orders := fx.Rows()
	return svc.Reseed(ctx, users, orders)
}
