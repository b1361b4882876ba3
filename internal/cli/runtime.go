package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jask/orderview/internal/config"
	"github.com/jask/orderview/internal/database"
	"github.com/jask/orderview/internal/database/repository"
	"github.com/jask/orderview/internal/effects"
	"github.com/jask/orderview/internal/logging"
	"github.com/jask/orderview/internal/prefs"
	"github.com/jask/orderview/internal/source"
	"github.com/jask/orderview/internal/state"
)

// runtime is a wired store, pipeline and their collaborators.
type runtime struct {
	cfg   config.Config
	log   *zap.Logger
	level zap.AtomicLevel
	db    *sql.DB
	store *state.Store
	view  *state.View
	pipe  *effects.Pipeline
}

type runtimeOptions struct {
	// logToStderr overrides the configured log file for headless commands.
	logToStderr bool
	// readOnlyPrefs keeps the saved selection untouched.
	readOnlyPrefs bool
}

func openRuntime(ctx context.Context, opts *RootOptions, ro runtimeOptions) (*runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	logCfg := cfg.Log
	if ro.logToStderr {
		logCfg.File = "stderr"
		// Keep headless output quiet unless asked otherwise.
		if lvl, err := logging.ParseLevel(logCfg.Level); err == nil && lvl < zap.WarnLevel {
			logCfg.Level = "warn"
		}
	}
	log, level, err := logging.New(logCfg, opts.Verbose)
	if err != nil {
		return nil, err
	}

	rt := &runtime{cfg: cfg, log: log, level: level}
	src, err := rt.source(ctx)
	if err != nil {
		rt.close()
		return nil, err
	}
	kv, err := rt.prefs()
	if err != nil {
		rt.close()
		return nil, err
	}
	if ro.readOnlyPrefs {
		kv = prefs.ReadOnly(kv)
	}

	rt.store = state.NewStore(state.AppState{}, log.Named("store"))
	rt.view = state.NewView(rt.store, log.Named("view"))
	deps := effects.Deps{
		Source:    src,
		Selection: prefs.SelectedUser{Store: kv},
		Log:       log.Named("effects"),
	}
	rt.pipe = effects.New(rt.store, effects.All(deps), log.Named("pipeline"))
	log.Info("runtime ready",
		zap.String("source", cfg.Source.Backend),
		zap.String("prefs", cfg.Prefs.Backend),
	)
	return rt, nil
}

func (rt *runtime) latency() source.Latency {
	return source.Latency{
		Read:   rt.cfg.Source.ReadLatency,
		Write:  rt.cfg.Source.WriteLatency,
		Detail: rt.cfg.Source.DetailLatency,
	}
}

func (rt *runtime) source(ctx context.Context) (source.Source, error) {
	fx, err := source.LoadFixture(rt.cfg.Source.Fixture)
	if err != nil {
		return nil, err
	}
	switch rt.cfg.Source.Backend {
	case "sqlite":
		db, err := rt.database()
		if err != nil {
			return nil, err
		}
		users, orders := fx.Rows()
		if err := database.SeedDefaults(ctx, db, users, orders); err != nil {
			return nil, fmt.Errorf("seed database: %w", err)
		}
		return &source.SQL{
			Users:   repository.NewUserRepo(db),
			Orders:  repository.NewOrderRepo(db),
			Latency: rt.latency(),
		}, nil
	default:
		return source.NewMock(fx, rt.latency(), rt.log.Named("source")), nil
	}
}

func (rt *runtime) prefs() (prefs.Store, error) {
	switch rt.cfg.Prefs.Backend {
	case "sqlite":
		db, err := rt.database()
		if err != nil {
			return nil, err
		}
		return &prefs.SQLStore{Prefs: repository.NewPrefRepo(db)}, nil
	case "memory":
		return prefs.NewMemStore(), nil
	default:
		path := rt.cfg.Prefs.Path
		if path == "" {
			p, err := prefs.DefaultPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return prefs.NewFileStore(path), nil
	}
}

func (rt *runtime) database() (*sql.DB, error) {
	if rt.db != nil {
		return rt.db, nil
	}
	db, err := database.Prepare(rt.cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	rt.db = db
	return db, nil
}

// start runs the store and the pipeline until ctx is done. The returned
// wait blocks until both have stopped.
func (rt *runtime) start(ctx context.Context) (wait func() error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return rt.store.Run(gctx) })
	g.Go(func() error { return rt.pipe.Run(gctx) })
	return func() error {
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
}

func (rt *runtime) close() {
	if rt.db != nil {
		_ = rt.db.Close()
	}
	if rt.log != nil {
		_ = rt.log.Sync()
	}
}
