// Package effects runs the asynchronous reactions to store actions: data
// source calls, cross-entity cascades and selection persistence.
package effects

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jask/orderview/internal/state"
)

// Policy decides what happens when a trigger arrives while an earlier run of
// the same effect is still in flight.
type Policy int

const (
	// Inline runs the effect synchronously on the pipeline goroutine.
	Inline Policy = iota
	// Exhaust drops triggers while a run is in flight.
	Exhaust
	// Switch cancels the in-flight run and discards anything it emits later.
	Switch
	// Merge runs every trigger concurrently.
	Merge
)

func (p Policy) String() string {
	switch p {
	case Inline:
		return "inline"
	case Exhaust:
		return "exhaust"
	case Switch:
		return "switch"
	case Merge:
		return "merge"
	default:
		return "unknown"
	}
}

// Output is how a running effect talks back to the store.
type Output interface {
	// Emit dispatches a follow-on action. It reports false when the run has
	// been superseded or cancelled and the action was dropped.
	Emit(a state.Action) bool
	// Guard runs fn only while the run is still current. Under Switch no
	// newer run can start emitting while fn executes.
	Guard(fn func()) bool
}

// Effect reacts to the action types in On.
type Effect struct {
	Name   string
	On     []string
	Policy Policy
	Run    func(ctx context.Context, a state.Action, out Output)
}

// Pipeline feeds store changes to effects.
type Pipeline struct {
	store   *state.Store
	sub     *state.Subscription
	runners []*runner
	log     *zap.Logger
}

// New subscribes to store immediately, so actions dispatched before Run
// starts are still seen.
func New(store *state.Store, effects []Effect, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Pipeline{store: store, sub: store.Subscribe(), log: log}
	for _, e := range effects {
		p.runners = append(p.runners, &runner{Effect: e})
	}
	return p
}

// Run dispatches changes to effects until ctx is done, then waits for every
// in-flight run to return.
func (p *Pipeline) Run(ctx context.Context) error {
	defer p.sub.Close()
	g, gctx := errgroup.WithContext(ctx)
	for {
		c, err := p.sub.Next(ctx)
		if err != nil {
			break
		}
		for _, r := range p.runners {
			if r.matches(c.Action) {
				p.trigger(gctx, g, r, c.Action)
			}
		}
	}
	return g.Wait()
}

type runner struct {
	Effect

	busy atomic.Bool

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

func (r *runner) matches(a state.Action) bool {
	t := a.Type()
	for _, on := range r.On {
		if on == t {
			return true
		}
	}
	return false
}

func (p *Pipeline) trigger(ctx context.Context, g *errgroup.Group, r *runner, a state.Action) {
	switch r.Policy {
	case Inline:
		r.Run(ctx, a, &output{ctx: ctx, store: p.store})
	case Exhaust:
		if !r.busy.CompareAndSwap(false, true) {
			p.log.Debug("effect busy, trigger dropped", zap.String("effect", r.Name), zap.String("action", a.Type()))
			return
		}
		idle := sync.OnceFunc(func() { r.busy.Store(false) })
		p.spawn(ctx, g, r, a, &output{ctx: ctx, store: p.store, settle: idle}, idle)
	case Switch:
		r.mu.Lock()
		if r.cancel != nil {
			r.cancel()
		}
		r.gen++
		gen := r.gen
		tctx, cancel := context.WithCancel(ctx)
		r.cancel = cancel
		r.mu.Unlock()
		out := &output{ctx: tctx, store: p.store, current: func() bool { return r.gen == gen }, mu: &r.mu}
		g.Go(func() error {
			defer cancel()
			p.execute(tctx, r, a, out)
			return nil
		})
	case Merge:
		p.spawn(ctx, g, r, a, &output{ctx: ctx, store: p.store}, nil)
	}
}

func (p *Pipeline) spawn(ctx context.Context, g *errgroup.Group, r *runner, a state.Action, out Output, done func()) {
	g.Go(func() error {
		if done != nil {
			defer done()
		}
		p.execute(ctx, r, a, out)
		return nil
	})
}

func (p *Pipeline) execute(ctx context.Context, r *runner, a state.Action, out Output) {
	taskID := uuid.NewString()
	log := p.log.With(zap.String("effect", r.Name), zap.String("task", taskID))
	start := time.Now()
	log.Debug("effect started", zap.String("action", a.Type()), zap.Stringer("policy", r.Policy))
	r.Run(ctx, a, out)
	log.Debug("effect finished", zap.Duration("took", time.Since(start)))
}

// output drops emissions once its context is done. For Switch runs it also
// checks the generation under the runner lock. settle runs before each
// dispatch; Exhaust uses it to go idle before its result is visible.
type output struct {
	ctx     context.Context
	store   *state.Store
	mu      *sync.Mutex
	current func() bool
	settle  func()
}

func (o *output) Guard(fn func()) bool {
	if o.mu != nil {
		o.mu.Lock()
		defer o.mu.Unlock()
		if !o.current() {
			return false
		}
	}
	if o.ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

func (o *output) Emit(a state.Action) bool {
	return o.Guard(func() {
		if o.settle != nil {
			o.settle()
		}
		o.store.Dispatch(a)
	})
}
