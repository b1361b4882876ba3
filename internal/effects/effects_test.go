package effects

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/jask/orderview/internal/prefs"
	"github.com/jask/orderview/internal/source"
	"github.com/jask/orderview/internal/state"
	"github.com/jask/orderview/internal/testdata"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const waitFor = 2 * time.Second

// harness runs a store and a pipeline with separate lifetimes so tests can
// stop the pipeline, let every in-flight run finish, and only then inspect
// what reached the store.
type harness struct {
	t         *testing.T
	store     *state.Store
	sub       *state.Subscription
	prefs     *prefs.MemStore
	stopPipe  context.CancelFunc
	stopStore context.CancelFunc
	pipeDone  chan error
	storeDone chan error
	release   func()
	stopped   bool
}

func newHarness(t *testing.T, src source.Source, extra ...Effect) *harness {
	t.Helper()
	log := zaptest.NewLogger(t)
	h := &harness{
		t:         t,
		store:     state.NewStore(state.AppState{}, log),
		prefs:     prefs.NewMemStore(),
		pipeDone:  make(chan error, 1),
		storeDone: make(chan error, 1),
		release:   func() {},
	}
	h.sub = h.store.Subscribe()
	d := Deps{Source: src, Selection: prefs.SelectedUser{Store: h.prefs}, Log: log}
	p := New(h.store, append(All(d), extra...), log)

	pctx, pcancel := context.WithCancel(context.Background())
	sctx, scancel := context.WithCancel(context.Background())
	h.stopPipe, h.stopStore = pcancel, scancel
	go func() { h.pipeDone <- p.Run(pctx) }()
	go func() { h.storeDone <- h.store.Run(sctx) }()
	t.Cleanup(h.stop)
	return h
}

// stop shuts the pipeline down, then the store, then applies anything the
// last runs dispatched.
func (h *harness) stop() {
	if h.stopped {
		return
	}
	h.stopped = true
	h.release()
	h.stopPipe()
	require.NoError(h.t, <-h.pipeDone)
	h.stopStore()
	require.NoError(h.t, <-h.storeDone)
	h.store.Drain()
}

// until consumes changes until one whose type is in types arrives.
func (h *harness) until(types ...string) state.Change {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	c, err := h.sub.Until(ctx, state.IsType(types...))
	require.NoError(h.t, err, "waiting for %v", types)
	return c
}

// untilAll consumes changes until every type has been seen once.
func (h *harness) untilAll(types ...string) {
	h.t.Helper()
	pending := make(map[string]bool, len(types))
	for _, typ := range types {
		pending[typ] = true
	}
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	for len(pending) > 0 {
		c, err := h.sub.Next(ctx)
		require.NoError(h.t, err, "still waiting for %v", pending)
		delete(pending, c.Action.Type())
	}
}

// rest returns every change still buffered on the subscription.
func (h *harness) rest() []state.Change {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var out []state.Change
	for {
		c, err := h.sub.Next(ctx)
		if err != nil {
			return out
		}
		out = append(out, c)
	}
}

func (h *harness) summary() state.Summary {
	return state.NewSelectors().SelectedUserSummary(h.store.State())
}

// gated blocks chosen source calls until released. It ignores ctx while
// blocked, so a superseded call still completes and tries to emit.
type gated struct {
	*source.Mock

	mu    sync.Mutex
	gates map[string]*gate
}

type gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGated() *gated {
	return &gated{Mock: source.NewMock(source.DefaultFixture(), source.Latency{}, nil), gates: map[string]*gate{}}
}

func (g *gated) hold(key string) *gate {
	g.mu.Lock()
	defer g.mu.Unlock()
	gt := &gate{entered: make(chan struct{}, 8), release: make(chan struct{})}
	g.gates[key] = gt
	return gt
}

func (g *gated) releaseAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, gt := range g.gates {
		gt.open()
	}
}

func (gt *gate) open() { gt.once.Do(func() { close(gt.release) }) }

func (gt *gate) waitEntered(t *testing.T) {
	t.Helper()
	select {
	case <-gt.entered:
	case <-time.After(waitFor):
		t.Fatal("source call never started")
	}
}

func (g *gated) pass(key string) {
	g.mu.Lock()
	gt := g.gates[key]
	g.mu.Unlock()
	if gt == nil {
		return
	}
	gt.entered <- struct{}{}
	<-gt.release
}

func (g *gated) ListUsers(ctx context.Context) ([]state.User, error) {
	g.pass("users")
	return g.Mock.ListUsers(context.WithoutCancel(ctx))
}

func (g *gated) GetUser(ctx context.Context, id int64) (state.User, bool, error) {
	g.pass(fmt.Sprintf("user:%d", id))
	return g.Mock.GetUser(context.WithoutCancel(ctx), id)
}

// probe signals once the pipeline has handed an action of type typ to every
// effect registered before it.
func probe(typ string) (Effect, <-chan struct{}) {
	seen := make(chan struct{}, 16)
	return Effect{
		Name:   "probe",
		On:     []string{typ},
		Policy: Inline,
		Run: func(context.Context, state.Action, Output) {
			seen <- struct{}{}
		},
	}, seen
}

func TestLoadThenSelectShowsSummary(t *testing.T) {
	src := source.NewMock(source.DefaultFixture(), source.Latency{}, nil)
	h := newHarness(t, src)

	h.store.Dispatch(state.LoadUsers{})
	h.untilAll(state.TypeLoadUsersSuccess, state.TypeLoadOrders, state.TypeLoadOrdersSuccess)
	require.Equal(t, 4, state.TotalUsers(h.store.State()))
	require.Equal(t, state.Summary{}, h.summary())

	h.store.Dispatch(state.SelectUser{UserID: state.ID(1)})
	h.until(state.TypeLoadUserDetailsSuccess)
	require.Equal(t, state.Summary{UserName: "John Doe", TotalOrdersAmount: 1300}, h.summary())

	require.Eventually(t, func() bool {
		v, ok, _ := h.prefs.Get(context.Background(), prefs.SelectedUserKey)
		return ok && v == "1"
	}, waitFor, 5*time.Millisecond)

	h.store.Dispatch(state.SelectUser{})
	require.Eventually(t, func() bool {
		_, ok, _ := h.prefs.Get(context.Background(), prefs.SelectedUserKey)
		return !ok
	}, waitFor, 5*time.Millisecond)
	require.Equal(t, state.Summary{}, h.summary())
}

func TestSwitchDropsSupersededDetails(t *testing.T) {
	src := newGated()
	two, three := src.hold("user:2"), src.hold("user:3")
	h := newHarness(t, src)
	h.release = src.releaseAll

	h.store.Dispatch(state.SelectUser{UserID: state.ID(2)})
	two.waitEntered(t)
	h.store.Dispatch(state.SelectUser{UserID: state.ID(3)})
	three.waitEntered(t)

	three.open()
	c := h.until(state.TypeLoadUserDetailsSuccess)
	require.Equal(t, int64(3), c.Action.(state.LoadUserDetailsSuccess).User.ID)

	two.open()
	h.stop()
	for _, c := range h.rest() {
		switch a := c.Action.(type) {
		case state.LoadUserDetailsSuccess:
			t.Fatalf("stale details applied for user %d", a.User.ID)
		case state.LoadUserDetailsFailure:
			t.Fatalf("stale failure applied: %v", a.Err)
		}
	}
	s := h.store.State()
	require.False(t, state.UserExists(s, 2))
	id, ok := state.SelectedUserID(s)
	require.True(t, ok)
	require.Equal(t, int64(3), id)
	require.NoError(t, s.Users.Err)
	require.Equal(t, 2, src.Calls(source.OpGetUser))
}

func TestClearSelectionDropsDetailsInFlight(t *testing.T) {
	src := newGated()
	two := src.hold("user:2")
	p, seen := probe(state.TypeSelectUser)
	h := newHarness(t, src, p)
	h.release = src.releaseAll

	h.store.Dispatch(state.SelectUser{UserID: state.ID(2)})
	two.waitEntered(t)
	h.store.Dispatch(state.SelectUser{})
	for i := 0; i < 2; i++ {
		select {
		case <-seen:
		case <-time.After(waitFor):
			t.Fatal("pipeline did not see both selections")
		}
	}

	two.open()
	h.stop()
	for _, c := range h.rest() {
		switch a := c.Action.(type) {
		case state.LoadUserDetailsSuccess:
			t.Fatalf("details applied after clear for user %d", a.User.ID)
		case state.LoadUserDetailsFailure:
			t.Fatalf("failure applied after clear: %v", a.Err)
		}
	}
	s := h.store.State()
	require.False(t, state.UserExists(s, 2))
	require.Nil(t, s.Users.SelectedUserID)
	require.False(t, s.Users.Loading)
	require.NoError(t, s.Users.Err)
	require.Equal(t, 1, src.Calls(source.OpGetUser))
}

func TestExhaustMakesOneCall(t *testing.T) {
	src := newGated()
	users := src.hold("users")
	p, seen := probe(state.TypeLoadUsers)
	h := newHarness(t, src, p)
	h.release = src.releaseAll

	h.store.Dispatch(state.LoadUsers{})
	h.store.Dispatch(state.LoadUsers{})
	for i := 0; i < 2; i++ {
		select {
		case <-seen:
		case <-time.After(waitFor):
			t.Fatal("pipeline did not see both triggers")
		}
	}
	users.waitEntered(t)
	users.open()
	h.untilAll(state.TypeLoadUsersSuccess, state.TypeLoadOrdersSuccess)
	h.stop()

	require.Equal(t, 1, src.Calls(source.OpListUsers))
	for _, c := range h.rest() {
		require.NotEqual(t, state.TypeLoadUsersSuccess, c.Action.Type())
	}
	require.Equal(t, 4, state.TotalUsers(h.store.State()))
}

func TestRestoresSavedSelection(t *testing.T) {
	src := source.NewMock(source.DefaultFixture(), source.Latency{}, nil)
	h := newHarness(t, src)
	require.NoError(t, h.prefs.Set(context.Background(), prefs.SelectedUserKey, "3"))

	h.store.Dispatch(state.LoadUsers{})
	h.untilAll(state.TypeLoadOrdersSuccess, state.TypeLoadUserDetailsSuccess)

	id, ok := state.SelectedUserID(h.store.State())
	require.True(t, ok)
	require.Equal(t, int64(3), id)
	require.Equal(t, state.Summary{UserName: "Bob Johnson", TotalOrdersAmount: 830}, h.summary())
}

func TestRestoredSelectionOfMissingUserIsEmpty(t *testing.T) {
	src := source.NewMock(source.DefaultFixture(), source.Latency{}, nil)
	h := newHarness(t, src)
	require.NoError(t, h.prefs.Set(context.Background(), prefs.SelectedUserKey, "99"))

	h.store.Dispatch(state.LoadUsers{})
	h.untilAll(state.TypeLoadOrdersSuccess, state.TypeLoadUserDetailsFailure)

	s := h.store.State()
	require.Equal(t, state.Summary{}, h.summary())
	require.ErrorIs(t, s.Users.Err, state.ErrUserNotFound)
	require.Equal(t, state.DetailNotFound, state.KindOf(s.Users.Err))
	require.False(t, s.Users.Loading)
}

func TestFailureDoesNotStopEffect(t *testing.T) {
	src := source.NewMock(source.DefaultFixture(), source.Latency{}, nil)
	src.FailNext(source.OpListUsers, errors.New("boom"))
	h := newHarness(t, src)

	h.store.Dispatch(state.LoadUsers{})
	c := h.until(state.TypeLoadUsersFailure)
	require.ErrorIs(t, c.Action.(state.LoadUsersFailure).Err, source.ErrTransport)
	require.Equal(t, state.LoadFailure, state.KindOf(h.store.State().Users.Err))

	h.store.Dispatch(state.LoadUsers{})
	h.untilAll(state.TypeLoadUsersSuccess, state.TypeLoadOrdersSuccess)
	s := h.store.State()
	require.NoError(t, s.Users.Err)
	require.Equal(t, 4, state.TotalUsers(s))
	require.Equal(t, 2, src.Calls(source.OpListUsers))
}

func TestMergeRunsWritesConcurrently(t *testing.T) {
	src := source.NewMock(source.DefaultFixture(), source.Latency{Write: 100 * time.Millisecond}, nil)
	h := newHarness(t, src)
	h.store.Dispatch(state.LoadUsers{})
	h.untilAll(state.TypeLoadUsersSuccess, state.TypeLoadOrdersSuccess)

	start := time.Now()
	h.store.Dispatch(state.AddUser{User: state.User{ID: 5, Name: "Eve"}})
	h.store.Dispatch(state.AddUser{User: state.User{ID: 6, Name: "Mallory"}})
	h.store.Dispatch(state.DeleteOrder{OrderID: 101})
	for i := 0; i < 3; i++ {
		h.until(state.TypeAddUserSuccess, state.TypeDeleteOrderSuccess)
	}
	require.Less(t, time.Since(start), 250*time.Millisecond)

	s := h.store.State()
	require.True(t, state.UserExists(s, 5))
	require.True(t, state.UserExists(s, 6))
	_, ok := s.Orders.Orders.Get(101)
	require.False(t, ok)
}

func TestWriteFailureKinds(t *testing.T) {
	src := source.NewMock(source.DefaultFixture(), source.Latency{}, nil)
	src.FailNext(source.OpUpdateOrder, errors.New("nope"))
	src.FailNext(source.OpDeleteUser, errors.New("nope"))
	h := newHarness(t, src)

	h.store.Dispatch(state.UpdateOrder{Order: state.Order{ID: 101, UserID: 1, Total: 1}})
	h.until(state.TypeUpdateOrderFailure)
	require.Equal(t, state.UpdateFailure, state.KindOf(h.store.State().Orders.Err))

	h.store.Dispatch(state.DeleteUser{UserID: 1})
	h.until(state.TypeDeleteUserFailure)
	require.Equal(t, state.DeleteFailure, state.KindOf(h.store.State().Users.Err))
}

func TestSummaryOverGeneratedData(t *testing.T) {
	fx := testdata.Generate(7, 200, 10)
	h := newHarness(t, source.NewMock(fx, source.Latency{}, nil))
	h.store.Dispatch(state.LoadUsers{})
	h.untilAll(state.TypeLoadUsersSuccess, state.TypeLoadOrdersSuccess)

	for _, id := range []int64{1, 57, 200} {
		want := 0.0
		for _, o := range fx.Orders {
			if o.UserID == id {
				want += o.Total
			}
		}
		h.store.Dispatch(state.SelectUser{UserID: state.ID(id)})
		h.until(state.TypeSelectUser)
		got := h.summary()
		require.Equal(t, fx.Users[id-1].Name, got.UserName)
		require.InDelta(t, want, got.TotalOrdersAmount, 1e-6)
	}
}
