package state

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrClosed is returned by Subscription.Next after Close.
var ErrClosed = errors.New("subscription closed")

// Change is published to subscribers after each action is reduced.
type Change struct {
	Action  Action
	State   AppState
	Changed bool
}

// Store owns AppState. Actions are queued by Dispatch and reduced one at a
// time, in dispatch order, by Run. Subscribers see every action after it has
// been applied, in the same order.
type Store struct {
	mu      sync.Mutex
	state   AppState
	queue   []Action
	subs    map[int]*Subscription
	nextSub int
	wake    chan struct{}
	log     *zap.Logger
}

// NewStore returns a store holding initial.
func NewStore(initial AppState, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		state: initial,
		subs:  make(map[int]*Subscription),
		wake:  make(chan struct{}, 1),
		log:   log,
	}
}

// State returns the current state.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch queues a. It never blocks on reduction.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.queue = append(s.queue, a)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Subscribe registers a new change feed. Changes are buffered per
// subscriber, so a slow reader never stalls the store.
func (s *Store) Subscribe() *Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	sub := &Subscription{id: id, store: s, notify: make(chan struct{}, 1)}
	s.subs[id] = sub
	return sub
}

func (s *Store) unsubscribe(id int) {
	s.mu.Lock()
	delete(s.subs, id)
	s.mu.Unlock()
}

// Run reduces queued actions until ctx is done.
func (s *Store) Run(ctx context.Context) error {
	for {
		for s.step() {
		}
		select {
		case <-ctx.Done():
			return nil
		case <-s.wake:
		}
	}
}

// Drain reduces everything currently queued, including actions queued while
// draining. It must not be called while Run is active.
func (s *Store) Drain() {
	for s.step() {
	}
}

func (s *Store) step() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return false
	}
	a := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]

	next, changed := Reduce(s.state, a)
	s.state = next
	if ce := s.log.Check(zap.DebugLevel, "action reduced"); ce != nil {
		ce.Write(zap.String("action", a.Type()), zap.Bool("changed", changed))
	}
	c := Change{Action: a, State: next, Changed: changed}
	for _, sub := range s.subs {
		sub.push(c)
	}
	return true
}

// Subscription is an ordered, unbounded feed of store changes.
type Subscription struct {
	id     int
	store  *Store
	mu     sync.Mutex
	queue  []Change
	closed bool
	notify chan struct{}
}

func (sub *Subscription) push(c Change) {
	sub.mu.Lock()
	if sub.closed {
		sub.mu.Unlock()
		return
	}
	sub.queue = append(sub.queue, c)
	sub.mu.Unlock()
	select {
	case sub.notify <- struct{}{}:
	default:
	}
}

// Next blocks until a change is available, ctx is done or the subscription
// is closed.
func (sub *Subscription) Next(ctx context.Context) (Change, error) {
	for {
		sub.mu.Lock()
		if len(sub.queue) > 0 {
			c := sub.queue[0]
			sub.queue[0] = Change{}
			sub.queue = sub.queue[1:]
			sub.mu.Unlock()
			return c, nil
		}
		closed := sub.closed
		sub.mu.Unlock()
		if closed {
			return Change{}, ErrClosed
		}
		select {
		case <-ctx.Done():
			return Change{}, ctx.Err()
		case <-sub.notify:
		}
	}
}

// Until consumes changes until match returns true and returns that change.
func (sub *Subscription) Until(ctx context.Context, match func(Change) bool) (Change, error) {
	for {
		c, err := sub.Next(ctx)
		if err != nil {
			return Change{}, err
		}
		if match(c) {
			return c, nil
		}
	}
}

// Close detaches the subscription. Pending changes are discarded.
func (sub *Subscription) Close() {
	sub.store.unsubscribe(sub.id)
	sub.mu.Lock()
	sub.closed = true
	sub.queue = nil
	sub.mu.Unlock()
	select {
	case sub.notify <- struct{}{}:
	default:
	}
}

// IsType matches changes whose action has one of the given types.
func IsType(types ...string) func(Change) bool {
	return func(c Change) bool {
		for _, t := range types {
			if c.Action.Type() == t {
				return true
			}
		}
		return false
	}
}
