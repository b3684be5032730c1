package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/BDubDesigns/git-rich-quick/internal/config"
	"go.uber.org/zap"
)

// Dispatched is what the store hands to its Recorder after every action.
type Dispatched struct {
	Action  Action
	Outcome Outcome
	Err     error
	Before  *GameState
	After   *GameState
	At      time.Time
}

// Recorder receives every dispatched action once the store lock is released.
type Recorder interface {
	Record(ctx context.Context, d Dispatched) error
}

// Result is the reply to a single Dispatch.
type Result struct {
	State   *GameState `json:"-"`
	Outcome Outcome    `json:"outcome"`
	Changed bool       `json:"changed"`
}

// Store owns the live game session. All writers go through Dispatch, which holds
// the lock for the whole reduction so actions apply one at a time.
type Store struct {
	mu     sync.RWMutex
	tables *config.Tables
	state  *GameState

	clock Clock
	log   *zap.Logger
	rec   Recorder

	subs   map[int]chan *GameState
	nextID int
}

type Option func(*Store)

func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.rec = r }
}

// WithState starts the store from st instead of a fresh NewState.
func WithState(st *GameState) Option {
	return func(s *Store) { s.state = st }
}

func NewStore(t *config.Tables, opts ...Option) *Store {
	s := &Store{
		tables: t,
		clock:  RealClock{},
		log:    zap.NewNop(),
		subs:   map[int]chan *GameState{},
	}
	for _, o := range opts {
		o(s)
	}
	if s.state == nil {
		s.state = NewState(t)
	}
	for _, u := range t.UnknownConditionKinds() {
		s.log.Error("unknown unlock condition kind; entity will stay locked", zap.String("condition", u))
	}
	return s
}

func (s *Store) Tables() *config.Tables { return s.tables }

func (s *Store) TickInterval() time.Duration { return s.tables.Rules.TickInterval }

func (s *Store) Snapshot() *GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies a to the current state.
func (s *Store) Dispatch(ctx context.Context, a Action) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	a = stamp(a, s.clock)

	s.mu.Lock()
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return Result{}, err
	}
	before := s.state
	next, out, err := Reduce(s.tables, before, a)
	changed := next != before
	if changed {
		s.state = next
		for _, ch := range s.subs {
			offer(ch, next)
		}
	}
	s.mu.Unlock()

	s.logOutcome(a, out, err)
	if s.rec != nil {
		d := Dispatched{Action: a, Outcome: out, Err: err, Before: before, After: next, At: actionTime(a, s.clock)}
		if rerr := s.rec.Record(ctx, d); rerr != nil {
			s.log.Warn("record action", zap.Error(rerr))
		}
	}
	return Result{State: next, Outcome: out, Changed: changed}, err
}

func (s *Store) logOutcome(a Action, out Outcome, err error) {
	var kind ActionKind
	if a != nil {
		kind = a.Kind()
	}
	var uk *UnknownKeyError
	switch {
	case errors.As(err, &uk):
		s.log.Warn("action names unknown key",
			zap.String("action", string(kind)),
			zap.String("entity", string(uk.Entity)),
			zap.String("key", uk.Key))
	case err != nil:
		s.log.Warn("action failed", zap.String("action", string(kind)), zap.Error(err))
	case out.Fallback:
		s.log.Warn("unknown tab, falling back",
			zap.String("tab", a.(SetActiveTab).Tab),
			zap.String("fallback", s.tables.Rules.FallbackTab))
	case !out.Applied:
		s.log.Debug("action rejected", zap.String("action", string(kind)), zap.String("reason", string(out.Reason)))
	}
	for _, u := range out.Unlocked {
		s.log.Info("unlocked", zap.String("entity", u))
	}
}

// Subscribe returns a channel receiving the current snapshot followed by every
// new one. Delivery is latest-wins: when the buffer is full the oldest pending
// snapshot is dropped, so a slow reader never blocks Dispatch.
func (s *Store) Subscribe(buffer int) (<-chan *GameState, func()) {
	ch := make(chan *GameState, max(1, buffer))

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.state
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
}

// offer sends without blocking, evicting queued snapshots until there is room.
// Only the store sends on ch, always under its lock, so the loop terminates.
func offer(ch chan *GameState, st *GameState) {
	for {
		select {
		case ch <- st:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func actionTime(a Action, c Clock) time.Time {
	switch v := a.(type) {
	case ClickCode:
		return v.At
	case Tick:
		return v.At
	default:
		return c.Now()
	}
}
