package ticker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BDubDesigns/git-rich-quick/internal/config"
	"github.com/BDubDesigns/git-rich-quick/internal/game"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// manualSource hands the test control over when ticks fire.
func manualSource(ch chan time.Time) Source {
	return func(time.Duration) (<-chan time.Time, func()) {
		return ch, func() {}
	}
}

type countingDispatcher struct {
	mu    sync.Mutex
	ticks int
	fail  error
	seen  chan struct{}
}

func (c *countingDispatcher) Dispatch(_ context.Context, a game.Action) (game.Result, error) {
	c.mu.Lock()
	if _, ok := a.(game.Tick); ok {
		c.ticks++
	}
	fail := c.fail
	c.mu.Unlock()
	c.seen <- struct{}{}
	return game.Result{}, fail
}

func TestRunDispatchesOneTickPerSignal(t *testing.T) {
	tables := config.Default()
	clock := game.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	st := game.NewState(&tables)
	st.Employees["intern"] = game.EmployeeState{Count: 2}
	store := game.NewStore(&tables, game.WithClock(clock), game.WithState(st))

	ticks := make(chan time.Time)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, store, time.Second, WithSource(manualSource(ticks))) }()

	for i := 0; i < 3; i++ {
		ticks <- clock.Advance(time.Second)
	}
	require.Eventually(t, func() bool {
		return store.Snapshot().LinesOfCode.Equal(decimal.NewFromInt(6))
	}, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}

func TestRunContinuesAfterDispatchError(t *testing.T) {
	d := &countingDispatcher{fail: errors.New("boom"), seen: make(chan struct{}, 8)}
	ticks := make(chan time.Time)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, d, time.Second, WithSource(manualSource(ticks))) }()

	ticks <- time.Time{}
	<-d.seen
	ticks <- time.Time{}
	<-d.seen
	cancel()
	require.NoError(t, <-done)

	d.mu.Lock()
	defer d.mu.Unlock()
	assert.Equal(t, 2, d.ticks)
}

func TestRunStopsWhenSourceCloses(t *testing.T) {
	d := &countingDispatcher{seen: make(chan struct{}, 1)}
	ticks := make(chan time.Time)
	close(ticks)
	assert.NoError(t, Run(context.Background(), d, time.Second, WithSource(manualSource(ticks))))
}

func TestRunWithRealTicker(t *testing.T) {
	d := &countingDispatcher{seen: make(chan struct{}, 64)}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, d, 5*time.Millisecond) }()

	<-d.seen
	<-d.seen
	cancel()
	require.NoError(t, <-done)
}

func TestRunRejectsNonPositiveInterval(t *testing.T) {
	err := Run(context.Background(), &countingDispatcher{}, 0)
	assert.ErrorContains(t, err, "must be positive")
}
