// Package ticker drives passive production: one Tick action per interval for as
// long as the game session lives.
package ticker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BDubDesigns/git-rich-quick/internal/game"
	"go.uber.org/zap"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, a game.Action) (game.Result, error)
}

// Source yields tick signals and a stop function.
type Source func(interval time.Duration) (<-chan time.Time, func())

func realSource(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

type options struct {
	source Source
	log    *zap.Logger
}

type Option func(*options)

func WithSource(s Source) Option {
	return func(o *options) { o.source = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// Run dispatches a Tick on every signal from the source until ctx is done. A
// failed dispatch is logged and the loop carries on. Run returns nil on
// cancellation.
func Run(ctx context.Context, d Dispatcher, interval time.Duration, opts ...Option) error {
	if interval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", interval)
	}
	o := options{source: realSource, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	ticks, stop := o.source(interval)
	defer stop()
	o.log.Info("ticker started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			o.log.Info("ticker stopped")
			return nil
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			if _, err := d.Dispatch(ctx, game.Tick{}); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				o.log.Warn("tick dispatch failed", zap.Error(err))
			}
		}
	}
}
