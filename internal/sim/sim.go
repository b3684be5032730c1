// Package sim plays the game headlessly against a fake clock. It drives the
// same Store the server uses, so balance changes can be judged by how long the
// unlocks take to arrive.
package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BDubDesigns/git-rich-quick/internal/config"
	"github.com/BDubDesigns/git-rich-quick/internal/game"
	"go.uber.org/zap"
)

type Strategy string

const (
	// StrategyIdle only clicks; ticks do the rest.
	StrategyIdle Strategy = "idle"
	// StrategyGreedy spends everything it can after every second of play.
	StrategyGreedy Strategy = "greedy"
)

// maxMovesPerSecond bounds the greedy spending loop.
const maxMovesPerSecond = 1000

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyIdle:
		return StrategyIdle, nil
	case StrategyGreedy, "":
		return StrategyGreedy, nil
	}
	return "", fmt.Errorf("unknown strategy %q (want greedy or idle)", s)
}

type Config struct {
	Seconds  int
	CPS      int
	Strategy Strategy
	Logger   *zap.Logger
}

// Unlock is one latch opening, timed from the start of the run.
type Unlock struct {
	After time.Duration `json:"after"`
	Key   string        `json:"key"`
}

type Report struct {
	Seconds       int              `json:"seconds"`
	Strategy      Strategy         `json:"strategy"`
	Clicks        int              `json:"clicks"`
	Hires         map[string]int64 `json:"hires"`
	MoneySpent    int64            `json:"moneySpent"`
	MoneyEarned   int64            `json:"moneyEarned"`
	Projects      map[string]int64 `json:"projects"`
	Contributions map[string]int   `json:"contributions"`
	Unlocks       []Unlock         `json:"unlocks"`
	Final         game.View        `json:"final"`
}

// Run plays cfg.Seconds seconds. Each second spreads cfg.CPS clicks evenly,
// lets the strategy act, then ticks.
func Run(ctx context.Context, t *config.Tables, cfg Config) (Report, error) {
	if cfg.Seconds <= 0 {
		return Report{}, errors.New("seconds must be positive")
	}
	if cfg.CPS < 0 {
		return Report{}, errors.New("cps must not be negative")
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyGreedy
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	clock := game.NewFakeClock(epoch)
	p := &player{
		store: game.NewStore(t, game.WithClock(clock), game.WithLogger(cfg.Logger)),
		clock: clock,
		report: Report{
			Seconds:       cfg.Seconds,
			Strategy:      cfg.Strategy,
			Hires:         make(map[string]int64),
			Projects:      make(map[string]int64),
			Contributions: make(map[string]int),
		},
	}

	tick := t.Rules.TickInterval
	var gap time.Duration
	if cfg.CPS > 0 {
		gap = tick / time.Duration(cfg.CPS+1)
	}

	for sec := 0; sec < cfg.Seconds; sec++ {
		start := clock.Now()
		for i := 0; i < cfg.CPS; i++ {
			clock.Set(start.Add(gap * time.Duration(i+1)))
			if _, err := p.do(ctx, game.ClickCode{}); err != nil {
				return Report{}, err
			}
			p.report.Clicks++
		}
		if cfg.Strategy == StrategyGreedy {
			if err := p.spend(ctx); err != nil {
				return Report{}, err
			}
		}
		clock.Set(start.Add(tick))
		if _, err := p.do(ctx, game.Tick{}); err != nil {
			return Report{}, err
		}
	}

	p.report.Final = game.Describe(t, p.store.Snapshot())
	cfg.Logger.Debug("simulation finished",
		zap.Int("seconds", cfg.Seconds),
		zap.String("strategy", string(cfg.Strategy)),
		zap.Int("unlocks", len(p.report.Unlocks)))
	return p.report, nil
}

type player struct {
	store  *game.Store
	clock  *game.FakeClock
	report Report
}

func (p *player) do(ctx context.Context, a game.Action) (game.Result, error) {
	before := p.store.Snapshot()
	res, err := p.store.Dispatch(ctx, a)
	if err != nil {
		return res, fmt.Errorf("%s: %w", a.Kind(), err)
	}
	for _, k := range res.Outcome.Unlocked {
		p.report.Unlocks = append(p.report.Unlocks, Unlock{After: p.clock.Now().Sub(epoch), Key: k})
	}
	if !res.Outcome.Applied {
		return res, nil
	}
	switch a := a.(type) {
	case game.BuyEmployee:
		p.report.Hires[a.Type]++
		p.report.MoneySpent += before.Money - res.State.Money
	case game.CompleteProject:
		p.report.Projects[a.Key]++
		p.report.MoneyEarned += res.State.Money - before.Money
	case game.ContributeToProject:
		p.report.Contributions[a.ID]++
	}
	return res, nil
}

// spend makes greedy moves until none is left: open source contributions
// first, then the cheapest hire, then the best paying freelance project.
func (p *player) spend(ctx context.Context) error {
	t := p.store.Tables()
	for range maxMovesPerSecond {
		a := nextMove(game.Describe(t, p.store.Snapshot()))
		if a == nil {
			return nil
		}
		res, err := p.do(ctx, a)
		if err != nil {
			return err
		}
		if !res.Outcome.Applied {
			return nil
		}
	}
	return nil
}

func nextMove(v game.View) game.Action {
	for _, o := range v.OpenSource {
		if o.CanContribute {
			return game.ContributeToProject{ID: o.ID}
		}
	}

	var hire *game.EmployeeView
	for i := range v.Employees {
		e := &v.Employees[i]
		if e.Affordable && (hire == nil || e.Cost < hire.Cost) {
			hire = e
		}
	}
	if hire != nil {
		return game.BuyEmployee{Type: hire.Key}
	}

	var gig *game.FreelanceView
	for i := range v.Freelance {
		f := &v.Freelance[i]
		if !f.Affordable || f.LOC <= 0 || f.Reward <= 0 {
			continue
		}
		// best reward per line
		if gig == nil || f.Reward*gig.LOC > gig.Reward*f.LOC {
			gig = f
		}
	}
	if gig != nil {
		return game.CompleteProject{Key: gig.Key}
	}
	return nil
}
