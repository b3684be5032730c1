package game

import (
	"math"
	"time"

	"github.com/BDubDesigns/git-rich-quick/internal/config"
	"github.com/shopspring/decimal"
)

var (
	one      = decimal.NewFromInt(1)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// EmployeeCost is round(baseCost * costMultiplier^owned) in cents. The curve is
// computed in decimal so repeated purchases never drift. Costs past the int64
// range are reported as math.MaxInt64, which no purchase can pay.
func EmployeeCost(t *config.Tables, typ string, st *GameState) (int64, error) {
	cfg, ok := t.Employee(typ)
	if !ok {
		return 0, &UnknownKeyError{Entity: EntityEmployee, Key: typ}
	}
	return costAt(cfg, st.Employees[typ].Count), nil
}

func costAt(cfg config.EmployeeConfig, owned int64) int64 {
	growth := decimal.NewFromFloat(cfg.CostMultiplier).Pow(decimal.NewFromInt(owned))
	cost := decimal.NewFromInt(cfg.BaseCost).Mul(growth).Round(0)
	if cost.GreaterThanOrEqual(maxCents) {
		return math.MaxInt64
	}
	return cost.IntPart()
}

// payable reports whether st can pay cost. A saturated cost is never payable.
func payable(st *GameState, cost int64) bool {
	return cost < math.MaxInt64 && st.Money >= cost
}

// addCents adds without wrapping; balances saturate at math.MaxInt64.
func addCents(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func TotalEmployeeCount(st *GameState) int64 {
	var n int64
	for _, e := range st.Employees {
		n += e.Count
	}
	return n
}

// BaseLOCPerSecond is production before open-source bonuses.
func BaseLOCPerSecond(t *config.Tables, st *GameState) decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Employees {
		n := st.Employees[e.Key].Count
		if n == 0 {
			continue
		}
		total = total.Add(decimal.NewFromFloat(e.LOCPerSecond).Mul(decimal.NewFromInt(n)))
	}
	return total
}

// BonusTotal sums the bonuses of kind granted by the levels each open-source
// project has reached (indices 0..level-1).
func BonusTotal(t *config.Tables, st *GameState, kind config.BonusKind) decimal.Decimal {
	total := decimal.Zero
	for _, p := range t.OpenSourceProjects {
		level := min(st.OpenSourceProjects[p.ID].Level, len(p.Levels))
		for _, l := range p.Levels[:level] {
			if l.Bonus.Kind == kind {
				total = total.Add(decimal.NewFromFloat(l.Bonus.Value))
			}
		}
	}
	return total
}

func LOCPerClick(t *config.Tables, st *GameState) decimal.Decimal {
	boost := one.Add(BonusTotal(t, st, config.BonusClickBoost))
	return decimal.NewFromInt(t.Rules.BaseClickAmount).Mul(boost)
}

func LOCPerSecond(t *config.Tables, st *GameState) decimal.Decimal {
	boost := one.Add(BonusTotal(t, st, config.BonusPassiveBoost))
	return BaseLOCPerSecond(t, st).Mul(boost)
}

// ClicksPerSecond counts clicks in the trailing window ending at now. Timestamps
// after now are not counted.
func ClicksPerSecond(history []time.Time, now time.Time, window time.Duration) int {
	n := 0
	for _, ts := range history {
		d := now.Sub(ts)
		if d >= 0 && d < window {
			n++
		}
	}
	return n
}

// pruneHistory returns a fresh slice holding the clicks no older than window.
// The input is never written to.
func pruneHistory(history []time.Time, now time.Time, window time.Duration, extra int) []time.Time {
	out := make([]time.Time, 0, len(history)+extra)
	for _, ts := range history {
		if now.Sub(ts) <= window {
			out = append(out, ts)
		}
	}
	return out
}

// Progress is how far a single unlock condition is from being met.
type Progress struct {
	Kind      config.ConditionKind `json:"kind"`
	Current   int64                `json:"current"`
	Required  int64                `json:"required"`
	Remaining int64                `json:"remaining"`
	Percent   float64              `json:"percent"`
	Met       bool                 `json:"met"`
}

func UnlockProgress(conds []config.UnlockCondition, st *GameState) []Progress {
	out := make([]Progress, 0, len(conds))
	for _, c := range conds {
		cur := conditionCurrent(c.Kind, st)
		p := Progress{
			Kind:      c.Kind,
			Current:   cur,
			Required:  c.Threshold,
			Remaining: max(0, c.Threshold-cur),
			Met:       ConditionMet(c, st),
		}
		if c.Threshold > 0 {
			p.Percent = min(100, float64(cur)*100/float64(c.Threshold))
		}
		out = append(out, p)
	}
	return out
}

func conditionCurrent(kind config.ConditionKind, st *GameState) int64 {
	switch kind {
	case config.ConditionTotalLOC:
		return st.TotalLinesOfCode.IntPart()
	case config.ConditionEmployeeCount:
		return TotalEmployeeCount(st)
	default:
		return 0
	}
}

// CPSLevel buckets a clicks-per-second reading for display.
func CPSLevel(cps int) string {
	switch {
	case cps < 5:
		return "low"
	case cps < 10:
		return "medium"
	case cps < 15:
		return "high"
	default:
		return "critical"
	}
}
