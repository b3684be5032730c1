package game

import (
	"maps"

	"github.com/BDubDesigns/git-rich-quick/internal/config"
	"github.com/shopspring/decimal"
)

// ConditionMet evaluates one unlock condition. Unknown kinds are never met so a
// typo in the balance file cannot open a latch.
func ConditionMet(c config.UnlockCondition, st *GameState) bool {
	switch c.Kind {
	case config.ConditionTotalLOC:
		return st.TotalLinesOfCode.GreaterThanOrEqual(decimal.NewFromInt(c.Threshold))
	case config.ConditionEmployeeCount:
		return TotalEmployeeCount(st) >= c.Threshold
	default:
		return false
	}
}

// ConditionsMet is true when every condition holds. No conditions means unlocked.
func ConditionsMet(conds []config.UnlockCondition, st *GameState) bool {
	for _, c := range conds {
		if !ConditionMet(c, st) {
			return false
		}
	}
	return true
}

// Visible reports whether a locked entity is close enough to unlocking to be shown:
// any single condition past fraction of its threshold is enough.
func Visible(conds []config.UnlockCondition, st *GameState, fraction float64) bool {
	if len(conds) == 0 {
		return true
	}
	for _, c := range conds {
		if !c.Kind.Known() {
			continue
		}
		if c.Threshold <= 0 {
			return true
		}
		if float64(conditionCurrent(c.Kind, st))/float64(c.Threshold) > fraction {
			return true
		}
	}
	return false
}

// LatchEmployees opens the latch of every locked employee whose conditions now
// hold. It returns the input map untouched when nothing opened, along with the
// keys that did open.
func LatchEmployees(t *config.Tables, st *GameState) (map[string]bool, []string) {
	return latch(st.UnlockedEmployees, len(t.Employees), func(i int) (string, []config.UnlockCondition) {
		return t.Employees[i].Key, t.Employees[i].UnlockConditions
	}, st)
}

func LatchOpenSource(t *config.Tables, st *GameState) (map[string]bool, []string) {
	return latch(st.UnlockedOpenSource, len(t.OpenSourceProjects), func(i int) (string, []config.UnlockCondition) {
		return t.OpenSourceProjects[i].ID, t.OpenSourceProjects[i].UnlockConditions
	}, st)
}

func latch(current map[string]bool, n int, entry func(int) (string, []config.UnlockCondition), st *GameState) (map[string]bool, []string) {
	var next map[string]bool
	var opened []string
	for i := range n {
		key, conds := entry(i)
		if current[key] {
			continue
		}
		if !ConditionsMet(conds, st) {
			continue
		}
		if next == nil {
			next = maps.Clone(current)
			if next == nil {
				next = make(map[string]bool, n)
			}
		}
		next[key] = true
		opened = append(opened, key)
	}
	if next == nil {
		return current, nil
	}
	return next, opened
}
