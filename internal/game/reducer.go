package game

import (
	"fmt"
	"maps"
	"time"

	"github.com/BDubDesigns/git-rich-quick/internal/config"
	"github.com/shopspring/decimal"
)

// Reduce computes the state that follows st under action a. It is pure: st is
// never modified and the result depends only on its arguments.
//
// Rejected actions return st itself (same pointer) with an Outcome naming the
// reason. Unknown employee or project keys additionally return an
// *UnknownKeyError. ClickCode and Tick must carry their time in At; a zero At
// returns ErrUntimedAction with st unchanged.
func Reduce(t *config.Tables, st *GameState, a Action) (*GameState, Outcome, error) {
	var (
		next *GameState
		out  Outcome
		err  error
	)
	switch a := a.(type) {
	case ClickCode:
		if a.At.IsZero() {
			return st, Outcome{}, fmt.Errorf("%w: %s", ErrUntimedAction, a.Kind())
		}
		next, out = reduceClick(t, st, a), applied()
	case Tick:
		if a.At.IsZero() {
			return st, Outcome{}, fmt.Errorf("%w: %s", ErrUntimedAction, a.Kind())
		}
		next, out = reduceTick(t, st, a), applied()
	case BuyEmployee:
		next, out, err = reduceBuyEmployee(t, st, a)
	case CompleteProject:
		next, out, err = reduceCompleteProject(t, st, a)
	case ContributeToProject:
		next, out, err = reduceContribute(t, st, a)
	case SetActiveTab:
		next, out = reduceSetActiveTab(t, st, a)
	default:
		return st, Outcome{}, fmt.Errorf("%w %T", ErrUnknownAction, a)
	}
	if next != st {
		relatch(t, next, &out)
	}
	return next, out, err
}

// relatch runs both unlock latches over a freshly built state. next is still
// private to the reducer here, so assigning its maps is safe.
func relatch(t *config.Tables, next *GameState, out *Outcome) {
	var opened []string
	next.UnlockedEmployees, opened = LatchEmployees(t, next)
	for _, k := range opened {
		out.Unlocked = append(out.Unlocked, string(EntityEmployee)+":"+k)
	}
	next.UnlockedOpenSource, opened = LatchOpenSource(t, next)
	for _, k := range opened {
		out.Unlocked = append(out.Unlocked, string(EntityOpenSource)+":"+k)
	}
}

func reduceClick(t *config.Tables, st *GameState, a ClickCode) *GameState {
	inc := LOCPerClick(t, st)
	next := st.shallow()
	next.LinesOfCode = st.LinesOfCode.Add(inc)
	next.TotalLinesOfCode = st.TotalLinesOfCode.Add(inc)
	next.ClickHistory = append(pruneHistory(st.ClickHistory, a.At, t.Rules.ClickHistoryWindow, 1), a.At)
	next.CurrentCPS = ClicksPerSecond(next.ClickHistory, a.At, t.Rules.CPSWindow)
	return next
}

func reduceTick(t *config.Tables, st *GameState, a Tick) *GameState {
	inc := LOCPerSecond(t, st)
	if t.Rules.TickInterval != time.Second {
		inc = inc.Mul(decimal.NewFromFloat(t.Rules.TickInterval.Seconds()))
	}
	next := st.shallow()
	next.LinesOfCode = st.LinesOfCode.Add(inc)
	next.TotalLinesOfCode = st.TotalLinesOfCode.Add(inc)
	next.ClickHistory = pruneHistory(st.ClickHistory, a.At, t.Rules.ClickHistoryWindow, 0)
	next.CurrentCPS = ClicksPerSecond(next.ClickHistory, a.At, t.Rules.CPSWindow)
	return next
}

func reduceBuyEmployee(t *config.Tables, st *GameState, a BuyEmployee) (*GameState, Outcome, error) {
	cfg, ok := t.Employee(a.Type)
	if !ok {
		return st, rejected(RejectUnknownKey), &UnknownKeyError{Entity: EntityEmployee, Key: a.Type}
	}
	if !st.UnlockedEmployees[a.Type] {
		return st, rejected(RejectLocked), nil
	}
	owned := st.Employees[a.Type].Count
	cost := costAt(cfg, owned)
	if !payable(st, cost) {
		return st, rejected(RejectInsufficientFunds), nil
	}

	next := st.shallow()
	next.Money = st.Money - cost
	next.Employees = cloneMap(st.Employees)
	next.Employees[a.Type] = EmployeeState{Count: owned + 1}
	return next, applied(), nil
}

func reduceCompleteProject(t *config.Tables, st *GameState, a CompleteProject) (*GameState, Outcome, error) {
	p, ok := t.Freelance(a.Key)
	if !ok {
		return st, rejected(RejectUnknownKey), &UnknownKeyError{Entity: EntityFreelance, Key: a.Key}
	}
	cost := decimal.NewFromInt(p.LOC)
	if st.LinesOfCode.LessThan(cost) {
		return st, rejected(RejectInsufficientLOC), nil
	}

	next := st.shallow()
	next.LinesOfCode = st.LinesOfCode.Sub(cost)
	next.Money = addCents(st.Money, p.Reward)
	next.FreelanceProjectsCompleted = cloneMap(st.FreelanceProjectsCompleted)
	next.FreelanceProjectsCompleted[a.Key]++
	return next, applied(), nil
}

func reduceContribute(t *config.Tables, st *GameState, a ContributeToProject) (*GameState, Outcome, error) {
	p, ok := t.OpenSource(a.ID)
	if !ok {
		return st, rejected(RejectUnknownKey), &UnknownKeyError{Entity: EntityOpenSource, Key: a.ID}
	}
	if !st.UnlockedOpenSource[a.ID] {
		return st, rejected(RejectLocked), nil
	}
	level := st.OpenSourceProjects[a.ID].Level
	if level >= len(p.Levels) {
		return st, rejected(RejectMaxLevel), nil
	}
	cost := decimal.NewFromInt(p.Levels[level].LOCCost)
	if st.LinesOfCode.LessThan(cost) {
		return st, rejected(RejectInsufficientLOC), nil
	}

	next := st.shallow()
	next.LinesOfCode = st.LinesOfCode.Sub(cost)
	next.OpenSourceProjects = cloneMap(st.OpenSourceProjects)
	next.OpenSourceProjects[a.ID] = OpenSourceState{Level: level + 1}
	return next, applied(), nil
}

func reduceSetActiveTab(t *config.Tables, st *GameState, a SetActiveTab) (*GameState, Outcome) {
	out := applied()
	tab := a.Tab
	if !t.HasTab(tab) {
		tab = t.Rules.FallbackTab
		out.Fallback = true
	}
	if tab == st.ActiveTab {
		return st, out
	}
	next := st.shallow()
	next.ActiveTab = tab
	return next, out
}

// cloneMap copies m, allocating when m is nil so the result is always writable.
func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return make(map[K]V)
	}
	return maps.Clone(m)
}
