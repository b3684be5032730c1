package game

import (
	"maps"
	"slices"
	"time"

	"github.com/BDubDesigns/git-rich-quick/internal/config"
	"github.com/shopspring/decimal"
)

// GameState is one immutable snapshot of a game session. Reduce never modifies a
// state it was given; it returns a new value that may share unchanged maps with the
// previous one, so callers must not write into a snapshot either.
type GameState struct {
	LinesOfCode      decimal.Decimal `json:"linesOfCode"`
	TotalLinesOfCode decimal.Decimal `json:"totalLinesOfCode"`
	// Money is in cents.
	Money     int64  `json:"money"`
	ActiveTab string `json:"activeTab"`

	ClickHistory []time.Time `json:"clickHistory"`
	CurrentCPS   int         `json:"currentCPS"`

	Employees                  map[string]EmployeeState   `json:"employees"`
	UnlockedEmployees          map[string]bool            `json:"unlockedEmployees"`
	FreelanceProjectsCompleted map[string]int64           `json:"freelanceProjectsCompleted"`
	OpenSourceProjects         map[string]OpenSourceState `json:"openSourceProjects"`
	UnlockedOpenSource         map[string]bool            `json:"unlockedOpenSource"`
}

type EmployeeState struct {
	Count int64 `json:"count"`
}

type OpenSourceState struct {
	Level int `json:"level"`
}

// NewState builds the initial snapshot. Entities without unlock conditions start
// unlocked.
func NewState(t *config.Tables) *GameState {
	st := &GameState{
		LinesOfCode:                decimal.Zero,
		TotalLinesOfCode:           decimal.Zero,
		Money:                      t.Rules.StartingMoney,
		ActiveTab:                  t.Rules.FallbackTab,
		ClickHistory:               []time.Time{},
		Employees:                  make(map[string]EmployeeState, len(t.Employees)),
		UnlockedEmployees:          make(map[string]bool, len(t.Employees)),
		FreelanceProjectsCompleted: make(map[string]int64, len(t.FreelanceProjects)),
		OpenSourceProjects:         make(map[string]OpenSourceState, len(t.OpenSourceProjects)),
		UnlockedOpenSource:         make(map[string]bool, len(t.OpenSourceProjects)),
	}
	if len(t.Tabs) > 0 && !t.HasTab(st.ActiveTab) {
		st.ActiveTab = t.Tabs[0].ID
	}
	for _, e := range t.Employees {
		st.Employees[e.Key] = EmployeeState{}
		st.UnlockedEmployees[e.Key] = false
	}
	for _, p := range t.FreelanceProjects {
		st.FreelanceProjectsCompleted[p.Key] = 0
	}
	for _, p := range t.OpenSourceProjects {
		st.OpenSourceProjects[p.ID] = OpenSourceState{}
		st.UnlockedOpenSource[p.ID] = false
	}
	st.UnlockedEmployees, _ = LatchEmployees(t, st)
	st.UnlockedOpenSource, _ = LatchOpenSource(t, st)
	return st
}

// shallow copies the struct; maps and the history slice stay shared until a
// reducer branch replaces them.
func (s *GameState) shallow() *GameState {
	next := *s
	return &next
}

// Clone returns a deep copy, for callers that want to hold a mutable scratch state.
func (s *GameState) Clone() *GameState {
	next := *s
	next.ClickHistory = slices.Clone(s.ClickHistory)
	next.Employees = maps.Clone(s.Employees)
	next.UnlockedEmployees = maps.Clone(s.UnlockedEmployees)
	next.FreelanceProjectsCompleted = maps.Clone(s.FreelanceProjectsCompleted)
	next.OpenSourceProjects = maps.Clone(s.OpenSourceProjects)
	next.UnlockedOpenSource = maps.Clone(s.UnlockedOpenSource)
	return &next
}
