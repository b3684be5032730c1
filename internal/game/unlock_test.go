package game

import (
	"testing"

	"github.com/BDubDesigns/git-rich-quick/internal/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestConditionMet(t *testing.T) {
	st := &GameState{
		TotalLinesOfCode: decimal.NewFromInt(99),
		Employees:        map[string]EmployeeState{"intern": {Count: 3}},
	}

	assert.False(t, ConditionMet(config.UnlockCondition{Kind: config.ConditionTotalLOC, Threshold: 100}, st))
	assert.True(t, ConditionMet(config.UnlockCondition{Kind: config.ConditionTotalLOC, Threshold: 99}, st))
	assert.True(t, ConditionMet(config.UnlockCondition{Kind: config.ConditionEmployeeCount, Threshold: 3}, st))
	assert.False(t, ConditionMet(config.UnlockCondition{Kind: config.ConditionEmployeeCount, Threshold: 4}, st))
	assert.False(t, ConditionMet(config.UnlockCondition{Kind: "TOTAL_LOCC", Threshold: 0}, st), "unknown kinds fail closed")

	assert.True(t, ConditionsMet(nil, st))
	assert.False(t, ConditionsMet([]config.UnlockCondition{
		{Kind: config.ConditionTotalLOC, Threshold: 10},
		{Kind: config.ConditionEmployeeCount, Threshold: 10},
	}, st))
}

func TestLatchReturnsSameMapWhenNothingOpens(t *testing.T) {
	tb := newTestTables(t)
	st := NewState(tb)

	got, opened := LatchEmployees(tb, st)
	assert.Empty(t, opened)
	// same map header means callers can detect "no change" without a diff
	got["probe"] = true
	assert.True(t, st.UnlockedEmployees["probe"])
}

func TestLatchAllocatesOnChange(t *testing.T) {
	tb := newTestTables(t)
	st := NewState(tb)
	st.TotalLinesOfCode = decimal.NewFromInt(100)

	got, opened := LatchEmployees(tb, st)
	assert.Equal(t, []string{"junior"}, opened)
	assert.True(t, got["junior"])
	assert.False(t, st.UnlockedEmployees["junior"])
}

func TestLatchSkipsUnlockedEntities(t *testing.T) {
	tb := newTestTables(t)
	st := NewState(tb)
	st.UnlockedOpenSource = map[string]bool{"leftPad": true, "kernelPatch": true}

	got, opened := LatchOpenSource(tb, st)
	assert.Empty(t, opened)
	assert.True(t, got["kernelPatch"], "already unlocked stays unlocked with zero employees")
}

func TestUnknownConditionKindNeverUnlocks(t *testing.T) {
	tb := newTestTables(t)
	tb.Employees[1].UnlockConditions = []config.UnlockCondition{{Kind: "TOTAL_LOCC", Threshold: 1}}
	st := NewState(tb)
	st.TotalLinesOfCode = decimal.NewFromInt(1_000_000)

	_, opened := LatchEmployees(tb, st)
	assert.Empty(t, opened)
	assert.False(t, Visible(tb.Employees[1].UnlockConditions, st, 0.1))
}

func TestVisible(t *testing.T) {
	conds := []config.UnlockCondition{
		{Kind: config.ConditionTotalLOC, Threshold: 100},
		{Kind: config.ConditionEmployeeCount, Threshold: 10},
	}
	st := &GameState{TotalLinesOfCode: decimal.NewFromInt(10)}

	assert.True(t, Visible(nil, st, 0.1))
	assert.False(t, Visible(conds, st, 0.1), "exactly the fraction is not past it")

	st.TotalLinesOfCode = decimal.NewFromInt(11)
	assert.True(t, Visible(conds, st, 0.1))

	st.TotalLinesOfCode = decimal.Zero
	st.Employees = map[string]EmployeeState{"intern": {Count: 2}}
	assert.True(t, Visible(conds, st, 0.1), "any single condition is enough")

	assert.True(t, Visible([]config.UnlockCondition{{Kind: config.ConditionTotalLOC}}, &GameState{}, 0.1))
}
