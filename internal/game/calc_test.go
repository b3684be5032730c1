package game

import (
	"testing"
	"time"

	"github.com/BDubDesigns/git-rich-quick/internal/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeCostJunior(t *testing.T) {
	tb := newTestTables(t)
	st := NewState(tb)

	cost, err := EmployeeCost(tb, "junior", st)
	require.NoError(t, err)
	assert.Equal(t, int64(2500), cost)

	st.Employees = map[string]EmployeeState{"junior": {Count: 1}}
	cost, err = EmployeeCost(tb, "junior", st)
	require.NoError(t, err)
	assert.Equal(t, int64(2750), cost)

	st.Employees = map[string]EmployeeState{"junior": {Count: 2}}
	cost, err = EmployeeCost(tb, "junior", st)
	require.NoError(t, err)
	assert.Equal(t, int64(3025), cost)

	_, err = EmployeeCost(tb, "ceo", st)
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestEmployeeCostStrictlyIncreasing(t *testing.T) {
	for name, tables := range map[string]config.Tables{
		"default": config.Default(),
		"casual":  config.Casual(),
		"hard":    config.Hard(),
	} {
		t.Run(name, func(t *testing.T) {
			for _, e := range tables.Employees {
				prev := costAt(e, 0)
				assert.Equal(t, e.BaseCost, prev)
				for n := int64(1); n <= 60; n++ {
					c := costAt(e, n)
					require.Greater(t, c, prev, "%s at %d", e.Key, n)
					prev = c
				}
			}
		})
	}
}

func TestCostRoundsHalfAwayFromZero(t *testing.T) {
	// 1005 * 1.5 = 1507.5
	e := config.EmployeeConfig{Key: "x", BaseCost: 1005, CostMultiplier: 1.5}
	assert.Equal(t, int64(1508), costAt(e, 1))
}

func TestProductionAndBonuses(t *testing.T) {
	tb := newTestTables(t)
	st := NewState(tb)
	st.Employees = map[string]EmployeeState{"intern": {Count: 2}, "junior": {Count: 3}}

	assert.Equal(t, int64(5), TotalEmployeeCount(st))
	assert.Equal(t, "17", BaseLOCPerSecond(tb, st).String())
	assert.Equal(t, "17", LOCPerSecond(tb, st).String())
	assert.Equal(t, "1", LOCPerClick(tb, st).String())

	st.OpenSourceProjects = map[string]OpenSourceState{"leftPad": {Level: 2}, "kernelPatch": {Level: 1}}
	assert.Equal(t, "0.5", BonusTotal(tb, st, config.BonusClickBoost).String())
	assert.Equal(t, "1.25", BonusTotal(tb, st, config.BonusPassiveBoost).String())
	assert.Equal(t, "1.5", LOCPerClick(tb, st).String())
	assert.Equal(t, "38.25", LOCPerSecond(tb, st).String())
}

func TestBonusTotalIgnoresLevelsPastTable(t *testing.T) {
	tb := newTestTables(t)
	st := NewState(tb)
	st.OpenSourceProjects = map[string]OpenSourceState{"leftPad": {Level: 9}}
	assert.Equal(t, "0.5", BonusTotal(tb, st, config.BonusClickBoost).String())
}

func TestClicksPerSecond(t *testing.T) {
	now := t0.Add(10 * time.Second)
	history := []time.Time{
		now.Add(-1500 * time.Millisecond),
		now.Add(-time.Second),
		now.Add(-999 * time.Millisecond),
		now.Add(-500 * time.Millisecond),
		now.Add(-200 * time.Millisecond),
		now.Add(-100 * time.Millisecond),
		now,
		now.Add(time.Millisecond),
	}
	assert.Equal(t, 5, ClicksPerSecond(history, now, time.Second))
	assert.Equal(t, 0, ClicksPerSecond(nil, now, time.Second))
}

func TestPruneHistoryDoesNotAlias(t *testing.T) {
	history := make([]time.Time, 2, 8)
	history[0] = t0
	history[1] = t0.Add(time.Second)

	out := pruneHistory(history, t0.Add(5*time.Second), 10*time.Second, 1)
	out = append(out, t0.Add(5*time.Second))
	require.Len(t, out, 3)

	tail := history[:3]
	assert.True(t, tail[2].IsZero(), "pruneHistory must not write into the caller's backing array")
}

func TestUnlockProgress(t *testing.T) {
	st := &GameState{
		TotalLinesOfCode: decimal.NewFromInt(40),
		Employees:        map[string]EmployeeState{"intern": {Count: 7}},
	}
	got := UnlockProgress([]config.UnlockCondition{
		{Kind: config.ConditionTotalLOC, Threshold: 100},
		{Kind: config.ConditionEmployeeCount, Threshold: 5},
		{Kind: config.ConditionTotalLOC, Threshold: 0},
	}, st)

	require.Len(t, got, 3)
	assert.Equal(t, Progress{Kind: config.ConditionTotalLOC, Current: 40, Required: 100, Remaining: 60, Percent: 40}, got[0])
	assert.Equal(t, Progress{Kind: config.ConditionEmployeeCount, Current: 7, Required: 5, Remaining: 0, Percent: 100, Met: true}, got[1])
	assert.Equal(t, 0.0, got[2].Percent, "zero threshold must not divide by zero")
	assert.True(t, got[2].Met)
}

func TestCPSLevel(t *testing.T) {
	cases := map[int]string{0: "low", 4: "low", 5: "medium", 9: "medium", 10: "high", 14: "high", 15: "critical", 40: "critical"}
	for cps, want := range cases {
		assert.Equal(t, want, CPSLevel(cps), "cps %d", cps)
	}
}
