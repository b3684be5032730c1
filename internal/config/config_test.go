package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTablesValidate(t *testing.T) {
	for name, tables := range map[string]Tables{
		"default": Default(),
		"casual":  Casual(),
		"hard":    Hard(),
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, tables.Validate())
			assert.Empty(t, tables.UnknownConditionKinds())
		})
	}
}

func TestDefaultRules(t *testing.T) {
	r := Default().Rules
	assert.Equal(t, time.Second, r.TickInterval)
	assert.Equal(t, 10*time.Second, r.ClickHistoryWindow)
	assert.Equal(t, time.Second, r.CPSWindow)
	assert.Equal(t, 0.1, r.VisibilityFraction)
	assert.Equal(t, TabShop, r.FallbackTab)
}

func TestLookups(t *testing.T) {
	tables := Default()

	junior, ok := tables.Employee("junior")
	require.True(t, ok)
	assert.Equal(t, int64(2500), junior.BaseCost)
	assert.Equal(t, 1.1, junior.CostMultiplier)

	_, ok = tables.Employee("ceo")
	assert.False(t, ok)

	p, ok := tables.Freelance("toDoListApp")
	require.True(t, ok)
	assert.Equal(t, int64(100), p.LOC)

	lp, ok := tables.OpenSource("leftPad")
	require.True(t, ok)
	assert.Len(t, lp.Levels, 3)

	assert.True(t, tables.HasTab(TabOpenSource))
	assert.False(t, tables.HasTab("settings"))
}

func TestValidateRejectsBrokenTables(t *testing.T) {
	tables := Default()
	tables.Employees = append(tables.Employees, EmployeeConfig{Key: "intern", BaseCost: 0, CostMultiplier: 0.5})
	tables.OpenSourceProjects = append(tables.OpenSourceProjects, OpenSourceProject{ID: "empty"})
	tables.Rules.FallbackTab = "settings"

	err := tables.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate key "intern"`)
	assert.Contains(t, err.Error(), "base_cost must be positive")
	assert.Contains(t, err.Error(), "cost_multiplier must be >= 1")
	assert.Contains(t, err.Error(), `"empty": at least one level is required`)
	assert.Contains(t, err.Error(), `fallback_tab "settings"`)
}

func TestUnknownConditionKindsAreReportedNotRejected(t *testing.T) {
	tables := Default()
	tables.Employees[0].UnlockConditions = []UnlockCondition{{Kind: "TOTAL_LOCC", Threshold: 10}}

	require.NoError(t, tables.Validate())
	assert.Equal(t, []string{"employee intern: TOTAL_LOCC"}, tables.UnknownConditionKinds())
}

func TestMarshalParseRoundTrip(t *testing.T) {
	want := Default()
	b, err := want.Marshal()
	require.NoError(t, err)

	got, err := Parse(b)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestParseAppliesDefaults(t *testing.T) {
	got, err := Parse([]byte(`
employees:
  - key: intern
    name: Intern
    base_cost: 1000
    cost_multiplier: 1.1
    loc_per_second: 1
`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Rules.BaseClickAmount)
	assert.Equal(t, time.Second, got.Rules.TickInterval)
	assert.Equal(t, TabShop, got.Rules.FallbackTab)
	assert.Len(t, got.Tabs, 3)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
rules:
  tick_interval: 500ms
  starting_money: 2500
employees:
  - key: intern
    name: Intern
    base_cost: 1000
    cost_multiplier: 1.1
    loc_per_second: 1
    unlock_conditions:
      - kind: TOTAL_LOC
        threshold: 5
`), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, got.Rules.TickInterval)
	assert.Equal(t, int64(2500), got.Rules.StartingMoney)
	require.Len(t, got.Employees, 1)
	assert.Equal(t, ConditionTotalLOC, got.Employees[0].UnlockConditions[0].Kind)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestPreset(t *testing.T) {
	casual, err := Preset("Casual")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), casual.Rules.StartingMoney)

	hard, err := Preset("hard")
	require.NoError(t, err)
	intern, _ := hard.Employee("intern")
	assert.Equal(t, int64(1500), intern.BaseCost)

	_, err = Preset("nightmare")
	assert.Error(t, err)
}
