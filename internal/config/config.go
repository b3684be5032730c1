package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConditionKind tags an unlock condition.
type ConditionKind string

const (
	ConditionTotalLOC      ConditionKind = "TOTAL_LOC"
	ConditionEmployeeCount ConditionKind = "EMPLOYEE_COUNT"
)

// Known reports whether the kind is one the game knows how to evaluate.
func (k ConditionKind) Known() bool {
	switch k {
	case ConditionTotalLOC, ConditionEmployeeCount:
		return true
	default:
		return false
	}
}

// BonusKind tags what an open-source level boosts.
type BonusKind string

const (
	BonusClickBoost   BonusKind = "CLICK_BOOST"
	BonusPassiveBoost BonusKind = "PASSIVE_BOOST"
)

const (
	TabShop       = "shop"
	TabProjects   = "projects"
	TabOpenSource = "openSource"
)

// Tables is the balance document. It is loaded once and never mutated at runtime.
type Tables struct {
	Version            string              `yaml:"version" json:"version"`
	Rules              Rules               `yaml:"rules" json:"rules"`
	Employees          []EmployeeConfig    `yaml:"employees" json:"employees"`
	FreelanceProjects  []FreelanceProject  `yaml:"freelance_projects" json:"freelance_projects"`
	OpenSourceProjects []OpenSourceProject `yaml:"open_source_projects" json:"open_source_projects"`
	Tabs               []Tab               `yaml:"tabs" json:"tabs"`
}

type Rules struct {
	BaseClickAmount    int64         `yaml:"base_click_amount" json:"base_click_amount"`
	StartingMoney      int64         `yaml:"starting_money" json:"starting_money"`
	TickInterval       time.Duration `yaml:"tick_interval" json:"tick_interval"`
	ClickHistoryWindow time.Duration `yaml:"click_history_window" json:"click_history_window"`
	CPSWindow          time.Duration `yaml:"cps_window" json:"cps_window"`
	VisibilityFraction float64       `yaml:"visibility_fraction" json:"visibility_fraction"`
	FallbackTab        string        `yaml:"fallback_tab" json:"fallback_tab"`
}

type UnlockCondition struct {
	Kind      ConditionKind `yaml:"kind" json:"kind"`
	Threshold int64         `yaml:"threshold" json:"threshold"`
}

// EmployeeConfig describes a purchasable producer. Costs are in cents.
type EmployeeConfig struct {
	Key              string            `yaml:"key" json:"key"`
	Name             string            `yaml:"name" json:"name"`
	Description      string            `yaml:"description,omitempty" json:"description,omitempty"`
	BaseCost         int64             `yaml:"base_cost" json:"base_cost"`
	CostMultiplier   float64           `yaml:"cost_multiplier" json:"cost_multiplier"`
	LOCPerSecond     float64           `yaml:"loc_per_second" json:"loc_per_second"`
	UnlockConditions []UnlockCondition `yaml:"unlock_conditions,omitempty" json:"unlock_conditions,omitempty"`
}

// FreelanceProject converts LOC into money. Reward is in cents.
type FreelanceProject struct {
	Key         string `yaml:"key" json:"key"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	LOC         int64  `yaml:"loc" json:"loc"`
	Reward      int64  `yaml:"reward" json:"reward"`
}

type Bonus struct {
	Kind  BonusKind `yaml:"kind" json:"kind"`
	Value float64   `yaml:"value" json:"value"`
}

type Level struct {
	LOCCost int64 `yaml:"loc_cost" json:"loc_cost"`
	Bonus   Bonus `yaml:"bonus" json:"bonus"`
}

type OpenSourceProject struct {
	ID               string            `yaml:"id" json:"id"`
	Name             string            `yaml:"name" json:"name"`
	Description      string            `yaml:"description,omitempty" json:"description,omitempty"`
	Levels           []Level           `yaml:"levels" json:"levels"`
	UnlockConditions []UnlockCondition `yaml:"unlock_conditions,omitempty" json:"unlock_conditions,omitempty"`
}

type Tab struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

func (r *Rules) ApplyDefaults() {
	if r.BaseClickAmount == 0 {
		r.BaseClickAmount = 1
	}
	if r.TickInterval == 0 {
		r.TickInterval = time.Second
	}
	if r.ClickHistoryWindow == 0 {
		r.ClickHistoryWindow = 10 * time.Second
	}
	if r.CPSWindow == 0 {
		r.CPSWindow = time.Second
	}
	if r.VisibilityFraction == 0 {
		r.VisibilityFraction = 0.1
	}
	if strings.TrimSpace(r.FallbackTab) == "" {
		r.FallbackTab = TabShop
	}
}

func (t *Tables) ApplyDefaults() {
	t.Rules.ApplyDefaults()
	if len(t.Tabs) == 0 {
		t.Tabs = defaultTabs()
	}
}

// Validate rejects tables the game cannot run with. Unknown condition kinds are
// allowed through; they evaluate as never satisfied and are listed by
// UnknownConditionKinds so the caller can log them.
func (t *Tables) Validate() error {
	var errs []error

	seen := map[string]bool{}
	for i, e := range t.Employees {
		if strings.TrimSpace(e.Key) == "" {
			errs = append(errs, fmt.Errorf("employees[%d]: key is required", i))
			continue
		}
		if seen[e.Key] {
			errs = append(errs, fmt.Errorf("employees[%d]: duplicate key %q", i, e.Key))
		}
		seen[e.Key] = true
		if e.BaseCost <= 0 {
			errs = append(errs, fmt.Errorf("employee %q: base_cost must be positive", e.Key))
		}
		if e.CostMultiplier < 1 {
			errs = append(errs, fmt.Errorf("employee %q: cost_multiplier must be >= 1", e.Key))
		} else if e.CostMultiplier > 1 && float64(e.BaseCost)*(e.CostMultiplier-1) < 1 {
			// below one cent of growth per purchase, rounding would repeat prices
			errs = append(errs, fmt.Errorf("employee %q: cost_multiplier too small to raise base_cost by a cent", e.Key))
		}
		if e.LOCPerSecond < 0 {
			errs = append(errs, fmt.Errorf("employee %q: loc_per_second must not be negative", e.Key))
		}
		errs = append(errs, validateConditions("employee "+e.Key, e.UnlockConditions)...)
	}

	seen = map[string]bool{}
	for i, p := range t.FreelanceProjects {
		if strings.TrimSpace(p.Key) == "" {
			errs = append(errs, fmt.Errorf("freelance_projects[%d]: key is required", i))
			continue
		}
		if seen[p.Key] {
			errs = append(errs, fmt.Errorf("freelance_projects[%d]: duplicate key %q", i, p.Key))
		}
		seen[p.Key] = true
		if p.LOC < 0 || p.Reward < 0 {
			errs = append(errs, fmt.Errorf("freelance project %q: loc and reward must not be negative", p.Key))
		}
	}

	seen = map[string]bool{}
	for i, p := range t.OpenSourceProjects {
		if strings.TrimSpace(p.ID) == "" {
			errs = append(errs, fmt.Errorf("open_source_projects[%d]: id is required", i))
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("open_source_projects[%d]: duplicate id %q", i, p.ID))
		}
		seen[p.ID] = true
		if len(p.Levels) == 0 {
			errs = append(errs, fmt.Errorf("open source project %q: at least one level is required", p.ID))
		}
		for j, l := range p.Levels {
			if l.LOCCost < 0 {
				errs = append(errs, fmt.Errorf("open source project %q level %d: loc_cost must not be negative", p.ID, j))
			}
		}
		errs = append(errs, validateConditions("open source project "+p.ID, p.UnlockConditions)...)
	}

	seen = map[string]bool{}
	for i, tab := range t.Tabs {
		if strings.TrimSpace(tab.ID) == "" {
			errs = append(errs, fmt.Errorf("tabs[%d]: id is required", i))
			continue
		}
		if seen[tab.ID] {
			errs = append(errs, fmt.Errorf("tabs[%d]: duplicate id %q", i, tab.ID))
		}
		seen[tab.ID] = true
	}
	if !t.HasTab(t.Rules.FallbackTab) {
		errs = append(errs, fmt.Errorf("rules: fallback_tab %q is not a configured tab", t.Rules.FallbackTab))
	}
	if t.Rules.StartingMoney < 0 {
		errs = append(errs, errors.New("rules: starting_money must not be negative"))
	}
	if t.Rules.CPSWindow > t.Rules.ClickHistoryWindow {
		errs = append(errs, errors.New("rules: cps_window must not exceed click_history_window"))
	}

	return errors.Join(errs...)
}

func validateConditions(owner string, conds []UnlockCondition) []error {
	var errs []error
	for i, c := range conds {
		if c.Threshold < 0 {
			errs = append(errs, fmt.Errorf("%s: unlock_conditions[%d]: threshold must not be negative", owner, i))
		}
	}
	return errs
}

// UnknownConditionKinds lists "owner: kind" for every condition the game cannot
// evaluate.
func (t *Tables) UnknownConditionKinds() []string {
	var out []string
	for _, e := range t.Employees {
		for _, c := range e.UnlockConditions {
			if !c.Kind.Known() {
				out = append(out, fmt.Sprintf("employee %s: %s", e.Key, c.Kind))
			}
		}
	}
	for _, p := range t.OpenSourceProjects {
		for _, c := range p.UnlockConditions {
			if !c.Kind.Known() {
				out = append(out, fmt.Sprintf("open source project %s: %s", p.ID, c.Kind))
			}
		}
	}
	return out
}

func (t *Tables) Employee(key string) (EmployeeConfig, bool) {
	for _, e := range t.Employees {
		if e.Key == key {
			return e, true
		}
	}
	return EmployeeConfig{}, false
}

func (t *Tables) Freelance(key string) (FreelanceProject, bool) {
	for _, p := range t.FreelanceProjects {
		if p.Key == key {
			return p, true
		}
	}
	return FreelanceProject{}, false
}

func (t *Tables) OpenSource(id string) (OpenSourceProject, bool) {
	for _, p := range t.OpenSourceProjects {
		if p.ID == id {
			return p, true
		}
	}
	return OpenSourceProject{}, false
}

func (t *Tables) HasTab(id string) bool {
	for _, tab := range t.Tabs {
		if tab.ID == id {
			return true
		}
	}
	return false
}

func (t *Tables) Marshal() ([]byte, error) {
	return yaml.Marshal(t)
}

func Parse(b []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("decode balance: %w", err)
	}
	t.ApplyDefaults()
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}
	return &t, nil
}

func Load(path string) (*Tables, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}
