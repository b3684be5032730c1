package game

import (
	"github.com/BDubDesigns/git-rich-quick/internal/config"
	"github.com/BDubDesigns/git-rich-quick/internal/currency"
	"github.com/shopspring/decimal"
)

// View is the read-only projection served to presentation clients: the snapshot
// plus every derived value they would otherwise recompute.
type View struct {
	State        *GameState       `json:"state"`
	LOCPerClick  decimal.Decimal  `json:"locPerClick"`
	LOCPerSecond decimal.Decimal  `json:"locPerSecond"`
	ClickBonus   decimal.Decimal  `json:"clickBonus"`
	PassiveBonus decimal.Decimal  `json:"passiveBonus"`
	CPSLevel     string           `json:"cpsLevel"`
	Money        string           `json:"moneyFormatted"`
	Employees    []EmployeeView   `json:"employees"`
	Freelance    []FreelanceView  `json:"freelanceProjects"`
	OpenSource   []OpenSourceView `json:"openSourceProjects"`
	Tabs         []config.Tab     `json:"tabs"`
}

type EmployeeView struct {
	Key          string     `json:"key"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Count        int64      `json:"count"`
	Cost         int64      `json:"cost"`
	CostLabel    string     `json:"costFormatted"`
	LOCPerSecond float64    `json:"locPerSecond"`
	Affordable   bool       `json:"affordable"`
	Unlocked     bool       `json:"unlocked"`
	Visible      bool       `json:"visible"`
	Progress     []Progress `json:"progress,omitempty"`
}

type FreelanceView struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	LOC         int64  `json:"loc"`
	Reward      int64  `json:"reward"`
	RewardLabel string `json:"rewardFormatted"`
	Completed   int64  `json:"completed"`
	Affordable  bool   `json:"affordable"`
}

type OpenSourceView struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	Level         int           `json:"level"`
	MaxLevel      int           `json:"maxLevel"`
	Maxed         bool          `json:"maxed"`
	NextCost      int64         `json:"nextCost,omitempty"`
	CurrentBonus  *config.Bonus `json:"currentBonus,omitempty"`
	NextBonus     *config.Bonus `json:"nextBonus,omitempty"`
	CanContribute bool          `json:"canContribute"`
	Unlocked      bool          `json:"unlocked"`
	Visible       bool          `json:"visible"`
	Progress      []Progress    `json:"progress,omitempty"`
}

func Describe(t *config.Tables, st *GameState) View {
	v := View{
		State:        st,
		LOCPerClick:  LOCPerClick(t, st),
		LOCPerSecond: LOCPerSecond(t, st),
		ClickBonus:   BonusTotal(t, st, config.BonusClickBoost),
		PassiveBonus: BonusTotal(t, st, config.BonusPassiveBoost),
		CPSLevel:     CPSLevel(st.CurrentCPS),
		Money:        currency.FormatMoney(st.Money),
		Employees:    make([]EmployeeView, 0, len(t.Employees)),
		Freelance:    make([]FreelanceView, 0, len(t.FreelanceProjects)),
		OpenSource:   make([]OpenSourceView, 0, len(t.OpenSourceProjects)),
		Tabs:         t.Tabs,
	}
	fraction := t.Rules.VisibilityFraction

	for _, e := range t.Employees {
		cost := costAt(e, st.Employees[e.Key].Count)
		unlocked := st.UnlockedEmployees[e.Key]
		ev := EmployeeView{
			Key:          e.Key,
			Name:         e.Name,
			Description:  e.Description,
			Count:        st.Employees[e.Key].Count,
			Cost:         cost,
			CostLabel:    currency.FormatMoney(cost),
			LOCPerSecond: e.LOCPerSecond,
			Affordable:   unlocked && payable(st, cost),
			Unlocked:     unlocked,
			Visible:      unlocked || Visible(e.UnlockConditions, st, fraction),
		}
		if !unlocked {
			ev.Progress = UnlockProgress(e.UnlockConditions, st)
		}
		v.Employees = append(v.Employees, ev)
	}

	for _, p := range t.FreelanceProjects {
		v.Freelance = append(v.Freelance, FreelanceView{
			Key:         p.Key,
			Name:        p.Name,
			Description: p.Description,
			LOC:         p.LOC,
			Reward:      p.Reward,
			RewardLabel: currency.FormatMoney(p.Reward),
			Completed:   st.FreelanceProjectsCompleted[p.Key],
			Affordable:  st.LinesOfCode.GreaterThanOrEqual(decimal.NewFromInt(p.LOC)),
		})
	}

	for _, p := range t.OpenSourceProjects {
		level := min(st.OpenSourceProjects[p.ID].Level, len(p.Levels))
		unlocked := st.UnlockedOpenSource[p.ID]
		ov := OpenSourceView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Level:       level,
			MaxLevel:    len(p.Levels),
			Maxed:       level >= len(p.Levels),
			Unlocked:    unlocked,
			Visible:     unlocked || Visible(p.UnlockConditions, st, fraction),
		}
		if level > 0 {
			b := p.Levels[level-1].Bonus
			ov.CurrentBonus = &b
		}
		if !ov.Maxed {
			next := p.Levels[level]
			ov.NextCost = next.LOCCost
			ov.NextBonus = &next.Bonus
			ov.CanContribute = unlocked && st.LinesOfCode.GreaterThanOrEqual(decimal.NewFromInt(next.LOCCost))
		}
		if !unlocked {
			ov.Progress = UnlockProgress(p.UnlockConditions, st)
		}
		v.OpenSource = append(v.OpenSource, ov)
	}
	return v
}
