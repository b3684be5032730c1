package config

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Default returns the built-in balance tables. Money values are cents.
func Default() Tables {
	t := Tables{
		Version: "1",
		Rules: Rules{
			BaseClickAmount:    1,
			StartingMoney:      0,
			TickInterval:       time.Second,
			ClickHistoryWindow: 10 * time.Second,
			CPSWindow:          time.Second,
			VisibilityFraction: 0.1,
			FallbackTab:        TabShop,
		},
		Employees: []EmployeeConfig{
			{
				Key:            "intern",
				Name:           "Intern",
				Description:    "Writes code. Mostly comments. Sometimes tests.",
				BaseCost:       1000,
				CostMultiplier: 1.1,
				LOCPerSecond:   1,
			},
			{
				Key:            "junior",
				Name:           "Junior Developer",
				Description:    "Copies from forums with real conviction.",
				BaseCost:       2500,
				CostMultiplier: 1.1,
				LOCPerSecond:   5,
				UnlockConditions: []UnlockCondition{
					{Kind: ConditionTotalLOC, Threshold: 100},
				},
			},
			{
				Key:            "senior",
				Name:           "Senior Developer",
				Description:    "Deletes more code than they write, somehow still counts.",
				BaseCost:       20000,
				CostMultiplier: 1.15,
				LOCPerSecond:   20,
				UnlockConditions: []UnlockCondition{
					{Kind: ConditionTotalLOC, Threshold: 1000},
					{Kind: ConditionEmployeeCount, Threshold: 5},
				},
			},
			{
				Key:            "lead",
				Name:           "Tech Lead",
				Description:    "Attends the meetings so everybody else can type.",
				BaseCost:       100000,
				CostMultiplier: 1.2,
				LOCPerSecond:   100,
				UnlockConditions: []UnlockCondition{
					{Kind: ConditionTotalLOC, Threshold: 10000},
					{Kind: ConditionEmployeeCount, Threshold: 15},
				},
			},
		},
		FreelanceProjects: []FreelanceProject{
			{
				Key:         "toDoListApp",
				Name:        "To Do List App",
				Description: "A simple to-do list application. Nobody has ever built one of these.",
				LOC:         100,
				Reward:      5000,
			},
			{
				Key:         "hobbyWebsite",
				Name:        "Hobby Website",
				Description: "A personal site so the world can learn about Bob's stamp collection.",
				LOC:         750,
				Reward:      15000,
			},
			{
				Key:         "paradigmShiftingBlockchainProject",
				Name:        "Paradigm-Shifting Blockchain Project",
				Description: "Converts hype and investor money into your money.",
				LOC:         2000,
				Reward:      50000,
			},
		},
		OpenSourceProjects: []OpenSourceProject{
			{
				ID:          "leftPad",
				Name:        "left-pad",
				Description: "Eleven lines the whole internet depends on.",
				Levels: []Level{
					{LOCCost: 500, Bonus: Bonus{Kind: BonusClickBoost, Value: 0.1}},
					{LOCCost: 2500, Bonus: Bonus{Kind: BonusClickBoost, Value: 0.25}},
					{LOCCost: 10000, Bonus: Bonus{Kind: BonusClickBoost, Value: 0.5}},
				},
			},
			{
				ID:          "kernelPatch",
				Name:        "Kernel Patch",
				Description: "Fix a typo in a comment and put it on your resume.",
				Levels: []Level{
					{LOCCost: 2000, Bonus: Bonus{Kind: BonusPassiveBoost, Value: 0.05}},
					{LOCCost: 8000, Bonus: Bonus{Kind: BonusPassiveBoost, Value: 0.1}},
					{LOCCost: 25000, Bonus: Bonus{Kind: BonusPassiveBoost, Value: 0.2}},
				},
				UnlockConditions: []UnlockCondition{
					{Kind: ConditionEmployeeCount, Threshold: 3},
				},
			},
			{
				ID:          "webFramework",
				Name:        "Yet Another Web Framework",
				Description: "Like the others, but with a different logo.",
				Levels: []Level{
					{LOCCost: 15000, Bonus: Bonus{Kind: BonusClickBoost, Value: 0.5}},
					{LOCCost: 40000, Bonus: Bonus{Kind: BonusPassiveBoost, Value: 0.25}},
				},
				UnlockConditions: []UnlockCondition{
					{Kind: ConditionTotalLOC, Threshold: 20000},
					{Kind: ConditionEmployeeCount, Threshold: 10},
				},
			},
		},
		Tabs: defaultTabs(),
	}
	return t
}

func defaultTabs() []Tab {
	return []Tab{
		{ID: TabShop, Label: "Shop"},
		{ID: TabProjects, Label: "Projects"},
		{ID: TabOpenSource, Label: "Open Source"},
	}
}

// Casual returns easier balance for casual difficulty
func Casual() Tables {
	t := Default()
	t.Rules.BaseClickAmount = 2
	t.Rules.StartingMoney = 1000
	for i := range t.Employees {
		t.Employees[i].BaseCost = scaleCents(t.Employees[i].BaseCost, 0.75)
	}
	for i := range t.FreelanceProjects {
		t.FreelanceProjects[i].Reward = scaleCents(t.FreelanceProjects[i].Reward, 1.25)
	}
	return t
}

// Hard returns harder balance for experienced players
func Hard() Tables {
	t := Default()
	for i := range t.Employees {
		t.Employees[i].BaseCost = scaleCents(t.Employees[i].BaseCost, 1.5)
		t.Employees[i].CostMultiplier += 0.05
	}
	for i := range t.FreelanceProjects {
		t.FreelanceProjects[i].Reward = scaleCents(t.FreelanceProjects[i].Reward, 0.8)
	}
	for i := range t.OpenSourceProjects {
		for j := range t.OpenSourceProjects[i].Levels {
			lvl := &t.OpenSourceProjects[i].Levels[j]
			lvl.LOCCost = int64(math.Round(float64(lvl.LOCCost) * 1.5))
		}
	}
	return t
}

// Preset resolves a difficulty name. Empty means default.
func Preset(name string) (Tables, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default", "normal":
		return Default(), nil
	case "casual":
		return Casual(), nil
	case "hard":
		return Hard(), nil
	default:
		return Tables{}, fmt.Errorf("unknown difficulty %q", name)
	}
}

func scaleCents(v int64, f float64) int64 {
	return int64(math.Round(float64(v) * f))
}
