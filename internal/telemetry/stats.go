package telemetry

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Stats struct {
	Period             string            `json:"period"`
	EventCounts        map[EventType]int `json:"event_counts"`
	Clicks             int               `json:"clicks"`
	ClickedLOC         decimal.Decimal   `json:"clicked_loc"`
	PassiveLOC         decimal.Decimal   `json:"passive_loc"`
	Ticks              int               `json:"ticks"`
	ClicksPerTick      float64           `json:"clicks_per_tick"`
	PeakCPS            int               `json:"peak_cps"`
	HiresByType        map[string]int    `json:"hires_by_type"`
	MoneySpent         int64             `json:"money_spent"`
	ProjectsByKey      map[string]int    `json:"projects_by_key"`
	MoneyEarned        int64             `json:"money_earned"`
	Contributions      map[string]int    `json:"contributions"`
	Unlocks            []string          `json:"unlocks"`
	RejectionsByReason map[string]int    `json:"rejections_by_reason"`
}

// CalculateStats computes balance stats from events.
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Period:             since.Format("2006-01-02"),
		EventCounts:        make(map[EventType]int),
		ClickedLOC:         decimal.Zero,
		PassiveLOC:         decimal.Zero,
		HiresByType:        make(map[string]int),
		ProjectsByKey:      make(map[string]int),
		Contributions:      make(map[string]int),
		Unlocks:            make([]string, 0),
		RejectionsByReason: make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventLOCWritten:
			stats.Clicks++
			stats.ClickedLOC = stats.ClickedLOC.Add(decimalField(metadata, "loc"))
			if cps := int(numberField(metadata, "cps")); cps > stats.PeakCPS {
				stats.PeakCPS = cps
			}
		case EventTick:
			stats.Ticks++
			stats.PassiveLOC = stats.PassiveLOC.Add(decimalField(metadata, "loc"))
		case EventEmployeeHired:
			if typ, ok := metadata["employee_type"].(string); ok {
				stats.HiresByType[typ]++
			}
			stats.MoneySpent += int64(numberField(metadata, "cost"))
		case EventProjectCompleted:
			if key, ok := metadata["project_key"].(string); ok {
				stats.ProjectsByKey[key]++
			}
			stats.MoneyEarned += int64(numberField(metadata, "reward"))
		case EventProjectContributed:
			if id, ok := metadata["project_id"].(string); ok {
				stats.Contributions[id]++
			}
		case EventUnlocked:
			if entity, ok := metadata["entity"].(string); ok {
				stats.Unlocks = append(stats.Unlocks, entity)
			}
		case EventActionRejected:
			reason, _ := metadata["reason"].(string)
			if reason == "" {
				reason = "error"
			}
			stats.RejectionsByReason[reason]++
		}
	}

	if stats.Ticks > 0 {
		stats.ClicksPerTick = float64(stats.Clicks) / float64(stats.Ticks)
	}
	return stats, nil
}

func numberField(md EventMetadata, key string) float64 {
	v, _ := md[key].(float64)
	return v
}

func decimalField(md EventMetadata, key string) decimal.Decimal {
	s, ok := md[key].(string)
	if !ok {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
