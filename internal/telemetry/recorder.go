package telemetry

import (
	"context"
	"errors"

	"github.com/BDubDesigns/git-rich-quick/internal/game"
)

// Recorder turns dispatched actions into telemetry events.
type Recorder struct {
	repo Repository
}

func NewRecorder(repo Repository) *Recorder {
	return &Recorder{repo: repo}
}

func (r *Recorder) Record(ctx context.Context, d game.Dispatched) error {
	events, err := eventsFor(d)
	if err != nil {
		return err
	}
	var errs []error
	for _, e := range events {
		if err := r.repo.RecordEvent(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type pending struct {
	typ EventType
	md  EventMetadata
}

func eventsFor(d game.Dispatched) ([]Event, error) {
	var specs []pending
	add := func(typ EventType, md EventMetadata) {
		specs = append(specs, pending{typ, md})
	}

	var kind string
	if d.Action != nil {
		kind = string(d.Action.Kind())
	}

	switch {
	case d.Err != nil:
		add(EventActionRejected, EventMetadata{"action": kind, "reason": string(d.Outcome.Reason), "error": d.Err.Error()})
	case !d.Outcome.Applied:
		add(EventActionRejected, EventMetadata{"action": kind, "reason": string(d.Outcome.Reason)})
	default:
		written := d.After.TotalLinesOfCode.Sub(d.Before.TotalLinesOfCode).String()
		switch a := d.Action.(type) {
		case game.ClickCode:
			add(EventLOCWritten, EventMetadata{"loc": written, "cps": d.After.CurrentCPS})
		case game.Tick:
			add(EventTick, EventMetadata{"loc": written})
		case game.BuyEmployee:
			add(EventEmployeeHired, EventMetadata{
				"employee_type": a.Type,
				"cost":          d.Before.Money - d.After.Money,
				"count":         d.After.Employees[a.Type].Count,
			})
		case game.CompleteProject:
			add(EventProjectCompleted, EventMetadata{
				"project_key": a.Key,
				"reward":      d.After.Money - d.Before.Money,
			})
		case game.ContributeToProject:
			add(EventProjectContributed, EventMetadata{
				"project_id": a.ID,
				"level":      d.After.OpenSourceProjects[a.ID].Level,
			})
		case game.SetActiveTab:
			if d.After != d.Before || d.Outcome.Fallback {
				add(EventTabChanged, EventMetadata{"tab": d.After.ActiveTab, "requested": a.Tab, "fallback": d.Outcome.Fallback})
			}
		}
	}
	for _, u := range d.Outcome.Unlocked {
		add(EventUnlocked, EventMetadata{"entity": u})
	}

	out := make([]Event, 0, len(specs))
	for _, s := range specs {
		e, err := NewEvent(s.typ, d.At, s.md)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

var _ game.Recorder = (*Recorder)(nil)
