package game

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ActionKind is the wire name of an action.
type ActionKind string

const (
	KindClickCode           ActionKind = "WRITE_CODE"
	KindBuyEmployee         ActionKind = "BUY_EMPLOYEE"
	KindCompleteProject     ActionKind = "COMPLETE_PROJECT"
	KindContributeToProject ActionKind = "CONTRIBUTE_TO_PROJECT"
	KindTick                ActionKind = "GAME_TICK"
	KindSetActiveTab        ActionKind = "SET_ACTIVE_TAB"
)

// Action is the closed set of inputs Reduce accepts.
type Action interface {
	Kind() ActionKind
	action()
}

// ClickCode writes code by hand. At is stamped by the dispatcher when zero.
type ClickCode struct {
	At time.Time
}

type BuyEmployee struct {
	Type string
}

type CompleteProject struct {
	Key string
}

type ContributeToProject struct {
	ID string
}

// Tick is the passive production event. At is stamped by the dispatcher when zero.
type Tick struct {
	At time.Time
}

type SetActiveTab struct {
	Tab string
}

func (ClickCode) Kind() ActionKind           { return KindClickCode }
func (BuyEmployee) Kind() ActionKind         { return KindBuyEmployee }
func (CompleteProject) Kind() ActionKind     { return KindCompleteProject }
func (ContributeToProject) Kind() ActionKind { return KindContributeToProject }
func (Tick) Kind() ActionKind                { return KindTick }
func (SetActiveTab) Kind() ActionKind        { return KindSetActiveTab }

func (ClickCode) action()           {}
func (BuyEmployee) action()         {}
func (CompleteProject) action()     {}
func (ContributeToProject) action() {}
func (Tick) action()                {}
func (SetActiveTab) action()        {}

// Envelope is the JSON form of an action: {"type": "BUY_EMPLOYEE", "payload": {...}}.
type Envelope struct {
	Type    ActionKind      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type payload struct {
	EmployeeType string `json:"employeeType,omitempty"`
	ProjectKey   string `json:"projectKey,omitempty"`
	ProjectID    string `json:"projectId,omitempty"`
	Tab          string `json:"tab,omitempty"`
}

// DecodeAction parses an action envelope. Client supplied timestamps are ignored;
// the dispatcher's clock is authoritative.
func DecodeAction(b []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	var p payload
	if len(env.Payload) > 0 && string(env.Payload) != "null" {
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
	}

	switch ActionKind(strings.ToUpper(strings.TrimSpace(string(env.Type)))) {
	case KindClickCode:
		return ClickCode{}, nil
	case KindTick:
		return Tick{}, nil
	case KindBuyEmployee:
		if p.EmployeeType == "" {
			return nil, fmt.Errorf("decode %s: employeeType is required", env.Type)
		}
		return BuyEmployee{Type: p.EmployeeType}, nil
	case KindCompleteProject:
		if p.ProjectKey == "" {
			return nil, fmt.Errorf("decode %s: projectKey is required", env.Type)
		}
		return CompleteProject{Key: p.ProjectKey}, nil
	case KindContributeToProject:
		if p.ProjectID == "" {
			return nil, fmt.Errorf("decode %s: projectId is required", env.Type)
		}
		return ContributeToProject{ID: p.ProjectID}, nil
	case KindSetActiveTab:
		return SetActiveTab{Tab: p.Tab}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownAction, env.Type)
	}
}

// EncodeAction is the inverse of DecodeAction.
func EncodeAction(a Action) ([]byte, error) {
	var p *payload
	switch a := a.(type) {
	case BuyEmployee:
		p = &payload{EmployeeType: a.Type}
	case CompleteProject:
		p = &payload{ProjectKey: a.Key}
	case ContributeToProject:
		p = &payload{ProjectID: a.ID}
	case SetActiveTab:
		p = &payload{Tab: a.Tab}
	case ClickCode, Tick:
	default:
		return nil, fmt.Errorf("%w %T", ErrUnknownAction, a)
	}
	env := Envelope{Type: a.Kind()}
	if p != nil {
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}
