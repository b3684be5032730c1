package game

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKey matches any *UnknownKeyError through errors.Is.
	ErrUnknownKey = errors.New("unknown key")
	// ErrUnknownAction is returned when decoding an action type the game does not define.
	ErrUnknownAction = errors.New("unknown action")
	// ErrUntimedAction is returned by Reduce for a click or tick with a zero At.
	// Store stamps both from its clock before reducing.
	ErrUntimedAction = errors.New("action has no timestamp")
)

// Entity names the table an action payload referred to.
type Entity string

const (
	EntityEmployee   Entity = "employee"
	EntityFreelance  Entity = "freelance_project"
	EntityOpenSource Entity = "open_source_project"
)

// UnknownKeyError reports an action payload naming an entity absent from the tables.
type UnknownKeyError struct {
	Entity Entity
	Key    string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Entity, e.Key)
}

func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrUnknownKey
}

// RejectReason explains why an action left the state unchanged.
type RejectReason string

const (
	RejectNone              RejectReason = ""
	RejectInsufficientLOC   RejectReason = "insufficient_loc"
	RejectInsufficientFunds RejectReason = "insufficient_funds"
	RejectMaxLevel          RejectReason = "max_level"
	RejectLocked            RejectReason = "locked"
	RejectUnknownKey        RejectReason = "unknown_key"
)

// Outcome describes what a reduction did.
type Outcome struct {
	Applied bool         `json:"applied"`
	Reason  RejectReason `json:"reason,omitempty"`
	// Unlocked lists entities whose latch opened during this action, as "employee:key"
	// or "open_source_project:id".
	Unlocked []string `json:"unlocked,omitempty"`
	// Fallback is set when SetActiveTab named an unknown tab.
	Fallback bool `json:"fallback,omitempty"`
}

func applied() Outcome { return Outcome{Applied: true} }

func rejected(r RejectReason) Outcome { return Outcome{Reason: r} }
