package preflight

import (
	"fmt"
	"time"
)

// State is the orchestrator's progress watermark.
type State int

const (
	StateInit State = iota
	StateSyntaxChecked
	StateConsistencyChecked
	StateReachabilityChecked
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateSyntaxChecked:
		return "SyntaxChecked"
	case StateConsistencyChecked:
		return "ConsistencyChecked"
	case StateReachabilityChecked:
		return "ReachabilityChecked"
	case StateDone:
		return "Done"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// MarshalText renders the state name in JSON reports.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Transition records one state change and the rule whose completion caused it.
type Transition struct {
	From State     `json:"from"`
	To   State     `json:"to"`
	Rule string    `json:"rule,omitempty"`
	At   time.Time `json:"at"`
}

// machine enforces the forward-only transition order. Failed absorbs.
type machine struct {
	state   State
	history []Transition
	now     func() time.Time
}

func newMachine(now func() time.Time) *machine {
	return &machine{state: StateInit, now: now}
}

// advance moves to the next state. Backward moves, skips and moves out of a
// terminal state are programming errors.
func (m *machine) advance(to State, rule string) {
	if m.state == StateFailed || m.state == StateDone {
		panic(fmt.Sprintf("preflight: transition %s -> %s from terminal state", m.state, to))
	}
	if to <= m.state || to == StateFailed {
		panic(fmt.Sprintf("preflight: invalid transition %s -> %s", m.state, to))
	}
	m.record(to, rule)
}

// fail moves to Failed from any non-terminal state.
func (m *machine) fail(rule string) {
	if m.state == StateFailed || m.state == StateDone {
		return
	}
	m.record(StateFailed, rule)
}

func (m *machine) record(to State, rule string) {
	m.history = append(m.history, Transition{From: m.state, To: to, Rule: rule, At: m.now()})
	m.state = to
}
