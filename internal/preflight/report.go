package preflight

import (
	"fmt"
	"time"
)

// Status is the result of a single rule.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome records how one rule ended.
type Outcome struct {
	Rule       string        `json:"rule"`
	Stage      string        `json:"stage"`
	Status     Status        `json:"status"`
	Err        error         `json:"-"`
	Error      string        `json:"error,omitempty"`
	SkipReason string        `json:"skip_reason,omitempty"`
	Warnings   []string      `json:"warnings,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Report is the full record of one validation pass.
type Report struct {
	RunID     string        `json:"run_id"`
	Profile   string        `json:"profile"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Outcomes  []Outcome     `json:"outcomes"`
	States    []Transition  `json:"states"`
	State     State         `json:"state"`
	Err       error         `json:"-"`
	Error     string        `json:"error,omitempty"`
}

// Passed reports whether the pass reached Done.
func (r *Report) Passed() bool {
	return r.State == StateDone
}

// Counts returns the number of outcomes per status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int, 3)
	for _, o := range r.Outcomes {
		counts[o.Status]++
	}
	return counts
}

// Warnings returns every warning in rule order, prefixed by the rule name.
func (r *Report) Warnings() []string {
	var out []string
	for _, o := range r.Outcomes {
		for _, w := range o.Warnings {
			out = append(out, fmt.Sprintf("%s: %s", o.Rule, w))
		}
	}
	return out
}

// RuleError wraps a failure with the name of the rule that produced it.
// errors.As on a RuleError reaches the underlying validate error kind.
type RuleError struct {
	Rule string
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %v", e.Rule, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
