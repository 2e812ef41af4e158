// Package preflight runs the validation pass over a cluster configuration.
//
// The Runner massages a copy of the document for the active profile, then
// walks the rule table in its fixed order. Every rule either passes, is
// skipped (skip_tests or an unmet condition) or fails. By default the first
// failure ends the pass; with CollectAll every rule runs and all failures are
// returned together.
//
// Progress is tracked as a watermark over rule stages:
//
//	Init -> SyntaxChecked -> ConsistencyChecked -> ReachabilityChecked -> Done
//
// A stage's state is entered once every rule of that stage (and of the stages
// before it) has completed. ReachabilityChecked additionally requires that at
// least one reachability rule actually ran. Any failure moves the pass to
// Failed.
package preflight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/concave-dev/preflight/internal/config"
	"github.com/concave-dev/preflight/internal/logging"
	"github.com/concave-dev/preflight/internal/rules"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
)

// Options tune a validation pass. Probe timeouts belong to the probes and
// API clients in Deps (see LiveDeps).
type Options struct {
	// Parallelism > 1 fans out per-node and per-server probes.
	Parallelism int
	// CollectAll runs every rule and aggregates failures instead of
	// stopping at the first.
	CollectAll bool
}

// Runner executes the rule table against configuration documents. A Runner
// holds no per-run state and may be reused.
type Runner struct {
	profile *rules.Profile
	deps    rules.Deps
	opts    Options
	rules   []rules.Rule
	now     func() time.Time
}

// NewRunner returns a Runner over the full rule table.
func NewRunner(profile *rules.Profile, deps rules.Deps, opts Options) *Runner {
	if opts.Parallelism < 1 {
		opts.Parallelism = config.DefaultParallelism
	}
	deps.Parallelism = opts.Parallelism

	return &Runner{
		profile: profile,
		deps:    deps,
		opts:    opts,
		rules:   rules.Table(),
		now:     time.Now,
	}
}

// Validate runs a pass and returns only the error. It is the entry point for
// callers that need pass/fail, such as a template renderer's pre-render hook.
func Validate(ctx context.Context, doc config.Document, profile *rules.Profile, deps rules.Deps, opts Options) error {
	_, err := NewRunner(profile, deps, opts).Run(ctx, doc)
	return err
}

// Run validates doc. The caller's document is not modified. The returned
// error is a *RuleError in fail-fast mode, or a *multierror.Error of
// *RuleError values with CollectAll.
func (r *Runner) Run(ctx context.Context, doc config.Document) (*Report, error) {
	start := r.now()
	report := &Report{
		RunID:     uuid.NewString(),
		Profile:   r.profile.Name,
		StartedAt: start,
	}
	logging.Info("Running preflight checks (profile %s, run %s)", r.profile.Name, logging.FormatRunID(report.RunID))

	m := newMachine(r.now)
	data := config.Massage(doc, r.profile.Massage...)

	finish := func(err error) (*Report, error) {
		if err != nil {
			m.fail("")
			report.Err = err
			report.Error = err.Error()
		} else {
			m.advance(StateDone, "")
		}
		report.States = m.history
		report.State = m.state
		report.Duration = r.now().Sub(start)
		return report, err
	}

	flags, err := rules.Peek(data, r.profile, rules.FieldSkipTests)
	if err != nil {
		return finish(&RuleError{Rule: "skip-tests", Err: err})
	}
	skipTests := flags.Bool(rules.FieldSkipTests)
	if skipTests {
		logging.Warn("skip_tests is set, live checks will not run")
	}

	remaining := make(map[rules.Stage]int)
	for _, rule := range r.rules {
		remaining[rule.Stage]++
	}
	reachabilityRan := 0

	var failures *multierror.Error
	for _, rule := range r.rules {
		if err := ctx.Err(); err != nil {
			return finish(errors.Join(failures.ErrorOrNil(), err))
		}

		outcome := r.runRule(ctx, rule, data, skipTests)
		report.Outcomes = append(report.Outcomes, outcome)

		if outcome.Status == StatusFailed {
			ruleErr := &RuleError{Rule: rule.Name, Err: outcome.Err}
			if !r.opts.CollectAll {
				m.fail(rule.Name)
				return finish(ruleErr)
			}
			failures = multierror.Append(failures, ruleErr)
			continue
		}

		remaining[rule.Stage]--
		if outcome.Status == StatusPassed && rule.Stage == rules.StageReachability {
			reachabilityRan++
		}
		if failures == nil {
			r.watermark(m, remaining, reachabilityRan, rule.Name)
		}
	}

	return finish(failures.ErrorOrNil())
}

// watermark advances through every stage whose rules have all completed.
func (r *Runner) watermark(m *machine, remaining map[rules.Stage]int, reachabilityRan int, rule string) {
	for {
		switch {
		case m.state == StateInit && remaining[rules.StageSyntax] == 0:
			m.advance(StateSyntaxChecked, rule)
		case m.state == StateSyntaxChecked && remaining[rules.StageConsistency] == 0:
			m.advance(StateConsistencyChecked, rule)
		case m.state == StateConsistencyChecked && remaining[rules.StageReachability] == 0 && reachabilityRan > 0:
			m.advance(StateReachabilityChecked, rule)
		default:
			return
		}
	}
}

func (r *Runner) runRule(ctx context.Context, rule rules.Rule, data config.Document, skipTests bool) Outcome {
	started := r.now()
	outcome := Outcome{Rule: rule.Name, Stage: rule.Stage.String()}
	done := func(status Status, err error) Outcome {
		outcome.Status = status
		outcome.Err = err
		if err != nil {
			outcome.Error = err.Error()
		}
		outcome.Duration = r.now().Sub(started)
		return outcome
	}

	if rule.Gated && skipTests {
		outcome.SkipReason = "skip_tests is set"
		logging.Debug("Skipping %s: %s", rule.Name, outcome.SkipReason)
		return done(StatusSkipped, nil)
	}

	if rule.When != nil {
		cond, err := rules.Peek(data, r.profile, rule.WhenFields...)
		if err != nil {
			return done(StatusFailed, err)
		}
		if !rule.When(cond) {
			outcome.SkipReason = "not applicable to this configuration"
			logging.Debug("Skipping %s: %s", rule.Name, outcome.SkipReason)
			return done(StatusSkipped, nil)
		}
	}

	values, err := rules.Extract(data, r.profile, rule.Requires, rule.Optional)
	if err != nil {
		return done(StatusFailed, err)
	}

	env := &rules.Env{
		Profile:   r.profile,
		Values:    values,
		Deps:      r.deps,
		SkipTests: skipTests,
	}

	logging.Debug("Running %s", rule.Name)
	err = r.safeCheck(ctx, rule, env)
	outcome.Warnings = env.Warnings
	for _, w := range env.Warnings {
		logging.Warn("%s: %s", rule.Name, w)
	}
	if err != nil {
		logging.Debug("Rule %s failed: %v", rule.Name, err)
		return done(StatusFailed, err)
	}
	return done(StatusPassed, nil)
}

// safeCheck converts a panicking check (for example a missing dependency)
// into a failure of that rule.
func (r *Runner) safeCheck(ctx context.Context, rule rules.Rule, env *rules.Env) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("internal error: %v", p)
		}
	}()
	return rule.Check(ctx, env)
}
