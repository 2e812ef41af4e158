// Package validate provides the failure kinds produced by preflight checks.
//
// Every check either returns nil or one of these types (possibly wrapped). The
// messages are human-readable and name the offending field or value. Values
// marked secret are never rendered; they print as "***".
package validate

import (
	"fmt"
	"strings"
	"time"
)

const redacted = "***"

// MissingKeyError reports a required configuration path that is absent.
type MissingKeyError struct {
	Path string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("missing required key %s", e.Path)
}

// SyntaxError reports a value that does not have the expected form.
type SyntaxError struct {
	Field    string
	Value    string
	Expected string
	Secret   bool
}

func (e *SyntaxError) Error() string {
	value := e.Value
	if e.Secret {
		value = redacted
	}
	if e.Expected == "" {
		return fmt.Sprintf("invalid %s %q", e.Field, value)
	}
	return fmt.Sprintf("invalid %s %q: expected %s", e.Field, value, e.Expected)
}

// FamilyMismatchError reports a network range of the wrong address family.
type FamilyMismatchError struct {
	Field    string
	Value    string
	Expected int
	Actual   int
}

func (e *FamilyMismatchError) Error() string {
	return fmt.Sprintf("invalid %s %q: expected IPv%d range, got IPv%d", e.Field, e.Value, e.Expected, e.Actual)
}

// ConsistencyError reports a violated cross-field invariant.
type ConsistencyError struct {
	Fields []string
	Rule   string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %s", strings.Join(e.Fields, ", "), e.Rule)
}

// QuorumError reports a controller count that cannot form a quorum.
type QuorumError struct {
	Count int
}

func (e *QuorumError) Error() string {
	if e.Count < 1 {
		return "must have at least one controller node"
	}
	return fmt.Sprintf("must have an odd number of controller nodes, got %d", e.Count)
}

// UnreachableError reports a live endpoint that did not answer in time.
type UnreachableError struct {
	Target  string
	Service string
	Timeout time.Duration
	Err     error
}

func (e *UnreachableError) Error() string {
	msg := fmt.Sprintf("%s is not reachable (%s", e.Target, e.Service)
	if e.Timeout > 0 {
		msg += fmt.Sprintf(", timeout %s", e.Timeout)
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UnreachableError) Unwrap() error {
	return e.Err
}

// ExternalAPIError reports a failed third-party API lookup. Resource names the
// looked-up object and the credential scope; it never carries the credential.
type ExternalAPIError struct {
	Resource string
	Status   int
	Err      error
}

func (e *ExternalAPIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Resource, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("%s (status %d)", e.Resource, e.Status)
	default:
		return e.Resource
	}
}

func (e *ExternalAPIError) Unwrap() error {
	return e.Err
}

// ToolNotFoundError reports a required executable missing from the search path.
type ToolNotFoundError struct {
	Tool string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("missing required CLI tool %s", e.Tool)
}

// RuntimeVersionError reports a template runtime older than the supported minimum.
type RuntimeVersionError struct {
	Actual   string
	Required string
}

func (e *RuntimeVersionError) Error() string {
	return fmt.Sprintf("runtime version %s is below %s, please upgrade", e.Actual, e.Required)
}
