package probe

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/blang/semver/v4"
	"github.com/concave-dev/preflight/internal/validate"
)

// Tools checks each executable in order and reports the first one missing
// from the search path.
func (p *Prober) Tools(tools []string) error {
	for _, tool := range tools {
		if _, err := p.LookPath(tool); err != nil {
			return &validate.ToolNotFoundError{Tool: tool}
		}
	}
	return nil
}

var versionToken = regexp.MustCompile(`\d+(\.\d+){0,2}`)

// RuntimeVersion runs command (e.g. "python3 --version") and requires the
// version it prints to be at least minimum.
func (p *Prober) RuntimeVersion(ctx context.Context, command, minimum string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return fmt.Errorf("runtime command cannot be empty")
	}

	required, err := semver.ParseTolerant(minimum)
	if err != nil {
		return fmt.Errorf("invalid minimum runtime version %q: %w", minimum, err)
	}

	ctx, cancel := p.withTimeout(ctx)
	defer cancel()

	out, err := p.Run(ctx, fields[0], fields[1:]...)
	if err != nil {
		return &validate.ToolNotFoundError{Tool: fields[0]}
	}

	raw := versionToken.FindString(string(out))
	actual, err := semver.ParseTolerant(raw)
	if err != nil {
		return fmt.Errorf("cannot parse runtime version from %q: %w", strings.TrimSpace(string(out)), err)
	}
	if actual.LT(required) {
		return &validate.RuntimeVersionError{Actual: actual.String(), Required: required.String()}
	}
	return nil
}
