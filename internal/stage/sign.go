package stage

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cruciblehq/shipwright/internal/manifest"
	"github.com/cruciblehq/shipwright/internal/proc"
	"github.com/cruciblehq/shipwright/internal/target"
)

// Invokes the code-signing collaborator for platforms that require it.
//
// Linux targets are reported skipped ("not applicable"); signable targets
// may be skipped by configuration. Either skip carries the package
// artifact forward so Publish can consume it. The signing identity is
// referenced by environment variable name only and is never logged.
type SignExecutor struct {
	Manifest *manifest.Manifest
	Runner   *proc.Runner
}

func (e *SignExecutor) Stage() Stage { return Sign }

func (e *SignExecutor) Run(ctx context.Context, t target.Target, version string, hist *History) Result {
	artifact := hist.Artifact(t, Package)

	if !t.Signable() {
		return NewSkip(t, Sign, ReasonNotApplicable, artifact)
	}
	if e.Manifest.Signing.Optional {
		return NewSkip(t, Sign, ReasonSigningDisabled, artifact)
	}

	if artifact == "" || !hist.Satisfied(t, Package) {
		return failed(t, Sign, fmt.Sprintf("%v: package", ErrDependencyUnmet), 0)
	}

	identityEnv := e.Manifest.Signing.IdentityEnv
	if _, ok := os.LookupEnv(identityEnv); !ok {
		return failed(t, Sign, fmt.Sprintf("signing identity variable %s is not set", identityEnv), 0)
	}

	program, args := splitCommand(e.Manifest.Signing.Command)
	args = append(args, artifact)

	slog.Info("signing", "target", t.String(), "identity_env", identityEnv)

	result, err := e.Runner.Run(ctx, program, args, proc.Options{})
	if err != nil {
		return failedRun(t, Sign, result, err)
	}
	if result.ExitCode != 0 {
		return failed(t, Sign, toolFailure(program, result), result.Duration)
	}

	// Collaborators sign in place; the locator is unchanged.
	return succeeded(t, Sign, artifact, "", result.Duration)
}
