package stage

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/cruciblehq/shipwright/internal/manifest"
	"github.com/cruciblehq/shipwright/internal/proc"
	"github.com/cruciblehq/shipwright/internal/target"
)

// Consumes the build artifact and invokes the platform packaging tool for
// the target's package format, stamping the resolved version into the
// artifact name.
type PackageExecutor struct {
	Manifest *manifest.Manifest
	Runner   *proc.Runner
}

func (e *PackageExecutor) Stage() Stage { return Package }

func (e *PackageExecutor) Run(ctx context.Context, t target.Target, version string, hist *History) Result {
	// Hard dependency: packaging never runs without a built binary.
	binary := hist.Artifact(t, Build)
	if binary == "" || !hist.Satisfied(t, Build) {
		return failed(t, Package, fmt.Sprintf("%v: build", ErrDependencyUnmet), 0)
	}

	command, ok := e.Manifest.Packagers[string(t.Format)]
	if !ok || len(command) == 0 {
		return failed(t, Package, fmt.Sprintf("no packager configured for format %q", t.Format), 0)
	}

	artifact := filepath.Join(e.Manifest.Output, ArtifactName(e.Manifest.Product, version, t))
	program, args := splitCommand(command)
	args = append(args, binary, artifact, version)

	slog.Info("packaging", "target", t.String(), "artifact", artifact)

	result, err := e.Runner.Run(ctx, program, args, proc.Options{})
	if err != nil {
		return failedRun(t, Package, result, err)
	}
	if result.ExitCode != 0 {
		return failed(t, Package, toolFailure(program, result), result.Duration)
	}

	return succeeded(t, Package, artifact, "", result.Duration)
}

// Returns the artifact file name for a target:
// {product}-{version}-{arch}.{format}.
func ArtifactName(product, version string, t target.Target) string {
	return fmt.Sprintf("%s-%s-%s.%s", product, version, t.Arch, t.Format)
}
