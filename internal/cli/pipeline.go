package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cruciblehq/shipwright/internal/manifest"
	"github.com/cruciblehq/shipwright/internal/paths"
	"github.com/cruciblehq/shipwright/internal/pipeline"
	"github.com/cruciblehq/shipwright/internal/proc"
	"github.com/cruciblehq/shipwright/internal/publish"
	"github.com/cruciblehq/shipwright/internal/report"
	"github.com/cruciblehq/shipwright/internal/stage"
	"github.com/cruciblehq/shipwright/internal/target"
	"github.com/cruciblehq/shipwright/internal/version"
)

// Target selection flags shared by every pipeline-driving command.
type matrixFlags struct {
	Target []string `help:"Restrict to a platform-architecture pair (repeatable)." placeholder:"PLATFORM-ARCH"`
	Format string   `help:"Restrict to one package format." placeholder:"FMT"`
	All    bool     `help:"Use every known target (the default when no filters are given)."`
}

// Flags shared by commands that execute pipeline stages.
type runFlags struct {
	matrixFlags
	Version string `help:"Version override (semver)." placeholder:"SEMVER"`
	Resume  string `help:"Reuse succeeded results from a prior run report." placeholder:"PATH"`
}

// Represents the 'shipwright build' command.
type BuildCmd struct{ runFlags }

func (c *BuildCmd) Run(ctx context.Context) error {
	return runPipeline(ctx, c.runFlags, stage.Build)
}

// Represents the 'shipwright package' command.
type PackageCmd struct{ runFlags }

func (c *PackageCmd) Run(ctx context.Context) error {
	return runPipeline(ctx, c.runFlags, stage.Package)
}

// Represents the 'shipwright sign' command.
type SignCmd struct{ runFlags }

func (c *SignCmd) Run(ctx context.Context) error {
	return runPipeline(ctx, c.runFlags, stage.Sign)
}

// Represents the 'shipwright dist' command.
type DistCmd struct{ runFlags }

func (c *DistCmd) Run(ctx context.Context) error {
	return runPipeline(ctx, c.runFlags, stage.Sign)
}

// Represents the 'shipwright release' command.
type ReleaseCmd struct{ runFlags }

func (c *ReleaseCmd) Run(ctx context.Context) error {
	return runPipeline(ctx, c.runFlags, stage.Publish)
}

// Executes the pipeline through the given final stage and renders the
// report.
//
// Precondition failures (manifest, matrix, version, destinations) exit
// with code 2 before any stage runs; a finished run that did not fully
// succeed exits with code 1.
func runPipeline(ctx context.Context, flags runFlags, through stage.Stage) error {
	m, err := manifest.Load(RootCmd.Manifest)
	if err != nil {
		return couldNotStart(err)
	}

	matrix, err := resolveMatrix(flags.matrixFlags)
	if err != nil {
		return couldNotStart(err)
	}

	ver, err := version.Resolve(flags.Version, m, ".")
	if err != nil {
		return couldNotStart(err)
	}

	var prior []stage.Result
	if flags.Resume != "" {
		if prior, err = pipeline.LoadPrior(flags.Resume, ver); err != nil {
			return couldNotStart(err)
		}
	}

	runner := &proc.Runner{}
	executors, err := buildExecutors(m, runner, through)
	if err != nil {
		return couldNotStart(err)
	}

	orch := &pipeline.Orchestrator{
		Executors: executors,
		Limit:     m.Concurrency,
		Timeouts:  stageTimeouts(m),
	}

	run, err := orch.Execute(ctx, matrix, ver, prior)
	if err != nil {
		return couldNotStart(err)
	}

	writeReport(run, m)
	fmt.Print(report.Render(run))

	if run.Outcome != pipeline.Succeeded {
		return &ExitError{Code: ExitPartialFailure, Err: errors.New("some targets failed; see the report above")}
	}
	return nil
}

// Resolves the target matrix from selection flags.
func resolveMatrix(flags matrixFlags) (target.Matrix, error) {
	var filter target.Filter
	for _, sel := range flags.Target {
		platform, arch, err := target.ParseSelector(sel)
		if err != nil {
			return nil, err
		}
		filter.Selectors = append(filter.Selectors, target.Selector{Platform: platform, Arch: arch})
	}
	if flags.Format != "" {
		filter.Format = target.Format(flags.Format)
	}
	return target.Resolve(nil, filter)
}

// Builds the executor chain up to and including the requested stage.
//
// Earlier stages always run (or resume-skip) because each stage hard
// depends on its predecessor's artifact.
func buildExecutors(m *manifest.Manifest, runner *proc.Runner, through stage.Stage) ([]stage.Executor, error) {
	var executors []stage.Executor
	for _, s := range stage.Order {
		switch s {
		case stage.Build:
			executors = append(executors, &stage.BuildExecutor{Manifest: m, Runner: runner})
		case stage.Package:
			executors = append(executors, &stage.PackageExecutor{Manifest: m, Runner: runner})
		case stage.Sign:
			executors = append(executors, &stage.SignExecutor{Manifest: m, Runner: runner})
		case stage.Publish:
			dests, err := publish.FromManifest(m.Publish, runner)
			if err != nil {
				return nil, err
			}
			executors = append(executors, &stage.PublishExecutor{Destinations: dests})
		}
		if s == through {
			break
		}
	}
	return executors, nil
}

func stageTimeouts(m *manifest.Manifest) map[stage.Stage]time.Duration {
	return map[stage.Stage]time.Duration{
		stage.Build:   time.Duration(m.Timeouts.Build),
		stage.Package: time.Duration(m.Timeouts.Package),
		stage.Sign:    time.Duration(m.Timeouts.Sign),
		stage.Publish: time.Duration(m.Timeouts.Publish),
	}
}

// Writes the resumable run report into the output directory. Failure to
// write is logged, not fatal: the run itself already finished.
func writeReport(run *pipeline.Run, m *manifest.Manifest) {
	if err := os.MkdirAll(m.Output, paths.DefaultDirMode); err != nil {
		slog.Warn("could not create output directory", "dir", m.Output, "error", err)
		return
	}
	path := paths.RunReport(m.Output)
	if err := run.Write(path); err != nil {
		slog.Warn("could not write run report", "path", path, "error", err)
		return
	}
	slog.Debug("run report written", "path", path)
}
