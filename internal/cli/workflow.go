package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cruciblehq/shipwright/internal/manifest"
	"github.com/cruciblehq/shipwright/internal/proc"
	"github.com/cruciblehq/shipwright/internal/stage"
)

// Represents the 'shipwright dev' command.
type DevCmd struct{}

func (c *DevCmd) Run(ctx context.Context) error {
	return runTool(ctx, "dev")
}

// Represents the 'shipwright check' command.
type CheckCmd struct{}

func (c *CheckCmd) Run(ctx context.Context) error {
	return runTool(ctx, "check")
}

// Represents the 'shipwright fmt' command.
type FmtCmd struct{}

func (c *FmtCmd) Run(ctx context.Context) error {
	return runTool(ctx, "fmt")
}

// Represents the 'shipwright lint' command.
type LintCmd struct{}

func (c *LintCmd) Run(ctx context.Context) error {
	return runTool(ctx, "lint")
}

// Represents the 'shipwright test' command.
type TestCmd struct{}

func (c *TestCmd) Run(ctx context.Context) error {
	return runTool(ctx, "test")
}

// Represents the 'shipwright all' command: check, fmt, and lint followed
// by a build of the selected targets. Stops at the first failure.
type AllCmd struct {
	runFlags
}

func (c *AllCmd) Run(ctx context.Context) error {
	for _, name := range []string{"check", "fmt", "lint"} {
		if err := runTool(ctx, name); err != nil {
			return err
		}
	}
	return runPipeline(ctx, c.runFlags, stage.Build)
}

// Runs one workflow tool from the manifest's tools section with output
// mirrored to the console.
//
// The dev tool additionally receives the build environment overrides, so
// the development server sees the same configuration the build does.
func runTool(ctx context.Context, name string) error {
	m, err := manifest.Load(RootCmd.Manifest)
	if err != nil {
		return couldNotStart(err)
	}

	command, ok := m.Tools[name]
	if !ok || len(command) == 0 {
		return couldNotStart(fmt.Errorf("no %q tool configured in the manifest", name))
	}

	opts := proc.Options{Console: true}
	if name == "dev" {
		opts.Env = m.Build.Env
	}

	slog.Info("running tool", "command", name)

	runner := &proc.Runner{}
	result, err := runner.Run(ctx, command[0], command[1:], opts)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%s failed with exit code %d", name, result.ExitCode)
	}
	return nil
}
