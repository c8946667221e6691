package publish

import (
	"context"
	"fmt"

	"github.com/cruciblehq/shipwright/internal/proc"
	"github.com/cruciblehq/shipwright/internal/target"
)

// Package-manager feed driven by an external push tool.
//
// The configured command is run with the artifact path and version
// appended. The tool's own protocol (apt, winget, homebrew tap) is opaque
// here; only its exit code matters.
type Feed struct {
	DestName string
	Command  []string
	Runner   *proc.Runner
}

func (d *Feed) Name() string { return d.DestName }

func (d *Feed) Push(ctx context.Context, artifact, version string, t target.Target) error {
	program := d.Command[0]
	args := append(append([]string(nil), d.Command[1:]...), artifact, version)

	result, err := d.Runner.Run(ctx, program, args, proc.Options{})
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%s exited with code %d", program, result.ExitCode)
	}
	return nil
}
