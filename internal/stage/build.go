package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/cruciblehq/shipwright/internal/manifest"
	"github.com/cruciblehq/shipwright/internal/proc"
	"github.com/cruciblehq/shipwright/internal/target"
)

// Invokes the external application build tool for a target's platform and
// architecture and records the produced binary's locator.
type BuildExecutor struct {
	Manifest *manifest.Manifest
	Runner   *proc.Runner
}

func (e *BuildExecutor) Stage() Stage { return Build }

func (e *BuildExecutor) Run(ctx context.Context, t target.Target, version string, hist *History) Result {
	program, args := splitCommand(e.Manifest.Build.Command)
	args = append(args, fmt.Sprintf("--target=%s-%s", t.Platform, t.Arch))

	slog.Info("building", "target", t.String(), "version", version)

	result, err := e.Runner.Run(ctx, program, args, proc.Options{Env: e.Manifest.Build.Env})
	if err != nil {
		return failedRun(t, Build, result, err)
	}
	if result.ExitCode != 0 {
		return failed(t, Build, toolFailure(program, result), result.Duration)
	}

	return succeeded(t, Build, e.binaryLocator(t), "", result.Duration)
}

// Returns the discoverable location where the build tool emits the binary
// for a target.
func (e *BuildExecutor) binaryLocator(t target.Target) string {
	name := e.Manifest.Product
	if t.Platform == target.Windows {
		name += ".exe"
	}
	return filepath.Join(e.Manifest.Output, "bin", fmt.Sprintf("%s-%s", t.Platform, t.Arch), name)
}

// Splits a manifest command line into program and leading arguments.
func splitCommand(command []string) (string, []string) {
	if len(command) == 0 {
		return "", nil
	}
	return command[0], append([]string(nil), command[1:]...)
}

// Formats a non-zero exit as a tool-failure message, with the tail of
// stderr for context.
func toolFailure(program string, result *proc.Result) string {
	msg := fmt.Sprintf("%v: %s exited with code %d", ErrToolFailure, program, result.ExitCode)
	if tail := lastLine(result.Stderr); tail != "" {
		msg += ": " + tail
	}
	return msg
}

// Maps a runner error to a failed result. Cancellation and timeouts are
// reported uniformly as "cancelled"; spawn failures keep their own message
// so a missing toolchain is distinguishable from a failing one.
func failedRun(t target.Target, s Stage, result *proc.Result, err error) Result {
	var d time.Duration
	if result != nil {
		d = result.Duration
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return failed(t, s, "cancelled", d)
	}
	return failed(t, s, err.Error(), d)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
