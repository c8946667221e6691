package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

var ErrSpawn = errors.New("failed to spawn process")

// Output of a single external process invocation.
type Result struct {
	ExitCode int           // Exit code of the process.
	Stdout   string        // Captured standard output.
	Stderr   string        // Captured standard error.
	Duration time.Duration // Wall-clock time from start to exit.
}

// Controls a single invocation.
type Options struct {
	Dir     string            // Working directory. Empty means the current directory.
	Env     map[string]string // Environment overrides for the child process only.
	Console bool              // Mirror output to the orchestrator's stdout/stderr.
}

// Runs external programs synchronously.
//
// The zero value is ready to use. A non-nil Stdout/Stderr pair redirects
// mirrored console output, which tests use to keep output quiet.
type Runner struct {
	Stdout io.Writer // Destination for mirrored stdout. Defaults to os.Stdout.
	Stderr io.Writer // Destination for mirrored stderr. Defaults to os.Stderr.
}

// Runs a program and waits for it to exit.
//
// The exit code of a completed process is returned in the result, never as
// an error. An error is returned only when the process could not be started
// (wrapped in [ErrSpawn]) or when the context was cancelled before it
// completed.
func (r *Runner) Run(ctx context.Context, program string, args []string, opts Options) (*Result, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = opts.Dir
	cmd.Env = environ(opts.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if opts.Console {
		cmd.Stdout = io.MultiWriter(&stdout, r.stdout())
		cmd.Stderr = io.MultiWriter(&stderr, r.stderr())
	}

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: elapsed,
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil

	case errors.As(err, &exitErr):
		// The process ran and exited non-zero. Cancellation that killed the
		// process also surfaces here, so check the context first.
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.ExitCode = exitErr.ExitCode()
		return result, nil

	default:
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrSpawn, program, err)
	}
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// Builds the child environment from the parent environment plus overrides.
//
// Returns nil when there are no overrides so exec falls back to inheriting
// the parent environment directly.
func environ(overrides map[string]string) []string {
	if len(overrides) == 0 {
		return nil
	}
	env := os.Environ()
	for k, v := range overrides {
		env = append(env, k+"="+v)
	}
	return env
}
