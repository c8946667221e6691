// Package install copies a built binary into a conventional location and
// verifies it runs.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cruciblehq/shipwright/internal/manifest"
	"github.com/cruciblehq/shipwright/internal/paths"
	"github.com/cruciblehq/shipwright/internal/proc"
)

var ErrInstall = errors.New("install failed")

// Controls where the binary is installed.
type Options struct {
	System bool   // Install system-wide instead of per-user.
	Path   string // Explicit destination directory, overriding convention.
	Source string // Explicit source binary, overriding the build output location.
}

// Copies the previously built host binary into the destination directory,
// marks it executable, and verifies it by invoking it with --version.
//
// The source is the build stage's output location for the host platform
// unless overridden. Verification failure removes nothing; the operator
// sees the error and decides.
func Install(ctx context.Context, m *manifest.Manifest, runner *proc.Runner, opts Options) (string, error) {
	src := opts.Source
	if src == "" {
		src = hostBinary(m)
	}
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("%w: no built binary at %s (run the build command first): %w", ErrInstall, src, err)
	}

	dest := filepath.Join(Dir(opts), filepath.Base(src))
	if err := copyFile(src, dest); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInstall, err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(dest, paths.ExecutableMode); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInstall, err)
		}
	}

	result, err := runner.Run(ctx, dest, []string{"--version"}, proc.Options{})
	if err != nil {
		return "", fmt.Errorf("%w: installed binary failed verification: %w", ErrInstall, err)
	}
	if result.ExitCode != 0 {
		return "", fmt.Errorf("%w: installed binary exited with code %d on --version", ErrInstall, result.ExitCode)
	}

	slog.Info("installed", "path", dest)
	return dest, nil
}

// Removes the installed binary from the destination directory.
func Uninstall(m *manifest.Manifest, opts Options) (string, error) {
	dest := filepath.Join(Dir(opts), filepath.Base(hostBinary(m)))
	if err := os.Remove(dest); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInstall, err)
	}
	slog.Info("uninstalled", "path", dest)
	return dest, nil
}

// Resolves the destination directory: explicit path, system convention,
// or per-user convention.
func Dir(opts Options) string {
	switch {
	case opts.Path != "":
		return opts.Path
	case opts.System:
		return paths.SystemBin()
	default:
		return paths.UserBin()
	}
}

// Returns the build output location of the host platform's binary.
func hostBinary(m *manifest.Manifest) string {
	name := m.Product
	platform := runtime.GOOS
	switch runtime.GOOS {
	case "darwin":
		platform = "macos"
	case "windows":
		name += ".exe"
	}

	arch := runtime.GOARCH
	switch runtime.GOARCH {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	}

	return filepath.Join(m.Output, "bin", fmt.Sprintf("%s-%s", platform, arch), name)
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), paths.DefaultDirMode); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
