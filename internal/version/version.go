package version

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Masterminds/semver/v3"

	"github.com/cruciblehq/shipwright/internal/manifest"
)

var ErrVersionMismatch = errors.New("version mismatch")

// Determines the single version string stamped across all artifacts of a
// pipeline run.
//
// Precedence: the explicit --version flag, then the manifest's version
// field, then the highest semantic-version tag of the enclosing git
// repository. Whichever source wins must parse as a semantic version;
// anything else fails with [ErrVersionMismatch] before any stage runs.
//
// Resolve is called exactly once per run and the result is threaded through
// every stage, so no two components can disagree on the version.
func Resolve(explicit string, m *manifest.Manifest, repoDir string) (string, error) {
	switch {
	case explicit != "":
		return canonical("flag", explicit)

	case m != nil && m.Version != "":
		return canonical("manifest", m.Version)
	}

	tag, err := highestTag(repoDir)
	if err != nil {
		return "", fmt.Errorf("%w: no --version flag, no manifest version, and %w", ErrVersionMismatch, err)
	}
	return canonical("git tag", tag)
}

// Validates a candidate version and normalizes it to its canonical semver
// form (no "v" prefix).
func canonical(source, raw string) (string, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s version %q: %w", ErrVersionMismatch, source, raw, err)
	}
	resolved := v.String()
	slog.Debug("version resolved", "source", source, "version", resolved)
	return resolved, nil
}
