package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/cruciblehq/shipwright/internal/manifest"
	"github.com/cruciblehq/shipwright/internal/proc"
	"github.com/cruciblehq/shipwright/internal/target"
)

var ErrDestination = errors.New("invalid publish destination")

// One place an artifact is pushed to: release storage or a package-manager
// feed. Implementations are opaque succeed/fail collaborators.
type Destination interface {
	Name() string
	Push(ctx context.Context, artifact, version string, t target.Target) error
}

// Builds destinations from the manifest's publish section.
func FromManifest(dests []manifest.Destination, runner *proc.Runner) ([]Destination, error) {
	out := make([]Destination, 0, len(dests))
	for _, d := range dests {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: destination without a name", ErrDestination)
		}
		switch d.Type {
		case "dir":
			if d.Path == "" {
				return nil, fmt.Errorf("%w: %s: dir destination needs a path", ErrDestination, d.Name)
			}
			out = append(out, &Dir{DestName: d.Name, Path: d.Path})

		case "s3":
			if d.Bucket == "" {
				return nil, fmt.Errorf("%w: %s: s3 destination needs a bucket", ErrDestination, d.Name)
			}
			out = append(out, &S3{DestName: d.Name, Bucket: d.Bucket, Prefix: d.Prefix, Region: d.Region})

		case "command":
			if len(d.Command) == 0 {
				return nil, fmt.Errorf("%w: %s: command destination needs a command", ErrDestination, d.Name)
			}
			out = append(out, &Feed{DestName: d.Name, Command: d.Command, Runner: runner})

		default:
			return nil, fmt.Errorf("%w: %s: unknown type %q", ErrDestination, d.Name, d.Type)
		}
	}
	return out, nil
}
