package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cruciblehq/shipwright/internal/paths"
	"github.com/cruciblehq/shipwright/internal/target"
)

// Release storage backed by a local or mounted directory.
//
// Artifacts are laid out as {path}/{version}/{file}, so a release's
// artifacts for all targets land next to each other.
type Dir struct {
	DestName string
	Path     string
}

func (d *Dir) Name() string { return d.DestName }

func (d *Dir) Push(ctx context.Context, artifact, version string, t target.Target) error {
	dir := filepath.Join(d.Path, version)
	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	src, err := os.Open(artifact)
	if err != nil {
		return fmt.Errorf("opening artifact: %w", err)
	}
	defer src.Close()

	dest := filepath.Join(dir, filepath.Base(artifact))
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.DefaultFileMode)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}

	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dest, err)
	}
	return out.Close()
}
