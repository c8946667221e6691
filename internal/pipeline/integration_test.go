package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruciblehq/shipwright/internal/manifest"
	"github.com/cruciblehq/shipwright/internal/proc"
	"github.com/cruciblehq/shipwright/internal/publish"
	"github.com/cruciblehq/shipwright/internal/stage"
	"github.com/cruciblehq/shipwright/internal/target"
)

// Drives the real executors end to end with stub collaborator tools:
// one linux/deb target, explicit version, a single directory destination.
func TestPipelineEndToEnd(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test relies on /bin/sh")
	}

	m := manifest.Default()
	m.Output = t.TempDir()
	m.Build.Command = []string{"true"}
	// The packager stub creates the artifact file it was asked for.
	// $1 is the binary locator, $2 the artifact path.
	m.Packagers["deb"] = []string{"/bin/sh", "-c", `touch "$2"`, "pack"}

	storage := t.TempDir()
	runner := &proc.Runner{}
	dests, err := publish.FromManifest([]manifest.Destination{
		{Name: "release-storage", Type: "dir", Path: storage},
	}, runner)
	require.NoError(t, err)

	orch := &Orchestrator{
		Executors: []stage.Executor{
			&stage.BuildExecutor{Manifest: m, Runner: runner},
			&stage.PackageExecutor{Manifest: m, Runner: runner},
			&stage.SignExecutor{Manifest: m, Runner: runner},
			&stage.PublishExecutor{Destinations: dests},
		},
		Limit: 1,
	}

	matrix, err := target.Resolve([]target.Target{linuxDeb}, target.Filter{})
	require.NoError(t, err)

	run, err := orch.Execute(context.Background(), matrix, "1.2.3", nil)
	require.NoError(t, err)

	require.Len(t, run.Results, 4)
	assert.Equal(t, stage.Succeeded, run.Results[0].Outcome, run.Results[0].Message)
	assert.Equal(t, stage.Succeeded, run.Results[1].Outcome, run.Results[1].Message)
	assert.Equal(t, "product-1.2.3-x86_64.deb", filepath.Base(run.Results[1].Artifact))
	assert.Equal(t, stage.Skipped, run.Results[2].Outcome)
	assert.Equal(t, stage.ReasonNotApplicable, run.Results[2].Message)
	assert.Equal(t, stage.Succeeded, run.Results[3].Outcome, run.Results[3].Message)

	assert.Equal(t, Succeeded, run.Outcome)

	// The artifact reached release storage under the version directory.
	_, err = os.Stat(filepath.Join(storage, "1.2.3", "product-1.2.3-x86_64.deb"))
	assert.NoError(t, err)
}
