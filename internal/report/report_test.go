package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cruciblehq/shipwright/internal/pipeline"
	"github.com/cruciblehq/shipwright/internal/stage"
	"github.com/cruciblehq/shipwright/internal/target"
)

func sampleRun() *pipeline.Run {
	linuxDeb := target.Target{Platform: target.Linux, Arch: target.X8664, Format: target.Deb}
	macDMG := target.Target{Platform: target.MacOS, Arch: target.Aarch64, Format: target.DMG}

	return &pipeline.Run{
		Version: "1.2.3",
		Outcome: pipeline.PartiallyFailed,
		Targets: target.Matrix{linuxDeb, macDMG},
		Results: []stage.Result{
			{Target: linuxDeb, Stage: stage.Build, Outcome: stage.Succeeded, Duration: 1200 * time.Millisecond},
			{Target: linuxDeb, Stage: stage.Sign, Outcome: stage.Skipped, Message: stage.ReasonNotApplicable},
			{Target: macDMG, Stage: stage.Build, Outcome: stage.Failed, Message: "tauri exited with code 101"},
		},
	}
}

func TestTableListsEveryResult(t *testing.T) {
	out := Table(sampleRun())

	assert.Contains(t, out, "linux-x86_64.deb")
	assert.Contains(t, out, "macos-aarch64.dmg")
	assert.Contains(t, out, "succeeded")
	assert.Contains(t, out, "skipped")
	assert.Contains(t, out, "tauri exited with code 101")
	assert.Contains(t, out, "1.2s")
}

func TestTableRowsFollowResultOrder(t *testing.T) {
	out := Table(sampleRun())

	linux := strings.Index(out, "linux-x86_64.deb")
	mac := strings.Index(out, "macos-aarch64.dmg")
	assert.Less(t, linux, mac, "rows must follow result order")
}

func TestRenderIncludesSummary(t *testing.T) {
	out := Render(sampleRun())
	assert.Contains(t, out, "1.2.3")
	assert.Contains(t, out, "TARGET")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "-", formatDuration(0))
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "1.5s", formatDuration(1500*time.Millisecond))
}
