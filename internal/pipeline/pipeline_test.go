package pipeline

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruciblehq/shipwright/internal/stage"
	"github.com/cruciblehq/shipwright/internal/target"
)

// Scriptable stage executor for orchestration tests.
type fakeExecutor struct {
	stage stage.Stage
	run   func(ctx context.Context, t target.Target, version string, hist *stage.History) stage.Result

	mu    sync.Mutex
	calls []target.Target
}

func (e *fakeExecutor) Stage() stage.Stage { return e.stage }

func (e *fakeExecutor) Run(ctx context.Context, t target.Target, version string, hist *stage.History) stage.Result {
	e.mu.Lock()
	e.calls = append(e.calls, t)
	e.mu.Unlock()
	if e.run != nil {
		return e.run(ctx, t, version, hist)
	}
	return stage.Result{Target: t, Stage: e.stage, Outcome: stage.Succeeded, Artifact: "artifact"}
}

func (e *fakeExecutor) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func mustMatrix(t *testing.T, targets ...target.Target) target.Matrix {
	t.Helper()
	m, err := target.Resolve(targets, target.Filter{})
	require.NoError(t, err)
	return m
}

var linuxDeb = target.Target{Platform: target.Linux, Arch: target.X8664, Format: target.Deb}

func TestExecuteAllTargetsSucceed(t *testing.T) {
	build := &fakeExecutor{stage: stage.Build}
	pack := &fakeExecutor{stage: stage.Package}

	matrix := mustMatrix(t,
		linuxDeb,
		target.Target{Platform: target.MacOS, Arch: target.Aarch64, Format: target.DMG},
	)

	orch := &Orchestrator{Executors: []stage.Executor{build, pack}, Limit: 2}
	run, err := orch.Execute(context.Background(), matrix, "1.2.3", nil)
	require.NoError(t, err)

	assert.Equal(t, Succeeded, run.Outcome)
	assert.Len(t, run.Results, 4)
	assert.Equal(t, 2, build.callCount())
	assert.Equal(t, 2, pack.callCount())
}

func TestExecuteEmptyMatrix(t *testing.T) {
	orch := &Orchestrator{}
	_, err := orch.Execute(context.Background(), nil, "1.2.3", nil)
	assert.ErrorIs(t, err, ErrEmptyMatrix)
}

func TestExecuteOneTargetFailureDoesNotBlockOthers(t *testing.T) {
	build := &fakeExecutor{
		stage: stage.Build,
		run: func(ctx context.Context, tgt target.Target, version string, hist *stage.History) stage.Result {
			if tgt.Platform == target.MacOS {
				return stage.Result{Target: tgt, Stage: stage.Build, Outcome: stage.Failed, Message: "boom"}
			}
			return stage.Result{Target: tgt, Stage: stage.Build, Outcome: stage.Succeeded, Artifact: "bin"}
		},
	}
	pack := &fakeExecutor{stage: stage.Package}

	matrix := mustMatrix(t,
		linuxDeb,
		target.Target{Platform: target.MacOS, Arch: target.Aarch64, Format: target.DMG},
	)

	orch := &Orchestrator{Executors: []stage.Executor{build, pack}, Limit: 1}
	run, err := orch.Execute(context.Background(), matrix, "1.2.3", nil)
	require.NoError(t, err)

	assert.Equal(t, PartiallyFailed, run.Outcome)
	// The failed target still reaches later stages (which report their own
	// dependency failures) and the healthy target completes normally.
	assert.Equal(t, 2, pack.callCount())
	assert.Len(t, run.Results, 4)
}

func TestExecuteResumeSkipsSucceededStages(t *testing.T) {
	build := &fakeExecutor{stage: stage.Build}
	pack := &fakeExecutor{stage: stage.Package}

	matrix := mustMatrix(t, linuxDeb)
	prior := []stage.Result{
		{Target: linuxDeb, Stage: stage.Build, Outcome: stage.Succeeded, Artifact: "prior/bin"},
	}

	orch := &Orchestrator{Executors: []stage.Executor{build, pack}, Limit: 1}
	run, err := orch.Execute(context.Background(), matrix, "1.2.3", prior)
	require.NoError(t, err)

	assert.Equal(t, 0, build.callCount(), "succeeded prior build must not re-run")
	assert.Equal(t, 1, pack.callCount())

	require.Len(t, run.Results, 2)
	assert.Equal(t, stage.Skipped, run.Results[0].Outcome)
	assert.Equal(t, stage.ReasonPriorRun, run.Results[0].Message)
	assert.Equal(t, "prior/bin", run.Results[0].Artifact)
	assert.Equal(t, Succeeded, run.Outcome)
}

func TestExecuteCancellationPreservesEveryTarget(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	matrix := mustMatrix(t,
		target.Target{Platform: target.Linux, Arch: target.Aarch64, Format: target.Deb},
		linuxDeb,
		target.Target{Platform: target.MacOS, Arch: target.Aarch64, Format: target.DMG},
		target.Target{Platform: target.Windows, Arch: target.X8664, Format: target.MSI},
	)

	// With limit 1 targets run strictly in matrix order. The third target's
	// build cancels the run mid-flight.
	var builds int
	build := &fakeExecutor{
		stage: stage.Build,
		run: func(ctx context.Context, tgt target.Target, version string, hist *stage.History) stage.Result {
			builds++
			if builds == 3 {
				cancel()
				return stage.Result{Target: tgt, Stage: stage.Build, Outcome: stage.Failed, Message: "cancelled"}
			}
			return stage.Result{Target: tgt, Stage: stage.Build, Outcome: stage.Succeeded, Artifact: "bin"}
		},
	}
	pack := &fakeExecutor{stage: stage.Package}

	orch := &Orchestrator{Executors: []stage.Executor{build, pack}, Limit: 1}
	run, err := orch.Execute(ctx, matrix, "1.2.3", nil)
	require.NoError(t, err)

	// Every target appears in the report with a result per stage.
	perTarget := make(map[target.Target][]stage.Result)
	for _, r := range run.Results {
		perTarget[r.Target] = append(perTarget[r.Target], r)
	}
	require.Len(t, perTarget, 4)
	for tgt, results := range perTarget {
		assert.Len(t, results, 2, "target %s dropped results", tgt)
	}

	// Targets 1-2 finished normally before cancellation.
	assert.Equal(t, stage.Succeeded, perTarget[matrix[0]][0].Outcome)
	assert.Equal(t, stage.Succeeded, perTarget[matrix[1]][0].Outcome)

	// Target 3 was cancelled in flight; target 4 never started.
	assert.Equal(t, stage.Failed, perTarget[matrix[2]][0].Outcome)
	assert.Equal(t, "cancelled", perTarget[matrix[2]][0].Message)
	assert.Equal(t, stage.Skipped, perTarget[matrix[3]][0].Outcome)
	assert.Equal(t, stage.ReasonRunCancelled, perTarget[matrix[3]][0].Message)

	assert.Equal(t, PartiallyFailed, run.Outcome)
}

func TestExecuteStageTimeout(t *testing.T) {
	slow := &fakeExecutor{
		stage: stage.Build,
		run: func(ctx context.Context, tgt target.Target, version string, hist *stage.History) stage.Result {
			select {
			case <-ctx.Done():
				return stage.Result{Target: tgt, Stage: stage.Build, Outcome: stage.Failed, Message: "cancelled"}
			case <-time.After(5 * time.Second):
				return stage.Result{Target: tgt, Stage: stage.Build, Outcome: stage.Succeeded}
			}
		},
	}

	orch := &Orchestrator{
		Executors: []stage.Executor{slow},
		Limit:     1,
		Timeouts:  map[stage.Stage]time.Duration{stage.Build: 20 * time.Millisecond},
	}

	run, err := orch.Execute(context.Background(), mustMatrix(t, linuxDeb), "1.2.3", nil)
	require.NoError(t, err)
	require.Len(t, run.Results, 1)
	assert.Equal(t, stage.Failed, run.Results[0].Outcome)
	assert.Equal(t, "cancelled", run.Results[0].Message)
}

func TestResultsOrderedByMatrixThenStage(t *testing.T) {
	build := &fakeExecutor{stage: stage.Build}
	pack := &fakeExecutor{stage: stage.Package}

	matrix := mustMatrix(t,
		linuxDeb,
		target.Target{Platform: target.Windows, Arch: target.X8664, Format: target.MSI},
	)

	orch := &Orchestrator{Executors: []stage.Executor{build, pack}, Limit: 2}
	run, err := orch.Execute(context.Background(), matrix, "1.2.3", nil)
	require.NoError(t, err)

	var got []string
	for _, r := range run.Results {
		got = append(got, fmt.Sprintf("%s/%s", r.Target, r.Stage))
	}
	assert.Equal(t, []string{
		"linux-x86_64.deb/build",
		"linux-x86_64.deb/package",
		"windows-x86_64.msi/build",
		"windows-x86_64.msi/package",
	}, got)
}

func TestSummary(t *testing.T) {
	run := &Run{
		Version: "1.2.3",
		Targets: target.Matrix{linuxDeb},
		Results: []stage.Result{
			{Target: linuxDeb, Stage: stage.Build, Outcome: stage.Succeeded},
			{Target: linuxDeb, Stage: stage.Sign, Outcome: stage.Skipped, Message: stage.ReasonNotApplicable},
		},
	}
	run.finalize()

	s := Summary(run)
	assert.Contains(t, s, "succeeded")
	assert.Contains(t, s, "1.2.3")
	assert.Contains(t, s, "1 succeeded / 0 failed / 1 skipped")
}
