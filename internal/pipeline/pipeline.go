package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cruciblehq/shipwright/internal/stage"
	"github.com/cruciblehq/shipwright/internal/target"
)

// Sequences stage executors over a target matrix.
//
// Targets advance through the executors independently and in parallel,
// bounded by Limit; stage order within a target is strictly sequential
// because of the build→package→sign→publish data dependency. One target
// failing a stage never blocks another target's progress.
type Orchestrator struct {
	Executors []stage.Executor
	Limit     int
	Timeouts  map[stage.Stage]time.Duration
}

// Executes every requested stage for every target and returns the
// finalized run.
//
// Prior results from a resumed run cause matching (target, stage) pairs to
// be skipped instead of re-executed. Cancellation stops in-flight work,
// records it as failed ("cancelled"), marks unstarted work as skipped
// ("run cancelled"), and preserves everything already recorded so the run
// can be resumed. No target is ever silently dropped from the report.
func (o *Orchestrator) Execute(ctx context.Context, matrix target.Matrix, version string, prior []stage.Result) (*Run, error) {
	if len(matrix) == 0 {
		return nil, ErrEmptyMatrix
	}

	run := &Run{Version: version, Targets: matrix, Started: time.Now()}

	limit := o.Limit
	if limit < 1 {
		limit = 1
	}

	// Single synchronization point for results: per-target tasks send here
	// and never touch each other's state.
	results := make(chan stage.Result, len(matrix)*len(o.Executors))
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range results {
			run.Results = append(run.Results, r)
		}
	}()

	g := &errgroup.Group{}
	g.SetLimit(limit)

	for _, t := range matrix {
		t := t
		g.Go(func() error {
			o.runTarget(ctx, t, version, prior, results)
			return nil
		})
	}

	g.Wait()
	close(results)
	<-collected

	run.Finished = time.Now()
	run.finalize()
	return run, nil
}

// Advances one target through the executors in order, appending each
// result to the target's history and reporting it to the collector.
func (o *Orchestrator) runTarget(ctx context.Context, t target.Target, version string, prior []stage.Result, results chan<- stage.Result) {
	hist := stage.NewHistory(prior)

	for _, ex := range o.Executors {
		s := ex.Stage()

		var res stage.Result
		switch {
		case ctx.Err() != nil:
			res = stage.NewSkip(t, s, stage.ReasonRunCancelled, "")

		default:
			if reused, ok := hist.ReusablePrior(t, s); ok {
				slog.Debug("reusing prior result", "target", t.String(), "stage", s)
				res = stage.NewSkip(t, s, stage.ReasonPriorRun, reused.Artifact)
				break
			}
			res = o.runStage(ctx, ex, t, version, hist)
		}

		hist.Add(res)
		results <- res

		if res.Outcome == stage.Failed {
			slog.Warn("stage failed", "target", t.String(), "stage", s, "message", res.Message)
		}
	}
}

// Runs one executor under the stage's configured timeout.
func (o *Orchestrator) runStage(ctx context.Context, ex stage.Executor, t target.Target, version string, hist *stage.History) stage.Result {
	if timeout := o.Timeouts[ex.Stage()]; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return ex.Run(ctx, t, version, hist)
}

// Returns a one-line human summary of a finished run.
func Summary(run *Run) string {
	var ok, failed, skipped int
	for _, r := range run.Results {
		switch r.Outcome {
		case stage.Succeeded:
			ok++
		case stage.Failed:
			failed++
		case stage.Skipped:
			skipped++
		}
	}
	return fmt.Sprintf("%s: version %s, %d targets, %d succeeded / %d failed / %d skipped in %s",
		run.Outcome, run.Version, len(run.Targets), ok, failed, skipped,
		run.Finished.Sub(run.Started).Round(time.Millisecond))
}
