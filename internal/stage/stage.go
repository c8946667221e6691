package stage

import (
	"context"
	"time"

	"github.com/cruciblehq/shipwright/internal/target"
)

// One pipeline phase.
type Stage string

const (
	Build   Stage = "build"
	Package Stage = "package"
	Sign    Stage = "sign"
	Publish Stage = "publish"
)

// Stages in dependency order.
var Order = []Stage{Build, Package, Sign, Publish}

// Outcome of running one stage for one target.
type Outcome string

const (
	Succeeded Outcome = "succeeded"
	Failed    Outcome = "failed"
	Skipped   Outcome = "skipped"
)

// Skip reasons. A skip satisfies downstream dependencies except when the
// run was cancelled before the stage could start.
const (
	ReasonPriorRun        = "already succeeded in prior run"
	ReasonNotApplicable   = "not applicable"
	ReasonSigningDisabled = "signing disabled by configuration"
	ReasonRunCancelled    = "run cancelled"
)

// Recorded outcome of one stage for one target. Never mutated after
// creation; owned by the pipeline run's report.
type Result struct {
	Target   target.Target `json:"target"`
	Stage    Stage         `json:"stage"`
	Outcome  Outcome       `json:"outcome"`
	Message  string        `json:"message,omitempty"`
	Artifact string        `json:"artifact,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Whether the result counts as done for downstream stages and for the
// overall run outcome. Succeeded results and valid skips qualify; a
// cancellation skip does not.
func (r Result) Satisfied() bool {
	switch r.Outcome {
	case Succeeded:
		return true
	case Skipped:
		return r.Message != ReasonRunCancelled
	default:
		return false
	}
}

// Executes one stage for one target.
//
// Run never returns an error; every outcome, including tool failures and
// cancellation, is reported as data in the result. The history carries the
// target's earlier results from this run plus any resumed prior results.
type Executor interface {
	Stage() Stage
	Run(ctx context.Context, t target.Target, version string, hist *History) Result
}

func succeeded(t target.Target, s Stage, artifact, message string, d time.Duration) Result {
	return Result{Target: t, Stage: s, Outcome: Succeeded, Message: message, Artifact: artifact, Duration: d}
}

func failed(t target.Target, s Stage, message string, d time.Duration) Result {
	return Result{Target: t, Stage: s, Outcome: Failed, Message: message, Duration: d}
}

// NewSkip reports a stage as skipped. The artifact, when given, carries the
// upstream artifact locator forward so later stages can still consume it.
func NewSkip(t target.Target, s Stage, reason, artifact string) Result {
	return Result{Target: t, Stage: s, Outcome: Skipped, Message: reason, Artifact: artifact}
}
