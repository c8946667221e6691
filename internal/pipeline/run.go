package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/cruciblehq/shipwright/internal/paths"
	"github.com/cruciblehq/shipwright/internal/stage"
	"github.com/cruciblehq/shipwright/internal/target"
)

var (
	ErrEmptyMatrix = errors.New("empty target matrix")
	ErrReport      = errors.New("unreadable run report")
)

// Overall outcome of a pipeline run.
type Outcome string

const (
	Succeeded       Outcome = "succeeded"
	PartiallyFailed Outcome = "partially_failed"
)

// One end-to-end orchestrator invocation: the resolved version, the target
// matrix, and every stage result. Terminal once finalized; a retry creates
// a new run that may reuse this one's succeeded results via resume.
type Run struct {
	Version  string         `json:"version"`
	Targets  target.Matrix  `json:"targets"`
	Results  []stage.Result `json:"results"`
	Outcome  Outcome        `json:"outcome"`
	Started  time.Time      `json:"started"`
	Finished time.Time      `json:"finished"`
}

// Derives the overall outcome and fixes the result order.
//
// The run succeeded only if every recorded stage for every target
// succeeded or was validly skipped. Results are ordered by the target's
// position in the matrix, then by stage order, so reports are stable
// regardless of task interleaving.
func (r *Run) finalize() {
	targetPos := make(map[target.Target]int, len(r.Targets))
	for i, t := range r.Targets {
		targetPos[t] = i
	}
	stagePos := make(map[stage.Stage]int, len(stage.Order))
	for i, s := range stage.Order {
		stagePos[s] = i
	}

	sort.SliceStable(r.Results, func(i, j int) bool {
		a, b := r.Results[i], r.Results[j]
		if targetPos[a.Target] != targetPos[b.Target] {
			return targetPos[a.Target] < targetPos[b.Target]
		}
		return stagePos[a.Stage] < stagePos[b.Stage]
	})

	r.Outcome = Succeeded
	for _, res := range r.Results {
		if !res.Satisfied() {
			r.Outcome = PartiallyFailed
			return
		}
	}
}

// Writes the run as JSON for later resume.
func (r *Run) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding run report: %w", err)
	}
	return os.WriteFile(path, data, paths.DefaultFileMode)
}

// Loads a prior run's succeeded results for resume.
//
// Only results from a run of the same version are reusable; resuming
// across versions would stamp stale artifacts into a new release, so a
// version mismatch yields no prior results rather than an error.
func LoadPrior(path, version string) ([]stage.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReport, err)
	}

	var run Run
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReport, path, err)
	}

	if run.Version != version {
		return nil, nil
	}
	return run.Results, nil
}
