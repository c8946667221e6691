package stage

import "github.com/cruciblehq/shipwright/internal/target"

// Accumulated results visible to a target's stage executors.
//
// A history is owned by a single target's task: the pipeline appends each
// stage result before the next stage runs, so no synchronization is
// needed. Prior results from a resumed run are read-only; the pipeline
// only seeds them when the prior run's version matches the current one,
// which prevents a stale artifact from an old release being reused.
type History struct {
	prior []Result
	chain []Result
}

// Creates a history seeded with results from a prior run of the same
// version.
func NewHistory(prior []Result) *History {
	return &History{prior: prior}
}

// Records a result from the current run.
func (h *History) Add(r Result) {
	h.chain = append(h.chain, r)
}

// Whether a prior run already succeeded at (target, stage). Used by the
// pipeline to skip re-execution on resume.
func (h *History) ReusablePrior(t target.Target, s Stage) (Result, bool) {
	for _, r := range h.prior {
		if r.Target == t && r.Stage == s && r.Outcome == Succeeded {
			return r, true
		}
	}
	return Result{}, false
}

// Whether (target, stage) is satisfied in this run or a resumed one.
func (h *History) Satisfied(t target.Target, s Stage) bool {
	for _, r := range h.chain {
		if r.Target == t && r.Stage == s {
			return r.Satisfied()
		}
	}
	_, ok := h.ReusablePrior(t, s)
	return ok
}

// Returns the artifact locator recorded for (target, stage), preferring
// the current run over resumed results. Empty when the stage has not
// produced one.
func (h *History) Artifact(t target.Target, s Stage) string {
	for i := len(h.chain) - 1; i >= 0; i-- {
		if r := h.chain[i]; r.Target == t && r.Stage == s && r.Artifact != "" {
			return r.Artifact
		}
	}
	if r, ok := h.ReusablePrior(t, s); ok {
		return r.Artifact
	}
	return ""
}
