package stage

import (
	"testing"

	"github.com/cruciblehq/shipwright/internal/target"
)

var testTarget = target.Target{Platform: target.Linux, Arch: target.X8664, Format: target.Deb}

func TestHistorySatisfied(t *testing.T) {
	h := NewHistory(nil)
	if h.Satisfied(testTarget, Build) {
		t.Fatal("empty history should not satisfy build")
	}

	h.Add(succeeded(testTarget, Build, "dist/bin/linux-x86_64/product", "", 0))
	if !h.Satisfied(testTarget, Build) {
		t.Fatal("succeeded build should satisfy")
	}
	if h.Satisfied(testTarget, Package) {
		t.Fatal("package should not be satisfied yet")
	}
}

func TestHistorySkipSatisfaction(t *testing.T) {
	h := NewHistory(nil)
	h.Add(NewSkip(testTarget, Sign, ReasonNotApplicable, "dist/a.deb"))
	if !h.Satisfied(testTarget, Sign) {
		t.Fatal("not-applicable skip should satisfy")
	}

	h2 := NewHistory(nil)
	h2.Add(NewSkip(testTarget, Build, ReasonRunCancelled, ""))
	if h2.Satisfied(testTarget, Build) {
		t.Fatal("cancellation skip must not satisfy")
	}
}

func TestHistoryReusablePrior(t *testing.T) {
	prior := []Result{
		succeeded(testTarget, Build, "old/bin", "", 0),
		failed(testTarget, Package, "boom", 0),
	}
	h := NewHistory(prior)

	r, ok := h.ReusablePrior(testTarget, Build)
	if !ok {
		t.Fatal("succeeded prior build should be reusable")
	}
	if r.Artifact != "old/bin" {
		t.Fatalf("artifact = %q, want old/bin", r.Artifact)
	}

	if _, ok := h.ReusablePrior(testTarget, Package); ok {
		t.Fatal("failed prior package must not be reusable")
	}
}

func TestHistoryArtifactPrefersCurrentRun(t *testing.T) {
	prior := []Result{succeeded(testTarget, Build, "old/bin", "", 0)}
	h := NewHistory(prior)

	if got := h.Artifact(testTarget, Build); got != "old/bin" {
		t.Fatalf("artifact = %q, want prior old/bin", got)
	}

	h.Add(succeeded(testTarget, Build, "new/bin", "", 0))
	if got := h.Artifact(testTarget, Build); got != "new/bin" {
		t.Fatalf("artifact = %q, want current new/bin", got)
	}
}
