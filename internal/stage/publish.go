package stage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cruciblehq/shipwright/internal/publish"
	"github.com/cruciblehq/shipwright/internal/target"
)

// Pushes the (possibly signed) artifact to every configured destination.
//
// Destinations fail independently: one feed rejecting an artifact does not
// stop the upload to release storage, and the result message names each
// destination's outcome so a partial failure is never collapsed into a
// single pass/fail bit.
type PublishExecutor struct {
	Destinations []publish.Destination
}

func (e *PublishExecutor) Stage() Stage { return Publish }

func (e *PublishExecutor) Run(ctx context.Context, t target.Target, version string, hist *History) Result {
	// The sign stage carries the package artifact forward on a valid skip,
	// so a missing artifact here means signing or packaging went wrong.
	artifact := hist.Artifact(t, Sign)
	if artifact == "" || !hist.Satisfied(t, Sign) {
		return failed(t, Publish, fmt.Sprintf("%v: sign", ErrDependencyUnmet), 0)
	}

	if len(e.Destinations) == 0 {
		return failed(t, Publish, "no publish destinations configured", 0)
	}

	start := time.Now()
	var parts []string
	var failedDests []string

	for _, dest := range e.Destinations {
		if err := dest.Push(ctx, artifact, version, t); err != nil {
			failedDests = append(failedDests, dest.Name())
			parts = append(parts, fmt.Sprintf("%s: failed: %v", dest.Name(), err))
			slog.Warn("publish destination failed", "target", t.String(), "destination", dest.Name(), "error", err)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: ok", dest.Name()))
	}
	elapsed := time.Since(start)

	message := strings.Join(parts, "; ")
	switch {
	case len(failedDests) == 0:
		return succeeded(t, Publish, artifact, message, elapsed)
	case len(failedDests) < len(e.Destinations):
		return failed(t, Publish, fmt.Sprintf("%v: %s", ErrPublishPartial, message), elapsed)
	default:
		return failed(t, Publish, message, elapsed)
	}
}
