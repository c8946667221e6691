// Package stage implements the pipeline's per-target units of work.
//
// The four executors share one shape: given a target, the resolved
// version, and the target's result history, produce a [Result]. Executors
// never return errors; tool failures, unmet dependencies, and cancellation
// are all recorded as data so the pipeline can keep other targets moving
// and render a complete report.
//
// Artifact locators flow through the history: build records the binary,
// package records the named artifact, sign passes the locator through
// (also on a valid skip), and publish consumes it.
package stage
