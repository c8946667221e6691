// Package pipeline orchestrates the build → package → sign → publish
// stages across a target matrix.
//
// The policy is continue-on-partial-failure: every target that can make
// progress does, and the run only aborts early when a run-wide
// precondition (version resolution, matrix validity) fails before any
// stage starts. The finalized [Run] records a result for every (target,
// stage) pair it attempted or deliberately skipped, and can be written as
// JSON and fed back into a later run to resume without re-executing
// succeeded stages.
package pipeline
