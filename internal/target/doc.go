// Package target models the (platform, architecture, package format)
// combinations a pipeline run builds for.
//
// A [Target] is immutable once constructed and validated: every format is
// checked against the set of formats its platform can produce, so a dmg on
// windows is rejected at construction rather than at packaging time. A
// [Matrix] is the ordered, duplicate-free set of targets for one run,
// resolved either from explicit selections or from the cross-product of
// per-platform defaults.
package target
