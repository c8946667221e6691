// Package publish pushes release artifacts to configured destinations.
//
// A destination is either release storage (a directory tree or an S3
// bucket) or a package-manager feed driven by an external push tool. Each
// destination succeeds or fails independently; the publish stage reports
// the per-destination breakdown rather than a collapsed pass/fail bit.
package publish
