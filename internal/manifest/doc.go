// Package manifest loads the shipwright.yaml project configuration.
//
// The manifest names the external collaborators the pipeline drives: the
// build tool, per-format packagers, the signing tool, and the publish
// destinations. It never holds secrets; signing identities and destination
// credentials stay in environment variables that the manifest references
// by name only.
package manifest
