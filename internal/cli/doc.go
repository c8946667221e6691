// Parses flags and dispatches shipwright commands.
//
// Workflow commands (dev, check, fmt, lint, test) run a single manifest
// tool. Pipeline commands (build, package, sign, dist, release, all) run
// the staged pipeline through their final stage. install and uninstall
// manage the built host binary.
//
// Exit codes: 0 when everything succeeded, 1 when some targets failed,
// and 2 when the run could not start at all (bad manifest, invalid
// matrix, unresolvable version).
package cli
