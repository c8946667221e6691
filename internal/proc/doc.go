// Package proc runs external collaborator tools as host processes.
//
// A [Runner] spawns a program with an argument list, optional environment
// overrides, and an optional working directory, waits for it to exit, and
// returns the captured output together with the exit code and wall-clock
// duration. A non-zero exit code is not an error at this layer; it is data
// for the caller to interpret. Only a failure to locate or start the
// program is reported as an error, wrapped in [ErrSpawn], because a missing
// toolchain needs different operator remediation than a failing build.
//
// Environment overrides are applied to the child process only. The
// orchestrator's own environment is never mutated.
package proc
