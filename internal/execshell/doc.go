// Package execshell provides structured helpers for running command lines
// through a configurable shell.
//
// It wraps os/exec with logging and lifecycle events via ShellExecutor,
// exposes OSCommandRunner for default process execution, and keeps non-zero
// exit codes as ordinary results so callers decide which exits count as
// failures.
package execshell
