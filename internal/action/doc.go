// Package action supervises labeled units of work under a timeout.
//
// Supervise races a WorkFunc against a configurable timer and reports one of
// four terminal outcomes: Succeeded, Skipped, TimedOut, or Failed. Run layers
// the propagation policy on top: skipped actions resolve silently, timeouts
// surface as TimeoutError, and ordinary failures are returned unchanged after
// an optional progress report. Cancellation is cooperative; work that ignores
// its context may keep running after the outcome is reported.
package action
