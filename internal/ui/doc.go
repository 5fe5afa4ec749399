// Package ui turns shell command lifecycle events into human-readable log
// lines. The console observer subscribes to the executor's notifications and
// picks a severity per outcome, leaving machine-oriented telemetry to the
// structured logger the executor already writes.
package ui
