// Package script runs YAML-defined playbooks of supervised shell steps.
//
// A playbook is an ordered list of labeled command templates with optional
// per-step timeouts, environments, and failure policies. Each step compiles
// through the quoting engine, executes through the shell executor, and runs
// under the action supervisor, so playbooks inherit the same quoting
// guarantees, timeout bounds, and progress reporting as directly invoked
// commands.
package script
