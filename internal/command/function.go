package command

import (
	"context"
	"errors"

	"github.com/temirov/shx/internal/execshell"
	"github.com/temirov/shx/internal/quoting"
)

// ErrRunnerNotConfigured indicates a Function that was built without an
// execution stage, such as the zero value.
var ErrRunnerNotConfigured = errors.New("command function requires an execution stage")

// ErrPostStageRequired indicates a Transform attached without its mandatory
// post stage.
var ErrPostStageRequired = errors.New("command transform requires a post stage")

// Transform describes one decoration layer around command execution.
type Transform[InputType any, OutputType any] struct {
	// Pre rewrites the compiled command line just before execution. Optional.
	Pre func(commandLine string) (string, error)
	// Post converts the execution result of the wrapped stage. Required.
	Post func(result InputType) (OutputType, error)
	// Finalize runs after every invocation, success or failure. Optional.
	Finalize func()
}

// Function executes compiled command templates and converts results through
// attached transforms. The zero value reports ErrRunnerNotConfigured on use.
type Function[ResultType any] struct {
	run        func(executionContext context.Context, commandLine string) (ResultType, error)
	finalizers []func()
}

// NewFunction builds the base text-mode function over executor with a fixed
// shell configuration.
func NewFunction(executor *execshell.ShellExecutor, configuration execshell.ShellConfiguration) Function[execshell.ExecutionResult] {
	if executor == nil {
		return Function[execshell.ExecutionResult]{}
	}
	return Function[execshell.ExecutionResult]{
		run: func(executionContext context.Context, commandLine string) (execshell.ExecutionResult, error) {
			return executor.ExecuteCommand(executionContext, commandLine, configuration)
		},
	}
}

// NewRawFunction builds the base bytes-mode function over executor with a
// fixed shell configuration.
func NewRawFunction(executor *execshell.ShellExecutor, configuration execshell.ShellConfiguration) Function[execshell.RawExecutionResult] {
	if executor == nil {
		return Function[execshell.RawExecutionResult]{}
	}
	return Function[execshell.RawExecutionResult]{
		run: func(executionContext context.Context, commandLine string) (execshell.RawExecutionResult, error) {
			return executor.ExecuteCommandRaw(executionContext, commandLine, configuration)
		},
	}
}

// Map wraps base with transform and returns a new Function, leaving base
// untouched.
//
// Ordering across a chain of Map calls: the last-attached pre runs first on
// the compiled command line, posts run from the first-attached outward, and
// finalizers accumulate in attachment order. Every invocation of the derived
// function runs the full finalizer list exactly once, even when a stage
// fails.
func Map[InputType any, OutputType any](base Function[InputType], transform Transform[InputType, OutputType]) Function[OutputType] {
	accumulatedFinalizers := make([]func(), 0, len(base.finalizers)+1)
	accumulatedFinalizers = append(accumulatedFinalizers, base.finalizers...)
	if transform.Finalize != nil {
		accumulatedFinalizers = append(accumulatedFinalizers, transform.Finalize)
	}

	baseRun := base.run
	return Function[OutputType]{
		run: func(executionContext context.Context, commandLine string) (OutputType, error) {
			var zeroOutput OutputType
			if transform.Post == nil {
				return zeroOutput, ErrPostStageRequired
			}
			if baseRun == nil {
				return zeroOutput, ErrRunnerNotConfigured
			}
			if transform.Pre != nil {
				rewrittenCommandLine, preError := transform.Pre(commandLine)
				if preError != nil {
					return zeroOutput, preError
				}
				commandLine = rewrittenCommandLine
			}
			intermediateResult, runError := baseRun(executionContext, commandLine)
			if runError != nil {
				return zeroOutput, runError
			}
			return transform.Post(intermediateResult)
		},
		finalizers: accumulatedFinalizers,
	}
}

// Invoke compiles template with the provided values, executes the compiled
// command line through the transform chain, and returns the converted result.
// All accumulated finalizers run before Invoke returns, whether or not any
// stage failed.
func (function Function[ResultType]) Invoke(executionContext context.Context, template string, values ...any) (ResultType, error) {
	defer function.runFinalizers()
	compiledCommandLine, compileError := quoting.CompileTemplate(template, values...)
	return function.execute(executionContext, compiledCommandLine, compileError)
}

// InvokeFragments mirrors Invoke for callers holding pre-split literal
// fragments instead of a {} placeholder template.
func (function Function[ResultType]) InvokeFragments(executionContext context.Context, fragments []string, values []any) (ResultType, error) {
	defer function.runFinalizers()
	compiledCommandLine, compileError := quoting.CompileFragments(fragments, values)
	return function.execute(executionContext, compiledCommandLine, compileError)
}

func (function Function[ResultType]) execute(executionContext context.Context, commandLine string, compileError error) (ResultType, error) {
	var zeroResult ResultType
	if compileError != nil {
		return zeroResult, compileError
	}
	if function.run == nil {
		return zeroResult, ErrRunnerNotConfigured
	}
	return function.run(executionContext, commandLine)
}

func (function Function[ResultType]) runFinalizers() {
	for _, finalizer := range function.finalizers {
		finalizer()
	}
}
