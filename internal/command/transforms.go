package command

import (
	"github.com/temirov/shx/internal/execshell"
)

// FailOnNonZeroExit returns a transform that raises CommandFailedError for
// non-zero exit codes and passes successful results through unchanged.
func FailOnNonZeroExit() Transform[execshell.ExecutionResult, execshell.ExecutionResult] {
	return Transform[execshell.ExecutionResult, execshell.ExecutionResult]{
		Post: func(result execshell.ExecutionResult) (execshell.ExecutionResult, error) {
			if result.ExitCode != 0 {
				return result, execshell.CommandFailedError{Result: result}
			}
			return result, nil
		},
	}
}

// PickStandardOutput returns a transform that reduces a result to its
// captured standard output text.
func PickStandardOutput() Transform[execshell.ExecutionResult, string] {
	return Transform[execshell.ExecutionResult, string]{
		Post: func(result execshell.ExecutionResult) (string, error) {
			return result.StandardOutput, nil
		},
	}
}
