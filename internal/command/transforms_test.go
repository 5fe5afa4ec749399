package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/shx/internal/command"
	"github.com/temirov/shx/internal/execshell"
)

func TestFailOnNonZeroExitTransform(testInstance *testing.T) {
	testCases := []struct {
		name             string
		exitCode         int
		expectFailure    bool
		expectedExitCode int
	}{
		{name: "zero_exit_passes_through", exitCode: 0, expectFailure: false},
		{name: "non_zero_exit_raises_command_failure", exitCode: 3, expectFailure: true, expectedExitCode: 3},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			runner := &stubCommandRunner{
				runCallback: func(execshell.ShellCommand) (execshell.RawExecutionResult, error) {
					return execshell.RawExecutionResult{StandardError: []byte("boom\n"), ExitCode: testCase.exitCode}, nil
				},
			}
			strictFunction := command.Map(newTestFunction(testInstance, runner), command.FailOnNonZeroExit())

			executionResult, invokeError := strictFunction.Invoke(context.Background(), "make {}", "release build")

			if !testCase.expectFailure {
				require.NoError(testInstance, invokeError)
				require.Equal(testInstance, 0, executionResult.ExitCode)
				return
			}
			var commandFailure execshell.CommandFailedError
			require.ErrorAs(testInstance, invokeError, &commandFailure)
			require.Equal(testInstance, "make 'release build'", commandFailure.Result.CommandLine)
			require.Equal(testInstance, testCase.expectedExitCode, commandFailure.Result.ExitCode)
			require.Equal(testInstance, "boom", commandFailure.Result.StandardError)
		})
	}
}

func TestPickStandardOutputTransform(testInstance *testing.T) {
	runner := &stubCommandRunner{
		runCallback: func(execshell.ShellCommand) (execshell.RawExecutionResult, error) {
			return execshell.RawExecutionResult{StandardOutput: []byte("feature-branch\n")}, nil
		},
	}
	textFunction := command.Map(newTestFunction(testInstance, runner), command.PickStandardOutput())

	branchName, invokeError := textFunction.Invoke(context.Background(), "git rev-parse --abbrev-ref HEAD")

	require.NoError(testInstance, invokeError)
	require.Equal(testInstance, "feature-branch", branchName)
}

func TestFailOnNonZeroExitComposesWithPickStandardOutput(testInstance *testing.T) {
	runner := &stubCommandRunner{
		runCallback: func(execshell.ShellCommand) (execshell.RawExecutionResult, error) {
			return execshell.RawExecutionResult{ExitCode: 7}, nil
		},
	}
	chainedFunction := command.Map(command.Map(newTestFunction(testInstance, runner), command.FailOnNonZeroExit()), command.PickStandardOutput())

	_, invokeError := chainedFunction.Invoke(context.Background(), "false")

	var commandFailure execshell.CommandFailedError
	require.True(testInstance, errors.As(invokeError, &commandFailure))
	require.Equal(testInstance, "false", commandFailure.Result.CommandLine)
	require.Equal(testInstance, 7, commandFailure.Result.ExitCode)
}
