package execshell_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/shx/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFailureCaseNameConstant         = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
	testCommandLineConstant                      = "echo ready"
	testStandardOutputConstant                   = "ready"
	testStandardErrorOutputConstant              = "failure detail"
	testCustomShellPathConstant                  = "/bin/zsh"
)

type recordingCommandRunner struct {
	executionResult  execshell.RawExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.RawExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.executionResult, runner.executionError
}

type recordingEventObserver struct {
	startedCommands   []execshell.ShellCommand
	completedCommands []execshell.ShellCommand
	completedResults  []execshell.RawExecutionResult
	executionFailures []error
}

func (observer *recordingEventObserver) CommandStarted(command execshell.ShellCommand) {
	observer.startedCommands = append(observer.startedCommands, command)
}

func (observer *recordingEventObserver) CommandCompleted(command execshell.ShellCommand, result execshell.RawExecutionResult) {
	observer.completedCommands = append(observer.completedCommands, command)
	observer.completedResults = append(observer.completedResults, result)
}

func (observer *recordingEventObserver) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	observer.executionFailures = append(observer.executionFailures, failure)
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		expectError   error
		expectSuccess bool
	}{
		{
			name:        testLoggerInitializationCaseNameConstant,
			logger:      nil,
			runner:      &recordingCommandRunner{},
			expectError: execshell.ErrLoggerNotConfigured,
		},
		{
			name:        testRunnerInitializationCaseNameConstant,
			logger:      zap.NewNop(),
			runner:      nil,
			expectError: execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner, nil)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}
}

func TestShellExecutorExecuteBehavior(testInstance *testing.T) {
	testCases := []struct {
		name             string
		runnerResult     execshell.RawExecutionResult
		runnerError      error
		expectHardError  bool
		expectedExitCode int
		expectedLogCount int
	}{
		{
			name: testExecutionSuccessCaseNameConstant,
			runnerResult: execshell.RawExecutionResult{
				StandardOutput: []byte(testStandardOutputConstant),
				ExitCode:       0,
			},
			expectedExitCode: 0,
			expectedLogCount: 2,
		},
		{
			name: testExecutionFailureCaseNameConstant,
			runnerResult: execshell.RawExecutionResult{
				StandardError: []byte(testStandardErrorOutputConstant),
				ExitCode:      3,
			},
			expectedExitCode: 3,
			expectedLogCount: 2,
		},
		{
			name:             testExecutionRunnerErrorCaseNameConstant,
			runnerError:      errors.New("runner failure"),
			expectHardError:  true,
			expectedLogCount: 2,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)

			recordingRunner := &recordingCommandRunner{
				executionResult: testCase.runnerResult,
				executionError:  testCase.runnerError,
			}

			shellExecutor, creationError := execshell.NewShellExecutor(logger, recordingRunner, nil)
			require.NoError(testInstance, creationError)

			executionResult, executionError := shellExecutor.ExecuteCommand(context.Background(), testCommandLineConstant, execshell.ShellConfiguration{})

			if testCase.expectHardError {
				require.Error(testInstance, executionError)
				require.IsType(testInstance, execshell.CommandExecutionError{}, executionError)
				require.ErrorIs(testInstance, executionError, testCase.runnerError)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.expectedExitCode, executionResult.ExitCode)
			}

			require.Len(testInstance, observerLogs.All(), testCase.expectedLogCount)
		})
	}
}

func TestShellExecutorAppliesShellDefaults(testInstance *testing.T) {
	recordingRunner := &recordingCommandRunner{}
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner, nil)
	require.NoError(testInstance, creationError)

	_, executionError := shellExecutor.ExecuteCommand(context.Background(), testCommandLineConstant, execshell.ShellConfiguration{})
	require.NoError(testInstance, executionError)

	require.Len(testInstance, recordingRunner.recordedCommands, 1)
	recordedCommand := recordingRunner.recordedCommands[0]
	require.Equal(testInstance, "/bin/bash", recordedCommand.Configuration.ShellPath)
	require.Equal(testInstance, []string{"-c"}, recordedCommand.Configuration.ShellArguments)
	require.Equal(testInstance, testCommandLineConstant, recordedCommand.CommandLine)
}

func TestShellExecutorHonorsCustomShellSelection(testInstance *testing.T) {
	recordingRunner := &recordingCommandRunner{}
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner, nil)
	require.NoError(testInstance, creationError)

	configuration := execshell.ShellConfiguration{
		ShellPath:      testCustomShellPathConstant,
		ShellArguments: []string{"-l", "-c"},
	}
	_, executionError := shellExecutor.ExecuteCommand(context.Background(), testCommandLineConstant, configuration)
	require.NoError(testInstance, executionError)

	require.Len(testInstance, recordingRunner.recordedCommands, 1)
	recordedCommand := recordingRunner.recordedCommands[0]
	require.Equal(testInstance, testCustomShellPathConstant, recordedCommand.Configuration.ShellPath)
	require.Equal(testInstance, []string{"-l", "-c"}, recordedCommand.Configuration.ShellArguments)
}

func TestShellExecutorTrimsDecodedOutputByDefault(testInstance *testing.T) {
	recordingRunner := &recordingCommandRunner{
		executionResult: execshell.RawExecutionResult{
			StandardOutput: []byte("  ready\n\n"),
			StandardError:  []byte("\twarned \n"),
		},
	}
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner, nil)
	require.NoError(testInstance, creationError)

	executionResult, executionError := shellExecutor.ExecuteCommand(context.Background(), testCommandLineConstant, execshell.ShellConfiguration{})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, testCommandLineConstant, executionResult.CommandLine)
	require.Equal(testInstance, "ready", executionResult.StandardOutput)
	require.Equal(testInstance, "warned", executionResult.StandardError)
	require.True(testInstance, executionResult.Trimmed)
}

func TestShellExecutorKeepsWhitespaceWhenTrimmingDisabled(testInstance *testing.T) {
	recordingRunner := &recordingCommandRunner{
		executionResult: execshell.RawExecutionResult{
			StandardOutput: []byte("  ready\n"),
		},
	}
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner, nil)
	require.NoError(testInstance, creationError)

	configuration := execshell.ShellConfiguration{DisableOutputTrimming: true}
	executionResult, executionError := shellExecutor.ExecuteCommand(context.Background(), testCommandLineConstant, configuration)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "  ready\n", executionResult.StandardOutput)
	require.False(testInstance, executionResult.Trimmed)
}

func TestShellExecutorRawResultPreservesBytes(testInstance *testing.T) {
	rawStandardOutput := []byte("  raw bytes \x00 with nul \n")
	recordingRunner := &recordingCommandRunner{
		executionResult: execshell.RawExecutionResult{StandardOutput: rawStandardOutput, ExitCode: 2},
	}
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner, nil)
	require.NoError(testInstance, creationError)

	rawResult, executionError := shellExecutor.ExecuteCommandRaw(context.Background(), testCommandLineConstant, execshell.ShellConfiguration{})
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, testCommandLineConstant, rawResult.CommandLine)
	require.Equal(testInstance, rawStandardOutput, rawResult.StandardOutput)
	require.Equal(testInstance, 2, rawResult.ExitCode)
}

func TestShellExecutorNotifiesEventObserver(testInstance *testing.T) {
	testInstance.Run("completion", func(testInstance *testing.T) {
		eventObserver := &recordingEventObserver{}
		recordingRunner := &recordingCommandRunner{
			executionResult: execshell.RawExecutionResult{StandardOutput: []byte(testStandardOutputConstant)},
		}
		shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner, eventObserver)
		require.NoError(testInstance, creationError)

		_, executionError := shellExecutor.ExecuteCommand(context.Background(), testCommandLineConstant, execshell.ShellConfiguration{})
		require.NoError(testInstance, executionError)
		require.Len(testInstance, eventObserver.startedCommands, 1)
		require.Len(testInstance, eventObserver.completedResults, 1)
		require.Empty(testInstance, eventObserver.executionFailures)
	})

	testInstance.Run("execution_failure", func(testInstance *testing.T) {
		eventObserver := &recordingEventObserver{}
		runnerFailure := errors.New("spawn refused")
		recordingRunner := &recordingCommandRunner{executionError: runnerFailure}
		shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner, eventObserver)
		require.NoError(testInstance, creationError)

		_, executionError := shellExecutor.ExecuteCommand(context.Background(), testCommandLineConstant, execshell.ShellConfiguration{})
		require.Error(testInstance, executionError)
		require.Len(testInstance, eventObserver.startedCommands, 1)
		require.Empty(testInstance, eventObserver.completedResults)
		require.Len(testInstance, eventObserver.executionFailures, 1)
		require.ErrorIs(testInstance, eventObserver.executionFailures[0], runnerFailure)
	})
}
