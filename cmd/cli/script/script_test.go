package script_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	scriptcmd "github.com/temirov/shx/cmd/cli/script"
	"github.com/temirov/shx/internal/execshell"
)

const (
	scriptPlaybookFileNameConstant           = "playbook.yaml"
	scriptTwoStepPlaybookContentConstant     = "steps:\n  - label: first\n    command: echo {}\n    arguments: [\"a b\"]\n  - label: second\n    command: pwd\n"
	scriptPathRequiredMessageConstant        = "playbook path required; provide it as the first argument"
	scriptUsageSnippetConstant               = "Usage:"
	scriptPlaybookLoadFailureSnippetConstant = "unable to load playbook"
)

type recordingCommandRunner struct {
	recordedCommands []execshell.ShellCommand
	resultQueue      []execshell.RawExecutionResult
	result           execshell.RawExecutionResult
	runError         error
}

func (runner *recordingCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.RawExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	if runner.runError != nil {
		return execshell.RawExecutionResult{}, runner.runError
	}
	if len(runner.resultQueue) > 0 {
		nextResult := runner.resultQueue[0]
		runner.resultQueue = runner.resultQueue[1:]
		return nextResult, nil
	}
	return runner.result, nil
}

func writePlaybook(testInstance *testing.T, playbookContent string) string {
	testInstance.Helper()

	playbookPath := filepath.Join(testInstance.TempDir(), scriptPlaybookFileNameConstant)
	require.NoError(testInstance, os.WriteFile(playbookPath, []byte(playbookContent), 0o644))
	return playbookPath
}

func executeScriptCommand(testInstance *testing.T, builder *scriptcmd.CommandBuilder, arguments []string) (string, string, error) {
	testInstance.Helper()

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	if arguments == nil {
		arguments = []string{}
	}

	var outputBuffer bytes.Buffer
	var errorBuffer bytes.Buffer
	command.SetOut(&outputBuffer)
	command.SetErr(&errorBuffer)
	command.SetContext(context.Background())
	command.SetArgs(arguments)

	executionError := command.Execute()
	return outputBuffer.String(), errorBuffer.String(), executionError
}

func newScriptCommandBuilder(runner *recordingCommandRunner, configuration *scriptcmd.CommandConfiguration) *scriptcmd.CommandBuilder {
	builder := &scriptcmd.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		CommandRunner:  runner,
	}
	if configuration != nil {
		builder.ConfigurationProvider = func() scriptcmd.CommandConfiguration {
			return *configuration
		}
	}
	return builder
}

func TestScriptCommandExecutesPlaybookSteps(testInstance *testing.T) {
	playbookPath := writePlaybook(testInstance, scriptTwoStepPlaybookContentConstant)
	runner := &recordingCommandRunner{result: execshell.RawExecutionResult{StandardOutput: []byte("done\n")}}
	builder := newScriptCommandBuilder(runner, nil)

	outputText, _, executionError := executeScriptCommand(testInstance, builder, []string{playbookPath})

	require.NoError(testInstance, executionError)
	require.Len(testInstance, runner.recordedCommands, 2)
	require.Equal(testInstance, "echo 'a b'", runner.recordedCommands[0].CommandLine)
	require.Equal(testInstance, "pwd", runner.recordedCommands[1].CommandLine)
	require.Contains(testInstance, outputText, "done")
}

func TestScriptCommandAppliesPlaybookShellSettings(testInstance *testing.T) {
	playbookContent := "shell:\n" +
		"  path: /bin/sh\n" +
		"  arguments: [\"-ec\"]\n" +
		"  environment:\n" +
		"    GREETING: hello\n" +
		"steps:\n" +
		"  - command: env\n"
	playbookPath := writePlaybook(testInstance, playbookContent)
	runner := &recordingCommandRunner{}
	builder := newScriptCommandBuilder(runner, nil)

	_, _, executionError := executeScriptCommand(testInstance, builder, []string{playbookPath})

	require.NoError(testInstance, executionError)
	require.Len(testInstance, runner.recordedCommands, 1)
	recordedConfiguration := runner.recordedCommands[0].Configuration
	require.Equal(testInstance, "/bin/sh", recordedConfiguration.ShellPath)
	require.Equal(testInstance, []string{"-ec"}, recordedConfiguration.ShellArguments)
	require.Equal(testInstance, "hello", recordedConfiguration.EnvironmentVariables["GREETING"])
}

func TestScriptCommandDryRunPrintsWithoutExecuting(testInstance *testing.T) {
	playbookPath := writePlaybook(testInstance, scriptTwoStepPlaybookContentConstant)
	runner := &recordingCommandRunner{}
	builder := newScriptCommandBuilder(runner, nil)

	outputText, _, executionError := executeScriptCommand(testInstance, builder, []string{playbookPath, "--dry-run"})

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "$ echo 'a b'\n$ pwd\n", outputText)
	require.Empty(testInstance, runner.recordedCommands)
}

func TestScriptCommandStopsAtFailedStep(testInstance *testing.T) {
	playbookContent := "steps:\n" +
		"  - label: breaks\n" +
		"    command: false\n" +
		"  - label: skipped\n" +
		"    command: echo after\n"
	playbookPath := writePlaybook(testInstance, playbookContent)
	runner := &recordingCommandRunner{result: execshell.RawExecutionResult{StandardError: []byte("kaput\n"), ExitCode: 1}}
	builder := newScriptCommandBuilder(runner, nil)

	_, _, executionError := executeScriptCommand(testInstance, builder, []string{playbookPath})

	require.Error(testInstance, executionError)
	require.ErrorContains(testInstance, executionError, `script step "breaks" failed`)
	require.Len(testInstance, runner.recordedCommands, 1)
}

func TestScriptCommandAllowedFailureContinues(testInstance *testing.T) {
	playbookContent := "steps:\n" +
		"  - label: tolerated\n" +
		"    command: false\n" +
		"    allow_failure: true\n" +
		"  - label: final\n" +
		"    command: echo ok\n"
	playbookPath := writePlaybook(testInstance, playbookContent)
	runner := &recordingCommandRunner{
		resultQueue: []execshell.RawExecutionResult{
			{ExitCode: 1},
			{StandardOutput: []byte("ok\n")},
		},
	}
	builder := newScriptCommandBuilder(runner, nil)

	outputText, _, executionError := executeScriptCommand(testInstance, builder, []string{playbookPath})

	require.NoError(testInstance, executionError)
	require.Len(testInstance, runner.recordedCommands, 2)
	require.Contains(testInstance, outputText, "ok")
}

func TestScriptCommandDryRunConfigurationPrecedence(testInstance *testing.T) {
	testCases := []struct {
		name                  string
		arguments             []string
		expectedExecutedSteps int
	}{
		{
			name:                  "configured_dry_run_applies",
			arguments:             nil,
			expectedExecutedSteps: 0,
		},
		{
			name:                  "flag_overrides_configured_dry_run",
			arguments:             []string{"--dry-run=no"},
			expectedExecutedSteps: 2,
		},
	}

	for testCaseIndex := range testCases {
		testCase := testCases[testCaseIndex]
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			playbookPath := writePlaybook(subtest, scriptTwoStepPlaybookContentConstant)
			runner := &recordingCommandRunner{}
			configuration := scriptcmd.CommandConfiguration{DryRun: true}
			builder := newScriptCommandBuilder(runner, &configuration)

			arguments := append([]string{playbookPath}, testCase.arguments...)
			_, _, executionError := executeScriptCommand(subtest, builder, arguments)

			require.NoError(subtest, executionError)
			require.Len(subtest, runner.recordedCommands, testCase.expectedExecutedSteps)
		})
	}
}

func TestScriptCommandRequiresPlaybookPath(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	builder := newScriptCommandBuilder(runner, nil)

	outputText, _, executionError := executeScriptCommand(testInstance, builder, nil)

	require.EqualError(testInstance, executionError, scriptPathRequiredMessageConstant)
	require.Contains(testInstance, outputText, scriptUsageSnippetConstant)
	require.Empty(testInstance, runner.recordedCommands)
}

func TestScriptCommandReportsUnreadablePlaybook(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	builder := newScriptCommandBuilder(runner, nil)

	missingPlaybookPath := filepath.Join(testInstance.TempDir(), scriptPlaybookFileNameConstant)
	_, _, executionError := executeScriptCommand(testInstance, builder, []string{missingPlaybookPath})

	require.Error(testInstance, executionError)
	require.ErrorContains(testInstance, executionError, scriptPlaybookLoadFailureSnippetConstant)
	require.Empty(testInstance, runner.recordedCommands)
}
