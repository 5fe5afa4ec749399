package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
)

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run spawns the configured shell with the command line as its final argument
// and captures both output streams as raw bytes.
//
// A non-zero exit code is returned inside the result with a nil error. When
// the context is cancelled mid-run the subprocess is killed and the exit code
// reflects the terminating signal.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (RawExecutionResult, error) {
	shellArguments := append([]string{}, command.Configuration.ShellArguments...)
	shellArguments = append(shellArguments, command.CommandLine)
	executable := exec.CommandContext(executionContext, command.Configuration.ShellPath, shellArguments...)

	if len(command.Configuration.WorkingDirectory) > 0 {
		executable.Dir = command.Configuration.WorkingDirectory
	}

	if command.Configuration.EnvironmentVariables != nil {
		executable.Env = buildEnvironmentAssignments(command.Configuration.EnvironmentVariables)
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	executable.Stdout = &standardOutputBuffer
	executable.Stderr = &standardErrorBuffer

	if len(command.Configuration.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Configuration.StandardInput)
	}

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return RawExecutionResult{
				StandardOutput: standardOutputBuffer.Bytes(),
				StandardError:  standardErrorBuffer.Bytes(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return RawExecutionResult{}, runError
	}

	return RawExecutionResult{
		StandardOutput: standardOutputBuffer.Bytes(),
		StandardError:  standardErrorBuffer.Bytes(),
		ExitCode:       0,
	}, nil
}

// buildEnvironmentAssignments renders the mapping as KEY=VALUE assignments in
// deterministic key order.
func buildEnvironmentAssignments(environmentVariables map[string]string) []string {
	environmentAssignments := make([]string, 0, len(environmentVariables))
	for environmentKey, environmentValue := range environmentVariables {
		environmentAssignments = append(environmentAssignments, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
	}
	sort.Strings(environmentAssignments)
	return environmentAssignments
}
