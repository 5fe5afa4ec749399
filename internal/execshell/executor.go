package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultShellPathConstant             = "/bin/bash"
	defaultShellFlagConstant             = "-c"
	commandStartedLogMessageConstant     = "shell command started"
	commandCompletedLogMessageConstant   = "shell command completed"
	commandFailedLogMessageConstant      = "shell command failed to execute"
	commandLineLogFieldConstant          = "command_line"
	shellPathLogFieldConstant            = "shell_path"
	exitCodeLogFieldConstant             = "exit_code"
	durationLogFieldConstant             = "duration"
	executionErrorTemplateConstant       = "unable to execute %q: %v"
	commandFailureTemplateConstant       = "command %q exited with code %d"
	commandFailureDetailTemplateConstant = "%s: %s"
)

// ErrLoggerNotConfigured indicates the executor was constructed without a logger.
var ErrLoggerNotConfigured = errors.New("shell executor requires a logger")

// ErrCommandRunnerNotConfigured indicates the executor was constructed without a command runner.
var ErrCommandRunnerNotConfigured = errors.New("shell executor requires a command runner")

// ShellConfiguration controls how a compiled command line reaches the shell.
//
// The zero value selects /bin/bash -c, inherits the parent environment, supplies
// no standard input, and trims decoded output.
type ShellConfiguration struct {
	// ShellPath selects the shell binary. Empty selects /bin/bash.
	ShellPath string
	// ShellArguments precede the command line on the shell invocation. Empty selects ["-c"].
	ShellArguments []string
	// WorkingDirectory sets the subprocess working directory when non-empty.
	WorkingDirectory string
	// EnvironmentVariables replaces the subprocess environment entirely when
	// non-nil. A nil map inherits the parent process environment.
	EnvironmentVariables map[string]string
	// StandardInput is written fully to the subprocess before its input stream
	// closes. Empty input closes the stream immediately.
	StandardInput []byte
	// DisableOutputTrimming keeps leading and trailing whitespace on decoded output.
	DisableOutputTrimming bool
}

// WithDefaults returns a copy of the configuration with the shell selection
// filled in. The receiver is never mutated.
func (configuration ShellConfiguration) WithDefaults() ShellConfiguration {
	if len(configuration.ShellPath) == 0 {
		configuration.ShellPath = defaultShellPathConstant
	}
	if len(configuration.ShellArguments) == 0 {
		configuration.ShellArguments = []string{defaultShellFlagConstant}
	}
	return configuration
}

// ShellCommand couples a compiled command line with its launch configuration.
type ShellCommand struct {
	CommandLine   string
	Configuration ShellConfiguration
}

// RawExecutionResult captures subprocess output before any decoding. The
// executor stamps CommandLine with the exact string it handed to the shell.
type RawExecutionResult struct {
	CommandLine    string
	StandardOutput []byte
	StandardError  []byte
	ExitCode       int
	Duration       time.Duration
}

// ExecutionResult carries subprocess output decoded as UTF-8 text.
type ExecutionResult struct {
	CommandLine    string
	StandardOutput string
	StandardError  string
	ExitCode       int
	Duration       time.Duration
	// Trimmed reports whether surrounding whitespace was removed from both streams.
	Trimmed bool
}

// Succeeded reports whether the subprocess exited with code zero.
func (result ExecutionResult) Succeeded() bool {
	return result.ExitCode == 0
}

// CommandRunner spawns subprocesses on behalf of the executor.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (RawExecutionResult, error)
}

// CommandExecutionError reports a transport failure that prevented a command
// from producing an exit status.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the command that could not be executed.
func (executionError CommandExecutionError) Error() string {
	return fmt.Sprintf(executionErrorTemplateConstant, executionError.Command.CommandLine, executionError.Cause)
}

// Unwrap exposes the underlying transport failure.
func (executionError CommandExecutionError) Unwrap() error {
	return executionError.Cause
}

// CommandFailedError reports a command that completed with a non-zero exit
// code, carrying the full execution result for later rendering. The executor
// never raises it on its own; callers opt in through transforms that treat
// non-zero exits as failures.
type CommandFailedError struct {
	Result ExecutionResult
}

// Error describes the failed command, appending captured standard error when present.
func (failedError CommandFailedError) Error() string {
	failureMessage := fmt.Sprintf(commandFailureTemplateConstant, failedError.Result.CommandLine, failedError.Result.ExitCode)
	trimmedStandardError := strings.TrimSpace(failedError.Result.StandardError)
	if len(trimmedStandardError) > 0 {
		return fmt.Sprintf(commandFailureDetailTemplateConstant, failureMessage, trimmedStandardError)
	}
	return failureMessage
}

// ShellExecutor runs compiled command lines through a configurable shell while
// logging lifecycle events and notifying an optional observer.
type ShellExecutor struct {
	logger        *zap.Logger
	commandRunner CommandRunner
	eventObserver CommandEventObserver
}

// NewShellExecutor validates collaborators and builds a ShellExecutor. A nil
// observer disables event notification.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner, eventObserver CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if eventObserver == nil {
		eventObserver = noopCommandEventObserver{}
	}
	return &ShellExecutor{logger: logger, commandRunner: commandRunner, eventObserver: eventObserver}, nil
}

// ExecuteCommandRaw runs commandLine through the configured shell and returns
// captured output as raw bytes together with the exit code and elapsed time.
//
// A non-zero exit code is a normal result, not an error. Only transport
// failures, such as a missing shell binary, surface as CommandExecutionError.
func (executor *ShellExecutor) ExecuteCommandRaw(executionContext context.Context, commandLine string, configuration ShellConfiguration) (RawExecutionResult, error) {
	command := ShellCommand{CommandLine: commandLine, Configuration: configuration.WithDefaults()}

	executor.eventObserver.CommandStarted(command)
	executor.logger.Debug(commandStartedLogMessageConstant,
		zap.String(commandLineLogFieldConstant, command.CommandLine),
		zap.String(shellPathLogFieldConstant, command.Configuration.ShellPath),
	)

	startTime := time.Now()
	rawResult, runError := executor.commandRunner.Run(executionContext, command)
	rawResult.CommandLine = command.CommandLine
	rawResult.Duration = time.Since(startTime)

	if runError != nil {
		executionError := CommandExecutionError{Command: command, Cause: runError}
		executor.eventObserver.CommandExecutionFailed(command, executionError)
		executor.logger.Error(commandFailedLogMessageConstant,
			zap.String(commandLineLogFieldConstant, command.CommandLine),
			zap.Error(runError),
		)
		return RawExecutionResult{}, executionError
	}

	executor.eventObserver.CommandCompleted(command, rawResult)
	executor.logger.Debug(commandCompletedLogMessageConstant,
		zap.String(commandLineLogFieldConstant, command.CommandLine),
		zap.Int(exitCodeLogFieldConstant, rawResult.ExitCode),
		zap.Duration(durationLogFieldConstant, rawResult.Duration),
	)
	return rawResult, nil
}

// ExecuteCommand runs commandLine and decodes captured output as UTF-8 text.
// Unless the configuration disables trimming, surrounding whitespace is
// stripped from each stream independently and the result records that this
// happened.
func (executor *ShellExecutor) ExecuteCommand(executionContext context.Context, commandLine string, configuration ShellConfiguration) (ExecutionResult, error) {
	rawResult, executionError := executor.ExecuteCommandRaw(executionContext, commandLine, configuration)
	if executionError != nil {
		return ExecutionResult{}, executionError
	}

	textResult := ExecutionResult{
		CommandLine:    rawResult.CommandLine,
		StandardOutput: string(rawResult.StandardOutput),
		StandardError:  string(rawResult.StandardError),
		ExitCode:       rawResult.ExitCode,
		Duration:       rawResult.Duration,
	}
	if !configuration.DisableOutputTrimming {
		textResult.StandardOutput = strings.TrimSpace(textResult.StandardOutput)
		textResult.StandardError = strings.TrimSpace(textResult.StandardError)
		textResult.Trimmed = true
	}
	return textResult, nil
}
