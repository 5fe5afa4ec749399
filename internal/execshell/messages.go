package execshell

import (
	"fmt"
	"strings"
	"time"
)

const (
	startedMessageTemplateConstant          = "Running %s%s"
	completedMessageTemplateConstant        = "Completed %s%s in %s"
	failureMessageTemplateConstant          = "%s%s failed with exit code %d%s"
	executionFailureMessageTemplateConstant = "%s%s failed: %s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	displayCommandLengthLimitConstant       = 80
	displayCommandEllipsisConstant          = "..."
	displayDurationRoundingConstant         = time.Millisecond
)

// CommandMessageFormatter builds human-readable messages describing command
// execution lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage describes a command that is beginning execution.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return fmt.Sprintf(startedMessageTemplateConstant, describeCommandLine(command.CommandLine), workingDirectorySuffix(command))
}

// BuildCompletedMessage describes a finished command, distinguishing zero and
// non-zero exit codes.
func (formatter CommandMessageFormatter) BuildCompletedMessage(command ShellCommand, result RawExecutionResult) string {
	if result.ExitCode == 0 {
		return fmt.Sprintf(completedMessageTemplateConstant, describeCommandLine(command.CommandLine), workingDirectorySuffix(command), result.Duration.Round(displayDurationRoundingConstant))
	}
	return fmt.Sprintf(failureMessageTemplateConstant, describeCommandLine(command.CommandLine), workingDirectorySuffix(command), result.ExitCode, standardErrorSuffix(result))
}

// BuildExecutionFailureMessage describes a command that could not be executed at all.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(executionFailureMessageTemplateConstant, describeCommandLine(command.CommandLine), workingDirectorySuffix(command), failureMessage)
}

// describeCommandLine shortens long command lines so lifecycle messages stay
// readable on one console row.
func describeCommandLine(commandLine string) string {
	if len(commandLine) <= displayCommandLengthLimitConstant {
		return commandLine
	}
	truncatedLength := displayCommandLengthLimitConstant - len(displayCommandEllipsisConstant)
	return commandLine[:truncatedLength] + displayCommandEllipsisConstant
}

func workingDirectorySuffix(command ShellCommand) string {
	if len(command.Configuration.WorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, command.Configuration.WorkingDirectory)
}

func standardErrorSuffix(result RawExecutionResult) string {
	trimmedStandardError := strings.TrimSpace(string(result.StandardError))
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}
