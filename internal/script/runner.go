package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/shx/internal/action"
	"github.com/temirov/shx/internal/command"
	"github.com/temirov/shx/internal/execshell"
	"github.com/temirov/shx/internal/quoting"
)

const (
	runnerRequiresExecutorMessageConstant = "script runner requires a shell executor"
	stepFailureTemplateConstant           = "script step %q failed: %w"
	dryRunLineTemplateConstant            = "$ %s\n"
	scriptStartedMessageConstant          = "script run started"
	stepContinuedMessageConstant          = "script step failed; continuing"
	stepCountFieldNameConstant            = "steps"
	stepLabelFieldNameConstant            = "step"
	environmentSeparatorConstant          = "="
	environmentSplitLimitConstant         = 2
)

// ErrExecutorNotConfigured indicates a Runner built without its executor.
var ErrExecutorNotConfigured = errors.New(runnerRequiresExecutorMessageConstant)

// Dependencies configures collaborators for script execution.
type Dependencies struct {
	// Executor runs the compiled command line of every step.
	Executor *execshell.ShellExecutor
	// Logger receives structured run events. Defaults to a no-op logger.
	Logger *zap.Logger
	// Output receives step standard output and dry-run command lines.
	// Defaults to os.Stdout.
	Output io.Writer
	// Progress receives supervision progress lines. Defaults to os.Stderr.
	Progress io.Writer
}

// Options captures user-provided execution modifiers for one run.
type Options struct {
	// Verbose enables per-step progress reporting.
	Verbose bool
	// EnableColor applies ANSI styles to progress tags and failure reports.
	EnableColor bool
	// EnableSpinner animates a spinner while a step runs.
	EnableSpinner bool
	// TimeoutSeconds bounds steps that do not declare their own timeout.
	TimeoutSeconds int
	// DryRun compiles and prints every step's command line without executing.
	DryRun bool
}

// StepReport captures the terminal state of one playbook step.
type StepReport struct {
	Label       string
	CommandLine string
	Outcome     action.Outcome
	Failure     error
	Elapsed     time.Duration
}

// Runner executes playbook steps sequentially through the supervised command
// stack.
type Runner struct {
	dependencies Dependencies
}

// NewRunner validates collaborators and constructs a Runner.
func NewRunner(dependencies Dependencies) (*Runner, error) {
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Output == nil {
		dependencies.Output = os.Stdout
	}
	if dependencies.Progress == nil {
		dependencies.Progress = os.Stderr
	}
	return &Runner{dependencies: dependencies}, nil
}

// Run executes every step in order and reports each terminal state. A failed
// or timed out step stops the run with a wrapped error unless it declares
// AllowFailure, in which case the failure is logged and the run continues.
func (runner *Runner) Run(executionContext context.Context, configuration Configuration, options Options) ([]StepReport, error) {
	runner.dependencies.Logger.Debug(scriptStartedMessageConstant, zap.Int(stepCountFieldNameConstant, len(configuration.Steps)))

	stepReports := make([]StepReport, 0, len(configuration.Steps))
	for stepIndex := range configuration.Steps {
		stepReport := runner.runStep(executionContext, configuration, configuration.Steps[stepIndex], stepIndex+1, options)
		stepReports = append(stepReports, stepReport)

		if stepReport.Failure == nil {
			continue
		}
		if configuration.Steps[stepIndex].AllowFailure {
			runner.dependencies.Logger.Warn(stepContinuedMessageConstant,
				zap.String(stepLabelFieldNameConstant, stepReport.Label),
				zap.Error(stepReport.Failure),
			)
			continue
		}
		return stepReports, fmt.Errorf(stepFailureTemplateConstant, stepReport.Label, stepReport.Failure)
	}

	return stepReports, nil
}

func (runner *Runner) runStep(executionContext context.Context, configuration Configuration, step StepConfiguration, stepNumber int, options Options) StepReport {
	stepLabel := step.Label
	if len(stepLabel) == 0 {
		stepLabel = fmt.Sprintf(stepLabelTemplateConstant, stepNumber)
	}

	compiledCommandLine, compileError := quoting.CompileTemplate(step.Command, step.Arguments...)
	if compileError != nil {
		return StepReport{Label: stepLabel, Outcome: action.OutcomeFailed, Failure: compileError}
	}
	if options.DryRun {
		fmt.Fprintf(runner.dependencies.Output, dryRunLineTemplateConstant, compiledCommandLine)
		return StepReport{Label: stepLabel, CommandLine: compiledCommandLine, Outcome: action.OutcomeSucceeded}
	}

	shellConfiguration := runner.shellConfigurationForStep(configuration, step)
	strictFunction := command.Map(command.NewFunction(runner.dependencies.Executor, shellConfiguration), command.FailOnNonZeroExit())
	stepWork := func(workContext context.Context) (execshell.ExecutionResult, error) {
		return strictFunction.InvokeFragments(workContext, []string{compiledCommandLine}, nil)
	}

	supervisionReport := action.Supervise(executionContext, stepLabel, stepWork, action.Configuration{
		TimeoutSeconds: resolveTimeoutSeconds(step, options),
		Verbose:        options.Verbose,
		EnableColor:    options.EnableColor,
		EnableSpinner:  options.EnableSpinner,
		ProgressWriter: runner.dependencies.Progress,
		Logger:         runner.dependencies.Logger,
	})

	if supervisionReport.Outcome == action.OutcomeSucceeded && len(supervisionReport.Value.StandardOutput) > 0 {
		fmt.Fprintln(runner.dependencies.Output, supervisionReport.Value.StandardOutput)
	}

	return StepReport{
		Label:       stepLabel,
		CommandLine: compiledCommandLine,
		Outcome:     supervisionReport.Outcome,
		Failure:     supervisionReport.Failure,
		Elapsed:     supervisionReport.Elapsed,
	}
}

func (runner *Runner) shellConfigurationForStep(configuration Configuration, step StepConfiguration) execshell.ShellConfiguration {
	workingDirectory := configuration.Shell.WorkingDirectory
	if len(step.WorkingDirectory) > 0 {
		workingDirectory = step.WorkingDirectory
	}
	return execshell.ShellConfiguration{
		ShellPath:            configuration.Shell.Path,
		ShellArguments:       configuration.Shell.Arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: environmentForStep(configuration.Shell.Environment, step.Environment),
	}
}

// environmentForStep layers playbook and step entries over the parent
// process environment. Without any entries it returns nil so the executor
// inherits the parent environment untouched.
func environmentForStep(scriptEnvironment map[string]string, stepEnvironment map[string]string) map[string]string {
	if len(scriptEnvironment) == 0 && len(stepEnvironment) == 0 {
		return nil
	}

	parentEntries := os.Environ()
	mergedEnvironment := make(map[string]string, len(parentEntries)+len(scriptEnvironment)+len(stepEnvironment))
	for _, parentEntry := range parentEntries {
		entryParts := strings.SplitN(parentEntry, environmentSeparatorConstant, environmentSplitLimitConstant)
		if len(entryParts) != environmentSplitLimitConstant {
			continue
		}
		mergedEnvironment[entryParts[0]] = entryParts[1]
	}
	for variableName, variableValue := range scriptEnvironment {
		mergedEnvironment[variableName] = variableValue
	}
	for variableName, variableValue := range stepEnvironment {
		mergedEnvironment[variableName] = variableValue
	}
	return mergedEnvironment
}

func resolveTimeoutSeconds(step StepConfiguration, options Options) int {
	if step.TimeoutSeconds > 0 {
		return step.TimeoutSeconds
	}
	return options.TimeoutSeconds
}
