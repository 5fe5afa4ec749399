package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/shx/internal/action"
	"github.com/temirov/shx/internal/command"
	"github.com/temirov/shx/internal/execshell"
	"github.com/temirov/shx/internal/quoting"
	"github.com/temirov/shx/internal/render"
	"github.com/temirov/shx/internal/ui"
	"github.com/temirov/shx/internal/utils"
	flagutils "github.com/temirov/shx/internal/utils/flags"
	pathutils "github.com/temirov/shx/internal/utils/path"
)

const (
	commandUseConstant                      = "run [template] [values...]"
	commandShortDescriptionConstant         = "Execute one command template under supervision"
	commandLongDescriptionConstant          = "run compiles a command template with safely quoted values, executes it through the configured shell, and renders the captured result."
	shellFlagNameConstant                   = "shell"
	shellFlagUsageConstant                  = "Shell binary used to interpret the command line."
	shellArgumentFlagNameConstant           = "shell-arg"
	shellArgumentFlagUsageConstant          = "Arguments passed to the shell before the command line."
	directoryFlagNameConstant               = "dir"
	directoryFlagUsageConstant              = "Working directory for the command."
	environmentFlagNameConstant             = "env"
	environmentFlagUsageConstant            = "Environment entries (KEY=VALUE) added to the command environment."
	timeoutFlagNameConstant                 = "timeout"
	timeoutFlagUsageConstant                = "Timeout in seconds before the command is abandoned."
	trimFlagNameConstant                    = "trim"
	trimFlagUsageConstant                   = "Trim surrounding whitespace from captured output."
	stdinFlagNameConstant                   = "stdin"
	stdinFlagUsageConstant                  = "Forward standard input to the command."
	rawFlagNameConstant                     = "raw"
	rawFlagUsageConstant                    = "Capture output as raw bytes and hex dump binary streams."
	dryRunFlagNameConstant                  = "dry-run"
	dryRunFlagUsageConstant                 = "Print the compiled command line without executing it."
	templateRequiredMessageConstant         = "command template required; provide it as the first argument"
	templateCompileErrorTemplateConstant    = "unable to compile command template: %w"
	environmentEntryInvalidTemplateConstant = "invalid environment entry %q; expected KEY=VALUE"
	standardInputReadErrorTemplateConstant  = "unable to read standard input: %w"
	executorCreationErrorTemplateConstant   = "unable to construct shell executor: %w"
	commandExitErrorTemplateConstant        = "command exited with code %d"
	dryRunLineTemplateConstant              = "$ %s\n"
	environmentEntrySeparatorConstant       = "="
	environmentEntrySplitLimitConstant      = 2
)

// CommandBuilder assembles the run command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	CommandRunner                execshell.CommandRunner
	HumanReadableLoggingProvider BoolProvider
	ColorEnabledProvider         BoolProvider
	VerboseProvider              BoolProvider
	ConfigurationProvider        func() CommandConfiguration

	trimFlagValue   bool
	stdinFlagValue  bool
	rawFlagValue    bool
	dryRunFlagValue bool
}

// Build constructs the run command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	runCommand := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	runCommand.Flags().String(shellFlagNameConstant, "", shellFlagUsageConstant)
	runCommand.Flags().StringSlice(shellArgumentFlagNameConstant, nil, shellArgumentFlagUsageConstant)
	runCommand.Flags().String(directoryFlagNameConstant, "", directoryFlagUsageConstant)
	runCommand.Flags().StringArray(environmentFlagNameConstant, nil, environmentFlagUsageConstant)
	runCommand.Flags().Int(timeoutFlagNameConstant, 0, timeoutFlagUsageConstant)
	flagutils.AddToggleFlag(runCommand.Flags(), &builder.trimFlagValue, trimFlagNameConstant, "", true, trimFlagUsageConstant)
	flagutils.AddToggleFlag(runCommand.Flags(), &builder.stdinFlagValue, stdinFlagNameConstant, "", false, stdinFlagUsageConstant)
	flagutils.AddToggleFlag(runCommand.Flags(), &builder.rawFlagValue, rawFlagNameConstant, "", false, rawFlagUsageConstant)
	flagutils.AddToggleFlag(runCommand.Flags(), &builder.dryRunFlagValue, dryRunFlagNameConstant, "", false, dryRunFlagUsageConstant)

	return runCommand, nil
}

func (builder *CommandBuilder) run(cobraCommand *cobra.Command, arguments []string) error {
	if len(arguments) == 0 || len(strings.TrimSpace(arguments[0])) == 0 {
		if helpError := displayCommandHelp(cobraCommand); helpError != nil {
			return helpError
		}
		return errors.New(templateRequiredMessageConstant)
	}

	commandTemplate := arguments[0]
	templateValues := make([]any, 0, len(arguments)-1)
	for _, valueArgument := range arguments[1:] {
		templateValues = append(templateValues, valueArgument)
	}

	compiledCommandLine, compileError := quoting.CompileTemplate(commandTemplate, templateValues...)
	if compileError != nil {
		return fmt.Errorf(templateCompileErrorTemplateConstant, compileError)
	}

	if builder.dryRunFlagValue {
		fmt.Fprintf(cobraCommand.OutOrStdout(), dryRunLineTemplateConstant, compiledCommandLine)
		return nil
	}

	commandConfiguration := builder.resolveConfiguration()
	shellConfiguration, shellConfigurationError := builder.resolveShellConfiguration(cobraCommand, commandConfiguration)
	if shellConfigurationError != nil {
		return shellConfigurationError
	}

	timeoutSeconds := commandConfiguration.TimeoutSeconds
	if cobraCommand.Flags().Changed(timeoutFlagNameConstant) {
		timeoutSeconds, _ = cobraCommand.Flags().GetInt(timeoutFlagNameConstant)
	}

	logger := resolveLogger(builder.LoggerProvider)
	executor, executorCreationError := execshell.NewShellExecutor(logger, builder.resolveCommandRunner(), builder.resolveEventObserver(logger))
	if executorCreationError != nil {
		return fmt.Errorf(executorCreationErrorTemplateConstant, executorCreationError)
	}

	colorEnabled := resolveSetting(builder.ColorEnabledProvider)
	supervisionConfiguration := action.Configuration{
		TimeoutSeconds: timeoutSeconds,
		Verbose:        resolveSetting(builder.VerboseProvider),
		EnableColor:    colorEnabled,
		ProgressWriter: utils.NewFlushingWriter(cobraCommand.ErrOrStderr()),
		Logger:         logger,
	}

	renderOptions := render.DefaultOptions()
	renderOptions.EnableColor = colorEnabled

	if builder.rawFlagValue {
		return builder.runRaw(cobraCommand, executor, shellConfiguration, compiledCommandLine, supervisionConfiguration, renderOptions)
	}

	textFunction := command.NewFunction(executor, shellConfiguration)
	workFunction := func(workContext context.Context) (execshell.ExecutionResult, error) {
		return textFunction.InvokeFragments(workContext, []string{compiledCommandLine}, nil)
	}

	executionResult, runError := action.Run(cobraCommand.Context(), compiledCommandLine, workFunction, supervisionConfiguration)
	if runError != nil {
		return runError
	}

	fmt.Fprintln(cobraCommand.OutOrStdout(), render.FormatExecutionResult(executionResult, renderOptions))
	if executionResult.ExitCode != 0 {
		return fmt.Errorf(commandExitErrorTemplateConstant, executionResult.ExitCode)
	}
	return nil
}

func (builder *CommandBuilder) runRaw(cobraCommand *cobra.Command, executor *execshell.ShellExecutor, shellConfiguration execshell.ShellConfiguration, compiledCommandLine string, supervisionConfiguration action.Configuration, renderOptions render.Options) error {
	rawFunction := command.NewRawFunction(executor, shellConfiguration)
	workFunction := func(workContext context.Context) (execshell.RawExecutionResult, error) {
		return rawFunction.InvokeFragments(workContext, []string{compiledCommandLine}, nil)
	}

	rawResult, runError := action.Run(cobraCommand.Context(), compiledCommandLine, workFunction, supervisionConfiguration)
	if runError != nil {
		return runError
	}

	fmt.Fprintln(cobraCommand.OutOrStdout(), render.FormatRawExecutionResult(rawResult, renderOptions))
	if rawResult.ExitCode != 0 {
		return fmt.Errorf(commandExitErrorTemplateConstant, rawResult.ExitCode)
	}
	return nil
}

func (builder *CommandBuilder) resolveShellConfiguration(cobraCommand *cobra.Command, configuration CommandConfiguration) (execshell.ShellConfiguration, error) {
	shellPath := configuration.ShellPath
	if cobraCommand.Flags().Changed(shellFlagNameConstant) {
		shellPath, _ = cobraCommand.Flags().GetString(shellFlagNameConstant)
	}

	shellArguments := configuration.ShellArguments
	if cobraCommand.Flags().Changed(shellArgumentFlagNameConstant) {
		shellArguments, _ = cobraCommand.Flags().GetStringSlice(shellArgumentFlagNameConstant)
	}

	workingDirectory := configuration.WorkingDirectory
	if cobraCommand.Flags().Changed(directoryFlagNameConstant) {
		workingDirectory, _ = cobraCommand.Flags().GetString(directoryFlagNameConstant)
	}
	workingDirectory = pathutils.NewHomeExpander().Expand(workingDirectory)

	trimOutput := configuration.TrimOutput
	if cobraCommand.Flags().Changed(trimFlagNameConstant) {
		trimOutput = builder.trimFlagValue
	}

	environmentEntries, _ := cobraCommand.Flags().GetStringArray(environmentFlagNameConstant)
	environmentVariables, environmentError := mergeEnvironmentEntries(environmentEntries)
	if environmentError != nil {
		return execshell.ShellConfiguration{}, environmentError
	}

	var standardInput []byte
	if builder.stdinFlagValue {
		inputData, readError := io.ReadAll(cobraCommand.InOrStdin())
		if readError != nil {
			return execshell.ShellConfiguration{}, fmt.Errorf(standardInputReadErrorTemplateConstant, readError)
		}
		standardInput = inputData
	}

	return execshell.ShellConfiguration{
		ShellPath:             shellPath,
		ShellArguments:        shellArguments,
		WorkingDirectory:      workingDirectory,
		EnvironmentVariables:  environmentVariables,
		StandardInput:         standardInput,
		DisableOutputTrimming: !trimOutput,
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveCommandRunner() execshell.CommandRunner {
	if builder.CommandRunner != nil {
		return builder.CommandRunner
	}
	return execshell.NewOSCommandRunner()
}

func (builder *CommandBuilder) resolveEventObserver(logger *zap.Logger) execshell.CommandEventObserver {
	if builder.HumanReadableLoggingProvider == nil || !builder.HumanReadableLoggingProvider() {
		return nil
	}
	return ui.NewConsoleCommandEventLogger(logger)
}

// mergeEnvironmentEntries overlays KEY=VALUE entries onto the inherited
// process environment. Without entries the subprocess environment is
// inherited unchanged.
func mergeEnvironmentEntries(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	merged := make(map[string]string)
	for _, inheritedEntry := range os.Environ() {
		entryParts := strings.SplitN(inheritedEntry, environmentEntrySeparatorConstant, environmentEntrySplitLimitConstant)
		if len(entryParts) == environmentEntrySplitLimitConstant {
			merged[entryParts[0]] = entryParts[1]
		}
	}

	for _, entry := range entries {
		entryParts := strings.SplitN(entry, environmentEntrySeparatorConstant, environmentEntrySplitLimitConstant)
		if len(entryParts) != environmentEntrySplitLimitConstant || len(strings.TrimSpace(entryParts[0])) == 0 {
			return nil, fmt.Errorf(environmentEntryInvalidTemplateConstant, entry)
		}
		merged[entryParts[0]] = entryParts[1]
	}

	return merged, nil
}
