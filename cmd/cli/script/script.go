package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/shx/internal/execshell"
	"github.com/temirov/shx/internal/script"
	"github.com/temirov/shx/internal/ui"
	"github.com/temirov/shx/internal/utils"
	flagutils "github.com/temirov/shx/internal/utils/flags"
	pathutils "github.com/temirov/shx/internal/utils/path"
)

const (
	commandUseConstant                    = "script [playbook]"
	commandShortDescriptionConstant       = "Run the steps of a YAML playbook"
	commandLongDescriptionConstant        = "script loads a YAML playbook and executes its steps sequentially, stopping at the first failed step unless the step allows failure."
	timeoutFlagNameConstant               = "timeout"
	timeoutFlagUsageConstant              = "Timeout in seconds for steps without their own timeout."
	spinnerFlagNameConstant               = "spinner"
	spinnerFlagUsageConstant              = "Animate a spinner while steps run."
	dryRunFlagNameConstant                = "dry-run"
	dryRunFlagUsageConstant               = "Print compiled step command lines without executing them."
	playbookPathRequiredMessageConstant   = "playbook path required; provide it as the first argument"
	playbookLoadErrorTemplateConstant     = "unable to load playbook: %w"
	executorCreationErrorTemplateConstant = "unable to construct shell executor: %w"
	runnerCreationErrorTemplateConstant   = "unable to construct script runner: %w"
)

// CommandBuilder assembles the script command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	CommandRunner                execshell.CommandRunner
	HumanReadableLoggingProvider BoolProvider
	ColorEnabledProvider         BoolProvider
	VerboseProvider              BoolProvider
	ConfigurationProvider        func() CommandConfiguration

	spinnerFlagValue bool
	dryRunFlagValue  bool
}

// Build constructs the script command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	scriptCommand := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	scriptCommand.Flags().Int(timeoutFlagNameConstant, 0, timeoutFlagUsageConstant)
	flagutils.AddToggleFlag(scriptCommand.Flags(), &builder.spinnerFlagValue, spinnerFlagNameConstant, "", false, spinnerFlagUsageConstant)
	flagutils.AddToggleFlag(scriptCommand.Flags(), &builder.dryRunFlagValue, dryRunFlagNameConstant, "", false, dryRunFlagUsageConstant)

	return scriptCommand, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	playbookPathCandidate := ""
	if len(arguments) > 0 {
		playbookPathCandidate = strings.TrimSpace(arguments[0])
	}
	if len(playbookPathCandidate) == 0 {
		if helpError := displayCommandHelp(command); helpError != nil {
			return helpError
		}
		return errors.New(playbookPathRequiredMessageConstant)
	}

	playbookPath := pathutils.NewHomeExpander().Expand(playbookPathCandidate)
	playbookConfiguration, loadError := script.LoadScript(playbookPath)
	if loadError != nil {
		return fmt.Errorf(playbookLoadErrorTemplateConstant, loadError)
	}

	logger := resolveLogger(builder.LoggerProvider)
	executor, executorCreationError := execshell.NewShellExecutor(logger, builder.resolveCommandRunner(), builder.resolveEventObserver(logger))
	if executorCreationError != nil {
		return fmt.Errorf(executorCreationErrorTemplateConstant, executorCreationError)
	}

	runner, runnerCreationError := script.NewRunner(script.Dependencies{
		Executor: executor,
		Logger:   logger,
		Output:   utils.NewFlushingWriter(command.OutOrStdout()),
		Progress: utils.NewFlushingWriter(command.ErrOrStderr()),
	})
	if runnerCreationError != nil {
		return fmt.Errorf(runnerCreationErrorTemplateConstant, runnerCreationError)
	}

	commandConfiguration := builder.resolveConfiguration()

	timeoutSeconds := commandConfiguration.TimeoutSeconds
	if command.Flags().Changed(timeoutFlagNameConstant) {
		timeoutSeconds, _ = command.Flags().GetInt(timeoutFlagNameConstant)
	}

	enableSpinner := commandConfiguration.Spinner
	if command.Flags().Changed(spinnerFlagNameConstant) {
		enableSpinner = builder.spinnerFlagValue
	}

	dryRun := commandConfiguration.DryRun
	if command.Flags().Changed(dryRunFlagNameConstant) {
		dryRun = builder.dryRunFlagValue
	}

	runOptions := script.Options{
		Verbose:        resolveSetting(builder.VerboseProvider),
		EnableColor:    resolveSetting(builder.ColorEnabledProvider),
		EnableSpinner:  enableSpinner,
		TimeoutSeconds: timeoutSeconds,
		DryRun:         dryRun,
	}

	_, runError := runner.Run(command.Context(), playbookConfiguration, runOptions)
	return runError
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
