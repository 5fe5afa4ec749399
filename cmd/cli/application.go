package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	quotecmd "github.com/temirov/shx/cmd/cli/quote"
	runcmd "github.com/temirov/shx/cmd/cli/run"
	scriptcmd "github.com/temirov/shx/cmd/cli/script"
	"github.com/temirov/shx/internal/utils"
	flagutils "github.com/temirov/shx/internal/utils/flags"
	pathutils "github.com/temirov/shx/internal/utils/path"
)

const (
	applicationNameConstant                 = "shx"
	applicationShortDescriptionConstant     = "Command-line interface for the shx shell toolkit"
	applicationLongDescriptionConstant      = "shx compiles shell command templates with safe quoting and executes them under supervised timeouts."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagDescriptionConstant        = "Override the configured log format."
	colorFlagNameConstant                   = "color"
	colorFlagDescriptionConstant            = "Control colored output."
	verboseFlagNameConstant                 = "verbose"
	verboseFlagShorthandConstant            = "v"
	verboseFlagUsageConstant                = "Report per-command progress and outcomes."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	commonColorConfigKeyConstant            = commonConfigurationKeyConstant + ".color"
	commonVerboseConfigKeyConstant          = commonConfigurationKeyConstant + ".verbose"
	environmentPrefixConstant               = "SHX"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	rootCommandInfoMessageConstant          = "shx CLI executed"
	rootCommandDebugMessageConstant         = "shx CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
	defaultConfigurationSearchPathConstant  = "."
	userConfigurationDirectoryNameConstant  = "shx"
	commandsConfigurationKeyConstant        = "commands"
	runConfigurationKeyConstant             = commandsConfigurationKeyConstant + ".run"
	scriptConfigurationKeyConstant          = commandsConfigurationKeyConstant + ".script"
	colorModeAutoConstant                   = "auto"
	colorModeAlwaysConstant                 = "always"
	colorModeNeverConstant                  = "never"
	versionFlagArgumentConstant             = "--version"
	argumentTerminatorConstant              = "--"
	versionOutputTemplateConstant           = "shx version: %s\n"
	versionFallbackConstant                 = "unknown"
)

var (
	colorModeChoices = []string{colorModeAutoConstant, colorModeAlwaysConstant, colorModeNeverConstant}
	logFormatChoices = []string{string(utils.LogFormatStructured), string(utils.LogFormatConsole)}
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common   ApplicationCommonConfiguration   `mapstructure:"common"`
	Commands ApplicationCommandsConfiguration `mapstructure:"commands"`
}

// ApplicationCommonConfiguration stores logging and reporting settings shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	Color     string `mapstructure:"color"`
	Verbose   bool   `mapstructure:"verbose"`
}

// ApplicationCommandsConfiguration groups per-command configuration sections.
type ApplicationCommandsConfiguration struct {
	Run    runcmd.CommandConfiguration    `mapstructure:"run"`
	Script scriptcmd.CommandConfiguration `mapstructure:"script"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	colorFlagValue         string
	verboseFlagValue       bool
	commandContextAccessor utils.CommandContextAccessor
	versionResolver        func(context.Context) string
	exitFunction           func(int)
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
		versionResolver:        resolveBuildVersion,
		exitFunction:           os.Exit,
	}

	rootCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	rootCommand.SetContext(context.Background())
	rootCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	rootCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", flagutils.FormatChoiceUsage(string(utils.LogFormatStructured), logFormatChoices, logFormatFlagDescriptionConstant))
	rootCommand.PersistentFlags().StringVar(&application.colorFlagValue, colorFlagNameConstant, "", flagutils.FormatChoiceUsage(colorModeAutoConstant, colorModeChoices, colorFlagDescriptionConstant))
	flagutils.AddToggleFlag(rootCommand.PersistentFlags(), &application.verboseFlagValue, verboseFlagNameConstant, verboseFlagShorthandConstant, false, verboseFlagUsageConstant)

	runBuilder := runcmd.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ColorEnabledProvider:         application.colorOutputEnabled,
		VerboseProvider:              application.verboseReportingEnabled,
		ConfigurationProvider: func() runcmd.CommandConfiguration {
			return application.configuration.Commands.Run
		},
	}
	runCommand, runBuildError := runBuilder.Build()
	if runBuildError == nil {
		rootCommand.AddCommand(runCommand)
	}

	quoteBuilder := quotecmd.CommandBuilder{}
	quoteCommand, quoteBuildError := quoteBuilder.Build()
	if quoteBuildError == nil {
		rootCommand.AddCommand(quoteCommand)
	}

	scriptBuilder := scriptcmd.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ColorEnabledProvider:         application.colorOutputEnabled,
		VerboseProvider:              application.verboseReportingEnabled,
		ConfigurationProvider: func() scriptcmd.CommandConfiguration {
			return application.configuration.Commands.Script
		},
	}
	scriptCommand, scriptBuildError := scriptBuilder.Build()
	if scriptBuildError == nil {
		rootCommand.AddCommand(scriptCommand)
	}

	application.rootCommand = rootCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	commandLineArguments := flagutils.NormalizeToggleArguments(os.Args[1:])
	if versionRequested(commandLineArguments) {
		application.printVersion()
		application.exitFunction(0)
		return nil
	}

	application.rootCommand.SetArgs(commandLineArguments)
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
		commonColorConfigKeyConstant:     colorModeAutoConstant,
		commonVerboseConfigKeyConstant:   false,
	}
	for configurationKey, configurationValue := range runcmd.DefaultConfigurationValues(runConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}
	for configurationKey, configurationValue := range scriptcmd.DefaultConfigurationValues(scriptConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	configurationFilePath := application.resolveConfigurationFilePath()
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, colorFlagNameConstant) {
		application.configuration.Common.Color = application.colorFlagValue
	}

	if application.persistentFlagChanged(command, verboseFlagNameConstant) {
		application.configuration.Common.Verbose = application.verboseFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) colorOutputEnabled() bool {
	colorMode := strings.ToLower(strings.TrimSpace(application.configuration.Common.Color))
	switch colorMode {
	case colorModeAlwaysConstant:
		return true
	case colorModeNeverConstant:
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func (application *Application) verboseReportingEnabled() bool {
	return application.configuration.Common.Verbose
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	return command.Help()
}

func (application *Application) resolveConfigurationFilePath() string {
	trimmedPath := strings.TrimSpace(application.configurationFilePath)
	if len(trimmedPath) == 0 {
		return ""
	}
	return pathutils.NewHomeExpander().Expand(trimmedPath)
}

func (application *Application) printVersion() {
	versionValue := versionFallbackConstant
	if application.versionResolver != nil {
		resolvedVersion := strings.TrimSpace(application.versionResolver(application.rootCommand.Context()))
		if len(resolvedVersion) > 0 {
			versionValue = resolvedVersion
		}
	}
	fmt.Fprintf(os.Stdout, versionOutputTemplateConstant, versionValue)
}

func (application *Application) flushLogger() error {
	return application.syncLoggerInstance(application.logger)
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, lookupError := os.UserConfigDir(); lookupError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}

func versionRequested(arguments []string) bool {
	for _, argument := range arguments {
		if argument == argumentTerminatorConstant {
			return false
		}
		if argument == versionFlagArgumentConstant {
			return true
		}
	}
	return false
}

func resolveBuildVersion(context.Context) string {
	buildInformation, buildInformationAvailable := debug.ReadBuildInfo()
	if !buildInformationAvailable {
		return versionFallbackConstant
	}

	moduleVersion := strings.TrimSpace(buildInformation.Main.Version)
	if len(moduleVersion) == 0 {
		return versionFallbackConstant
	}
	return moduleVersion
}
