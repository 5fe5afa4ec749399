package run

import "strings"

const (
	configurationShellPathKeyConstant        = "shell_path"
	configurationShellArgumentsKeyConstant   = "shell_arguments"
	configurationWorkingDirectoryKeyConstant = "working_directory"
	configurationTimeoutSecondsKeyConstant   = "timeout_seconds"
	configurationTrimOutputKeyConstant       = "trim_output"
	configurationKeySeparatorConstant        = "."
	defaultTimeoutSecondsConstant            = 120
)

// CommandConfiguration captures configuration values for run.
type CommandConfiguration struct {
	ShellPath        string   `mapstructure:"shell_path"`
	ShellArguments   []string `mapstructure:"shell_arguments"`
	WorkingDirectory string   `mapstructure:"working_directory"`
	TimeoutSeconds   int      `mapstructure:"timeout_seconds"`
	TrimOutput       bool     `mapstructure:"trim_output"`
}

// DefaultCommandConfiguration provides default run command settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		ShellPath:        "",
		ShellArguments:   nil,
		WorkingDirectory: "",
		TimeoutSeconds:   defaultTimeoutSecondsConstant,
		TrimOutput:       true,
	}
}

// DefaultConfigurationValues produces Viper defaults for the run command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationShellPathKeyConstant:        defaults.ShellPath,
		rootKey + configurationKeySeparatorConstant + configurationShellArgumentsKeyConstant:   defaults.ShellArguments,
		rootKey + configurationKeySeparatorConstant + configurationWorkingDirectoryKeyConstant: defaults.WorkingDirectory,
		rootKey + configurationKeySeparatorConstant + configurationTimeoutSecondsKeyConstant:   defaults.TimeoutSeconds,
		rootKey + configurationKeySeparatorConstant + configurationTrimOutputKeyConstant:       defaults.TrimOutput,
	}
}

// sanitize normalizes run configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ShellPath = strings.TrimSpace(configuration.ShellPath)
	sanitized.WorkingDirectory = strings.TrimSpace(configuration.WorkingDirectory)
	if sanitized.TimeoutSeconds <= 0 {
		sanitized.TimeoutSeconds = defaultTimeoutSecondsConstant
	}
	return sanitized
}
