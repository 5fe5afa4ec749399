package script

const (
	configurationTimeoutSecondsKeyConstant = "timeout_seconds"
	configurationSpinnerKeyConstant        = "spinner"
	configurationDryRunKeyConstant         = "dry_run"
	configurationKeySeparatorConstant      = "."
)

// CommandConfiguration captures configuration values for script.
type CommandConfiguration struct {
	TimeoutSeconds int  `mapstructure:"timeout_seconds"`
	Spinner        bool `mapstructure:"spinner"`
	DryRun         bool `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration provides default script command settings. A
// zero timeout defers to per-step timeouts and the supervision default.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		TimeoutSeconds: 0,
		Spinner:        false,
		DryRun:         false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the script command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + configurationTimeoutSecondsKeyConstant: defaults.TimeoutSeconds,
		rootKey + configurationKeySeparatorConstant + configurationSpinnerKeyConstant:        defaults.Spinner,
		rootKey + configurationKeySeparatorConstant + configurationDryRunKeyConstant:         defaults.DryRun,
	}
}

// sanitize normalizes script configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	if sanitized.TimeoutSeconds < 0 {
		sanitized.TimeoutSeconds = 0
	}
	return sanitized
}
