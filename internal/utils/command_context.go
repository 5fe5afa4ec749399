package utils

import "context"

type commandContextKey int

const configurationFileKey commandContextKey = iota

// CommandContextAccessor reads and writes the values shx threads through a
// command's context.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs an accessor.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath returns a context carrying the resolved
// configuration file path.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFileKey, configurationFilePath)
}

// ConfigurationFilePath reports the configuration file path stored in the
// context, when one was attached.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	storedPath, pathStored := executionContext.Value(configurationFileKey).(string)
	return storedPath, pathStored
}
