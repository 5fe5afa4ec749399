package run

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// BoolProvider yields a boolean setting resolved by the host application.
type BoolProvider func() bool

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveSetting(provider BoolProvider) bool {
	if provider == nil {
		return false
	}
	return provider()
}

func displayCommandHelp(command *cobra.Command) error {
	if command == nil {
		return nil
	}
	return command.Help()
}
