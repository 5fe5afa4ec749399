package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	consoleEncodingConstant              = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Log levels accepted by CreateLogger.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Log formats accepted by CreateLogger.
const (
	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct{}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a zap.Logger honoring the requested log level and
// format. Unknown levels and formats are rejected rather than defaulted so
// configuration typos surface immediately.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLevel, levelError := resolveZapLevel(requestedLogLevel)
	if levelError != nil {
		return nil, levelError
	}

	loggerConfiguration, configurationError := resolveLoggerConfiguration(requestedLogFormat)
	if configurationError != nil {
		return nil, configurationError
	}

	loggerConfiguration.Level = zap.NewAtomicLevelAt(zapLevel)
	return loggerConfiguration.Build()
}

func resolveZapLevel(requestedLogLevel LogLevel) (zapcore.Level, error) {
	switch requestedLogLevel {
	case LogLevelDebug:
		return zapcore.DebugLevel, nil
	case LogLevelInfo:
		return zapcore.InfoLevel, nil
	case LogLevelWarn:
		return zapcore.WarnLevel, nil
	case LogLevelError:
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InvalidLevel, fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
}

func resolveLoggerConfiguration(requestedLogFormat LogFormat) (zap.Config, error) {
	switch requestedLogFormat {
	case LogFormatStructured:
		return zap.NewProductionConfig(), nil
	case LogFormatConsole:
		consoleConfiguration := zap.NewProductionConfig()
		consoleConfiguration.Encoding = consoleEncodingConstant
		consoleConfiguration.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return consoleConfiguration, nil
	}
	return zap.Config{}, fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
}
