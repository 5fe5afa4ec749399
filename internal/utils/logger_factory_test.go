package utils_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/shx/internal/utils"
)

const logProbeMessageConstant = "logger_factory_probe"

// captureStandardError swaps os.Stderr while builder runs so the stderr sink
// zap opens during Build binds to the pipe.
func captureStandardError(testingInstance testing.TB, builder func()) []byte {
	testingInstance.Helper()

	pipeReader, pipeWriter, pipeError := os.Pipe()
	require.NoError(testingInstance, pipeError)

	originalStderr := os.Stderr
	os.Stderr = pipeWriter
	func() {
		defer func() { os.Stderr = originalStderr }()
		builder()
	}()

	require.NoError(testingInstance, pipeWriter.Close())
	capturedOutput, readError := io.ReadAll(pipeReader)
	require.NoError(testingInstance, readError)
	require.NoError(testingInstance, pipeReader.Close())

	return capturedOutput
}

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name              string
		logLevel          utils.LogLevel
		logFormat         utils.LogFormat
		expectJSONPayload bool
	}{
		{name: "DebugStructured", logLevel: utils.LogLevelDebug, logFormat: utils.LogFormatStructured, expectJSONPayload: true},
		{name: "InfoStructured", logLevel: utils.LogLevelInfo, logFormat: utils.LogFormatStructured, expectJSONPayload: true},
		{name: "InfoConsole", logLevel: utils.LogLevelInfo, logFormat: utils.LogFormatConsole, expectJSONPayload: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			capturedOutput := captureStandardError(testInstance, func() {
				logger, creationError := utils.NewLoggerFactory().CreateLogger(testCase.logLevel, testCase.logFormat)
				require.NoError(testInstance, creationError)

				logger.Info(logProbeMessageConstant)
				if syncError := logger.Sync(); syncError != nil {
					require.True(testInstance, errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL))
				}
			})

			logLine := bytes.TrimSpace(capturedOutput)
			require.Contains(testInstance, string(logLine), logProbeMessageConstant)
			require.Equal(testInstance, testCase.expectJSONPayload, json.Valid(logLine))
		})
	}
}

func TestLoggerFactoryRejectsUnknownSettings(testInstance *testing.T) {
	factory := utils.NewLoggerFactory()

	_, levelError := factory.CreateLogger(utils.LogLevel("verbose"), utils.LogFormatStructured)
	require.ErrorContains(testInstance, levelError, "unsupported log level")

	_, formatError := factory.CreateLogger(utils.LogLevelInfo, utils.LogFormat("logfmt"))
	require.ErrorContains(testInstance, formatError, "unsupported log format")
}
