package progress_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/shx/internal/progress"
)

func TestSpinnerWritesFramesAndClearsRow(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	spinner := progress.NewSpinner(progress.SpinnerConfiguration{
		Writer:        outputBuffer,
		Label:         "deploying",
		FrameInterval: 5 * time.Millisecond,
	})

	spinner.Start()
	time.Sleep(30 * time.Millisecond)
	spinner.Stop()

	renderedOutput := outputBuffer.String()
	require.Contains(testInstance, renderedOutput, "deploying")
	require.Contains(testInstance, renderedOutput, "⠋")
	require.True(testInstance, strings.HasSuffix(renderedOutput, "\r\x1b[2K"))
}

func TestSpinnerRendersFirstFrameEvenWhenStoppedImmediately(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	spinner := progress.NewSpinner(progress.SpinnerConfiguration{
		Writer: outputBuffer,
		Label:  "instant",
	})

	spinner.Start()
	spinner.Stop()

	require.Contains(testInstance, outputBuffer.String(), "instant")
}

func TestSpinnerSetLabelAppearsInLaterFrames(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	spinner := progress.NewSpinner(progress.SpinnerConfiguration{
		Writer:        outputBuffer,
		Label:         "first phase",
		FrameInterval: 5 * time.Millisecond,
	})

	spinner.Start()
	spinner.SetLabel("second phase")
	time.Sleep(150 * time.Millisecond)
	spinner.Stop()

	require.Contains(testInstance, outputBuffer.String(), "second phase")
}

func TestSpinnerRepeatedStartAndStopAreSafe(testInstance *testing.T) {
	spinner := progress.NewSpinner(progress.SpinnerConfiguration{Label: "idle"})

	spinner.Stop()
	spinner.Start()
	spinner.Start()
	spinner.Stop()
	spinner.Stop()

	spinner.Start()
	spinner.Stop()
}
