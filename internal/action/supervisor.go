package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/shx/internal/execshell"
	"github.com/temirov/shx/internal/progress"
	"github.com/temirov/shx/internal/render"
)

const (
	defaultTimeoutSecondsConstant   = 120
	progressLineTemplateConstant    = "%s %s in %s\n"
	progressDetailTemplateConstant  = "%s %s in %s: %s\n"
	progressElapsedRoundingConstant = time.Millisecond
	actionLabelFieldNameConstant    = "action"
	timeoutFieldNameConstant        = "timeout"
	elapsedFieldNameConstant        = "elapsed"
	skipReasonFieldNameConstant     = "reason"
	actionStartedMessageConstant    = "action started"
	actionSucceededMessageConstant  = "action succeeded"
	actionSkippedMessageConstant    = "action skipped"
	actionTimedOutMessageConstant   = "action timed out"
	actionFailedMessageConstant     = "action failed"
)

// WorkFunc is a supervised unit of work. The supplied context is cancelled
// when the action times out or the caller's context ends; work that ignores
// it may keep running after the outcome is reported.
type WorkFunc[ResultType any] func(executionContext context.Context) (ResultType, error)

// Configuration adjusts a single supervised invocation. The zero value
// supervises silently with the default timeout and no progress output.
type Configuration struct {
	// TimeoutSeconds bounds the work. Values at or below zero select the
	// default of 120 seconds.
	TimeoutSeconds int
	// Verbose enables the outcome line and spinner on ProgressWriter.
	Verbose bool
	// EnableColor applies ANSI styles to the outcome tag and failure report.
	EnableColor bool
	// EnableSpinner animates a progress spinner while the work runs.
	EnableSpinner bool
	// ProgressWriter receives progress output. Defaults to os.Stderr.
	ProgressWriter io.Writer
	// Logger receives structured supervision events. Defaults to a no-op
	// logger.
	Logger *zap.Logger
	// FailureReport shapes the rendered execution result attached to command
	// failures. The zero value selects render.DefaultOptions with EnableColor
	// carried over.
	FailureReport render.Options
}

func (configuration Configuration) withDefaults() Configuration {
	if configuration.TimeoutSeconds <= 0 {
		configuration.TimeoutSeconds = defaultTimeoutSecondsConstant
	}
	if configuration.ProgressWriter == nil {
		configuration.ProgressWriter = os.Stderr
	}
	if configuration.Logger == nil {
		configuration.Logger = zap.NewNop()
	}
	if configuration.FailureReport == (render.Options{}) {
		configuration.FailureReport = render.DefaultOptions()
		configuration.FailureReport.EnableColor = configuration.EnableColor
	}
	return configuration
}

// Report captures the terminal state of one supervised action. Failure holds
// the skip error for Skipped reports, the TimeoutError for TimedOut reports,
// and the work's own error for Failed reports.
type Report[ResultType any] struct {
	Label   string
	Outcome Outcome
	Value   ResultType
	Failure error
	Elapsed time.Duration
}

type workCompletion[ResultType any] struct {
	value   ResultType
	failure error
}

// Supervise runs work under the configured timeout and reports the terminal
// outcome without raising it. The work receives a context cancelled when the
// timer fires or the caller's context ends; a work finishing first stops the
// timer immediately. Cancellation is best effort: work that never consults
// its context continues in the background after TimedOut is reported.
//
// Progress output assumes a single in-flight supervised action per writer.
// Supervising two actions against the same terminal concurrently interleaves
// their output; serializing them is the caller's responsibility.
func Supervise[ResultType any](executionContext context.Context, label string, work WorkFunc[ResultType], configuration Configuration) Report[ResultType] {
	settings := configuration.withDefaults()
	timeout := time.Duration(settings.TimeoutSeconds) * time.Second

	settings.Logger.Debug(actionStartedMessageConstant,
		zap.String(actionLabelFieldNameConstant, label),
		zap.Duration(timeoutFieldNameConstant, timeout),
	)

	workContext, cancelWork := context.WithCancel(executionContext)
	defer cancelWork()

	startedAt := time.Now()
	completionChannel := make(chan workCompletion[ResultType], 1)
	go func() {
		workValue, workError := work(workContext)
		completionChannel <- workCompletion[ResultType]{value: workValue, failure: workError}
	}()

	var progressSpinner *progress.Spinner
	if settings.Verbose && settings.EnableSpinner {
		progressSpinner = progress.NewSpinner(progress.SpinnerConfiguration{Writer: settings.ProgressWriter, Label: label})
		progressSpinner.Start()
	}

	timeoutTimer := time.NewTimer(timeout)
	defer timeoutTimer.Stop()

	report := Report[ResultType]{Label: label}
	select {
	case completion := <-completionChannel:
		report.Value = completion.value
		report.Failure = completion.failure
		switch {
		case completion.failure == nil:
			report.Outcome = OutcomeSucceeded
		case errors.Is(completion.failure, ErrSkip):
			report.Outcome = OutcomeSkipped
		default:
			report.Outcome = OutcomeFailed
		}
	case <-timeoutTimer.C:
		cancelWork()
		report.Outcome = OutcomeTimedOut
		report.Failure = TimeoutError{Label: label, Timeout: timeout}
	case <-executionContext.Done():
		cancelWork()
		report.Outcome = OutcomeFailed
		report.Failure = executionContext.Err()
	}
	report.Elapsed = time.Since(startedAt)

	if progressSpinner != nil {
		progressSpinner.Stop()
	}
	logOutcome(settings.Logger, report.Label, report.Outcome, report.Failure, report.Elapsed)
	if settings.Verbose {
		writeProgressReport(settings, report.Label, report.Outcome, report.Failure, report.Elapsed)
	}
	return report
}

// Run supervises work and applies the propagation policy: succeeded actions
// return their value, skipped actions return the zero value with no error,
// and timed out or failed actions return the supervision failure.
func Run[ResultType any](executionContext context.Context, label string, work WorkFunc[ResultType], configuration Configuration) (ResultType, error) {
	report := Supervise(executionContext, label, work, configuration)
	switch report.Outcome {
	case OutcomeSucceeded:
		return report.Value, nil
	case OutcomeSkipped:
		var zeroValue ResultType
		return zeroValue, nil
	default:
		var zeroValue ResultType
		return zeroValue, report.Failure
	}
}

func logOutcome(logger *zap.Logger, label string, outcome Outcome, failure error, elapsed time.Duration) {
	labelField := zap.String(actionLabelFieldNameConstant, label)
	elapsedField := zap.Duration(elapsedFieldNameConstant, elapsed)
	switch outcome {
	case OutcomeSucceeded:
		logger.Debug(actionSucceededMessageConstant, labelField, elapsedField)
	case OutcomeSkipped:
		logger.Info(actionSkippedMessageConstant, labelField, elapsedField, zap.String(skipReasonFieldNameConstant, skipReason(failure)))
	case OutcomeTimedOut:
		logger.Error(actionTimedOutMessageConstant, labelField, elapsedField)
	case OutcomeFailed:
		logger.Error(actionFailedMessageConstant, labelField, elapsedField, zap.Error(failure))
	}
}

func writeProgressReport(settings Configuration, label string, outcome Outcome, failure error, elapsed time.Duration) {
	palette := render.NewPalette(settings.EnableColor)
	roundedElapsed := elapsed.Round(progressElapsedRoundingConstant)

	switch outcome {
	case OutcomeSucceeded:
		fmt.Fprintf(settings.ProgressWriter, progressLineTemplateConstant, palette.SuccessTag(), label, roundedElapsed)
	case OutcomeSkipped:
		reason := skipReason(failure)
		if len(reason) == 0 {
			fmt.Fprintf(settings.ProgressWriter, progressLineTemplateConstant, palette.SkippedTag(), label, roundedElapsed)
			return
		}
		fmt.Fprintf(settings.ProgressWriter, progressDetailTemplateConstant, palette.SkippedTag(), label, roundedElapsed, reason)
	case OutcomeTimedOut:
		fmt.Fprintf(settings.ProgressWriter, progressLineTemplateConstant, palette.TimeoutTag(), label, roundedElapsed)
	case OutcomeFailed:
		var commandFailure execshell.CommandFailedError
		if errors.As(failure, &commandFailure) {
			fmt.Fprintf(settings.ProgressWriter, progressLineTemplateConstant, palette.ErrorTag(), label, roundedElapsed)
			fmt.Fprintln(settings.ProgressWriter, render.FormatCommandFailure(commandFailure, settings.FailureReport))
			return
		}
		fmt.Fprintf(settings.ProgressWriter, progressDetailTemplateConstant, palette.ErrorTag(), label, roundedElapsed, failure.Error())
	}
}

func skipReason(failure error) string {
	var skipError SkipError
	if errors.As(failure, &skipError) {
		return skipError.Reason
	}
	return ""
}
