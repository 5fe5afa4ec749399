package action

import (
	"errors"
	"fmt"
	"time"
)

const (
	skipDefaultMessageConstant     = "action skipped"
	skipMessageTemplateConstant    = "action skipped: %s"
	timeoutMessageTemplateConstant = "action %q timed out after %s"
)

// ErrSkip is the sentinel the supervisor recognizes as a voluntary skip.
var ErrSkip = errors.New(skipDefaultMessageConstant)

// SkipError signals that work declined to run. It unwraps to ErrSkip so the
// supervisor and callers can detect skips with errors.Is.
type SkipError struct {
	Reason string
}

// Skip builds the error work returns to resolve its action as Skipped.
func Skip(reason string) error {
	return SkipError{Reason: reason}
}

// Error describes the skip, including the reason when one was given.
func (skipError SkipError) Error() string {
	if len(skipError.Reason) == 0 {
		return skipDefaultMessageConstant
	}
	return fmt.Sprintf(skipMessageTemplateConstant, skipError.Reason)
}

// Unwrap ties SkipError to the ErrSkip sentinel.
func (skipError SkipError) Unwrap() error {
	return ErrSkip
}

// TimeoutError reports that an action's work outlived its timeout.
type TimeoutError struct {
	Label   string
	Timeout time.Duration
}

// Error describes the timed out action and its configured bound.
func (timeoutError TimeoutError) Error() string {
	return fmt.Sprintf(timeoutMessageTemplateConstant, timeoutError.Label, timeoutError.Timeout)
}
