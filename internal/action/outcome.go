package action

// Outcome identifies the terminal state of a supervised action.
type Outcome int

const (
	// OutcomeSucceeded reports work that completed and returned a value.
	OutcomeSucceeded Outcome = iota
	// OutcomeSkipped reports work that declined to run via Skip.
	OutcomeSkipped
	// OutcomeTimedOut reports work cut off by the configured timeout.
	OutcomeTimedOut
	// OutcomeFailed reports work that returned an ordinary error.
	OutcomeFailed
)

const (
	succeededOutcomeNameConstant = "succeeded"
	skippedOutcomeNameConstant   = "skipped"
	timedOutOutcomeNameConstant  = "timed_out"
	failedOutcomeNameConstant    = "failed"
	unknownOutcomeNameConstant   = "unknown"
)

// String names the outcome for logs and progress lines.
func (outcome Outcome) String() string {
	switch outcome {
	case OutcomeSucceeded:
		return succeededOutcomeNameConstant
	case OutcomeSkipped:
		return skippedOutcomeNameConstant
	case OutcomeTimedOut:
		return timedOutOutcomeNameConstant
	case OutcomeFailed:
		return failedOutcomeNameConstant
	default:
		return unknownOutcomeNameConstant
	}
}
