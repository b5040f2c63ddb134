package ledger

import "fmt"

// ValidationError reports rejected input such as a blank username.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RetryExhaustedError reports a submission blocked by the retry gate.
type RetryExhaustedError struct {
	QuestionID string
	Attempts   int
}

func (e *RetryExhaustedError) Error() string {
	if e.Attempts >= MaxAttempts {
		return fmt.Sprintf("question %s: all %d attempts used", e.QuestionID, MaxAttempts)
	}
	return fmt.Sprintf("question %s: retry requires reasoning on the previous answer", e.QuestionID)
}
