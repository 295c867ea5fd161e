package analysis

import (
	"fmt"

	"github.com/rcastillo/chartsight/internal/quota"
)

// ValidationError rejects a request before any external call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// QuotaError means the account exhausted its daily analyses. The model is
// never called in this case.
type QuotaError struct {
	Status quota.Status
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("daily analysis limit reached (%d/%d)", e.Status.Used, e.Status.Limit)
}

// ModelCallError wraps a failed model invocation. No retry is attempted;
// the underlying message is surfaced verbatim.
type ModelCallError struct {
	Err error
}

func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call failed: %v", e.Err)
}

func (e *ModelCallError) Unwrap() error {
	return e.Err
}
