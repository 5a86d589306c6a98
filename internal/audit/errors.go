package audit

import (
	"errors"
	"fmt"
)

// ErrDiscoveryTimeout marks a run whose discovery did not complete
// within the overall listing timeout. The run emits no table.
var ErrDiscoveryTimeout = errors.New("audit: discovery timed out")

// EvaluatorError marks a failed criterion evaluation for one
// application. A single evaluator failure aborts the whole run: there
// is no partial-table mode.
type EvaluatorError struct {
	Reference string
	AppID     string
	Err       error
}

func (e *EvaluatorError) Error() string {
	return fmt.Sprintf("criterion %s failed for application %s: %v", e.Reference, e.AppID, e.Err)
}

func (e *EvaluatorError) Unwrap() error {
	return e.Err
}
