package reports

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrNotFound is returned when a report id does not exist.
var ErrNotFound = errors.New("report not found")

// ValidationError is a missing or malformed request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AggregationError wraps a failed invoice query. No report is produced.
type AggregationError struct {
	Err error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregate invoices: %v", e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed report write.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// StackTrace returns the formatted stack recorded where a store error entered
// the pipeline, or "" when none was recorded.
func StackTrace(err error) string {
	var st stackTracer
	if errors.As(err, &st) {
		return fmt.Sprintf("%+v", st.StackTrace())
	}
	return ""
}
