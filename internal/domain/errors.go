package domain

import "errors"

// FatalError wraps an error that must abort the run: malformed input,
// truncated records, or I/O failure on a stream. It is distinct from a
// semantic warning, which is logged and skipped.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// NewFatalError wraps err as a FatalError tagged with the failing operation.
func NewFatalError(op string, err error) *FatalError {
	return &FatalError{Op: op, Err: err}
}

var (
	// ErrUnknownEventType is returned by the book-event reader when a
	// record's type tag does not match any of the ten known variants.
	ErrUnknownEventType = errors.New("unknown book event type")

	// ErrTruncatedRecord is returned when a stream ends mid-record.
	ErrTruncatedRecord = errors.New("truncated record")

	// ErrOrderNotFound is a semantic-warning condition: a CANCEL or
	// REPLACE referenced an order not in the active set.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidFill is a semantic-warning condition: a fill with a
	// non-positive price or zero quantity.
	ErrInvalidFill = errors.New("invalid fill")
)
