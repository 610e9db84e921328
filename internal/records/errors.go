package records

import (
	"errors"
	"fmt"
)

// ErrWriteFailed matches every error returned by a collection write.
var ErrWriteFailed = errors.New("record store write failed")

// WriteError reports a failed upsert or delete. The write did not happen, so the
// caller may retry the same operation.
type WriteError struct {
	Collection string
	Op         Operation
	RecordID   string
	Err        error
}

func (e *WriteError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Collection, e.RecordID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrWriteFailed, e.Err}
}

// IsWriteFailure reports whether err came from a failed collection write.
func IsWriteFailure(err error) bool {
	return errors.Is(err, ErrWriteFailed)
}
