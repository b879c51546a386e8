package service

import (
	"errors"
	"fmt"
)

// Policy errors. These are terminal for the call that produced them and
// are reported to the client verbatim; nothing retries them.
var (
	ErrUnknownStudent    = errors.New("student is not known to the system")
	ErrAlreadyTaken      = errors.New("exam has already been taken")
	ErrExamNotFound      = errors.New("exam not found")
	ErrResultNotFound    = errors.New("no result recorded for this exam")
	ErrResultsNotVisible = errors.New("results are not available for viewing yet")
	ErrSubmissionTooLate = errors.New("submission arrived after the allotted duration")
)

// TransactionError wraps a storage failure inside an atomic unit. The unit
// has been fully rolled back when this is returned; no partial rows exist.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: transaction failed: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
