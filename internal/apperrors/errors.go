package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource (user, job, wallet, transaction) could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller is not allowed to perform the operation.
var ErrForbidden = errors.New("operation not permitted")

// ErrInsufficientFunds indicates a wallet debit would drive the balance negative.
// It is reported before any mutation and is never retried.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrNoHeldFunds indicates no open hold exists for the given job.
var ErrNoHeldFunds = errors.New("no held funds for job")

// ErrAlreadyResolved indicates an attempt to release or refund a hold that is
// no longer in HELD status. The second resolution is a no-op.
var ErrAlreadyResolved = errors.New("hold already resolved")

// ErrWalletBlocked indicates the wallet exists but is not in ACTIVE status.
var ErrWalletBlocked = errors.New("wallet is blocked")

// ErrPersistence indicates an unexpected store failure, surfaced after the
// retry budget for transient connectivity errors was exhausted.
var ErrPersistence = errors.New("persistence failure")

// PartialFailureError reports that an earlier side effect already stands while
// a dependent step failed. The canonical case: the job row was deleted but the
// refund could not be committed. Callers must surface a warning instead of a
// plain success or failure.
type PartialFailureError struct {
	Completed string // the side effect that stands, e.g. "job deleted"
	Err       error  // the failure of the dependent step
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure: %s, but %v", e.Completed, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
