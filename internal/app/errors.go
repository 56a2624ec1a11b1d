package app

import "errors"

var (
	// ErrInvalidInput marks malformed or out-of-range request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoLoansFound is returned by the statement reporter for a user with
	// no loans on file.
	ErrNoLoansFound = errors.New("no loans found for user")

	// ErrBillingNotAvailable is returned when a user's loans exist but no
	// billing cycle has produced a row for them yet.
	ErrBillingNotAvailable = errors.New("billing details not available")
)

// RejectionError carries the specific reason an eligibility, limit, or status
// precondition failed. Rejections are expected outcomes: they are returned to
// the caller verbatim and never logged as errors.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

func reject(reason string) error {
	return &RejectionError{Reason: reason}
}
