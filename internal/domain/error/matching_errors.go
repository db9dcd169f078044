// Package error defines domain-specific errors for the Ledgerline application.
package error

import "errors"

// Duplicate and transfer matching errors.
var (
	// ErrInvalidResolutionStrategy is returned when a duplicate resolution names an unknown strategy.
	ErrInvalidResolutionStrategy = errors.New("invalid duplicate resolution strategy")

	// ErrDuplicateGroupTooSmall is returned when a resolution targets fewer than two transactions.
	ErrDuplicateGroupTooSmall = errors.New("duplicate group must contain at least two transactions")

	// ErrNotATransferPair is returned when transfer linking is given transactions
	// that do not form a source/destination pair.
	ErrNotATransferPair = errors.New("transactions do not form a valid transfer pair")

	// ErrTransferSameAccount is returned when both sides of a transfer share one account.
	ErrTransferSameAccount = errors.New("transfer source and destination must be in different accounts")

	// ErrTransferAlreadyLinked is returned when a transaction already belongs to a transfer.
	ErrTransferAlreadyLinked = errors.New("transaction is already part of a transfer")

	// ErrTransferNotFound is returned when a transfer link is not found.
	ErrTransferNotFound = errors.New("transfer not found")
)

// MatchingErrorCode defines error codes for duplicate and transfer matching errors.
// Format: MTC-XXYYYY where XX is category and YYYY is specific error.
type MatchingErrorCode string

const (
	// Duplicate errors (01XXXX)
	ErrCodeInvalidResolutionStrategy MatchingErrorCode = "MTC-010001"
	ErrCodeDuplicateGroupTooSmall    MatchingErrorCode = "MTC-010002"

	// Transfer errors (02XXXX)
	ErrCodeNotATransferPair      MatchingErrorCode = "MTC-020001"
	ErrCodeTransferSameAccount   MatchingErrorCode = "MTC-020002"
	ErrCodeTransferAlreadyLinked MatchingErrorCode = "MTC-020003"
	ErrCodeTransferNotFound      MatchingErrorCode = "MTC-020004"
)

// MatchingError represents a duplicate or transfer matching error with code and message.
type MatchingError struct {
	Code    MatchingErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *MatchingError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *MatchingError) Unwrap() error {
	return e.Err
}

// NewMatchingError creates a new MatchingError with the given code and message.
func NewMatchingError(code MatchingErrorCode, message string, err error) *MatchingError {
	return &MatchingError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
