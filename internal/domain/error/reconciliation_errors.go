// Package error defines domain-specific errors for the Ledgerline application.
package error

import "errors"

// Reconciliation domain errors.
var (
	// ErrSessionNotFound is returned when a reconciliation session is not found.
	ErrSessionNotFound = errors.New("reconciliation session not found")

	// ErrNotAuthorizedToModifySession is returned when user is not authorized to modify a session.
	ErrNotAuthorizedToModifySession = errors.New("not authorized to modify reconciliation session")

	// ErrSessionAlreadyCompleted is returned when an operation targets a completed session.
	ErrSessionAlreadyCompleted = errors.New("reconciliation session already completed")

	// ErrSessionNotInProgress is returned when finalization requires an in-progress session.
	ErrSessionNotInProgress = errors.New("reconciliation session is not in progress")

	// ErrTooManyUnmatchedItems is returned when finalization is blocked by unmatched items.
	ErrTooManyUnmatchedItems = errors.New("too many unmatched items to complete reconciliation")

	// ErrStatementEmpty is returned when an imported statement contains no transactions.
	ErrStatementEmpty = errors.New("statement contains no transactions")

	// ErrUnknownBankProvider is returned when a statement names a provider with no registered decoder.
	ErrUnknownBankProvider = errors.New("unknown bank provider")

	// ErrInvalidStatementPayload is returned when a statement payload cannot be decoded.
	ErrInvalidStatementPayload = errors.New("invalid statement payload")

	// ErrReconciliationItemNotFound is returned when a reconciliation item is not found.
	ErrReconciliationItemNotFound = errors.New("reconciliation item not found")

	// ErrItemNotUnmatched is returned when an operation requires an unmatched bank item.
	ErrItemNotUnmatched = errors.New("reconciliation item is not an unmatched bank item")

	// ErrTransactionAlreadyMatched is returned when a manual link targets a transaction
	// that is already paired inside the session.
	ErrTransactionAlreadyMatched = errors.New("transaction is already matched in this session")

	// ErrManualLinkOutsideTolerance is returned when a manual link candidate falls
	// outside the tolerance window and force was not set.
	ErrManualLinkOutsideTolerance = errors.New("transaction is outside tolerance, use force to override")
)

// ReconciliationErrorCode defines error codes for reconciliation errors.
// Format: REC-XXYYYY where XX is category and YYYY is specific error.
type ReconciliationErrorCode string

const (
	// Session errors (01XXXX)
	ErrCodeSessionNotFound         ReconciliationErrorCode = "REC-010001"
	ErrCodeNotAuthorizedSession    ReconciliationErrorCode = "REC-010002"
	ErrCodeSessionAlreadyCompleted ReconciliationErrorCode = "REC-010003"
	ErrCodeSessionNotInProgress    ReconciliationErrorCode = "REC-010004"
	ErrCodeTooManyUnmatched        ReconciliationErrorCode = "REC-010005"

	// Statement errors (02XXXX)
	ErrCodeStatementEmpty          ReconciliationErrorCode = "REC-020001"
	ErrCodeUnknownBankProvider     ReconciliationErrorCode = "REC-020002"
	ErrCodeInvalidStatementPayload ReconciliationErrorCode = "REC-020003"

	// Item errors (03XXXX)
	ErrCodeItemNotFound               ReconciliationErrorCode = "REC-030001"
	ErrCodeItemNotUnmatched           ReconciliationErrorCode = "REC-030002"
	ErrCodeTransactionAlreadyMatched  ReconciliationErrorCode = "REC-030003"
	ErrCodeManualLinkOutsideTolerance ReconciliationErrorCode = "REC-030004"
)

// ReconciliationError represents a reconciliation error with code and message.
type ReconciliationError struct {
	Code    ReconciliationErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReconciliationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// NewReconciliationError creates a new ReconciliationError with the given code and message.
func NewReconciliationError(code ReconciliationErrorCode, message string, err error) *ReconciliationError {
	return &ReconciliationError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
