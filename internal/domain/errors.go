package domain

import (
	"errors"
	"strings"
)

var (
	// Account errors
	ErrAccountNotFound = errors.New("Fee/fine was not found")
	ErrAlreadyClosed   = errors.New("Fee/fine is already closed")

	// Amount errors
	ErrInvalidAmount     = errors.New("Invalid amount entered")
	ErrNonPositiveAmount = errors.New("Amount must be positive")
	ErrExceedsRemaining  = errors.New("Requested amount exceeds remaining amount")
	ErrExceedsCharged    = errors.New("Remaining amount would exceed charged amount")

	// Refund errors
	ErrNoRefundableAmount   = errors.New("Refund amount must be greater than zero and less than or equal to Selected amount")
	ErrInsufficientCapacity = errors.New("Refund amount must be greater than zero and less than or equal to Selected amount")

	// Request errors
	ErrUnsupportedAction = errors.New("Action type is not supported")
	ErrNoAccounts        = errors.New("At least one fee/fine ID is required")
	ErrTooManyAccounts   = errors.New("Too many fee/fine IDs in one request")
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// Storage errors
	ErrStorageConflict = errors.New("fee/fine was modified concurrently")
	ErrStorageFailure  = errors.New("storage failure")
)

// ActionError is the failure returned to callers of action operations.
// It carries the accounts and the normalized amount the request was about.
type ActionError struct {
	AccountIDs []string
	Amount     string
	Err        error
}

// NewActionError wraps err for the given accounts and amount.
func NewActionError(err error, amount string, accountIDs ...string) *ActionError {
	return &ActionError{
		AccountIDs: accountIDs,
		Amount:     amount,
		Err:        err,
	}
}

func (e *ActionError) Error() string {
	return e.Err.Error()
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Message returns the text expected by downstream clients.
func (e *ActionError) Message() string {
	// Parse errors carry the raw input after the sentinel text.
	if errors.Is(e.Err, ErrInvalidAmount) {
		return ErrInvalidAmount.Error()
	}
	return strings.TrimSpace(e.Err.Error())
}

// IsValidationError reports whether err is a validation failure detected before any mutation.
func IsValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrNonPositiveAmount),
		errors.Is(err, ErrExceedsRemaining),
		errors.Is(err, ErrExceedsCharged),
		errors.Is(err, ErrAlreadyClosed),
		errors.Is(err, ErrNoRefundableAmount),
		errors.Is(err, ErrInsufficientCapacity),
		errors.Is(err, ErrUnsupportedAction),
		errors.Is(err, ErrNoAccounts),
		errors.Is(err, ErrTooManyAccounts),
		errors.Is(err, ErrInvalidIdentifier):
		return true
	}
	return false
}
