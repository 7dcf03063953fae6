package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// Customer errors
	ErrCustomerNotFound = errors.New("customer not found")
	ErrInvalidName      = errors.New("customer name cannot be blank")
	ErrInvalidEmail     = errors.New("invalid email address")

	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidAccountType = errors.New("invalid account type: must be CHECKING or SAVINGS")
	ErrNegativeBalance    = errors.New("initial balance cannot be negative")
	ErrLockTimeout        = errors.New("timed out waiting for account lock")
	ErrAccountNotReady    = errors.New("account was not created with NewAccount")

	// Transaction errors
	ErrInvalidAmount          = errors.New("amount must be greater than zero")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrSameAccount            = errors.New("source and destination accounts must be different")
	ErrInvalidLimit           = errors.New("limit must be positive")
	ErrInvalidLookback        = errors.New("lookback cannot be negative")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)

// ValidationError reports malformed or out-of-range input.
// Nothing has been mutated when one is returned.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Invalid builds a ValidationError for field carrying the given reason.
func Invalid(field string, reason error) *ValidationError {
	return &ValidationError{Field: field, Message: reason.Error(), Err: reason}
}

// NotFoundError reports an unknown customer or account id.
type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// CustomerNotFound returns the NotFoundError for a customer id.
func CustomerNotFound(id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: "customer", ID: idString(id), Err: ErrCustomerNotFound}
}

// AccountNotFound returns the NotFoundError for an account id.
func AccountNotFound(id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: "account", ID: idString(id), Err: ErrAccountNotFound}
}

// ConcurrencyError reports that an account guard could not be acquired.
type ConcurrencyError struct {
	AccountID uuid.UUID
	Err       error
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrLockTimeout.Error(), e.AccountID, e.Err)
}

// Unwrap exposes both the sentinel and the context error that ended the wait.
func (e *ConcurrencyError) Unwrap() []error {
	return []error{ErrLockTimeout, e.Err}
}

func idString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}
