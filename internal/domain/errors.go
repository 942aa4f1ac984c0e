package domain

import (
	"errors"
	"fmt"
)

var (
	// Validation errors: detected before any lock or write.
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrSameAccount             = errors.New("cannot transfer to same account")
	ErrCurrencyMismatch        = errors.New("cannot transfer between different currencies")
	ErrInvalidTransactionShape = errors.New("transaction kind does not match its account references")

	// Business-rule errors: detected under lock, before writing.
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAccountClosed     = errors.New("account is closed")

	// Lookup errors.
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// StorageError wraps a backend failure. The write set is guaranteed to have
// been rolled back by the time one of these reaches a caller. Retryable marks
// transient conditions (deadlock, serialization failure, lock wait timeout);
// retrying is the caller's decision, the engine never retries internally.
type StorageError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError wraps err as a storage failure for operation op.
func NewStorageError(op string, err error, retryable bool) *StorageError {
	return &StorageError{Op: op, Err: err, Retryable: retryable}
}

// IsRetryableStorage reports whether err is a storage failure the caller may
// safely retry.
func IsRetryableStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se) && se.Retryable
}
