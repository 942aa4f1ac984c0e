package usecase

import "time"

const (
	// DefaultTransactionTimeout bounds the critical section. A database
	// transaction that holds an account row lock longer than this is aborted
	// and rolled back rather than left blocking other operations.
	DefaultTransactionTimeout = 10 * time.Second
)
