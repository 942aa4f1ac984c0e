package domain

import (
	"time"
)

// AccountStatus represents an account's lifecycle state.
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "active"
	AccountStatusClosed AccountStatus = "closed"
)

// Account represents a ledger account. The account row itself never stores a
// balance; the balance is always derived by folding the account's ledger
// entries. The engine treats the account as a locking and ownership unit.
type Account struct {
	ID        string
	UserID    string
	Type      string
	Currency  string
	Status    AccountStatus
	CreatedAt time.Time
}

// CanTransact checks whether the account accepts new postings.
func (a *Account) CanTransact() error {
	if a.Status == AccountStatusClosed {
		return ErrAccountClosed
	}
	return nil
}
