package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType marks a ledger entry as a credit or a debit.
type EntryType string

const (
	EntryTypeCredit EntryType = "credit"
	EntryTypeDebit  EntryType = "debit"
)

// LedgerEntry is a single immutable posting against one account, tied to the
// transaction that produced it. Entries are append-only: never updated,
// never deleted. Amount is always positive; the sign lives in Type.
type LedgerEntry struct {
	ID            string
	AccountID     string
	TransactionID string
	Type          EntryType
	Amount        decimal.Decimal
	CreatedAt     time.Time
}
