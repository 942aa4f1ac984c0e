package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind identifies which operation produced a transaction.
type TransactionKind string

const (
	TransactionKindDeposit  TransactionKind = "deposit"
	TransactionKindWithdraw TransactionKind = "withdraw"
	TransactionKindTransfer TransactionKind = "transfer"
)

// TransactionStatus is the terminal status of a transaction record.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is the immutable summary of one atomic ledger operation.
//
// Deposit and withdraw are single-leg operations: their counterparty is the
// outside world, so only one of the account references is set and only one
// ledger entry is written. Transfer carries both references and two entries
// whose amounts cancel out. The zero-sum invariant applies to transfers only;
// the single-leg exemption is a modeling choice, not a gap.
type Transaction struct {
	ID                   string
	Kind                 TransactionKind
	SourceAccountID      *string
	DestinationAccountID *string
	Amount               decimal.Decimal
	Currency             string
	Status               TransactionStatus
	CreatedAt            time.Time
}

// Validate checks the shape invariant for the transaction's kind.
func (t *Transaction) Validate() error {
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	switch t.Kind {
	case TransactionKindDeposit:
		if t.DestinationAccountID == nil || t.SourceAccountID != nil {
			return ErrInvalidTransactionShape
		}
	case TransactionKindWithdraw:
		if t.SourceAccountID == nil || t.DestinationAccountID != nil {
			return ErrInvalidTransactionShape
		}
	case TransactionKindTransfer:
		if t.SourceAccountID == nil || t.DestinationAccountID == nil {
			return ErrInvalidTransactionShape
		}
		if *t.SourceAccountID == *t.DestinationAccountID {
			return ErrSameAccount
		}
	default:
		return ErrInvalidTransactionShape
	}

	return nil
}
