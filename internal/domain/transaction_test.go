package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name        string
		txn         Transaction
		expectError error
	}{
		{
			name: "valid deposit",
			txn: Transaction{
				Kind:                 TransactionKindDeposit,
				DestinationAccountID: strPtr("acc-1"),
				Amount:               decimal.NewFromInt(100),
			},
			expectError: nil,
		},
		{
			name: "deposit with source set",
			txn: Transaction{
				Kind:                 TransactionKindDeposit,
				SourceAccountID:      strPtr("acc-1"),
				DestinationAccountID: strPtr("acc-2"),
				Amount:               decimal.NewFromInt(100),
			},
			expectError: ErrInvalidTransactionShape,
		},
		{
			name: "valid withdraw",
			txn: Transaction{
				Kind:            TransactionKindWithdraw,
				SourceAccountID: strPtr("acc-1"),
				Amount:          decimal.NewFromInt(50),
			},
			expectError: nil,
		},
		{
			name: "withdraw missing source",
			txn: Transaction{
				Kind:   TransactionKindWithdraw,
				Amount: decimal.NewFromInt(50),
			},
			expectError: ErrInvalidTransactionShape,
		},
		{
			name: "valid transfer",
			txn: Transaction{
				Kind:                 TransactionKindTransfer,
				SourceAccountID:      strPtr("acc-1"),
				DestinationAccountID: strPtr("acc-2"),
				Amount:               decimal.NewFromInt(10),
			},
			expectError: nil,
		},
		{
			name: "transfer to same account",
			txn: Transaction{
				Kind:                 TransactionKindTransfer,
				SourceAccountID:      strPtr("acc-1"),
				DestinationAccountID: strPtr("acc-1"),
				Amount:               decimal.NewFromInt(10),
			},
			expectError: ErrSameAccount,
		},
		{
			name: "transfer missing destination",
			txn: Transaction{
				Kind:            TransactionKindTransfer,
				SourceAccountID: strPtr("acc-1"),
				Amount:          decimal.NewFromInt(10),
			},
			expectError: ErrInvalidTransactionShape,
		},
		{
			name: "zero amount",
			txn: Transaction{
				Kind:                 TransactionKindDeposit,
				DestinationAccountID: strPtr("acc-1"),
				Amount:               decimal.Zero,
			},
			expectError: ErrInvalidAmount,
		},
		{
			name: "negative amount",
			txn: Transaction{
				Kind:                 TransactionKindDeposit,
				DestinationAccountID: strPtr("acc-1"),
				Amount:               decimal.NewFromInt(-100),
			},
			expectError: ErrInvalidAmount,
		},
		{
			name: "unknown kind",
			txn: Transaction{
				Kind:   TransactionKind("refund"),
				Amount: decimal.NewFromInt(10),
			},
			expectError: ErrInvalidTransactionShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.txn.Validate()

			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && err != tt.expectError {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestAccount_CanTransact(t *testing.T) {
	active := &Account{ID: "acc-1", Status: AccountStatusActive}
	if err := active.CanTransact(); err != nil {
		t.Errorf("unexpected error for active account: %v", err)
	}

	closed := &Account{ID: "acc-2", Status: AccountStatusClosed}
	if err := closed.CanTransact(); err != ErrAccountClosed {
		t.Errorf("expected ErrAccountClosed, got %v", err)
	}
}
