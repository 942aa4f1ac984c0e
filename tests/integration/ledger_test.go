package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/adk/bankledger/internal/domain"
	"github.com/adk/bankledger/internal/usecase"
	"github.com/adk/bankledger/tests/testutil"
)

func TestLedgerRecordsEveryPosting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	ledgerUC := testDB.NewLedgerUseCase()

	account := testDB.CreateTestAccount(ctx, "user-1", "checking", "USD")
	other := testDB.CreateTestAccount(ctx, "user-2", "checking", "USD")

	if _, err := ledgerUC.Deposit(ctx, account.ID, decimal.NewFromInt(500)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if _, err := ledgerUC.Withdraw(ctx, account.ID, decimal.NewFromInt(120)); err != nil {
		t.Fatalf("withdraw failed: %v", err)
	}
	if _, err := ledgerUC.Transfer(ctx, account.ID, other.ID, decimal.NewFromInt(80)); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	entries, err := ledgerUC.GetLedger(ctx, usecase.GetLedgerInput{AccountID: account.ID, Limit: 10})
	if err != nil {
		t.Fatalf("failed to list ledger: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// Oldest first: the deposit credit, then two debits.
	expectedTypes := []domain.EntryType{domain.EntryTypeCredit, domain.EntryTypeDebit, domain.EntryTypeDebit}
	expectedAmounts := []int64{500, 120, 80}
	for i, entry := range entries {
		if entry.Type != expectedTypes[i] {
			t.Errorf("entry %d: expected type %s, got %s", i, expectedTypes[i], entry.Type)
		}
		if !entry.Amount.Equal(decimal.NewFromInt(expectedAmounts[i])) {
			t.Errorf("entry %d: expected amount %d, got %s", i, expectedAmounts[i], entry.Amount)
		}
		if entry.AccountID != account.ID {
			t.Errorf("entry %d: unexpected account %s", i, entry.AccountID)
		}
	}

	balance, err := ledgerUC.GetBalance(ctx, account.ID)
	if err != nil {
		t.Fatalf("failed to get balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected balance 300, got %s", balance)
	}
}

func TestTransactionHistoryByAccount(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	defer testDB.Cleanup()
	testDB.TruncateAll(ctx)

	ledgerUC := testDB.NewLedgerUseCase()

	account := testDB.CreateTestAccount(ctx, "user-1", "checking", "USD")
	other := testDB.CreateTestAccount(ctx, "user-2", "checking", "USD")

	deposit, err := ledgerUC.Deposit(ctx, account.ID, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	transfer, err := ledgerUC.Transfer(ctx, account.ID, other.ID, decimal.NewFromInt(40))
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	// The transfer shows up on both sides; the deposit only on its account.
	txns, err := ledgerUC.ListTransactionsByAccount(ctx, usecase.ListTransactionsByAccountInput{AccountID: account.ID, Limit: 10})
	if err != nil {
		t.Fatalf("failed to list transactions: %v", err)
	}
	if len(txns) != 2 {
		t.Fatalf("expected 2 transactions for source, got %d", len(txns))
	}

	otherTxns, err := ledgerUC.ListTransactionsByAccount(ctx, usecase.ListTransactionsByAccountInput{AccountID: other.ID, Limit: 10})
	if err != nil {
		t.Fatalf("failed to list transactions: %v", err)
	}
	if len(otherTxns) != 1 {
		t.Fatalf("expected 1 transaction for destination, got %d", len(otherTxns))
	}
	if otherTxns[0].ID != transfer.ID {
		t.Errorf("expected transfer %s, got %s", transfer.ID, otherTxns[0].ID)
	}

	got, err := ledgerUC.GetTransaction(ctx, deposit.ID)
	if err != nil {
		t.Fatalf("failed to get transaction: %v", err)
	}
	if got.Kind != domain.TransactionKindDeposit {
		t.Errorf("expected deposit kind, got %s", got.Kind)
	}
	if got.DestinationAccountID == nil || *got.DestinationAccountID != account.ID {
		t.Errorf("expected destination %s, got %v", account.ID, got.DestinationAccountID)
	}
	if got.SourceAccountID != nil {
		t.Errorf("expected nil source for deposit, got %v", *got.SourceAccountID)
	}
}
