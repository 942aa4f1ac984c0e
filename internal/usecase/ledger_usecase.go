package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adk/bankledger/internal/domain"
)

// LedgerUseCase orchestrates deposit, withdraw and transfer as atomic units:
// acquire row locks, derive the balance, write the transaction record plus its
// postings, commit or roll back as one. It also serves the two ledger reads.
type LedgerUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	entryRepo       EntryRepository
	idGen           IDGenerator
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	transactionRepo TransactionRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		entryRepo:       entryRepo,
		idGen:           idGen,
	}
}

// opContext detaches the critical section from caller cancellation. Once a
// row lock is held, the write-or-abort sequence must run to completion so the
// lock is never abandoned mid-write; the timeout keeps it bounded.
func opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), DefaultTransactionTimeout)
}

// Deposit credits amount to an account. A single-leg posting: the
// counterparty is the outside world, so one credit entry is written and no
// balance check is needed. The account row is still locked so the fold a
// concurrent withdraw performs observes a settled history.
func (uc *LedgerUseCase) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	return uc.appendSingleLeg(ctx, domain.TransactionKindDeposit, accountID, amount)
}

// Withdraw debits amount from an account, failing with ErrInsufficientFunds
// when the derived balance does not cover it.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	return uc.appendSingleLeg(ctx, domain.TransactionKindWithdraw, accountID, amount)
}

func (uc *LedgerUseCase) appendSingleLeg(ctx context.Context, kind domain.TransactionKind, accountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	opCtx, cancel := opContext(ctx)
	defer cancel()

	tx, err := uc.txManager.Begin(opCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(opCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(opCtx, tx, accountID)
	if err != nil {
		return nil, err
	}

	if err := account.CanTransact(); err != nil {
		return nil, err
	}

	if kind == domain.TransactionKindWithdraw {
		balance, err := uc.entryRepo.SumByAccountTx(opCtx, tx, accountID)
		if err != nil {
			return nil, err
		}

		if balance.LessThan(amount) {
			return nil, domain.ErrInsufficientFunds
		}
	}

	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:        uc.idGen.Generate(),
		Kind:      kind,
		Amount:    amount,
		Currency:  account.Currency,
		Status:    domain.TransactionStatusCompleted,
		CreatedAt: now,
	}

	entry := &domain.LedgerEntry{
		ID:        uc.idGen.Generate(),
		AccountID: accountID,
		Amount:    amount,
		CreatedAt: now,
	}

	if kind == domain.TransactionKindDeposit {
		txn.DestinationAccountID = &account.ID
		entry.Type = domain.EntryTypeCredit
	} else {
		txn.SourceAccountID = &account.ID
		entry.Type = domain.EntryTypeDebit
	}
	entry.TransactionID = txn.ID

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Create(opCtx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Create(opCtx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(opCtx); err != nil {
		return nil, err
	}

	return txn, nil
}

// Transfer moves amount between two accounts as one atomic write set: a debit
// entry on the source and a credit entry on the destination, both tied to a
// single transaction record. Both rows are locked in sorted account-ID order
// so two opposite-direction transfers over the same pair cannot deadlock.
func (uc *LedgerUseCase) Transfer(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) (*domain.Transaction, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	if fromAccountID == toAccountID {
		return nil, domain.ErrSameAccount
	}

	ids := []string{fromAccountID, toAccountID}
	sort.Strings(ids)

	opCtx, cancel := opContext(ctx)
	defer cancel()

	tx, err := uc.txManager.Begin(opCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(opCtx) }()

	accounts, err := uc.accountRepo.GetByIDsForUpdate(opCtx, tx, ids)
	if err != nil {
		return nil, err
	}

	if len(accounts) != len(ids) {
		return nil, domain.ErrAccountNotFound
	}

	var from, to *domain.Account
	for _, a := range accounts {
		switch a.ID {
		case fromAccountID:
			from = a
		case toAccountID:
			to = a
		}
	}

	if from == nil || to == nil {
		return nil, domain.ErrAccountNotFound
	}

	if err := from.CanTransact(); err != nil {
		return nil, err
	}

	if err := to.CanTransact(); err != nil {
		return nil, err
	}

	if from.Currency != to.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	balance, err := uc.entryRepo.SumByAccountTx(opCtx, tx, fromAccountID)
	if err != nil {
		return nil, err
	}

	if balance.LessThan(amount) {
		return nil, domain.ErrInsufficientFunds
	}

	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:                   uc.idGen.Generate(),
		Kind:                 domain.TransactionKindTransfer,
		SourceAccountID:      &from.ID,
		DestinationAccountID: &to.ID,
		Amount:               amount,
		Currency:             from.Currency,
		Status:               domain.TransactionStatusCompleted,
		CreatedAt:            now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.transactionRepo.Create(opCtx, tx, txn); err != nil {
		return nil, err
	}

	debit := &domain.LedgerEntry{
		ID:            uc.idGen.Generate(),
		AccountID:     from.ID,
		TransactionID: txn.ID,
		Type:          domain.EntryTypeDebit,
		Amount:        amount,
		CreatedAt:     now,
	}

	if err := uc.entryRepo.Create(opCtx, tx, debit); err != nil {
		return nil, err
	}

	credit := &domain.LedgerEntry{
		ID:            uc.idGen.Generate(),
		AccountID:     to.ID,
		TransactionID: txn.ID,
		Type:          domain.EntryTypeCredit,
		Amount:        amount,
		CreatedAt:     now,
	}

	if err := uc.entryRepo.Create(opCtx, tx, credit); err != nil {
		return nil, err
	}

	if err := tx.Commit(opCtx); err != nil {
		return nil, err
	}

	return txn, nil
}

// GetBalance derives an account's current balance from its entries. No lock
// is taken; a read racing a write observes either the pre- or post-commit
// state, never a partial write set.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if _, err := uc.accountRepo.GetByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}

	return uc.entryRepo.SumByAccount(ctx, accountID)
}

// GetLedgerInput represents input for listing an account's ledger.
type GetLedgerInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetLedger returns an account's postings, oldest first.
func (uc *LedgerUseCase) GetLedger(ctx context.Context, input GetLedgerInput) ([]*domain.LedgerEntry, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.entryRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}

// GetTransaction retrieves a transaction record by ID.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.transactionRepo.GetByID(ctx, id)
}

// ListTransactionsByAccountInput represents input for listing transactions.
type ListTransactionsByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListTransactionsByAccount lists transactions touching an account.
func (uc *LedgerUseCase) ListTransactionsByAccount(ctx context.Context, input ListTransactionsByAccountInput) ([]*domain.Transaction, error) {
	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.transactionRepo.ListByAccount(ctx, input.AccountID, limit, offset)
}
