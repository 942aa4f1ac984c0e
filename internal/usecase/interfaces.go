package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adk/bankledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByIDForUpdate locks the account row for the duration of tx.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Account, error)
	// GetByIDsForUpdate locks multiple rows; callers must pass ids sorted so
	// every operation acquires locks in the same global order.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for transaction records.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	// ListByAccount returns entries oldest first, ties broken by entry ID.
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	// SumByAccount derives the balance from the account's entries.
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
	// SumByAccountTx derives the balance inside tx, so the fold observes the
	// state protected by the row lock held on the account.
	SumByAccountTx(ctx context.Context, tx Transaction, accountID string) (decimal.Decimal, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
