package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/adk/bankledger/internal/domain"
	"github.com/adk/bankledger/internal/usecase"
)

// balanceQuery folds an account's entries into its balance. The balance is
// never stored, it is always derived from this sum.
const balanceQuery = `
	SELECT COALESCE(SUM(CASE WHEN entry_type = 'credit' THEN amount ELSE -amount END), 0)
	FROM ledger_entries
	WHERE account_id = $1`

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

// Create writes an entry inside tx.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO ledger_entries (id, account_id, transaction_id, entry_type, amount, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID,
		entry.AccountID,
		entry.TransactionID,
		string(entry.Type),
		decimalToNumeric(entry.Amount),
		timeToPgTimestamptz(entry.CreatedAt),
	)
	if err != nil {
		return classifyError("entry.create", err)
	}

	return nil
}

// ListByAccount lists an account's entries oldest first, ties broken by ID.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, account_id, transaction_id, entry_type, amount, created_at
		 FROM ledger_entries
		 WHERE account_id = $1
		 ORDER BY created_at, id
		 LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, classifyError("entry.list", err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("entry.list", err)
	}

	return entries, nil
}

// SumByAccount derives the account balance outside any transaction.
func (r *EntryRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	return sumBalance(r.pool.QueryRow(ctx, balanceQuery, accountID))
}

// SumByAccountTx derives the account balance inside tx, observing the state
// protected by the caller's row lock.
func (r *EntryRepository) SumByAccountTx(ctx context.Context, tx usecase.Transaction, accountID string) (decimal.Decimal, error) {
	pgxTx := tx.(*Tx).PgxTx()

	return sumBalance(pgxTx.QueryRow(ctx, balanceQuery, accountID))
}

func sumBalance(row pgx.Row) (decimal.Decimal, error) {
	var sum pgtype.Numeric
	if err := row.Scan(&sum); err != nil {
		return decimal.Zero, classifyError("entry.sum", err)
	}

	return numericToDecimal(sum), nil
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		entry     domain.LedgerEntry
		entryType string
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID,
		&entry.AccountID,
		&entry.TransactionID,
		&entryType,
		&amount,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewStorageError("entry.get", err, false)
		}

		return nil, classifyError("entry.get", err)
	}

	entry.Type = domain.EntryType(entryType)
	entry.Amount = numericToDecimal(amount)
	entry.CreatedAt = createdAt.Time

	return &entry, nil
}
