package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adk/bankledger/internal/domain"
	"github.com/adk/bankledger/internal/usecase"
)

const transactionColumns = `id, kind, source_account_id, destination_account_id, amount, currency, status, created_at`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create writes a transaction record inside tx.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx,
		`INSERT INTO transactions (id, kind, source_account_id, destination_account_id, amount, currency, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		txn.ID,
		string(txn.Kind),
		txn.SourceAccountID,
		txn.DestinationAccountID,
		decimalToNumeric(txn.Amount),
		txn.Currency,
		string(txn.Status),
		timeToPgTimestamptz(txn.CreatedAt),
	)
	if err != nil {
		return classifyError("transaction.create", err)
	}

	return nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)

	return scanTransaction(row)
}

// ListByAccount lists transactions touching an account, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE source_account_id = $1 OR destination_account_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		accountID, limit, offset)
	if err != nil {
		return nil, classifyError("transaction.list", err)
	}
	defer rows.Close()

	var txns []*domain.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("transaction.list", err)
	}

	return txns, nil
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn       domain.Transaction
		kind      string
		status    string
		amount    pgtype.Numeric
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&kind,
		&txn.SourceAccountID,
		&txn.DestinationAccountID,
		&amount,
		&txn.Currency,
		&status,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, classifyError("transaction.get", err)
	}

	txn.Kind = domain.TransactionKind(kind)
	txn.Status = domain.TransactionStatus(status)
	txn.Amount = numericToDecimal(amount)
	txn.CreatedAt = createdAt.Time

	return &txn, nil
}
