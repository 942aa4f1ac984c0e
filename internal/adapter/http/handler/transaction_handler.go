package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/adk/bankledger/internal/adapter/http/dto"
	"github.com/adk/bankledger/internal/domain"
	"github.com/adk/bankledger/internal/infrastructure/metrics"
	"github.com/adk/bankledger/internal/usecase"
)

// LedgerService defines the behavior needed by TransactionHandler.
type LedgerService interface {
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*domain.Transaction, error)
	Transfer(ctx context.Context, fromAccountID, toAccountID string, amount decimal.Decimal) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactionsByAccount(ctx context.Context, input usecase.ListTransactionsByAccountInput) ([]*domain.Transaction, error)
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	ledgerUC LedgerService
	metrics  *metrics.Metrics
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerUC LedgerService, m *metrics.Metrics) *TransactionHandler {
	return &TransactionHandler{
		ledgerUC: ledgerUC,
		metrics:  m,
	}
}

// Deposit credits an account.
func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	start := time.Now()
	txn, err := h.ledgerUC.Deposit(r.Context(), req.AccountID, req.Amount)
	h.record(domain.TransactionKindDeposit, req.Amount, start, err)
	if err != nil {
		writeError(w, mapDomainError(err), "deposit failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Withdraw debits an account.
func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	start := time.Now()
	txn, err := h.ledgerUC.Withdraw(r.Context(), req.AccountID, req.Amount)
	h.record(domain.TransactionKindWithdraw, req.Amount, start, err)
	if err != nil {
		writeError(w, mapDomainError(err), "withdrawal failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Transfer moves money between two accounts.
func (h *TransactionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	start := time.Now()
	txn, err := h.ledgerUC.Transfer(r.Context(), req.SourceAccountID, req.DestinationAccountID, req.Amount)
	h.record(domain.TransactionKindTransfer, req.Amount, start, err)
	if err != nil {
		writeError(w, mapDomainError(err), "transfer failed", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, err := h.ledgerUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// ListByAccount lists transactions touching an account.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	txns, err := h.ledgerUC.ListTransactionsByAccount(r.Context(), usecase.ListTransactionsByAccountInput{
		AccountID: id,
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Total:        int64(len(txns)),
	})
}

func (h *TransactionHandler) record(kind domain.TransactionKind, amount decimal.Decimal, start time.Time, err error) {
	if h.metrics == nil {
		return
	}

	status := "completed"
	if err != nil {
		status = "failed"
		if errors.Is(err, domain.ErrInsufficientFunds) {
			h.metrics.InsufficientFundsRejections.Inc()
		}
	}

	h.metrics.TransactionsProcessed.WithLabelValues(string(kind), status).Inc()
	h.metrics.TransactionDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		h.metrics.TransactionAmount.Observe(amount.InexactFloat64())
	}
}
